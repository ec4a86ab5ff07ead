package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

var (
	chartTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("7"))

	chartBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("39"))
)

// renderChart renders the recent BPM samples as a bar chart, one bar
// per display tick, newest on the right.
func (m *Model) renderChart() string {
	chartWidth := m.contentWidth() - 4
	chartHeight := m.height - 12
	if chartHeight < 4 {
		chartHeight = 4
	}
	if chartHeight > 10 {
		chartHeight = 10
	}

	var header string
	if peak := peakBPM(m.bpmHistory); peak > 0 {
		header = fmt.Sprintf("Tempo history    Peak: %.1f BPM", peak)
	} else {
		header = "Tempo history"
	}
	title := chartTitleStyle.Render(header)

	if len(m.bpmHistory) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, helpStyle.Render("No taps yet"))
	}

	maxBars := chartWidth / 2
	if maxBars < 1 {
		maxBars = 1
	}

	samples := m.bpmHistory
	if len(samples) > maxBars {
		samples = samples[len(samples)-maxBars:]
	}

	bc := barchart.New(chartWidth, chartHeight,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(1),
		barchart.WithNoAxis(),
	)

	// Left-pad with empty bars so the series grows in from the right.
	for i := len(samples); i < maxBars; i++ {
		bc.Push(barchart.BarData{
			Label:  "",
			Values: []barchart.BarValue{{Name: "EMPTY", Value: 0, Style: chartBarStyle}},
		})
	}
	for _, bpm := range samples {
		bc.Push(barchart.BarData{
			Label:  "",
			Values: []barchart.BarValue{{Name: "BPM", Value: bpm, Style: chartBarStyle}},
		})
	}

	bc.Draw()
	chart := strings.TrimRight(bc.View(), "\n")

	return lipgloss.JoinVertical(lipgloss.Left, title, chart)
}

func peakBPM(history []float64) float64 {
	var peak float64
	for _, v := range history {
		if v > peak {
			peak = v
		}
	}
	return peak
}
