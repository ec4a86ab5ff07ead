package socketrpc

import (
	"encoding/json"
	"testing"

	"github.com/tempokit/taptick/internal/model"
)

// stubController returns fixed snapshots for dispatch unit testing.
type stubController struct {
	taps int
}

func (c *stubController) snap() model.Snapshot {
	return model.Snapshot{
		StateName:           "counting",
		MeterName:           "common",
		MethodName:          "beat",
		CPM:                 120,
		BPM:                 120,
		MPM:                 30,
		StatusLabel:         "Again",
		ShowMeasureControls: true,
		IntervalCount:       c.taps,
	}
}

func (c *stubController) Tap() (model.Snapshot, error) {
	c.taps++
	return c.snap(), nil
}
func (c *stubController) Snapshot() (model.Snapshot, error) { return c.snap(), nil }
func (c *stubController) SetMeter(m model.Meter) (model.Snapshot, error) {
	s := c.snap()
	s.MeterName = m.String()
	return s, nil
}
func (c *stubController) SetMethod(m model.CountMethod) (model.Snapshot, error) {
	s := c.snap()
	s.MethodName = m.String()
	return s, nil
}

func newTestDispatcher() *Server {
	return &Server{tempo: &stubController{}}
}

func TestDispatch_AllMethods(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	tests := []struct {
		method string
		params string
	}{
		{"Tap", `{}`},
		{"Snapshot", `{}`},
		{"SetMeter", `{"Meter":"waltz"}`},
		{"SetMethod", `{"Method":"measure"}`},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			req := Request{
				JSONRPC: "2.0",
				ID:      1,
				Method:  tt.method,
				Params:  json.RawMessage(tt.params),
			}
			resp := srv.dispatch(req)
			if resp.Error != nil {
				t.Fatalf("dispatch(%s) error: %s", tt.method, resp.Error.Message)
			}
			if resp.Result == nil {
				t.Fatalf("dispatch(%s) returned nil result", tt.method)
			}
			if resp.JSONRPC != "2.0" {
				t.Errorf("JSONRPC = %q, want 2.0", resp.JSONRPC)
			}
			if resp.ID != 1 {
				t.Errorf("ID = %d, want 1", resp.ID)
			}
		})
	}
}

func TestDispatch_MethodNotFound(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	resp := srv.dispatch(Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "NonExistentMethod",
		Params:  json.RawMessage(`{}`),
	})
	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("error code = %d, want -32601", resp.Error.Code)
	}
}

func TestDispatch_InvalidParams(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	tests := []struct {
		name   string
		method string
		params string
	}{
		{"malformed JSON", "SetMeter", `not json`},
		{"unknown meter", "SetMeter", `{"Meter":"polka"}`},
		{"unknown method value", "SetMethod", `{"Method":"bar"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := srv.dispatch(Request{
				JSONRPC: "2.0",
				ID:      2,
				Method:  tt.method,
				Params:  json.RawMessage(tt.params),
			})
			if resp.Error == nil {
				t.Fatal("expected error")
			}
			if resp.Error.Code != -32602 {
				t.Errorf("error code = %d, want -32602 (invalid params)", resp.Error.Code)
			}
		})
	}
}

func TestDispatch_PreservesRequestID(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	for _, id := range []int{0, 1, 42, 9999} {
		resp := srv.dispatch(Request{
			JSONRPC: "2.0",
			ID:      id,
			Method:  "Snapshot",
			Params:  json.RawMessage(`{}`),
		})
		if resp.ID != id {
			t.Errorf("request ID %d: response ID = %d", id, resp.ID)
		}
	}
}
