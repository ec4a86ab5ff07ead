package socketrpc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/tempokit/taptick/internal/model"
)

// Client implements model.TempoController over a Unix domain socket
// using JSON-RPC 2.0.
type Client struct {
	conn    net.Conn
	mu      sync.Mutex
	nextID  int
	scanner *bufio.Scanner
	encoder *json.Encoder
}

// Dial connects to the socket RPC server at the given path.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("socketrpc: dial: %w", err)
	}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), scannerBufSize)
	return &Client{
		conn:    conn,
		scanner: scanner,
		encoder: json.NewEncoder(conn),
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// call performs a JSON-RPC call and unmarshals the result into dest.
func (c *Client) call(method string, params interface{}, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID

	paramsData, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("socketrpc: marshal params: %w", err)
	}

	req := Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  paramsData,
	}

	c.conn.SetDeadline(time.Now().Add(10 * time.Second))
	defer c.conn.SetDeadline(time.Time{})

	if err := c.encoder.Encode(req); err != nil {
		return fmt.Errorf("socketrpc: send: %w", err)
	}

	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return fmt.Errorf("socketrpc: read: %w", err)
		}
		return fmt.Errorf("socketrpc: connection closed")
	}

	var resp Response
	if err := json.Unmarshal(c.scanner.Bytes(), &resp); err != nil {
		return fmt.Errorf("socketrpc: unmarshal response: %w", err)
	}

	if resp.Error != nil {
		return resp.Error
	}

	if dest != nil {
		if err := json.Unmarshal(resp.Result, dest); err != nil {
			return fmt.Errorf("socketrpc: unmarshal result: %w", err)
		}
	}
	return nil
}

// callSnapshot wraps call for the methods that all return a Snapshot.
// Wire snapshots carry only string names for state/meter/method; the
// enum fields are rehydrated so consumers can compare against model
// constants.
func (c *Client) callSnapshot(method string, params interface{}) (model.Snapshot, error) {
	var snap model.Snapshot
	if err := c.call(method, params, &snap); err != nil {
		return model.Snapshot{}, err
	}
	rehydrate(&snap)
	return snap, nil
}

func rehydrate(snap *model.Snapshot) {
	switch snap.StateName {
	case "first-click":
		snap.State = model.StateFirstClick
	case "counting":
		snap.State = model.StateCounting
	case "done":
		snap.State = model.StateDone
	default:
		snap.State = model.StateInitial
	}
	if m, err := model.ParseMeter(snap.MeterName); err == nil {
		snap.Meter = m
	}
	if c, err := model.ParseCountMethod(snap.MethodName); err == nil {
		snap.Method = c
	}
}

func (c *Client) Tap() (model.Snapshot, error) {
	return c.callSnapshot("Tap", map[string]interface{}{})
}

func (c *Client) Snapshot() (model.Snapshot, error) {
	return c.callSnapshot("Snapshot", map[string]interface{}{})
}

func (c *Client) SetMeter(m model.Meter) (model.Snapshot, error) {
	return c.callSnapshot("SetMeter", map[string]interface{}{"Meter": m.String()})
}

func (c *Client) SetMethod(method model.CountMethod) (model.Snapshot, error) {
	return c.callSnapshot("SetMethod", map[string]interface{}{"Method": method.String()})
}
