package socketrpc

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// JSON-RPC 2.0 Method Reference
//
// The socket RPC server exposes model.TempoController over a Unix
// domain socket. Every method returns the post-operation Snapshot so a
// remote caller sees exactly what an in-process caller would.
//
//   Method       Params                Result
//   ─────────    ──────────────────    ────────
//   Tap          (none)                Snapshot
//   Snapshot     (none)                Snapshot
//   SetMeter     {Meter: string}       Snapshot
//   SetMethod    {Method: string}      Snapshot
//
// Meter strings: beat, double, waltz, common.
// Method strings: beat, measure.
//
// Error codes follow JSON-RPC 2.0:
//   -32700  Parse error (malformed JSON)
//   -32601  Method not found
//   -32602  Invalid params (including unknown meter/method values)
//   -32603  Internal error (marshal failure)
//   -32000  Application error

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string { return e.Message }

// DefaultSocketPath returns the default Unix socket path.
// It prefers $XDG_RUNTIME_DIR/taptick/taptick.sock, falling back to
// ~/.local/state/taptick/taptick.sock.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "taptick", "taptick.sock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/taptick.sock"
	}
	return filepath.Join(home, ".local", "state", "taptick", "taptick.sock")
}
