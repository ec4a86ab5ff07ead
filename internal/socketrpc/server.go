package socketrpc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tempokit/taptick/internal/model"
)

// scannerBufSize is the per-connection scanner buffer. Requests are a
// single short JSON line, so a modest cap is plenty.
const scannerBufSize = 64 * 1024

// Server exposes a model.TempoController over a Unix domain socket
// using JSON-RPC 2.0.
type Server struct {
	socketPath string
	tempo      model.TempoController
	listener   net.Listener
	wg         sync.WaitGroup
	quit       chan struct{}
	stopOnce   sync.Once

	connMu sync.Mutex
	conns  map[net.Conn]struct{}
}

// NewServer creates a new socket RPC server.
func NewServer(socketPath string, tempo model.TempoController) *Server {
	return &Server{
		socketPath: socketPath,
		tempo:      tempo,
		quit:       make(chan struct{}),
		conns:      make(map[net.Conn]struct{}),
	}
}

// Start begins listening on the Unix socket and accepting connections.
func (s *Server) Start() error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0755); err != nil {
		return fmt.Errorf("socketrpc: mkdir: %w", err)
	}

	// Remove stale socket if it exists.
	if _, err := os.Stat(s.socketPath); err == nil {
		conn, dialErr := net.DialTimeout("unix", s.socketPath, 500*time.Millisecond)
		if dialErr != nil {
			// Socket file exists but nobody is listening, so it is stale.
			os.Remove(s.socketPath)
		} else {
			conn.Close()
			return fmt.Errorf("socketrpc: another server is already listening on %s", s.socketPath)
		}
	}

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("socketrpc: listen: %w", err)
	}
	s.listener = ln

	s.wg.Add(1)
	go s.acceptLoop()

	log.Printf("socketrpc: listening on %s", s.socketPath)
	return nil
}

// Stop closes the listener and every accepted connection, waits for
// handlers to drain, and removes the socket file. Closing the conns is
// what unblocks handlers idling in scanner.Scan; without it Wait would
// hang until every client hung up on its own. Safe to call more than
// once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		if s.listener != nil {
			s.listener.Close()
		}
		s.connMu.Lock()
		for conn := range s.conns {
			conn.Close()
		}
		s.connMu.Unlock()
		s.wg.Wait()
		os.Remove(s.socketPath)
	})
}

func (s *Server) trackConn(conn net.Conn) {
	s.connMu.Lock()
	s.conns[conn] = struct{}{}
	s.connMu.Unlock()
}

func (s *Server) untrackConn(conn net.Conn) {
	s.connMu.Lock()
	delete(s.conns, conn)
	s.connMu.Unlock()
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return
			default:
				log.Printf("socketrpc: accept error: %v", err)
				// Continue on transient errors (e.g., fd limit) instead of
				// killing the entire accept loop.
				continue
			}
		}
		s.trackConn(conn)
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrackConn(conn)
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), scannerBufSize)
	encoder := json.NewEncoder(conn)

	for scanner.Scan() {
		select {
		case <-s.quit:
			return
		default:
		}

		var req Request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			resp := Response{JSONRPC: "2.0", ID: 0, Error: &RPCError{Code: -32700, Message: "parse error"}}
			encoder.Encode(resp)
			continue
		}

		resp := s.dispatch(req)
		if err := encoder.Encode(resp); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(req Request) Response {
	resp := Response{JSONRPC: "2.0", ID: req.ID}

	marshalResult := func(v interface{}, err error) Response {
		if err != nil {
			resp.Error = &RPCError{Code: -32000, Message: err.Error()}
			return resp
		}
		data, merr := json.Marshal(v)
		if merr != nil {
			resp.Error = &RPCError{Code: -32603, Message: merr.Error()}
			return resp
		}
		resp.Result = data
		return resp
	}

	invalidParams := func(err error) Response {
		resp.Error = &RPCError{Code: -32602, Message: fmt.Sprintf("invalid params: %v", err)}
		return resp
	}

	switch req.Method {
	case "Tap":
		return marshalResult(s.tempo.Tap())

	case "Snapshot":
		return marshalResult(s.tempo.Snapshot())

	case "SetMeter":
		var p struct{ Meter string }
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return invalidParams(err)
		}
		meter, err := model.ParseMeter(p.Meter)
		if err != nil {
			return invalidParams(err)
		}
		return marshalResult(s.tempo.SetMeter(meter))

	case "SetMethod":
		var p struct{ Method string }
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return invalidParams(err)
		}
		method, err := model.ParseCountMethod(p.Method)
		if err != nil {
			return invalidParams(err)
		}
		return marshalResult(s.tempo.SetMethod(method))

	default:
		resp.Error = &RPCError{Code: -32601, Message: fmt.Sprintf("method not found: %s", req.Method)}
		return resp
	}
}
