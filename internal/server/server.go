package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ironsheep/bmp-tools/internal/imaging"
)

// Server answers MCP requests with BMP tools backed by a shared image cache.
type Server struct {
	cache     *imaging.ImageCache
	outputDir string
	version   string
	debug     bool
}

// Option configures a Server.
type Option func(*Server)

// WithOutputDir sets where results without an explicit output path are written.
func WithOutputDir(dir string) Option {
	return func(s *Server) {
		s.outputDir = dir
	}
}

// WithStrictHeaders makes the server validate BMP headers before decoding.
func WithStrictHeaders(strict bool) Option {
	return func(s *Server) {
		if strict {
			s.cache = imaging.NewImageCache(imaging.WithStrictHeaders())
		}
	}
}

// WithVersion sets the version reported in serverInfo.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithDebug enables per-request logging.
func WithDebug(debug bool) Option {
	return func(s *Server) {
		s.debug = debug
	}
}

// MCPRequest is one line of input. A nil ID marks a notification.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse carries either Result or Error, never both.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// JSON-RPC 2.0 error codes. codeToolFailed is in the implementation-defined range.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// MCPError is the error member of a response. Data carries the Go error text.
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server with an empty image cache.
//
// Results without an explicit output path go to os.TempDir unless
// WithOutputDir is given. The server does nothing until Run or Serve is called.
func New(opts ...Option) *Server {
	s := &Server{
		cache:     imaging.NewImageCache(),
		outputDir: os.TempDir(),
		version:   "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves stdin and stdout until stdin is closed.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads newline-delimited requests from r and writes responses to w
// until r is exhausted.
//
// Each line is one JSON-RPC request. Notifications get no response. A line
// that is not valid JSON gets a parse error and the loop continues. Write
// failures are logged and do not stop the loop.
//
// Returns nil when r reaches EOF, or the read error, including a line longer
// than 1 MiB.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestSize)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		if resp := s.dispatch(scanner.Bytes()); resp != nil {
			if err := enc.Encode(resp); err != nil {
				log.Printf("Failed to write response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}
	return nil
}

// maxRequestSize bounds a single request line.
const maxRequestSize = 1 << 20

// dispatch decodes one request line and handles it.
func (s *Server) dispatch(line []byte) *MCPResponse {
	var req MCPRequest
	if err := json.Unmarshal(line, &req); err != nil {
		log.Printf("Failed to parse request: %v", err)
		return s.errorResponse(nil, codeParseError, "Parse error", err.Error())
	}

	if s.debug {
		log.Printf("Request %v: %s", req.ID, req.Method)
	}
	return s.handleRequest(&req)
}

// handleRequest returns nil for notifications.
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		// An empty map would be dropped by omitempty.
		return result(req.ID, struct{}{})
	default:
		return s.errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

// protocolVersion is the MCP revision this server implements.
const protocolVersion = "2024-11-05"

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return result(req.ID, map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities":    map[string]interface{}{"tools": map[string]interface{}{}},
		"serverInfo":      map[string]interface{}{"name": "bmp-tools", "version": s.version},
	})
}

func result(id interface{}, v interface{}) *MCPResponse {
	return &MCPResponse{JSONRPC: "2.0", ID: id, Result: v}
}
