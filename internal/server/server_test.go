package server

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	s := New()

	if s.cache == nil {
		t.Fatal("cache not initialized")
	}
	if s.outputDir == "" {
		t.Error("output directory should default to the temp dir")
	}
	if s.version != "dev" {
		t.Errorf("version: got %q, want dev", s.version)
	}
	if s.debug {
		t.Error("debug should be off by default")
	}
}

func TestNewOptions(t *testing.T) {
	dir := t.TempDir()
	s := New(WithOutputDir(dir), WithVersion("1.2.3"), WithDebug(true), WithStrictHeaders(true))

	if s.outputDir != dir {
		t.Errorf("outputDir: got %s, want %s", s.outputDir, dir)
	}
	if s.version != "1.2.3" {
		t.Errorf("version: got %s, want 1.2.3", s.version)
	}
	if !s.debug {
		t.Error("debug not enabled")
	}

	// WithStrictHeaders(false) keeps the default cache.
	if New(WithStrictHeaders(false)).cache == nil {
		t.Error("cache missing")
	}
}

func TestHandleRequest(t *testing.T) {
	tests := []struct {
		method   string
		id       interface{}
		wantNil  bool
		wantCode int
	}{
		{method: "initialize", id: "init-1"},
		{method: "ping", id: 7},
		{method: "tools/list", id: "list"},
		{method: "notifications/initialized", wantNil: true},
		{method: "resources/list", id: 3, wantCode: codeMethodNotFound},
		{method: "tools/call", id: 4, wantCode: codeInvalidParams},
	}

	s := New()
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: tt.id, Method: tt.method})

			if tt.wantNil {
				if resp != nil {
					t.Errorf("expected no response, got %+v", resp)
				}
				return
			}
			if resp == nil {
				t.Fatal("handleRequest returned nil")
			}
			if resp.JSONRPC != "2.0" || resp.ID != tt.id {
				t.Errorf("envelope: got %s/%v, want 2.0/%v", resp.JSONRPC, resp.ID, tt.id)
			}

			if tt.wantCode == 0 {
				if resp.Error != nil {
					t.Fatalf("unexpected error: %+v", resp.Error)
				}
				if resp.Result == nil {
					t.Error("missing result")
				}
				return
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error: got %+v, want code %d", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestServe_PingHasResult(t *testing.T) {
	var out bytes.Buffer
	if err := New().Serve(strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"result":{}`) {
		t.Errorf("ping response should carry an empty result: %s", out.String())
	}
}

func TestHandleInitialize(t *testing.T) {
	s := New(WithVersion("9.9.9"))
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})

	result := resp.Result.(map[string]interface{})
	if result["protocolVersion"] != protocolVersion {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}
	if _, ok := result["capabilities"].(map[string]interface{})["tools"]; !ok {
		t.Error("tools capability not advertised")
	}

	info := result["serverInfo"].(map[string]interface{})
	if info["name"] != "bmp-tools" || info["version"] != "9.9.9" {
		t.Errorf("serverInfo: got %v", info)
	}
}

// serve runs the server over the given lines and decodes every response.
func serve(t *testing.T, s *Server, lines ...string) []MCPResponse {
	t.Helper()

	var out bytes.Buffer
	if err := s.Serve(strings.NewReader(strings.Join(lines, "\n")), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	var resps []MCPResponse
	dec := json.NewDecoder(&out)
	for dec.More() {
		var r MCPResponse
		if err := dec.Decode(&r); err != nil {
			t.Fatalf("invalid response: %v", err)
		}
		resps = append(resps, r)
	}
	return resps
}

func TestServe(t *testing.T) {
	resps := serve(t, New(),
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`{"jsonrpc":"2.0","id":"two","method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"ping"}`,
	)

	// JSON numbers decode as float64.
	want := []interface{}{float64(1), "two", float64(3)}
	if len(resps) != len(want) {
		t.Fatalf("got %d responses, want %d", len(resps), len(want))
	}
	for i, r := range resps {
		if r.ID != want[i] {
			t.Errorf("response %d: id %v, want %v", i, r.ID, want[i])
		}
		if r.Error != nil {
			t.Errorf("response %d: unexpected error %+v", i, r.Error)
		}
	}
}

func TestServe_ParseErrorContinues(t *testing.T) {
	resps := serve(t, New(),
		`{not json`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	)

	if len(resps) != 2 {
		t.Fatalf("got %d responses, want 2", len(resps))
	}
	if resps[0].Error == nil || resps[0].Error.Code != codeParseError {
		t.Errorf("first response: got %+v, want parse error", resps[0].Error)
	}
	if resps[0].ID != nil {
		t.Errorf("parse error id: got %v, want null", resps[0].ID)
	}
	if resps[1].Error != nil {
		t.Errorf("ping after parse error failed: %+v", resps[1].Error)
	}
}

func TestErrorResponse_Data(t *testing.T) {
	s := New()

	without, err := json.Marshal(s.errorResponse(1, codeMethodNotFound, "Method not found: x", ""))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(without), `"data"`) {
		t.Errorf("empty data should be omitted: %s", without)
	}
	if strings.Contains(string(without), `"result"`) {
		t.Errorf("error response should carry no result: %s", without)
	}

	with, err := json.Marshal(s.errorResponse(1, codeToolFailed, "Tool execution failed", "bmp: file is truncated"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(with), `"data":"bmp: file is truncated"`) {
		t.Errorf("data missing: %s", with)
	}
}
