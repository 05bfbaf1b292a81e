// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package mcp serves the tool catalog over line-delimited JSON-RPC 2.0 on a
// pair of streams, normally stdin and stdout. Requests are handled one at a
// time in arrival order.
package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bzm-mcp/cli/internal/envelope"
	"bzm-mcp/cli/internal/tools"
)

// ServerName is reported in serverInfo.
const ServerName = "bzm-mcp"

// ProtocolVersion is answered when the client does not ask for one.
const ProtocolVersion = "2025-06-18"

// JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
)

const maxLineSize = 16 << 20

// Options configures a Server.
type Options struct {
	Version string
	Logger  *zap.Logger
}

// Server answers JSON-RPC requests against a tool catalog.
type Server struct {
	catalog *tools.Catalog
	version string
	log     *zap.Logger
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string { return fmt.Sprintf("jsonrpc %d: %s", e.Code, e.Message) }

// NewServer creates a Server.
func NewServer(catalog *tools.Catalog, opts Options) *Server {
	s := &Server{catalog: catalog, version: opts.Version, log: opts.Logger}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.version == "" {
		s.version = "dev"
	}
	return s
}

// Serve reads requests from r and writes responses to w until r is exhausted
// or ctx is done. Cancellation is noticed while r is idle; the goroutine
// reading r then stays parked in Read until r yields or is closed.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	log := s.log.With(zap.String("session_id", uuid.NewString()))
	log.Info("tool server started", zap.String("version", s.version))

	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			select {
			case lines <- bytes.Clone(line):
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	enc := json.NewEncoder(w)
	for {
		select {
		case <-ctx.Done():
			log.Info("tool server cancelled")
			return ctx.Err()
		case line, ok := <-lines:
			if err := ctx.Err(); err != nil {
				return err
			}
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("read request: %w", err)
				}
				log.Info("tool server stopped")
				return nil
			}
			resp := s.handle(ctx, log, line)
			if resp == nil {
				continue
			}
			if err := enc.Encode(resp); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}
	}
}

// handle returns nil for notifications.
func (s *Server) handle(ctx context.Context, log *zap.Logger, line []byte) *response {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		log.Warn("unparseable request", zap.Error(err))
		return &response{JSONRPC: "2.0", ID: json.RawMessage("null"), Error: &rpcError{Code: CodeParseError, Message: "Parse error"}}
	}
	notification := len(req.ID) == 0
	if req.JSONRPC != "2.0" || req.Method == "" {
		if notification {
			return nil
		}
		return &response{JSONRPC: "2.0", ID: req.ID, Error: &rpcError{Code: CodeInvalidRequest, Message: "Invalid Request"}}
	}

	log.Debug("request", zap.String("method", req.Method), zap.Bool("notification", notification))
	result, err := s.dispatch(ctx, req)
	if notification {
		return nil
	}
	if err != nil {
		return &response{JSONRPC: "2.0", ID: req.ID, Error: err}
	}
	if result == nil {
		// A reply needs a result or an error; notification methods sent with an id get {}.
		result = struct{}{}
	}
	return &response{JSONRPC: "2.0", ID: req.ID, Result: result}
}

func (s *Server) dispatch(ctx context.Context, req request) (any, *rpcError) {
	switch req.Method {
	case "initialize":
		return s.initialize(req.Params), nil
	case "notifications/initialized", "notifications/cancelled":
		return nil, nil
	case "ping":
		return struct{}{}, nil
	case "tools/list":
		return s.listTools(), nil
	case "tools/call":
		return s.callTool(ctx, req.Params)
	}
	return nil, &rpcError{Code: CodeMethodNotFound, Message: "Method not found: " + req.Method}
}

func (s *Server) initialize(params json.RawMessage) any {
	var p struct {
		ProtocolVersion string `json:"protocolVersion"`
	}
	_ = json.Unmarshal(params, &p)
	version := p.ProtocolVersion
	if version == "" {
		version = ProtocolVersion
	}
	return map[string]any{
		"protocolVersion": version,
		"capabilities": map[string]any{
			"tools": map[string]any{"listChanged": false},
		},
		"serverInfo": map[string]any{
			"name":    ServerName,
			"version": s.version,
		},
		"instructions": tools.Instructions,
	}
}

type toolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func (s *Server) listTools() any {
	list := s.catalog.List()
	out := make([]toolInfo, 0, len(list))
	for _, t := range list {
		out = append(out, toolInfo{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema()})
	}
	return map[string]any{"tools": out}
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type callResult struct {
	Content           []textContent    `json:"content"`
	StructuredContent *envelope.Result `json:"structuredContent"`
	IsError           bool             `json:"isError"`
}

func (s *Server) callTool(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	var p struct {
		Name      string `json:"name"`
		Arguments struct {
			Action string         `json:"action"`
			Args   map[string]any `json:"args"`
		} `json:"arguments"`
	}
	dec := json.NewDecoder(bytes.NewReader(params))
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return nil, &rpcError{Code: CodeInvalidParams, Message: "Invalid params: " + err.Error()}
	}
	tool, ok := s.catalog.Get(p.Name)
	if !ok {
		return nil, &rpcError{Code: CodeInvalidParams, Message: "Unknown tool: " + p.Name}
	}

	res := tool.Call(ctx, p.Arguments.Action, p.Arguments.Args)
	text, err := json.Marshal(res)
	if err != nil {
		text = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
	}
	return callResult{
		Content:           []textContent{{Type: "text", Text: string(text)}},
		StructuredContent: res,
		IsError:           res.Failed(),
	}, nil
}
