// Package transport adapts the tool registry to JSON-RPC 2.0 clients. The
// Dispatcher implements the protocol method surface once; the stdio, HTTP,
// and WebSocket adapters differ only in how messages are framed.
package transport

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agentdesk/agentdesk/internal/tools"
)

const protocolVersion = "2024-11-05"

// JSON-RPC 2.0 error codes used by the protocol surface.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type Response struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
	Capabilities    ServerCapabilities `json:"capabilities"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type ServerCapabilities struct {
	Tools *ToolsCapability `json:"tools,omitempty"`
}

type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

type ListToolsResult struct {
	Tools []tools.Descriptor `json:"tools"`
}

type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Dispatcher implements the JSON-RPC method switch shared by all transports.
type Dispatcher struct {
	registry  *tools.Registry
	log       *zap.Logger
	info      ServerInfo
	sessionID string
}

func NewDispatcher(registry *tools.Registry, log *zap.Logger, info ServerInfo) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	sessionID := uuid.NewString()
	return &Dispatcher{
		registry:  registry,
		log:       log.With(zap.String("session", sessionID)),
		info:      info,
		sessionID: sessionID,
	}
}

// SessionID identifies this server process in logs.
func (d *Dispatcher) SessionID() string {
	return d.sessionID
}

// Handle processes a single request. A nil response means the request was a
// notification and nothing must be written back.
func (d *Dispatcher) Handle(ctx context.Context, req *Request) *Response {
	switch req.Method {
	case "initialize":
		return d.handleInitialize(req)
	case "ping":
		return &Response{JSONRPC: "2.0", ID: req.ID, Result: struct{}{}}
	case "tools/list":
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  ListToolsResult{Tools: d.registry.List()},
		}
	case "tools/call":
		return d.handleCallTool(ctx, req)
	case "notifications/initialized":
		return nil
	default:
		d.log.Warn("method not found", zap.String("method", req.Method))
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &RPCError{Code: codeMethodNotFound, Message: "Method not found"},
		}
	}
}

func (d *Dispatcher) handleInitialize(req *Request) *Response {
	d.log.Info("client initialized")
	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: InitializeResult{
			ProtocolVersion: protocolVersion,
			ServerInfo:      d.info,
			Capabilities:    ServerCapabilities{Tools: &ToolsCapability{}},
		},
	}
}

func (d *Dispatcher) handleCallTool(ctx context.Context, req *Request) *Response {
	var params CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &RPCError{Code: codeInvalidParams, Message: "Invalid params"},
		}
	}
	d.log.Info("tool call", zap.String("tool", params.Name))
	result := d.registry.Call(ctx, params.Name, params.Arguments)
	return &Response{JSONRPC: "2.0", ID: req.ID, Result: result}
}

func parseErrorResponse(id any) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &RPCError{Code: codeParseError, Message: "Parse error"},
	}
}
