package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/medrehab/clinic-concierge/internal/booking"
	"github.com/medrehab/clinic-concierge/internal/locations"
	"github.com/medrehab/clinic-concierge/pkg/logging"
)

// JSON-RPC 2.0 error codes used by the MCP envelope.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// MCPHandler exposes the tools over the Model Context Protocol's JSON-RPC
// envelope: tools/list advertises the schemas, tools/call dispatches to the
// same operations the REST endpoints use.
type MCPHandler struct {
	tools  *ToolsHandler
	logger *logging.Logger
}

func NewMCPHandler(tools *ToolsHandler, logger *logging.Logger) *MCPHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &MCPHandler{tools: tools, logger: logger}
}

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// toolResult is the MCP tool response: speakable text content blocks.
type toolResult struct {
	Content []toolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type toolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func textResult(text string) toolResult {
	return toolResult{Content: []toolContent{{Type: "text", Text: text}}}
}

// Handle serves POST /mcp.
func (h *MCPHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, rpcResponse{
			JSONRPC: "2.0",
			Error:   &rpcError{Code: codeParseError, Message: "parse error"},
		})
		return
	}

	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}
	switch req.Method {
	case "tools/list":
		resp.Result = map[string]any{"tools": toolDefinitions()}
	case "tools/call":
		result, rpcErr := h.dispatch(r.Context(), req.Params)
		if rpcErr != nil {
			resp.Error = rpcErr
		} else {
			resp.Result = result
		}
	default:
		resp.Error = &rpcError{
			Code:    codeMethodNotFound,
			Message: fmt.Sprintf("method %q not found", req.Method),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *MCPHandler) dispatch(ctx context.Context, raw json.RawMessage) (toolResult, *rpcError) {
	var params toolCallParams
	if err := json.Unmarshal(raw, &params); err != nil || params.Name == "" {
		return toolResult{}, &rpcError{Code: codeInvalidParams, Message: "tools/call requires a tool name"}
	}

	switch params.Name {
	case "find_location_by_postal_code":
		var args FindLocationRequest
		if len(params.Arguments) > 0 {
			if err := json.Unmarshal(params.Arguments, &args); err != nil {
				return toolResult{}, &rpcError{Code: codeInvalidParams, Message: "invalid arguments"}
			}
		}
		result, err := h.tools.matchLocation(args.PostalCode)
		if err != nil {
			return toolResult{}, &rpcError{Code: codeInvalidParams, Message: "postal_code is required"}
		}
		return textResult(result.Summary), nil

	case "get_all_locations":
		return textResult(locations.DirectorySummary(h.tools.snapshot.Current())), nil

	case "book_appointment":
		var req booking.Request
		if len(params.Arguments) > 0 {
			if err := json.Unmarshal(params.Arguments, &req); err != nil {
				return toolResult{}, &rpcError{Code: codeInvalidParams, Message: "invalid arguments"}
			}
		}
		resolved, err := h.tools.orchestrator.Book(ctx, req)
		if err != nil {
			return h.bookingToolError(err)
		}
		return textResult(resolved.Summary), nil

	default:
		return toolResult{}, &rpcError{
			Code:    codeMethodNotFound,
			Message: fmt.Sprintf("tool %q not found", params.Name),
		}
	}
}

// bookingToolError keeps relay-ready failures inside the tool result so the
// assistant can speak them; only unexpected failures become RPC errors.
func (h *MCPHandler) bookingToolError(err error) (toolResult, *rpcError) {
	var serviceErr *booking.ServiceNotFoundError
	switch {
	case errors.Is(err, booking.ErrInvalidRequest):
		return toolResult{}, &rpcError{Code: codeInvalidParams, Message: err.Error()}
	case errors.Is(err, booking.ErrBranchNotFound), errors.As(err, &serviceErr):
		result := textResult(speakableBookingFailure(err))
		result.IsError = true
		return result, nil
	default:
		h.logger.Error("mcp booking failed", "error", err)
		return toolResult{}, &rpcError{Code: codeInternalError, Message: "internal error"}
	}
}

func speakableBookingFailure(err error) string {
	if errors.Is(err, booking.ErrBranchNotFound) {
		return "I couldn't find that clinic location. Which MedRehab Group clinic would you like to visit?"
	}
	return "That clinic doesn't have any bookable services right now. Please call the clinic directly."
}

func toolDefinitions() []map[string]any {
	return []map[string]any{
		{
			"name":        "find_location_by_postal_code",
			"description": "Find the nearest MedRehab Group clinics for a postal code or city name.",
			"inputSchema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"postal_code": map[string]any{
						"type":        "string",
						"description": "Postal code (e.g. L1V 1B5) or city name (e.g. Toronto)",
					},
				},
				"required": []string{"postal_code"},
			},
		},
		{
			"name":        "get_all_locations",
			"description": "List every MedRehab Group clinic location.",
			"inputSchema": map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			"name":        "book_appointment",
			"description": "Book an appointment at a MedRehab Group clinic.",
			"inputSchema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"branch_name":       map[string]any{"type": "string"},
					"service_name":      map[string]any{"type": "string"},
					"service_category":  map[string]any{"type": "string"},
					"practitioner_name": map[string]any{"type": "string"},
					"date":              map[string]any{"type": "string"},
					"time":              map[string]any{"type": "string"},
					"customer": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"first_name": map[string]any{"type": "string"},
							"last_name":  map[string]any{"type": "string"},
							"email":      map[string]any{"type": "string"},
							"phone":      map[string]any{"type": "string"},
							"dob":        map[string]any{"type": "string"},
							"gender":     map[string]any{"type": "string"},
						},
						"required": []string{"first_name"},
					},
				},
				"required": []string{"branch_name", "service_name", "date", "time", "customer"},
			},
		},
	}
}
