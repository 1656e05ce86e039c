// Package handler implements the HTTP layer over the tool registry.
//
// Tools are enumerable at GET /api/tools and invoked with POST
// /api/tools/{name}. Errors come back as JSON with the failure kind so
// callers can distinguish an unknown device from a device that timed out.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"netlens/internal/domain"
	"netlens/internal/tool"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// ToolHandler serves tool enumeration and invocation.
type ToolHandler struct {
	registry *tool.Registry
}

// NewToolHandler creates a handler over the given registry.
func NewToolHandler(registry *tool.Registry) *ToolHandler {
	return &ToolHandler{registry: registry}
}

// ListTools returns every tool's name, description, and parameter schema.
func (h *ToolHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"tools": h.registry.Describe()}, http.StatusOK)
}

// ExecuteTool invokes one tool by name with a JSON argument object.
func (h *ToolHandler) ExecuteTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		writeError(w, "Tool name required", "", http.StatusBadRequest)
		return
	}

	args := map[string]any{}
	if r.Body != nil {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, "Failed to read request body", err.Error(), http.StatusBadRequest)
			return
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &args); err != nil {
				writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
				return
			}
		}
	}

	result, err := h.registry.Execute(r.Context(), name, args)
	if err != nil {
		log.Printf("Tool %s failed: %v", name, err)
		status, kind := statusFor(err)
		writeErrorKind(w, "Tool execution failed", err.Error(), kind, status)
		return
	}

	writeJSON(w, result, http.StatusOK)
}

// ListDevices is a convenience alias for the list_devices tool.
func (h *ToolHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	result, err := h.registry.Execute(r.Context(), "list_devices", nil)
	if err != nil {
		log.Printf("Failed to list devices: %v", err)
		writeError(w, "Failed to list devices", err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, result, http.StatusOK)
}

// statusFor maps a failure to an HTTP status and its kind string.
func statusFor(err error) (int, string) {
	var opErr *domain.OpError
	if !errors.As(err, &opErr) {
		return http.StatusBadRequest, ""
	}
	switch opErr.Kind {
	case domain.FailureNotFound:
		return http.StatusNotFound, string(opErr.Kind)
	case domain.FailureConnectTimeout, domain.FailureCommandTimeout:
		return http.StatusGatewayTimeout, string(opErr.Kind)
	case domain.FailureAuthFailure, domain.FailureTransportError, domain.FailureParse:
		return http.StatusBadGateway, string(opErr.Kind)
	}
	return http.StatusInternalServerError, string(opErr.Kind)
}

func writeJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, msg, details string, statusCode int) {
	writeErrorKind(w, msg, details, "", statusCode)
}

func writeErrorKind(w http.ResponseWriter, msg, details, kind string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg,
		Details: details,
		Kind:    kind,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
