// Package wire defines the WebSocket protocol for the REPL.
package wire

import (
	"encoding/json"

	"github.com/matthewbaird/umlgen/internal/repl/autocomplete"
)

// Message types.
const (
	TypeExecute      = "execute"
	TypeAutocomplete = "autocomplete"
	TypePing         = "ping"

	TypeSession     = "session"
	TypeOutput      = "output"
	TypeDone        = "done"
	TypeError       = "error"
	TypeCompletions = "completions"
	TypePong        = "pong"
)

// ── Client → Server messages ────────────────────────────────────────────────

// ClientMessage is the envelope for all client-to-server WebSocket messages.
type ClientMessage struct {
	Type string          `json:"type"`
	ID   string          `json:"id"`   // Client-assigned request ID
	Data json.RawMessage `json:"data,omitempty"`
}

// ExecuteData is the payload for "execute" messages.
type ExecuteData struct {
	Line string `json:"line"`
}

// AutocompleteData is the payload for "autocomplete" messages.
type AutocompleteData struct {
	Line   string `json:"line"`
	Cursor int    `json:"cursor"`
}

// ── Server → Client messages ────────────────────────────────────────────────

// ServerMessage is the envelope for all server-to-client WebSocket messages.
type ServerMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"` // Echoes client ID
	Data      any    `json:"data,omitempty"`
}

// DoneData signals completion of a line.
type DoneData struct {
	Elapsed string `json:"elapsed"`
}

// ErrorData carries an error message and any hints attached to it.
type ErrorData struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Hints   []string `json:"hints,omitempty"`
}

// CompletionsData carries autocomplete suggestions.
type CompletionsData struct {
	Items []autocomplete.CompletionItem `json:"items"`
}

// SessionData carries session information.
type SessionData struct {
	SessionID string `json:"session_id"`
}
