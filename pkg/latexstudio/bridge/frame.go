package bridge

import "encoding/json"

// FrameType identifies the kind of frame sent over the WebSocket connection.
type FrameType string

const (
	FrameTypeRequest  FrameType = "request"
	FrameTypeResponse FrameType = "response"
)

// Frame is the envelope exchanged between the front end and the bridge.
type Frame struct {
	Type    FrameType       `json:"type"`
	ID      uint64          `json:"id,omitempty"`      // request/response correlation ID
	Cmd     string          `json:"cmd,omitempty"`     // command name (request only)
	Args    json.RawMessage `json:"args,omitempty"`    // command arguments (request only)
	Payload json.RawMessage `json:"payload,omitempty"` // command result (response only)
	Error   string          `json:"error,omitempty"`   // error message (response only)
}
