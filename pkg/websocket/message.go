package websocket

import "time"

// Envelope wraps every message so the client can dispatch on Type.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type RequestEventPayload struct {
	RequestID    uint64  `json:"request_id"`
	Title        string  `json:"title,omitempty"`
	Stage        string  `json:"stage,omitempty"`
	FromStage    string  `json:"from_stage,omitempty"`
	TechnicianID *uint64 `json:"technician_id,omitempty"`
	ActorID      uint64  `json:"actor_id"`
}
