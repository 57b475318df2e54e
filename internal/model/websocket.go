package model

// WebSocket message types
const (
	WSMessageTypeSnapshot = "snapshot"
	WSMessageTypeDelta    = "delta"
	WSMessageTypeHistory  = "history"
	WSMessageTypeToast    = "toast"
	WSMessageTypePing     = "ping"
	WSMessageTypePong     = "pong"
)

// WSMessage represents a generic WebSocket message
type WSMessage struct {
	Type string `json:"type"`
}

// WSEnvelope carries a typed payload to the browser
type WSEnvelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// WSToast is a user-facing notification
type WSToast struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}
