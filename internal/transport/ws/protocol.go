package ws

// Message types.
const (
	TypeChat     = "chat"
	TypeReset    = "reset"
	TypeReply    = "reply"
	TypeResetAck = "reset_ack"
	TypeError    = "error"
)

// InboundMessage is a client frame.
type InboundMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	Message   string `json:"message,omitempty"`
}

// OutboundMessage is a server frame. Reply frames carry Reply, error frames
// carry Error and Details.
type OutboundMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	Ts        int64  `json:"ts"`
	Reply     string `json:"reply"`
	Error     string `json:"error,omitempty"`
	Details   string `json:"details,omitempty"`
}
