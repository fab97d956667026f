package websocket

import "time"

// Event types pushed to clients.
const (
	EventNewMessage         = "new_message"
	EventMessageSnapshot    = "message_snapshot"
	EventConversationUpdate = "conversation_update"
	EventUnreadCounts       = "unread_counts"
	EventBroadcast          = "broadcast"
	EventPong               = "pong"
	EventError              = "error"
)

// Event types accepted from clients.
const (
	EventPing      = "ping"
	EventJoinChat  = "join_chat"
	EventLeaveChat = "leave_chat"
)

type Event struct {
	Type      string      `json:"type"`
	ChatID    string      `json:"chat_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func NewEvent(eventType string, data interface{}) Event {
	return Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
