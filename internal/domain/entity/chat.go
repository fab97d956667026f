package entity

import "time"

// Conversation is a two-party chat thread. Participants are stored in
// ascending order so the pair has a single canonical representation;
// ParticipantNames and ParticipantPhotos are aligned to that order.
type Conversation struct {
	ID                string         `json:"id" firestore:"id"`
	Participants      []string       `json:"participants" firestore:"participants"`
	ParticipantNames  []string       `json:"participant_names" firestore:"participantNames"`
	ParticipantPhotos []string       `json:"participant_photos" firestore:"participantPhotos"`
	LastMessage       string         `json:"last_message,omitempty" firestore:"lastMessage"`
	LastMessageTime   time.Time      `json:"last_message_time" firestore:"lastMessageTime"`
	LastMessageSender string         `json:"last_message_sender,omitempty" firestore:"lastMessageSender"`
	UnreadCount       map[string]int `json:"unread_count" firestore:"unreadCount"`
	CreatedAt         time.Time      `json:"created_at" firestore:"createdAt"`
	UpdatedAt         time.Time      `json:"updated_at" firestore:"updatedAt"`
}

// HasParticipant reports whether uid is one of the two participants.
func (c *Conversation) HasParticipant(uid string) bool {
	for _, p := range c.Participants {
		if p == uid {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not uid.
func (c *Conversation) OtherParticipant(uid string) string {
	for _, p := range c.Participants {
		if p != uid {
			return p
		}
	}
	return ""
}
