package entity

import "time"

// AdminMessage is a platform-wide announcement. SeenBy grows monotonically
// as each user opens the messages page.
type AdminMessage struct {
	ID        string    `json:"id" firestore:"id"`
	Message   string    `json:"message" firestore:"message"`
	CreatedBy string    `json:"created_by,omitempty" firestore:"createdBy,omitempty"`
	SeenBy    []string  `json:"seen_by" firestore:"seenBy"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// SeenByUser reports whether uid has already seen this announcement.
func (m *AdminMessage) SeenByUser(uid string) bool {
	for _, id := range m.SeenBy {
		if id == uid {
			return true
		}
	}
	return false
}
