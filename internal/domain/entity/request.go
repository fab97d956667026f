package entity

import "time"

const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
)

// SkillRequest is a directional swap proposal from one user to another.
// Status only ever moves pending -> accepted or pending -> rejected.
type SkillRequest struct {
	ID            string    `json:"id" firestore:"id"`
	FromUserID    string    `json:"from_user_id" firestore:"fromUserId"`
	FromUserName  string    `json:"from_user_name" firestore:"fromUserName"`
	FromUserPhoto string    `json:"from_user_photo,omitempty" firestore:"fromUserPhoto,omitempty"`
	ToUserID      string    `json:"to_user_id" firestore:"toUserId"`
	ToUserName    string    `json:"to_user_name" firestore:"toUserName"`
	OfferedSkill  string    `json:"offered_skill" firestore:"offeredSkill"`
	WantedSkill   string    `json:"wanted_skill" firestore:"wantedSkill"`
	Message       string    `json:"message" firestore:"message"`
	Status        string    `json:"status" firestore:"status"`
	IsRead        bool      `json:"is_read" firestore:"isRead"` // receiver-scoped
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updatedAt"`
}
