package entity

import "time"

type ChatMessage struct {
	ID          string    `json:"id" firestore:"id"`
	ChatID      string    `json:"chat_id" firestore:"chatId"`
	SenderID    string    `json:"sender_id" firestore:"senderId"`
	SenderName  string    `json:"sender_name" firestore:"senderName"`
	SenderPhoto string    `json:"sender_photo,omitempty" firestore:"senderPhoto,omitempty"`
	Message     string    `json:"message" firestore:"message"`
	Timestamp   time.Time `json:"timestamp" firestore:"timestamp"`
	IsRead      bool      `json:"is_read" firestore:"isRead"`
}
