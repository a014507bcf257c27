package models

import "time"

type ChatMessage struct {
	ID             int       `json:"id"`
	ChallengeID    int       `json:"challenge_id"`
	SenderMemberID int       `json:"sender_member_id"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}
