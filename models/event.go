package models

import "time"

// EventType - тип события жизненного цикла вызова. Используется как суффикс NATS-субъекта.
type EventType string

const (
	EventChallengeCreated   EventType = "created"
	EventChallengeAccepted  EventType = "accepted"
	EventChallengeDeclined  EventType = "declined"
	EventChallengeCancelled EventType = "cancelled"
	EventChallengeCompleted EventType = "completed"
	EventRescheduled        EventType = "rescheduled"
	EventSlotsProposed      EventType = "slots_proposed"
	EventSlotAccepted       EventType = "slot_accepted"
	EventResultReported     EventType = "result_reported"
	EventResultVerified     EventType = "result_verified"
	EventResultContested    EventType = "result_contested"
	EventResultOverridden   EventType = "result_overridden"
	EventReminderSent       EventType = "reminder_sent"
	EventChatMessage        EventType = "chat_message"
)

type Event struct {
	Type          EventType   `json:"type"`
	ChallengeID   int         `json:"challenge_id"`
	ActorMemberID int         `json:"actor_member_id,omitempty"`
	Payload       interface{} `json:"payload"`
	OccurredAt    time.Time   `json:"occurred_at"`
}
