package models

import "time"

type OutboxMessage struct {
	ID          int       `json:"id"`
	Key         string    `json:"key"`
	To          string    `json:"to"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	HasCalendar bool      `json:"has_calendar"`
	Error       *string   `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
