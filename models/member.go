package models

import "time"

const (
	DefaultEloRating         = 1500
	DefaultAvailabilityStart = "17:00"
	DefaultAvailabilityEnd   = "20:00"
)

// DayAvailability описывает окно доступности игрока в конкретный день недели.
// Day: 0 = воскресенье ... 6 = суббота (как time.Weekday).
type DayAvailability struct {
	Day     int    `json:"day"`
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"` // HH:MM, локальное время
	End     string `json:"end"`
}

type Member struct {
	ID           int               `json:"id"`
	UserID       *int              `json:"user_id,omitempty"`
	Name         string            `json:"name"`
	Email        string            `json:"email,omitempty"`
	SkillRating  float64           `json:"tennis_rating"`
	EloRating    int               `json:"rating_elo"`
	Wins         int               `json:"wins"`
	Losses       int               `json:"losses"`
	Area         string            `json:"area,omitempty"`
	Availability []DayAvailability `json:"availability"`
	AvatarURL    *string           `json:"avatar_url,omitempty"`
	IsActive     bool              `json:"is_active"`
	JoinedAt     time.Time         `json:"joined_at"`
}

// DefaultAvailability возвращает семь выключенных дней с окном 17:00-20:00.
func DefaultAvailability() []DayAvailability {
	days := make([]DayAvailability, 7)
	for i := range days {
		days[i] = DayAvailability{
			Day:   i,
			Start: DefaultAvailabilityStart,
			End:   DefaultAvailabilityEnd,
		}
	}
	return days
}

// MemberPatch - частичное обновление профиля. nil означает "не менять".
type MemberPatch struct {
	Name         *string           `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Area         *string           `json:"area,omitempty" validate:"omitempty,max=100"`
	SkillRating  *float64          `json:"tennis_rating,omitempty" validate:"omitempty,min=1,max=7"`
	AvatarURL    *string           `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Availability []DayAvailability `json:"availability,omitempty" validate:"omitempty,max=7,dive"`
}
