package services

import (
	"fmt"
	"time"

	"github.com/Dosada05/tennis-league/models"
)

const (
	DefaultSuggestDays       = 21
	DefaultSuggestCandidates = 5
	DefaultMinOverlap        = 90 * time.Minute
)

type SuggestOptions struct {
	Days          int
	MaxCandidates int
	MinOverlap    time.Duration
}

func (o SuggestOptions) withDefaults() SuggestOptions {
	if o.Days <= 0 {
		o.Days = DefaultSuggestDays
	}
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = DefaultSuggestCandidates
	}
	if o.MinOverlap <= 0 {
		o.MinOverlap = DefaultMinOverlap
	}
	return o
}

// SuggestMatchTimes перебирает дни начиная с from и возвращает начала общих окон
// доступности длиной не меньше MinOverlap. Время HH:MM трактуется в часовом поясе from.
// Кандидаты раньше from пропускаются.
func SuggestMatchTimes(a, b []models.DayAvailability, from time.Time, opts SuggestOptions) []time.Time {
	opts = opts.withDefaults()
	byDayA, byDayB := indexAvailability(a), indexAvailability(b)

	loc := from.Location()
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	out := make([]time.Time, 0, opts.MaxCandidates)

	for i := 0; i < opts.Days && len(out) < opts.MaxCandidates; i++ {
		date := day.AddDate(0, 0, i)
		weekday := int(date.Weekday())

		wa, okA := byDayA[weekday]
		wb, okB := byDayB[weekday]
		if !okA || !okB {
			continue
		}

		start := max(wa.start, wb.start)
		end := min(wa.end, wb.end)
		if end-start < opts.MinOverlap {
			continue
		}

		candidate := time.Date(date.Year(), date.Month(), date.Day(), int(start/time.Hour), int(start%time.Hour/time.Minute), 0, 0, loc)
		if candidate.Before(from) {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

type window struct {
	start, end time.Duration // смещение от полуночи
}

// indexAvailability оставляет только включенные дни с корректным окном.
func indexAvailability(days []models.DayAvailability) map[int]window {
	res := make(map[int]window, len(days))
	for _, d := range days {
		if !d.Enabled || d.Day < 0 || d.Day > 6 {
			continue
		}
		start, err := parseClock(d.Start)
		if err != nil {
			continue
		}
		end, err := parseClock(d.End)
		if err != nil || end <= start {
			continue
		}
		res[d.Day] = window{start: start, end: end}
	}
	return res
}

// parseClock разбирает HH:MM в смещение от полуночи.
func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func validateAvailability(days []models.DayAvailability) error {
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if d.Day < 0 || d.Day > 6 || seen[d.Day] {
			return ErrAvailabilityInvalid
		}
		seen[d.Day] = true
		start, err := parseClock(d.Start)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAvailabilityInvalid, err)
		}
		end, err := parseClock(d.End)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAvailabilityInvalid, err)
		}
		if end <= start {
			return ErrAvailabilityInvalid
		}
	}
	return nil
}

// SlotInput - предложенный слот до присвоения id.
type SlotInput struct {
	Start *time.Time `json:"start" validate:"required"`
	End   *time.Time `json:"end,omitempty"`
}

func validateSlots(slots []SlotInput) error {
	if len(slots) == 0 {
		return ErrSlotsRequired
	}
	for i, s := range slots {
		if s.Start == nil || s.Start.IsZero() {
			return fmt.Errorf("%w (slot %d)", ErrSlotStartRequired, i)
		}
		if s.End != nil && !s.End.After(*s.Start) {
			return fmt.Errorf("%w (slot %d)", ErrSlotEndBeforeStart, i)
		}
	}
	return nil
}

func validateSets(sets []models.SetScore) error {
	if len(sets) < models.MinSets || len(sets) > models.MaxSets {
		return ErrInvalidSetCount
	}
	for i, set := range sets {
		if set.A < 0 || set.A > models.MaxSetGames || set.B < 0 || set.B > models.MaxSetGames {
			return fmt.Errorf("%w (set %d: %d-%d)", ErrInvalidSetScore, i+1, set.A, set.B)
		}
	}
	return nil
}
