// Package calendar собирает iCalendar (RFC 5545) приглашения на матчи.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

const (
	ContentType     = "text/calendar; charset=utf-8"
	DefaultMethod   = "REQUEST"
	DefaultLocation = "TBD"
	DefaultDuration = 90 * time.Minute

	prodID     = "-//Tennis League//Matches//EN"
	icsTimeFmt = "20060102T150405Z"
)

type Invite struct {
	UID       string
	Start     time.Time
	End       time.Time // нулевое значение: Start + DefaultDuration
	Stamp     time.Time // нулевое значение: Start, чтобы результат был детерминированным
	Title     string
	Location  string
	Organizer string
	Attendees []string
	Method    string
}

// ChallengeUID - стабильный UID события для вызова: повторные приглашения обновляют то же событие.
func ChallengeUID(challengeID int, domain string) string {
	return fmt.Sprintf("challenge-%d@%s", challengeID, domain)
}

// BuildInvite возвращает VCALENDAR с одним VEVENT. Строки разделены CRLF.
func BuildInvite(inv Invite) []byte {
	end := inv.End
	if end.IsZero() {
		end = inv.Start.Add(DefaultDuration)
	}
	stamp := inv.Stamp
	if stamp.IsZero() {
		stamp = inv.Start
	}
	method := inv.Method
	if method == "" {
		method = DefaultMethod
	}
	location := inv.Location
	if strings.TrimSpace(location) == "" {
		location = DefaultLocation
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + prodID,
		"CALSCALE:GREGORIAN",
		"METHOD:" + method,
		"BEGIN:VEVENT",
		"UID:" + inv.UID,
		"DTSTAMP:" + formatTime(stamp),
		"DTSTART:" + formatTime(inv.Start),
		"DTEND:" + formatTime(end),
		"SUMMARY:" + escapeText(inv.Title),
		"LOCATION:" + escapeText(location),
	}
	if inv.Organizer != "" {
		lines = append(lines, "ORGANIZER:mailto:"+inv.Organizer)
	}
	for _, a := range inv.Attendees {
		if a == "" {
			continue
		}
		lines = append(lines, "ATTENDEE;ROLE=REQ-PARTICIPANT;RSVP=TRUE:mailto:"+a)
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR")

	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

func formatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(icsTimeFmt)
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
