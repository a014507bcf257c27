package models

import "time"

const DefaultDivision = "Open"

type Season struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Divisions []string  `json:"divisions"`
	IsActive  bool      `json:"is_active"`
	Locked    bool      `json:"locked"`
}

func (s *Season) HasDivision(division string) bool {
	for _, d := range s.Divisions {
		if d == division {
			return true
		}
	}
	return false
}

type SeasonEnrollment struct {
	SeasonID int       `json:"season_id"`
	MemberID int       `json:"member_id"`
	Division string    `json:"division"`
	JoinedAt time.Time `json:"joined_at"`
}

// StandingRow - строка турнирной таблицы сезона.
type StandingRow struct {
	MemberID int     `json:"member_id"`
	Name     string  `json:"name"`
	Division string  `json:"division,omitempty"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	Pct      float64 `json:"pct"`
	Elo      int     `json:"rating_elo"`
}

// Pairing - пара игроков одного тура круговой сетки дивизиона.
type Pairing struct {
	Round       int  `json:"round"`
	MemberA     int  `json:"member_a"`
	MemberB     int  `json:"member_b"`
	Played      bool `json:"played"`
	ChallengeID *int `json:"challenge_id,omitempty"`
}
