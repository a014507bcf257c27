package models

import "time"

type ChallengeStatus string

const (
	ChallengeStatusPending       ChallengeStatus = "Pending"
	ChallengeStatusAccepted      ChallengeStatus = "Accepted"
	ChallengeStatusDeclined      ChallengeStatus = "Declined"
	ChallengeStatusCancelled     ChallengeStatus = "Cancelled"
	ChallengeStatusResultPending ChallengeStatus = "ResultPending"
	ChallengeStatusCompleted     ChallengeStatus = "Completed"
)

func (s ChallengeStatus) IsValid() bool {
	switch s {
	case ChallengeStatusPending, ChallengeStatusAccepted, ChallengeStatusDeclined,
		ChallengeStatusCancelled, ChallengeStatusResultPending, ChallengeStatusCompleted:
		return true
	}
	return false
}

type VerificationStatus string

const (
	VerificationNone      VerificationStatus = "None"
	VerificationPending   VerificationStatus = "Pending"
	VerificationVerified  VerificationStatus = "Verified"
	VerificationContested VerificationStatus = "Contested"
)

const (
	MaxSets     = 3
	MinSets     = 1
	MaxSetGames = 7
)

type SetScore struct {
	A int `json:"a" validate:"min=0,max=7"`
	B int `json:"b" validate:"min=0,max=7"`
}

type Slot struct {
	ID    int        `json:"id"`
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

type Challenge struct {
	ID                 int                `json:"id"`
	ChallengerMemberID int                `json:"challenger_member_id"`
	OpponentMemberID   int                `json:"opponent_member_id"`
	Status             ChallengeStatus    `json:"status"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	ProposedDate       *time.Time         `json:"proposed_date,omitempty"`
	Location           *string            `json:"location,omitempty"`
	Message            *string            `json:"message,omitempty"`
	ProposedSlots      []Slot             `json:"proposed_slots,omitempty"`
	SlotsProposedBy    *int               `json:"slots_proposed_by,omitempty"`
	SeasonID           *int               `json:"season_id,omitempty"`
	Division           *string            `json:"division,omitempty"`
	Sets               []SetScore         `json:"sets,omitempty"`
	WinnerMemberID     *int               `json:"winner_member_id,omitempty"`
	ResultReportedBy   *int               `json:"result_reported_by,omitempty"`
	ContestNote        *string            `json:"contest_note,omitempty"`
	StatsApplied       bool               `json:"stats_applied"`
	Reminder24Sent     bool               `json:"reminder_24h_sent"`
	Reminder1Sent      bool               `json:"reminder_1h_sent"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// IsParticipant проверяет, является ли участник одной из сторон вызова.
func (c *Challenge) IsParticipant(memberID int) bool {
	return memberID == c.ChallengerMemberID || memberID == c.OpponentMemberID
}

// OtherParticipant возвращает вторую сторону вызова. ok=false, если memberID не участник.
func (c *Challenge) OtherParticipant(memberID int) (int, bool) {
	switch memberID {
	case c.ChallengerMemberID:
		return c.OpponentMemberID, true
	case c.OpponentMemberID:
		return c.ChallengerMemberID, true
	}
	return 0, false
}

func (c *Challenge) FindSlot(slotID int) (Slot, bool) {
	for _, s := range c.ProposedSlots {
		if s.ID == slotID {
			return s, true
		}
	}
	return Slot{}, false
}

// MemberChallenges - входящие и исходящие вызовы игрока.
type MemberChallenges struct {
	Incoming []*Challenge `json:"incoming"`
	Outgoing []*Challenge `json:"outgoing"`
}

// AdminQueue - очередь результатов для администратора.
type AdminQueue struct {
	Pending   []*Challenge `json:"pending"`
	Contested []*Challenge `json:"contested"`
}
