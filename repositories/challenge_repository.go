package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tennis-league/models"
)

var (
	ErrChallengeNotFound       = errors.New("challenge not found")
	ErrChallengeMemberInvalid  = errors.New("challenge member is invalid")
	ErrChallengeSeasonInvalid  = errors.New("challenge season is invalid")
	ErrChallengeSameMember     = errors.New("challenger and opponent must differ")
	ErrChallengeWinnerMismatch = errors.New("winner must be a challenge participant")
)

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *models.Challenge) error
	GetByID(ctx context.Context, id int) (*models.Challenge, error)
	// GetForUpdate внутри транзакции берет строковую блокировку до конца транзакции.
	GetForUpdate(ctx context.Context, id int) (*models.Challenge, error)
	Update(ctx context.Context, challenge *models.Challenge) error
	ListByMember(ctx context.Context, memberID int) ([]*models.Challenge, error)
	// ListForReview - вызовы с результатом, ожидающим подтверждения, или оспоренные.
	ListForReview(ctx context.Context) ([]*models.Challenge, error)
	// ListScheduled - принятые вызовы с назначенным временем и неотправленным напоминанием.
	ListScheduled(ctx context.Context) ([]*models.Challenge, error)
	ListVerifiedBySeason(ctx context.Context, seasonID int) ([]*models.Challenge, error)
	NextSlotID(ctx context.Context) (int, error)
}

type postgresChallengeRepository struct {
	db *sql.DB
}

func NewPostgresChallengeRepository(db *sql.DB) ChallengeRepository {
	return &postgresChallengeRepository{db: db}
}

const challengeColumns = `
	id, challenger_member_id, opponent_member_id, status, verification_status,
	proposed_date, location, message, proposed_slots, slots_proposed_by,
	season_id, division, sets, winner_member_id, result_reported_by, contest_note,
	stats_applied, reminder_24h_sent, reminder_1h_sent, created_at, updated_at`

func (r *postgresChallengeRepository) Create(ctx context.Context, c *models.Challenge) error {
	slots, err := jsonColumn(c.ProposedSlots, c.ProposedSlots == nil)
	if err != nil {
		return err
	}
	sets, err := jsonColumn(c.Sets, c.Sets == nil)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO challenges (
			challenger_member_id, opponent_member_id, status, verification_status,
			proposed_date, location, message, proposed_slots, slots_proposed_by,
			season_id, division, sets, winner_member_id, result_reported_by, contest_note,
			stats_applied, reminder_24h_sent, reminder_1h_sent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at`

	err = executorFromContext(ctx, r.db).QueryRowContext(ctx, query,
		c.ChallengerMemberID,
		c.OpponentMemberID,
		c.Status,
		c.VerificationStatus,
		c.ProposedDate,
		c.Location,
		c.Message,
		slots,
		c.SlotsProposedBy,
		c.SeasonID,
		c.Division,
		sets,
		c.WinnerMemberID,
		c.ResultReportedBy,
		c.ContestNote,
		c.StatsApplied,
		c.Reminder24Sent,
		c.Reminder1Sent,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapChallengeError(err)
	}
	return nil
}

func (r *postgresChallengeRepository) GetByID(ctx context.Context, id int) (*models.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1`
	return scanChallenge(executorFromContext(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *postgresChallengeRepository) GetForUpdate(ctx context.Context, id int) (*models.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1` + lockClause(ctx)
	return scanChallenge(executorFromContext(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *postgresChallengeRepository) Update(ctx context.Context, c *models.Challenge) error {
	slots, err := jsonColumn(c.ProposedSlots, c.ProposedSlots == nil)
	if err != nil {
		return err
	}
	sets, err := jsonColumn(c.Sets, c.Sets == nil)
	if err != nil {
		return err
	}

	query := `
		UPDATE challenges SET
			status = $1, verification_status = $2, proposed_date = $3, location = $4,
			message = $5, proposed_slots = $6, slots_proposed_by = $7, season_id = $8,
			division = $9, sets = $10, winner_member_id = $11, result_reported_by = $12,
			contest_note = $13, stats_applied = $14, reminder_24h_sent = $15,
			reminder_1h_sent = $16, updated_at = NOW()
		WHERE id = $17
		RETURNING updated_at`

	err = executorFromContext(ctx, r.db).QueryRowContext(ctx, query,
		c.Status,
		c.VerificationStatus,
		c.ProposedDate,
		c.Location,
		c.Message,
		slots,
		c.SlotsProposedBy,
		c.SeasonID,
		c.Division,
		sets,
		c.WinnerMemberID,
		c.ResultReportedBy,
		c.ContestNote,
		c.StatsApplied,
		c.Reminder24Sent,
		c.Reminder1Sent,
		c.ID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrChallengeNotFound
		}
		return mapChallengeError(err)
	}
	return nil
}

func (r *postgresChallengeRepository) ListByMember(ctx context.Context, memberID int) ([]*models.Challenge, error) {
	query := `SELECT ` + challengeColumns + `
		FROM challenges
		WHERE challenger_member_id = $1 OR opponent_member_id = $1
		ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, memberID)
}

func (r *postgresChallengeRepository) ListForReview(ctx context.Context) ([]*models.Challenge, error) {
	query := `SELECT ` + challengeColumns + `
		FROM challenges
		WHERE status = $1 OR verification_status IN ($2, $3)
		ORDER BY updated_at ASC, id ASC`
	return r.list(ctx, query, models.ChallengeStatusResultPending, models.VerificationPending, models.VerificationContested)
}

func (r *postgresChallengeRepository) ListScheduled(ctx context.Context) ([]*models.Challenge, error) {
	query := `SELECT ` + challengeColumns + `
		FROM challenges
		WHERE status = $1 AND proposed_date IS NOT NULL
			AND (reminder_24h_sent = FALSE OR reminder_1h_sent = FALSE)
		ORDER BY proposed_date ASC, id ASC`
	return r.list(ctx, query, models.ChallengeStatusAccepted)
}

func (r *postgresChallengeRepository) ListVerifiedBySeason(ctx context.Context, seasonID int) ([]*models.Challenge, error) {
	query := `SELECT ` + challengeColumns + `
		FROM challenges
		WHERE season_id = $1 AND verification_status = $2 AND winner_member_id IS NOT NULL
		ORDER BY id ASC`
	return r.list(ctx, query, seasonID, models.VerificationVerified)
}

func (r *postgresChallengeRepository) NextSlotID(ctx context.Context) (int, error) {
	var id int
	err := executorFromContext(ctx, r.db).QueryRowContext(ctx, `SELECT nextval('challenge_slot_id_seq')`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate slot id: %w", err)
	}
	return id, nil
}

func (r *postgresChallengeRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Challenge, error) {
	rows, err := executorFromContext(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenges: %w", err)
	}
	defer rows.Close()

	challenges := make([]*models.Challenge, 0)
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating challenge rows: %w", err)
	}
	return challenges, nil
}

func scanChallenge(row rowScanner) (*models.Challenge, error) {
	var c models.Challenge
	var (
		proposedDate     sql.NullTime
		location         sql.NullString
		message          sql.NullString
		slots            []byte
		slotsProposedBy  sql.NullInt64
		seasonID         sql.NullInt64
		division         sql.NullString
		sets             []byte
		winnerMemberID   sql.NullInt64
		resultReportedBy sql.NullInt64
		contestNote      sql.NullString
	)

	err := row.Scan(
		&c.ID,
		&c.ChallengerMemberID,
		&c.OpponentMemberID,
		&c.Status,
		&c.VerificationStatus,
		&proposedDate,
		&location,
		&message,
		&slots,
		&slotsProposedBy,
		&seasonID,
		&division,
		&sets,
		&winnerMemberID,
		&resultReportedBy,
		&contestNote,
		&c.StatsApplied,
		&c.Reminder24Sent,
		&c.Reminder1Sent,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to scan challenge: %w", err)
	}

	if proposedDate.Valid {
		t := proposedDate.Time
		c.ProposedDate = &t
	}
	c.Location = nullStringPtr(location)
	c.Message = nullStringPtr(message)
	c.SlotsProposedBy = nullIntPtr(slotsProposedBy)
	c.SeasonID = nullIntPtr(seasonID)
	c.Division = nullStringPtr(division)
	c.WinnerMemberID = nullIntPtr(winnerMemberID)
	c.ResultReportedBy = nullIntPtr(resultReportedBy)
	c.ContestNote = nullStringPtr(contestNote)

	if err := scanJSONColumn(slots, &c.ProposedSlots); err != nil {
		return nil, err
	}
	if err := scanJSONColumn(sets, &c.Sets); err != nil {
		return nil, err
	}
	return &c, nil
}

func mapChallengeError(err error) error {
	switch code, constraint := pqCode(err); code {
	case pgForeignKeyViolation:
		if constraint == "challenges_season_id_fkey" {
			return ErrChallengeSeasonInvalid
		}
		return ErrChallengeMemberInvalid
	case pgCheckViolation:
		if constraint == "challenges_winner_participant_check" {
			return ErrChallengeWinnerMismatch
		}
		return ErrChallengeSameMember
	}
	return fmt.Errorf("challenge query failed: %w", err)
}
