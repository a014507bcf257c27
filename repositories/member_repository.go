package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tennis-league/models"
)

var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrMemberUserConflict = errors.New("member already linked to this user")
	ErrMemberUserInvalid  = errors.New("member user is invalid")
)

type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id int) (*models.Member, error)
	GetByUserID(ctx context.Context, userID int) (*models.Member, error)
	List(ctx context.Context) ([]models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	// AdjustRecord атомарно меняет wins/losses на дельты. Значения не опускаются ниже нуля.
	AdjustRecord(ctx context.Context, memberID, winsDelta, lossesDelta int) error
}

type postgresMemberRepository struct {
	db *sql.DB
}

func NewPostgresMemberRepository(db *sql.DB) MemberRepository {
	return &postgresMemberRepository{db: db}
}

const memberColumns = `id, user_id, name, email, tennis_rating, rating_elo, wins, losses, area, availability, avatar_url, is_active, joined_at`

func (r *postgresMemberRepository) Create(ctx context.Context, member *models.Member) error {
	availability, err := jsonColumn(member.Availability, false)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO members (user_id, name, email, tennis_rating, rating_elo, wins, losses, area, availability, avatar_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, joined_at`

	err = executorFromContext(ctx, r.db).QueryRowContext(ctx, query,
		member.UserID,
		member.Name,
		member.Email,
		member.SkillRating,
		member.EloRating,
		member.Wins,
		member.Losses,
		member.Area,
		availability,
		member.AvatarURL,
		member.IsActive,
	).Scan(&member.ID, &member.JoinedAt)
	if err != nil {
		switch code, constraint := pqCode(err); code {
		case pgUniqueViolation:
			if constraint == "members_user_id_key" {
				return ErrMemberUserConflict
			}
		case pgForeignKeyViolation:
			return ErrMemberUserInvalid
		}
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

func (r *postgresMemberRepository) GetByID(ctx context.Context, id int) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	return scanMember(executorFromContext(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *postgresMemberRepository) GetByUserID(ctx context.Context, userID int) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE user_id = $1`
	return scanMember(executorFromContext(ctx, r.db).QueryRowContext(ctx, query, userID))
}

func (r *postgresMemberRepository) List(ctx context.Context) ([]models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY id ASC`
	rows, err := executorFromContext(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := make([]models.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}
	return members, nil
}

func (r *postgresMemberRepository) Update(ctx context.Context, member *models.Member) error {
	availability, err := jsonColumn(member.Availability, false)
	if err != nil {
		return err
	}
	query := `
		UPDATE members
		SET name = $1, email = $2, tennis_rating = $3, area = $4, availability = $5, avatar_url = $6, is_active = $7
		WHERE id = $8`

	result, err := executorFromContext(ctx, r.db).ExecContext(ctx, query,
		member.Name,
		member.Email,
		member.SkillRating,
		member.Area,
		availability,
		member.AvatarURL,
		member.IsActive,
		member.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member %d: %w", member.ID, err)
	}
	return checkAffectedRows(result, ErrMemberNotFound)
}

func (r *postgresMemberRepository) AdjustRecord(ctx context.Context, memberID, winsDelta, lossesDelta int) error {
	query := `
		UPDATE members
		SET wins = GREATEST(wins + $1, 0), losses = GREATEST(losses + $2, 0)
		WHERE id = $3`

	result, err := executorFromContext(ctx, r.db).ExecContext(ctx, query, winsDelta, lossesDelta, memberID)
	if err != nil {
		return fmt.Errorf("failed to adjust record for member %d: %w", memberID, err)
	}
	return checkAffectedRows(result, ErrMemberNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMember(row rowScanner) (*models.Member, error) {
	var m models.Member
	var userID sql.NullInt64
	var avatarURL sql.NullString
	var availability []byte

	err := row.Scan(
		&m.ID,
		&userID,
		&m.Name,
		&m.Email,
		&m.SkillRating,
		&m.EloRating,
		&m.Wins,
		&m.Losses,
		&m.Area,
		&availability,
		&avatarURL,
		&m.IsActive,
		&m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to scan member: %w", err)
	}

	if userID.Valid {
		id := int(userID.Int64)
		m.UserID = &id
	}
	if avatarURL.Valid {
		m.AvatarURL = &avatarURL.String
	}
	if err := scanJSONColumn(availability, &m.Availability); err != nil {
		return nil, err
	}
	return &m, nil
}
