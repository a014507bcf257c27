package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/Dosada05/tennis-league/models"
	"github.com/Dosada05/tennis-league/repositories"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

// Имена claims в JWT. Их же читает middleware.
const (
	ClaimUserID   = "user_id"
	ClaimMemberID = "member_id"
	ClaimRole     = "role"
)

type RegisterInput struct {
	Email       string
	Password    string
	Name        string
	Area        string
	SkillRating *float64
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	Token  string         `json:"token"`
	User   *models.User   `json:"user"`
	Member *models.Member `json:"member,omitempty"`
}

type AuthService struct {
	tx      repositories.TxManager
	users   repositories.UserRepository
	members *MemberService
	secret  []byte
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

func NewAuthService(
	tx repositories.TxManager,
	users repositories.UserRepository,
	members *MemberService,
	secret string,
	ttl time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{tx: tx, users: users, members: members, secret: []byte(secret), ttl: ttl, logger: logger, now: time.Now}
}

// Register создает пользователя и его профиль игрока в одной транзакции.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, ErrEmailInvalid
	}
	if len(in.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hash), Role: models.RoleMember}
	var member *models.Member
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return handleRepositoryError(err, "create user")
		}
		m, err := s.members.Create(ctx, CreateMemberInput{
			UserID:      &user.ID,
			Name:        in.Name,
			Email:       email,
			SkillRating: in.SkillRating,
			Area:        in.Area,
		})
		if err != nil {
			return err
		}
		member = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.IssueToken(user, member)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user registered", slog.Int("user_id", user.ID), slog.Int("member_id", member.ID))
	user.PasswordHash = ""
	return &AuthResult{Token: token, User: user, Member: member}, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	// у администратора профиля игрока может не быть
	member, err := s.members.GetByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, ErrMemberNotFound) {
		return nil, err
	}

	token, err := s.IssueToken(user, member)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return &AuthResult{Token: token, User: user, Member: member}, nil
}

// IssueToken подписывает HS256 токен с user_id, member_id и role.
func (s *AuthService) IssueToken(user *models.User, member *models.Member) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		ClaimUserID: user.ID,
		ClaimRole:   string(user.Role),
		"exp":       now.Add(s.ttl).Unix(),
		"iat":       now.Unix(),
	}
	if member != nil {
		claims[ClaimMemberID] = member.ID
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
