package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/tennis-league/models"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func newTestAuth(env *testEnv) *AuthService {
	members := NewMemberService(env.store.Members, nil, env.logger)
	return NewAuthService(env.store.Tx, env.store.Users, members, testSecret, time.Hour, env.logger)
}

func parseTestToken(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token is invalid: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", parsed.Claims)
	}
	return claims
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	auth := newTestAuth(env)
	ctx := context.Background()

	res, err := auth.Register(ctx, RegisterInput{
		Email:    " Alice@Example.com ",
		Password: "correct horse",
		Name:     "Alice",
		Area:     "North",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if res.User.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", res.User.Email)
	}
	if res.User.PasswordHash != "" {
		t.Error("password hash must not be returned")
	}
	if res.Member == nil || res.Member.UserID == nil || *res.Member.UserID != res.User.ID {
		t.Fatalf("expected member linked to user, got %+v", res.Member)
	}
	if res.Member.Email != "alice@example.com" || res.Member.Area != "North" {
		t.Errorf("unexpected member profile %+v", res.Member)
	}

	claims := parseTestToken(t, res.Token)
	if claims[ClaimRole] != string(models.RoleMember) {
		t.Errorf("unexpected role claim %v", claims[ClaimRole])
	}
	if claims[ClaimMemberID] != float64(res.Member.ID) || claims[ClaimUserID] != float64(res.User.ID) {
		t.Errorf("unexpected id claims %v", claims)
	}

	_, err = auth.Register(ctx, RegisterInput{Email: "alice@example.com", Password: "another pass", Name: "Alice 2"})
	assertErrorIs(t, err, ErrUserEmailConflict)

	login, err := auth.Login(ctx, LoginInput{Email: "ALICE@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.Member == nil || login.Member.ID != res.Member.ID {
		t.Errorf("expected member %d on login, got %+v", res.Member.ID, login.Member)
	}

	_, err = auth.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong password"})
	assertErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "whatever1"})
	assertErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	auth := newTestAuth(env)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{name: "bad email", input: RegisterInput{Email: "not-an-email", Password: "longenough", Name: "A"}, wantErr: ErrEmailInvalid},
		{name: "short password", input: RegisterInput{Email: "a@example.com", Password: "short", Name: "A"}, wantErr: ErrPasswordTooShort},
		{name: "no name", input: RegisterInput{Email: "a@example.com", Password: "longenough", Name: " "}, wantErr: ErrNameRequired},
		{name: "rating out of range", input: RegisterInput{Email: "a@example.com", Password: "longenough", Name: "A", SkillRating: func() *float64 { v := 9.0; return &v }()}, wantErr: ErrSkillRatingRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Register(ctx, tt.input)
			assertErrorIs(t, err, tt.wantErr)
		})
	}

	// неудачная регистрация не оставляет пользователя
	if _, err := env.store.Users.GetByEmail(ctx, "a@example.com"); err == nil {
		t.Error("user must not be stored after failed registration")
	}
}

func TestIssueTokenWithoutMember(t *testing.T) {
	env := newTestEnv(t)
	auth := newTestAuth(env)

	token, err := auth.IssueToken(&models.User{ID: 7, Role: models.RoleAdmin}, nil)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	claims := parseTestToken(t, token)
	if _, ok := claims[ClaimMemberID]; ok {
		t.Error("member_id claim must be absent for users without a profile")
	}
	if claims[ClaimRole] != string(models.RoleAdmin) {
		t.Errorf("unexpected role claim %v", claims[ClaimRole])
	}
}
