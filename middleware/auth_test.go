package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/tennis-league/models"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "middleware-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		jwtClaimUserID:   1,
		jwtClaimMemberID: 2,
		jwtClaimRole:     string(models.RoleMember),
		"exp":            time.Now().Add(time.Hour).Unix(),
	}
}

// echoActor отвечает 200 и пишет Actor из контекста.
var echoActor = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	actor, err := GetActorFromContext(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	userID, _ := GetUserIDFromContext(r.Context())
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"user_id":   userID,
		"member_id": actor.MemberID,
		"role":      actor.Role,
	})
})

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body["error"]
}

func TestAuthenticate(t *testing.T) {
	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	noUser := validClaims()
	delete(noUser, jwtClaimUserID)
	badRole := validClaims()
	badRole[jwtClaimRole] = "superuser"
	fractional := validClaims()
	fractional[jwtClaimMemberID] = 2.5

	tests := []struct {
		name        string
		header      string
		query       string
		wantStatus  int
		wantMessage string
	}{
		{name: "missing token", wantStatus: http.StatusUnauthorized, wantMessage: "missing authentication token"},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized, wantMessage: "missing authentication token"},
		{name: "garbage", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized, wantMessage: "invalid or expired token"},
		{name: "wrong secret", header: "Bearer " + signToken(t, "other-secret", validClaims()), wantStatus: http.StatusUnauthorized, wantMessage: "invalid or expired token"},
		{name: "expired", header: "Bearer " + signToken(t, testSecret, expired), wantStatus: http.StatusUnauthorized, wantMessage: "invalid or expired token"},
		{name: "missing user claim", header: "Bearer " + signToken(t, testSecret, noUser), wantStatus: http.StatusUnauthorized, wantMessage: "invalid or expired token"},
		{name: "unknown role", header: "Bearer " + signToken(t, testSecret, badRole), wantStatus: http.StatusUnauthorized, wantMessage: "invalid or expired token"},
		{name: "fractional member id", header: "Bearer " + signToken(t, testSecret, fractional), wantStatus: http.StatusUnauthorized, wantMessage: "invalid or expired token"},
		{name: "bearer header", header: "Bearer " + signToken(t, testSecret, validClaims()), wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + signToken(t, testSecret, validClaims()), wantStatus: http.StatusOK},
		{name: "query token", query: signToken(t, testSecret, validClaims()), wantStatus: http.StatusOK},
	}

	handler := Authenticate(testSecret)(echoActor)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/ws"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantMessage != "" {
				if got := errorMessage(t, rec); got != tt.wantMessage {
					t.Errorf("expected %q, got %q", tt.wantMessage, got)
				}
				return
			}
			var body struct {
				UserID   int    `json:"user_id"`
				MemberID int    `json:"member_id"`
				Role     string `json:"role"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.UserID != 1 || body.MemberID != 2 || body.Role != string(models.RoleMember) {
				t.Errorf("unexpected identity %+v", body)
			}
		})
	}
}

func TestAuthenticateAdminWithoutMember(t *testing.T) {
	claims := jwt.MapClaims{
		jwtClaimUserID: 9,
		jwtClaimRole:   string(models.RoleAdmin),
		"exp":          time.Now().Add(time.Hour).Unix(),
	}
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))
	rec := httptest.NewRecorder()

	Authenticate(testSecret)(RequireAdmin(echoActor)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		actor      *models.Actor
		wantStatus int
	}{
		{name: "no actor", wantStatus: http.StatusUnauthorized},
		{name: "member", actor: &models.Actor{MemberID: 3, Role: models.RoleMember}, wantStatus: http.StatusForbidden},
		{name: "admin", actor: &models.Actor{Role: models.RoleAdmin}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.actor != nil {
				req = req.WithContext(WithActor(req.Context(), 1, *tt.actor))
			}
			rec := httptest.NewRecorder()
			RequireAdmin(echoActor).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus == http.StatusForbidden && errorMessage(t, rec) != "admin role required" {
				t.Errorf("unexpected message %q", rec.Body.String())
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = chimw.GetReqID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-id-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen != "client-id-1" || rec.Header().Get(RequestIDHeader) != "client-id-1" {
		t.Errorf("client id not passed through: ctx=%q header=%q", seen, rec.Header().Get(RequestIDHeader))
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	if len(generated) != 36 || seen != generated {
		t.Errorf("expected generated uuid in header and context, got header=%q ctx=%q", generated, seen)
	}
}
