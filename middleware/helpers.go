package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/tennis-league/models"
	"github.com/golang-jwt/jwt/v4"
)

const (
	jwtClaimUserID   = "user_id"
	jwtClaimMemberID = "member_id"
	jwtClaimRole     = "role"
)

var ErrNoActor = errors.New("actor not found in context")

type identity struct {
	UserID int
	Actor  models.Actor
}

func GetActorFromContext(ctx context.Context) (models.Actor, error) {
	id, ok := ctx.Value(actorContextKey).(identity)
	if !ok {
		return models.Actor{}, ErrNoActor
	}
	return id.Actor, nil
}

func GetUserIDFromContext(ctx context.Context) (int, error) {
	id, ok := ctx.Value(actorContextKey).(identity)
	if !ok {
		return 0, ErrNoActor
	}
	return id.UserID, nil
}

// WithActor кладет Actor в контекст напрямую. Используется в тестах хендлеров.
func WithActor(ctx context.Context, userID int, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, identity{UserID: userID, Actor: actor})
}

func identityFromClaims(claims jwt.MapClaims) (identity, error) {
	userID, err := intClaim(claims, jwtClaimUserID, true)
	if err != nil {
		return identity{}, err
	}
	// member_id отсутствует у администратора без профиля
	memberID, err := intClaim(claims, jwtClaimMemberID, false)
	if err != nil {
		return identity{}, err
	}

	roleStr, ok := claims[jwtClaimRole].(string)
	if !ok {
		return identity{}, fmt.Errorf("missing '%s' claim in token", jwtClaimRole)
	}
	role := models.UserRole(roleStr)
	switch role {
	case models.RoleAdmin, models.RoleMember:
	default:
		return identity{}, fmt.Errorf("invalid role value in claim: %q", roleStr)
	}

	return identity{UserID: userID, Actor: models.Actor{MemberID: memberID, Role: role}}, nil
}

func intClaim(claims jwt.MapClaims, name string, required bool) (int, error) {
	raw, ok := claims[name]
	if !ok {
		if required {
			return 0, fmt.Errorf("missing '%s' claim in token", name)
		}
		return 0, nil
	}
	f, ok := raw.(float64)
	if !ok || f != float64(int(f)) || f <= 0 {
		return 0, fmt.Errorf("invalid '%s' claim: %v", name, raw)
	}
	return int(f), nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
