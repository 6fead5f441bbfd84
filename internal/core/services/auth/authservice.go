package auth

import (
	"context"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"gitlab.com/results-api.net/internal/core/ports/primary"
	"gitlab.com/results-api.net/internal/domain"
	"gitlab.com/results-api.net/internal/global/logger"
	"gitlab.com/results-api.net/internal/static/errs"
)

// Credentials is what a login attempt carries; each provider reads its own fields.
type Credentials struct {
	UserName string
	Password string
	GoogleID string
	Email    string
}

type IAuthService interface {
	ProviderName() domain.Provider
	Login(ctx context.Context, creds Credentials) (string, error)
}

// generateToken signs the claims the caller middleware turns back into a domain.Caller.
func generateToken(ctx context.Context, jwtProvider primary.JWTService, user *domain.Users) (string, error) {
	roles := make([]string, len(user.Roles))
	copy(roles, user.Roles)
	claims := map[string]interface{}{
		"sub":      strconv.FormatInt(user.ID, 10),
		"username": user.UserName,
		"roles":    roles,
	}
	token, err := jwtProvider.GenerateTokenHMAC(ctx, jwt.SigningMethodHS256.Name, claims)
	if err != nil {
		logger.Error("Failed to sign token", "user", user.ID, "error", err)
		return "", errs.GeneratingToken
	}
	return token, nil
}
