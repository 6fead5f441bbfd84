package auth

import (
	"context"
	"strings"

	"gitlab.com/results-api.net/internal/config"
	"gitlab.com/results-api.net/internal/core/ports/primary"
	"gitlab.com/results-api.net/internal/core/ports/secondary"
	"gitlab.com/results-api.net/internal/domain"
	"gitlab.com/results-api.net/internal/global/logger"
	"gitlab.com/results-api.net/internal/static/errs"
)

var _ IAuthService = &googleAuthService{}

type googleAuthService struct {
	userPort    secondary.UserPort
	jwtProvider primary.JWTService
	Config      *config.GGAuthConfig
}

func NewGoogleAuthService(userPort secondary.UserPort, jwtProvider primary.JWTService, Config *config.GGAuthConfig) IAuthService {
	return &googleAuthService{
		userPort:    userPort,
		jwtProvider: jwtProvider,
		Config:      Config,
	}
}

func (g googleAuthService) ProviderName() domain.Provider {
	return domain.ProviderGoogle
}

// Login signs in a Google account, creating a plain user on first sight.
func (g googleAuthService) Login(ctx context.Context, creds Credentials) (string, error) {
	if creds.GoogleID == "" {
		return "", errs.InvalidCredentials
	}

	if creds.Email == "" {
		return "", errs.EmailRequired
	}

	if d := g.Config.ForceEmailDomain; d != "" && !strings.HasSuffix(creds.Email, "@"+d) {
		return "", errs.EmailDomainDenied
	}

	usr, err := g.userPort.GetByGoogleID(ctx, creds.GoogleID)
	if err != nil {
		return "", err
	}

	if usr != nil {
		return generateToken(ctx, g.jwtProvider, usr)
	}

	email := creds.Email
	googleID := creds.GoogleID
	userName, err := g.freeUserName(ctx, email, googleID)
	if err != nil {
		return "", err
	}
	usr = &domain.Users{
		UserName:     userName,
		Email:        &email,
		GoogleID:     &googleID,
		AuthProvider: string(domain.ProviderGoogle),
		Roles:        []string{string(domain.RoleUser)},
	}
	if err := g.userPort.Create(ctx, usr); err != nil {
		logger.Error("Failed to create google user", "email", email, "error", err)
		return "", errs.FailedToCreateUser
	}

	return generateToken(ctx, g.jwtProvider, usr)
}

// freeUserName picks the first unused of the email's local part, the full email and
// the email suffixed with the Google id.
func (g googleAuthService) freeUserName(ctx context.Context, email, googleID string) (string, error) {
	local, _, _ := strings.Cut(email, "@")
	for _, candidate := range []string{local, email, email + "#" + googleID} {
		taken, err := g.userPort.GetByUserName(ctx, candidate)
		if err != nil {
			return "", err
		}
		if taken == nil {
			return candidate, nil
		}
	}
	return "", errs.FailedToCreateUser
}
