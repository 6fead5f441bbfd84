package auth

import (
	"context"
	"fmt"

	"gitlab.com/results-api.net/internal/core/ports/primary"
	"gitlab.com/results-api.net/internal/core/ports/secondary"
	"gitlab.com/results-api.net/internal/domain"
	"gitlab.com/results-api.net/internal/static/errs"
)

var _ IAuthService = &localAuthService{}

type localAuthService struct {
	userPort    secondary.UserPort
	jwtProvider primary.JWTService
}

func NewLocalAuthService(
	userPort secondary.UserPort,
	jwtProvider primary.JWTService,
) IAuthService {
	return &localAuthService{
		userPort:    userPort,
		jwtProvider: jwtProvider,
	}
}

func (g localAuthService) ProviderName() domain.Provider {
	return domain.ProviderLocal
}

func (g localAuthService) Login(ctx context.Context, creds Credentials) (string, error) {
	if creds.UserName == "" || creds.Password == "" {
		return "", errs.InvalidCredentials
	}
	usr, err := g.userPort.GetByUserName(ctx, creds.UserName)
	if err != nil {
		return "", err
	}
	if usr == nil || usr.PasswordHash == nil {
		return "", errs.InvalidCredentials
	}
	valid, err := g.jwtProvider.VerifyPassword(ctx, *usr.PasswordHash, creds.Password)
	if err != nil || !valid {
		return "", errs.InvalidCredentials
	}

	return generateToken(ctx, g.jwtProvider, usr)
}

// EnsureAdmin creates a local admin account unless userName already exists.
func EnsureAdmin(ctx context.Context, userPort secondary.UserPort, jwtProvider primary.JWTService, userName, password string) (*domain.Users, error) {
	existing, err := userPort.GetByUserName(ctx, userName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	hash, err := jwtProvider.EncryptPassword(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	admin := &domain.Users{
		UserName:     userName,
		PasswordHash: &hash,
		AuthProvider: string(domain.ProviderLocal),
		Roles:        []string{string(domain.RoleAdmin), string(domain.RoleUser)},
	}
	if err := userPort.Create(ctx, admin); err != nil {
		return nil, errs.FailedToCreateUser
	}
	return admin, nil
}
