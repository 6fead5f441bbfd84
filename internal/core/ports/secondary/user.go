package secondary

import (
	"context"

	"gitlab.com/results-api.net/internal/domain"
)

// UserPort stores users. Lookups of a missing user return (nil, nil).
type UserPort interface {
	Create(ctx context.Context, user *domain.Users) error
	Get(ctx context.Context, id int64) (*domain.Users, error)
	GetByEmail(ctx context.Context, email string) (*domain.Users, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.Users, error)
	GetByUserName(ctx context.Context, userName string) (*domain.Users, error)
	Delete(ctx context.Context, id int64) error
}
