package secondary

import (
	"context"

	"gitlab.com/results-api.net/internal/domain"
)

// ResultRepository stores results. Lookups of a missing id return (nil, nil).
// Returned results carry their owner fully loaded.
type ResultRepository interface {
	// GetResult retrieves a result by id
	GetResult(ctx context.Context, id int64) (*domain.Result, error)

	// GetAllResults retrieves every result ordered by id
	GetAllResults(ctx context.Context) ([]*domain.Result, error)

	// CreateResult inserts the result and sets its ID
	CreateResult(ctx context.Context, result *domain.Result) error

	// UpdateResult overwrites value, owner and time of an existing result
	UpdateResult(ctx context.Context, result *domain.Result) error

	// DeleteResult removes the result, reporting whether a row was removed
	DeleteResult(ctx context.Context, id int64) (bool, error)
}

// Transactor runs fn atomically. Repositories called with the ctx handed to fn
// take part in the same transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
