package result

import (
	"context"
	"net/http"
	"time"

	"gitlab.com/results-api.net/internal/domain"
)

// IResultService is the results resource. Every call runs on behalf of caller.
type IResultService interface {
	List(ctx context.Context, caller domain.Caller) ([]*domain.Result, error)
	Get(ctx context.Context, caller domain.Caller, id int64) (*domain.Result, error)
	Create(ctx context.Context, caller domain.Caller, in CreateInput) (*domain.Result, error)
	Update(ctx context.Context, caller domain.Caller, id int64, in UpdateInput) (*domain.Result, error)
	Delete(ctx context.Context, caller domain.Caller, id int64) error
	Options(hasID bool) []string
}

// CreateInput holds the create payload. Nil means the field was not sent.
type CreateInput struct {
	Value      *int       `json:"value"`
	OwnerID    *int64     `json:"owner_id"`
	RecordedAt *time.Time `json:"recorded_at"`
}

// UpdateInput holds the update payload. Only non-nil fields are applied.
type UpdateInput struct {
	Value      *int       `json:"value"`
	OwnerID    *int64     `json:"owner_id"`
	RecordedAt *time.Time `json:"recorded_at"`
}

var (
	collectionVerbs = []string{http.MethodGet, http.MethodPost}
	itemVerbs       = []string{http.MethodGet, http.MethodPut, http.MethodDelete}
)
