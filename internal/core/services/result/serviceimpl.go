package result

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/results-api.net/internal/core/ports/primary"
	"gitlab.com/results-api.net/internal/core/ports/secondary"
	"gitlab.com/results-api.net/internal/domain"
	"gitlab.com/results-api.net/internal/static/errs"
)

var _ IResultService = &ResultService{}

type ResultService struct {
	resultRepo secondary.ResultRepository
	userPort   secondary.UserPort
	tx         secondary.Transactor
	logger     primary.Logger
}

func NewResultService(
	resultRepo secondary.ResultRepository,
	userPort secondary.UserPort,
	tx secondary.Transactor,
	logger primary.Logger,
) *ResultService {
	return &ResultService{
		resultRepo: resultRepo,
		userPort:   userPort,
		tx:         tx,
		logger:     logger,
	}
}

// List returns every result. An empty store is reported as errs.NotFound.
func (s *ResultService) List(ctx context.Context, caller domain.Caller) ([]*domain.Result, error) {
	if err := Authorize(caller, ActionList, nil); err != nil {
		return nil, err
	}
	results, err := s.resultRepo.GetAllResults(ctx)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	if len(results) == 0 {
		return nil, errs.NotFound
	}
	return results, nil
}

func (s *ResultService) Get(ctx context.Context, caller domain.Caller, id int64) (*domain.Result, error) {
	if err := Authorize(caller, ActionGet, nil); err != nil {
		return nil, err
	}
	res, err := s.resultRepo.GetResult(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get result %d: %w", id, err)
	}
	if res == nil {
		return nil, errs.NotFound
	}
	if err := Authorize(caller, ActionGet, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ResultService) Create(ctx context.Context, caller domain.Caller, in CreateInput) (*domain.Result, error) {
	if err := Authorize(caller, ActionCreate, nil); err != nil {
		return nil, err
	}
	if in.Value == nil || in.OwnerID == nil {
		return nil, errs.Validation
	}
	// the record does not exist yet, so ownership is checked against the requested owner
	if err := Authorize(caller, ActionCreate, &domain.Result{Owner: &domain.Users{ID: *in.OwnerID}}); err != nil {
		return nil, err
	}

	var created *domain.Result
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		owner, err := s.userPort.Get(ctx, *in.OwnerID)
		if err != nil {
			return err
		}
		if owner == nil {
			return errs.BadReference
		}
		res := domain.NewResult(*in.Value, owner, timeOrZero(in.RecordedAt))
		if err := s.resultRepo.CreateResult(ctx, res); err != nil {
			return err
		}
		created = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("result created", "id", created.ID, "owner", created.OwnerID(), "caller", caller.UserID)
	return created, nil
}

// Update applies the supplied fields. A missing result is reported as
// errs.BadReference, not errs.NotFound.
func (s *ResultService) Update(ctx context.Context, caller domain.Caller, id int64, in UpdateInput) (*domain.Result, error) {
	if err := Authorize(caller, ActionUpdate, nil); err != nil {
		return nil, err
	}

	var updated *domain.Result
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		res, err := s.resultRepo.GetResult(ctx, id)
		if err != nil {
			return err
		}
		if res == nil {
			return errs.BadReference
		}
		// ownership is checked before the new owner is resolved
		if err := Authorize(caller, ActionUpdate, res); err != nil {
			return err
		}

		var newOwner *domain.Users
		if in.OwnerID != nil {
			owner, err := s.userPort.Get(ctx, *in.OwnerID)
			if err != nil {
				return err
			}
			if owner == nil {
				return errs.BadReference
			}
			newOwner = owner
		}

		if in.Value != nil {
			res.Value = *in.Value
		}
		if newOwner != nil {
			res.Owner = newOwner
		}
		if in.RecordedAt != nil {
			res.RecordedAt = *in.RecordedAt
		}
		if err := s.resultRepo.UpdateResult(ctx, res); err != nil {
			return err
		}
		updated = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ResultService) Delete(ctx context.Context, caller domain.Caller, id int64) error {
	if err := Authorize(caller, ActionDelete, nil); err != nil {
		return err
	}
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		res, err := s.resultRepo.GetResult(ctx, id)
		if err != nil {
			return err
		}
		if res == nil {
			return errs.NotFound
		}
		if err := Authorize(caller, ActionDelete, res); err != nil {
			return err
		}
		removed, err := s.resultRepo.DeleteResult(ctx, id)
		if err != nil {
			return err
		}
		if !removed {
			return errs.NotFound
		}
		s.logger.Debug("result deleted", "id", id, "caller", caller.UserID)
		return nil
	})
}

// Options lists the verbs allowed on the collection or on a single item.
func (s *ResultService) Options(hasID bool) []string {
	verbs := collectionVerbs
	if hasID {
		verbs = itemVerbs
	}
	out := make([]string, len(verbs))
	copy(out, verbs)
	return out
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
