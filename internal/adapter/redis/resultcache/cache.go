package resultcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/results-api.net/internal/core/ports/primary"
	"gitlab.com/results-api.net/internal/core/ports/secondary"
	"gitlab.com/results-api.net/internal/domain"
)

const resultKeyPrefix = "result:"

var (
	_ secondary.ResultRepository = &CachedRepository{}
	_ secondary.Transactor       = &CachedRepository{}
)

// CachedRepository serves single result lookups from Redis and falls through to
// the wrapped repository on a miss. Every write drops the cached entry, and writes
// made inside WithinTransaction drop it once more after the transaction ends, so
// a reader that refilled the entry from the old row in between does not survive
// the commit. Lookups inside a transaction bypass the cache. Redis failures
// are logged and never fail the request.
type CachedRepository struct {
	next        secondary.ResultRepository
	tx          secondary.Transactor
	redisClient *redis.Client
	ttl         time.Duration
	logger      primary.Logger
}

func New(next secondary.ResultRepository, tx secondary.Transactor, redisClient *redis.Client, ttl time.Duration, logger primary.Logger) *CachedRepository {
	return &CachedRepository{
		next:        next,
		tx:          tx,
		redisClient: redisClient,
		ttl:         ttl,
		logger:      logger,
	}
}

type pendingKey struct{}

// pending collects the ids written during one transaction.
type pending struct {
	mu  sync.Mutex
	ids map[int64]struct{}
}

func (p *pending) add(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids[id] = struct{}{}
}

func pendingFrom(ctx context.Context) (*pending, bool) {
	p, ok := ctx.Value(pendingKey{}).(*pending)
	return p, ok
}

// WithinTransaction runs fn in the wrapped transactor and invalidates every result
// written by fn after the transaction has committed or rolled back.
func (c *CachedRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := pendingFrom(ctx); ok {
		return c.tx.WithinTransaction(ctx, fn)
	}

	p := &pending{ids: make(map[int64]struct{})}
	err := c.tx.WithinTransaction(context.WithValue(ctx, pendingKey{}, p), fn)
	for id := range p.ids {
		c.invalidate(ctx, id)
	}
	return err
}

func resultKey(id int64) string {
	return fmt.Sprintf("%s%d", resultKeyPrefix, id)
}

func (c *CachedRepository) GetResult(ctx context.Context, id int64) (*domain.Result, error) {
	if _, inTx := pendingFrom(ctx); inTx {
		return c.next.GetResult(ctx, id)
	}

	data, err := c.redisClient.Get(ctx, resultKey(id)).Bytes()
	switch {
	case err == nil:
		var res domain.Result
		if err := json.Unmarshal(data, &res); err == nil {
			return &res, nil
		}
		c.logger.Warn("Dropping undecodable cached result", "id", id)
		c.invalidate(ctx, id)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("Result cache read failed", "id", id, "error", err)
	}

	res, err := c.next.GetResult(ctx, id)
	if err != nil || res == nil {
		return res, err
	}
	c.store(ctx, res)
	return res, nil
}

func (c *CachedRepository) GetAllResults(ctx context.Context) ([]*domain.Result, error) {
	return c.next.GetAllResults(ctx)
}

func (c *CachedRepository) CreateResult(ctx context.Context, result *domain.Result) error {
	return c.next.CreateResult(ctx, result)
}

func (c *CachedRepository) UpdateResult(ctx context.Context, result *domain.Result) error {
	if err := c.next.UpdateResult(ctx, result); err != nil {
		return err
	}
	c.written(ctx, result.ID)
	return nil
}

func (c *CachedRepository) DeleteResult(ctx context.Context, id int64) (bool, error) {
	removed, err := c.next.DeleteResult(ctx, id)
	if err != nil {
		return removed, err
	}
	c.written(ctx, id)
	return removed, nil
}

// cachedOwner strips credentials before a result leaves the process.
func cachedOwner(u *domain.Users) *domain.Users {
	if u == nil {
		return nil
	}
	return &domain.Users{
		ID:       u.ID,
		UserName: u.UserName,
		Email:    u.Email,
		Roles:    u.Roles,
	}
}

func (c *CachedRepository) store(ctx context.Context, res *domain.Result) {
	entry := *res
	entry.Owner = cachedOwner(res.Owner)
	data, err := json.Marshal(&entry)
	if err != nil {
		c.logger.Error("Failed to encode result for cache", "id", res.ID, "error", err)
		return
	}
	if err := c.redisClient.Set(ctx, resultKey(res.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Result cache write failed", "id", res.ID, "error", err)
	}
}

// written drops the entry now and, inside a transaction, again after it ends.
func (c *CachedRepository) written(ctx context.Context, id int64) {
	c.invalidate(ctx, id)
	if p, ok := pendingFrom(ctx); ok {
		p.add(id)
	}
}

func (c *CachedRepository) invalidate(ctx context.Context, id int64) {
	if err := c.redisClient.Del(ctx, resultKey(id)).Err(); err != nil {
		c.logger.Warn("Result cache invalidation failed", "id", id, "error", err)
	}
}
