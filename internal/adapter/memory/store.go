package memory

import (
	"context"
	"sort"
	"sync"

	"gitlab.com/results-api.net/internal/core/ports/secondary"
	"gitlab.com/results-api.net/internal/domain"
)

var (
	_ secondary.ResultRepository = &Store{}
	_ secondary.UserPort         = &Store{}
	_ secondary.Transactor       = &Store{}
)

// Store keeps users and results in process. Transactions are serialized and roll
// back by restoring a snapshot.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	users   map[int64]domain.Users
	results map[int64]domain.ResultRow

	nextUserID   int64
	nextResultID int64
}

func New() *Store {
	return &Store{
		users:   make(map[int64]domain.Users),
		results: make(map[int64]domain.ResultRow),
	}
}

type txKey struct{}

// WithinTransaction serializes fn against other transactions and restores the
// previous state when it fails. Nested calls join the outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if owner, ok := ctx.Value(txKey{}).(*Store); ok && owner == s {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	users        map[int64]domain.Users
	results      map[int64]domain.ResultRow
	nextUserID   int64
	nextResultID int64
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		users:        make(map[int64]domain.Users, len(s.users)),
		results:      make(map[int64]domain.ResultRow, len(s.results)),
		nextUserID:   s.nextUserID,
		nextResultID: s.nextResultID,
	}
	for id, u := range s.users {
		snap.users[id] = u
	}
	for id, r := range s.results {
		snap.results[id] = r
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.results = snap.results
	s.nextUserID = snap.nextUserID
	s.nextResultID = snap.nextResultID
}

func (s *Store) GetResult(ctx context.Context, id int64) (*domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.results[id]
	if !ok {
		return nil, nil
	}
	return s.hydrate(row), nil
}

func (s *Store) GetAllResults(ctx context.Context) ([]*domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Result, 0, len(s.results))
	for _, row := range s.results {
		out = append(out, s.hydrate(row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateResult(ctx context.Context, result *domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[result.OwnerID()]; !ok {
		return ErrUnknownOwner
	}
	s.nextResultID++
	result.ID = s.nextResultID
	s.results[result.ID] = toRow(result)
	return nil
}

func (s *Store) UpdateResult(ctx context.Context, result *domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[result.ID]; !ok {
		return ErrUnknownResult
	}
	if _, ok := s.users[result.OwnerID()]; !ok {
		return ErrUnknownOwner
	}
	s.results[result.ID] = toRow(result)
	return nil
}

func (s *Store) DeleteResult(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[id]; !ok {
		return false, nil
	}
	delete(s.results, id)
	return true, nil
}

func (s *Store) Create(ctx context.Context, user *domain.Users) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.UserName == user.UserName {
			return ErrDuplicateUser
		}
	}
	s.nextUserID++
	user.ID = s.nextUserID
	s.users[user.ID] = *user
	return nil
}

// Delete removes the user together with every result it owns.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	for rid, row := range s.results {
		if row.UserID == id {
			delete(s.results, rid)
		}
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id int64) (*domain.Users, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findUser(func(u domain.Users) bool { return u.ID == id }), nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*domain.Users, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findUser(func(u domain.Users) bool { return u.Email != nil && *u.Email == email }), nil
}

func (s *Store) GetByGoogleID(ctx context.Context, googleID string) (*domain.Users, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findUser(func(u domain.Users) bool { return u.GoogleID != nil && *u.GoogleID == googleID }), nil
}

func (s *Store) GetByUserName(ctx context.Context, userName string) (*domain.Users, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findUser(func(u domain.Users) bool { return u.UserName == userName }), nil
}

func (s *Store) findUser(match func(u domain.Users) bool) *domain.Users {
	for _, u := range s.users {
		if match(u) {
			found := u
			return &found
		}
	}
	return nil
}

// hydrate must be called with mu held.
func (s *Store) hydrate(row domain.ResultRow) *domain.Result {
	var owner *domain.Users
	if u, ok := s.users[row.UserID]; ok {
		owner = &u
	}
	return &domain.Result{
		ID:         row.ID,
		Value:      row.Value,
		Owner:      owner,
		RecordedAt: row.RecordedAt,
	}
}

func toRow(r *domain.Result) domain.ResultRow {
	return domain.ResultRow{
		ID:         r.ID,
		Value:      r.Value,
		UserID:     r.OwnerID(),
		RecordedAt: r.RecordedAt,
	}
}
