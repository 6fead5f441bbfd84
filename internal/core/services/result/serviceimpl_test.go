package result

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/results-api.net/internal/adapter/logging"
	"gitlab.com/results-api.net/internal/adapter/memory"
	"gitlab.com/results-api.net/internal/domain"
	"gitlab.com/results-api.net/internal/static/errs"
)

type fixture struct {
	svc   *ResultService
	store *memory.Store
	admin domain.Caller
	users map[string]*domain.Users
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	f := &fixture{
		svc:   NewResultService(store, store, store, logging.NewNopLogger()),
		store: store,
		users: make(map[string]*domain.Users),
	}
	admin := f.addUser(t, "admin", domain.RoleAdmin, domain.RoleUser)
	f.admin = callerOf(admin)
	return f
}

func (f *fixture) addUser(t *testing.T, name string, roles ...domain.Role) *domain.Users {
	t.Helper()
	u := &domain.Users{UserName: name}
	for _, r := range roles {
		u.Roles = append(u.Roles, string(r))
	}
	require.NoError(t, f.store.Create(context.Background(), u))
	f.users[name] = u
	return u
}

func callerOf(u *domain.Users) domain.Caller {
	c := domain.Caller{UserID: u.ID, UserName: u.UserName}
	for _, r := range u.Roles {
		c.Roles = append(c.Roles, domain.Role(r))
	}
	return c
}

func intPtr(v int) *int { return &v }
func idPtr(v int64) *int64 { return &v }

func TestCreateThenGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.addUser(t, "owner", domain.RoleUser)

	created, err := f.svc.Create(ctx, f.admin, CreateInput{Value: intPtr(42), OwnerID: idPtr(owner.ID)})
	require.NoError(t, err)
	assert.Greater(t, created.ID, int64(0))

	got, err := f.svc.Get(ctx, f.admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Value)
	assert.Equal(t, owner.ID, got.OwnerID())
	assert.False(t, got.RecordedAt.IsZero())
}

func TestCreateKeepsSuppliedTime(t *testing.T) {
	f := newFixture(t)
	at := time.Date(2019, 5, 1, 10, 0, 0, 0, time.UTC)
	created, err := f.svc.Create(context.Background(), f.admin,
		CreateInput{Value: intPtr(1), OwnerID: idPtr(f.admin.UserID), RecordedAt: &at})
	require.NoError(t, err)
	assert.Equal(t, at, created.RecordedAt)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Create(ctx, f.admin, CreateInput{OwnerID: idPtr(f.admin.UserID)})
	assert.ErrorIs(t, err, errs.Validation)

	_, err = f.svc.Create(ctx, f.admin, CreateInput{Value: intPtr(3)})
	assert.ErrorIs(t, err, errs.Validation)

	_, err = f.svc.Create(ctx, f.admin, CreateInput{Value: intPtr(3), OwnerID: idPtr(999)})
	assert.ErrorIs(t, err, errs.BadReference)

	all, err := f.store.GetAllResults(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.addUser(t, "alice", domain.RoleUser)
	bob := f.addUser(t, "bob", domain.RoleUser)

	_, err := f.svc.Create(ctx, callerOf(alice), CreateInput{Value: intPtr(1), OwnerID: idPtr(bob.ID)})
	assert.ErrorIs(t, err, errs.Forbidden)

	res, err := f.svc.Create(ctx, callerOf(alice), CreateInput{Value: intPtr(1), OwnerID: idPtr(alice.ID)})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, res.OwnerID())
}

func TestUnauthenticatedCaller(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.List(ctx, domain.Caller{})
	assert.ErrorIs(t, err, errs.Unauthenticated)
	_, err = f.svc.Get(ctx, domain.Caller{}, 1)
	assert.ErrorIs(t, err, errs.Unauthenticated)
	err = f.svc.Delete(ctx, domain.Caller{}, 1)
	assert.ErrorIs(t, err, errs.Unauthenticated)
}

func TestCallerWithoutRole(t *testing.T) {
	f := newFixture(t)
	guest := f.addUser(t, "guest")
	_, err := f.svc.Create(context.Background(), callerOf(guest),
		CreateInput{Value: intPtr(1), OwnerID: idPtr(guest.ID)})
	assert.ErrorIs(t, err, errs.Forbidden)
}

func TestListIsAdminOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.addUser(t, "alice", domain.RoleUser)

	_, err := f.svc.List(ctx, callerOf(alice))
	assert.ErrorIs(t, err, errs.Forbidden)

	_, err = f.svc.Create(ctx, callerOf(alice), CreateInput{Value: intPtr(1), OwnerID: idPtr(alice.ID)})
	require.NoError(t, err)

	_, err = f.svc.List(ctx, callerOf(alice))
	assert.ErrorIs(t, err, errs.Forbidden)

	all, err := f.svc.List(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestListEmptyIsNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.List(context.Background(), f.admin)
	assert.ErrorIs(t, err, errs.NotFound)
}

func TestOwnershipOnItemActions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.addUser(t, "alice", domain.RoleUser)
	bob := f.addUser(t, "bob", domain.RoleUser)

	res, err := f.svc.Create(ctx, f.admin, CreateInput{Value: intPtr(5), OwnerID: idPtr(alice.ID)})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, callerOf(bob), res.ID)
	assert.ErrorIs(t, err, errs.Forbidden)
	_, err = f.svc.Update(ctx, callerOf(bob), res.ID, UpdateInput{Value: intPtr(6)})
	assert.ErrorIs(t, err, errs.Forbidden)
	err = f.svc.Delete(ctx, callerOf(bob), res.ID)
	assert.ErrorIs(t, err, errs.Forbidden)

	got, err := f.svc.Get(ctx, callerOf(alice), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Value)

	upd, err := f.svc.Update(ctx, callerOf(alice), res.ID, UpdateInput{Value: intPtr(6)})
	require.NoError(t, err)
	assert.Equal(t, 6, upd.Value)

	require.NoError(t, f.svc.Delete(ctx, callerOf(alice), res.ID))
}

func TestUpdateChecksExistingOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.addUser(t, "alice", domain.RoleUser)
	bob := f.addUser(t, "bob", domain.RoleUser)

	res, err := f.svc.Create(ctx, f.admin, CreateInput{Value: intPtr(5), OwnerID: idPtr(alice.ID)})
	require.NoError(t, err)

	// bob cannot take over alice's result by naming himself as the new owner
	_, err = f.svc.Update(ctx, callerOf(bob), res.ID, UpdateInput{OwnerID: idPtr(bob.ID)})
	assert.ErrorIs(t, err, errs.Forbidden)

	// alice may hand her result to bob
	upd, err := f.svc.Update(ctx, callerOf(alice), res.ID, UpdateInput{OwnerID: idPtr(bob.ID)})
	require.NoError(t, err)
	assert.Equal(t, bob.ID, upd.OwnerID())
}

func TestUpdateForbiddenBeforeOwnerLookup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.addUser(t, "alice", domain.RoleUser)
	bob := f.addUser(t, "bob", domain.RoleUser)

	res, err := f.svc.Create(ctx, f.admin, CreateInput{Value: intPtr(5), OwnerID: idPtr(alice.ID)})
	require.NoError(t, err)

	// unknown and known owner ids answer the same for a foreign caller
	_, err = f.svc.Update(ctx, callerOf(bob), res.ID, UpdateInput{OwnerID: idPtr(999)})
	assert.ErrorIs(t, err, errs.Forbidden)
	_, err = f.svc.Update(ctx, callerOf(bob), res.ID, UpdateInput{OwnerID: idPtr(alice.ID)})
	assert.ErrorIs(t, err, errs.Forbidden)

	// the owner still gets the missing reference
	_, err = f.svc.Update(ctx, callerOf(alice), res.ID, UpdateInput{OwnerID: idPtr(999)})
	assert.ErrorIs(t, err, errs.BadReference)
}

func TestUpdatePartial(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.addUser(t, "alice", domain.RoleUser)
	bob := f.addUser(t, "bob", domain.RoleUser)

	res, err := f.svc.Create(ctx, f.admin, CreateInput{Value: intPtr(5), OwnerID: idPtr(alice.ID)})
	require.NoError(t, err)

	upd, err := f.svc.Update(ctx, f.admin, res.ID, UpdateInput{Value: intPtr(9)})
	require.NoError(t, err)
	assert.Equal(t, 9, upd.Value)
	assert.Equal(t, alice.ID, upd.OwnerID())

	upd, err = f.svc.Update(ctx, f.admin, res.ID, UpdateInput{OwnerID: idPtr(bob.ID)})
	require.NoError(t, err)
	assert.Equal(t, 9, upd.Value)
	assert.Equal(t, bob.ID, upd.OwnerID())
	assert.Equal(t, res.RecordedAt, upd.RecordedAt)

	stored, err := f.svc.Get(ctx, f.admin, res.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, stored.Value)
	assert.Equal(t, bob.ID, stored.OwnerID())
}

func TestUpdateMissingReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Update(ctx, f.admin, 77, UpdateInput{Value: intPtr(1)})
	assert.ErrorIs(t, err, errs.BadReference)

	res, err := f.svc.Create(ctx, f.admin, CreateInput{Value: intPtr(5), OwnerID: idPtr(f.admin.UserID)})
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, f.admin, res.ID, UpdateInput{Value: intPtr(8), OwnerID: idPtr(999)})
	assert.ErrorIs(t, err, errs.BadReference)

	stored, err := f.svc.Get(ctx, f.admin, res.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Value)
}

func TestDeleteThenGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.svc.Create(ctx, f.admin, CreateInput{Value: intPtr(5), OwnerID: idPtr(f.admin.UserID)})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, f.admin, res.ID))

	_, err = f.svc.Get(ctx, f.admin, res.ID)
	assert.ErrorIs(t, err, errs.NotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.admin, res.ID), errs.NotFound)
}

func TestAdminScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.addUser(t, "owner", domain.RoleUser)
	other := f.addUser(t, "other", domain.RoleUser)

	res, err := f.svc.Create(ctx, f.admin, CreateInput{Value: intPtr(42), OwnerID: idPtr(owner.ID)})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, callerOf(other), res.ID)
	assert.ErrorIs(t, err, errs.Forbidden)

	got, err := f.svc.Get(ctx, callerOf(owner), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Value)

	require.NoError(t, f.svc.Delete(ctx, f.admin, res.ID))
	_, err = f.svc.Get(ctx, f.admin, res.ID)
	assert.ErrorIs(t, err, errs.NotFound)
}

func TestOptions(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, []string{"GET", "POST"}, f.svc.Options(false))
	assert.Equal(t, []string{"GET", "PUT", "DELETE"}, f.svc.Options(true))
}

func TestAuthorize(t *testing.T) {
	admin := domain.Caller{UserID: 1, Roles: []domain.Role{domain.RoleAdmin}}
	user := domain.Caller{UserID: 2, Roles: []domain.Role{domain.RoleUser}}
	own := &domain.Result{Owner: &domain.Users{ID: 2}}
	foreign := &domain.Result{Owner: &domain.Users{ID: 3}}

	cases := []struct {
		name   string
		caller domain.Caller
		action Action
		target *domain.Result
		want   error
	}{
		{"nobody", domain.Caller{}, ActionGet, nil, errs.Unauthenticated},
		{"admin list", admin, ActionList, nil, nil},
		{"user list", user, ActionList, nil, errs.Forbidden},
		{"admin foreign", admin, ActionDelete, foreign, nil},
		{"user own", user, ActionUpdate, own, nil},
		{"user foreign", user, ActionGet, foreign, errs.Forbidden},
		{"user capability", user, ActionCreate, nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.caller, tc.action, tc.target)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
