package userrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/results-api.net/internal/adapter/postgres"
	"gitlab.com/results-api.net/internal/core/ports/primary"
	"gitlab.com/results-api.net/internal/core/ports/secondary"
	"gitlab.com/results-api.net/internal/domain"
	querybuilder "gitlab.com/results-api.net/internal/utils"
)

var _ secondary.UserPort = &userRepo{}

type userRepo struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

func New(db *sqlx.DB, logger primary.Logger, schema string) secondary.UserPort {
	return &userRepo{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

func (u userRepo) Create(ctx context.Context, user *domain.Users) error {
	userTbl := domain.GetUserTable()
	if user.AuthProvider == "" {
		user.AuthProvider = string(domain.ProviderLocal)
	}
	if len(user.Roles) == 0 {
		user.Roles = []string{string(domain.RoleUser)}
	}
	query, args := querybuilder.NewQueryBuilder(u.schema).Insert(
		userTbl.UserName, userTbl.Email, userTbl.PasswordHash,
		userTbl.AuthProvider, userTbl.GoogleID, userTbl.Roles,
	).
		Into(userTbl.GetTableName()).
		Values(
			user.UserName, user.Email, user.PasswordHash,
			user.AuthProvider, user.GoogleID, user.Roles,
		).
		Returning(userTbl.ID).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	return postgres.Executor(ctx, u.db).QueryRowxContext(ctx, query, args...).Scan(&user.ID)
}

// Delete removes the user; the results it owns go with it through the foreign key.
func (u userRepo) Delete(ctx context.Context, id int64) error {
	userTbl := domain.GetUserTable()
	query, args := querybuilder.NewQueryBuilder(u.schema).
		Delete(userTbl.GetTableName()).
		Where(fmt.Sprintf("%s = ?", userTbl.ID), id).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	_, err := postgres.Executor(ctx, u.db).ExecContext(ctx, query, args...)
	return err
}

func (u userRepo) Get(ctx context.Context, id int64) (*domain.Users, error) {
	return u.getBy(ctx, domain.GetUserTable().ID, id)
}

func (u userRepo) GetByEmail(ctx context.Context, email string) (*domain.Users, error) {
	return u.getBy(ctx, domain.GetUserTable().Email, email)
}

func (u userRepo) GetByUserName(ctx context.Context, userName string) (*domain.Users, error) {
	return u.getBy(ctx, domain.GetUserTable().UserName, userName)
}

func (u userRepo) GetByGoogleID(ctx context.Context, googleID string) (*domain.Users, error) {
	return u.getBy(ctx, domain.GetUserTable().GoogleID, googleID)
}

func (u userRepo) getBy(ctx context.Context, col string, value interface{}) (*domain.Users, error) {
	userTbl := domain.GetUserTable()
	query, args := querybuilder.NewQueryBuilder(u.schema).
		Select(userTbl.Columns()...).
		From(userTbl.GetTableName()).
		Where(fmt.Sprintf("%s = ?", col), value).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	var user domain.Users
	err := sqlx.GetContext(ctx, postgres.Executor(ctx, u.db), &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}
