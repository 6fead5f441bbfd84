package resultrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gitlab.com/results-api.net/internal/adapter/postgres"
	"gitlab.com/results-api.net/internal/core/ports/primary"
	"gitlab.com/results-api.net/internal/core/ports/secondary"
	"gitlab.com/results-api.net/internal/domain"
	"gitlab.com/results-api.net/internal/static/errs"
	querybuilder "gitlab.com/results-api.net/internal/utils"
)

var _ secondary.ResultRepository = &resultRepo{}

// foreign_key_violation
const fkViolation = "23503"

type resultRepo struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

func New(db *sqlx.DB, logger primary.Logger, schema string) secondary.ResultRepository {
	return &resultRepo{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

// resultWithOwner is one results row joined with its owner.
type resultWithOwner struct {
	domain.ResultRow
	UserName     string         `db:"user_name"`
	Email        *string        `db:"email"`
	PasswordHash *string        `db:"password_hash"`
	AuthProvider string         `db:"auth_provider"`
	GoogleID     *string        `db:"google_id"`
	Roles        pq.StringArray `db:"roles"`
}

func (r resultWithOwner) toDomain() *domain.Result {
	return &domain.Result{
		ID:    r.ID,
		Value: r.Value,
		Owner: &domain.Users{
			ID:           r.UserID,
			UserName:     r.UserName,
			Email:        r.Email,
			PasswordHash: r.PasswordHash,
			AuthProvider: r.AuthProvider,
			GoogleID:     r.GoogleID,
			Roles:        r.Roles,
		},
		RecordedAt: r.RecordedAt,
	}
}

func (p *resultRepo) selectJoined() querybuilder.QueryBuilder {
	resTbl := domain.GetResultTable()
	userTbl := domain.GetUserTable()
	return querybuilder.NewQueryBuilder(p.schema).
		Select(
			"r."+resTbl.ID, "r."+resTbl.Value, "r."+resTbl.UserID, "r."+resTbl.RecordedAt,
			"u."+userTbl.UserName, "u."+userTbl.Email, "u."+userTbl.PasswordHash,
			"u."+userTbl.AuthProvider, "u."+userTbl.GoogleID, "u."+userTbl.Roles,
		).
		From(resTbl.GetTableName()+" r").
		Join(querybuilder.JoinTypeInner, userTbl.GetTableName(), "u", fmt.Sprintf("u.%s = r.%s", userTbl.ID, resTbl.UserID))
}

func (p *resultRepo) GetResult(ctx context.Context, id int64) (*domain.Result, error) {
	query, args := p.selectJoined().
		Where(fmt.Sprintf("r.%s = ?", domain.GetResultTable().ID), id).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	var row resultWithOwner
	err := sqlx.GetContext(ctx, postgres.Executor(ctx, p.db), &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (p *resultRepo) GetAllResults(ctx context.Context) ([]*domain.Result, error) {
	query, args := p.selectJoined().
		OrderBy("r."+domain.GetResultTable().ID, true).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	var rows []resultWithOwner
	if err := sqlx.SelectContext(ctx, postgres.Executor(ctx, p.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select results: %w", err)
	}

	results := make([]*domain.Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.toDomain())
	}
	return results, nil
}

func (p *resultRepo) CreateResult(ctx context.Context, result *domain.Result) error {
	resTbl := domain.GetResultTable()
	query, args := querybuilder.NewQueryBuilder(p.schema).
		Insert(resTbl.Value, resTbl.UserID, resTbl.RecordedAt).
		Into(resTbl.GetTableName()).
		Values(result.Value, result.OwnerID(), result.RecordedAt).
		Returning(resTbl.ID).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	var id int64
	if err := postgres.Executor(ctx, p.db).QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return translate(err)
	}
	result.ID = id
	return nil
}

func (p *resultRepo) UpdateResult(ctx context.Context, result *domain.Result) error {
	resTbl := domain.GetResultTable()
	query, args := querybuilder.NewQueryBuilder(p.schema).
		Update(resTbl.GetTableName(), querybuilder.UpdateData{
			resTbl.Value:      result.Value,
			resTbl.UserID:     result.OwnerID(),
			resTbl.RecordedAt: result.RecordedAt,
		}).
		Where(fmt.Sprintf("%s = ?", resTbl.ID), result.ID).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	res, err := postgres.Executor(ctx, p.db).ExecContext(ctx, query, args...)
	if err != nil {
		return translate(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update result %d: %w", result.ID, errs.BadReference)
	}
	return nil
}

func (p *resultRepo) DeleteResult(ctx context.Context, id int64) (bool, error) {
	resTbl := domain.GetResultTable()
	query, args := querybuilder.NewQueryBuilder(p.schema).
		Delete(resTbl.GetTableName()).
		Where(fmt.Sprintf("%s = ?", resTbl.ID), id).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	res, err := postgres.Executor(ctx, p.db).ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// translate turns a dangling owner reference into errs.BadReference.
func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == fkViolation {
		return fmt.Errorf("%s: %w", pqErr.Constraint, errs.BadReference)
	}
	return err
}
