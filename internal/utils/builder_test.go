package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectWithJoin(t *testing.T) {
	query, args := NewQueryBuilder("public").
		Select("r.id", "u.user_name").
		From("results r").
		Join(JoinTypeInner, "users", "u", "u.id = r.user_id").
		Where("r.id = ?", 3).
		Or("r.id = ?", 4).
		OrderBy("r.id", true).
		Build()

	assert.Equal(t,
		"SELECT r.id, u.user_name FROM public.results r INNER JOIN public.users u ON u.id = r.user_id WHERE r.id = ? OR r.id = ? ORDER BY r.id ASC",
		query)
	assert.Equal(t, []interface{}{3, 4}, args)
}

func TestInsertReturning(t *testing.T) {
	query, args := NewQueryBuilder("app").
		Insert("result", "user_id").
		Into("results").
		Values(42, int64(7)).
		Returning("id").
		Build()

	assert.Equal(t, "INSERT INTO app.results (result, user_id) VALUES (?, ?) RETURNING id", query)
	assert.Equal(t, []interface{}{42, int64(7)}, args)
}

func TestInsertMultipleRows(t *testing.T) {
	query, args := NewQueryBuilder("").
		Insert("a", "b").
		Into("t").
		Values(1, 2).
		Values(3, 4).
		Build()

	assert.Equal(t, "INSERT INTO t (a, b) VALUES (?, ?), (?, ?)", query)
	assert.Equal(t, []interface{}{1, 2, 3, 4}, args)
}

func TestInsertColumnMismatch(t *testing.T) {
	query, args := NewQueryBuilder("").Insert("a", "b").Into("t").Values(1).Build()
	assert.Empty(t, query)
	assert.Nil(t, args)
}

func TestUpdateIsStable(t *testing.T) {
	query, args := NewQueryBuilder("public").
		Update("results", UpdateData{"user_id": int64(2), "result": 5, "time": "now"}).
		Where("id = ?", int64(9)).
		Build()

	assert.Equal(t, "UPDATE public.results SET result = ?, time = ?, user_id = ? WHERE id = ?", query)
	assert.Equal(t, []interface{}{5, "now", int64(2), int64(9)}, args)
}

func TestDelete(t *testing.T) {
	query, args := NewQueryBuilder("public").Delete("results").Where("id = ?", int64(1)).Build()
	assert.Equal(t, "DELETE FROM public.results WHERE id = ?", query)
	assert.Equal(t, []interface{}{int64(1)}, args)

	query, _ = NewQueryBuilder("public").Delete("results").Build()
	assert.Empty(t, query)
}

func TestJoinWithoutAlias(t *testing.T) {
	query, _ := NewQueryBuilder("").
		Select("results.id").
		From("results").
		Join(JoinTypeLeft, "users", "", "users.id = results.user_id").
		Build()

	assert.Equal(t, "SELECT results.id FROM results LEFT JOIN users ON users.id = results.user_id", query)
	assert.Equal(t, "", JoinType(0).String())
}
