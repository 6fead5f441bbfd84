package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaSQL(t *testing.T) {
	ddl := schemaSQL("app")

	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS app.users")
	assert.Contains(t, ddl, "REFERENCES app.users (id) ON DELETE CASCADE")
	// value is a Go int, so the column has to hold 64 bits
	assert.Contains(t, ddl, "result  BIGINT NOT NULL")
	assert.NotContains(t, ddl, "INTEGER")
	assert.NotContains(t, ddl, "%")
	assert.Equal(t, 1, strings.Count(ddl, "CREATE INDEX"))
}
