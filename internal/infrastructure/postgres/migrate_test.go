package postgres

import (
	"io/fs"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_SequentialAtRoot(t *testing.T) {
	files, err := migrationFiles()
	require.NoError(t, err)

	names, err := fs.Glob(files, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	seq := regexp.MustCompile(`^(\d+)_.+\.sql$`)
	for i, name := range names {
		m := seq.FindStringSubmatch(name)
		require.NotNil(t, m, name)
		n, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		assert.Equal(t, i+1, n, "numeración sin huecos: %s", name)
	}
}

func TestMigrationFiles_InitCreatesSchema(t *testing.T) {
	files, err := migrationFiles()
	require.NoError(t, err)

	body, err := fs.ReadFile(files, "001_init.sql")
	require.NoError(t, err)
	for _, table := range []string{"users", "products", "orders", "order_items"} {
		assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS "+table)
	}
	// tern procesa cada archivo como text/template
	assert.NotContains(t, string(body), "{{")
}
