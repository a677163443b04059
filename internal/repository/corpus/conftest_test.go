package corpus

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/vedarag/internal/db/sqldb"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	conn, err := sqldb.Open(context.Background(), sqldb.Options{Driver: sqldb.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	for _, file := range []string{"testdata/schema.sql", "testdata/fixtures.sql"} {
		data, err := os.ReadFile(file)
		require.NoError(t, err)
		for _, stmt := range strings.Split(string(data), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			_, err := conn.Exec(stmt)
			require.NoError(t, err, "exec %s", file)
		}
	}
	return New(conn)
}
