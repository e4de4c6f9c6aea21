package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/truewood-ems/ems-backend-go/internal/pkg/database"
)

// testDB is nil when TEST_DATABASE_URL is not set; integration tests skip.
var testDB *database.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn != "" {
		ctx := context.Background()
		db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 5, MinConns: 1})
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to connect to test database: %v\n", err)
			os.Exit(1)
		}
		if err := database.RunMigrations(db, zap.NewNop()); err != nil {
			fmt.Fprintf(os.Stderr, "failed to migrate test database: %v\n", err)
			os.Exit(1)
		}
		testDB = db
	}

	code := m.Run()
	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

func requireDB(t *testing.T) *database.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
	truncateAllTables(t)
	return testDB
}

// truncateAllTables clears data tables; weekly_offs rows are reset instead.
func truncateAllTables(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	tables := []string{
		"attendance",
		"employees",
		"work_site_schedule_history",
		"work_sites",
		"holidays",
		"leave_types",
		"departments",
		"categories",
	}
	for _, table := range tables {
		if _, err := testDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}
	if _, err := testDB.Exec(ctx, `UPDATE weekly_offs SET is_off = (weekday = 0)`); err != nil {
		t.Fatalf("failed to reset weekly_offs: %v", err)
	}
}
