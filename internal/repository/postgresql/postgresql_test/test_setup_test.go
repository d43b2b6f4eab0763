package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/database"
)

// TestDatabaseSetup holds the connection used by repository tests.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema. Tests are skipped
// when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{MaxConns: 5, MinConns: 1})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	if err := setup.TruncateAllTables(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to truncate: %v", err)
	}
	t.Cleanup(setup.Close)

	return setup
}

// TruncateAllTables removes all rows.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"worker_locations",
		"attendances",
		"applications",
		"events",
		"workers",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// SeedWorker inserts a worker and returns its id.
func (t *TestDatabaseSetup) SeedWorker(ctx context.Context, name string) (string, error) {
	var id string
	err := t.DB.QueryRow(ctx, `INSERT INTO workers (full_name, phone) VALUES ($1, '010-0000-0000') RETURNING id`, name).Scan(&id)
	return id, err
}

// SeedEvent inserts an event centred on the given coordinate and returns its id.
func (t *TestDatabaseSetup) SeedEvent(ctx context.Context, title, code string, lat, lon float64) (string, error) {
	var id string
	err := t.DB.QueryRow(ctx, `
		INSERT INTO events (title, latitude, longitude, check_in_code, hourly_rate, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, 12000, NOW(), NOW() + INTERVAL '8 hours')
		RETURNING id`, title, lat, lon, code).Scan(&id)
	return id, err
}

// SeedApplication inserts an application with the given status and returns its id.
func (t *TestDatabaseSetup) SeedApplication(ctx context.Context, eventID, workerID, status string) (string, error) {
	var id string
	err := t.DB.QueryRow(ctx, `
		INSERT INTO applications (event_id, worker_id, status) VALUES ($1, $2, $3) RETURNING id`,
		eventID, workerID, status).Scan(&id)
	return id, err
}

// Close closes the connection pool.
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
