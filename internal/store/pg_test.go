package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	pgTestDB     *gorm.DB
	sqliteTestDB *gorm.DB
	pgContainer  *postgres.PostgresContainer
)

// TestMain sets up the test databases before running tests.
// SQLite always runs. PostgreSQL runs against TEST_DB_HOST when set,
// or a throwaway container when TEST_PG_CONTAINER=1.
func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	sqliteTestDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Printf("Failed to open sqlite database: %v\n", err)
		os.Exit(1)
	}
	if sqlDB, err := sqliteTestDB.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := Migrate(sqliteTestDB); err != nil {
		fmt.Printf("Failed to migrate sqlite database: %v\n", err)
		os.Exit(1)
	}

	dsn, err := postgresTestDSN(ctx)
	if err != nil {
		fmt.Printf("Failed to prepare PostgreSQL: %v\n", err)
		terminateContainer(ctx)
		os.Exit(1)
	}

	if dsn != "" {
		pgTestDB, err = gorm.Open(pgdriver.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			fmt.Printf("Failed to connect to database: %v\n", err)
			terminateContainer(ctx)
			os.Exit(1)
		}

		if err := initializeTestDatabase(pgTestDB); err != nil {
			fmt.Printf("Failed to initialize database: %v\n", err)
			terminateContainer(ctx)
			os.Exit(1)
		}
	}

	code := m.Run()

	terminateContainer(ctx)

	os.Exit(code)
}

func postgresTestDSN(ctx context.Context) (string, error) {
	dbHost := os.Getenv("TEST_DB_HOST")
	if dbHost != "" {
		dbPort := envOr("TEST_DB_PORT", "5432")
		dbUser := envOr("TEST_DB_USER", "postgres")
		dbPassword := envOr("TEST_DB_PASSWORD", "postgres")
		dbName := envOr("TEST_DB_NAME", "test_db")

		fmt.Printf("Using external database: %s:%s/%s\n", dbHost, dbPort, dbName)
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPassword, dbName), nil
	}

	if os.Getenv("TEST_PG_CONTAINER") != "1" {
		return "", nil
	}

	var err error
	pgContainer, err = postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return "", fmt.Errorf("failed to start PostgreSQL container: %w", err)
	}

	fmt.Printf("Started PostgreSQL container\n")
	return pgContainer.ConnectionString(ctx, "sslmode=disable")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func terminateContainer(ctx context.Context) {
	if pgContainer == nil {
		return
	}
	if err := pgContainer.Terminate(ctx); err != nil {
		fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
	}
}

// initializeTestDatabase runs the schema initialization SQL
func initializeTestDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	schemaPath := filepath.Join("..", "..", "db", "init_pg_db.sql")
	schemaSQL, err := os.ReadFile(schemaPath) //nolint:gosec,G304
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	if _, err = sqlDB.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// txStore opens a transaction per test and rolls it back on cleanup for isolation
func txStore(t *testing.T, db *gorm.DB) Store {
	tx := db.Begin()
	require.NotNil(t, tx)
	require.NoError(t, tx.Error)

	t.Cleanup(func() {
		tx.Rollback()
	})

	return NewPGStore(tx)
}

// cleanupTestDB is a no-op; the rollback registered in txStore does the work
func cleanupTestDB(t *testing.T) {}

// TestPostgreSQLStore runs all store tests against PostgreSQL
func TestPostgreSQLStore(t *testing.T) {
	if pgTestDB == nil {
		t.Skip("PostgreSQL not configured, set TEST_DB_HOST or TEST_PG_CONTAINER=1")
	}

	RunStoreTests(t, func(t *testing.T) Store { return txStore(t, pgTestDB) }, cleanupTestDB)
}

// TestSQLiteStore runs all store tests against in-memory SQLite
func TestSQLiteStore(t *testing.T) {
	RunStoreTests(t, func(t *testing.T) Store { return txStore(t, sqliteTestDB) }, cleanupTestDB)
}

// TestPostgreSQLStore_ConcurrentRecordDeposit races deposits over the real connection pool
func TestPostgreSQLStore_ConcurrentRecordDeposit(t *testing.T) {
	if pgTestDB == nil {
		t.Skip("PostgreSQL not configured, set TEST_DB_HOST or TEST_PG_CONTAINER=1")
	}

	testConcurrentRecordDeposit(t, pgTestDB)
}

// TestSQLiteStore_ConcurrentRecordDeposit races deposits on the shared SQLite connection
func TestSQLiteStore_ConcurrentRecordDeposit(t *testing.T) {
	testConcurrentRecordDeposit(t, sqliteTestDB)
}
