// Package testutil starts throwaway Postgres and S3 containers for the
// integration tests. Every container is removed when its test ends.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"

	"github.com/cloo-solutions/folio/internal/database"
)

const (
	postgresImage = "postgres:17-alpine"
	postgresCreds = "folio"
	rustFSImage   = "rustfs/rustfs:latest"

	RustFSAccessKey = "rustfsadmin"
	RustFSSecretKey = "rustfsadmin"
)

// Postgres is a running Postgres server with an empty folio database.
type Postgres struct {
	URL string
}

// StartPostgres runs a Postgres container for the lifetime of t.
func StartPostgres(ctx context.Context, t *testing.T) *Postgres {
	t.Helper()

	c := run(ctx, t, testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     postgresCreds,
			"POSTGRES_PASSWORD": postgresCreds,
			"POSTGRES_DB":       postgresCreds,
		},
		WaitingFor: wait.ForAll(
			// Postgres restarts once after initdb.
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		).WithStartupTimeout(60 * time.Second),
	})

	endpoint, err := c.PortEndpoint(ctx, "5432/tcp", "")
	if err != nil {
		t.Fatalf("failed to resolve postgres endpoint: %v", err)
	}

	return &Postgres{
		URL: fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", postgresCreds, postgresCreds, endpoint, postgresCreds),
	}
}

// NewTestPool migrates the database with the server's migration runner and
// returns a pool that is closed when t ends.
func NewTestPool(ctx context.Context, t *testing.T, pg *Postgres, migrationsDir string) *pgxpool.Pool {
	t.Helper()

	if err := database.Migrate(pg.URL, migrationsDir, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := database.NewPool(ctx, database.Config{URL: pg.URL, MaxConns: 4, ConnectTimeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// TruncateQueryLogs empties the query log between test cases.
func TruncateQueryLogs(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, "TRUNCATE TABLE query_logs"); err != nil {
		return fmt.Errorf("failed to truncate query_logs: %w", err)
	}
	return nil
}

// S3 is a running S3-compatible object store.
type S3 struct {
	Endpoint string
}

// StartS3 runs a RustFS container for the lifetime of t. It accepts
// RustFSAccessKey and RustFSSecretKey.
func StartS3(ctx context.Context, t *testing.T) *S3 {
	t.Helper()

	c := run(ctx, t, testcontainers.ContainerRequest{
		Image:        rustFSImage,
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"RUSTFS_ACCESS_KEY": RustFSAccessKey,
			"RUSTFS_SECRET_KEY": RustFSSecretKey,
		},
		WaitingFor: wait.ForListeningPort("9000/tcp").WithStartupTimeout(30 * time.Second),
	})

	endpoint, err := c.PortEndpoint(ctx, "9000/tcp", "http")
	if err != nil {
		t.Fatalf("failed to resolve s3 endpoint: %v", err)
	}
	return &S3{Endpoint: endpoint}
}

func run(ctx context.Context, t *testing.T, req testcontainers.ContainerRequest) testcontainers.Container {
	t.Helper()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	testcontainers.CleanupContainer(t, c)
	if err != nil {
		t.Fatalf("failed to start %s: %v", req.Image, err)
	}
	return c
}
