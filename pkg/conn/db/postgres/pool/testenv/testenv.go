// Package testenv provides postgres databases for tests.
//
// Databases run in containers started by testcontainers-go,
// so tests using this package need a container runtime.
// They are built with the "integration" tag.
package testenv

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	kpool "github.com/opst/vettracker/pkg/conn/db/postgres/pool"
	pgschema "github.com/opst/vettracker/pkg/domain/schema/db/postgres"
	"github.com/opst/vettracker/schema"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PoolBroaker gives pools to a test database.
type PoolBroaker interface {
	// GetPool returns a pool.
	//
	// Tables are cleaned up before returning and after t.
	GetPool(ctx context.Context, t *testing.T) kpool.Pool
}

type pgConnOptions struct {
	Image        string
	User         string
	Password     string
	Dbname       string
	NoSchema     bool
	DoNotCleanup bool
	TimeZone     string
}

type PgConnOption func(*pgConnOptions)

func WithImage(image string) PgConnOption {
	return func(o *pgConnOptions) { o.Image = image }
}

// WithoutSchema leaves the database empty.
func WithoutSchema() PgConnOption {
	return func(o *pgConnOptions) { o.NoSchema = true }
}

func WithDoNotCleanup() PgConnOption {
	return func(o *pgConnOptions) { o.DoNotCleanup = true }
}

// WithTimeZone sets the TimeZone of sessions of pools.
func WithTimeZone(name string) PgConnOption {
	return func(o *pgConnOptions) { o.TimeZone = name }
}

type pg struct {
	pool    *pgxpool.Pool
	cleanup bool
}

func (p *pg) GetPool(ctx context.Context, t *testing.T) kpool.Pool {
	t.Helper()
	if p.cleanup {
		ClearTables(ctx, t, p.pool)
		t.Cleanup(func() { ClearTables(context.Background(), t, p.pool) })
	}
	return kpool.Wrap(p.pool)
}

// NewPoolBroaker starts a postgres container for t.
//
// Unless WithoutSchema, the schema of vettracker is applied.
// The container is terminated when t ends.
func NewPoolBroaker(ctx context.Context, t *testing.T, options ...PgConnOption) PoolBroaker {
	t.Helper()

	opts := &pgConnOptions{
		Image:    "postgres:16-alpine",
		User:     "test-user",
		Password: "test-pass",
		Dbname:   "vettracker",
	}
	for _, o := range options {
		o(opts)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        opts.Image,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     opts.User,
				"POSTGRES_PASSWORD": opts.Password,
				"POSTGRES_DB":       opts.Dbname,
			},
			// postgres restarts once after initdb.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatal(err)
	}

	conf, err := kpool.ParseConfig(fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		opts.User, opts.Password, host, port.Port(), opts.Dbname,
	), kpool.WithTimeZone(opts.TimeZone))
	if err != nil {
		t.Fatal(err)
	}
	pool, err := pgxpool.ConnectConfig(ctx, conf)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	if !opts.NoSchema {
		if err := pgschema.New(kpool.Wrap(pool), schema.Postgres()).Upgrade(ctx); err != nil {
			t.Fatalf("failed to apply schema: %v", err)
		}
	}

	return &pg{pool: pool, cleanup: !opts.DoNotCleanup && !opts.NoSchema}
}

// ClearTables removes all rows in vettracker tables.
func ClearTables(ctx context.Context, t *testing.T, p *pgxpool.Pool) {
	t.Helper()

	if _, err := p.Exec(ctx, `truncate "owner", "veterinarian", "notification" restart identity cascade`); err != nil {
		t.Errorf("fail to clean-up tables: %v", err)
	}
}
