package postgres

import (
	"cmp"
	"context"
	"errors"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	kpool "github.com/opst/vettracker/pkg/conn/db/postgres/pool"
	schemadb "github.com/opst/vettracker/pkg/domain/schema/db"
	xe "github.com/opst/vettracker/pkg/errors"
)

type pgSchema struct {
	pool       kpool.Pool
	repository fs.FS
}

var _ schemadb.SchemaInterface = &pgSchema{}

// New creates a schema handler.
//
// # Args
//
// - pool: connections to the database to be upgraded.
//
// - repository: directory tree containing numbered directories ("1", "2", ...).
// Each directory has .sql files for the version, applied in lexical order of their path.
func New(pool kpool.Pool, repository fs.FS) *pgSchema {
	return &pgSchema{pool: pool, repository: repository}
}

type version struct {
	number int
	root   string
}

func (v version) apply(ctx context.Context, repository fs.FS, q kpool.Queryer) error {
	return fs.WalkDir(repository, v.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".sql") {
			return nil
		}
		query, err := fs.ReadFile(repository, p)
		if err != nil {
			return err
		}
		if _, err := q.Exec(ctx, string(query)); err != nil {
			return xe.WrapWithNote(p, err)
		}
		return nil
	})
}

func (s *pgSchema) Version(ctx context.Context) (int, error) {
	return currentVersion(ctx, s.pool)
}

func currentVersion(ctx context.Context, q kpool.Queryer) (int, error) {
	var v int
	if err := q.QueryRow(
		ctx, `select coalesce(max("version"), 0) from "schema_version"`,
	).Scan(&v); err != nil {
		if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) && pgerr.Code == pgerrcode.UndefinedTable {
			return 0, nil
		}
		return -1, xe.Wrap(err)
	}
	return v, nil
}

func (s *pgSchema) Latest() (int, error) {
	vs, err := s.versions()
	if err != nil {
		return -1, err
	}
	if len(vs) == 0 {
		return 0, nil
	}
	return vs[len(vs)-1].number, nil
}

func (s *pgSchema) Upgrade(ctx context.Context) error {
	vs, err := s.versions()
	if err != nil {
		return err
	}

	return kpool.InTx(ctx, s.pool, func(tx kpool.Tx) error {
		// serialize concurrent upgraders.
		if _, err := tx.Exec(ctx, `select pg_advisory_xact_lock(7405)`); err != nil {
			return xe.Wrap(err)
		}

		current, err := currentVersion(ctx, tx)
		if err != nil {
			return err
		}
		for _, v := range vs {
			if v.number <= current {
				continue
			}
			if err := v.apply(ctx, s.repository, tx); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `delete from "schema_version"`); err != nil {
				return xe.Wrap(err)
			}
			if _, err := tx.Exec(
				ctx, `insert into "schema_version" ("version") values ($1)`, v.number,
			); err != nil {
				return xe.Wrap(err)
			}
		}
		return nil
	})
}

// versions lists numbered directories in the repository, in ascending order.
func (s *pgSchema) versions() ([]version, error) {
	entries, err := fs.ReadDir(s.repository, ".")
	if err != nil {
		return nil, xe.Wrap(err)
	}

	vs := make([]version, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		vs = append(vs, version{number: n, root: path.Clean(e.Name())})
	}
	slices.SortFunc(vs, func(a, b version) int { return cmp.Compare(a.number, b.number) })
	return vs, nil
}
