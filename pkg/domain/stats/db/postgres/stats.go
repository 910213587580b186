package postgres

import (
	"context"
	"fmt"

	kpool "github.com/opst/vettracker/pkg/conn/db/postgres/pool"
	"github.com/opst/vettracker/pkg/domain/internal/db/postgres/query"
	kdbstats "github.com/opst/vettracker/pkg/domain/stats/db"
	xe "github.com/opst/vettracker/pkg/errors"
)

type pgStats struct {
	pool kpool.Pool
}

var _ kdbstats.StatsInterface = &pgStats{}

func New(pool kpool.Pool) *pgStats {
	return &pgStats{pool: pool}
}

func (m *pgStats) Count(ctx context.Context, q kdbstats.CountQuery) (int, error) {
	switch q.Table {
	case kdbstats.Owners, kdbstats.Veterinarians, kdbstats.Pets, kdbstats.Appointments:
	default:
		return 0, xe.Errorf("unknown table: %q", q.Table)
	}

	conds := query.New()
	if q.From != nil {
		conds.And(`"created_at" >= ` + conds.Arg(*q.From))
	}
	if q.To != nil {
		conds.And(`"created_at" < ` + conds.Arg(*q.To))
	}
	if q.Table == kdbstats.Appointments && len(q.Status) != 0 {
		status := make([]int16, len(q.Status))
		for i, s := range q.Status {
			status[i] = int16(s)
		}
		conds.And(`"status" = any(` + conds.Arg(status) + `::smallint[])`)
	}

	var n int
	if err := m.pool.QueryRow(
		ctx, fmt.Sprintf(`select count(*) from "%s" %s`, q.Table, conds.Where()), conds.Args()...,
	).Scan(&n); err != nil {
		return 0, xe.Wrap(err)
	}
	return n, nil
}

func (m *pgStats) PetTypes(ctx context.Context) (map[string]int, error) {
	rs, err := m.pool.Query(ctx, `select "pet_type", count(*) from "pet" group by "pet_type"`)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rs.Close()

	types := map[string]int{}
	for rs.Next() {
		var t string
		var n int
		if err := rs.Scan(&t, &n); err != nil {
			return nil, xe.Wrap(err)
		}
		types[t] = n
	}
	if err := rs.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return types, nil
}
