package mocks

import (
	"context"
	"sync"

	dbmock "github.com/opst/vettracker/pkg/domain/internal/db/mock"
	kdbstats "github.com/opst/vettracker/pkg/domain/stats/db"
)

// StatsInterface is safe for concurrent use.
type StatsInterface struct {
	m    sync.Mutex
	Impl struct {
		Count    func(context.Context, kdbstats.CountQuery) (int, error)
		PetTypes func(context.Context) (map[string]int, error)
	}
	Calls struct {
		Count    dbmock.CallLog[kdbstats.CountQuery]
		PetTypes dbmock.CallLog[struct{}]
	}
}

func NewStatsInterface() *StatsInterface {
	return &StatsInterface{}
}

var _ kdbstats.StatsInterface = &StatsInterface{}

func (m *StatsInterface) Count(ctx context.Context, q kdbstats.CountQuery) (int, error) {
	m.m.Lock()
	m.Calls.Count = append(m.Calls.Count, q)
	m.m.Unlock()
	if m.Impl.Count != nil {
		return m.Impl.Count(ctx, q)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *StatsInterface) PetTypes(ctx context.Context) (map[string]int, error) {
	m.m.Lock()
	m.Calls.PetTypes = append(m.Calls.PetTypes, struct{}{})
	m.m.Unlock()
	if m.Impl.PetTypes != nil {
		return m.Impl.PetTypes(ctx)
	}
	panic(dbmock.ErrNotMocked)
}
