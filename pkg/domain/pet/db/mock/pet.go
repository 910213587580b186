package mocks

import (
	"context"

	"github.com/opst/vettracker/pkg/domain"
	dbmock "github.com/opst/vettracker/pkg/domain/internal/db/mock"
	kdbpet "github.com/opst/vettracker/pkg/domain/pet/db"
)

type PetInterface struct {
	Impl struct {
		List   func(context.Context, domain.PetQuery) ([]domain.PetSummary, error)
		Get    func(context.Context, int) (domain.PetDetail, error)
		Create func(context.Context, domain.Pet) (domain.Pet, error)
		Update func(context.Context, domain.Pet) (domain.Pet, error)
		Delete func(context.Context, int) (domain.Pet, error)
	}
	Calls struct {
		List   dbmock.CallLog[domain.PetQuery]
		Get    dbmock.CallLog[int]
		Create dbmock.CallLog[domain.Pet]
		Update dbmock.CallLog[domain.Pet]
		Delete dbmock.CallLog[int]
	}
}

func NewPetInterface() *PetInterface {
	return &PetInterface{}
}

var _ kdbpet.PetInterface = &PetInterface{}

func (m *PetInterface) List(ctx context.Context, query domain.PetQuery) ([]domain.PetSummary, error) {
	m.Calls.List = append(m.Calls.List, query)
	if m.Impl.List != nil {
		return m.Impl.List(ctx, query)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *PetInterface) Get(ctx context.Context, id int) (domain.PetDetail, error) {
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *PetInterface) Create(ctx context.Context, pet domain.Pet) (domain.Pet, error) {
	m.Calls.Create = append(m.Calls.Create, pet)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, pet)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *PetInterface) Update(ctx context.Context, pet domain.Pet) (domain.Pet, error) {
	m.Calls.Update = append(m.Calls.Update, pet)
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, pet)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *PetInterface) Delete(ctx context.Context, id int) (domain.Pet, error) {
	m.Calls.Delete = append(m.Calls.Delete, id)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(dbmock.ErrNotMocked)
}
