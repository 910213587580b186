package mocks

import (
	"context"

	"github.com/opst/vettracker/pkg/domain"
	dbmock "github.com/opst/vettracker/pkg/domain/internal/db/mock"
	kdbvaccine "github.com/opst/vettracker/pkg/domain/vaccine/db"
)

type VaccineInterface struct {
	Impl struct {
		List   func(context.Context, domain.TreatmentQuery) ([]domain.VaccineRecord, error)
		Get    func(context.Context, int) (domain.VaccineRecord, error)
		Create func(context.Context, domain.Vaccine) (domain.Vaccine, error)
		Update func(context.Context, domain.Vaccine) (domain.Vaccine, error)
		Delete func(context.Context, int) error
	}
	Calls struct {
		List   dbmock.CallLog[domain.TreatmentQuery]
		Get    dbmock.CallLog[int]
		Create dbmock.CallLog[domain.Vaccine]
		Update dbmock.CallLog[domain.Vaccine]
		Delete dbmock.CallLog[int]
	}
}

func NewVaccineInterface() *VaccineInterface {
	return &VaccineInterface{}
}

var _ kdbvaccine.VaccineInterface = &VaccineInterface{}

func (m *VaccineInterface) List(ctx context.Context, query domain.TreatmentQuery) ([]domain.VaccineRecord, error) {
	m.Calls.List = append(m.Calls.List, query)
	if m.Impl.List != nil {
		return m.Impl.List(ctx, query)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *VaccineInterface) Get(ctx context.Context, id int) (domain.VaccineRecord, error) {
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *VaccineInterface) Create(ctx context.Context, vaccine domain.Vaccine) (domain.Vaccine, error) {
	m.Calls.Create = append(m.Calls.Create, vaccine)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, vaccine)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *VaccineInterface) Update(ctx context.Context, vaccine domain.Vaccine) (domain.Vaccine, error) {
	m.Calls.Update = append(m.Calls.Update, vaccine)
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, vaccine)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *VaccineInterface) Delete(ctx context.Context, id int) error {
	m.Calls.Delete = append(m.Calls.Delete, id)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(dbmock.ErrNotMocked)
}
