package mocks

import (
	"context"

	"github.com/opst/vettracker/pkg/domain"
	dbmock "github.com/opst/vettracker/pkg/domain/internal/db/mock"
	kdbmedicine "github.com/opst/vettracker/pkg/domain/medicine/db"
)

type MedicineInterface struct {
	Impl struct {
		List   func(context.Context, domain.TreatmentQuery) ([]domain.MedicineRecord, error)
		Get    func(context.Context, int) (domain.MedicineRecord, error)
		Create func(context.Context, domain.Medicine) (domain.Medicine, error)
		Update func(context.Context, domain.Medicine) (domain.Medicine, error)
		Delete func(context.Context, int) error
	}
	Calls struct {
		List   dbmock.CallLog[domain.TreatmentQuery]
		Get    dbmock.CallLog[int]
		Create dbmock.CallLog[domain.Medicine]
		Update dbmock.CallLog[domain.Medicine]
		Delete dbmock.CallLog[int]
	}
}

func NewMedicineInterface() *MedicineInterface {
	return &MedicineInterface{}
}

var _ kdbmedicine.MedicineInterface = &MedicineInterface{}

func (m *MedicineInterface) List(ctx context.Context, query domain.TreatmentQuery) ([]domain.MedicineRecord, error) {
	m.Calls.List = append(m.Calls.List, query)
	if m.Impl.List != nil {
		return m.Impl.List(ctx, query)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *MedicineInterface) Get(ctx context.Context, id int) (domain.MedicineRecord, error) {
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *MedicineInterface) Create(ctx context.Context, medicine domain.Medicine) (domain.Medicine, error) {
	m.Calls.Create = append(m.Calls.Create, medicine)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, medicine)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *MedicineInterface) Update(ctx context.Context, medicine domain.Medicine) (domain.Medicine, error) {
	m.Calls.Update = append(m.Calls.Update, medicine)
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, medicine)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *MedicineInterface) Delete(ctx context.Context, id int) error {
	m.Calls.Delete = append(m.Calls.Delete, id)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(dbmock.ErrNotMocked)
}
