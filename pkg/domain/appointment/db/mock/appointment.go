package mocks

import (
	"context"

	"github.com/opst/vettracker/pkg/domain"
	kdbappointment "github.com/opst/vettracker/pkg/domain/appointment/db"
	dbmock "github.com/opst/vettracker/pkg/domain/internal/db/mock"
)

type StatusUpdate struct {
	Id        int
	VetId     int
	Status    domain.AppointmentStatus
	UpdatedBy string
}

type AppointmentInterface struct {
	Impl struct {
		List      func(context.Context, domain.AppointmentFilter) ([]domain.AppointmentRecord, error)
		Get       func(context.Context, int) (domain.AppointmentRecord, error)
		Create    func(context.Context, domain.Appointment) (domain.Appointment, error)
		Update    func(context.Context, domain.Appointment) (domain.Appointment, error)
		SetStatus func(context.Context, int, int, domain.AppointmentStatus, string) (domain.AppointmentRecord, error)
		Delete    func(context.Context, int) error
	}
	Calls struct {
		List      dbmock.CallLog[domain.AppointmentFilter]
		Get       dbmock.CallLog[int]
		Create    dbmock.CallLog[domain.Appointment]
		Update    dbmock.CallLog[domain.Appointment]
		SetStatus dbmock.CallLog[StatusUpdate]
		Delete    dbmock.CallLog[int]
	}
}

func NewAppointmentInterface() *AppointmentInterface {
	return &AppointmentInterface{}
}

var _ kdbappointment.AppointmentInterface = &AppointmentInterface{}

func (m *AppointmentInterface) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.AppointmentRecord, error) {
	m.Calls.List = append(m.Calls.List, filter)
	if m.Impl.List != nil {
		return m.Impl.List(ctx, filter)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *AppointmentInterface) Get(ctx context.Context, id int) (domain.AppointmentRecord, error) {
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *AppointmentInterface) Create(ctx context.Context, appointment domain.Appointment) (domain.Appointment, error) {
	m.Calls.Create = append(m.Calls.Create, appointment)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, appointment)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *AppointmentInterface) Update(ctx context.Context, appointment domain.Appointment) (domain.Appointment, error) {
	m.Calls.Update = append(m.Calls.Update, appointment)
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, appointment)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *AppointmentInterface) SetStatus(ctx context.Context, id int, vetId int, status domain.AppointmentStatus, updatedBy string) (domain.AppointmentRecord, error) {
	m.Calls.SetStatus = append(m.Calls.SetStatus, StatusUpdate{
		Id: id, VetId: vetId, Status: status, UpdatedBy: updatedBy,
	})
	if m.Impl.SetStatus != nil {
		return m.Impl.SetStatus(ctx, id, vetId, status, updatedBy)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *AppointmentInterface) Delete(ctx context.Context, id int) error {
	m.Calls.Delete = append(m.Calls.Delete, id)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(dbmock.ErrNotMocked)
}
