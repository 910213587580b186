package mocks

import (
	"context"

	"github.com/opst/vettracker/pkg/domain"
	dbmock "github.com/opst/vettracker/pkg/domain/internal/db/mock"
	kdbvet "github.com/opst/vettracker/pkg/domain/veterinarian/db"
)

type PasswordUpdate struct {
	Id           int
	PasswordHash string
	UpdatedBy    string
}

type VerificationUpdate struct {
	Id           int
	Verification domain.Verification
	UpdatedBy    string
}

type AvailabilityUpdate struct {
	Id        int
	Available bool
}

type VeterinarianInterface struct {
	Impl struct {
		List            func(context.Context, domain.VeterinarianQuery) ([]domain.Veterinarian, error)
		Get             func(context.Context, int) (domain.VeterinarianDetail, error)
		FindByLogin     func(context.Context, string) (domain.Veterinarian, error)
		FindByEmail     func(context.Context, string) (domain.Veterinarian, error)
		Create          func(context.Context, domain.Veterinarian) (domain.Veterinarian, error)
		Update          func(context.Context, domain.Veterinarian) (domain.Veterinarian, error)
		UpdatePassword  func(context.Context, int, string, string) error
		SetVerification func(context.Context, int, domain.Verification, string) error
		SetAvailability func(context.Context, int, bool) error
		Delete          func(context.Context, int) (domain.Veterinarian, error)
	}
	Calls struct {
		List            dbmock.CallLog[domain.VeterinarianQuery]
		Get             dbmock.CallLog[int]
		FindByLogin     dbmock.CallLog[string]
		FindByEmail     dbmock.CallLog[string]
		Create          dbmock.CallLog[domain.Veterinarian]
		Update          dbmock.CallLog[domain.Veterinarian]
		UpdatePassword  dbmock.CallLog[PasswordUpdate]
		SetVerification dbmock.CallLog[VerificationUpdate]
		SetAvailability dbmock.CallLog[AvailabilityUpdate]
		Delete          dbmock.CallLog[int]
	}
}

func NewVeterinarianInterface() *VeterinarianInterface {
	return &VeterinarianInterface{}
}

var _ kdbvet.VeterinarianInterface = &VeterinarianInterface{}

func (m *VeterinarianInterface) List(ctx context.Context, query domain.VeterinarianQuery) ([]domain.Veterinarian, error) {
	m.Calls.List = append(m.Calls.List, query)
	if m.Impl.List != nil {
		return m.Impl.List(ctx, query)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *VeterinarianInterface) Get(ctx context.Context, id int) (domain.VeterinarianDetail, error) {
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *VeterinarianInterface) FindByLogin(ctx context.Context, login string) (domain.Veterinarian, error) {
	m.Calls.FindByLogin = append(m.Calls.FindByLogin, login)
	if m.Impl.FindByLogin != nil {
		return m.Impl.FindByLogin(ctx, login)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *VeterinarianInterface) FindByEmail(ctx context.Context, email string) (domain.Veterinarian, error) {
	m.Calls.FindByEmail = append(m.Calls.FindByEmail, email)
	if m.Impl.FindByEmail != nil {
		return m.Impl.FindByEmail(ctx, email)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *VeterinarianInterface) Create(ctx context.Context, vet domain.Veterinarian) (domain.Veterinarian, error) {
	m.Calls.Create = append(m.Calls.Create, vet)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, vet)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *VeterinarianInterface) Update(ctx context.Context, vet domain.Veterinarian) (domain.Veterinarian, error) {
	m.Calls.Update = append(m.Calls.Update, vet)
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, vet)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *VeterinarianInterface) UpdatePassword(ctx context.Context, id int, passwordHash string, updatedBy string) error {
	m.Calls.UpdatePassword = append(m.Calls.UpdatePassword, PasswordUpdate{
		Id: id, PasswordHash: passwordHash, UpdatedBy: updatedBy,
	})
	if m.Impl.UpdatePassword != nil {
		return m.Impl.UpdatePassword(ctx, id, passwordHash, updatedBy)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *VeterinarianInterface) SetVerification(ctx context.Context, id int, verification domain.Verification, updatedBy string) error {
	m.Calls.SetVerification = append(m.Calls.SetVerification, VerificationUpdate{
		Id: id, Verification: verification, UpdatedBy: updatedBy,
	})
	if m.Impl.SetVerification != nil {
		return m.Impl.SetVerification(ctx, id, verification, updatedBy)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *VeterinarianInterface) SetAvailability(ctx context.Context, id int, available bool) error {
	m.Calls.SetAvailability = append(m.Calls.SetAvailability, AvailabilityUpdate{Id: id, Available: available})
	if m.Impl.SetAvailability != nil {
		return m.Impl.SetAvailability(ctx, id, available)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *VeterinarianInterface) Delete(ctx context.Context, id int) (domain.Veterinarian, error) {
	m.Calls.Delete = append(m.Calls.Delete, id)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(dbmock.ErrNotMocked)
}
