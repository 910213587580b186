package mocks

import (
	"context"

	"github.com/opst/vettracker/pkg/domain"
	dbmock "github.com/opst/vettracker/pkg/domain/internal/db/mock"
	kdbowner "github.com/opst/vettracker/pkg/domain/owner/db"
)

type PasswordUpdate struct {
	Id           int
	PasswordHash string
	UpdatedBy    string
}

type OwnerInterface struct {
	Impl struct {
		List           func(context.Context, domain.OwnerQuery) (domain.Paged[domain.OwnerSummary], error)
		Get            func(context.Context, int) (domain.OwnerDetail, error)
		FindByLogin    func(context.Context, string) (domain.Owner, error)
		FindByEmail    func(context.Context, string) (domain.Owner, error)
		Create         func(context.Context, domain.Owner) (domain.Owner, error)
		Update         func(context.Context, domain.Owner) (domain.Owner, error)
		UpdatePassword func(context.Context, int, string, string) error
		Delete         func(context.Context, int) (domain.Owner, error)
	}
	Calls struct {
		List           dbmock.CallLog[domain.OwnerQuery]
		Get            dbmock.CallLog[int]
		FindByLogin    dbmock.CallLog[string]
		FindByEmail    dbmock.CallLog[string]
		Create         dbmock.CallLog[domain.Owner]
		Update         dbmock.CallLog[domain.Owner]
		UpdatePassword dbmock.CallLog[PasswordUpdate]
		Delete         dbmock.CallLog[int]
	}
}

func NewOwnerInterface() *OwnerInterface {
	return &OwnerInterface{}
}

var _ kdbowner.OwnerInterface = &OwnerInterface{}

func (m *OwnerInterface) List(ctx context.Context, query domain.OwnerQuery) (domain.Paged[domain.OwnerSummary], error) {
	m.Calls.List = append(m.Calls.List, query)
	if m.Impl.List != nil {
		return m.Impl.List(ctx, query)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *OwnerInterface) Get(ctx context.Context, id int) (domain.OwnerDetail, error) {
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *OwnerInterface) FindByLogin(ctx context.Context, login string) (domain.Owner, error) {
	m.Calls.FindByLogin = append(m.Calls.FindByLogin, login)
	if m.Impl.FindByLogin != nil {
		return m.Impl.FindByLogin(ctx, login)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *OwnerInterface) FindByEmail(ctx context.Context, email string) (domain.Owner, error) {
	m.Calls.FindByEmail = append(m.Calls.FindByEmail, email)
	if m.Impl.FindByEmail != nil {
		return m.Impl.FindByEmail(ctx, email)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *OwnerInterface) Create(ctx context.Context, owner domain.Owner) (domain.Owner, error) {
	m.Calls.Create = append(m.Calls.Create, owner)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, owner)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *OwnerInterface) Update(ctx context.Context, owner domain.Owner) (domain.Owner, error) {
	m.Calls.Update = append(m.Calls.Update, owner)
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, owner)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *OwnerInterface) UpdatePassword(ctx context.Context, id int, passwordHash string, updatedBy string) error {
	m.Calls.UpdatePassword = append(m.Calls.UpdatePassword, PasswordUpdate{
		Id: id, PasswordHash: passwordHash, UpdatedBy: updatedBy,
	})
	if m.Impl.UpdatePassword != nil {
		return m.Impl.UpdatePassword(ctx, id, passwordHash, updatedBy)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *OwnerInterface) Delete(ctx context.Context, id int) (domain.Owner, error) {
	m.Calls.Delete = append(m.Calls.Delete, id)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(dbmock.ErrNotMocked)
}
