package mocks

import (
	"context"

	"github.com/opst/vettracker/pkg/domain"
	kdbaccount "github.com/opst/vettracker/pkg/domain/account/db"
	dbmock "github.com/opst/vettracker/pkg/domain/internal/db/mock"
)

type TakenArgs struct {
	UserName string
	Email    string
	Except   *domain.Recipient
}

type AccountInterface struct {
	Impl struct {
		Taken func(context.Context, string, string, *domain.Recipient) (bool, bool, error)
	}
	Calls struct {
		Taken dbmock.CallLog[TakenArgs]
	}
}

func NewAccountInterface() *AccountInterface {
	return &AccountInterface{}
}

var _ kdbaccount.AccountInterface = &AccountInterface{}

func (m *AccountInterface) Taken(ctx context.Context, userName string, email string, except *domain.Recipient) (bool, bool, error) {
	m.Calls.Taken = append(m.Calls.Taken, TakenArgs{UserName: userName, Email: email, Except: except})
	if m.Impl.Taken != nil {
		return m.Impl.Taken(ctx, userName, email, except)
	}
	panic(dbmock.ErrNotMocked)
}
