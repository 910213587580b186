package mocks

import (
	"context"
	"sync"

	"github.com/opst/vettracker/pkg/domain"
	dbmock "github.com/opst/vettracker/pkg/domain/internal/db/mock"
	kdbnotif "github.com/opst/vettracker/pkg/domain/notification/db"
)

type ListArgs struct {
	Recipient  domain.Recipient
	UnreadOnly bool
	Limit      int
}

type MarkReadArgs struct {
	Recipient domain.Recipient
	Ids       []int
}

// NotificationInterface is safe for concurrent use, since notifiers may be called from goroutines.
type NotificationInterface struct {
	m    sync.Mutex
	Impl struct {
		Add      func(context.Context, domain.Notification) (domain.Notification, error)
		List     func(context.Context, domain.Recipient, bool, int) ([]domain.Notification, error)
		MarkRead func(context.Context, domain.Recipient, []int) (int, error)
	}
	Calls struct {
		Add      dbmock.CallLog[domain.Notification]
		List     dbmock.CallLog[ListArgs]
		MarkRead dbmock.CallLog[MarkReadArgs]
	}
}

func NewNotificationInterface() *NotificationInterface {
	return &NotificationInterface{}
}

var _ kdbnotif.NotificationInterface = &NotificationInterface{}

func (m *NotificationInterface) Add(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	m.m.Lock()
	m.Calls.Add = append(m.Calls.Add, n)
	m.m.Unlock()
	if m.Impl.Add != nil {
		return m.Impl.Add(ctx, n)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *NotificationInterface) List(ctx context.Context, recipient domain.Recipient, unreadOnly bool, limit int) ([]domain.Notification, error) {
	m.m.Lock()
	m.Calls.List = append(m.Calls.List, ListArgs{Recipient: recipient, UnreadOnly: unreadOnly, Limit: limit})
	m.m.Unlock()
	if m.Impl.List != nil {
		return m.Impl.List(ctx, recipient, unreadOnly, limit)
	}
	panic(dbmock.ErrNotMocked)
}

func (m *NotificationInterface) MarkRead(ctx context.Context, recipient domain.Recipient, ids []int) (int, error) {
	m.m.Lock()
	m.Calls.MarkRead = append(m.Calls.MarkRead, MarkReadArgs{Recipient: recipient, Ids: ids})
	m.m.Unlock()
	if m.Impl.MarkRead != nil {
		return m.Impl.MarkRead(ctx, recipient, ids)
	}
	panic(dbmock.ErrNotMocked)
}
