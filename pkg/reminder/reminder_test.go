package reminder_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/labstack/gommon/log"
	"github.com/opst/vettracker/pkg/domain"
	appointmentmock "github.com/opst/vettracker/pkg/domain/appointment/db/mock"
	"github.com/opst/vettracker/pkg/reminder"
	"go.uber.org/goleak"
)

type sent struct {
	Recipient domain.Recipient
	Kind      domain.NotificationKind
	Message   string
}

type fakeNotifier struct {
	m    sync.Mutex
	sent []sent
	fail map[int]error
}

func (f *fakeNotifier) Notify(_ context.Context, recipient domain.Recipient, kind domain.NotificationKind, message string) (domain.Notification, error) {
	f.m.Lock()
	defer f.m.Unlock()
	if err, ok := f.fail[recipient.UserId]; ok {
		return domain.Notification{}, err
	}
	f.sent = append(f.sent, sent{Recipient: recipient, Kind: kind, Message: message})
	return domain.Notification{Id: len(f.sent), Recipient: recipient, Kind: kind, Message: message}, nil
}

func TestRemindToday(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	now := time.Date(2024, time.May, 3, 6, 59, 0, 0, jst)

	appointments := []domain.AppointmentRecord{
		{
			Appointment: domain.Appointment{Id: 1, Time: time.Date(2024, time.May, 3, 9, 30, 0, 0, jst), Status: domain.Confirmed},
			PetName:     "Tama", OwnerId: 10,
		},
		{
			Appointment: domain.Appointment{Id: 2, Time: time.Date(2024, time.May, 3, 14, 5, 0, 0, jst), Status: domain.Confirmed},
			PetName:     "Pochi", OwnerId: 20,
		},
		{
			Appointment: domain.Appointment{Id: 3, Time: time.Date(2024, time.May, 3, 16, 0, 0, 0, jst), Status: domain.Confirmed},
			PetName:     "Mike", OwnerId: 30,
		},
	}

	t.Run("When there are confirmed appointments today, it should remind their owners", func(t *testing.T) {
		mockAppointment := appointmentmock.NewAppointmentInterface()
		mockAppointment.Impl.List = func(context.Context, domain.AppointmentFilter) ([]domain.AppointmentRecord, error) {
			return appointments, nil
		}
		notifier := &fakeNotifier{fail: map[int]error{30: errors.New("fake error")}}

		testee := reminder.New(mockAppointment, notifier, log.New("test"), jst).WithClock(func() time.Time { return now })
		n, err := testee.RemindToday(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if n != 2 {
			t.Errorf("sent: %d (want 2)", n)
		}

		from := time.Date(2024, time.May, 3, 0, 0, 0, 0, jst)
		to := time.Date(2024, time.May, 4, 0, 0, 0, 0, jst)
		confirmed := domain.Confirmed
		wantFilter := []domain.AppointmentFilter{{From: &from, To: &to, Status: &confirmed, Ascending: true}}
		if diff := cmp.Diff(wantFilter, []domain.AppointmentFilter(mockAppointment.Calls.List)); diff != "" {
			t.Errorf("filter (-want +got):\n%s", diff)
		}

		want := []sent{
			{
				Recipient: domain.Recipient{Role: domain.RoleOwner, UserId: 10},
				Kind:      domain.NotifyReminder,
				Message:   "Reminder: Tama has an appointment at 09:30 today",
			},
			{
				Recipient: domain.Recipient{Role: domain.RoleOwner, UserId: 20},
				Kind:      domain.NotifyReminder,
				Message:   "Reminder: Pochi has an appointment at 14:05 today",
			},
		}
		if diff := cmp.Diff(want, notifier.sent); diff != "" {
			t.Errorf("reminders (-want +got):\n%s", diff)
		}
	})

	t.Run("When the database returns times in UTC, it should remind in the clinic's time", func(t *testing.T) {
		mockAppointment := appointmentmock.NewAppointmentInterface()
		mockAppointment.Impl.List = func(context.Context, domain.AppointmentFilter) ([]domain.AppointmentRecord, error) {
			a := appointments[0]
			a.Time = a.Time.UTC()
			return []domain.AppointmentRecord{a}, nil
		}
		notifier := &fakeNotifier{}

		// 2024-05-02 22:30 UTC is 07:30 of 2024-05-03 in JST.
		testee := reminder.New(mockAppointment, notifier, log.New("test"), jst).
			WithClock(func() time.Time { return time.Date(2024, time.May, 2, 22, 30, 0, 0, time.UTC) })
		if _, err := testee.RemindToday(context.Background()); err != nil {
			t.Fatal(err)
		}

		from := time.Date(2024, time.May, 3, 0, 0, 0, 0, jst)
		if got := mockAppointment.Calls.List[0].From; got == nil || !got.Equal(from) {
			t.Errorf("unexpected beginning of today: %v (want %v)", got, from)
		}
		want := []sent{{
			Recipient: domain.Recipient{Role: domain.RoleOwner, UserId: 10},
			Kind:      domain.NotifyReminder,
			Message:   "Reminder: Tama has an appointment at 09:30 today",
		}}
		if diff := cmp.Diff(want, notifier.sent); diff != "" {
			t.Errorf("reminders (-want +got):\n%s", diff)
		}
	})

	t.Run("When appointments cannot be listed, it should return the error", func(t *testing.T) {
		expectedErr := errors.New("fake error")
		mockAppointment := appointmentmock.NewAppointmentInterface()
		mockAppointment.Impl.List = func(context.Context, domain.AppointmentFilter) ([]domain.AppointmentRecord, error) {
			return nil, expectedErr
		}
		notifier := &fakeNotifier{}

		testee := reminder.New(mockAppointment, notifier, log.New("test"), nil)
		if _, err := testee.RemindToday(context.Background()); !errors.Is(err, expectedErr) {
			t.Errorf("unexpected error: %v", err)
		}
		if len(notifier.sent) != 0 {
			t.Errorf("reminders are sent: %v", notifier.sent)
		}
	})
}

func TestStart(t *testing.T) {
	t.Run("When the cron schedule is broken, it should be an error", func(t *testing.T) {
		testee := reminder.New(appointmentmock.NewAppointmentInterface(), &fakeNotifier{}, log.New("test"), time.UTC)
		if _, err := testee.Start(context.Background(), "every morning"); err == nil {
			t.Error("error is expected")
		}
	})

	t.Run("When the context is done, it should stop the scheduler", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		testee := reminder.New(appointmentmock.NewAppointmentInterface(), &fakeNotifier{}, log.New("test"), time.UTC)
		ctx, cancel := context.WithCancel(context.Background())
		stopped, err := testee.Start(ctx, reminder.DefaultSpec)
		if err != nil {
			t.Fatal(err)
		}
		cancel()

		select {
		case <-stopped:
		case <-time.After(5 * time.Second):
			t.Fatal("scheduler is not stopped")
		}
	})
}
