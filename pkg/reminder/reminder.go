// Package reminder notifies owners of their appointments of the day.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/opst/vettracker/pkg/domain"
	kdbappointment "github.com/opst/vettracker/pkg/domain/appointment/db"
	xe "github.com/opst/vettracker/pkg/errors"
	"github.com/robfig/cron/v3"
)

// DefaultSpec runs reminders at 7:00 every day.
const DefaultSpec = "0 7 * * *"

type Notifier interface {
	Notify(ctx context.Context, recipient domain.Recipient, kind domain.NotificationKind, message string) (domain.Notification, error)
}

type Reminder struct {
	appointments kdbappointment.AppointmentInterface
	notifier     Notifier
	logger       echo.Logger
	loc          *time.Location
	now          func() time.Time
}

// New creates a reminder for the clinic in loc. "Today" and appointment times are in loc.
//
// A nil loc means time.Local.
func New(appointments kdbappointment.AppointmentInterface, notifier Notifier, logger echo.Logger, loc *time.Location) *Reminder {
	if loc == nil {
		loc = time.Local
	}
	return &Reminder{
		appointments: appointments,
		notifier:     notifier,
		logger:       logger,
		loc:          loc,
		now:          time.Now,
	}
}

// WithClock replaces the clock telling "today".
func (r *Reminder) WithClock(now func() time.Time) *Reminder {
	r.now = now
	return r
}

// Message of the reminder for an appointment, telling the time in loc.
func Message(a domain.AppointmentRecord, loc *time.Location) string {
	return fmt.Sprintf("Reminder: %s has an appointment at %s today", a.PetName, a.Time.In(loc).Format("15:04"))
}

// RemindToday notifies the owners of confirmed appointments of today.
//
// It returns the number of sent reminders. A failure on a reminder is logged,
// and the rest are still sent.
func (r *Reminder) RemindToday(ctx context.Context) (int, error) {
	from := domain.StartOfDay(r.now().In(r.loc))
	to := from.AddDate(0, 0, 1)
	confirmed := domain.Confirmed

	appointments, err := r.appointments.List(ctx, domain.AppointmentFilter{
		From: &from, To: &to, Status: &confirmed, Ascending: true,
	})
	if err != nil {
		return 0, xe.Wrap(err)
	}

	sent := 0
	for _, a := range appointments {
		recipient := domain.Recipient{Role: domain.RoleOwner, UserId: a.OwnerId}
		if _, err := r.notifier.Notify(ctx, recipient, domain.NotifyReminder, Message(a, r.loc)); err != nil {
			r.logger.Warnf("reminder for appointment #%d is not sent: %v", a.Id, err)
			continue
		}
		sent += 1
	}
	return sent, nil
}

// Start schedules RemindToday with a cron spec in the location of the reminder, until ctx is done.
//
// The returned channel is closed when the scheduler has stopped and running reminders have finished.
func (r *Reminder) Start(ctx context.Context, spec string) (<-chan struct{}, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	c := cron.New(cron.WithLocation(r.loc))
	if _, err := c.AddFunc(spec, func() {
		n, err := r.RemindToday(ctx)
		if err != nil {
			r.logger.Errorf("reminder: %v", err)
			return
		}
		r.logger.Infof("reminder: %d owners are notified", n)
	}); err != nil {
		return nil, xe.WrapWithNote("bad cron spec: "+spec, err)
	}
	c.Start()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return stopped, nil
}
