package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownAppointmentStatus = errors.New("unknown appointment status")

type AppointmentStatus int

const (
	Pending   AppointmentStatus = 0
	Confirmed AppointmentStatus = 1
	Completed AppointmentStatus = 2
	Declined  AppointmentStatus = 3
)

func AsAppointmentStatus(i int) (AppointmentStatus, error) {
	switch s := AppointmentStatus(i); s {
	case Pending, Confirmed, Completed, Declined:
		return s, nil
	default:
		return s, fmt.Errorf("%w: %d", ErrUnknownAppointmentStatus, i)
	}
}

// ParseAppointmentStatus accepts names ("pending", "confirmed", ...) and numbers ("0", "1", ...).
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "pending":
		return Pending, nil
	case "1", "confirmed":
		return Confirmed, nil
	case "2", "completed":
		return Completed, nil
	case "3", "declined", "cancelled", "canceled":
		return Declined, nil
	default:
		return Pending, fmt.Errorf("%w: %s", ErrUnknownAppointmentStatus, s)
	}
}

func (s AppointmentStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case Completed:
		return "completed"
	case Declined:
		return "declined"
	default:
		return fmt.Sprintf("AppointmentStatus(%d)", int(s))
	}
}

type Appointment struct {
	Id     int
	Time   time.Time
	Status AppointmentStatus
	PetId  int
	VetId  *int
	Audit
}

// AppointmentRecord is an appointment with names of the related pet, owner and veterinarian.
type AppointmentRecord struct {
	Appointment
	PetName   string
	PetType   string
	OwnerId   int
	OwnerName string
	VetName   string
}

// AppointmentFilter narrows appointments. Zero values mean "any".
//
// Found appointments are ordered by time, descending unless Ascending.
type AppointmentFilter struct {
	Search string

	// From <= Time < To
	From *time.Time
	To   *time.Time

	Status *AppointmentStatus

	VetId   int
	OwnerId int
	PetId   int

	Ascending bool
}

const dateRangeLayout = "01/02/2006"

// ParseDateRange reads "MM/DD/YYYY - MM/DD/YYYY" as a range of days.
//
// The range includes both ends: to is the midnight after the last day.
// ok is false for malformed input.
func ParseDateRange(s string, loc *time.Location) (from time.Time, to time.Time, ok bool) {
	left, right, found := strings.Cut(s, " - ")
	if !found {
		return time.Time{}, time.Time{}, false
	}
	from, err := time.ParseInLocation(dateRangeLayout, strings.TrimSpace(left), loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	last, err := time.ParseInLocation(dateRangeLayout, strings.TrimSpace(right), loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return from, last.AddDate(0, 0, 1), true
}
