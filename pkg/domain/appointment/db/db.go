package db

import (
	"context"

	"github.com/opst/vettracker/pkg/domain"
)

type AppointmentInterface interface {
	// List appointments matching the filter.
	//
	// Search is matched with pet name, pet type, owner's and veterinarian's full name and time
	// (formatted as "YYYY-MM-DD HH24:MI").
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.AppointmentRecord, error)

	// Get an appointment. It returns ErrMissing when not found.
	Get(ctx context.Context, id int) (domain.AppointmentRecord, error)

	// Create registers an appointment.
	//
	// It returns ErrMissing when the pet or the veterinarian is not found.
	Create(ctx context.Context, appointment domain.Appointment) (domain.Appointment, error)

	Update(ctx context.Context, appointment domain.Appointment) (domain.Appointment, error)

	// SetStatus changes the status of the appointment and returns the updated record.
	//
	// When vetId is not 0, only the appointment of the veterinarian is changed;
	// appointments of others are ErrMissing.
	SetStatus(ctx context.Context, id int, vetId int, status domain.AppointmentStatus, updatedBy string) (domain.AppointmentRecord, error)

	Delete(ctx context.Context, id int) error
}
