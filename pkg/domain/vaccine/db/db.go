package db

import (
	"context"

	"github.com/opst/vettracker/pkg/domain"
)

type VaccineInterface interface {
	// List vaccine records, newest first.
	//
	// Search is matched with vaccine name, dose, pet name and veterinarian's full name.
	List(ctx context.Context, query domain.TreatmentQuery) ([]domain.VaccineRecord, error)

	// Get a vaccine record. It returns ErrMissing when not found.
	Get(ctx context.Context, id int) (domain.VaccineRecord, error)

	// Create records a vaccine. It returns ErrMissing when the pet or the veterinarian is not found.
	Create(ctx context.Context, vaccine domain.Vaccine) (domain.Vaccine, error)

	Update(ctx context.Context, vaccine domain.Vaccine) (domain.Vaccine, error)

	Delete(ctx context.Context, id int) error
}
