package db

import (
	"context"

	"github.com/opst/vettracker/pkg/domain"
)

type MedicineInterface interface {
	// List medicine records, newest first.
	//
	// Search is matched with medicine name, dose, pet name and veterinarian's full name.
	List(ctx context.Context, query domain.TreatmentQuery) ([]domain.MedicineRecord, error)

	// Get a medicine record. It returns ErrMissing when not found.
	Get(ctx context.Context, id int) (domain.MedicineRecord, error)

	// Create records a medicine. It returns ErrMissing when the pet or the veterinarian is not found.
	Create(ctx context.Context, medicine domain.Medicine) (domain.Medicine, error)

	Update(ctx context.Context, medicine domain.Medicine) (domain.Medicine, error)

	Delete(ctx context.Context, id int) error
}
