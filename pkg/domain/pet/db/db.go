package db

import (
	"context"

	"github.com/opst/vettracker/pkg/domain"
)

type PetInterface interface {
	// List pets with names of their owners and veterinarians, ordered by pet name.
	//
	// Search is matched with pet name, pet type, identification and owner's full name.
	List(ctx context.Context, query domain.PetQuery) ([]domain.PetSummary, error)

	// Get a pet with its vaccines, medicines and appointments.
	//
	// It returns ErrMissing when not found.
	Get(ctx context.Context, id int) (domain.PetDetail, error)

	// Create registers a new pet.
	//
	// It returns ErrMissing when the owner or the veterinarian is not found.
	Create(ctx context.Context, pet domain.Pet) (domain.Pet, error)

	// Update overwrites the pet identified by pet.Id.
	//
	// It returns ErrMissing when the pet, the owner or the veterinarian is not found.
	Update(ctx context.Context, pet domain.Pet) (domain.Pet, error)

	// Delete removes the pet together with its vaccines, medicines and appointments.
	Delete(ctx context.Context, id int) (domain.Pet, error)
}
