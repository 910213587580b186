package db

import (
	"context"

	"github.com/opst/vettracker/pkg/domain"
)

type VeterinarianInterface interface {
	// List veterinarians ordered by full name.
	List(ctx context.Context, query domain.VeterinarianQuery) ([]domain.Veterinarian, error)

	// Get a veterinarian with pets in charge. It returns ErrMissing when not found.
	Get(ctx context.Context, id int) (domain.VeterinarianDetail, error)

	// FindByLogin finds a veterinarian whose username or email is login, case insensitively.
	FindByLogin(ctx context.Context, login string) (domain.Veterinarian, error)

	FindByEmail(ctx context.Context, email string) (domain.Veterinarian, error)

	// Create registers a new veterinarian and returns it as stored.
	//
	// It returns ErrConflict for duplicated username or email.
	Create(ctx context.Context, vet domain.Veterinarian) (domain.Veterinarian, error)

	// Update overwrites profile and clinic of the veterinarian.
	//
	// Verification and availability are not changed by Update.
	// When vet.PasswordHash is empty, the current password is kept.
	Update(ctx context.Context, vet domain.Veterinarian) (domain.Veterinarian, error)

	UpdatePassword(ctx context.Context, id int, passwordHash string, updatedBy string) error

	SetVerification(ctx context.Context, id int, verification domain.Verification, updatedBy string) error

	SetAvailability(ctx context.Context, id int, available bool) error

	// Delete removes the veterinarian.
	//
	// Pets, vaccines, medicines and appointments in charge of the veterinarian are kept,
	// without veterinarian.
	Delete(ctx context.Context, id int) (domain.Veterinarian, error)
}
