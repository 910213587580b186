package db

import (
	"context"

	"github.com/opst/vettracker/pkg/domain"
)

type OwnerInterface interface {
	// List owners matching the query, with the count of their pets.
	//
	// The page of the query is clamped into existing pages.
	List(ctx context.Context, query domain.OwnerQuery) (domain.Paged[domain.OwnerSummary], error)

	// Get an owner with pets.
	//
	// # Returns
	//
	// - domain.OwnerDetail
	//
	// - error: ErrMissing if there are no such owner.
	Get(ctx context.Context, id int) (domain.OwnerDetail, error)

	// FindByLogin finds an owner whose username or email is login, case insensitively.
	//
	// It returns ErrMissing when not found.
	FindByLogin(ctx context.Context, login string) (domain.Owner, error)

	// FindByEmail finds an owner by email, case insensitively.
	//
	// It returns ErrMissing when not found.
	FindByEmail(ctx context.Context, email string) (domain.Owner, error)

	// Create registers a new owner and returns it as stored.
	//
	// Id and timestamps of the argument are ignored.
	// It returns ErrConflict when the username or email is already used by another owner.
	Create(ctx context.Context, owner domain.Owner) (domain.Owner, error)

	// Update overwrites the owner identified by owner.Id and returns it as stored.
	//
	// When owner.PasswordHash is empty, the current password is kept.
	// It returns ErrMissing or ErrConflict.
	Update(ctx context.Context, owner domain.Owner) (domain.Owner, error)

	// UpdatePassword replaces the password hash of the owner.
	UpdatePassword(ctx context.Context, id int, passwordHash string, updatedBy string) error

	// Delete removes the owner and returns the removed one.
	//
	// It returns ErrInUse when the owner still has pets, or ErrMissing.
	Delete(ctx context.Context, id int) (domain.Owner, error)
}
