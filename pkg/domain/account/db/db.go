package db

import (
	"context"

	"github.com/opst/vettracker/pkg/domain"
)

// AccountInterface looks at owners and veterinarians together.
//
// Owners and veterinarians share one namespace of usernames and emails.
type AccountInterface interface {
	// Taken reports whether userName and email are used by any owner or veterinarian.
	//
	// The account identified by except (if not nil) is not counted, for updating itself.
	// Comparisons are case insensitive. Empty values are never taken.
	Taken(ctx context.Context, userName string, email string, except *domain.Recipient) (userNameTaken bool, emailTaken bool, err error)
}
