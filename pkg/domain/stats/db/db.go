package db

import (
	"context"
	"time"

	"github.com/opst/vettracker/pkg/domain"
)

type Table string

const (
	Owners        Table = "owner"
	Veterinarians Table = "veterinarian"
	Pets          Table = "pet"
	Appointments  Table = "appointment"
)

// CountQuery narrows rows to be counted.
type CountQuery struct {
	Table Table

	// From and To limits created_at in [From, To). nil is unbound.
	From *time.Time
	To   *time.Time

	// Status narrows appointments. It is ignored for other tables.
	Status []domain.AppointmentStatus
}

type StatsInterface interface {
	Count(ctx context.Context, q CountQuery) (int, error)

	// PetTypes counts pets per pet type.
	PetTypes(ctx context.Context) (map[string]int, error)
}
