package db

import (
	"context"

	kaccount "github.com/opst/vettracker/pkg/domain/account/db"
	kappointment "github.com/opst/vettracker/pkg/domain/appointment/db"
	kmedicine "github.com/opst/vettracker/pkg/domain/medicine/db"
	knotification "github.com/opst/vettracker/pkg/domain/notification/db"
	kowner "github.com/opst/vettracker/pkg/domain/owner/db"
	kpet "github.com/opst/vettracker/pkg/domain/pet/db"
	kschema "github.com/opst/vettracker/pkg/domain/schema/db"
	kstats "github.com/opst/vettracker/pkg/domain/stats/db"
	kvaccine "github.com/opst/vettracker/pkg/domain/vaccine/db"
	kveterinarian "github.com/opst/vettracker/pkg/domain/veterinarian/db"
)

type VetTrackerDatabase interface {
	Owner() kowner.OwnerInterface
	Veterinarian() kveterinarian.VeterinarianInterface
	Account() kaccount.AccountInterface
	Pet() kpet.PetInterface
	Vaccine() kvaccine.VaccineInterface
	Medicine() kmedicine.MedicineInterface
	Appointment() kappointment.AppointmentInterface
	Notification() knotification.NotificationInterface
	Stats() kstats.StatsInterface
	Schema() kschema.SchemaInterface

	// Ping checks the database is reachable.
	Ping(ctx context.Context) error
	Close() error
}
