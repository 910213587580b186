package postgres

import (
	"context"
	"io/fs"

	kpool "github.com/opst/vettracker/pkg/conn/db/postgres/pool"
	kaccount "github.com/opst/vettracker/pkg/domain/account/db"
	kpgaccount "github.com/opst/vettracker/pkg/domain/account/db/postgres"
	kappointment "github.com/opst/vettracker/pkg/domain/appointment/db"
	kpgappointment "github.com/opst/vettracker/pkg/domain/appointment/db/postgres"
	kmedicine "github.com/opst/vettracker/pkg/domain/medicine/db"
	kpgmedicine "github.com/opst/vettracker/pkg/domain/medicine/db/postgres"
	knotification "github.com/opst/vettracker/pkg/domain/notification/db"
	kpgnotification "github.com/opst/vettracker/pkg/domain/notification/db/postgres"
	kowner "github.com/opst/vettracker/pkg/domain/owner/db"
	kpgowner "github.com/opst/vettracker/pkg/domain/owner/db/postgres"
	kpet "github.com/opst/vettracker/pkg/domain/pet/db"
	kpgpet "github.com/opst/vettracker/pkg/domain/pet/db/postgres"
	kschema "github.com/opst/vettracker/pkg/domain/schema/db"
	kpgschema "github.com/opst/vettracker/pkg/domain/schema/db/postgres"
	kstats "github.com/opst/vettracker/pkg/domain/stats/db"
	kpgstats "github.com/opst/vettracker/pkg/domain/stats/db/postgres"
	kvaccine "github.com/opst/vettracker/pkg/domain/vaccine/db"
	kpgvaccine "github.com/opst/vettracker/pkg/domain/vaccine/db/postgres"
	kveterinarian "github.com/opst/vettracker/pkg/domain/veterinarian/db"
	kpgveterinarian "github.com/opst/vettracker/pkg/domain/veterinarian/db/postgres"
	dbInterface "github.com/opst/vettracker/pkg/domain/vettracker/db"
	xe "github.com/opst/vettracker/pkg/errors"
	"github.com/opst/vettracker/schema"
)

type vetTrackerPostgres struct {
	pool         kpool.Pool
	owner        kowner.OwnerInterface
	veterinarian kveterinarian.VeterinarianInterface
	account      kaccount.AccountInterface
	pet          kpet.PetInterface
	vaccine      kvaccine.VaccineInterface
	medicine     kmedicine.MedicineInterface
	appointment  kappointment.AppointmentInterface
	notification knotification.NotificationInterface
	stats        kstats.StatsInterface
	schema       kschema.SchemaInterface
}

type Config struct {
	SchemaRepository fs.FS

	// TimeZone of database sessions. Text conversions of timestamps in SQL follow it.
	TimeZone string
}

func DefaultConfig() Config {
	return Config{SchemaRepository: schema.Postgres()}
}

type Option func(*Config) *Config

// WithSchemaRepository replaces the schema embedded in the binary.
func WithSchemaRepository(repository fs.FS) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

// WithTimeZone sets the TimeZone of database sessions, by IANA name.
func WithTimeZone(name string) Option {
	return func(c *Config) *Config {
		c.TimeZone = name
		return c
	}
}

func New(ctx context.Context, url string, options ...Option) (dbInterface.VetTrackerDatabase, error) {
	c := DefaultConfig()
	for _, option := range options {
		c = *option(&c)
	}

	pool, err := kpool.Connect(ctx, url, kpool.WithTimeZone(c.TimeZone))
	if err != nil {
		return nil, xe.Wrap(err)
	}

	return Wrap(pool, c.SchemaRepository), nil
}

// Wrap builds a database on an opened pool.
func Wrap(pool kpool.Pool, schemaRepository fs.FS) dbInterface.VetTrackerDatabase {
	return &vetTrackerPostgres{
		pool:         pool,
		owner:        kpgowner.New(pool),
		veterinarian: kpgveterinarian.New(pool),
		account:      kpgaccount.New(pool),
		pet:          kpgpet.New(pool),
		vaccine:      kpgvaccine.New(pool),
		medicine:     kpgmedicine.New(pool),
		appointment:  kpgappointment.New(pool),
		notification: kpgnotification.New(pool),
		stats:        kpgstats.New(pool),
		schema:       kpgschema.New(pool, schemaRepository),
	}
}

func (k *vetTrackerPostgres) Owner() kowner.OwnerInterface {
	return k.owner
}

func (k *vetTrackerPostgres) Veterinarian() kveterinarian.VeterinarianInterface {
	return k.veterinarian
}

func (k *vetTrackerPostgres) Account() kaccount.AccountInterface {
	return k.account
}

func (k *vetTrackerPostgres) Pet() kpet.PetInterface {
	return k.pet
}

func (k *vetTrackerPostgres) Vaccine() kvaccine.VaccineInterface {
	return k.vaccine
}

func (k *vetTrackerPostgres) Medicine() kmedicine.MedicineInterface {
	return k.medicine
}

func (k *vetTrackerPostgres) Appointment() kappointment.AppointmentInterface {
	return k.appointment
}

func (k *vetTrackerPostgres) Notification() knotification.NotificationInterface {
	return k.notification
}

func (k *vetTrackerPostgres) Stats() kstats.StatsInterface {
	return k.stats
}

func (k *vetTrackerPostgres) Schema() kschema.SchemaInterface {
	return k.schema
}

func (k *vetTrackerPostgres) Ping(ctx context.Context) error {
	return k.pool.Ping(ctx)
}

func (k *vetTrackerPostgres) Close() error {
	k.pool.Close()
	return nil
}
