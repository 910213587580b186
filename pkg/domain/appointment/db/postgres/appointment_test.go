//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/opst/vettracker/pkg/conn/db/postgres/pool/testenv"
	"github.com/opst/vettracker/pkg/domain"
	kdbappointment "github.com/opst/vettracker/pkg/domain/appointment/db"
	kpgappointment "github.com/opst/vettracker/pkg/domain/appointment/db/postgres"
	domerr "github.com/opst/vettracker/pkg/domain/errors"
	kpgowner "github.com/opst/vettracker/pkg/domain/owner/db/postgres"
	kpgpet "github.com/opst/vettracker/pkg/domain/pet/db/postgres"
	kpgveterinarian "github.com/opst/vettracker/pkg/domain/veterinarian/db/postgres"
	"github.com/opst/vettracker/pkg/utils/try"
)

type fixture struct {
	owner domain.Owner
	vets  []domain.Veterinarian
	pet   domain.Pet
}

func setup(ctx context.Context, t *testing.T, poolBroaker testenv.PoolBroaker) (*fixture, kdbappointment.AppointmentInterface) {
	t.Helper()
	pool := poolBroaker.GetPool(ctx, t)

	owner := try.To(kpgowner.New(pool).Create(ctx, domain.Owner{
		Profile: domain.Profile{UserName: "alice", Email: "alice@example.com", FullName: "Alice"},
	})).OrFatal(t)

	vets := []domain.Veterinarian{}
	for _, name := range []string{"doc", "vet"} {
		vets = append(vets, try.To(kpgveterinarian.New(pool).Create(ctx, domain.Veterinarian{
			Profile:      domain.Profile{UserName: name, Email: name + "@example.com", FullName: "Dr. " + name},
			Verification: domain.Verified,
		})).OrFatal(t))
	}

	pet := try.To(kpgpet.New(pool).Create(ctx, domain.Pet{
		PetName: "Tama", PetType: "cat", OwnerId: owner.Id, VetId: &vets[0].Id,
	})).OrFatal(t)

	return &fixture{owner: owner, vets: vets, pet: pet}, kpgappointment.New(pool)
}

func TestAppointment(t *testing.T) {
	ctx := context.Background()
	poolBroaker := testenv.NewPoolBroaker(ctx, t)

	day := time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)

	t.Run("When appointments are listed, it should filter them", func(t *testing.T) {
		fx, testee := setup(ctx, t, poolBroaker)

		for _, a := range []domain.Appointment{
			{Time: day.Add(9 * time.Hour), Status: domain.Confirmed, PetId: fx.pet.Id, VetId: &fx.vets[0].Id},
			{Time: day.Add(15 * time.Hour), Status: domain.Pending, PetId: fx.pet.Id, VetId: &fx.vets[0].Id},
			{Time: day.Add(11 * time.Hour), Status: domain.Confirmed, PetId: fx.pet.Id, VetId: &fx.vets[1].Id},
			{Time: day.AddDate(0, 0, 1).Add(9 * time.Hour), Status: domain.Confirmed, PetId: fx.pet.Id, VetId: &fx.vets[0].Id},
		} {
			try.To(testee.Create(ctx, a)).OrFatal(t)
		}

		from, to := day, day.AddDate(0, 0, 1)
		confirmed := domain.Confirmed
		got := try.To(testee.List(ctx, domain.AppointmentFilter{
			From: &from, To: &to, Status: &confirmed, Ascending: true,
		})).OrFatal(t)
		if len(got) != 2 {
			t.Fatalf("unexpected appointments: %+v", got)
		}
		if !got[0].Time.Equal(day.Add(9*time.Hour)) || !got[1].Time.Equal(day.Add(11*time.Hour)) {
			t.Errorf("unexpected order: %v, %v", got[0].Time, got[1].Time)
		}
		if got[0].PetName != "Tama" || got[0].OwnerId != fx.owner.Id || got[0].VetName != "Dr. doc" {
			t.Errorf("unexpected record: %+v", got[0])
		}

		got = try.To(testee.List(ctx, domain.AppointmentFilter{Search: "dr. VET"})).OrFatal(t)
		if len(got) != 1 || got[0].VetName != "Dr. vet" {
			t.Errorf("unexpected search result: %+v", got)
		}

		got = try.To(testee.List(ctx, domain.AppointmentFilter{VetId: fx.vets[0].Id})).OrFatal(t)
		if len(got) != 3 || !got[0].Time.After(got[1].Time) {
			t.Errorf("unexpected appointments of vet: %+v", got)
		}
	})

	t.Run("When a veterinarian changes status, it should change only their appointments", func(t *testing.T) {
		fx, testee := setup(ctx, t, poolBroaker)

		a := try.To(testee.Create(ctx, domain.Appointment{
			Time: day, Status: domain.Pending, PetId: fx.pet.Id, VetId: &fx.vets[0].Id,
		})).OrFatal(t)

		if _, err := testee.SetStatus(ctx, a.Id, fx.vets[1].Id, domain.Confirmed, "vet"); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("unexpected error: %v", err)
		}

		got := try.To(testee.SetStatus(ctx, a.Id, fx.vets[0].Id, domain.Completed, "doc")).OrFatal(t)
		if got.Status != domain.Completed || got.UpdatedBy != "doc" || got.PetName != "Tama" {
			t.Errorf("unexpected record: %+v", got)
		}
	})

	t.Run("When a pet is missing, it should not create an appointment", func(t *testing.T) {
		_, testee := setup(ctx, t, poolBroaker)

		_, err := testee.Create(ctx, domain.Appointment{Time: day, PetId: 9999})
		if !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("When a missing appointment is deleted, it should be ErrMissing", func(t *testing.T) {
		_, testee := setup(ctx, t, poolBroaker)

		if err := testee.Delete(ctx, 9999); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestAppointment_SearchInSessionTimeZone(t *testing.T) {
	ctx := context.Background()
	poolBroaker := testenv.NewPoolBroaker(ctx, t, testenv.WithTimeZone("Asia/Tokyo"))
	fx, testee := setup(ctx, t, poolBroaker)

	// 09:00 UTC is 18:00 in Tokyo.
	at := time.Date(2024, time.May, 15, 9, 0, 0, 0, time.UTC)
	try.To(testee.Create(ctx, domain.Appointment{
		Time: at, Status: domain.Confirmed, PetId: fx.pet.Id, VetId: &fx.vets[0].Id,
	})).OrFatal(t)

	got := try.To(testee.List(ctx, domain.AppointmentFilter{Search: "2024-05-15 18:00"})).OrFatal(t)
	if len(got) != 1 || !got[0].Time.Equal(at) {
		t.Errorf("unexpected search result: %+v", got)
	}

	got = try.To(testee.List(ctx, domain.AppointmentFilter{Search: "2024-05-15 09:00"})).OrFatal(t)
	if len(got) != 0 {
		t.Errorf("times should be searched in the session time zone: %+v", got)
	}
}
