package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/opst/vettracker/pkg/domain"
)

func TestParseDateRange(t *testing.T) {
	t.Run("When the range is well-formed, it should include the whole last day", func(t *testing.T) {
		from, to, ok := domain.ParseDateRange("05/01/2024 - 05/03/2024", time.UTC)
		if !ok {
			t.Fatal("should be ok")
		}
		if want := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC); !from.Equal(want) {
			t.Errorf("from: %v (want %v)", from, want)
		}
		if want := time.Date(2024, time.May, 4, 0, 0, 0, 0, time.UTC); !to.Equal(want) {
			t.Errorf("to: %v (want %v)", to, want)
		}
	})

	for _, malformed := range []string{"", "05/01/2024", "2024-05-01 - 2024-05-03", "05/01/2024 - tomorrow"} {
		t.Run("When the range is "+malformed+", it should not be ok", func(t *testing.T) {
			if _, _, ok := domain.ParseDateRange(malformed, time.UTC); ok {
				t.Error("should not be ok")
			}
		})
	}
}

func TestAppointmentStatus(t *testing.T) {
	for in, want := range map[string]domain.AppointmentStatus{
		"0": domain.Pending, "pending": domain.Pending,
		"1": domain.Confirmed, "Confirmed": domain.Confirmed,
		"2": domain.Completed,
		"3": domain.Declined, "cancelled": domain.Declined,
	} {
		got, err := domain.ParseAppointmentStatus(in)
		if err != nil || got != want {
			t.Errorf("ParseAppointmentStatus(%q) = (%v, %v)", in, got, err)
		}
	}

	if _, err := domain.ParseAppointmentStatus("4"); !errors.Is(err, domain.ErrUnknownAppointmentStatus) {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := domain.AsAppointmentStatus(-1); !errors.Is(err, domain.ErrUnknownAppointmentStatus) {
		t.Errorf("unexpected error: %v", err)
	}
	if s := domain.Declined.String(); s != "declined" {
		t.Errorf("unexpected name: %s", s)
	}
}

func TestPrincipal(t *testing.T) {
	admin := domain.Principal{Role: domain.RoleAdmin, UserId: 1}
	if r := admin.Recipient(); r != (domain.Recipient{Role: domain.RoleOwner, UserId: 1}) {
		t.Errorf("admin should be notified as owner: %+v", r)
	}
	if g := (domain.Recipient{Role: domain.RoleVeterinarian, UserId: 4}).Group(); g != "Vet_4" {
		t.Errorf("unexpected group: %s", g)
	}
	if g := (domain.Recipient{Role: domain.RoleOwner, UserId: 2}).Group(); g != "Owner_2" {
		t.Errorf("unexpected group: %s", g)
	}
}
