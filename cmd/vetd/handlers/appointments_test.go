package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/opst/vettracker/cmd/vetd/handlers"
	httptestutil "github.com/opst/vettracker/internal/testutils/http"
	"github.com/opst/vettracker/pkg/domain"
	appointmentmock "github.com/opst/vettracker/pkg/domain/appointment/db/mock"
	kerr "github.com/opst/vettracker/pkg/domain/errors"
	petmock "github.com/opst/vettracker/pkg/domain/pet/db/mock"
	vetmock "github.com/opst/vettracker/pkg/domain/veterinarian/db/mock"
	"github.com/opst/vettracker/pkg/utils/pointer"
)

func TestListAppointmentsHandler(t *testing.T) {
	type then struct {
		filter domain.AppointmentFilter
	}
	theory := func(query url.Values, then then) func(*testing.T) {
		return func(t *testing.T) {
			appointments := appointmentmock.NewAppointmentInterface()
			appointments.Impl.List = func(context.Context, domain.AppointmentFilter) ([]domain.AppointmentRecord, error) {
				return []domain.AppointmentRecord{}, nil
			}

			e := newEcho()
			c, resp := httptestutil.Get(e, "/api/appointments?"+query.Encode())
			if err := handlers.ListAppointmentsHandler(appointments, jst)(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Code != http.StatusOK {
				t.Errorf("status code: %d", resp.Code)
			}
			want := []domain.AppointmentFilter{then.filter}
			if diff := cmp.Diff(want, []domain.AppointmentFilter(appointments.Calls.List)); diff != "" {
				t.Errorf("filter (-want +got):\n%s", diff)
			}
		}
	}

	t.Run("When a date range and a status are given, it should filter with them", theory(
		url.Values{"search": {" pochi "}, "dateRange": {"10/01/2026 - 10/31/2026"}, "status": {"confirmed"}},
		then{filter: domain.AppointmentFilter{
			Search: "pochi",
			From:   pointer.Ref(time.Date(2026, 10, 1, 0, 0, 0, 0, jst)),
			To:     pointer.Ref(time.Date(2026, 11, 1, 0, 0, 0, 0, jst)),
			Status: pointer.Ref(domain.Confirmed),
		}},
	))

	t.Run("When the range and the status are malformed, it should ignore them", theory(
		url.Values{"dateRange": {"yesterday"}, "status": {"maybe"}},
		then{filter: domain.AppointmentFilter{}},
	))

	t.Run("When the status is a number, it should filter with it", theory(
		url.Values{"status": {"3"}},
		then{filter: domain.AppointmentFilter{Status: pointer.Ref(domain.Declined)}},
	))
}

func TestSaveAppointmentHandler(t *testing.T) {
	petFound := func(_ context.Context, id int) (domain.PetDetail, error) {
		return domain.PetDetail{PetSummary: domain.PetSummary{Pet: domain.Pet{Id: id}}}, nil
	}
	vetFound := func(_ context.Context, id int) (domain.VeterinarianDetail, error) {
		return domain.VeterinarianDetail{Veterinarian: domain.Veterinarian{Id: id}}, nil
	}

	t.Run("When an appointment is created, it should be created in the local time zone", func(t *testing.T) {
		appointments := appointmentmock.NewAppointmentInterface()
		appointments.Impl.Create = func(_ context.Context, a domain.Appointment) (domain.Appointment, error) {
			a.Id = 20
			return a, nil
		}
		pets := petmock.NewPetInterface()
		pets.Impl.Get = petFound
		vets := vetmock.NewVeterinarianInterface()
		vets.Impl.Get = vetFound

		body, ctyp := httptestutil.Multipart(map[string]string{
			"appointmentTime": "2026-10-20T10:30", "isConfirmed": "1", "idPet": "10", "idVeterinarian": "7",
		})
		e := newEcho()
		c, resp := httptestutil.Post(e, "/api/appointments", body, ctyp)
		as(c, domain.RoleAdmin, 1, "admin")
		if err := handlers.SaveAppointmentHandler(appointments, pets, vets, jst, "")(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Code != http.StatusCreated {
			t.Errorf("status code: %d", resp.Code)
		}
		want := []domain.Appointment{{
			Time:   time.Date(2026, 10, 20, 10, 30, 0, 0, jst),
			Status: domain.Confirmed,
			PetId:  10,
			VetId:  pointer.Ref(7),
			Audit:  domain.Audit{CreatedBy: "admin", UpdatedBy: "admin"},
		}}
		if diff := cmp.Diff(want, []domain.Appointment(appointments.Calls.Create)); diff != "" {
			t.Errorf("created (-want +got):\n%s", diff)
		}
	})

	t.Run("When an appointment is updated, it should update the one at the path", func(t *testing.T) {
		appointments := appointmentmock.NewAppointmentInterface()
		appointments.Impl.Update = func(_ context.Context, a domain.Appointment) (domain.Appointment, error) {
			return a, nil
		}
		pets := petmock.NewPetInterface()
		pets.Impl.Get = petFound

		e := newEcho()
		c, resp := httptestutil.Put(
			e, "/api/appointments/20",
			httptestutil.JSON(map[string]any{
				"appointmentTime": "2026-10-20T10:30:00+09:00", "isConfirmed": 3, "idPet": 10,
			}),
			httptestutil.ContentType("application/json"),
		)
		withParam(c, "id", "20")
		as(c, domain.RoleAdmin, 1, "admin")
		if err := handlers.SaveAppointmentHandler(appointments, pets, vetmock.NewVeterinarianInterface(), jst, "id")(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("status code: %d", resp.Code)
		}
		updated := appointments.Calls.Update[0]
		if updated.Id != 20 || updated.Status != domain.Declined || updated.VetId != nil || updated.UpdatedBy != "admin" {
			t.Errorf("unexpected update: %+v", updated)
		}
	})

	for name, testcase := range map[string]struct {
		form map[string]string
		pet  func(context.Context, int) (domain.PetDetail, error)
	}{
		"the time is malformed": {
			form: map[string]string{"appointmentTime": "next monday", "isConfirmed": "0", "idPet": "10"},
			pet:  petFound,
		},
		"the status is unknown": {
			form: map[string]string{"appointmentTime": "2026-10-20T10:30", "isConfirmed": "4", "idPet": "10"},
			pet:  petFound,
		},
		"the pet is missing": {
			form: map[string]string{"appointmentTime": "2026-10-20T10:30", "isConfirmed": "0", "idPet": "10"},
			pet: func(context.Context, int) (domain.PetDetail, error) {
				return domain.PetDetail{}, kerr.ErrMissing
			},
		},
	} {
		t.Run("When "+name+", it should be a bad request", func(t *testing.T) {
			appointments := appointmentmock.NewAppointmentInterface()
			pets := petmock.NewPetInterface()
			pets.Impl.Get = testcase.pet

			body, ctyp := httptestutil.Multipart(testcase.form)
			e := newEcho()
			c, _ := httptestutil.Post(e, "/api/appointments", body, ctyp)
			err := handlers.SaveAppointmentHandler(appointments, pets, vetmock.NewVeterinarianInterface(), jst, "")(c)
			assertHTTPError(t, err, http.StatusBadRequest)
			if appointments.Calls.Create.Times() != 0 {
				t.Error("appointment is created")
			}
		})
	}
}

func TestDeleteAppointmentHandler(t *testing.T) {
	t.Run("When the appointment is missing, it should be not found", func(t *testing.T) {
		appointments := appointmentmock.NewAppointmentInterface()
		appointments.Impl.Delete = func(context.Context, int) error { return kerr.ErrMissing }

		e := newEcho()
		c, _ := httptestutil.Delete(e, "/api/appointments/20")
		withParam(c, "id", "20")
		assertHTTPError(t, handlers.DeleteAppointmentHandler(appointments, "id")(c), http.StatusNotFound)
	})

	t.Run("When the appointment is deleted, it should be no content", func(t *testing.T) {
		appointments := appointmentmock.NewAppointmentInterface()
		appointments.Impl.Delete = func(context.Context, int) error { return nil }

		e := newEcho()
		c, resp := httptestutil.Delete(e, "/api/appointments/20")
		withParam(c, "id", "20")
		if err := handlers.DeleteAppointmentHandler(appointments, "id")(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Code != http.StatusNoContent {
			t.Errorf("status code: %d", resp.Code)
		}
		if diff := cmp.Diff([]int{20}, []int(appointments.Calls.Delete)); diff != "" {
			t.Errorf("deleted (-want +got):\n%s", diff)
		}
	})
}
