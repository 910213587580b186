package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/labstack/echo/v4"
	"github.com/opst/vettracker/cmd/vetd/handlers"
	httptestutil "github.com/opst/vettracker/internal/testutils/http"
	"github.com/opst/vettracker/pkg/domain"
	kerr "github.com/opst/vettracker/pkg/domain/errors"
	medicinemock "github.com/opst/vettracker/pkg/domain/medicine/db/mock"
	petmock "github.com/opst/vettracker/pkg/domain/pet/db/mock"
	vaccinemock "github.com/opst/vettracker/pkg/domain/vaccine/db/mock"
	vetmock "github.com/opst/vettracker/pkg/domain/veterinarian/db/mock"
	"github.com/opst/vettracker/pkg/utils/pointer"
)

func TestListVaccinesHandler(t *testing.T) {
	vaccines := vaccinemock.NewVaccineInterface()
	vaccines.Impl.List = func(context.Context, domain.TreatmentQuery) ([]domain.VaccineRecord, error) {
		return []domain.VaccineRecord{}, nil
	}
	e := newEcho()
	c, _ := httptestutil.Get(e, "/api/vaccines?search=rabies&petId=10&vetId=x")
	as(c, domain.RoleAdmin, 1, "admin")
	if err := handlers.ListVaccinesHandler(vaccines)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.TreatmentQuery{{Search: "rabies", PetId: 10}}
	if diff := cmp.Diff(want, []domain.TreatmentQuery(vaccines.Calls.List)); diff != "" {
		t.Errorf("query (-want +got):\n%s", diff)
	}
}

func TestSaveVaccineHandler(t *testing.T) {
	existingPet := func(_ context.Context, id int) (domain.PetDetail, error) {
		return domain.PetDetail{PetSummary: domain.PetSummary{Pet: domain.Pet{Id: id}}}, nil
	}
	existingVet := func(_ context.Context, id int) (domain.VeterinarianDetail, error) {
		return domain.VeterinarianDetail{Veterinarian: domain.Veterinarian{Id: id}}, nil
	}

	t.Run("When a vaccine is posted, it should be created", func(t *testing.T) {
		vaccines := vaccinemock.NewVaccineInterface()
		vaccines.Impl.Create = func(_ context.Context, v domain.Vaccine) (domain.Vaccine, error) {
			v.Id = 50
			return v, nil
		}
		pets := petmock.NewPetInterface()
		pets.Impl.Get = existingPet
		vets := vetmock.NewVeterinarianInterface()
		vets.Impl.Get = existingVet

		body, ctyp := httptestutil.Multipart(map[string]string{
			"vacName": "Rabies", "date": "2026-10-14", "idPet": "10", "idVeterinarian": "7", "total": "30",
		})
		e := newEcho()
		c, resp := httptestutil.Post(e, "/api/vaccines", body, ctyp)
		as(c, domain.RoleAdmin, 1, "admin")
		if err := handlers.SaveVaccineHandler(vaccines, pets, vets, "")(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Code != http.StatusCreated {
			t.Errorf("status code: %d", resp.Code)
		}
		created := vaccines.Calls.Create[0]
		if created.VacName != "Rabies" || created.PetId != 10 || created.Total != 30 {
			t.Errorf("unexpected vaccine: %+v", created)
		}
		if diff := cmp.Diff(pointer.Ref(7), created.VetId); diff != "" {
			t.Errorf("vetId (-want +got):\n%s", diff)
		}
		if created.Date == nil || created.Date.Format("2006-01-02") != "2026-10-14" {
			t.Errorf("unexpected date: %v", created.Date)
		}
	})

	t.Run("When a vaccine is put without veterinarian, it should be updated without veterinarian", func(t *testing.T) {
		vaccines := vaccinemock.NewVaccineInterface()
		vaccines.Impl.Update = func(_ context.Context, v domain.Vaccine) (domain.Vaccine, error) { return v, nil }
		pets := petmock.NewPetInterface()
		pets.Impl.Get = existingPet
		vets := vetmock.NewVeterinarianInterface()

		e := newEcho()
		c, resp := httptestutil.Put(
			e, "/api/vaccines/50",
			httptestutil.JSON(map[string]any{"vacName": "Rabies", "idPet": 10}),
			httptestutil.ContentType(echo.MIMEApplicationJSON),
		)
		withParam(c, "id", "50")
		as(c, domain.RoleAdmin, 1, "admin")
		if err := handlers.SaveVaccineHandler(vaccines, pets, vets, "id")(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("status code: %d", resp.Code)
		}
		updated := vaccines.Calls.Update[0]
		if updated.Id != 50 || updated.VetId != nil || updated.Date != nil || updated.UpdatedBy != "admin" {
			t.Errorf("unexpected vaccine: %+v", updated)
		}
		if vets.Calls.Get.Times() != 0 {
			t.Error("veterinarian should not be looked up")
		}
	})

	for name, testcase := range map[string]map[string]any{
		"the date is malformed": {"vacName": "Rabies", "idPet": 10, "date": "14/10/2026"},
		"no names are given":    {"idPet": 10},
		"no pets are given":     {"vacName": "Rabies"},
		"the pet is missing":    {"vacName": "Rabies", "idPet": 11},
	} {
		t.Run("When "+name+", it should be a bad request", func(t *testing.T) {
			vaccines := vaccinemock.NewVaccineInterface()
			pets := petmock.NewPetInterface()
			pets.Impl.Get = func(_ context.Context, id int) (domain.PetDetail, error) {
				if id == 11 {
					return domain.PetDetail{}, kerr.ErrMissing
				}
				return existingPet(context.Background(), id)
			}

			e := newEcho()
			c, _ := httptestutil.Post(
				e, "/api/vaccines",
				httptestutil.JSON(testcase),
				httptestutil.ContentType(echo.MIMEApplicationJSON),
			)
			as(c, domain.RoleAdmin, 1, "admin")
			err := handlers.SaveVaccineHandler(vaccines, pets, vetmock.NewVeterinarianInterface(), "")(c)
			assertHTTPError(t, err, http.StatusBadRequest)
			if vaccines.Calls.Create.Times() != 0 {
				t.Error("vaccine is created")
			}
		})
	}
}

func TestSaveMedicineHandler(t *testing.T) {
	t.Run("When the veterinarian is missing, it should be a bad request", func(t *testing.T) {
		medicines := medicinemock.NewMedicineInterface()
		pets := petmock.NewPetInterface()
		pets.Impl.Get = func(_ context.Context, id int) (domain.PetDetail, error) {
			return domain.PetDetail{PetSummary: domain.PetSummary{Pet: domain.Pet{Id: id}}}, nil
		}
		vets := vetmock.NewVeterinarianInterface()
		vets.Impl.Get = func(context.Context, int) (domain.VeterinarianDetail, error) {
			return domain.VeterinarianDetail{}, kerr.ErrMissing
		}

		e := newEcho()
		c, _ := httptestutil.Post(
			e, "/api/medicines",
			httptestutil.JSON(map[string]any{"medName": "Antibiotic", "idPet": 10, "idVeterinarian": 9}),
			httptestutil.ContentType(echo.MIMEApplicationJSON),
		)
		as(c, domain.RoleAdmin, 1, "admin")
		err := handlers.SaveMedicineHandler(medicines, pets, vets, "")(c)
		assertHTTPError(t, err, http.StatusBadRequest)
	})

	t.Run("When a medicine is posted, it should be created with the audit", func(t *testing.T) {
		medicines := medicinemock.NewMedicineInterface()
		medicines.Impl.Create = func(_ context.Context, m domain.Medicine) (domain.Medicine, error) { return m, nil }
		pets := petmock.NewPetInterface()
		pets.Impl.Get = func(_ context.Context, id int) (domain.PetDetail, error) {
			return domain.PetDetail{PetSummary: domain.PetSummary{Pet: domain.Pet{Id: id}}}, nil
		}

		e := newEcho()
		c, resp := httptestutil.Post(
			e, "/api/medicines",
			httptestutil.JSON(map[string]any{"medName": "Antibiotic", "amount": "10 tablets", "idPet": 10}),
			httptestutil.ContentType(echo.MIMEApplicationJSON),
		)
		as(c, domain.RoleAdmin, 1, "admin")
		if err := handlers.SaveMedicineHandler(medicines, pets, vetmock.NewVeterinarianInterface(), "")(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Code != http.StatusCreated {
			t.Errorf("status code: %d", resp.Code)
		}
		want := []domain.Medicine{{
			MedName: "Antibiotic", Amount: "10 tablets", PetId: 10,
			Audit: domain.Audit{CreatedBy: "admin", UpdatedBy: "admin"},
		}}
		if diff := cmp.Diff(want, []domain.Medicine(medicines.Calls.Create)); diff != "" {
			t.Errorf("created (-want +got):\n%s", diff)
		}
	})
}

func TestDeleteMedicineHandler(t *testing.T) {
	for name, testcase := range map[string]struct {
		err  error
		code int
	}{
		"the medicine exists":     {code: http.StatusNoContent},
		"the medicine is missing": {err: kerr.ErrMissing, code: http.StatusNotFound},
	} {
		t.Run("When "+name+", it should respond "+http.StatusText(testcase.code), func(t *testing.T) {
			medicines := medicinemock.NewMedicineInterface()
			medicines.Impl.Delete = func(context.Context, int) error { return testcase.err }

			e := newEcho()
			c, resp := httptestutil.Delete(e, "/api/medicines/40")
			withParam(c, "id", "40")
			as(c, domain.RoleAdmin, 1, "admin")
			err := handlers.DeleteMedicineHandler(medicines, "id")(c)
			if testcase.err != nil {
				assertHTTPError(t, err, testcase.code)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Code != testcase.code {
				t.Errorf("status code: %d", resp.Code)
			}
		})
	}
}
