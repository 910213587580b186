package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/vettracker/pkg/api/errors"
	"github.com/opst/vettracker/pkg/api/types/misc"
	apipets "github.com/opst/vettracker/pkg/api/types/pets"
	"github.com/opst/vettracker/pkg/domain"
	kmedicine "github.com/opst/vettracker/pkg/domain/medicine/db"
	kpet "github.com/opst/vettracker/pkg/domain/pet/db"
	kvaccine "github.com/opst/vettracker/pkg/domain/vaccine/db"
	kveterinarian "github.com/opst/vettracker/pkg/domain/veterinarian/db"
	"github.com/opst/vettracker/pkg/utils"
)

func treatmentQuery(c echo.Context) domain.TreatmentQuery {
	return domain.TreatmentQuery{
		Search:  c.QueryParam("search"),
		PetId:   queryInt(c, "petId", 0),
		VetId:   queryInt(c, "vetId", 0),
		OwnerId: queryInt(c, "ownerId", 0),
	}
}

func optionalId(id int) *int {
	if id == 0 {
		return nil
	}
	return &id
}

// VaccineBody is a vaccine record about a pet given elsewhere.
type VaccineBody struct {
	VacName string  `json:"vacName" form:"vacName" validate:"required"`
	Date    string  `json:"date" form:"date" validate:"omitempty,datetime=2006-01-02"`
	Dose    string  `json:"dose" form:"dose"`
	Total   float64 `json:"total" form:"total" validate:"gte=0"`
}

func (f VaccineBody) vaccine(petId int, vetId *int) (domain.Vaccine, error) {
	date, err := misc.ParseDate(f.Date)
	if err != nil {
		return domain.Vaccine{}, apierr.BadRequest("date should be yyyy-MM-dd", err)
	}
	return domain.Vaccine{
		VacName: f.VacName,
		Date:    date,
		Dose:    f.Dose,
		Total:   f.Total,
		PetId:   petId,
		VetId:   vetId,
	}, nil
}

type VaccineForm struct {
	VaccineBody
	PetId int `json:"idPet" form:"idPet" validate:"gt=0"`
	VetId int `json:"idVeterinarian" form:"idVeterinarian" validate:"gte=0"`
}

// MedicineBody is a medicine record about a pet given elsewhere.
type MedicineBody struct {
	MedName string  `json:"medName" form:"medName" validate:"required"`
	Amount  string  `json:"amount" form:"amount"`
	Notice  string  `json:"notice" form:"notice"`
	Dose    string  `json:"dose" form:"dose"`
	Total   float64 `json:"total" form:"total" validate:"gte=0"`
}

func (f MedicineBody) medicine(petId int, vetId *int) domain.Medicine {
	return domain.Medicine{
		MedName: f.MedName,
		Amount:  f.Amount,
		Notice:  f.Notice,
		Dose:    f.Dose,
		Total:   f.Total,
		PetId:   petId,
		VetId:   vetId,
	}
}

type MedicineForm struct {
	MedicineBody
	PetId int `json:"idPet" form:"idPet" validate:"gt=0"`
	VetId int `json:"idVeterinarian" form:"idVeterinarian" validate:"gte=0"`
}

func ListVaccinesHandler(vaccines kvaccine.VaccineInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		found, err := vaccines.List(c.Request().Context(), treatmentQuery(c))
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, utils.Map(found, apipets.ComposeVaccine))
	}
}

func GetVaccineHandler(vaccines kvaccine.VaccineInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathId(c, param)
		if err != nil {
			return err
		}
		v, err := vaccines.Get(c.Request().Context(), id)
		if err != nil {
			return dbError(err)
		}
		return c.JSON(http.StatusOK, apipets.ComposeVaccine(v))
	}
}

// SaveVaccineHandler creates a vaccine, or updates the vaccine at param when param is not empty.
func SaveVaccineHandler(
	vaccines kvaccine.VaccineInterface, pets kpet.PetInterface, vets kveterinarian.VeterinarianInterface,
	param string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := 0
		if param != "" {
			var err error
			if id, err = pathId(c, param); err != nil {
				return err
			}
		}
		req := new(VaccineForm)
		if err := bind(c, req); err != nil {
			return err
		}
		vaccine, err := req.vaccine(req.PetId, optionalId(req.VetId))
		if err != nil {
			return err
		}
		if err := ensureExists(ctx, "pet", petExists(pets, vaccine.PetId)); err != nil {
			return err
		}
		if err := ensureExists(ctx, "veterinarian", vetExists(vets, vaccine.VetId)); err != nil {
			return err
		}

		by := actor(c)
		if id == 0 {
			vaccine.Audit = domain.Audit{CreatedBy: by, UpdatedBy: by}
			created, err := vaccines.Create(ctx, vaccine)
			if err != nil {
				return referenceError(err, "pet or veterinarian")
			}
			return c.JSON(http.StatusCreated, apipets.ComposeVaccineBody(created))
		}

		vaccine.Id = id
		vaccine.Audit = domain.Audit{UpdatedBy: by}
		updated, err := vaccines.Update(ctx, vaccine)
		if err != nil {
			return dbError(err)
		}
		return c.JSON(http.StatusOK, apipets.ComposeVaccineBody(updated))
	}
}

func DeleteVaccineHandler(vaccines kvaccine.VaccineInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathId(c, param)
		if err != nil {
			return err
		}
		if err := vaccines.Delete(c.Request().Context(), id); err != nil {
			return dbError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func ListMedicinesHandler(medicines kmedicine.MedicineInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		found, err := medicines.List(c.Request().Context(), treatmentQuery(c))
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, utils.Map(found, apipets.ComposeMedicine))
	}
}

func GetMedicineHandler(medicines kmedicine.MedicineInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathId(c, param)
		if err != nil {
			return err
		}
		m, err := medicines.Get(c.Request().Context(), id)
		if err != nil {
			return dbError(err)
		}
		return c.JSON(http.StatusOK, apipets.ComposeMedicine(m))
	}
}

// SaveMedicineHandler creates a medicine, or updates the medicine at param when param is not empty.
func SaveMedicineHandler(
	medicines kmedicine.MedicineInterface, pets kpet.PetInterface, vets kveterinarian.VeterinarianInterface,
	param string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := 0
		if param != "" {
			var err error
			if id, err = pathId(c, param); err != nil {
				return err
			}
		}
		req := new(MedicineForm)
		if err := bind(c, req); err != nil {
			return err
		}
		medicine := req.medicine(req.PetId, optionalId(req.VetId))
		if err := ensureExists(ctx, "pet", petExists(pets, medicine.PetId)); err != nil {
			return err
		}
		if err := ensureExists(ctx, "veterinarian", vetExists(vets, medicine.VetId)); err != nil {
			return err
		}

		by := actor(c)
		if id == 0 {
			medicine.Audit = domain.Audit{CreatedBy: by, UpdatedBy: by}
			created, err := medicines.Create(ctx, medicine)
			if err != nil {
				return referenceError(err, "pet or veterinarian")
			}
			return c.JSON(http.StatusCreated, apipets.ComposeMedicineBody(created))
		}

		medicine.Id = id
		medicine.Audit = domain.Audit{UpdatedBy: by}
		updated, err := medicines.Update(ctx, medicine)
		if err != nil {
			return dbError(err)
		}
		return c.JSON(http.StatusOK, apipets.ComposeMedicineBody(updated))
	}
}

func DeleteMedicineHandler(medicines kmedicine.MedicineInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathId(c, param)
		if err != nil {
			return err
		}
		if err := medicines.Delete(c.Request().Context(), id); err != nil {
			return dbError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
