package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/vettracker/pkg/api/errors"
	apiappointments "github.com/opst/vettracker/pkg/api/types/appointments"
	apipets "github.com/opst/vettracker/pkg/api/types/pets"
	apiusers "github.com/opst/vettracker/pkg/api/types/users"
	"github.com/opst/vettracker/pkg/domain"
	kappointment "github.com/opst/vettracker/pkg/domain/appointment/db"
	kerr "github.com/opst/vettracker/pkg/domain/errors"
	kmedicine "github.com/opst/vettracker/pkg/domain/medicine/db"
	kpet "github.com/opst/vettracker/pkg/domain/pet/db"
	kvaccine "github.com/opst/vettracker/pkg/domain/vaccine/db"
	kveterinarian "github.com/opst/vettracker/pkg/domain/veterinarian/db"
	"github.com/opst/vettracker/pkg/utils"
)

// MessageTimeLayout formats times in notification messages.
const MessageTimeLayout = "2006-01-02 15:04"

func MyPetsHandler(pets kpet.PetInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		me := principalOf(c)
		found, err := pets.List(c.Request().Context(), domain.PetQuery{OwnerId: me.UserId})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, utils.Map(found, apipets.Compose))
	}
}

// myPet gets the pet at param, if it is owned by the principal.
//
// Pets of others are not found.
func myPet(c echo.Context, pets kpet.PetInterface, param string) (domain.PetDetail, error) {
	id, err := pathId(c, param)
	if err != nil {
		return domain.PetDetail{}, err
	}
	pet, err := pets.Get(c.Request().Context(), id)
	if err != nil {
		return domain.PetDetail{}, dbError(err)
	}
	if pet.OwnerId != principalOf(c).UserId {
		return domain.PetDetail{}, apierr.NotFound()
	}
	return pet, nil
}

type MyPetDetail struct {
	apipets.Detail

	// Veterinarians are verified ones, who can be asked for appointments.
	Veterinarians []apiusers.VerifiedVeterinarian `json:"veterinarians"`
}

func MyPetHandler(pets kpet.PetInterface, vets kveterinarian.VeterinarianInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		pet, err := myPet(c, pets, param)
		if err != nil {
			return err
		}
		verified, err := vets.List(c.Request().Context(), domain.VeterinarianQuery{VerifiedOnly: true})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, MyPetDetail{
			Detail:        apipets.ComposeDetail(pet),
			Veterinarians: utils.Map(verified, apiusers.ComposeVerified),
		})
	}
}

type AppointmentRequest struct {
	AppointmentDate string `json:"appointmentDate" form:"appointmentDate" validate:"required"`
	VetId           int    `json:"veterinarianId" form:"veterinarianId" validate:"gt=0"`
	Notes           string `json:"notes" form:"notes"`
}

// RequestAppointmentHandler makes a pending appointment of my pet, and notifies the veterinarian.
func RequestAppointmentHandler(
	pets kpet.PetInterface, vets kveterinarian.VeterinarianInterface,
	appointments kappointment.AppointmentInterface, notifier Notifier,
	loc *time.Location, param string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		pet, err := myPet(c, pets, param)
		if err != nil {
			return err
		}
		req := new(AppointmentRequest)
		if err := bind(c, req); err != nil {
			return err
		}
		at, err := parseDateTime(req.AppointmentDate, loc)
		if err != nil {
			return apierr.BadRequest("appointmentDate should be yyyy-MM-ddTHH:mm", err)
		}

		vet, err := vets.Get(ctx, req.VetId)
		if errors.Is(err, kerr.ErrMissing) || (err == nil && vet.Verification != domain.Verified) {
			return apierr.BadRequest("the veterinarian is not available", err)
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		by := actor(c)
		vetId := vet.Id
		created, err := appointments.Create(ctx, domain.Appointment{
			Time:   at,
			Status: domain.Pending,
			PetId:  pet.Id,
			VetId:  &vetId,
			Audit:  domain.Audit{CreatedBy: by, UpdatedBy: by},
		})
		if err != nil {
			return referenceError(err, "pet or veterinarian")
		}

		message := fmt.Sprintf(
			"New appointment request from %s's owner for %s", pet.PetName, at.In(loc).Format(MessageTimeLayout),
		)
		if _, err := notifier.Notify(ctx, domain.Recipient{Role: domain.RoleVeterinarian, UserId: vetId}, domain.NotifyAppointment, message); err != nil {
			c.Logger().Warnf("veterinarian #%d is not notified: %v", vetId, err)
		}

		record := domain.AppointmentRecord{
			Appointment: created,
			PetName:     pet.PetName,
			PetType:     pet.PetType,
			OwnerId:     pet.OwnerId,
			OwnerName:   pet.OwnerName,
			VetName:     vet.FullName,
		}
		return c.JSON(http.StatusCreated, apiappointments.Compose(record))
	}
}

func MyMedicationsHandler(medicines kmedicine.MedicineInterface, vaccines kvaccine.VaccineInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		q := domain.TreatmentQuery{OwnerId: principalOf(c).UserId}
		meds, err := medicines.List(ctx, q)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		vacs, err := vaccines.List(ctx, q)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apipets.Medications{
			Medicines: utils.Map(meds, apipets.ComposeMedicine),
			Vaccines:  utils.Map(vacs, apipets.ComposeVaccine),
		})
	}
}

func MyAppointmentsHandler(appointments kappointment.AppointmentInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		found, err := appointments.List(c.Request().Context(), domain.AppointmentFilter{OwnerId: principalOf(c).UserId})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, utils.Map(found, apiappointments.Compose))
	}
}
