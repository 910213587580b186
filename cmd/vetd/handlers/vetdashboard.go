package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/vettracker/pkg/api/errors"
	apiappointments "github.com/opst/vettracker/pkg/api/types/appointments"
	"github.com/opst/vettracker/pkg/api/types/misc"
	apipets "github.com/opst/vettracker/pkg/api/types/pets"
	"github.com/opst/vettracker/pkg/domain"
	kappointment "github.com/opst/vettracker/pkg/domain/appointment/db"
	kmedicine "github.com/opst/vettracker/pkg/domain/medicine/db"
	kpet "github.com/opst/vettracker/pkg/domain/pet/db"
	kvaccine "github.com/opst/vettracker/pkg/domain/vaccine/db"
	kveterinarian "github.com/opst/vettracker/pkg/domain/veterinarian/db"
	"github.com/opst/vettracker/pkg/notification"
	"github.com/opst/vettracker/pkg/utils"
	"github.com/opst/vettracker/pkg/utils/pointer"
)

func myDay(c echo.Context, appointments kappointment.AppointmentInterface, day time.Time) error {
	from := domain.StartOfDay(day)
	to := from.AddDate(0, 0, 1)
	found, err := appointments.List(c.Request().Context(), domain.AppointmentFilter{
		VetId: principalOf(c).UserId, From: &from, To: &to, Ascending: true,
	})
	if err != nil {
		return apierr.InternalServerError(err)
	}
	return c.JSON(http.StatusOK, utils.Map(found, apiappointments.Compose))
}

// TodayHandler lists my appointments of today, in time order.
func TodayHandler(appointments kappointment.AppointmentInterface, now Clock, loc *time.Location) echo.HandlerFunc {
	return func(c echo.Context) error {
		return myDay(c, appointments, now().In(loc))
	}
}

// ScheduleHandler lists my appointments of the day given as "date" (yyyy-MM-dd), today by default.
func ScheduleHandler(appointments kappointment.AppointmentInterface, now Clock, loc *time.Location) echo.HandlerFunc {
	return func(c echo.Context) error {
		day := now().In(loc)
		if d := c.QueryParam("date"); d != "" {
			parsed, err := time.ParseInLocation(misc.DateLayout, d, loc)
			if err != nil {
				return apierr.BadRequest("date should be yyyy-MM-dd", err)
			}
			day = parsed
		}
		return myDay(c, appointments, day)
	}
}

type AvailabilityRequest struct {
	Available bool `json:"isAvailable" form:"isAvailable"`
}

type Availability struct {
	VetId     int  `json:"vetId"`
	Available bool `json:"isAvailable"`
}

// UpdateAvailabilityHandler saves my availability, and tells it to everyone connected.
func UpdateAvailabilityHandler(vets kveterinarian.VeterinarianInterface, notifier Notifier) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		me := principalOf(c)
		req := new(AvailabilityRequest)
		if err := bind(c, req); err != nil {
			return err
		}
		if err := vets.SetAvailability(ctx, me.UserId, req.Available); err != nil {
			return dbError(err)
		}
		notifier.Broadcast(ctx, notification.StatusEvent(me.UserId, req.Available))
		return c.JSON(http.StatusOK, Availability{VetId: me.UserId, Available: req.Available})
	}
}

// attendedPet gets the pet at param, if I am its veterinarian or have appointments with it.
func attendedPet(c echo.Context, pets kpet.PetInterface, param string) (domain.PetDetail, error) {
	id, err := pathId(c, param)
	if err != nil {
		return domain.PetDetail{}, err
	}
	pet, err := pets.Get(c.Request().Context(), id)
	if err != nil {
		return domain.PetDetail{}, dbError(err)
	}
	me := principalOf(c).UserId
	if pet.HasVeterinarian(me) {
		return pet, nil
	}
	for _, a := range pet.Appointments {
		if pointer.Equal(a.VetId, &me) {
			return pet, nil
		}
	}
	return domain.PetDetail{}, apierr.Forbidden("you are not a veterinarian of the pet")
}

func MedicalRecordsHandler(pets kpet.PetInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		pet, err := attendedPet(c, pets, param)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, apipets.ComposeDetail(pet))
	}
}

type AppointmentStatusRequest struct {
	Status int `json:"status" form:"status" validate:"gte=1,lte=3"`
}

// UpdateAppointmentStatusHandler confirms, completes or declines my appointment, and notifies the owner.
func UpdateAppointmentStatusHandler(
	appointments kappointment.AppointmentInterface, notifier Notifier, loc *time.Location, param string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := pathId(c, param)
		if err != nil {
			return err
		}
		req := new(AppointmentStatusRequest)
		if err := bind(c, req); err != nil {
			return err
		}
		status, err := domain.AsAppointmentStatus(req.Status)
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}

		me := principalOf(c)
		updated, err := appointments.SetStatus(ctx, id, me.UserId, status, actor(c))
		if err != nil {
			return dbError(err)
		}

		message := fmt.Sprintf(
			"Your appointment for %s on %s has been %s",
			updated.PetName, updated.Time.In(loc).Format(MessageTimeLayout), status,
		)
		owner := domain.Recipient{Role: domain.RoleOwner, UserId: updated.OwnerId}
		if _, err := notifier.Notify(ctx, owner, domain.NotifyAppointment, message); err != nil {
			c.Logger().Warnf("owner #%d is not notified: %v", updated.OwnerId, err)
		}
		return c.JSON(http.StatusOK, apiappointments.Compose(updated))
	}
}

// PrescribeHandler records a medicine of a pet I attend, and notifies the owner.
func PrescribeHandler(
	pets kpet.PetInterface, medicines kmedicine.MedicineInterface, notifier Notifier, param string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		pet, err := attendedPet(c, pets, param)
		if err != nil {
			return err
		}
		req := new(MedicineBody)
		if err := bind(c, req); err != nil {
			return err
		}
		me := principalOf(c).UserId
		medicine := req.medicine(pet.Id, &me)
		by := actor(c)
		medicine.Audit = domain.Audit{CreatedBy: by, UpdatedBy: by}

		created, err := medicines.Create(ctx, medicine)
		if err != nil {
			return referenceError(err, "pet or veterinarian")
		}

		message := fmt.Sprintf("New prescription: %s for %s", created.MedName, pet.PetName)
		owner := domain.Recipient{Role: domain.RoleOwner, UserId: pet.OwnerId}
		if _, err := notifier.Notify(ctx, owner, domain.NotifyPrescription, message); err != nil {
			c.Logger().Warnf("owner #%d is not notified: %v", pet.OwnerId, err)
		}
		return c.JSON(http.StatusCreated, apipets.ComposeMedicineBody(created))
	}
}

// VaccinateHandler records a vaccine of a pet I attend, and notifies the owner.
func VaccinateHandler(
	pets kpet.PetInterface, vaccines kvaccine.VaccineInterface, notifier Notifier, param string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		pet, err := attendedPet(c, pets, param)
		if err != nil {
			return err
		}
		req := new(VaccineBody)
		if err := bind(c, req); err != nil {
			return err
		}
		me := principalOf(c).UserId
		vaccine, err := req.vaccine(pet.Id, &me)
		if err != nil {
			return err
		}
		by := actor(c)
		vaccine.Audit = domain.Audit{CreatedBy: by, UpdatedBy: by}

		created, err := vaccines.Create(ctx, vaccine)
		if err != nil {
			return referenceError(err, "pet or veterinarian")
		}

		message := fmt.Sprintf("New vaccine record: %s for %s", created.VacName, pet.PetName)
		owner := domain.Recipient{Role: domain.RoleOwner, UserId: pet.OwnerId}
		if _, err := notifier.Notify(ctx, owner, domain.NotifyVaccine, message); err != nil {
			c.Logger().Warnf("owner #%d is not notified: %v", pet.OwnerId, err)
		}
		return c.JSON(http.StatusCreated, apipets.ComposeVaccineBody(created))
	}
}
