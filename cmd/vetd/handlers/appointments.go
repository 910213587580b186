package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/vettracker/pkg/api/errors"
	apiappointments "github.com/opst/vettracker/pkg/api/types/appointments"
	"github.com/opst/vettracker/pkg/domain"
	kappointment "github.com/opst/vettracker/pkg/domain/appointment/db"
	kpet "github.com/opst/vettracker/pkg/domain/pet/db"
	kveterinarian "github.com/opst/vettracker/pkg/domain/veterinarian/db"
	"github.com/opst/vettracker/pkg/utils"
)

// appointmentFilter reads "search", "dateRange" (MM/DD/YYYY - MM/DD/YYYY) and "status" query parameters.
//
// Malformed ranges and statuses are ignored.
func appointmentFilter(c echo.Context, loc *time.Location) domain.AppointmentFilter {
	f := domain.AppointmentFilter{Search: strings.TrimSpace(c.QueryParam("search"))}
	if from, to, ok := domain.ParseDateRange(c.QueryParam("dateRange"), loc); ok {
		f.From, f.To = &from, &to
	}
	if s := c.QueryParam("status"); s != "" {
		if status, err := domain.ParseAppointmentStatus(s); err == nil {
			f.Status = &status
		}
	}
	return f
}

func ListAppointmentsHandler(appointments kappointment.AppointmentInterface, loc *time.Location) echo.HandlerFunc {
	return func(c echo.Context) error {
		found, err := appointments.List(c.Request().Context(), appointmentFilter(c, loc))
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, utils.Map(found, apiappointments.Compose))
	}
}

func GetAppointmentHandler(appointments kappointment.AppointmentInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathId(c, param)
		if err != nil {
			return err
		}
		a, err := appointments.Get(c.Request().Context(), id)
		if err != nil {
			return dbError(err)
		}
		return c.JSON(http.StatusOK, apiappointments.Compose(a))
	}
}

type AppointmentForm struct {
	AppointmentTime string `json:"appointmentTime" form:"appointmentTime" validate:"required"`

	// Status is the number of domain.AppointmentStatus.
	Status int `json:"isConfirmed" form:"isConfirmed" validate:"gte=0,lte=3"`
	PetId  int `json:"idPet" form:"idPet" validate:"gt=0"`
	VetId  int `json:"idVeterinarian" form:"idVeterinarian" validate:"gte=0"`
}

func (f AppointmentForm) appointment(loc *time.Location) (domain.Appointment, error) {
	t, err := parseDateTime(f.AppointmentTime, loc)
	if err != nil {
		return domain.Appointment{}, apierr.BadRequest("appointmentTime should be yyyy-MM-ddTHH:mm", err)
	}
	status, err := domain.AsAppointmentStatus(f.Status)
	if err != nil {
		return domain.Appointment{}, apierr.BadRequest(err.Error(), err)
	}
	return domain.Appointment{Time: t, Status: status, PetId: f.PetId, VetId: optionalId(f.VetId)}, nil
}

// SaveAppointmentHandler creates an appointment, or updates the appointment at param when param is not empty.
func SaveAppointmentHandler(
	appointments kappointment.AppointmentInterface, pets kpet.PetInterface, vets kveterinarian.VeterinarianInterface,
	loc *time.Location, param string,
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
		req := new(AppointmentForm)
		if err := bind(c, req); err != nil {
			return err
		}
		appointment, err := req.appointment(loc)
		if err != nil {
			return err
		}
		if err := ensureExists(ctx, "pet", petExists(pets, appointment.PetId)); err != nil {
			return err
		}
		if err := ensureExists(ctx, "veterinarian", vetExists(vets, appointment.VetId)); err != nil {
			return err
		}

		by := actor(c)
		if id == 0 {
			appointment.Audit = domain.Audit{CreatedBy: by, UpdatedBy: by}
			created, err := appointments.Create(ctx, appointment)
			if err != nil {
				return referenceError(err, "pet or veterinarian")
			}
			return c.JSON(http.StatusCreated, apiappointments.ComposeBody(created))
		}

		appointment.Id = id
		appointment.Audit = domain.Audit{UpdatedBy: by}
		updated, err := appointments.Update(ctx, appointment)
		if err != nil {
			return dbError(err)
		}
		return c.JSON(http.StatusOK, apiappointments.ComposeBody(updated))
	}
}

func DeleteAppointmentHandler(appointments kappointment.AppointmentInterface, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathId(c, param)
		if err != nil {
			return err
		}
		if err := appointments.Delete(c.Request().Context(), id); err != nil {
			return dbError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
