package main

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/opst/vettracker/cmd/vetd/handlers"
	apierr "github.com/opst/vettracker/pkg/api/errors"
	authmw "github.com/opst/vettracker/pkg/auth/middleware"
	"github.com/opst/vettracker/pkg/auth/resettoken"
	"github.com/opst/vettracker/pkg/auth/token"
	"github.com/opst/vettracker/pkg/domain"
	"github.com/opst/vettracker/pkg/domain/stats"
	kdb "github.com/opst/vettracker/pkg/domain/vettracker/db"
	"github.com/opst/vettracker/pkg/imagestore"
	"github.com/opst/vettracker/pkg/metrics"
	"github.com/opst/vettracker/pkg/notification"
	"github.com/opst/vettracker/pkg/utils/echoutil"
	"golang.org/x/time/rate"
)

const API_ROOT = "/api"

// Server is what vetd serves.
type Server struct {
	// Context bounds websocket sessions.
	Context context.Context

	Logger echo.Logger
	// LogLevel is the name of the level of Logger. Empty keeps the level of Logger.
	LogLevel string

	DB       kdb.VetTrackerDatabase
	Issuer   *token.Issuer
	Resets   resettoken.Store
	Images   imagestore.Store
	Hub      *notification.Hub
	Notifier *notification.Notifier
	Metrics  *metrics.Metrics

	Session handlers.SessionConfig

	// ResetPage is the URL of the page to reset passwords.
	ResetPage string

	// Uploads is the directory served at UploadsPrefix. Empty means no static files.
	Uploads       string
	UploadsPrefix string

	// LoginRate is requests per second to login endpoints from a client.
	LoginRate  float64
	LoginBurst int

	Now      handlers.Clock
	Location *time.Location
}

// HTTPErrorHandler logs server errors with their causes, and responds as echo does.
func HTTPErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}
		if http.StatusInternalServerError <= code {
			e.Logger.Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}

func BuildServer(s Server) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger = s.Logger
	if s.LogLevel != "" {
		echoutil.SetLevel(e, s.LogLevel)
	}
	e.Validator = echoutil.NewValidator()
	e.HTTPErrorHandler = HTTPErrorHandler(e)

	e.Use(echoutil.LogHandlerFunc)
	e.Use(s.Metrics.Middleware)
	e.Use(middleware.Recover())
	e.Use(authmw.Authenticate(s.Issuer))

	e.GET("/healthz", func(c echo.Context) error {
		if err := s.DB.Ping(c.Request().Context()); err != nil {
			return apierr.ServiceUnavailable("database is not reachable", err)
		}
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", s.Metrics.Handler())
	if s.Uploads != "" {
		e.Static(s.UploadsPrefix, s.Uploads)
	}

	now, loc := s.Now, s.Location
	db := s.DB
	api := e.Group(API_ROOT)

	admin := authmw.Require(domain.RoleAdmin)
	owner := authmw.Require(domain.RoleOwner, domain.RoleAdmin)
	veterinarian := authmw.Require(domain.RoleVeterinarian)
	anyone := authmw.Require()

	{
		limiter := middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(s.LoginRate),
				Burst:     s.LoginBurst,
				ExpiresIn: 3 * time.Minute,
			}),
			IdentifierExtractor: func(c echo.Context) (string, error) { return c.RealIP(), nil },
		})

		g := api.Group("/auth")
		g.POST("/login", handlers.LoginHandler(db.Owner(), db.Veterinarian(), s.Issuer, s.Session), limiter)
		g.POST("/token", handlers.TokenHandler(db.Owner(), db.Veterinarian(), s.Issuer, s.Session), limiter)
		g.POST("/register/owner", handlers.RegisterOwnerHandler(db.Owner(), db.Account(), s.Issuer, s.Session))
		g.POST("/register/veterinarian", handlers.RegisterVeterinarianHandler(db.Veterinarian(), db.Account(), s.Session.Admin))
		g.POST("/forgot-password", handlers.ForgotPasswordHandler(db.Owner(), db.Veterinarian(), s.Resets, s.ResetPage), limiter)
		g.POST("/reset-password", handlers.ResetPasswordHandler(db.Owner(), db.Veterinarian(), s.Resets))
		g.POST("/logout", handlers.LogoutHandler(s.Session))
		g.GET("/me", handlers.MeHandler(), anyone)
	}

	{
		g := api.Group("/owners", admin)
		g.GET("", handlers.ListOwnersHandler(db.Owner()))
		g.POST("", handlers.CreateOwnerHandler(db.Owner(), db.Account(), s.Images, s.Session.Admin))
		g.GET("/:id", handlers.GetOwnerHandler(db.Owner(), "id"))
		g.PUT("/:id", handlers.UpdateOwnerHandler(db.Owner(), db.Account(), s.Images, s.Session.Admin, "id"))
		g.DELETE("/:id", handlers.DeleteOwnerHandler(db.Owner(), s.Images, "id"))
	}

	{
		api.GET("/veterinarians/verified", handlers.ListVerifiedVeterinariansHandler(db.Veterinarian()))

		g := api.Group("/veterinarians", admin)
		g.GET("", handlers.ListVeterinariansHandler(db.Veterinarian()))
		g.POST("", handlers.CreateVeterinarianHandler(db.Veterinarian(), db.Account(), s.Images))
		g.GET("/:id", handlers.GetVeterinarianHandler(db.Veterinarian(), "id"))
		g.PUT("/:id", handlers.UpdateVeterinarianHandler(db.Veterinarian(), db.Account(), s.Images, "id"))
		g.PUT("/:id/verification", handlers.VerifyVeterinarianHandler(db.Veterinarian(), "id"))
		g.DELETE("/:id", handlers.DeleteVeterinarianHandler(db.Veterinarian(), s.Images, "id"))
	}

	{
		g := api.Group("/pets", admin)
		g.GET("", handlers.ListPetsHandler(db.Pet()))
		g.POST("", handlers.CreatePetHandler(db.Pet(), db.Owner(), db.Veterinarian(), s.Images))
		g.GET("/:id", handlers.GetPetHandler(db.Pet(), "id"))
		g.PUT("/:id", handlers.UpdatePetHandler(db.Pet(), db.Owner(), db.Veterinarian(), s.Images, "id"))
		g.DELETE("/:id", handlers.DeletePetHandler(db.Pet(), s.Images, "id"))
	}

	{
		g := api.Group("/vaccines", admin)
		g.GET("", handlers.ListVaccinesHandler(db.Vaccine()))
		g.POST("", handlers.SaveVaccineHandler(db.Vaccine(), db.Pet(), db.Veterinarian(), ""))
		g.GET("/:id", handlers.GetVaccineHandler(db.Vaccine(), "id"))
		g.PUT("/:id", handlers.SaveVaccineHandler(db.Vaccine(), db.Pet(), db.Veterinarian(), "id"))
		g.DELETE("/:id", handlers.DeleteVaccineHandler(db.Vaccine(), "id"))
	}

	{
		g := api.Group("/medicines", admin)
		g.GET("", handlers.ListMedicinesHandler(db.Medicine()))
		g.POST("", handlers.SaveMedicineHandler(db.Medicine(), db.Pet(), db.Veterinarian(), ""))
		g.GET("/:id", handlers.GetMedicineHandler(db.Medicine(), "id"))
		g.PUT("/:id", handlers.SaveMedicineHandler(db.Medicine(), db.Pet(), db.Veterinarian(), "id"))
		g.DELETE("/:id", handlers.DeleteMedicineHandler(db.Medicine(), "id"))
	}

	{
		g := api.Group("/appointments", admin)
		g.GET("", handlers.ListAppointmentsHandler(db.Appointment(), loc))
		g.POST("", handlers.SaveAppointmentHandler(db.Appointment(), db.Pet(), db.Veterinarian(), loc, ""))
		g.GET("/:id", handlers.GetAppointmentHandler(db.Appointment(), "id"))
		g.PUT("/:id", handlers.SaveAppointmentHandler(db.Appointment(), db.Pet(), db.Veterinarian(), loc, "id"))
		g.DELETE("/:id", handlers.DeleteAppointmentHandler(db.Appointment(), "id"))
	}

	{
		g := api.Group("/owner", owner)
		g.GET("/pets", handlers.MyPetsHandler(db.Pet()))
		g.GET("/pets/:id", handlers.MyPetHandler(db.Pet(), db.Veterinarian(), "id"))
		g.POST("/pets/:id/appointments", handlers.RequestAppointmentHandler(
			db.Pet(), db.Veterinarian(), db.Appointment(), s.Notifier, loc, "id",
		))
		g.GET("/medications", handlers.MyMedicationsHandler(db.Medicine(), db.Vaccine()))
		g.GET("/appointments", handlers.MyAppointmentsHandler(db.Appointment()))
		g.GET("/notifications", handlers.ListNotificationsHandler(db.Notification()))
		g.POST("/notifications/read", handlers.MarkReadHandler(db.Notification()))
	}

	{
		g := api.Group("/veterinarian", veterinarian)
		g.GET("/today", handlers.TodayHandler(db.Appointment(), now, loc))
		g.GET("/schedule", handlers.ScheduleHandler(db.Appointment(), now, loc))
		g.PUT("/status", handlers.UpdateAvailabilityHandler(db.Veterinarian(), s.Notifier))
		g.GET("/pets/:id/records", handlers.MedicalRecordsHandler(db.Pet(), "id"))
		g.POST("/pets/:id/medicines", handlers.PrescribeHandler(db.Pet(), db.Medicine(), s.Notifier, "id"))
		g.POST("/pets/:id/vaccines", handlers.VaccinateHandler(db.Pet(), db.Vaccine(), s.Notifier, "id"))
		g.PUT("/appointments/:id/status", handlers.UpdateAppointmentStatusHandler(db.Appointment(), s.Notifier, loc, "id"))
		g.GET("/notifications", handlers.ListNotificationsHandler(db.Notification()))
		g.POST("/notifications/read", handlers.MarkReadHandler(db.Notification()))
	}

	{
		aggregator := stats.New(db.Stats())
		g := api.Group("/admin", admin)
		g.GET("/dashboard", handlers.DashboardHandler(aggregator, now, loc))
		g.GET("/stats/registrations", handlers.RegistrationStatsHandler(aggregator, now, loc))
		g.GET("/stats/pets", handlers.PetStatsHandler(aggregator, now, loc))
	}

	e.GET("/ws/notifications", handlers.NotificationSocketHandler(
		s.Context, s.Hub, s.Notifier, s.Issuer,
		notification.NewUpgrader(sameOrigin), notification.DefaultSessionConfig(),
	))

	return e
}

// sameOrigin accepts websocket upgrades from pages of the same host, or from non-browser clients.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}
