package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/vettracker/pkg/api/errors"
	apistats "github.com/opst/vettracker/pkg/api/types/stats"
	"github.com/opst/vettracker/pkg/domain"
	"github.com/opst/vettracker/pkg/domain/stats"
	kstats "github.com/opst/vettracker/pkg/domain/stats/db"
)

// Statistics aggregates counts for admin dashboards.
type Statistics interface {
	Dashboard(ctx context.Context, now time.Time) (domain.DashboardStats, error)
	Registrations(ctx context.Context, now time.Time, months int, tables ...kstats.Table) (domain.MonthlySeries, error)
}

var _ Statistics = &stats.Aggregator{}

func DashboardHandler(s Statistics, now Clock, loc *time.Location) echo.HandlerFunc {
	return func(c echo.Context) error {
		d, err := s.Dashboard(c.Request().Context(), now().In(loc))
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apistats.ComposeDashboard(d))
	}
}

// statMonths is the "months" query, clamped into 1..domain.MaxStatMonths.
func statMonths(c echo.Context) int {
	return min(max(queryInt(c, "months", domain.DefaultStatMonths), 1), domain.MaxStatMonths)
}

// RegistrationStatsHandler counts owners and veterinarians registered in each of the last "months" months.
func RegistrationStatsHandler(s Statistics, now Clock, loc *time.Location) echo.HandlerFunc {
	return func(c echo.Context) error {
		months := statMonths(c)
		series, err := s.Registrations(c.Request().Context(), now().In(loc), months, kstats.Owners, kstats.Veterinarians)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apistats.ComposeRegistrations(series))
	}
}

// PetStatsHandler counts pets registered in each of the last "months" months.
func PetStatsHandler(s Statistics, now Clock, loc *time.Location) echo.HandlerFunc {
	return func(c echo.Context) error {
		months := statMonths(c)
		series, err := s.Registrations(c.Request().Context(), now().In(loc), months, kstats.Pets)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apistats.ComposePets(series))
	}
}
