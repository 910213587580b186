// Package stats aggregates counts for the admin dashboard.
//
// Each figure is one count query. Queries of one aggregation run concurrently.
package stats

import (
	"context"
	"time"

	"github.com/opst/vettracker/pkg/domain"
	kstats "github.com/opst/vettracker/pkg/domain/stats/db"
	xe "github.com/opst/vettracker/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// maxConcurrency bounds count queries in flight per aggregation.
const maxConcurrency = 8

type Aggregator struct {
	db kstats.StatsInterface
}

func New(db kstats.StatsInterface) *Aggregator {
	return &Aggregator{db: db}
}

func between(from, to time.Time) (*time.Time, *time.Time) {
	return &from, &to
}

// counter schedules count queries onto an errgroup, each storing to its own destination.
type counter struct {
	ctx context.Context
	db  kstats.StatsInterface
	eg  *errgroup.Group
}

func newCounter(ctx context.Context, db kstats.StatsInterface) *counter {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrency)
	return &counter{ctx: ctx, db: db, eg: eg}
}

func (c *counter) count(dest *int, q kstats.CountQuery) {
	c.eg.Go(func() error {
		n, err := c.db.Count(c.ctx, q)
		if err != nil {
			return err
		}
		*dest = n
		return nil
	})
}

func (c *counter) wait() error {
	return c.eg.Wait()
}

// Dashboard computes DashboardStats as of now.
func (a *Aggregator) Dashboard(ctx context.Context, now time.Time) (domain.DashboardStats, error) {
	today := domain.StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	yesterday := today.AddDate(0, 0, -1)
	thisMonth := domain.StartOfMonth(now)
	nextMonth := thisMonth.AddDate(0, 1, 0)
	lastMonth := thisMonth.AddDate(0, -1, 0)

	confirmed := []domain.AppointmentStatus{domain.Confirmed}

	stats := domain.DashboardStats{LastUpdated: now}
	var (
		vetsThisMonth, vetsLastMonth     int
		ownersThisMonth, ownersLastMonth int
		petsThisMonth, petsLastMonth     int
		confirmedToday, confirmedYest    int
		ownersToday, vetsToday           int
	)

	c := newCounter(ctx, a.db)

	c.count(&stats.TotalVeterinarians, kstats.CountQuery{Table: kstats.Veterinarians})
	c.count(&stats.TotalOwners, kstats.CountQuery{Table: kstats.Owners})
	c.count(&stats.TotalPets, kstats.CountQuery{Table: kstats.Pets})
	c.count(&stats.TotalAppointments, kstats.CountQuery{Table: kstats.Appointments})
	c.count(&stats.ActiveAppointments, kstats.CountQuery{Table: kstats.Appointments, Status: confirmed})
	c.count(&stats.CompletedAppointments, kstats.CountQuery{
		Table: kstats.Appointments, Status: []domain.AppointmentStatus{domain.Completed},
	})
	c.count(&stats.CancelledAppointments, kstats.CountQuery{
		Table: kstats.Appointments, Status: []domain.AppointmentStatus{domain.Declined},
	})

	monthly := func(table kstats.Table, cur, prev *int) {
		from, to := between(thisMonth, nextMonth)
		c.count(cur, kstats.CountQuery{Table: table, From: from, To: to})
		from, to = between(lastMonth, thisMonth)
		c.count(prev, kstats.CountQuery{Table: table, From: from, To: to})
	}
	monthly(kstats.Veterinarians, &vetsThisMonth, &vetsLastMonth)
	monthly(kstats.Owners, &ownersThisMonth, &ownersLastMonth)
	monthly(kstats.Pets, &petsThisMonth, &petsLastMonth)

	{
		from, to := between(today, tomorrow)
		c.count(&confirmedToday, kstats.CountQuery{Table: kstats.Appointments, From: from, To: to, Status: confirmed})
		c.count(&ownersToday, kstats.CountQuery{Table: kstats.Owners, From: from, To: to})
		c.count(&vetsToday, kstats.CountQuery{Table: kstats.Veterinarians, From: from, To: to})
		c.count(&stats.NewPetsToday, kstats.CountQuery{Table: kstats.Pets, From: from, To: to})
	}
	{
		from, to := between(yesterday, today)
		c.count(&confirmedYest, kstats.CountQuery{Table: kstats.Appointments, From: from, To: to, Status: confirmed})
	}

	days := domain.WeekDays(now)
	perDay := make([]int, len(days))
	for i, d := range days {
		from, to := between(d, d.AddDate(0, 0, 1))
		c.count(&perDay[i], kstats.CountQuery{Table: kstats.Appointments, From: from, To: to})
	}

	c.eg.Go(func() error {
		types, err := a.db.PetTypes(c.ctx)
		if err != nil {
			return err
		}
		stats.PetTypeDistribution = types
		return nil
	})

	if err := c.wait(); err != nil {
		return domain.DashboardStats{}, xe.Wrap(err)
	}

	stats.VeterinarianTrend = domain.Trend(vetsThisMonth, vetsLastMonth)
	stats.OwnerTrend = domain.Trend(ownersThisMonth, ownersLastMonth)
	stats.PetTrend = domain.Trend(petsThisMonth, petsLastMonth)
	stats.AppointmentTrend = domain.Trend(confirmedToday, confirmedYest)
	stats.CompletionRate = domain.CompletionRate(
		stats.ActiveAppointments, stats.CompletedAppointments, stats.CancelledAppointments,
	)
	stats.NewUsersToday = ownersToday + vetsToday

	stats.AppointmentsByDay = make(map[string]int, len(days))
	for i, d := range days {
		stats.AppointmentsByDay[d.Weekday().String()] = perDay[i]
	}
	return stats, nil
}

// Registrations counts rows created per month in tables, for the last months up to now.
//
// Counts of the result are keyed by table name.
func (a *Aggregator) Registrations(ctx context.Context, now time.Time, months int, tables ...kstats.Table) (domain.MonthlySeries, error) {
	buckets := domain.MonthBuckets(now, months)
	series := domain.MonthlySeries{
		Labels: make([]string, len(buckets)),
		Counts: make(map[string][]int, len(tables)),
	}
	for i, b := range buckets {
		series.Labels[i] = domain.MonthLabel(b)
	}

	c := newCounter(ctx, a.db)
	for _, table := range tables {
		counts := make([]int, len(buckets))
		series.Counts[string(table)] = counts
		for i, b := range buckets {
			from, to := between(b, b.AddDate(0, 1, 0))
			c.count(&counts[i], kstats.CountQuery{Table: table, From: from, To: to})
		}
	}
	if err := c.wait(); err != nil {
		return domain.MonthlySeries{}, xe.Wrap(err)
	}
	return series, nil
}
