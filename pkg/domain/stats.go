package domain

import (
	"math"
	"time"
)

// Round1 rounds v to 1 decimal place, half away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Trend is the growth from prev to cur in percent, rounded to 1 decimal place.
//
// It is 0 when prev is 0.
func Trend(cur, prev int) float64 {
	if prev == 0 {
		return 0
	}
	return Round1(float64(cur)/float64(prev)*100 - 100)
}

// CompletionRate is the share of completed appointments in percent, rounded to 1 decimal place.
func CompletionRate(active, completed, cancelled int) float64 {
	sum := active + completed + cancelled
	if sum == 0 {
		return 0
	}
	return Round1(float64(completed) / float64(sum) * 100)
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// WeekDays returns the midnights of the week containing t, from Sunday to Saturday.
func WeekDays(t time.Time) []time.Time {
	sunday := StartOfDay(t).AddDate(0, 0, -int(t.Weekday()))
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = sunday.AddDate(0, 0, i)
	}
	return days
}

// DefaultStatMonths is the number of months in registration statistics by default.
const DefaultStatMonths = 6

// MaxStatMonths is the maximum number of months in registration statistics.
const MaxStatMonths = 60

// MonthBuckets returns the first days of the last n months up to the month of t, oldest first.
//
// n < 1 is DefaultStatMonths, and n is at most MaxStatMonths.
func MonthBuckets(t time.Time, n int) []time.Time {
	if n < 1 {
		n = DefaultStatMonths
	}
	n = min(n, MaxStatMonths)
	current := StartOfMonth(t)
	months := make([]time.Time, n)
	for i := range months {
		months[i] = current.AddDate(0, i-(n-1), 0)
	}
	return months
}

// MonthLabel is "yyyy-MM".
func MonthLabel(t time.Time) string {
	return t.Format("2006-01")
}

// DashboardStats is the summary shown in admin dashboard.
type DashboardStats struct {
	TotalVeterinarians int
	TotalOwners        int
	TotalPets          int
	TotalAppointments  int
	ActiveAppointments int

	VeterinarianTrend float64
	OwnerTrend        float64
	PetTrend          float64
	AppointmentTrend  float64

	CompletedAppointments int
	CancelledAppointments int
	CompletionRate        float64

	PetTypeDistribution map[string]int

	// AppointmentsByDay maps weekday names ("Sunday", ...) of this week to the number of appointments.
	AppointmentsByDay map[string]int

	NewUsersToday int
	NewPetsToday  int

	LastUpdated time.Time
}

// MonthlySeries is counts per month, aligned with Labels.
type MonthlySeries struct {
	Labels []string
	Counts map[string][]int
}
