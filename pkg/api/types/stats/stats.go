package stats

import (
	"time"

	"github.com/opst/vettracker/pkg/domain"
	kstats "github.com/opst/vettracker/pkg/domain/stats/db"
)

type Dashboard struct {
	TotalVeterinarians int `json:"totalVeterinarians"`
	TotalOwners        int `json:"totalOwners"`
	TotalPets          int `json:"totalPets"`
	TotalAppointments  int `json:"totalAppointments"`
	ActiveAppointments int `json:"activeAppointments"`

	VeterinarianTrend float64 `json:"veterinarianTrend"`
	OwnerTrend        float64 `json:"ownerTrend"`
	PetTrend          float64 `json:"petTrend"`
	AppointmentTrend  float64 `json:"appointmentTrend"`

	CompletedAppointments int     `json:"completedAppointments"`
	CancelledAppointments int     `json:"cancelledAppointments"`
	CompletionRate        float64 `json:"completionRate"`

	PetTypeDistribution map[string]int `json:"petTypeDistribution"`
	AppointmentsByDay   map[string]int `json:"appointmentsByDay"`

	NewUsersToday int `json:"newUsersToday"`
	NewPetsToday  int `json:"newPetsToday"`

	LastUpdated time.Time `json:"lastUpdated"`
}

func ComposeDashboard(d domain.DashboardStats) Dashboard {
	return Dashboard{
		TotalVeterinarians:    d.TotalVeterinarians,
		TotalOwners:           d.TotalOwners,
		TotalPets:             d.TotalPets,
		TotalAppointments:     d.TotalAppointments,
		ActiveAppointments:    d.ActiveAppointments,
		VeterinarianTrend:     d.VeterinarianTrend,
		OwnerTrend:            d.OwnerTrend,
		PetTrend:              d.PetTrend,
		AppointmentTrend:      d.AppointmentTrend,
		CompletedAppointments: d.CompletedAppointments,
		CancelledAppointments: d.CancelledAppointments,
		CompletionRate:        d.CompletionRate,
		PetTypeDistribution:   d.PetTypeDistribution,
		AppointmentsByDay:     d.AppointmentsByDay,
		NewUsersToday:         d.NewUsersToday,
		NewPetsToday:          d.NewPetsToday,
		LastUpdated:           d.LastUpdated,
	}
}

type Registrations struct {
	Labels        []string `json:"labels"`
	Owners        []int    `json:"owners"`
	Veterinarians []int    `json:"veterinarians"`
}

func ComposeRegistrations(s domain.MonthlySeries) Registrations {
	return Registrations{
		Labels:        s.Labels,
		Owners:        s.Counts[string(kstats.Owners)],
		Veterinarians: s.Counts[string(kstats.Veterinarians)],
	}
}

type Pets struct {
	Labels []string `json:"labels"`
	Pets   []int    `json:"pets"`
}

func ComposePets(s domain.MonthlySeries) Pets {
	return Pets{Labels: s.Labels, Pets: s.Counts[string(kstats.Pets)]}
}
