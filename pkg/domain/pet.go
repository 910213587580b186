package domain

import (
	"time"

	"github.com/opst/vettracker/pkg/utils/pointer"
)

type Pet struct {
	Id             int
	Img            string
	PetType        string
	PetName        string
	Age            int
	Sex            string
	Weight         string
	Height         string
	Identification string
	OwnerId        int
	VetId          *int
	Audit
}

// PetSummary is a pet with the names of its owner and veterinarian.
//
// VetName is empty when no veterinarian is assigned.
type PetSummary struct {
	Pet
	OwnerName string
	VetName   string
}

// PetDetail is a pet with its medical history.
type PetDetail struct {
	PetSummary
	Vaccines     []VaccineRecord
	Medicines    []MedicineRecord
	Appointments []AppointmentRecord
}

// HasVeterinarian reports whether vetId is the assigned veterinarian of the pet.
func (p Pet) HasVeterinarian(vetId int) bool {
	return pointer.Equal(p.VetId, &vetId)
}

type Vaccine struct {
	Id      int
	VacName string
	Date    *time.Time
	Dose    string
	Total   float64
	PetId   int
	VetId   *int
	Audit
}

type VaccineRecord struct {
	Vaccine
	PetName string
	VetName string
}

type Medicine struct {
	Id      int
	MedName string
	Amount  string
	Notice  string
	Dose    string
	Total   float64
	PetId   int
	VetId   *int
	Audit
}

type MedicineRecord struct {
	Medicine
	PetName string
	VetName string
}

// TreatmentQuery narrows vaccines and medicines.
//
// Zero values mean "any".
type TreatmentQuery struct {
	Search  string
	PetId   int
	VetId   int
	OwnerId int
}
