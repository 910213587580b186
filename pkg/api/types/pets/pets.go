package pets

import (
	"github.com/opst/vettracker/pkg/api/types/appointments"
	"github.com/opst/vettracker/pkg/api/types/misc"
	"github.com/opst/vettracker/pkg/domain"
	"github.com/opst/vettracker/pkg/utils"
)

type Pet struct {
	Id             int    `json:"id"`
	Img            string `json:"img"`
	PetType        string `json:"petType"`
	PetName        string `json:"petName"`
	Age            int    `json:"age"`
	Sex            string `json:"sex"`
	Weight         string `json:"weight"`
	Height         string `json:"height"`
	Identification string `json:"identification"`
	OwnerId        int    `json:"ownerId"`
	OwnerName      string `json:"ownerName,omitempty"`
	VetId          *int   `json:"vetId,omitempty"`
	VetName        string `json:"vetName,omitempty"`
	misc.Audit
}

type Detail struct {
	Pet
	Vaccines     []Vaccine                  `json:"vaccines"`
	Medicines    []Medicine                 `json:"medicines"`
	Appointments []appointments.Appointment `json:"appointments"`
}

type Vaccine struct {
	Id      int     `json:"id"`
	VacName string  `json:"vacName"`
	Date    *string `json:"date,omitempty"`
	Dose    string  `json:"dose"`
	Total   float64 `json:"total"`
	PetId   int     `json:"petId"`
	PetName string  `json:"petName,omitempty"`
	VetId   *int    `json:"vetId,omitempty"`
	VetName string  `json:"vetName,omitempty"`
	misc.Audit
}

type Medicine struct {
	Id      int     `json:"id"`
	MedName string  `json:"medName"`
	Amount  string  `json:"amount"`
	Notice  string  `json:"notice"`
	Dose    string  `json:"dose"`
	Total   float64 `json:"total"`
	PetId   int     `json:"petId"`
	PetName string  `json:"petName,omitempty"`
	VetId   *int    `json:"vetId,omitempty"`
	VetName string  `json:"vetName,omitempty"`
	misc.Audit
}

// Medications are medicines and vaccines of pets of an owner.
type Medications struct {
	Medicines []Medicine `json:"medicines"`
	Vaccines  []Vaccine  `json:"vaccines"`
}

func ComposeBody(p domain.Pet) Pet {
	return Compose(domain.PetSummary{Pet: p})
}

func Compose(p domain.PetSummary) Pet {
	return Pet{
		Id:             p.Id,
		Img:            p.Img,
		PetType:        p.PetType,
		PetName:        p.PetName,
		Age:            p.Age,
		Sex:            p.Sex,
		Weight:         p.Weight,
		Height:         p.Height,
		Identification: p.Identification,
		OwnerId:        p.OwnerId,
		OwnerName:      p.OwnerName,
		VetId:          p.VetId,
		VetName:        p.VetName,
		Audit:          misc.ComposeAudit(p.Audit),
	}
}

func ComposeDetail(p domain.PetDetail) Detail {
	return Detail{
		Pet:          Compose(p.PetSummary),
		Vaccines:     utils.Map(p.Vaccines, ComposeVaccine),
		Medicines:    utils.Map(p.Medicines, ComposeMedicine),
		Appointments: utils.Map(p.Appointments, appointments.Compose),
	}
}

func ComposeVaccine(v domain.VaccineRecord) Vaccine {
	return Vaccine{
		Id:      v.Id,
		VacName: v.VacName,
		Date:    misc.ComposeDate(v.Date),
		Dose:    v.Dose,
		Total:   v.Total,
		PetId:   v.PetId,
		PetName: v.PetName,
		VetId:   v.VetId,
		VetName: v.VetName,
		Audit:   misc.ComposeAudit(v.Audit),
	}
}

func ComposeVaccineBody(v domain.Vaccine) Vaccine {
	return ComposeVaccine(domain.VaccineRecord{Vaccine: v})
}

func ComposeMedicine(m domain.MedicineRecord) Medicine {
	return Medicine{
		Id:      m.Id,
		MedName: m.MedName,
		Amount:  m.Amount,
		Notice:  m.Notice,
		Dose:    m.Dose,
		Total:   m.Total,
		PetId:   m.PetId,
		PetName: m.PetName,
		VetId:   m.VetId,
		VetName: m.VetName,
		Audit:   misc.ComposeAudit(m.Audit),
	}
}

func ComposeMedicineBody(m domain.Medicine) Medicine {
	return ComposeMedicine(domain.MedicineRecord{Medicine: m})
}
