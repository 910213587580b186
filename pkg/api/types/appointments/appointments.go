package appointments

import (
	"time"

	"github.com/opst/vettracker/pkg/api/types/misc"
	"github.com/opst/vettracker/pkg/domain"
)

type Appointment struct {
	Id     int       `json:"id"`
	Time   time.Time `json:"time"`
	Status int       `json:"status"`

	// StatusName is "pending", "confirmed", "completed" or "declined".
	StatusName string `json:"statusName"`

	PetId     int    `json:"petId"`
	PetName   string `json:"petName"`
	PetType   string `json:"petType"`
	OwnerId   int    `json:"ownerId"`
	OwnerName string `json:"ownerName"`
	VetId     *int   `json:"vetId,omitempty"`
	VetName   string `json:"vetName,omitempty"`
	misc.Audit
}

func Compose(a domain.AppointmentRecord) Appointment {
	return Appointment{
		Id:         a.Id,
		Time:       a.Time,
		Status:     int(a.Status),
		StatusName: a.Status.String(),
		PetId:      a.PetId,
		PetName:    a.PetName,
		PetType:    a.PetType,
		OwnerId:    a.OwnerId,
		OwnerName:  a.OwnerName,
		VetId:      a.VetId,
		VetName:    a.VetName,
		Audit:      misc.ComposeAudit(a.Audit),
	}
}

// ComposeBody is Compose for an appointment without related names.
func ComposeBody(a domain.Appointment) Appointment {
	return Compose(domain.AppointmentRecord{Appointment: a})
}
