package domain

import "time"

type NotificationKind string

const (
	NotifyAppointment  NotificationKind = "appointment"
	NotifyPrescription NotificationKind = "prescription"
	NotifyVaccine      NotificationKind = "vaccine"
	NotifyChat         NotificationKind = "chat"
	NotifyReminder     NotificationKind = "reminder"
)

type Notification struct {
	Id        int
	Recipient Recipient
	Kind      NotificationKind
	Message   string
	Read      bool
	CreatedAt time.Time
}
