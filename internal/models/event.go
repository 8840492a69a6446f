package models

import "time"

// Event is maintained by the event-management process; this service only reads it.
// All timestamps are Unix seconds.
type Event struct {
	ID                uint   `json:"id" gorm:"primaryKey"`
	EventName         string `json:"event_name" gorm:"not null"`
	Category          string `json:"category" gorm:"index;not null"`
	EventDate         int64  `json:"event_date" gorm:"index;not null"`
	RegistrationStart int64  `json:"registration_start" gorm:"not null"`
	RegistrationEnd   int64  `json:"registration_end" gorm:"not null"`
}

func (Event) TableName() string {
	return "event"
}

// IsOpenAt reports whether now falls inside the inclusive registration window.
func (e Event) IsOpenAt(now time.Time) bool {
	ts := now.Unix()
	return e.RegistrationStart <= ts && ts <= e.RegistrationEnd
}

func (e Event) Date() time.Time {
	return time.Unix(e.EventDate, 0)
}
