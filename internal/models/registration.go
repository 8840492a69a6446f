package models

import "time"

type RegistrationFields struct {
	FullName    string `json:"full_name" gorm:"not null"`
	Email       string `json:"email" gorm:"uniqueIndex:idx_email_event;not null"`
	CollegeName string `json:"college_name" gorm:"not null"`
	Department  string `json:"department" gorm:"not null"`
}

// Registration references its Event by id only; removing an event leaves the
// registration in place.
type Registration struct {
	ID                 uint  `json:"id" gorm:"primaryKey"`
	EventID            uint  `json:"event_id" gorm:"uniqueIndex:idx_email_event;not null"`
	Created            int64 `json:"created" gorm:"index;not null"`
	RegistrationFields `gorm:"embedded"`
}

func (Registration) TableName() string {
	return "registration"
}

func (r Registration) CreatedAt() time.Time {
	return time.Unix(r.Created, 0)
}
