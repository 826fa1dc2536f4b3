package models

import "time"

// Appointment é o registro persistido; a entidade de domínio vive em
// internal/domain/appointment e este modelo é só a forma em banco.
type Appointment struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"size:64;index" json:"user_id"`

	Title       string `gorm:"size:255" json:"title"`
	Description string `gorm:"size:1000" json:"description"`
	Location    string `gorm:"size:255" json:"location"`

	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// Lista de e-mails serializada como JSON.
	Attendees string `gorm:"type:text" json:"-"`

	Source string `gorm:"size:20;default:'assistant'" json:"source"`
	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	ExternalEventID string `gorm:"size:128;index" json:"external_event_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
