package dto

import (
	"time"

	domain "github.com/agendia-app/agendia/internal/domain/appointment"
)

type AppointmentResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Location        string    `json:"location,omitempty"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Attendees       []string  `json:"attendees,omitempty"`
	Source          string    `json:"source"`
	Status          string    `json:"status"`
	ExternalEventID string    `json:"external_event_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func FromAppointment(ap *domain.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              ap.ID(),
		Title:           ap.Title(),
		Description:     ap.Description(),
		Location:        ap.Location(),
		StartTime:       ap.Start(),
		EndTime:         ap.End(),
		Attendees:       ap.Attendees(),
		Source:          string(ap.Source()),
		Status:          string(ap.Status()),
		ExternalEventID: ap.ExternalEventID(),
		CreatedAt:       ap.CreatedAt(),
		UpdatedAt:       ap.UpdatedAt(),
	}
}

func FromAppointments(apps []*domain.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(apps))
	for _, ap := range apps {
		out = append(out, FromAppointment(ap))
	}
	return out
}
