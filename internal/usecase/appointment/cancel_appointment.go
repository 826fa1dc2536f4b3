package appointment

import (
	"context"

	"github.com/agendia-app/agendia/internal/audit"
	domain "github.com/agendia-app/agendia/internal/domain/appointment"
	"github.com/agendia-app/agendia/internal/domain/calendar"
	"github.com/agendia-app/agendia/internal/httperr"
)

// ======================================================
// USE CASE
// ======================================================

type CancelAppointment struct {
	repo     domain.Repository
	calendar calendar.Service
	audit    *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	cal calendar.Service,
	auditDispatcher *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		calendar: cal,
		audit:    auditDispatcher,
	}
}

// Execute cancela pelo caminho REST com as mesmas garantias do assistente:
// ausência e dono diferente respondem igual, calendário externo antes do
// banco, referência externa ausente não é erro.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	userID string,
	appointmentID string,
) (*domain.Appointment, error) {

	ap, err := uc.repo.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if ap == nil || ap.UserID() != userID {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if ap.ExternalEventID() != "" {
		if err := uc.calendar.CancelEvent(ctx, ap.ExternalEventID()); err != nil {
			return nil, err
		}
	}

	ap.Cancel()

	if err := uc.repo.Update(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: ap.ID(),
	})

	return ap, nil
}
