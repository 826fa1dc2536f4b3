package calendar

import (
	"context"
	"time"

	"github.com/agendia-app/agendia/internal/domain/appointment"
)

// Service é o contrato com o backend de calendário externo. Todas as
// operações podem falhar; o chamador converte a falha em resultado.
type Service interface {
	// ScheduleEvent cria o evento externo e retorna o id dele.
	ScheduleEvent(ctx context.Context, ap *appointment.Appointment) (string, error)

	// CheckAvailability responde se a janela [start, end] está livre.
	CheckAvailability(ctx context.Context, start, end time.Time, userID string) (bool, error)

	// UpdateEvent propaga horário/título para o evento externo já criado.
	UpdateEvent(ctx context.Context, ap *appointment.Appointment) error

	// CancelEvent remove o evento externo.
	CancelEvent(ctx context.Context, externalEventID string) error

	// ListEvents importa eventos do período como entidades source=import.
	ListEvents(ctx context.Context, start, end time.Time, userID string) ([]*appointment.Appointment, error)
}
