package appointment

import (
	"context"
	"time"
)

// DateRangeQuery delimita a busca de agendamentos de um usuário.
type DateRangeQuery struct {
	Start  time.Time
	End    time.Time
	UserID string
}

type Repository interface {
	// -------- Escrita --------
	Save(ctx context.Context, ap *Appointment) error
	Update(ctx context.Context, ap *Appointment) error

	// -------- Leitura --------
	// FindByID retorna (nil, nil) quando o agendamento não existe.
	FindByID(ctx context.Context, id string) (*Appointment, error)

	// FindByExternalRef localiza pelo id do evento no calendário externo.
	// Retorna (nil, nil) quando não existe.
	FindByExternalRef(ctx context.Context, externalEventID string) (*Appointment, error)

	FindByDateRange(ctx context.Context, q DateRangeQuery) ([]*Appointment, error)
}
