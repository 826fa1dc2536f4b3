package appointment

import (
	"context"
	"time"

	domain "github.com/agendia-app/agendia/internal/domain/appointment"
)

// ======================================================
// USE CASE
// ======================================================

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// Execute lista os agendamentos do usuário no período. Sem período informado
// vale a mesma janela padrão do assistente: de agora até sete dias.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	userID string,
	start *time.Time,
	end *time.Time,
) ([]*domain.Appointment, error) {

	rangeStart := time.Now()
	if start != nil {
		rangeStart = *start
	}

	rangeEnd := rangeStart.Add(7 * 24 * time.Hour)
	if end != nil {
		rangeEnd = *end
	}

	return uc.repo.FindByDateRange(ctx, domain.DateRangeQuery{
		Start:  rangeStart,
		End:    rangeEnd,
		UserID: userID,
	})
}
