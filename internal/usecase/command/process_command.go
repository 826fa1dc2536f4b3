package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agendia-app/agendia/internal/audit"
	domain "github.com/agendia-app/agendia/internal/domain/appointment"
	"github.com/agendia-app/agendia/internal/domain/calendar"
	"github.com/agendia-app/agendia/internal/domain/intent"
	"github.com/agendia-app/agendia/internal/timezone"
)

// Intenção abaixo disso é tratada como não confiável, qualquer que seja o
// conteúdo. O limite é inclusivo: 0.6 passa.
const confidenceThreshold = 0.6

const defaultListWindow = 7 * 24 * time.Hour

// ======================================================
// RESULT
// ======================================================

// Result é o que o transporte devolve ao usuário: Message vai para o chat,
// Data fica disponível para uso por máquina.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type ScheduleResultData struct {
	AppointmentID string `json:"appointmentId"`
	ExternalID    string `json:"externalId"`
}

// ======================================================
// USE CASE
// ======================================================

type ProcessCommand struct {
	interpreter intent.Interpreter
	calendar    calendar.Service
	repo        domain.Repository
	audit       *audit.Dispatcher
}

func NewProcessCommand(
	interpreter intent.Interpreter,
	cal calendar.Service,
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *ProcessCommand {
	return &ProcessCommand{
		interpreter: interpreter,
		calendar:    cal,
		repo:        repo,
		audit:       auditDispatcher,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute converte um comando bruto em exatamente um Result. Falhas de
// colaborador e de validação de domínio convergem aqui; nada escapa como
// erro para o chamador.
func (uc *ProcessCommand) Execute(ctx context.Context, userID string, in intent.Input) Result {
	res, err := uc.run(ctx, userID, in)
	if err != nil {
		res = Result{
			Success: false,
			Message: "Erro ao processar comando: " + err.Error(),
		}
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "command_processed",
		Entity:   "command",
		Metadata: map[string]any{"success": res.Success},
	})

	return res
}

func (uc *ProcessCommand) run(ctx context.Context, userID string, in intent.Input) (Result, error) {
	it, err := uc.interpreter.InterpretCommand(ctx, in)
	if err != nil {
		return Result{}, err
	}

	if it.Confidence < confidenceThreshold {
		return Result{
			Success: false,
			Message: "Não consegui entender seu comando. Pode reformular?",
		}, nil
	}

	switch it.Type {
	case intent.TypeSchedule:
		return uc.handleSchedule(ctx, userID, it)
	case intent.TypeReschedule:
		return uc.handleReschedule(ctx, userID, it)
	case intent.TypeCancel:
		return uc.handleCancel(ctx, userID, it)
	case intent.TypeList:
		return uc.handleList(ctx, userID, it)
	case intent.TypeUnknown:
		return Result{Success: false, Message: it.Message}, nil
	default:
		// Inalcançável com o modelo fechado de intenções; rede de segurança.
		return Result{Success: false, Message: "Comando não reconhecido."}, nil
	}
}

// ======================================================
// SCHEDULE
// ======================================================

func (uc *ProcessCommand) handleSchedule(ctx context.Context, userID string, it *intent.Intent) (Result, error) {
	data := it.Schedule
	if data == nil {
		return Result{}, fmt.Errorf("intenção SCHEDULE sem payload")
	}

	available, err := uc.calendar.CheckAvailability(ctx, data.Start, data.End, userID)
	if err != nil {
		return Result{}, err
	}
	if !available {
		return Result{
			Success: false,
			Message: fmt.Sprintf(
				"Conflito detectado: você já tem compromisso entre %s e %s.",
				timezone.FormatBR(data.Start),
				timezone.FormatBR(data.End),
			),
		}, nil
	}

	ap, err := domain.New(domain.Props{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       data.Title,
		Description: data.Description,
		Location:    data.Location,
		Start:       data.Start,
		End:         data.End,
		Attendees:   data.Attendees,
		Source:      domain.SourceAssistant,
	})
	if err != nil {
		return Result{}, err
	}

	externalID, err := uc.calendar.ScheduleEvent(ctx, ap)
	if err != nil {
		return Result{}, err
	}

	// O id externo só existe depois da chamada ao calendário; o registro
	// persistido é reconstruído para carregá-lo.
	persisted, err := domain.New(domain.Props{
		ID:              ap.ID(),
		UserID:          ap.UserID(),
		Title:           ap.Title(),
		Description:     ap.Description(),
		Location:        ap.Location(),
		Start:           ap.Start(),
		End:             ap.End(),
		Attendees:       ap.Attendees(),
		Source:          ap.Source(),
		Status:          ap.Status(),
		ExternalEventID: externalID,
		CreatedAt:       ap.CreatedAt(),
		UpdatedAt:       ap.UpdatedAt(),
	})
	if err != nil {
		return Result{}, err
	}

	if err := uc.repo.Save(ctx, persisted); err != nil {
		return Result{}, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: ap.ID(),
		Metadata: map[string]any{"external_event_id": externalID},
	})

	return Result{
		Success: true,
		Message: fmt.Sprintf(
			"Agendamento criado com sucesso: %q em %s.",
			ap.Title(),
			timezone.FormatBR(ap.Start()),
		),
		Data: ScheduleResultData{
			AppointmentID: ap.ID(),
			ExternalID:    externalID,
		},
	}, nil
}

// ======================================================
// RESCHEDULE
// ======================================================

func (uc *ProcessCommand) handleReschedule(ctx context.Context, userID string, it *intent.Intent) (Result, error) {
	data := it.Reschedule
	if data == nil {
		return Result{}, fmt.Errorf("intenção RESCHEDULE sem payload")
	}

	ap, found, err := uc.loadOwned(ctx, userID, data.AppointmentID)
	if err != nil {
		return Result{}, err
	}
	if !found {
		return Result{Success: false, Message: "Agendamento não encontrado."}, nil
	}

	available, err := uc.calendar.CheckAvailability(ctx, data.NewStart, data.NewEnd, userID)
	if err != nil {
		return Result{}, err
	}
	if !available {
		return Result{Success: false, Message: "Conflito no novo horário."}, nil
	}

	if err := ap.Reschedule(data.NewStart, data.NewEnd); err != nil {
		return Result{}, err
	}

	// Calendário primeiro: o banco nunca deve afirmar um estado que o
	// calendário externo não tem.
	if err := uc.calendar.UpdateEvent(ctx, ap); err != nil {
		return Result{}, err
	}

	if err := uc.repo.Update(ctx, ap); err != nil {
		return Result{}, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: ap.ID(),
	})

	return Result{
		Success: true,
		Message: fmt.Sprintf("Reagendado para %s.", timezone.FormatBR(data.NewStart)),
	}, nil
}

// ======================================================
// CANCEL
// ======================================================

func (uc *ProcessCommand) handleCancel(ctx context.Context, userID string, it *intent.Intent) (Result, error) {
	data := it.Cancel
	if data == nil {
		return Result{}, fmt.Errorf("intenção CANCEL sem payload")
	}

	ap, found, err := uc.loadOwned(ctx, userID, data.AppointmentID)
	if err != nil {
		return Result{}, err
	}
	if !found {
		return Result{Success: false, Message: "Agendamento não encontrado."}, nil
	}

	// Sem referência externa não há o que cancelar no calendário.
	if ap.ExternalEventID() != "" {
		if err := uc.calendar.CancelEvent(ctx, ap.ExternalEventID()); err != nil {
			return Result{}, err
		}
	}

	ap.Cancel()

	if err := uc.repo.Update(ctx, ap); err != nil {
		return Result{}, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: ap.ID(),
	})

	return Result{Success: true, Message: "Agendamento cancelado."}, nil
}

// ======================================================
// LIST
// ======================================================

func (uc *ProcessCommand) handleList(ctx context.Context, userID string, it *intent.Intent) (Result, error) {
	data := it.List
	if data == nil {
		data = &intent.ListData{}
	}

	start := time.Now()
	if data.Start != nil {
		start = *data.Start
	}
	end := start.Add(defaultListWindow)
	if data.End != nil {
		end = *data.End
	}

	apps, err := uc.repo.FindByDateRange(ctx, domain.DateRangeQuery{
		Start:  start,
		End:    end,
		UserID: userID,
	})
	if err != nil {
		return Result{}, err
	}

	if len(apps) == 0 {
		return Result{
			Success: true,
			Message: "Nenhum compromisso neste período.",
			Data:    []*domain.Appointment{},
		}, nil
	}

	lines := make([]string, 0, len(apps))
	for _, ap := range apps {
		lines = append(lines, fmt.Sprintf("- %s em %s", ap.Title(), timezone.FormatBR(ap.Start())))
	}

	return Result{
		Success: true,
		Message: fmt.Sprintf("Você tem %d compromisso(s):\n%s", len(apps), strings.Join(lines, "\n")),
		Data:    apps,
	}, nil
}

// ======================================================
// HELPERS
// ======================================================

// loadOwned carrega o agendamento e verifica a posse. Ausência e dono
// diferente são indistinguíveis para quem chama (mesma resposta), mas a
// auditoria registra o motivo real.
func (uc *ProcessCommand) loadOwned(ctx context.Context, userID, appointmentID string) (*domain.Appointment, bool, error) {
	ap, err := uc.repo.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, false, err
	}

	if ap == nil {
		uc.audit.Dispatch(audit.Event{
			UserID:   userID,
			Action:   "appointment_not_found",
			Entity:   "appointment",
			EntityID: appointmentID,
		})
		return nil, false, nil
	}

	if ap.UserID() != userID {
		uc.audit.Dispatch(audit.Event{
			UserID:   userID,
			Action:   "ownership_mismatch",
			Entity:   "appointment",
			EntityID: appointmentID,
		})
		return nil, false, nil
	}

	return ap, true, nil
}
