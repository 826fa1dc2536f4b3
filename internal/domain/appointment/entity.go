package appointment

import (
	"strings"
	"time"
)

// ===============================
// Entidade Appointment
// ===============================

// Props carrega todos os campos aceitos na construção. Campos opcionais
// (Source, Status, CreatedAt, UpdatedAt) recebem default quando zerados.
type Props struct {
	ID              string
	UserID          string
	Title           string
	Description     string
	Location        string
	Start           time.Time
	End             time.Time
	Attendees       []string
	Source          Source
	ExternalEventID string
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Appointment é o registro de domínio de um compromisso. Estado interno
// privado; mutações apenas via Reschedule / Cancel / Rename.
type Appointment struct {
	id              string
	userID          string
	title           string
	description     string
	location        string
	start           time.Time
	end             time.Time
	attendees       []string
	source          Source
	externalEventID string
	status          Status
	createdAt       time.Time
	updatedAt       time.Time
}

// New valida e constrói o agendamento. Ou tudo é válido, ou nada é criado.
func New(p Props) (*Appointment, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, ErrValidation("missing_id")
	}
	if strings.TrimSpace(p.UserID) == "" {
		return nil, ErrValidation("missing_user_id")
	}

	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, ErrValidation("empty_title")
	}

	if p.Start.IsZero() || p.End.IsZero() {
		return nil, ErrValidation("missing_time_range")
	}
	if !p.End.After(p.Start) {
		return nil, ErrValidation("end_must_be_after_start")
	}

	source := p.Source
	if source == "" {
		source = SourceAssistant
	}

	status := p.Status
	if status == "" {
		status = InitialStatus()
	}

	now := time.Now()
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	attendees := make([]string, len(p.Attendees))
	copy(attendees, p.Attendees)

	return &Appointment{
		id:              p.ID,
		userID:          p.UserID,
		title:           title,
		description:     strings.TrimSpace(p.Description),
		location:        strings.TrimSpace(p.Location),
		start:           p.Start,
		end:             p.End,
		attendees:       attendees,
		source:          source,
		externalEventID: p.ExternalEventID,
		status:          status,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

// ===============================
// Accessors
// ===============================

func (a *Appointment) ID() string           { return a.id }
func (a *Appointment) UserID() string       { return a.userID }
func (a *Appointment) Title() string        { return a.title }
func (a *Appointment) Description() string  { return a.description }
func (a *Appointment) Location() string     { return a.location }
func (a *Appointment) Start() time.Time     { return a.start }
func (a *Appointment) End() time.Time       { return a.end }
func (a *Appointment) Source() Source       { return a.source }
func (a *Appointment) Status() Status       { return a.status }
func (a *Appointment) CreatedAt() time.Time { return a.createdAt }
func (a *Appointment) UpdatedAt() time.Time { return a.updatedAt }

// ExternalEventID retorna o id do evento no calendário externo ("" se nunca
// foi sincronizado).
func (a *Appointment) ExternalEventID() string { return a.externalEventID }

// Attendees retorna uma cópia; o slice interno nunca escapa.
func (a *Appointment) Attendees() []string {
	out := make([]string, len(a.attendees))
	copy(out, a.attendees)
	return out
}

// ===============================
// Domain Actions
// ===============================

// Reschedule troca o intervalo de tempo. Valida antes de escrever: em caso
// de erro o estado observável não muda.
func (a *Appointment) Reschedule(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrValidation("missing_time_range")
	}
	if !end.After(start) {
		return ErrValidation("end_must_be_after_start")
	}

	a.start = start
	a.end = end
	a.touch()
	return nil
}

// Cancel marca como cancelado. Não existe volta para scheduled. Chamadas
// repetidas continuam avançando updatedAt ("última vez tocado").
func (a *Appointment) Cancel() {
	a.status = StatusCancelled
	a.touch()
}

// Rename troca o título com a mesma validação da construção.
func (a *Appointment) Rename(title string) error {
	t := strings.TrimSpace(title)
	if t == "" {
		return ErrValidation("empty_title")
	}
	a.title = t
	a.touch()
	return nil
}

func (a *Appointment) touch() {
	a.updatedAt = time.Now()
}
