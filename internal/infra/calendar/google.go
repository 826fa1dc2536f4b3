package calendar

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	domain "github.com/agendia-app/agendia/internal/domain/appointment"
	domaincal "github.com/agendia-app/agendia/internal/domain/calendar"
	"github.com/agendia-app/agendia/internal/timezone"
)

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	CalendarID   string
}

// GoogleService implementa o backend de calendário com a API v3 do Google
// Calendar, autenticado por refresh token de uma conta já autorizada.
type GoogleService struct {
	svc        *gcal.Service
	calendarID string
}

func NewGoogleService(ctx context.Context, cfg GoogleConfig) (*GoogleService, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("google calendar: client id e secret são obrigatórios")
	}

	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{gcal.CalendarScope},
		Endpoint:     google.Endpoint,
	}

	client := oauthCfg.Client(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	svc, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("google calendar: %w", err)
	}

	return &GoogleService{svc: svc, calendarID: calendarID}, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (s *GoogleService) ScheduleEvent(ctx context.Context, ap *domain.Appointment) (string, error) {
	ev := s.toEvent(ap)
	ev.Reminders = &gcal.EventReminders{
		UseDefault: false,
		Overrides: []*gcal.EventReminder{
			{Method: "popup", Minutes: 30},
			{Method: "email", Minutes: 24 * 60},
		},
		ForceSendFields: []string{"UseDefault"},
	}

	created, err := s.svc.Events.Insert(s.calendarID, ev).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("falha ao criar evento no calendário: %w", err)
	}
	if created.Id == "" {
		return "", fmt.Errorf("calendário não retornou id do evento")
	}

	log.Printf("evento criado no Google Calendar: %s (%s)", created.Id, ap.Title())
	return created.Id, nil
}

func (s *GoogleService) CheckAvailability(ctx context.Context, start, end time.Time, userID string) (bool, error) {
	res, err := s.svc.Freebusy.Query(&gcal.FreeBusyRequest{
		TimeMin: start.Format(time.RFC3339),
		TimeMax: end.Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: s.calendarID}},
	}).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("falha ao consultar disponibilidade: %w", err)
	}

	cal, ok := res.Calendars[s.calendarID]
	if !ok {
		return false, fmt.Errorf("calendário %q ausente na resposta de free/busy", s.calendarID)
	}

	return len(cal.Busy) == 0, nil
}

func (s *GoogleService) UpdateEvent(ctx context.Context, ap *domain.Appointment) error {
	eventID := ap.ExternalEventID()
	if eventID == "" {
		return fmt.Errorf("agendamento %s não tem evento no calendário externo", ap.ID())
	}

	if _, err := s.svc.Events.Update(s.calendarID, eventID, s.toEvent(ap)).Context(ctx).Do(); err != nil {
		return fmt.Errorf("falha ao atualizar evento %s: %w", eventID, err)
	}

	return nil
}

func (s *GoogleService) CancelEvent(ctx context.Context, externalEventID string) error {
	if err := s.svc.Events.Delete(s.calendarID, externalEventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("falha ao cancelar evento %s: %w", externalEventID, err)
	}
	return nil
}

func (s *GoogleService) ListEvents(ctx context.Context, start, end time.Time, userID string) ([]*domain.Appointment, error) {
	res, err := s.svc.Events.List(s.calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("falha ao listar eventos: %w", err)
	}

	apps := make([]*domain.Appointment, 0, len(res.Items))
	for _, ev := range res.Items {
		// Eventos de dia inteiro não têm DateTime; ficam de fora.
		if ev.Start == nil || ev.Start.DateTime == "" || ev.End == nil || ev.End.DateTime == "" {
			continue
		}

		evStart, err := time.Parse(time.RFC3339, ev.Start.DateTime)
		if err != nil {
			continue
		}
		evEnd, err := time.Parse(time.RFC3339, ev.End.DateTime)
		if err != nil {
			continue
		}

		title := ev.Summary
		if title == "" {
			title = "Sem título"
		}

		ap, err := domain.New(domain.Props{
			ID:              ev.Id,
			UserID:          userID,
			Title:           title,
			Description:     ev.Description,
			Location:        ev.Location,
			Start:           evStart,
			End:             evEnd,
			Source:          domain.SourceImport,
			ExternalEventID: ev.Id,
		})
		if err != nil {
			continue
		}

		apps = append(apps, ap)
	}

	return apps, nil
}

// --------------------------------------------------
// Mapeamento entidade → evento
// --------------------------------------------------

func (s *GoogleService) toEvent(ap *domain.Appointment) *gcal.Event {
	var attendees []*gcal.EventAttendee
	for _, email := range ap.Attendees() {
		attendees = append(attendees, &gcal.EventAttendee{Email: email})
	}

	return &gcal.Event{
		Summary:     ap.Title(),
		Description: ap.Description(),
		Location:    ap.Location(),
		Start: &gcal.EventDateTime{
			DateTime: ap.Start().Format(time.RFC3339),
			TimeZone: timezone.DefaultTimezone,
		},
		End: &gcal.EventDateTime{
			DateTime: ap.End().Format(time.RFC3339),
			TimeZone: timezone.DefaultTimezone,
		},
		Attendees: attendees,
	}
}

// Compile-time check
var _ domaincal.Service = (*GoogleService)(nil)
