package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/agendia-app/agendia/internal/domain/appointment"
	"github.com/agendia-app/agendia/internal/domain/intent"
)

// ======================================================
// FAKES
// ======================================================

type fakeInterpreter struct {
	intent *intent.Intent
	err    error
}

func (f *fakeInterpreter) InterpretCommand(_ context.Context, _ intent.Input) (*intent.Intent, error) {
	return f.intent, f.err
}

type fakeCalendar struct {
	available       bool
	availabilityErr error
	externalID      string
	scheduleErr     error
	updateErr       error
	cancelErr       error

	scheduleCalls int
	updateCalls   int
	cancelCalls   int
	cancelledIDs  []string
}

func (f *fakeCalendar) ScheduleEvent(_ context.Context, _ *domain.Appointment) (string, error) {
	f.scheduleCalls++
	return f.externalID, f.scheduleErr
}

func (f *fakeCalendar) CheckAvailability(_ context.Context, _, _ time.Time, _ string) (bool, error) {
	return f.available, f.availabilityErr
}

func (f *fakeCalendar) UpdateEvent(_ context.Context, _ *domain.Appointment) error {
	f.updateCalls++
	return f.updateErr
}

func (f *fakeCalendar) CancelEvent(_ context.Context, externalEventID string) error {
	f.cancelCalls++
	f.cancelledIDs = append(f.cancelledIDs, externalEventID)
	return f.cancelErr
}

func (f *fakeCalendar) ListEvents(_ context.Context, _, _ time.Time, _ string) ([]*domain.Appointment, error) {
	return nil, nil
}

type fakeRepo struct {
	byID      map[string]*domain.Appointment
	findErr   error
	inRange   []*domain.Appointment
	rangeErr  error
	saveErr   error
	updateErr error

	saved   []*domain.Appointment
	updated []*domain.Appointment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*domain.Appointment{}}
}

func (f *fakeRepo) Save(_ context.Context, ap *domain.Appointment) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, ap)
	return nil
}

func (f *fakeRepo) Update(_ context.Context, ap *domain.Appointment) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, ap)
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*domain.Appointment, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byID[id], nil
}

func (f *fakeRepo) FindByExternalRef(_ context.Context, _ string) (*domain.Appointment, error) {
	return nil, nil
}

func (f *fakeRepo) FindByDateRange(_ context.Context, _ domain.DateRangeQuery) ([]*domain.Appointment, error) {
	if f.rangeErr != nil {
		return nil, f.rangeErr
	}
	return f.inRange, nil
}

// ======================================================
// HELPERS
// ======================================================

const testUserID = "12345"

func newUseCase(i *fakeInterpreter, cal *fakeCalendar, repo *fakeRepo) *ProcessCommand {
	return NewProcessCommand(i, cal, repo, nil)
}

func scheduleIntent(confidence float64) *intent.Intent {
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	return &intent.Intent{
		Type:       intent.TypeSchedule,
		Confidence: confidence,
		RawText:    "agendar dentista",
		Schedule: &intent.ScheduleData{
			Title: "Dentista",
			Start: start,
			End:   start.Add(time.Hour),
		},
	}
}

func existingAppointment(t *testing.T, userID string) *domain.Appointment {
	t.Helper()
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	ap, err := domain.New(domain.Props{
		ID:              "apt-1",
		UserID:          userID,
		Title:           "Dentista",
		Start:           start,
		End:             start.Add(time.Hour),
		ExternalEventID: "ext-1",
	})
	require.NoError(t, err)
	return ap
}

func textInput(s string) intent.Input {
	return intent.Input{Text: s}
}

// ======================================================
// CONFIDENCE GATE
// ======================================================

func TestConfidenceBoundaryInclusive(t *testing.T) {
	cal := &fakeCalendar{available: true, externalID: "ext-1"}
	repo := newFakeRepo()
	uc := newUseCase(&fakeInterpreter{intent: scheduleIntent(0.6)}, cal, repo)

	res := uc.Execute(context.Background(), testUserID, textInput("agendar dentista"))

	assert.True(t, res.Success)
	assert.Equal(t, 1, cal.scheduleCalls)
}

func TestConfidenceJustBelowThresholdIsRejected(t *testing.T) {
	cal := &fakeCalendar{available: true, externalID: "ext-1"}
	repo := newFakeRepo()
	uc := newUseCase(&fakeInterpreter{intent: scheduleIntent(0.599999)}, cal, repo)

	res := uc.Execute(context.Background(), testUserID, textInput("agendar dentista"))

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "reformular")
	assert.Zero(t, cal.scheduleCalls)
	assert.Empty(t, repo.saved)
}

// ======================================================
// SCHEDULE
// ======================================================

func TestScheduleSuccessPersistsExternalRef(t *testing.T) {
	cal := &fakeCalendar{available: true, externalID: "ext-1"}
	repo := newFakeRepo()
	uc := newUseCase(&fakeInterpreter{intent: scheduleIntent(0.95)}, cal, repo)

	res := uc.Execute(context.Background(), testUserID, textInput("agendar dentista"))

	require.True(t, res.Success, res.Message)
	assert.Contains(t, res.Message, "Dentista")

	require.Len(t, repo.saved, 1)
	persisted := repo.saved[0]
	assert.Equal(t, "ext-1", persisted.ExternalEventID())
	assert.Equal(t, testUserID, persisted.UserID())
	assert.Equal(t, domain.StatusScheduled, persisted.Status())

	data, ok := res.Data.(ScheduleResultData)
	require.True(t, ok)
	assert.Equal(t, persisted.ID(), data.AppointmentID)
	assert.Equal(t, "ext-1", data.ExternalID)
}

func TestScheduleConflictMakesNoWrites(t *testing.T) {
	cal := &fakeCalendar{available: false}
	repo := newFakeRepo()
	uc := newUseCase(&fakeInterpreter{intent: scheduleIntent(0.9)}, cal, repo)

	res := uc.Execute(context.Background(), testUserID, textInput("agendar dentista"))

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Conflito")
	assert.Zero(t, cal.scheduleCalls)
	assert.Empty(t, repo.saved)
}

func TestScheduleCalendarFailureIsReported(t *testing.T) {
	cal := &fakeCalendar{available: true, scheduleErr: errors.New("quota exceeded")}
	repo := newFakeRepo()
	uc := newUseCase(&fakeInterpreter{intent: scheduleIntent(0.9)}, cal, repo)

	res := uc.Execute(context.Background(), testUserID, textInput("agendar dentista"))

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Erro ao processar comando")
	assert.Contains(t, res.Message, "quota exceeded")
	assert.Empty(t, repo.saved)
}

// ======================================================
// RESCHEDULE
// ======================================================

func rescheduleIntent(appointmentID string) *intent.Intent {
	newStart := time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC)
	return &intent.Intent{
		Type:       intent.TypeReschedule,
		Confidence: 0.85,
		RawText:    "reagendar para amanhã 14h",
		Reschedule: &intent.RescheduleData{
			AppointmentID: appointmentID,
			NewStart:      newStart,
			NewEnd:        newStart.Add(time.Hour),
		},
	}
}

func TestRescheduleSuccess(t *testing.T) {
	ap := existingAppointment(t, testUserID)
	repo := newFakeRepo()
	repo.byID[ap.ID()] = ap
	cal := &fakeCalendar{available: true}
	uc := newUseCase(&fakeInterpreter{intent: rescheduleIntent(ap.ID())}, cal, repo)

	res := uc.Execute(context.Background(), testUserID, textInput("reagendar"))

	require.True(t, res.Success, res.Message)
	assert.Contains(t, res.Message, "Reagendado")
	assert.Equal(t, 1, cal.updateCalls)
	require.Len(t, repo.updated, 1)
	assert.Equal(t, time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC), repo.updated[0].Start())
}

func TestRescheduleForeignAppointmentLooksLikeNotFound(t *testing.T) {
	ap := existingAppointment(t, "outro-usuario")
	repo := newFakeRepo()
	repo.byID[ap.ID()] = ap
	cal := &fakeCalendar{available: true}
	uc := newUseCase(&fakeInterpreter{intent: rescheduleIntent(ap.ID())}, cal, repo)

	res := uc.Execute(context.Background(), testUserID, textInput("reagendar"))

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "não encontrado")
	assert.Zero(t, cal.updateCalls)
	assert.Empty(t, repo.updated)
}

func TestRescheduleMissingAppointmentSameMessage(t *testing.T) {
	repo := newFakeRepo()
	cal := &fakeCalendar{available: true}
	uc := newUseCase(&fakeInterpreter{intent: rescheduleIntent("apt-inexistente")}, cal, repo)

	res := uc.Execute(context.Background(), testUserID, textInput("reagendar"))

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "não encontrado")
}

func TestRescheduleConflictDoesNotMutate(t *testing.T) {
	ap := existingAppointment(t, testUserID)
	origStart := ap.Start()
	repo := newFakeRepo()
	repo.byID[ap.ID()] = ap
	cal := &fakeCalendar{available: false}
	uc := newUseCase(&fakeInterpreter{intent: rescheduleIntent(ap.ID())}, cal, repo)

	res := uc.Execute(context.Background(), testUserID, textInput("reagendar"))

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Conflito")
	assert.Equal(t, origStart, ap.Start())
	assert.Zero(t, cal.updateCalls)
	assert.Empty(t, repo.updated)
}

func TestRescheduleCalendarFailurePreventsStoreUpdate(t *testing.T) {
	ap := existingAppointment(t, testUserID)
	repo := newFakeRepo()
	repo.byID[ap.ID()] = ap
	cal := &fakeCalendar{available: true, updateErr: errors.New("api indisponível")}
	uc := newUseCase(&fakeInterpreter{intent: rescheduleIntent(ap.ID())}, cal, repo)

	res := uc.Execute(context.Background(), testUserID, textInput("reagendar"))

	assert.False(t, res.Success)
	// Calendário falhou: o banco não pode afirmar o novo horário.
	assert.Empty(t, repo.updated)
}

// ======================================================
// CANCEL
// ======================================================

func cancelIntent(appointmentID string) *intent.Intent {
	return &intent.Intent{
		Type:       intent.TypeCancel,
		Confidence: 0.9,
		RawText:    "cancelar dentista",
		Cancel:     &intent.CancelData{AppointmentID: appointmentID},
	}
}

func TestCancelWithExternalRef(t *testing.T) {
	ap := existingAppointment(t, testUserID)
	repo := newFakeRepo()
	repo.byID[ap.ID()] = ap
	cal := &fakeCalendar{}
	uc := newUseCase(&fakeInterpreter{intent: cancelIntent(ap.ID())}, cal, repo)

	res := uc.Execute(context.Background(), testUserID, textInput("cancelar"))

	require.True(t, res.Success, res.Message)
	assert.Equal(t, []string{"ext-1"}, cal.cancelledIDs)
	require.Len(t, repo.updated, 1)
	assert.Equal(t, domain.StatusCancelled, repo.updated[0].Status())
}

func TestCancelWithoutExternalRefSkipsCalendar(t *testing.T) {
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	ap, err := domain.New(domain.Props{
		ID:     "apt-local",
		UserID: testUserID,
		Title:  "Dentista",
		Start:  start,
		End:    start.Add(time.Hour),
	})
	require.NoError(t, err)

	repo := newFakeRepo()
	repo.byID[ap.ID()] = ap
	cal := &fakeCalendar{}
	uc := newUseCase(&fakeInterpreter{intent: cancelIntent(ap.ID())}, cal, repo)

	res := uc.Execute(context.Background(), testUserID, textInput("cancelar"))

	require.True(t, res.Success, res.Message)
	assert.Zero(t, cal.cancelCalls)
	require.Len(t, repo.updated, 1)
	assert.Equal(t, domain.StatusCancelled, repo.updated[0].Status())
}

func TestCancelForeignAppointmentLooksLikeNotFound(t *testing.T) {
	ap := existingAppointment(t, "outro-usuario")
	repo := newFakeRepo()
	repo.byID[ap.ID()] = ap
	cal := &fakeCalendar{}
	uc := newUseCase(&fakeInterpreter{intent: cancelIntent(ap.ID())}, cal, repo)

	res := uc.Execute(context.Background(), testUserID, textInput("cancelar"))

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "não encontrado")
	assert.Zero(t, cal.cancelCalls)
	assert.Empty(t, repo.updated)
}

// ======================================================
// LIST
// ======================================================

func listIntent() *intent.Intent {
	return &intent.Intent{
		Type:       intent.TypeList,
		Confidence: 0.95,
		RawText:    "o que tenho essa semana",
		List:       &intent.ListData{},
	}
}

func TestListEmptyIsSuccess(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(&fakeInterpreter{intent: listIntent()}, &fakeCalendar{}, repo)

	res := uc.Execute(context.Background(), testUserID, textInput("listar"))

	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "Nenhum compromisso")
	assert.Empty(t, res.Data)
}

func TestListTwoResults(t *testing.T) {
	first := existingAppointment(t, testUserID)

	start := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)
	second, err := domain.New(domain.Props{
		ID:     "apt-2",
		UserID: testUserID,
		Title:  "Reunião",
		Start:  start,
		End:    start.Add(time.Hour),
	})
	require.NoError(t, err)

	repo := newFakeRepo()
	repo.inRange = []*domain.Appointment{first, second}
	uc := newUseCase(&fakeInterpreter{intent: listIntent()}, &fakeCalendar{}, repo)

	res := uc.Execute(context.Background(), testUserID, textInput("listar"))

	require.True(t, res.Success)
	assert.Contains(t, res.Message, "2 compromisso(s)")
	assert.Contains(t, res.Message, "Dentista")
	assert.Contains(t, res.Message, "Reunião")

	data, ok := res.Data.([]*domain.Appointment)
	require.True(t, ok)
	// Ordem igual à devolvida pelo repositório.
	require.Len(t, data, 2)
	assert.Equal(t, "apt-1", data[0].ID())
	assert.Equal(t, "apt-2", data[1].ID())
}

// ======================================================
// UNKNOWN / FALHAS
// ======================================================

func TestUnknownIntentEchoesMessage(t *testing.T) {
	it := &intent.Intent{
		Type:       intent.TypeUnknown,
		Confidence: 0.7,
		Message:    "Não consegui entender o comando",
	}
	uc := newUseCase(&fakeInterpreter{intent: it}, &fakeCalendar{}, newFakeRepo())

	res := uc.Execute(context.Background(), testUserID, textInput("blablabla"))

	assert.False(t, res.Success)
	assert.Equal(t, "Não consegui entender o comando", res.Message)
}

func TestUnrecognizedIntentTagFallsBack(t *testing.T) {
	it := &intent.Intent{Type: intent.Type("REMIND"), Confidence: 0.9}
	uc := newUseCase(&fakeInterpreter{intent: it}, &fakeCalendar{}, newFakeRepo())

	res := uc.Execute(context.Background(), testUserID, textInput("me lembra"))

	assert.False(t, res.Success)
	assert.Equal(t, "Comando não reconhecido.", res.Message)
}

func TestInterpreterErrorBecomesFailureResult(t *testing.T) {
	uc := newUseCase(&fakeInterpreter{err: errors.New("timeout")}, &fakeCalendar{}, newFakeRepo())

	res := uc.Execute(context.Background(), testUserID, textInput("agendar"))

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Erro ao processar comando")
	assert.Contains(t, res.Message, "timeout")
}

func TestStoreErrorBecomesFailureResult(t *testing.T) {
	repo := newFakeRepo()
	repo.findErr = errors.New("conexão recusada")
	uc := newUseCase(&fakeInterpreter{intent: cancelIntent("apt-1")}, &fakeCalendar{}, repo)

	res := uc.Execute(context.Background(), testUserID, textInput("cancelar"))

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "conexão recusada")
}
