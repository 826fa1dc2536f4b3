package intent

import (
	"context"
	"time"
)

// ===============================
// Intenções do usuário
// ===============================

// Type é o conjunto fechado de intenções que o interpretador produz.
type Type string

const (
	TypeSchedule   Type = "SCHEDULE"
	TypeReschedule Type = "RESCHEDULE"
	TypeCancel     Type = "CANCEL"
	TypeList       Type = "LIST"
	TypeUnknown    Type = "UNKNOWN"
)

type ScheduleData struct {
	Title       string
	Start       time.Time
	End         time.Time
	Description string
	Location    string
	Attendees   []string
}

type RescheduleData struct {
	AppointmentID string
	NewStart      time.Time
	NewEnd        time.Time
}

type CancelData struct {
	AppointmentID string
}

type ListData struct {
	Start *time.Time
	End   *time.Time
}

// Intent é imutável, de vida curta e nunca persistido. Exatamente um dos
// payloads é preenchido, conforme Type; Message só existe em UNKNOWN.
type Intent struct {
	Type       Type
	Confidence float64
	RawText    string

	Schedule   *ScheduleData
	Reschedule *RescheduleData
	Cancel     *CancelData
	List       *ListData
	Message    string
}

// Input é o comando bruto: texto OU áudio com mime type.
type Input struct {
	Text     string
	Audio    []byte
	MimeType string
}

func (in Input) IsAudio() bool {
	return len(in.Audio) > 0
}

// Interpreter converte linguagem natural em uma intenção com confiança em
// [0,1]. Em falha interna deve preferir devolver UNKNOWN com confiança 0,
// mas quem consome precisa tolerar erro também.
type Interpreter interface {
	InterpretCommand(ctx context.Context, in Input) (*Intent, error)
}
