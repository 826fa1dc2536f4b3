package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
)

// Source indica quem originou o agendamento.
type Source string

const (
	SourceUser      Source = "user"
	SourceAssistant Source = "assistant"
	SourceImport    Source = "import"
)

// InitialStatus valida status inicial
func InitialStatus() Status {
	return StatusScheduled
}
