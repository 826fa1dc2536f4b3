package audit

import "log"

type Event struct {
	UserID   string
	Action   string
	Entity   string
	EntityID string
	Metadata any
}

// Sink recebe eventos já fora do caminho da requisição.
type Sink interface {
	Write(ev Event) error
}

type Dispatcher struct {
	sink  Sink
	queue chan Event
}

func NewDispatcher(sink Sink) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, 100), // buffer seguro
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.sink.Write(ev); err != nil {
			log.Println("audit error:", err)
		}
	}
}

// Dispatch nunca bloqueia nem quebra o fluxo principal. Dispatcher nil é
// aceito (auditoria desligada em testes).
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos audit (nunca quebrar o fluxo)
		log.Println("audit queue full, dropping event")
	}
}
