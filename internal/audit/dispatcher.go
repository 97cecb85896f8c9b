package audit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/BruksfildServices01/booking-platform/internal/metrics"
)

type Event struct {
	BusinessID uint
	UserID     *uint
	Action     string
	Entity     string
	EntityID   *uint
	Metadata   any
}

type Writer interface {
	Write(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	writer Writer
	queue  chan Event
	done   chan struct{}
	once   sync.Once
}

func NewDispatcher(writer Writer) *Dispatcher {
	d := &Dispatcher{
		writer: writer,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.writer.Write(context.Background(), ev); err != nil {
			slog.Error("audit write failed", "action", ev.Action, "err", err)
		}
	}
}

// Dispatch nunca bloqueia a API: fila cheia descarta o evento.
// Dispatcher nil é aceito (use cases sem auditoria nos testes).
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		metrics.AuditDropped.Inc()
		slog.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close drena a fila; chamado no shutdown.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() {
		close(d.queue)
		<-d.done
	})
}
