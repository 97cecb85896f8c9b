package audit

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memWriter struct {
	mu     sync.Mutex
	events []Event
}

func (w *memWriter) Write(_ context.Context, ev Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, ev)
	return nil
}

func TestDispatcherDeliversAndDrains(t *testing.T) {
	w := &memWriter{}
	d := NewDispatcher(w)

	id := uint(9)
	d.Dispatch(Event{BusinessID: 1, Action: "appointment_accepted", Entity: "appointment", EntityID: &id})
	d.Dispatch(Event{BusinessID: 1, Action: "appointment_arrived"})
	d.Close()
	d.Close()

	require.Len(t, w.events, 2)
	assert.Equal(t, "appointment_accepted", w.events[0].Action)
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "x"})
	d.Close()
}

func TestToRecordEncodesMetadata(t *testing.T) {
	rec := toRecord(Event{BusinessID: 2, Action: "change_request_rejected", Metadata: map[string]any{"id": 4}})

	assert.Equal(t, uint(2), rec.BusinessID)
	assert.JSONEq(t, `{"id":4}`, string(rec.Metadata))
}
