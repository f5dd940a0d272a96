package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu     sync.Mutex
	sent   []Message
	failOn string // fail when Recipient matches
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != "" && msg.Recipient == s.failOn {
		return errors.New("smtp unavailable")
	}
	s.sent = append(s.sent, msg)
	return nil
}

type recordingStore struct {
	mu       sync.Mutex
	recorded []Message
}

func (s *recordingStore) Record(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorded = append(s.recorded, msg)
	return nil
}

// Running with an already-cancelled context makes Run drain the buffered
// queue synchronously and return, which keeps these tests deterministic.
func drain(d *Dispatcher) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Run(ctx)
}

func TestDispatcherDeliversAndRecords(t *testing.T) {
	sender := &recordingSender{}
	store := &recordingStore{}
	d := NewDispatcher(sender, store, 8, nil, nil)

	d.Enqueue(Message{Recipient: "a@example.com", Subject: "s1", Template: TemplatePatientAppointment})
	d.Enqueue(Message{Recipient: "b@example.com", Subject: "s2", Template: TemplateDoctorAppointment})

	drain(d)

	require.Len(t, sender.sent, 2)
	require.Len(t, store.recorded, 2)
	assert.Equal(t, "a@example.com", sender.sent[0].Recipient)
}

func TestDispatcherAbsorbsDeliveryFailure(t *testing.T) {
	sender := &recordingSender{failOn: "broken@example.com"}
	store := &recordingStore{}
	d := NewDispatcher(sender, store, 8, nil, nil)

	d.Enqueue(Message{Recipient: "broken@example.com", Template: TemplatePatientAppointment})
	d.Enqueue(Message{Recipient: "fine@example.com", Template: TemplatePatientAppointment})

	drain(d)

	// the failure is logged and dropped; delivery continues
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "fine@example.com", sender.sent[0].Recipient)
	// failed sends are not recorded
	require.Len(t, store.recorded, 1)
}

func TestDispatcherEnqueueNeverBlocks(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, nil, 1, nil, nil)

	// second message overflows the queue and is dropped, not blocked on
	d.Enqueue(Message{Recipient: "a@example.com", Template: TemplatePatientAppointment})
	d.Enqueue(Message{Recipient: "b@example.com", Template: TemplatePatientAppointment})

	drain(d)

	require.Len(t, sender.sent, 1)
}

func TestDispatcherNilStore(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, nil, 8, nil, nil)

	d.Enqueue(Message{Recipient: "a@example.com", Template: TemplateAppointmentReminder})
	drain(d)

	require.Len(t, sender.sent, 1)
}
