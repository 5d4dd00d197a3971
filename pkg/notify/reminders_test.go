package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"firebase.google.com/go/v4/messaging"

	"github.com/barkbase/barkbase/pkg/registry"
	"github.com/barkbase/barkbase/pkg/storage"
)

type mockSender struct {
	mu   sync.Mutex
	sent []string // tokens
	fail error
}

func (m *mockSender) Send(_ context.Context, token string, _ *messaging.Notification, _ map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, token)
	return nil
}

func newTestReminders(t *testing.T) (*Reminders, *WatchList, *mockSender) {
	t.Helper()
	db := storage.NewDiskStorage(t.TempDir())
	sender := &mockSender{}
	watches := NewWatchList(db, sender)
	return NewReminders(db, watches, sender, 24*time.Hour), watches, sender
}

func TestRegisterSendsConfirmation(t *testing.T) {
	_, watches, sender := newTestReminders(t)

	if err := watches.Register(context.Background(), "owner-1", "token-a"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "token-a" {
		t.Fatalf("expected confirmation push, got %v", sender.sent)
	}

	// Re-registering the same token must not duplicate the watch.
	if err := watches.Register(context.Background(), "owner-1", "token-a"); err != nil {
		t.Fatalf("register again: %v", err)
	}
	if got := watches.TokensForOwner("owner-1"); len(got) != 1 {
		t.Fatalf("expected 1 token got %v", got)
	}
}

func TestSweepSendsDueReminders(t *testing.T) {
	reminders, watches, sender := newTestReminders(t)
	if err := watches.Register(context.Background(), "owner-1", "token-a"); err != nil {
		t.Fatalf("register: %v", err)
	}
	sender.sent = nil

	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	events := []registry.CareEvent{
		{Kind: registry.EventAppointment, OwnerId: "owner-1", RecordId: "soon", DogName: "Rex", Title: "Checkup", Due: "2026-08-25T10:00:00Z"},
		{Kind: registry.EventVaccination, OwnerId: "owner-1", RecordId: "later", DogName: "Rex", Title: "Rabies booster", Due: "2026-12-01"},
		{Kind: registry.EventAppointment, OwnerId: "owner-1", RecordId: "past", DogName: "Rex", Title: "Old visit", Due: "2026-08-01T10:00:00Z"},
		{Kind: registry.EventAppointment, OwnerId: "owner-2", RecordId: "other", DogName: "Milo", Title: "Dental", Due: "2026-08-25T09:00:00Z"},
	}
	for _, e := range events {
		if err := reminders.HandleEvent(e); err != nil {
			t.Fatalf("handle %s: %v", e.RecordId, err)
		}
	}

	// Only "soon" is inside the 24h window for a watched owner; "other"
	// belongs to an owner with no registered device.
	sent := reminders.Sweep(context.Background(), now)
	if sent != 1 {
		t.Fatalf("expected 1 reminder sent got %d", sent)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "token-a" {
		t.Fatalf("unexpected tokens: %v", sender.sent)
	}

	// "later" survives the sweep, everything sent or past is dropped.
	if len(reminders.Pending) != 1 || reminders.Pending[0].RecordId != "later" {
		t.Fatalf("unexpected pending set: %+v", reminders.Pending)
	}
}

func TestHandleEventReplacesByRecordId(t *testing.T) {
	reminders, _, _ := newTestReminders(t)

	first := registry.CareEvent{RecordId: "r1", Title: "Checkup", Due: "2026-09-01T10:00:00Z"}
	moved := registry.CareEvent{RecordId: "r1", Title: "Checkup", Due: "2026-09-08T10:00:00Z"}
	if err := reminders.HandleEvent(first); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if err := reminders.HandleEvent(moved); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(reminders.Pending) != 1 || reminders.Pending[0].Due != moved.Due {
		t.Fatalf("expected rescheduled event, got %+v", reminders.Pending)
	}
}

func TestPendingPersisted(t *testing.T) {
	db := storage.NewDiskStorage(t.TempDir())
	sender := &mockSender{}
	watches := NewWatchList(db, sender)

	r := NewReminders(db, watches, sender, time.Hour)
	if err := r.HandleEvent(registry.CareEvent{RecordId: "r1", Title: "Checkup", Due: "2026-09-01"}); err != nil {
		t.Fatalf("handle: %v", err)
	}

	restored := NewReminders(db, watches, sender, time.Hour)
	if len(restored.Pending) != 1 || restored.Pending[0].RecordId != "r1" {
		t.Fatalf("expected restored pending event, got %+v", restored.Pending)
	}
}

func TestSweepRetainsEventWhenPushFails(t *testing.T) {
	reminders, watches, sender := newTestReminders(t)
	if err := watches.Register(context.Background(), "owner-1", "token-a"); err != nil {
		t.Fatalf("register: %v", err)
	}
	sender.sent = nil

	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	event := registry.CareEvent{Kind: registry.EventAppointment, OwnerId: "owner-1", RecordId: "r1", DogName: "Rex", Title: "Checkup", Due: "2026-08-25T10:00:00Z"}
	if err := reminders.HandleEvent(event); err != nil {
		t.Fatalf("handle: %v", err)
	}

	sender.fail = errors.New("fcm unavailable")
	if sent := reminders.Sweep(context.Background(), now); sent != 0 {
		t.Fatalf("expected no pushes during outage got %d", sent)
	}
	if len(reminders.Pending) != 1 || reminders.Pending[0].RecordId != "r1" {
		t.Fatalf("undelivered event must stay pending, got %+v", reminders.Pending)
	}

	// Next sweep after the outage delivers it.
	sender.fail = nil
	if sent := reminders.Sweep(context.Background(), now); sent != 1 {
		t.Fatalf("expected retry to send got %d", sent)
	}
	if len(reminders.Pending) != 0 {
		t.Fatalf("delivered event must leave the pending set, got %+v", reminders.Pending)
	}
}

func TestSweepDropsEventsForUnwatchedOwnersOnlyAfterDue(t *testing.T) {
	reminders, _, _ := newTestReminders(t)
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	if err := reminders.HandleEvent(registry.CareEvent{OwnerId: "nobody", RecordId: "r1", Due: "2026-08-24T18:00:00Z"}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if sent := reminders.Sweep(context.Background(), now); sent != 0 {
		t.Fatalf("expected no pushes got %d", sent)
	}
	if len(reminders.Pending) != 0 {
		t.Fatalf("due event should leave the pending set, got %+v", reminders.Pending)
	}
}
