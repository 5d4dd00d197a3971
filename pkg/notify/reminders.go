package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"firebase.google.com/go/v4/messaging"

	"github.com/barkbase/barkbase/pkg/registry"
	"github.com/barkbase/barkbase/pkg/storage"
)

const pendingFile = "pending_reminders.json"

// Reminders tracks care events from the change feed and pushes a
// notification when one falls inside the lookahead window.
type Reminders struct {
	mu        sync.Mutex
	storage   storage.Provider
	watches   *WatchList
	sender    Sender
	lookahead time.Duration
	Pending   []registry.CareEvent `json:"pending"`
}

func NewReminders(db storage.Provider, watches *WatchList, sender Sender, lookahead time.Duration) *Reminders {
	r := &Reminders{
		storage:   db,
		watches:   watches,
		sender:    sender,
		lookahead: lookahead,
		Pending:   []registry.CareEvent{},
	}
	_ = db.LoadJson(r, pendingFile)
	return r
}

// HandleEvent upserts the event into the pending list, keyed by record id
// so a rescheduled appointment replaces its earlier entry.
func (r *Reminders) HandleEvent(event registry.CareEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, pending := range r.Pending {
		if pending.RecordId == event.RecordId {
			r.Pending[i] = event
			return r.storage.SaveJson(r, pendingFile)
		}
	}
	r.Pending = append(r.Pending, event)
	return r.storage.SaveJson(r, pendingFile)
}

// parseDue accepts both the date-only form used by vaccinations and the
// datetime form used by appointments.
func parseDue(due string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, due); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", due)
}

// Sweep sends reminders for events due within the lookahead window and
// drops everything already past. Returns the number of pushes sent.
func (r *Reminders) Sweep(ctx context.Context, now time.Time) int {
	r.mu.Lock()
	due := make([]registry.CareEvent, 0)
	keep := make([]registry.CareEvent, 0, len(r.Pending))
	for _, event := range r.Pending {
		at, err := parseDue(event.Due)
		if err != nil {
			log.Printf("Dropping care event %s with bad due date %q: %v", event.RecordId, event.Due, err)
			continue
		}
		if at.Before(now) {
			continue
		}
		if at.Sub(now) <= r.lookahead {
			due = append(due, event)
			continue
		}
		keep = append(keep, event)
	}
	r.Pending = keep
	if err := r.storage.SaveJson(r, pendingFile); err != nil {
		log.Printf("Failed to save pending reminders: %v", err)
	}
	r.mu.Unlock()

	sent := 0
	failed := make([]registry.CareEvent, 0)
	for _, event := range due {
		delivered := true
		for _, token := range r.watches.TokensForOwner(event.OwnerId) {
			if err := r.sender.Send(ctx, token, reminderNotification(event), map[string]string{
				"type":     "care-reminder",
				"kind":     string(event.Kind),
				"dogId":    event.DogId,
				"recordId": event.RecordId,
				"due":      event.Due,
			}); err != nil {
				log.Printf("Failed to send reminder for %s to token %s: %v", event.RecordId, token, err)
				delivered = false
				continue
			}
			sent++
		}
		if !delivered {
			failed = append(failed, event)
		}
	}

	// A transient push failure keeps the event pending, the next sweep
	// retries it until its due date passes.
	if len(failed) > 0 {
		r.mu.Lock()
		r.Pending = append(r.Pending, failed...)
		if err := r.storage.SaveJson(r, pendingFile); err != nil {
			log.Printf("Failed to save pending reminders: %v", err)
		}
		r.mu.Unlock()
	}
	return sent
}

func reminderNotification(event registry.CareEvent) *messaging.Notification {
	switch event.Kind {
	case registry.EventVaccination:
		return &messaging.Notification{
			Title: fmt.Sprintf("%s is due for a vaccination", event.DogName),
			Body:  fmt.Sprintf("%s on %s", event.Title, event.Due),
		}
	default:
		return &messaging.Notification{
			Title: fmt.Sprintf("Upcoming appointment for %s", event.DogName),
			Body:  fmt.Sprintf("%s on %s", event.Title, event.Due),
		}
	}
}
