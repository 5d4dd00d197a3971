package notify

import (
	"context"
	"sync"
	"time"

	"firebase.google.com/go/v4/messaging"

	"github.com/barkbase/barkbase/pkg/storage"
)

const watchesFile = "reminder_watches.json"

// ReminderWatch ties a device token to an owner account.
type ReminderWatch struct {
	OwnerId   string    `json:"ownerId"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
}

type WatchList struct {
	mu      sync.RWMutex
	storage storage.Provider
	sender  Sender
	Watches []ReminderWatch `json:"watches"`
}

func NewWatchList(db storage.Provider, sender Sender) *WatchList {
	w := &WatchList{
		storage: db,
		sender:  sender,
		Watches: []ReminderWatch{},
	}
	// Missing file just means nobody registered yet.
	_ = db.LoadJson(w, watchesFile)
	return w
}

// Register stores the device token and sends a confirmation push so the
// app can verify the subscription works.
func (w *WatchList) Register(ctx context.Context, ownerId, token string) error {
	w.mu.Lock()
	replaced := false
	for i, watch := range w.Watches {
		if watch.OwnerId == ownerId && watch.Token == token {
			w.Watches[i].CreatedAt = time.Now()
			replaced = true
			break
		}
	}
	if !replaced {
		w.Watches = append(w.Watches, ReminderWatch{
			OwnerId:   ownerId,
			Token:     token,
			CreatedAt: time.Now(),
		})
	}
	err := w.storage.SaveJson(w, watchesFile)
	w.mu.Unlock()
	if err != nil {
		return err
	}

	return w.sender.Send(ctx, token, &messaging.Notification{
		Title: "Reminders enabled",
		Body:  "You will be notified about upcoming appointments and boosters.",
	}, map[string]string{
		"type": "watch-confirmation",
	})
}

func (w *WatchList) TokensForOwner(ownerId string) []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ret := make([]string, 0)
	for _, watch := range w.Watches {
		if watch.OwnerId == ownerId {
			ret = append(ret, watch.Token)
		}
	}
	return ret
}
