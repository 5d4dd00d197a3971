package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/barkbase/barkbase/pkg/common"
	"github.com/barkbase/barkbase/pkg/notify"
	"github.com/barkbase/barkbase/pkg/registry"
	"github.com/barkbase/barkbase/pkg/storage"
	bbSync "github.com/barkbase/barkbase/pkg/sync"
)

var listenAddress = flag.String("listen", ":8080", "listen address")
var sweepInterval = flag.Duration("sweep", time.Hour, "how often to check for due reminders")
var lookahead = flag.Duration("lookahead", 48*time.Hour, "send reminders this long before the due date")
var rabbitUrl = os.Getenv("RABBIT_URL")
var rabbitVHost = os.Getenv("RABBIT_HOST")

var (
	remindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barkbase_reminders_sent_total",
		Help: "Push reminders delivered to devices",
	})
	eventsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barkbase_care_events_received_total",
		Help: "Care events consumed from the change feed",
	})
)

func dataDir() string {
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		return dir
	}
	return "data"
}

type watchRequest struct {
	OwnerId string `json:"ownerId"`
	Token   string `json:"token"`
}

func main() {
	flag.Parse()

	db := storage.NewDiskStorage(dataDir())
	sender := notify.FirebaseSender{}
	watches := notify.NewWatchList(db, sender)
	reminders := notify.NewReminders(db, watches, sender, *lookahead)

	if rabbitUrl != "" {
		conn, err := bbSync.ListenForCareEvents(bbSync.RabbitConfig{
			Url:         rabbitUrl,
			VHost:       rabbitVHost,
			TopicPrefix: "barkbase",
		}, func(event registry.CareEvent) error {
			eventsReceived.Inc()
			return reminders.HandleEvent(event)
		})
		if err != nil {
			log.Fatalf("Failed to connect to change feed: %v", err)
		}
		defer conn.Close()
	} else {
		log.Println("RABBIT_URL not set, only sweeping already pending reminders")
	}

	go func() {
		ticker := time.NewTicker(*sweepInterval)
		defer ticker.Stop()
		for now := range ticker.C {
			sent := reminders.Sweep(context.Background(), now)
			if sent > 0 {
				log.Printf("Sent %d reminders", sent)
				remindersSent.Add(float64(sent))
			}
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /watch", func(w http.ResponseWriter, r *http.Request) {
		var req watchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.OwnerId == "" || req.Token == "" {
			http.Error(w, "ownerId and token are required", http.StatusBadRequest)
			return
		}
		if err := watches.Register(r.Context(), req.OwnerId, req.Token); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       120 * time.Second,
		Shutdown:   10 * time.Second,
		Hook:       5 * time.Second,
	})
	srv := common.NewServerWithTimeouts(&http.Server{
		Addr:    *listenAddress,
		Handler: mux,
	}, timeouts)
	common.RunServerWithShutdown(srv, "barkbase-reminder", timeouts.Shutdown, timeouts.Hook)
}
