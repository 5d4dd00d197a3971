package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/barkbase/barkbase/pkg/catalog"
	"github.com/barkbase/barkbase/pkg/common"
	"github.com/barkbase/barkbase/pkg/registry"
	"github.com/barkbase/barkbase/pkg/server"
	"github.com/barkbase/barkbase/pkg/storage"
	bbSync "github.com/barkbase/barkbase/pkg/sync"
)

var enableProfiling = flag.Bool("profiling", true, "enable profiling endpoints")
var rabbitUrl = os.Getenv("RABBIT_URL")
var rabbitVHost = os.Getenv("RABBIT_HOST")
var clientName = os.Getenv("NODE_NAME")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")
var listenAddress = ":8080"
var debugAddress = ":8081"

var rabbitConfig = bbSync.RabbitConfig{
	Url:         rabbitUrl,
	VHost:       rabbitVHost,
	TopicPrefix: "barkbase",
}

func dataDir() string {
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		return dir
	}
	return "data"
}

// buildAuth requires a configured Google login. The wide-open local dev
// identity is only handed out when DEV_MODE is set explicitly.
func buildAuth() (server.AuthHandler, error) {
	auth, err := server.NewGoogleAuth()
	if err == nil {
		return auth, nil
	}
	if os.Getenv("DEV_MODE") != "" {
		log.Printf("Google auth not configured (%v), DEV_MODE set, using local dev auth", err)
		return &server.MockAuth{Owner: "local-dev", Role: "admin"}, nil
	}
	return nil, err
}

func main() {
	flag.Parse()

	db := storage.NewDiskStorage(dataDir())
	foodCatalog := catalog.NewCatalog()
	if err := foodCatalog.Load(db); err != nil {
		log.Fatalf("Failed to load food catalog: %v", err)
	}
	petRegistry := registry.NewRegistry()
	if err := petRegistry.Load(db); err != nil {
		log.Fatalf("Failed to load pet registry: %v", err)
	}

	auth, err := buildAuth()
	if err != nil {
		log.Fatalf("Auth not configured: %v (set DEV_MODE=1 for local development)", err)
	}
	srv := &server.WebServer{
		Catalog:  foodCatalog,
		Registry: petRegistry,
		Db:       db,
		Auth:     auth,
	}
	if redisUrl != "" {
		srv.Cache = server.NewCache(redisUrl, redisPassword, 0)
		log.Printf("Response cache enabled, url: %s", redisUrl)
	}

	var master *bbSync.RabbitChangeMaster
	var client *bbSync.RabbitChangeClient
	if rabbitUrl != "" && clientName == "" {
		log.Println("Starting as master")
		master = bbSync.NewRabbitChangeMaster(rabbitConfig)
		if err := master.Connect(); err != nil {
			log.Printf("Failed to connect to RabbitMQ as master: %v", err)
			master = nil
		} else {
			foodCatalog.ChangeHandler = master
			petRegistry.ChangeHandler = master
		}
	} else if rabbitUrl != "" {
		log.Printf("Starting as client: %s", clientName)
		client = &bbSync.RabbitChangeClient{
			RabbitConfig: rabbitConfig,
			ClientName:   clientName,
			Catalog:      foodCatalog,
		}
		if err := client.Connect(); err != nil {
			log.Fatalf("Failed to connect to RabbitMQ as client: %v", err)
		}
	} else {
		log.Println("Starting as standalone")
	}

	go func() {
		debugMux := http.NewServeMux()
		debugMux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		debugMux.Handle("/metrics", promhttp.Handler())
		if enableProfiling != nil && *enableProfiling {
			log.Println("Profiling enabled")
			debugMux.HandleFunc("/debug/pprof/", pprof.Index)
			debugMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
			debugMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
			debugMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
			debugMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
		}
		log.Printf("Starting debug server %v", debugAddress)
		log.Fatal(http.ListenAndServe(debugAddress, debugMux))
	}()

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", srv.ClientHandler()))
	mux.Handle("/admin/", http.StripPrefix("/admin", srv.AdminHandler()))

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       120 * time.Second,
		Shutdown:   20 * time.Second,
		Hook:       5 * time.Second,
	})
	apiServer := common.NewServerWithTimeouts(&http.Server{
		Addr:    listenAddress,
		Handler: mux,
	}, timeouts)

	common.RunServerWithShutdown(apiServer, "barkbase-api", timeouts.Shutdown, timeouts.Hook,
		func(context.Context) error { return foodCatalog.Save(db) },
		func(context.Context) error { return petRegistry.Save(db) },
		func(context.Context) error {
			if master != nil {
				return master.Close()
			}
			if client != nil {
				return client.Close()
			}
			return nil
		},
	)
}
