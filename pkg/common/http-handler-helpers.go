package common

import (
	"encoding/json"
	"log"
	"net/http"
)

// JsonHandler wraps a handler that writes a JSON body, taking care of the
// OPTIONS preflight, the anonymous session cookie and error logging.
func JsonHandler(fn func(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "OPTIONS" {
			RespondToOptions(w, r)
			return
		}
		sessionId := HandleSessionCookie(w, r)
		w.Header().Set("Content-Type", "application/json")

		if err := fn(w, r, sessionId, json.NewEncoder(w)); err != nil {
			log.Printf("Error handling request %s: %v", r.URL.Path, err)
		}
	}
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.WriteHeader(http.StatusAccepted)
}

// DefaultHeaders sets CORS and cache headers on a normal response.
func DefaultHeaders(w http.ResponseWriter, r *http.Request, cacheMaxAge string) {
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	if cacheMaxAge == "0" {
		w.Header().Set("Cache-Control", "no-store")
	} else {
		w.Header().Set("Cache-Control", "public, max-age="+cacheMaxAge)
	}
}
