package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/barkbase/barkbase/pkg/common"
	"github.com/barkbase/barkbase/pkg/foods"
)

func isAdminRole(role string) bool {
	return role == "admin" || role == "api"
}

// AdminHandler builds the catalog management surface. Every route
// requires an admin cookie or the service API key.
func (ws *WebServer) AdminHandler() *http.ServeMux {
	srv := http.NewServeMux()

	admin := func(fn func(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error) http.HandlerFunc {
		return ws.Auth.Middleware(func(w http.ResponseWriter, r *http.Request) {
			if !isAdminRole(RoleFromRequest(r)) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			common.JsonHandler(fn)(w, r)
		})
	}

	srv.HandleFunc("POST /foods", admin(ws.HandleAdminUpsertFoods))
	srv.HandleFunc("DELETE /foods/{id}", admin(ws.HandleAdminDeleteFood))
	srv.HandleFunc("POST /save", admin(ws.HandleAdminSave))
	srv.HandleFunc("GET /stats", admin(ws.HandleAdminStats))

	return srv
}

func (ws *WebServer) invalidateSearchCache() {
	if ws.Cache != nil {
		ws.Cache.Invalidate(defaultSearchCacheKey)
	}
}

func (ws *WebServer) HandleAdminUpsertFoods(w http.ResponseWriter, r *http.Request, _ int, enc *json.Encoder) error {
	var raw []foods.RawProduct
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	stored := ws.Catalog.Upsert(raw)
	ws.invalidateSearchCache()
	common.DefaultHeaders(w, r, "0")
	return enc.Encode(map[string]int{"stored": len(stored)})
}

func (ws *WebServer) HandleAdminDeleteFood(w http.ResponseWriter, r *http.Request, _ int, _ *json.Encoder) error {
	if !ws.Catalog.Delete(r.PathValue("id")) {
		http.Error(w, "product not found", http.StatusNotFound)
		return nil
	}
	ws.invalidateSearchCache()
	common.DefaultHeaders(w, r, "0")
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (ws *WebServer) HandleAdminSave(w http.ResponseWriter, r *http.Request, _ int, enc *json.Encoder) error {
	if err := ws.Catalog.Save(ws.Db); err != nil {
		log.Printf("Failed to save catalog snapshot: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil
	}
	if err := ws.Registry.Save(ws.Db); err != nil {
		log.Printf("Failed to save registry snapshot: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil
	}
	common.DefaultHeaders(w, r, "0")
	return enc.Encode(map[string]string{"status": "saved"})
}

func (ws *WebServer) HandleAdminStats(w http.ResponseWriter, r *http.Request, _ int, enc *json.Encoder) error {
	common.DefaultHeaders(w, r, "0")
	return enc.Encode(map[string]int{
		"foods": ws.Catalog.Len(),
		"dogs":  ws.Registry.DogCount(),
	})
}
