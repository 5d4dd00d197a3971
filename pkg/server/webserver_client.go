package server

import (
	"encoding/json"
	"net/http"

	"github.com/barkbase/barkbase/pkg/common"
)

// ClientHandler builds the public API surface. The food catalog is open,
// everything touching an owner's dogs sits behind the auth middleware.
func (ws *WebServer) ClientHandler() *http.ServeMux {
	srv := http.NewServeMux()

	srv.HandleFunc("/foods", common.JsonHandler(ws.HandleFoodSearch))
	srv.HandleFunc("GET /foods/facets", common.JsonHandler(ws.HandleFoodFacets))
	srv.HandleFunc("GET /foods/{id}", common.JsonHandler(ws.HandleFoodById))

	srv.HandleFunc("GET /auth/login", ws.Auth.Login)
	srv.HandleFunc("GET /auth/logout", ws.Auth.Logout)
	srv.HandleFunc("GET /auth/callback", ws.Auth.AuthCallback)
	srv.HandleFunc("GET /auth/user", ws.Auth.User)

	owned := func(fn func(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error) http.HandlerFunc {
		return ws.Auth.Middleware(common.JsonHandler(fn))
	}

	srv.HandleFunc("/dogs", owned(ws.HandleDogs))
	srv.HandleFunc("/dogs/{id}", owned(ws.HandleDogById))
	srv.HandleFunc("/dogs/{id}/weights", owned(ws.HandleWeights))
	srv.HandleFunc("/dogs/{id}/vaccinations", owned(ws.HandleVaccinations))
	srv.HandleFunc("/dogs/{id}/medications", owned(ws.HandleMedications))
	srv.HandleFunc("/dogs/{id}/appointments", owned(ws.HandleAppointments))
	srv.HandleFunc("/dogs/{id}/records", owned(ws.HandleHealthRecords))
	srv.HandleFunc("DELETE /dogs/{id}/records/{recordId}", owned(ws.HandleDeleteRecord))

	srv.HandleFunc("/vets", owned(ws.HandleVets))
	srv.HandleFunc("/vets/{id}", owned(ws.HandleVetById))

	return srv
}
