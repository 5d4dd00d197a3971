package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/barkbase/barkbase/pkg/common"
	"github.com/barkbase/barkbase/pkg/registry"
)

func writeRegistryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, registry.ErrNoName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (ws *WebServer) HandleDogs(w http.ResponseWriter, r *http.Request, _ int, enc *json.Encoder) error {
	owner := OwnerFromRequest(r)
	common.DefaultHeaders(w, r, "0")

	if r.Method == http.MethodPost {
		var input registry.Dog
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil
		}
		dog, err := ws.Registry.AddDog(owner, input)
		if err != nil {
			writeRegistryError(w, err)
			return nil
		}
		w.WriteHeader(http.StatusCreated)
		return enc.Encode(dog)
	}

	return enc.Encode(ws.Registry.DogsByOwner(owner))
}

func (ws *WebServer) HandleDogById(w http.ResponseWriter, r *http.Request, _ int, enc *json.Encoder) error {
	owner := OwnerFromRequest(r)
	dogId := r.PathValue("id")
	common.DefaultHeaders(w, r, "0")

	switch r.Method {
	case http.MethodPut:
		var input registry.Dog
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil
		}
		dog, err := ws.Registry.UpdateDog(owner, dogId, input)
		if err != nil {
			writeRegistryError(w, err)
			return nil
		}
		return enc.Encode(dog)
	case http.MethodDelete:
		if err := ws.Registry.DeleteDog(owner, dogId); err != nil {
			writeRegistryError(w, err)
			return nil
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	}

	dog, err := ws.Registry.GetDog(owner, dogId)
	if err != nil {
		writeRegistryError(w, err)
		return nil
	}
	return enc.Encode(dog)
}

// addRecord decodes the posted record and appends it through fn,
// answering with the stored record including its new id.
func addRecord[V any](ws *WebServer, w http.ResponseWriter, r *http.Request, enc *json.Encoder, fn func(owner, dogId string, input V) (V, error)) error {
	var input V
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	stored, err := fn(OwnerFromRequest(r), r.PathValue("id"), input)
	if err != nil {
		writeRegistryError(w, err)
		return nil
	}
	w.WriteHeader(http.StatusCreated)
	return enc.Encode(stored)
}

func (ws *WebServer) HandleWeights(w http.ResponseWriter, r *http.Request, _ int, enc *json.Encoder) error {
	common.DefaultHeaders(w, r, "0")
	if r.Method == http.MethodPost {
		return addRecord(ws, w, r, enc, ws.Registry.AddWeight)
	}
	dog, err := ws.Registry.GetDog(OwnerFromRequest(r), r.PathValue("id"))
	if err != nil {
		writeRegistryError(w, err)
		return nil
	}
	return enc.Encode(dog.Weights)
}

func (ws *WebServer) HandleVaccinations(w http.ResponseWriter, r *http.Request, _ int, enc *json.Encoder) error {
	common.DefaultHeaders(w, r, "0")
	if r.Method == http.MethodPost {
		return addRecord(ws, w, r, enc, ws.Registry.AddVaccination)
	}
	dog, err := ws.Registry.GetDog(OwnerFromRequest(r), r.PathValue("id"))
	if err != nil {
		writeRegistryError(w, err)
		return nil
	}
	return enc.Encode(dog.Vaccinations)
}

func (ws *WebServer) HandleMedications(w http.ResponseWriter, r *http.Request, _ int, enc *json.Encoder) error {
	common.DefaultHeaders(w, r, "0")
	if r.Method == http.MethodPost {
		return addRecord(ws, w, r, enc, ws.Registry.AddMedication)
	}
	dog, err := ws.Registry.GetDog(OwnerFromRequest(r), r.PathValue("id"))
	if err != nil {
		writeRegistryError(w, err)
		return nil
	}
	return enc.Encode(dog.Medications)
}

func (ws *WebServer) HandleAppointments(w http.ResponseWriter, r *http.Request, _ int, enc *json.Encoder) error {
	common.DefaultHeaders(w, r, "0")
	if r.Method == http.MethodPost {
		return addRecord(ws, w, r, enc, ws.Registry.AddAppointment)
	}
	dog, err := ws.Registry.GetDog(OwnerFromRequest(r), r.PathValue("id"))
	if err != nil {
		writeRegistryError(w, err)
		return nil
	}
	return enc.Encode(dog.Appointments)
}

func (ws *WebServer) HandleHealthRecords(w http.ResponseWriter, r *http.Request, _ int, enc *json.Encoder) error {
	common.DefaultHeaders(w, r, "0")
	if r.Method == http.MethodPost {
		return addRecord(ws, w, r, enc, ws.Registry.AddHealthRecord)
	}
	dog, err := ws.Registry.GetDog(OwnerFromRequest(r), r.PathValue("id"))
	if err != nil {
		writeRegistryError(w, err)
		return nil
	}
	return enc.Encode(dog.Records)
}

func (ws *WebServer) HandleDeleteRecord(w http.ResponseWriter, r *http.Request, _ int, _ *json.Encoder) error {
	common.DefaultHeaders(w, r, "0")
	err := ws.Registry.DeleteRecord(OwnerFromRequest(r), r.PathValue("id"), r.PathValue("recordId"))
	if err != nil {
		writeRegistryError(w, err)
		return nil
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (ws *WebServer) HandleVets(w http.ResponseWriter, r *http.Request, _ int, enc *json.Encoder) error {
	owner := OwnerFromRequest(r)
	common.DefaultHeaders(w, r, "0")

	if r.Method == http.MethodPost {
		var input registry.VetContact
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil
		}
		vet, err := ws.Registry.AddVet(owner, input)
		if err != nil {
			writeRegistryError(w, err)
			return nil
		}
		w.WriteHeader(http.StatusCreated)
		return enc.Encode(vet)
	}

	return enc.Encode(ws.Registry.VetsByOwner(owner))
}

func (ws *WebServer) HandleVetById(w http.ResponseWriter, r *http.Request, _ int, enc *json.Encoder) error {
	owner := OwnerFromRequest(r)
	vetId := r.PathValue("id")
	common.DefaultHeaders(w, r, "0")

	switch r.Method {
	case http.MethodPut:
		var input registry.VetContact
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil
		}
		vet, err := ws.Registry.UpdateVet(owner, vetId, input)
		if err != nil {
			writeRegistryError(w, err)
			return nil
		}
		return enc.Encode(vet)
	case http.MethodDelete:
		if err := ws.Registry.DeleteVet(owner, vetId); err != nil {
			writeRegistryError(w, err)
			return nil
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	}

	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return nil
}
