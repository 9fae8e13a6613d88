package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/automotive-catalog/internal/catalog"
	"github.com/ukydev/automotive-catalog/internal/models"
	"github.com/ukydev/automotive-catalog/internal/notify"
)

// VehicleHandler serves the catalog CRUD endpoints.
type VehicleHandler struct {
	repo      *catalog.Repository
	publisher notify.Publisher
}

// NewVehicleHandler creates a new vehicle handler.
func NewVehicleHandler(repo *catalog.Repository, publisher notify.Publisher) *VehicleHandler {
	return &VehicleHandler{repo: repo, publisher: publisher}
}

// vehicleResponse is a vehicle plus the sync outcome of the write
// that produced it. Mirror failures surface here, never as HTTP
// errors.
type vehicleResponse struct {
	models.Vehicle
	Synced bool `json:"synced"`
}

// Collection handles GET (public list) and POST (operator add) on
// /api/vehicles.
func (h *VehicleHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.add(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item handles GET, PUT and DELETE on /api/vehicles/{id}.
func (h *VehicleHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/vehicles/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Invalid vehicle id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *VehicleHandler) list(w http.ResponseWriter, r *http.Request) {
	result := h.repo.List(r.Context())
	if result.Stale {
		// Serving the last known good snapshot; the client may retry.
		w.Header().Set("X-Catalog-Stale", "true")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result.Vehicles)
}

func (h *VehicleHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	vehicle, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Catalog temporarily unavailable", http.StatusBadGateway)
		return
	}
	if vehicle == nil {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicle)
}

func (h *VehicleHandler) add(w http.ResponseWriter, r *http.Request) {
	vehicle, ok := h.decodeVehicle(w, r)
	if !ok {
		return
	}

	result, err := h.repo.Add(r.Context(), vehicle)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.publishEvent("created", result.Vehicle)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(vehicleResponse{Vehicle: result.Vehicle, Synced: result.Synced()})
}

func (h *VehicleHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	vehicle, ok := h.decodeVehicle(w, r)
	if !ok {
		return
	}
	vehicle.ID = id

	result, err := h.repo.Update(r.Context(), vehicle)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.publishEvent("updated", result.Vehicle)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicleResponse{Vehicle: result.Vehicle, Synced: result.Synced()})
}

func (h *VehicleHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	h.publishEvent("deleted", models.Vehicle{ID: id})

	w.WriteHeader(http.StatusNoContent)
}

func (h *VehicleHandler) decodeVehicle(w http.ResponseWriter, r *http.Request) (models.Vehicle, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return models.Vehicle{}, false
	}

	var vehicle models.Vehicle
	if err := json.Unmarshal(body, &vehicle); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return models.Vehicle{}, false
	}
	return vehicle, true
}

func (h *VehicleHandler) writeError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	var terr *catalog.TransientError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, catalog.ErrNotFound):
		http.Error(w, "Vehicle not found", http.StatusNotFound)
	case errors.As(err, &terr):
		http.Error(w, "Catalog temporarily unavailable", http.StatusBadGateway)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *VehicleHandler) publishEvent(action string, v models.Vehicle) {
	event := map[string]interface{}{
		"action":         action,
		"id":             v.ID,
		"vehicle_number": v.VehicleNumber,
		"name":           v.Name,
	}
	if err := h.publisher.Publish(notify.TopicVehicles, event); err != nil {
		log.WithError(err).WithField("action", action).Warn("Failed to publish catalog event")
	}
}
