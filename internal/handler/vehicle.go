package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skarim/autotrack/internal/auth"
	"github.com/skarim/autotrack/internal/service"
)

// VehicleHandler serves the vehicle CRUD routes. Every route sits
// behind RequireAuth; the owner ID used for scoping always comes from
// the token identity, never from the request body.
type VehicleHandler struct {
	vehicles *service.VehicleService
	logger   *slog.Logger
}

// NewVehicleHandler creates a VehicleHandler.
func NewVehicleHandler(vehicles *service.VehicleService, logger *slog.Logger) *VehicleHandler {
	return &VehicleHandler{
		vehicles: vehicles,
		logger:   logger,
	}
}

// createVehicleRequest uses pointer fields so "missing" and "zero" are
// distinguishable — year 0 in the body is still "present".
type createVehicleRequest struct {
	Make           *string  `json:"make"`
	Model          *string  `json:"model"`
	Year           *int     `json:"year"`
	CurrentMileage *float64 `json:"current_mileage"`
}

type updateVehicleRequest struct {
	Make           *string  `json:"make"`
	Model          *string  `json:"model"`
	Year           *int     `json:"year"`
	CurrentMileage *float64 `json:"current_mileage"`
}

// HandleCreate registers a new vehicle owned by the caller.
//
// HTTP: POST /api/vehicles
// BODY: {"make": "...", "model": "...", "year": 2020, "current_mileage": 500}
func (h *VehicleHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "Authentication token required"})
		return
	}

	var req createVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid JSON body"})
		return
	}
	if req.Make == nil || req.Model == nil || req.Year == nil || req.CurrentMileage == nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Make, model, year, and current mileage are required"})
		return
	}

	vehicle, err := h.vehicles.Create(r.Context(), ident.UserID, service.VehicleInput{
		Make:           *req.Make,
		Model:          *req.Model,
		Year:           *req.Year,
		CurrentMileage: *req.CurrentMileage,
	})
	if err != nil {
		writeError(w, err, "Error adding vehicle")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Vehicle added successfully",
		"vehicle": vehicle,
	})
}

// HandleList returns the caller's vehicles, newest first.
//
// HTTP: GET /api/vehicles
func (h *VehicleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "Authentication token required"})
		return
	}

	vehicles, err := h.vehicles.ListForOwner(r.Context(), ident.UserID)
	if err != nil {
		writeError(w, err, "Error fetching vehicles")
		return
	}

	writeJSON(w, http.StatusOK, vehicles)
}

// HandleUpdate applies a partial update to one of the caller's vehicles.
//
// HTTP: PUT /api/vehicles/{id}
//
// Omitted fields keep their prior values. A body with no updatable
// fields at all is rejected with 400 before any storage call.
func (h *VehicleHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "Authentication token required"})
		return
	}
	id := chi.URLParam(r, "id")

	var req updateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid JSON body"})
		return
	}

	upd := service.VehicleUpdate{
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		CurrentMileage: req.CurrentMileage,
	}
	if upd.Empty() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "No update data provided"})
		return
	}

	vehicle, err := h.vehicles.Update(r.Context(), id, ident.UserID, upd)
	if err != nil {
		writeError(w, err, "Error updating vehicle")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Vehicle updated successfully",
		"vehicle": vehicle,
	})
}

// HandleDelete removes one of the caller's vehicles.
//
// HTTP: DELETE /api/vehicles/{id}
//
// 404 covers both "no such vehicle" and "someone else's vehicle".
func (h *VehicleHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "Authentication token required"})
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.vehicles.Delete(r.Context(), id, ident.UserID); err != nil {
		writeError(w, err, "Error deleting vehicle")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Vehicle deleted successfully",
	})
}
