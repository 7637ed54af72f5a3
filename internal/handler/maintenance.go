package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skarim/autotrack/internal/auth"
	"github.com/skarim/autotrack/internal/service"
)

// MaintenanceHandler serves the maintenance-record routes nested under
// /api/vehicles/{id}/maintenance. The vehicle ID always comes from the
// route path and the owner ID from the token; the body supplies only
// record fields.
type MaintenanceHandler struct {
	maintenance *service.MaintenanceService
	logger      *slog.Logger
}

// NewMaintenanceHandler creates a MaintenanceHandler.
func NewMaintenanceHandler(maintenance *service.MaintenanceService, logger *slog.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenance: maintenance,
		logger:      logger,
	}
}

// dateFormats are the accepted input layouts for record dates, tried in
// order. Whatever matches is normalized to midnight UTC before storage.
var dateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type createMaintenanceRequest struct {
	Date       *string  `json:"date"`
	Mileage    *float64 `json:"mileage"`
	RepairType *string  `json:"repair_type"`
	Cost       *float64 `json:"cost"`
	Location   string   `json:"location"`
	Notes      string   `json:"notes"`
}

type updateMaintenanceRequest struct {
	Date       *string  `json:"date"`
	Mileage    *float64 `json:"mileage"`
	RepairType *string  `json:"repair_type"`
	Cost       *float64 `json:"cost"`
	Location   *string  `json:"location"`
	Notes      *string  `json:"notes"`
}

// HandleCreate adds a maintenance record to one of the caller's vehicles.
//
// HTTP: POST /api/vehicles/{id}/maintenance
// BODY: {"date": "2024-03-01", "mileage": 42000, "repair_type": "oil change", "cost": 80,
//	"location": "...", "notes": "..."}
//
// 404 when the vehicle doesn't exist or isn't the caller's.
func (h *MaintenanceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "Authentication token required"})
		return
	}
	vehicleID := chi.URLParam(r, "id")

	var req createMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid JSON body"})
		return
	}
	if req.Date == nil || req.Mileage == nil || req.RepairType == nil || req.Cost == nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Date, mileage, repair type, and cost are required"})
		return
	}

	date, ok := parseDate(*req.Date)
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid date format"})
		return
	}

	record, err := h.maintenance.Create(r.Context(), vehicleID, ident.UserID, service.MaintenanceInput{
		Date:       date,
		Mileage:    *req.Mileage,
		RepairType: *req.RepairType,
		Cost:       *req.Cost,
		Location:   req.Location,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(w, err, "Error adding maintenance record")
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// HandleList returns the records of one of the caller's vehicles,
// newest record date first.
//
// HTTP: GET /api/vehicles/{id}/maintenance
func (h *MaintenanceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "Authentication token required"})
		return
	}
	vehicleID := chi.URLParam(r, "id")

	records, err := h.maintenance.ListForVehicle(r.Context(), vehicleID, ident.UserID)
	if err != nil {
		writeError(w, err, "Error fetching maintenance records")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// HandleUpdate applies a partial update to a record.
//
// HTTP: PUT /api/vehicles/{id}/maintenance/{recordId}
//
// 404 when either hop of the ownership chain fails: vehicle not the
// caller's, or record not under that vehicle.
func (h *MaintenanceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "Authentication token required"})
		return
	}
	vehicleID := chi.URLParam(r, "id")
	recordID := chi.URLParam(r, "recordId")

	var req updateMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid JSON body"})
		return
	}

	upd := service.MaintenanceUpdate{
		Mileage:    req.Mileage,
		RepairType: req.RepairType,
		Cost:       req.Cost,
		Location:   req.Location,
		Notes:      req.Notes,
	}
	if req.Date != nil {
		date, ok := parseDate(*req.Date)
		if !ok {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid date format"})
			return
		}
		upd.Date = &date
	}
	if upd.Empty() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "No update data provided"})
		return
	}

	record, err := h.maintenance.Update(r.Context(), recordID, vehicleID, ident.UserID, upd)
	if err != nil {
		writeError(w, err, "Error updating maintenance record")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// HandleDelete removes a record.
//
// HTTP: DELETE /api/vehicles/{id}/maintenance/{recordId}
func (h *MaintenanceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "Authentication token required"})
		return
	}
	vehicleID := chi.URLParam(r, "id")
	recordID := chi.URLParam(r, "recordId")

	if err := h.maintenance.Delete(r.Context(), recordID, vehicleID, ident.UserID); err != nil {
		writeError(w, err, "Error deleting maintenance record")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Maintenance record deleted successfully",
	})
}
