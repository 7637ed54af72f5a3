package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/skarim/autotrack/internal/apperror"
	"github.com/skarim/autotrack/internal/model"
	"github.com/skarim/autotrack/internal/repository"
)

// MaintenanceService handles ownership-scoped CRUD for maintenance
// records nested under vehicles.
//
// TWO-HOP OWNERSHIP CHECK:
// Every operation first resolves the parent vehicle through the vehicle
// service's scoped lookup (vehicle exists AND belongs to the caller),
// then scopes the record operation by (recordID, vehicleID). If either
// hop fails the result is the same NotFound — a caller can't learn
// whether a record ID is real by probing someone else's vehicle.
type MaintenanceService struct {
	repo     repository.MaintenanceRepository
	vehicles *VehicleService
	logger   *slog.Logger
}

// NewMaintenanceService creates a MaintenanceService.
func NewMaintenanceService(
	repo repository.MaintenanceRepository,
	vehicles *VehicleService,
	logger *slog.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		repo:     repo,
		vehicles: vehicles,
		logger:   logger,
	}
}

// MaintenanceInput is the caller-supplied data for a new record.
// VehicleID is never part of it — it comes from the route path after
// the ownership check.
type MaintenanceInput struct {
	Date       time.Time
	Mileage    float64
	RepairType string
	Cost       float64
	Location   string
	Notes      string
}

// MaintenanceUpdate is a partial update: nil fields keep their prior value.
type MaintenanceUpdate struct {
	Date       *time.Time
	Mileage    *float64
	RepairType *string
	Cost       *float64
	Location   *string
	Notes      *string
}

// Empty reports whether the update supplies no fields at all.
func (u MaintenanceUpdate) Empty() bool {
	return u.Date == nil && u.Mileage == nil && u.RepairType == nil &&
		u.Cost == nil && u.Location == nil && u.Notes == nil
}

// NormalizeDate truncates a timestamp to midnight UTC. All record dates
// are stored in this canonical form regardless of the input's time or
// zone components.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Create adds a maintenance record to a vehicle the caller owns.
func (s *MaintenanceService) Create(ctx context.Context, vehicleID, ownerID string, input MaintenanceInput) (*model.MaintenanceRecord, error) {
	if _, err := s.vehicles.GetOneScoped(ctx, vehicleID, ownerID); err != nil {
		return nil, err
	}

	input.RepairType = strings.TrimSpace(input.RepairType)
	if input.RepairType == "" || input.Date.IsZero() {
		return nil, apperror.ValidationFailed("record", "Date, mileage, repair type, and cost are required")
	}

	record := &model.MaintenanceRecord{
		VehicleID:  vehicleID,
		Date:       NormalizeDate(input.Date),
		Mileage:    input.Mileage,
		RepairType: input.RepairType,
		Cost:       input.Cost,
		Location:   strings.TrimSpace(input.Location),
		Notes:      strings.TrimSpace(input.Notes),
	}
	if err := s.repo.CreateMaintenanceRecord(ctx, record); err != nil {
		s.logger.Error("failed to create maintenance record",
			slog.String("vehicleID", vehicleID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating maintenance record: %w", err)
	}

	s.logger.Info("maintenance record created",
		slog.String("id", record.ID),
		slog.String("vehicleID", vehicleID),
	)

	return record, nil
}

// ListForVehicle returns the records of a vehicle the caller owns,
// ordered by record date descending, then creation time descending.
func (s *MaintenanceService) ListForVehicle(ctx context.Context, vehicleID, ownerID string) ([]model.MaintenanceRecord, error) {
	if _, err := s.vehicles.GetOneScoped(ctx, vehicleID, ownerID); err != nil {
		return nil, err
	}

	records, err := s.repo.ListMaintenanceByVehicle(ctx, vehicleID)
	if err != nil {
		s.logger.Error("failed to list maintenance records", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing maintenance records: %w", err)
	}
	return records, nil
}

// Update applies a partial update to a record under a vehicle the
// caller owns. Both the vehicle hop and the record hop must pass.
func (s *MaintenanceService) Update(ctx context.Context, recordID, vehicleID, ownerID string, upd MaintenanceUpdate) (*model.MaintenanceRecord, error) {
	if upd.Empty() {
		return nil, apperror.ValidationFailed("record", "No update data provided")
	}

	if _, err := s.vehicles.GetOneScoped(ctx, vehicleID, ownerID); err != nil {
		return nil, err
	}

	record, err := s.repo.GetMaintenanceByIDForVehicle(ctx, recordID, vehicleID)
	if err != nil {
		return nil, err
	}

	if upd.Date != nil {
		record.Date = NormalizeDate(*upd.Date)
	}
	if upd.Mileage != nil {
		record.Mileage = *upd.Mileage
	}
	if upd.RepairType != nil {
		record.RepairType = strings.TrimSpace(*upd.RepairType)
	}
	if upd.Cost != nil {
		record.Cost = *upd.Cost
	}
	if upd.Location != nil {
		record.Location = strings.TrimSpace(*upd.Location)
	}
	if upd.Notes != nil {
		record.Notes = strings.TrimSpace(*upd.Notes)
	}

	if err := s.repo.UpdateMaintenanceRecord(ctx, record); err != nil {
		s.logger.Error("failed to update maintenance record",
			slog.String("id", recordID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("maintenance record updated", slog.String("id", recordID))
	return record, nil
}

// Delete removes a record under a vehicle the caller owns.
func (s *MaintenanceService) Delete(ctx context.Context, recordID, vehicleID, ownerID string) error {
	if _, err := s.vehicles.GetOneScoped(ctx, vehicleID, ownerID); err != nil {
		return err
	}

	if err := s.repo.DeleteMaintenanceRecord(ctx, recordID, vehicleID); err != nil {
		return err
	}

	s.logger.Info("maintenance record deleted", slog.String("id", recordID))
	return nil
}
