package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/skarim/autotrack/internal/apperror"
	"github.com/skarim/autotrack/internal/model"
	"github.com/skarim/autotrack/internal/repository"
)

// VehicleService handles ownership-scoped CRUD for vehicles.
//
// Every operation takes the caller's user ID alongside the resource ID,
// and the scoped lookup treats "doesn't exist" and "owned by someone
// else" identically. No operation ever trusts an owner ID from a
// request body.
type VehicleService struct {
	repo   repository.VehicleRepository
	logger *slog.Logger
}

// NewVehicleService creates a VehicleService.
func NewVehicleService(repo repository.VehicleRepository, logger *slog.Logger) *VehicleService {
	return &VehicleService{
		repo:   repo,
		logger: logger,
	}
}

// VehicleInput is the caller-supplied data for creating a vehicle.
// The owner is never part of it — it comes from the authenticated
// identity.
type VehicleInput struct {
	Make           string
	Model          string
	Year           int
	CurrentMileage float64
}

// VehicleUpdate is a partial update: nil fields keep their prior value.
type VehicleUpdate struct {
	Make           *string
	Model          *string
	Year           *int
	CurrentMileage *float64
}

// Empty reports whether the update supplies no fields at all.
func (u VehicleUpdate) Empty() bool {
	return u.Make == nil && u.Model == nil && u.Year == nil && u.CurrentMileage == nil
}

// Create validates and saves a new vehicle owned by ownerID.
func (s *VehicleService) Create(ctx context.Context, ownerID string, input VehicleInput) (*model.Vehicle, error) {
	input.Make = strings.TrimSpace(input.Make)
	input.Model = strings.TrimSpace(input.Model)

	if input.Make == "" || input.Model == "" || input.Year == 0 {
		return nil, apperror.ValidationFailed("vehicle", "Make, model, year, and current mileage are required")
	}

	vehicle := &model.Vehicle{
		Make:           input.Make,
		Model:          input.Model,
		Year:           input.Year,
		CurrentMileage: input.CurrentMileage,
		OwnerID:        ownerID,
	}
	if err := s.repo.CreateVehicle(ctx, vehicle); err != nil {
		s.logger.Error("failed to create vehicle",
			slog.String("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating vehicle: %w", err)
	}

	s.logger.Info("vehicle created",
		slog.String("id", vehicle.ID),
		slog.String("ownerID", ownerID),
	)

	return vehicle, nil
}

// ListForOwner returns all of the caller's vehicles, newest first.
func (s *VehicleService) ListForOwner(ctx context.Context, ownerID string) ([]model.Vehicle, error) {
	vehicles, err := s.repo.ListVehiclesByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list vehicles", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing vehicles: %w", err)
	}
	return vehicles, nil
}

// GetOneScoped is the authorization primitive: it returns the vehicle
// only when it exists AND belongs to ownerID. Both failure cases come
// back as the same NotFound error.
func (s *VehicleService) GetOneScoped(ctx context.Context, id, ownerID string) (*model.Vehicle, error) {
	return s.repo.GetVehicleByIDForOwner(ctx, id, ownerID)
}

// Update applies a partial update to a vehicle owned by ownerID.
// The caller (handler) rejects empty updates before this point; the
// check here is a backstop for non-HTTP callers.
func (s *VehicleService) Update(ctx context.Context, id, ownerID string, upd VehicleUpdate) (*model.Vehicle, error) {
	if upd.Empty() {
		return nil, apperror.ValidationFailed("vehicle", "No update data provided")
	}

	// Fetch-then-merge: the scoped fetch doubles as the ownership check.
	vehicle, err := s.GetOneScoped(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if upd.Make != nil {
		vehicle.Make = strings.TrimSpace(*upd.Make)
	}
	if upd.Model != nil {
		vehicle.Model = strings.TrimSpace(*upd.Model)
	}
	if upd.Year != nil {
		vehicle.Year = *upd.Year
	}
	if upd.CurrentMileage != nil {
		vehicle.CurrentMileage = *upd.CurrentMileage
	}

	if err := s.repo.UpdateVehicle(ctx, vehicle); err != nil {
		s.logger.Error("failed to update vehicle",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("vehicle updated", slog.String("id", id))
	return vehicle, nil
}

// Delete removes a vehicle owned by ownerID. Maintenance records under
// the vehicle are left in place (no cascade).
func (s *VehicleService) Delete(ctx context.Context, id, ownerID string) error {
	if err := s.repo.DeleteVehicle(ctx, id, ownerID); err != nil {
		return err
	}

	s.logger.Info("vehicle deleted", slog.String("id", id))
	return nil
}
