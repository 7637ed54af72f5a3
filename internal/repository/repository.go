// Package repository declares the storage interfaces consumed by the
// service layer. Services depend on these interfaces, not on the SQLite
// implementation — tests inject in-memory mocks, main injects sqlite.DB.
package repository

import (
	"context"

	"github.com/skarim/autotrack/internal/model"
)

type UserRepository interface {
	// CreateUser inserts a new user, generating ID and CreatedAt.
	CreateUser(ctx context.Context, user *model.User) error
	// GetUserByUsername does a case-sensitive exact-match lookup.
	// Returns apperror.ErrNotFound if no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// GetUserByID returns apperror.ErrNotFound if no such user exists.
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// CountUsers returns the total number of registered users.
	CountUsers(ctx context.Context) (int, error)
}

type VehicleRepository interface {
	// CreateVehicle inserts a new vehicle, generating ID and CreatedAt.
	CreateVehicle(ctx context.Context, vehicle *model.Vehicle) error
	// ListVehiclesByOwner returns the owner's vehicles, newest created first.
	ListVehiclesByOwner(ctx context.Context, ownerID string) ([]model.Vehicle, error)
	// GetVehicleByIDForOwner returns the vehicle only when both the ID
	// and the owner match. A vehicle that exists but belongs to someone
	// else is reported as apperror.ErrNotFound, same as one that doesn't
	// exist.
	GetVehicleByIDForOwner(ctx context.Context, id, ownerID string) (*model.Vehicle, error)
	// UpdateVehicle persists the full vehicle row, scoped by (ID, OwnerID).
	UpdateVehicle(ctx context.Context, vehicle *model.Vehicle) error
	// DeleteVehicle removes the vehicle, scoped by (id, ownerID).
	DeleteVehicle(ctx context.Context, id, ownerID string) error
}

type MaintenanceRepository interface {
	// CreateMaintenanceRecord inserts a new record, generating ID and CreatedAt.
	CreateMaintenanceRecord(ctx context.Context, record *model.MaintenanceRecord) error
	// ListMaintenanceByVehicle returns the vehicle's records ordered by
	// record date descending, then creation time descending.
	ListMaintenanceByVehicle(ctx context.Context, vehicleID string) ([]model.MaintenanceRecord, error)
	// GetMaintenanceByIDForVehicle returns the record only when both the
	// record ID and the vehicle ID match; otherwise apperror.ErrNotFound.
	GetMaintenanceByIDForVehicle(ctx context.Context, id, vehicleID string) (*model.MaintenanceRecord, error)
	// UpdateMaintenanceRecord persists the full record row, scoped by (ID, VehicleID).
	UpdateMaintenanceRecord(ctx context.Context, record *model.MaintenanceRecord) error
	// DeleteMaintenanceRecord removes the record, scoped by (id, vehicleID).
	DeleteMaintenanceRecord(ctx context.Context, id, vehicleID string) error
}

// FuelRepository stores fuel top-ups. No HTTP route consumes it yet;
// see model.FuelRecord.
type FuelRepository interface {
	CreateFuelRecord(ctx context.Context, record *model.FuelRecord) error
	ListFuelByVehicle(ctx context.Context, vehicleID string) ([]model.FuelRecord, error)
}
