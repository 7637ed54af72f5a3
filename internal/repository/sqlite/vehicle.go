package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/skarim/autotrack/internal/apperror"
	"github.com/skarim/autotrack/internal/model"
	"github.com/skarim/autotrack/internal/repository"
)

// Compile-time check that *DB implements repository.VehicleRepository.
var _ repository.VehicleRepository = (*DB)(nil)

// CreateVehicle inserts a new vehicle. OwnerID must already be set by the
// service layer (it comes from the authenticated caller, never from the
// request body). ID and CreatedAt are generated here.
func (db *DB) CreateVehicle(ctx context.Context, vehicle *model.Vehicle) error {
	vehicle.ID = xid.New().String()
	vehicle.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO vehicles (id, make, model, year, current_mileage, owner_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		vehicle.ID,
		vehicle.Make,
		vehicle.Model,
		vehicle.Year,
		vehicle.CurrentMileage,
		vehicle.OwnerID,
		vehicle.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating vehicle: %w", err)
	}

	return nil
}

// ListVehiclesByOwner returns all vehicles owned by ownerID, newest first.
func (db *DB) ListVehiclesByOwner(ctx context.Context, ownerID string) ([]model.Vehicle, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, make, model, year, current_mileage, owner_id, created_at
		 FROM vehicles
		 WHERE owner_id = ?
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing vehicles for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	vehicles := []model.Vehicle{}
	for rows.Next() {
		var v model.Vehicle
		if err := rows.Scan(
			&v.ID, &v.Make, &v.Model, &v.Year,
			&v.CurrentMileage, &v.OwnerID, &v.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning vehicle row: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating vehicles: %w", err)
	}

	return vehicles, nil
}

// GetVehicleByIDForOwner is the ownership-check primitive for vehicles: the
// WHERE clause matches on both id and owner_id, so a vehicle owned by
// someone else comes back exactly like a vehicle that doesn't exist.
func (db *DB) GetVehicleByIDForOwner(ctx context.Context, id, ownerID string) (*model.Vehicle, error) {
	var v model.Vehicle

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, make, model, year, current_mileage, owner_id, created_at
		 FROM vehicles
		 WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	).Scan(
		&v.ID, &v.Make, &v.Model, &v.Year,
		&v.CurrentMileage, &v.OwnerID, &v.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Vehicle not found or not authorized")
		}
		return nil, fmt.Errorf("sqlite: getting vehicle %s: %w", id, err)
	}

	return &v, nil
}

// UpdateVehicle persists the vehicle row. The WHERE clause is scoped by both
// id and owner_id; zero rows affected means not-found-or-not-owner.
func (db *DB) UpdateVehicle(ctx context.Context, vehicle *model.Vehicle) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE vehicles
		 SET make = ?, model = ?, year = ?, current_mileage = ?
		 WHERE id = ? AND owner_id = ?`,
		vehicle.Make,
		vehicle.Model,
		vehicle.Year,
		vehicle.CurrentMileage,
		vehicle.ID,
		vehicle.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating vehicle %s: %w", vehicle.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("Vehicle not found or not authorized")
	}

	return nil
}

// DeleteVehicle removes the vehicle, scoped by (id, ownerID). Dependent
// maintenance and fuel records are NOT deleted; orphans are accepted.
func (db *DB) DeleteVehicle(ctx context.Context, id, ownerID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM vehicles WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting vehicle %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("Vehicle not found or not authorized")
	}

	return nil
}
