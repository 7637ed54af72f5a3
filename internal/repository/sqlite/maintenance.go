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

// Compile-time check that *DB implements repository.MaintenanceRepository.
var _ repository.MaintenanceRepository = (*DB)(nil)

// CreateMaintenanceRecord inserts a new maintenance record. VehicleID must already be
// set by the service layer, which has verified the parent vehicle's
// ownership. ID and CreatedAt are generated here.
func (db *DB) CreateMaintenanceRecord(ctx context.Context, record *model.MaintenanceRecord) error {
	record.ID = xid.New().String()
	record.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO maintenance_records
		   (id, vehicle_id, date, mileage, repair_type, cost, location, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.VehicleID,
		record.Date,
		record.Mileage,
		record.RepairType,
		record.Cost,
		record.Location,
		record.Notes,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating maintenance record: %w", err)
	}

	return nil
}

// ListMaintenanceByVehicle returns the vehicle's records ordered by record date
// descending, then by creation time descending as the tie-break.
func (db *DB) ListMaintenanceByVehicle(ctx context.Context, vehicleID string) ([]model.MaintenanceRecord, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, vehicle_id, date, mileage, repair_type, cost, location, notes, created_at
		 FROM maintenance_records
		 WHERE vehicle_id = ?
		 ORDER BY date DESC, created_at DESC`,
		vehicleID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing maintenance records for vehicle %s: %w", vehicleID, err)
	}
	defer rows.Close()

	records := []model.MaintenanceRecord{}
	for rows.Next() {
		var rec model.MaintenanceRecord
		if err := rows.Scan(
			&rec.ID, &rec.VehicleID, &rec.Date, &rec.Mileage,
			&rec.RepairType, &rec.Cost, &rec.Location, &rec.Notes, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning maintenance row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating maintenance records: %w", err)
	}

	return records, nil
}

// GetMaintenanceByIDForVehicle scopes the lookup by both record ID and vehicle ID.
// A record that exists under a different vehicle is indistinguishable
// from one that doesn't exist.
func (db *DB) GetMaintenanceByIDForVehicle(ctx context.Context, id, vehicleID string) (*model.MaintenanceRecord, error) {
	var rec model.MaintenanceRecord

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, vehicle_id, date, mileage, repair_type, cost, location, notes, created_at
		 FROM maintenance_records
		 WHERE id = ? AND vehicle_id = ?`,
		id, vehicleID,
	).Scan(
		&rec.ID, &rec.VehicleID, &rec.Date, &rec.Mileage,
		&rec.RepairType, &rec.Cost, &rec.Location, &rec.Notes, &rec.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Maintenance record not found")
		}
		return nil, fmt.Errorf("sqlite: getting maintenance record %s: %w", id, err)
	}

	return &rec, nil
}

// UpdateMaintenanceRecord persists the record row, scoped by (ID, VehicleID).
func (db *DB) UpdateMaintenanceRecord(ctx context.Context, record *model.MaintenanceRecord) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE maintenance_records
		 SET date = ?, mileage = ?, repair_type = ?, cost = ?, location = ?, notes = ?
		 WHERE id = ? AND vehicle_id = ?`,
		record.Date,
		record.Mileage,
		record.RepairType,
		record.Cost,
		record.Location,
		record.Notes,
		record.ID,
		record.VehicleID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating maintenance record %s: %w", record.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("Maintenance record not found")
	}

	return nil
}

// DeleteMaintenanceRecord removes the record, scoped by (id, vehicleID).
func (db *DB) DeleteMaintenanceRecord(ctx context.Context, id, vehicleID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM maintenance_records WHERE id = ? AND vehicle_id = ?`,
		id, vehicleID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting maintenance record %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("Maintenance record not found")
	}

	return nil
}
