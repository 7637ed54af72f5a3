package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/skarim/autotrack/internal/model"
	"github.com/skarim/autotrack/internal/repository"
)

// Compile-time check that *DB implements repository.FuelRepository.
var _ repository.FuelRepository = (*DB)(nil)

// CreateFuelRecord inserts a new fuel top-up entry.
func (db *DB) CreateFuelRecord(ctx context.Context, record *model.FuelRecord) error {
	record.ID = xid.New().String()
	record.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO fuel_records
		   (id, vehicle_id, date, mileage, fuel_amount_liters, fuel_price_per_liter, total_cost, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.VehicleID,
		record.Date,
		record.Mileage,
		record.FuelAmountLiters,
		record.FuelPricePerLiter,
		record.TotalCost,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating fuel record: %w", err)
	}

	return nil
}

// ListFuelByVehicle returns the vehicle's fuel records, newest date first.
func (db *DB) ListFuelByVehicle(ctx context.Context, vehicleID string) ([]model.FuelRecord, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, vehicle_id, date, mileage, fuel_amount_liters, fuel_price_per_liter, total_cost, created_at
		 FROM fuel_records
		 WHERE vehicle_id = ?
		 ORDER BY date DESC, created_at DESC`,
		vehicleID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing fuel records for vehicle %s: %w", vehicleID, err)
	}
	defer rows.Close()

	records := []model.FuelRecord{}
	for rows.Next() {
		var rec model.FuelRecord
		if err := rows.Scan(
			&rec.ID, &rec.VehicleID, &rec.Date, &rec.Mileage,
			&rec.FuelAmountLiters, &rec.FuelPricePerLiter, &rec.TotalCost, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning fuel row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating fuel records: %w", err)
	}

	return records, nil
}
