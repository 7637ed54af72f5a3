package model

import "time"

// FuelRecord is a fuel top-up entry attached to a vehicle.
//
// The entity is persisted and queryable but is not exposed through any
// HTTP route yet; it exists so the schema and repository are ready when
// the fuel-tracking pages land.
type FuelRecord struct {
	ID                string    `json:"id"`
	VehicleID         string    `json:"vehicle_id"` // references Vehicle.ID
	Date              time.Time `json:"date"`
	Mileage           float64   `json:"mileage"`
	FuelAmountLiters  float64   `json:"fuel_amount_liters"`
	FuelPricePerLiter float64   `json:"fuel_price_per_liter"`
	TotalCost         float64   `json:"total_cost"`
	CreatedAt         time.Time `json:"createdAt"`
}
