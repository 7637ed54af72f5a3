package model

import "time"

// MaintenanceRecord is a repair or service entry attached to a vehicle.
//
// Records are scoped under a vehicle, which is in turn scoped under a
// user, so every access requires the two-hop ownership check:
// record → vehicle (vehicle_id matches) and vehicle → user (owner_id
// matches the caller).
//
// Location and Notes are optional free-text fields; the empty string is
// their zero value on the wire.
type MaintenanceRecord struct {
	ID         string    `json:"id"`
	VehicleID  string    `json:"vehicle_id"` // references Vehicle.ID
	Date       time.Time `json:"date"`
	Mileage    float64   `json:"mileage"`
	RepairType string    `json:"repair_type"`
	Cost       float64   `json:"cost"`
	Location   string    `json:"location,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
