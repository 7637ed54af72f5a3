package model

import "time"

// Vehicle is a car registered by a user. Every vehicle has exactly one
// owner, set at creation time from the authenticated caller and never
// changed afterwards (there is no transfer operation).
//
// The JSON field names are snake_case to match the public wire format
// (owner_id, current_mileage) that the front-end and API clients use.
type Vehicle struct {
	ID             string    `json:"id"`
	Make           string    `json:"make"`
	Model          string    `json:"model"`
	Year           int       `json:"year"`
	CurrentMileage float64   `json:"current_mileage"`
	OwnerID        string    `json:"owner_id"` // references User.ID
	CreatedAt      time.Time `json:"createdAt"`
}
