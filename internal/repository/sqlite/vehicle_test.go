package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/skarim/autotrack/internal/apperror"
	"github.com/skarim/autotrack/internal/model"
)

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestCreateVehicle(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice", model.RoleUser)

	v := &model.Vehicle{
		Make:           "Toyota",
		Model:          "Corolla",
		Year:           2019,
		CurrentMileage: 31000.5,
		OwnerID:        owner.ID,
	}
	if err := db.CreateVehicle(context.Background(), v); err != nil {
		t.Fatalf("CreateVehicle() error = %v", err)
	}
	if v.ID == "" {
		t.Error("CreateVehicle() did not set vehicle.ID")
	}
	if v.CreatedAt.IsZero() {
		t.Error("CreateVehicle() did not set vehicle.CreatedAt")
	}
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestListVehiclesByOwner_OnlyOwnVehicles(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)
	bob := createTestUser(t, db, "bob", model.RoleUser)

	createTestVehicle(t, db, alice.ID, "Toyota", "Corolla")
	createTestVehicle(t, db, alice.ID, "Honda", "Civic")
	createTestVehicle(t, db, bob.ID, "Ford", "Focus")

	vehicles, err := db.ListVehiclesByOwner(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListVehiclesByOwner() error = %v", err)
	}
	if len(vehicles) != 2 {
		t.Fatalf("ListVehiclesByOwner() returned %d vehicles, want 2", len(vehicles))
	}
	for _, v := range vehicles {
		if v.OwnerID != alice.ID {
			t.Errorf("list contains vehicle owned by %q, want only %q", v.OwnerID, alice.ID)
		}
	}
}

func TestListVehiclesByOwner_Empty(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)

	vehicles, err := db.ListVehiclesByOwner(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListVehiclesByOwner() error = %v", err)
	}
	if vehicles == nil {
		t.Error("ListVehiclesByOwner() should return an empty slice, not nil")
	}
	if len(vehicles) != 0 {
		t.Errorf("ListVehiclesByOwner() returned %d vehicles, want 0", len(vehicles))
	}
}

// =========================================================================
// SCOPED GET TESTS
// =========================================================================

func TestGetVehicleByIDForOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)
	created := createTestVehicle(t, db, alice.ID, "Toyota", "Corolla")

	found, err := db.GetVehicleByIDForOwner(context.Background(), created.ID, alice.ID)
	if err != nil {
		t.Fatalf("GetVehicleByIDForOwner() error = %v", err)
	}
	if found.Make != "Toyota" || found.Model != "Corolla" {
		t.Errorf("got %s %s, want Toyota Corolla", found.Make, found.Model)
	}
}

func TestGetVehicleByIDForOwner_WrongOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)
	bob := createTestUser(t, db, "bob", model.RoleUser)
	bobsCar := createTestVehicle(t, db, bob.ID, "Ford", "Focus")

	// Alice asking for Bob's vehicle gets the same NotFound as a
	// nonexistent ID — existence is never revealed across owners.
	_, err := db.GetVehicleByIDForOwner(context.Background(), bobsCar.ID, alice.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGetVehicleByIDForOwner_Nonexistent(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)

	_, err := db.GetVehicleByIDForOwner(context.Background(), "no-such-id", alice.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// UPDATE TESTS
// =========================================================================

func TestUpdateVehicle(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)
	v := createTestVehicle(t, db, alice.ID, "Toyota", "Corolla")

	v.CurrentMileage = 50000
	v.Year = 2021
	if err := db.UpdateVehicle(context.Background(), v); err != nil {
		t.Fatalf("UpdateVehicle() error = %v", err)
	}

	found, err := db.GetVehicleByIDForOwner(context.Background(), v.ID, alice.ID)
	if err != nil {
		t.Fatalf("GetVehicleByIDForOwner() after update: %v", err)
	}
	if found.CurrentMileage != 50000 {
		t.Errorf("CurrentMileage = %v, want 50000", found.CurrentMileage)
	}
	if found.Year != 2021 {
		t.Errorf("Year = %d, want 2021", found.Year)
	}
}

func TestUpdateVehicle_WrongOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)
	bob := createTestUser(t, db, "bob", model.RoleUser)
	bobsCar := createTestVehicle(t, db, bob.ID, "Ford", "Focus")

	// The UPDATE is scoped by owner_id, so zero rows match.
	hijacked := *bobsCar
	hijacked.OwnerID = alice.ID
	hijacked.Make = "Hacked"
	err := db.UpdateVehicle(context.Background(), &hijacked)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}

	// Bob's vehicle is untouched.
	found, _ := db.GetVehicleByIDForOwner(context.Background(), bobsCar.ID, bob.ID)
	if found.Make != "Ford" {
		t.Errorf("Make = %q, vehicle was modified by non-owner", found.Make)
	}
}

// =========================================================================
// DELETE TESTS
// =========================================================================

func TestDeleteVehicle(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)
	v := createTestVehicle(t, db, alice.ID, "Toyota", "Corolla")

	if err := db.DeleteVehicle(context.Background(), v.ID, alice.ID); err != nil {
		t.Fatalf("DeleteVehicle() error = %v", err)
	}

	_, err := db.GetVehicleByIDForOwner(context.Background(), v.ID, alice.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("after delete: error = %v, want ErrNotFound", err)
	}
}

func TestDeleteVehicle_WrongOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)
	bob := createTestUser(t, db, "bob", model.RoleUser)
	bobsCar := createTestVehicle(t, db, bob.ID, "Ford", "Focus")

	err := db.DeleteVehicle(context.Background(), bobsCar.ID, alice.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}

	// Still there for its real owner.
	if _, err := db.GetVehicleByIDForOwner(context.Background(), bobsCar.ID, bob.ID); err != nil {
		t.Errorf("vehicle should survive a non-owner delete attempt: %v", err)
	}
}

func TestDeleteVehicle_LeavesMaintenanceOrphaned(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)
	v := createTestVehicle(t, db, alice.ID, "Toyota", "Corolla")
	rec := createTestMaintenance(t, db, v.ID, "oil change", testDate(2024, 3, 10))

	// Deleting the vehicle must not be blocked by dependent records,
	// and must not cascade to them either.
	if err := db.DeleteVehicle(context.Background(), v.ID, alice.ID); err != nil {
		t.Fatalf("DeleteVehicle() with maintenance records: %v", err)
	}

	records, err := db.ListMaintenanceByVehicle(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("ListMaintenanceByVehicle() error = %v", err)
	}
	if len(records) != 1 || records[0].ID != rec.ID {
		t.Errorf("maintenance record should survive vehicle deletion, got %d records", len(records))
	}
}
