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

func TestCreateMaintenanceRecord(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)
	v := createTestVehicle(t, db, alice.ID, "Toyota", "Corolla")

	rec := &model.MaintenanceRecord{
		VehicleID:  v.ID,
		Date:       testDate(2024, 5, 20),
		Mileage:    45000,
		RepairType: "brake pads",
		Cost:       340.00,
		Location:   "Main St Garage",
		Notes:      "front axle only",
	}
	if err := db.CreateMaintenanceRecord(context.Background(), rec); err != nil {
		t.Fatalf("CreateMaintenanceRecord() error = %v", err)
	}
	if rec.ID == "" {
		t.Error("CreateMaintenanceRecord() did not set record.ID")
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreateMaintenanceRecord() did not set record.CreatedAt")
	}
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestListMaintenanceByVehicle_OrderedByDateDesc(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)
	v := createTestVehicle(t, db, alice.ID, "Toyota", "Corolla")

	createTestMaintenance(t, db, v.ID, "oldest", testDate(2023, 1, 15))
	createTestMaintenance(t, db, v.ID, "newest", testDate(2024, 6, 1))
	createTestMaintenance(t, db, v.ID, "middle", testDate(2023, 11, 3))

	records, err := db.ListMaintenanceByVehicle(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("ListMaintenanceByVehicle() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	want := []string{"newest", "middle", "oldest"}
	for i, w := range want {
		if records[i].RepairType != w {
			t.Errorf("records[%d].RepairType = %q, want %q (newest first)", i, records[i].RepairType, w)
		}
	}
}

func TestListMaintenanceByVehicle_ScopedToVehicle(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)
	car1 := createTestVehicle(t, db, alice.ID, "Toyota", "Corolla")
	car2 := createTestVehicle(t, db, alice.ID, "Honda", "Civic")

	createTestMaintenance(t, db, car1.ID, "oil change", testDate(2024, 2, 1))
	createTestMaintenance(t, db, car2.ID, "tires", testDate(2024, 2, 2))

	records, err := db.ListMaintenanceByVehicle(context.Background(), car1.ID)
	if err != nil {
		t.Fatalf("ListMaintenanceByVehicle() error = %v", err)
	}
	if len(records) != 1 || records[0].RepairType != "oil change" {
		t.Errorf("got %d records, want only car1's single record", len(records))
	}
}

func TestListMaintenanceByVehicle_Empty(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)
	v := createTestVehicle(t, db, alice.ID, "Toyota", "Corolla")

	records, err := db.ListMaintenanceByVehicle(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("ListMaintenanceByVehicle() error = %v", err)
	}
	if records == nil {
		t.Error("should return an empty slice, not nil")
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

// =========================================================================
// SCOPED GET TESTS
// =========================================================================

func TestGetMaintenanceByIDForVehicle(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)
	v := createTestVehicle(t, db, alice.ID, "Toyota", "Corolla")
	rec := createTestMaintenance(t, db, v.ID, "oil change", testDate(2024, 3, 10))

	found, err := db.GetMaintenanceByIDForVehicle(context.Background(), rec.ID, v.ID)
	if err != nil {
		t.Fatalf("GetMaintenanceByIDForVehicle() error = %v", err)
	}
	if found.RepairType != "oil change" {
		t.Errorf("RepairType = %q, want %q", found.RepairType, "oil change")
	}
	if !found.Date.Equal(testDate(2024, 3, 10)) {
		t.Errorf("Date = %v, want %v", found.Date, testDate(2024, 3, 10))
	}
}

func TestGetMaintenanceByIDForVehicle_WrongVehicle(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)
	car1 := createTestVehicle(t, db, alice.ID, "Toyota", "Corolla")
	car2 := createTestVehicle(t, db, alice.ID, "Honda", "Civic")
	rec := createTestMaintenance(t, db, car1.ID, "oil change", testDate(2024, 3, 10))

	// A real record ID under the wrong vehicle is indistinguishable from
	// a nonexistent one.
	_, err := db.GetMaintenanceByIDForVehicle(context.Background(), rec.ID, car2.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// UPDATE TESTS
// =========================================================================

func TestUpdateMaintenanceRecord(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)
	v := createTestVehicle(t, db, alice.ID, "Toyota", "Corolla")
	rec := createTestMaintenance(t, db, v.ID, "oil change", testDate(2024, 3, 10))

	rec.Cost = 99.50
	rec.Notes = "synthetic oil"
	if err := db.UpdateMaintenanceRecord(context.Background(), rec); err != nil {
		t.Fatalf("UpdateMaintenanceRecord() error = %v", err)
	}

	found, err := db.GetMaintenanceByIDForVehicle(context.Background(), rec.ID, v.ID)
	if err != nil {
		t.Fatalf("GetMaintenanceByIDForVehicle() after update: %v", err)
	}
	if found.Cost != 99.50 {
		t.Errorf("Cost = %v, want 99.50", found.Cost)
	}
	if found.Notes != "synthetic oil" {
		t.Errorf("Notes = %q, want %q", found.Notes, "synthetic oil")
	}
}

func TestUpdateMaintenanceRecord_WrongVehicle(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)
	car1 := createTestVehicle(t, db, alice.ID, "Toyota", "Corolla")
	car2 := createTestVehicle(t, db, alice.ID, "Honda", "Civic")
	rec := createTestMaintenance(t, db, car1.ID, "oil change", testDate(2024, 3, 10))

	moved := *rec
	moved.VehicleID = car2.ID
	err := db.UpdateMaintenanceRecord(context.Background(), &moved)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// DELETE TESTS
// =========================================================================

func TestDeleteMaintenanceRecord(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)
	v := createTestVehicle(t, db, alice.ID, "Toyota", "Corolla")
	rec := createTestMaintenance(t, db, v.ID, "oil change", testDate(2024, 3, 10))

	if err := db.DeleteMaintenanceRecord(context.Background(), rec.ID, v.ID); err != nil {
		t.Fatalf("DeleteMaintenanceRecord() error = %v", err)
	}

	_, err := db.GetMaintenanceByIDForVehicle(context.Background(), rec.ID, v.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("after delete: error = %v, want ErrNotFound", err)
	}
}

func TestDeleteMaintenanceRecord_WrongVehicle(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)
	car1 := createTestVehicle(t, db, alice.ID, "Toyota", "Corolla")
	car2 := createTestVehicle(t, db, alice.ID, "Honda", "Civic")
	rec := createTestMaintenance(t, db, car1.ID, "oil change", testDate(2024, 3, 10))

	err := db.DeleteMaintenanceRecord(context.Background(), rec.ID, car2.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}

	if _, err := db.GetMaintenanceByIDForVehicle(context.Background(), rec.ID, car1.ID); err != nil {
		t.Errorf("record should survive a wrong-vehicle delete attempt: %v", err)
	}
}
