package store

import (
	"io"
	"log/slog"
	"testing"

	"contactcalls/internal/models"
)

func TestSeed_PopulatesEmptyDatabase(t *testing.T) {
	db := models.NewTestDB(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := Seed(db, log); err != nil {
		t.Fatalf("seed: %v", err)
	}

	wantCounts := []struct {
		model any
		want  int64
	}{
		{&models.Contact{}, 5},
		{&models.ContactProfile{}, 2},
		{&models.Phone{}, 6},
		{&models.Call{}, 8},
		{&models.Conference{}, 2},
		{&models.ConferenceParticipant{}, 3},
	}
	for _, tc := range wantCounts {
		var n int64
		if err := db.Model(tc.model).Count(&n).Error; err != nil {
			t.Fatalf("count %T: %v", tc.model, err)
		}
		if n != tc.want {
			t.Fatalf("%T rows = %d, want %d", tc.model, n, tc.want)
		}
	}

	// Each contact must end up with exactly one primary number.
	var primaries int64
	if err := db.Model(&models.Phone{}).Where("is_primary = ?", true).Count(&primaries).Error; err != nil {
		t.Fatalf("count primaries: %v", err)
	}
	if primaries != 5 {
		t.Fatalf("primary phones = %d, want 5", primaries)
	}
}

func TestSeed_SkipsPopulatedDatabase(t *testing.T) {
	db := models.NewTestDB(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := Seed(db, log); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := Seed(db, log); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var contacts int64
	if err := db.Model(&models.Contact{}).Count(&contacts).Error; err != nil {
		t.Fatalf("count contacts: %v", err)
	}
	if contacts != 5 {
		t.Fatalf("contacts after reseed = %d, want 5", contacts)
	}
}
