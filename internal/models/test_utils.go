package models

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	glog "gorm.io/gorm/logger"
)

// All lists every entity in migration order.
func All() []any {
	return []any{
		&Contact{},
		&ContactProfile{},
		&Phone{},
		&Call{},
		&Conference{},
		&ConferenceParticipant{},
	}
}

// NewTestDB opens an in-memory sqlite database with all entities migrated
// and SQL logging suppressed. Service tests share it across packages.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	silent := glog.New(
		log.New(io.Discard, "", log.LstdFlags),
		glog.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  glog.Silent,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: silent})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(All()...); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
