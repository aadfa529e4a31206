package mysql

import (
	"testing"
	"time"

	analyticsDomain "disclosure-intake/internal/domain/analytics"
	submissionDomain "disclosure-intake/internal/domain/submission"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with the production models migrated.
// A single connection keeps every query on the same in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&submissionDomain.Submission{}, &analyticsDomain.Event{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeSubmission(t *testing.T, nationalID string) *submissionDomain.Submission {
	t.Helper()
	s, err := submissionDomain.New(&submissionDomain.RawForm{
		NationalID: nationalID,
		FullName:   "Ana Souza",
		BirthDate:  "15/03/1985",
		MotherName: "Maria José da Silva",
		Card:       submissionDomain.CardInput{Number: "4532015112830366", Expiry: "12/29", CVV: "123"},
	}, "sess-1", submissionDomain.ClientMeta{IPAddress: "127.0.0.1"}, time.Now())
	if err != nil {
		t.Fatalf("submission.New: %v", err)
	}
	return s
}
