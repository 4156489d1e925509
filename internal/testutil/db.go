// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"offlinelicense/internal/database"
	"offlinelicense/internal/license"
)

// OpenDB returns a migrated sqlite database living in the test's temp dir.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "test.db"), false)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// sqlite allows one writer; a single connection keeps concurrent tests from SQLITE_BUSY.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Operator returns an operator with a fixed magic table and dash grouping.
func Operator(t testing.TB, opts ...license.Option) *license.Operator {
	t.Helper()
	base := []license.Option{
		license.WithMagic(license.NewMagic(
			[]byte{0xFF, 0xAA, 0x12, 0x89},
			[]byte{0x45, 0x5A, 0xAD, 0x24},
			[]byte{0x1F, 0x11, 0xA8, 0x99},
		)),
		license.WithSerializer(license.DefaultSerializer{HexSerializer: license.HexSerializer{Groups: 4}}),
	}
	op, err := license.NewOperator(32, license.DefaultChecksum([8]byte{1, 2, 3, 4, 5, 6, 7, 8}), append(base, opts...)...)
	if err != nil {
		t.Fatalf("new operator: %v", err)
	}
	return op
}
