package service_test

import (
	"database/sql"
	"math"
	"path/filepath"
	"testing"

	"github.com/dddeeprog/NutrientTracker/internal/db"
	"github.com/dddeeprog/NutrientTracker/internal/model"
	"github.com/dddeeprog/NutrientTracker/internal/service"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nutri.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

func createFood(t *testing.T, sqldb *sql.DB, name string, per100 model.NutrientVector) int64 {
	t.Helper()
	id, err := service.CreateFood(sqldb, service.CreateFoodInput{Name: name, Per100g: per100})
	if err != nil {
		t.Fatalf("create food %q: %v", name, err)
	}
	return id
}

func floatPtr(v float64) *float64 {
	return &v
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func vectorsEqual(a, b model.NutrientVector) bool {
	for _, key := range model.NutrientKeys {
		if !approxEqual(a.Get(key), b.Get(key)) {
			return false
		}
	}
	return true
}
