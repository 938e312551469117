package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dddeeprog/NutrientTracker/internal/model"
)

// DefaultGoal returns the targets used when no goal has been saved yet.
func DefaultGoal() model.Goal {
	defaults := model.NutrientVector{
		CaloriesKcal: 2000,
		ProteinG:     100,
		CarbsG:       250,
		FatG:         70,
		FiberG:       25,
		SugarG:       40,
		SodiumMg:     2000,
		CalciumMg:    1000,
		IronMg:       18,
		VitaminCMg:   90,
	}
	g := model.Goal{ID: model.GoalID}
	for _, key := range model.NutrientKeys {
		v := defaults.Get(key)
		g.Targets.Set(key, &v)
	}
	return g
}

// GetGoal loads the singleton goal row, persisting the default goal on first use.
func GetGoal(db *sql.DB) (model.Goal, error) {
	var g model.Goal
	var raw [10]sql.NullFloat64
	dest := []any{&g.ID}
	for i := range raw {
		dest = append(dest, &raw[i])
	}
	err := db.QueryRow(`
SELECT id, calories_kcal, protein_g, carbs_g, fat_g, fiber_g, sugar_g, sodium_mg, calcium_mg, iron_mg, vitamin_c_mg
FROM goals
WHERE id = ?
`, model.GoalID).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		def := DefaultGoal()
		if err := SaveGoal(db, def); err != nil {
			return model.Goal{}, fmt.Errorf("persist default goal: %w", err)
		}
		return def, nil
	}
	if err != nil {
		return model.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	for i, key := range model.NutrientKeys {
		if raw[i].Valid {
			v := raw[i].Float64
			g.Targets.Set(key, &v)
		}
	}
	return g, nil
}

// SaveGoal replaces every target of the singleton goal; nil targets are stored as NULL.
func SaveGoal(db *sql.DB, g model.Goal) error {
	args := []any{model.GoalID}
	for _, key := range model.NutrientKeys {
		if v, ok := g.Targets.Get(key); ok {
			if err := validateNonNegativeFloat(string(key), v); err != nil {
				return err
			}
			args = append(args, v)
			continue
		}
		args = append(args, nil)
	}

	_, err := db.Exec(`
INSERT INTO goals(id, calories_kcal, protein_g, carbs_g, fat_g, fiber_g, sugar_g, sodium_mg, calcium_mg, iron_mg, vitamin_c_mg)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  calories_kcal=excluded.calories_kcal,
  protein_g=excluded.protein_g,
  carbs_g=excluded.carbs_g,
  fat_g=excluded.fat_g,
  fiber_g=excluded.fiber_g,
  sugar_g=excluded.sugar_g,
  sodium_mg=excluded.sodium_mg,
  calcium_mg=excluded.calcium_mg,
  iron_mg=excluded.iron_mg,
  vitamin_c_mg=excluded.vitamin_c_mg
`, args...)
	if err != nil {
		return fmt.Errorf("save goal: %w", err)
	}
	return nil
}
