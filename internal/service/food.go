package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dddeeprog/NutrientTracker/internal/model"
)

const DefaultServingSizeG = 100.0

type CreateFoodInput struct {
	Name         string
	ServingSizeG float64
	Per100g      model.NutrientVector
}

const foodColumns = `id, name, serving_size_g,
  calories_kcal_per_100g, protein_g_per_100g, carbs_g_per_100g, fat_g_per_100g, fiber_g_per_100g,
  sugar_g_per_100g, sodium_mg_per_100g, calcium_mg_per_100g, iron_mg_per_100g, vitamin_c_mg_per_100g`

func CreateFood(db *sql.DB, in CreateFoodInput) (int64, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return 0, fmt.Errorf("food name is required")
	}
	if in.ServingSizeG <= 0 {
		in.ServingSizeG = DefaultServingSizeG
	}
	exists, err := FoodNameExists(db, in.Name)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("create food %q: %w", in.Name, ErrDuplicateFood)
	}

	args := append([]any{in.Name, in.ServingSizeG}, in.Per100g.Args()...)
	res, err := db.Exec(`
INSERT INTO foods(name, serving_size_g,
  calories_kcal_per_100g, protein_g_per_100g, carbs_g_per_100g, fat_g_per_100g, fiber_g_per_100g,
  sugar_g_per_100g, sodium_mg_per_100g, calcium_mg_per_100g, iron_mg_per_100g, vitamin_c_mg_per_100g)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, args...)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("create food %q: %w", in.Name, ErrDuplicateFood)
		}
		return 0, fmt.Errorf("create food: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted food id: %w", err)
	}
	return id, nil
}

// FoodNameExists matches the exact name, case included.
func FoodNameExists(db *sql.DB, name string) (bool, error) {
	var one int
	err := db.QueryRow(`SELECT 1 FROM foods WHERE name = ? LIMIT 1`, strings.TrimSpace(name)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check food name: %w", err)
	}
	return true, nil
}

func ListFoods(db *sql.DB) ([]model.Food, error) {
	rows, err := db.Query(`SELECT ` + foodColumns + ` FROM foods ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	defer rows.Close()

	out := make([]model.Food, 0)
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("scan food: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foods: %w", err)
	}
	return out, nil
}

func FoodByID(db *sql.DB, id int64) (model.Food, error) {
	f, err := scanFood(db.QueryRow(`SELECT `+foodColumns+` FROM foods WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Food{}, fmt.Errorf("food %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Food{}, fmt.Errorf("get food %d: %w", id, err)
	}
	return f, nil
}

// ResolveFood accepts a numeric id or an exact food name.
func ResolveFood(db *sql.DB, idOrName string) (model.Food, error) {
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return model.Food{}, fmt.Errorf("food id or name is required")
	}
	if id, err := strconv.ParseInt(idOrName, 10, 64); err == nil {
		return FoodByID(db, id)
	}
	f, err := scanFood(db.QueryRow(`SELECT `+foodColumns+` FROM foods WHERE name = ?`, idOrName))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Food{}, fmt.Errorf("food %q: %w", idOrName, ErrNotFound)
	}
	if err != nil {
		return model.Food{}, fmt.Errorf("get food %q: %w", idOrName, err)
	}
	return f, nil
}

// AmountFromServings converts a serving count to grams using the food's serving size.
func AmountFromServings(food model.Food, servings float64) float64 {
	size := food.ServingSizeG
	if size <= 0 {
		size = DefaultServingSizeG
	}
	return servings * size
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFood(row rowScanner) (model.Food, error) {
	var f model.Food
	dest := append([]any{&f.ID, &f.Name, &f.ServingSizeG}, f.Per100g.Pointers()...)
	if err := row.Scan(dest...); err != nil {
		return model.Food{}, err
	}
	return f, nil
}
