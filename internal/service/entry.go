package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/dddeeprog/NutrientTracker/internal/model"
)

type CreateEntryInput struct {
	Date    string
	FoodID  int64
	AmountG float64
	Notes   string
}

var entryColumns = []string{
	"e.id", "e.eat_date", "e.food_id", "e.amount_g", "IFNULL(e.notes, '')", "e.created_at",
	"f.id", "f.name", "f.serving_size_g",
	"f.calories_kcal_per_100g", "f.protein_g_per_100g", "f.carbs_g_per_100g", "f.fat_g_per_100g", "f.fiber_g_per_100g",
	"f.sugar_g_per_100g", "f.sodium_mg_per_100g", "f.calcium_mg_per_100g", "f.iron_mg_per_100g", "f.vitamin_c_mg_per_100g",
}

// CreateEntry records an amount of a catalog food. The amount is stored as given;
// zero and negative values are accepted and flow into totals unchanged.
func CreateEntry(db *sql.DB, in CreateEntryInput) (int64, error) {
	date, err := normalizeDate(in.Date)
	if err != nil {
		return 0, err
	}
	if in.FoodID <= 0 {
		return 0, fmt.Errorf("food id must be > 0")
	}
	if _, err := FoodByID(db, in.FoodID); err != nil {
		return 0, err
	}

	res, err := db.Exec(`
INSERT INTO entries(eat_date, food_id, amount_g, notes, created_at)
VALUES(?, ?, ?, ?, ?)
`, date, in.FoodID, in.AmountG, nullableString(in.Notes), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve inserted entry id: %w", err)
	}
	return id, nil
}

func EntriesByDate(db *sql.DB, date string) ([]model.EntryWithFood, error) {
	date, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}
	return queryEntries(db, sq.Eq{"e.eat_date": date})
}

// EntriesBetween returns entries whose eat date falls in [from, to], both inclusive.
func EntriesBetween(db *sql.DB, from, to string) ([]model.EntryWithFood, error) {
	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}
	return queryEntries(db, sq.And{
		sq.GtOrEq{"e.eat_date": from},
		sq.LtOrEq{"e.eat_date": to},
	})
}

func DeleteEntry(db *sql.DB, id int64) error {
	if id <= 0 {
		return fmt.Errorf("entry id must be > 0")
	}
	res, err := db.Exec(`DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("entry %d: %w", id, ErrNotFound)
	}
	return nil
}

func queryEntries(db *sql.DB, where sq.Sqlizer) ([]model.EntryWithFood, error) {
	query, args, err := sq.Select(entryColumns...).
		From("entries e").
		Join("foods f ON f.id = e.food_id").
		Where(where).
		OrderBy("e.created_at DESC", "e.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build entries query: %w", err)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	out := make([]model.EntryWithFood, 0)
	for rows.Next() {
		var item model.EntryWithFood
		var createdAtRaw string
		dest := []any{
			&item.Entry.ID, &item.Entry.EatDate, &item.Entry.FoodID, &item.Entry.AmountG, &item.Entry.Notes, &createdAtRaw,
			&item.Food.ID, &item.Food.Name, &item.Food.ServingSizeG,
		}
		dest = append(dest, item.Food.Per100g.Pointers()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		createdAt, err := time.Parse(time.RFC3339, createdAtRaw)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for entry %d: %w", item.Entry.ID, err)
		}
		item.Entry.CreatedAt = createdAt
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return out, nil
}

func normalizeRange(from, to string) (string, string, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return "", "", fmt.Errorf("both from and to dates are required")
	}
	var err error
	if from, err = normalizeDate(from); err != nil {
		return "", "", err
	}
	if to, err = normalizeDate(to); err != nil {
		return "", "", err
	}
	if from > to {
		return "", "", fmt.Errorf("from date %s must be on or before to date %s", from, to)
	}
	return from, to, nil
}
