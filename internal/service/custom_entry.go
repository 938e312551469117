package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/dddeeprog/NutrientTracker/internal/model"
)

const SourceManual = "manual"

type CreateCustomEntryInput struct {
	Date      string
	Label     string
	Nutrients model.NutrientVector
	Notes     string
	Source    string
}

var customEntryColumns = []string{
	"id", "eat_date", "label",
	"calories_kcal", "protein_g", "carbs_g", "fat_g", "fiber_g",
	"sugar_g", "sodium_mg", "calcium_mg", "iron_mg", "vitamin_c_mg",
	"IFNULL(notes, '')", "IFNULL(source, '')", "created_at",
}

// CreateCustomEntry stores absolute nutrient totals that bypass the food catalog.
func CreateCustomEntry(db *sql.DB, in CreateCustomEntryInput) (int64, error) {
	date, err := normalizeDate(in.Date)
	if err != nil {
		return 0, err
	}
	in.Label = strings.TrimSpace(in.Label)
	if in.Label == "" {
		return 0, fmt.Errorf("custom entry label is required")
	}
	if strings.TrimSpace(in.Source) == "" {
		in.Source = SourceManual
	}

	args := []any{date, in.Label}
	args = append(args, in.Nutrients.Args()...)
	args = append(args, nullableString(in.Notes), in.Source, time.Now().UTC().Format(time.RFC3339))
	res, err := db.Exec(`
INSERT INTO custom_entries(eat_date, label,
  calories_kcal, protein_g, carbs_g, fat_g, fiber_g, sugar_g, sodium_mg, calcium_mg, iron_mg, vitamin_c_mg,
  notes, source, created_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, args...)
	if err != nil {
		return 0, fmt.Errorf("insert custom entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve inserted custom entry id: %w", err)
	}
	return id, nil
}

func CustomEntriesByDate(db *sql.DB, date string) ([]model.CustomEntry, error) {
	date, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}
	return queryCustomEntries(db, sq.Eq{"eat_date": date}, "created_at DESC", "id DESC")
}

// CustomEntriesBetween returns custom entries in [from, to] ordered by date, oldest first.
func CustomEntriesBetween(db *sql.DB, from, to string) ([]model.CustomEntry, error) {
	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}
	return queryCustomEntries(db, sq.And{
		sq.GtOrEq{"eat_date": from},
		sq.LtOrEq{"eat_date": to},
	}, "eat_date ASC", "id ASC")
}

func DeleteCustomEntry(db *sql.DB, id int64) error {
	if id <= 0 {
		return fmt.Errorf("custom entry id must be > 0")
	}
	res, err := db.Exec(`DELETE FROM custom_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete custom entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("custom entry %d: %w", id, ErrNotFound)
	}
	return nil
}

// CustomEntriesMinDate reports the earliest eat date with a custom entry.
func CustomEntriesMinDate(db *sql.DB) (string, bool, error) {
	var earliest sql.NullString
	if err := db.QueryRow(`SELECT MIN(eat_date) FROM custom_entries`).Scan(&earliest); err != nil {
		return "", false, fmt.Errorf("custom entries min date: %w", err)
	}
	if !earliest.Valid {
		return "", false, nil
	}
	return earliest.String, true, nil
}

func queryCustomEntries(db *sql.DB, where sq.Sqlizer, orderBy ...string) ([]model.CustomEntry, error) {
	query, args, err := sq.Select(customEntryColumns...).
		From("custom_entries").
		Where(where).
		OrderBy(orderBy...).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build custom entries query: %w", err)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list custom entries: %w", err)
	}
	defer rows.Close()

	out := make([]model.CustomEntry, 0)
	for rows.Next() {
		var c model.CustomEntry
		var createdAtRaw string
		dest := append([]any{&c.ID, &c.EatDate, &c.Label}, c.Nutrients.Pointers()...)
		dest = append(dest, &c.Notes, &c.Source, &createdAtRaw)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan custom entry: %w", err)
		}
		createdAt, err := time.Parse(time.RFC3339, createdAtRaw)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for custom entry %d: %w", c.ID, err)
		}
		c.CreatedAt = createdAt
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate custom entries: %w", err)
	}
	return out, nil
}
