package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dddeeprog/NutrientTracker/internal/model"
)

const (
	rowTypeFood   = "food"
	rowTypeCustom = "custom"
)

func ExportFileName(date string) string {
	return fmt.Sprintf("nutrition_%s.csv", date)
}

func exportHeader() []string {
	header := []string{"goal_id", "kcal_goal", "type", "label", "amount_g"}
	for _, key := range model.NutrientKeys {
		header = append(header, string(key))
	}
	return append(header, "notes")
}

// ExportDayCSV writes one row per consumption entry followed by one row per custom entry.
func ExportDayCSV(w io.Writer, summary model.DaySummary) error {
	goalID := strconv.Itoa(model.GoalID)
	kcalGoal := ""
	if v, ok := summary.Goal.Targets.Get(model.NutrientCalories); ok {
		kcalGoal = formatGoal(v)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range summary.Entries {
		row := []string{goalID, kcalGoal, rowTypeFood, e.Food.Name, formatAmount(e.Entry.AmountG)}
		row = append(row, formatNutrients(EntryContribution(e))...)
		row = append(row, e.Entry.Notes)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write entry %d: %w", e.Entry.ID, err)
		}
	}
	for _, c := range summary.Customs {
		row := []string{goalID, kcalGoal, rowTypeCustom, c.Label, ""}
		row = append(row, formatNutrients(c.Nutrients)...)
		row = append(row, c.Notes)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write custom entry %d: %w", c.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// formatGoal prints the shortest exact form and always keeps one decimal, e.g. 2000.0.
func formatGoal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func formatNutrients(v model.NutrientVector) []string {
	out := make([]string, 0, len(model.NutrientKeys))
	for _, val := range v.Values() {
		out = append(out, strconv.FormatFloat(val, 'f', 2, 64))
	}
	return out
}
