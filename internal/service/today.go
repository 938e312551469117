package service

import (
	"github.com/dddeeprog/NutrientTracker/internal/model"
)

type NutrientProgress struct {
	Key       model.NutrientKey `json:"key"`
	Label     string            `json:"label"`
	Unit      string            `json:"unit"`
	Total     float64           `json:"total"`
	Goal      *float64          `json:"goal,omitempty"`
	Ratio     float64           `json:"ratio"`
	Remaining *float64          `json:"remaining,omitempty"`
}

type DayReport struct {
	Date         string             `json:"date"`
	EntryCount   int                `json:"entry_count"`
	CustomCount  int                `json:"custom_count"`
	Nutrients    []NutrientProgress `json:"nutrients"`
	MacrosMet    bool               `json:"macros_met"`
	Celebrate    bool               `json:"celebrate"`
	CaloriesLeft *float64           `json:"calories_left,omitempty"`
}

// NewDayReport flattens a summary into one progress row per nutrient in display order.
func NewDayReport(summary model.DaySummary, celebrate bool) DayReport {
	report := DayReport{
		Date:        summary.Date,
		EntryCount:  len(summary.Entries),
		CustomCount: len(summary.Customs),
		Nutrients:   make([]NutrientProgress, 0, len(model.NutrientKeys)),
		MacrosMet:   GoalsFullyMet(summary, model.MacroKeys),
		Celebrate:   celebrate,
	}
	for _, key := range model.NutrientKeys {
		meta, _ := model.MetaFor(key)
		row := NutrientProgress{
			Key:   key,
			Label: meta.Label,
			Unit:  meta.Unit,
			Total: summary.Totals.Get(key),
			Ratio: ProgressRatio(summary, key),
		}
		if target, ok := summary.Goal.Targets.Get(key); ok {
			goal := target
			remaining := target - row.Total
			row.Goal = &goal
			row.Remaining = &remaining
			if key == model.NutrientCalories {
				report.CaloriesLeft = &remaining
			}
		}
		report.Nutrients = append(report.Nutrients, row)
	}
	return report
}
