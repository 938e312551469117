package service

import (
	"database/sql"
	"sort"

	"github.com/dddeeprog/NutrientTracker/internal/model"
)

const TrendWindowDays = 7

type TrendPoint struct {
	Date   string               `json:"date"`
	Totals model.NutrientVector `json:"totals"`
}

func trendWindow(end string) (string, string, error) {
	end, err := normalizeDate(end)
	if err != nil {
		return "", "", err
	}
	start, err := addDays(end, -(TrendWindowDays - 1))
	if err != nil {
		return "", "", err
	}
	return start, end, nil
}

// WeeklyTrend sums custom entries per date over the seven days ending at end.
// Only dates with at least one entry produce a point; points ascend by date.
func WeeklyTrend(customs []model.CustomEntry, end string) ([]TrendPoint, error) {
	start, end, err := trendWindow(end)
	if err != nil {
		return nil, err
	}
	byDate := map[string]model.NutrientVector{}
	for _, c := range customs {
		if c.EatDate < start || c.EatDate > end {
			continue
		}
		byDate[c.EatDate] = byDate[c.EatDate].Add(c.Nutrients)
	}
	out := make([]TrendPoint, 0, len(byDate))
	for date, totals := range byDate {
		out = append(out, TrendPoint{Date: date, Totals: totals})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// FillTrendGaps expands points into one entry per day of the window, zero where absent.
func FillTrendGaps(points []TrendPoint, end string) ([]TrendPoint, error) {
	start, _, err := trendWindow(end)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]model.NutrientVector, len(points))
	for _, p := range points {
		byDate[p.Date] = p.Totals
	}
	out := make([]TrendPoint, 0, TrendWindowDays)
	for i := 0; i < TrendWindowDays; i++ {
		date, err := addDays(start, i)
		if err != nil {
			return nil, err
		}
		out = append(out, TrendPoint{Date: date, Totals: byDate[date]})
	}
	return out, nil
}

func LoadWeeklyTrend(db *sql.DB, end string) ([]TrendPoint, error) {
	start, end, err := trendWindow(end)
	if err != nil {
		return nil, err
	}
	customs, err := CustomEntriesBetween(db, start, end)
	if err != nil {
		return nil, err
	}
	return WeeklyTrend(customs, end)
}
