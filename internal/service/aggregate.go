package service

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/dddeeprog/NutrientTracker/internal/model"
)

// EntryContribution scales a food's per-100 g values by the logged amount.
// The amount is not floored, so zero or negative amounts propagate as-is.
func EntryContribution(e model.EntryWithFood) model.NutrientVector {
	return e.Food.Per100g.Scale(e.Entry.AmountG / 100)
}

func ComputeDayTotals(entries []model.EntryWithFood, customs []model.CustomEntry) model.NutrientVector {
	var total model.NutrientVector
	for _, e := range entries {
		total = total.Add(EntryContribution(e))
	}
	for _, c := range customs {
		total = total.Add(c.Nutrients)
	}
	return total
}

func BuildDaySummary(date string, goal model.Goal, entries []model.EntryWithFood, customs []model.CustomEntry) model.DaySummary {
	if entries == nil {
		entries = []model.EntryWithFood{}
	}
	if customs == nil {
		customs = []model.CustomEntry{}
	}
	return model.DaySummary{
		Date:    date,
		Goal:    goal,
		Entries: entries,
		Customs: customs,
		Totals:  ComputeDayTotals(entries, customs),
	}
}

// LoadDaySummary reads the goal and the day's entries fresh and rebuilds the summary.
func LoadDaySummary(db *sql.DB, date string) (model.DaySummary, error) {
	date, err := normalizeDate(date)
	if err != nil {
		return model.DaySummary{}, err
	}
	goal, err := GetGoal(db)
	if err != nil {
		return model.DaySummary{}, err
	}
	entries, err := EntriesByDate(db, date)
	if err != nil {
		return model.DaySummary{}, fmt.Errorf("load entries for %s: %w", date, err)
	}
	customs, err := CustomEntriesByDate(db, date)
	if err != nil {
		return model.DaySummary{}, fmt.Errorf("load custom entries for %s: %w", date, err)
	}
	return BuildDaySummary(date, goal, entries, customs), nil
}

// ProgressRatio is total/goal, or 0 when the goal is unset or not positive. It is not clamped.
func ProgressRatio(summary model.DaySummary, key model.NutrientKey) float64 {
	target, ok := summary.Goal.Targets.Get(key)
	if !ok || target <= 0 {
		return 0
	}
	return summary.Totals.Get(key) / target
}

// ClampRatio bounds a ratio to [0, 1] for bar rendering.
func ClampRatio(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// GoalsFullyMet requires every key to have a positive target and a total at or above it.
// An empty key set is never met, so nothing celebrates without goals to check.
func GoalsFullyMet(summary model.DaySummary, keys []model.NutrientKey) bool {
	if len(keys) == 0 {
		return false
	}
	for _, key := range keys {
		target, ok := summary.Goal.Targets.Get(key)
		if !ok || target <= 0 {
			return false
		}
		if summary.Totals.Get(key) < target {
			return false
		}
	}
	return true
}

// CelebrationTrigger fires once per transition into the goals-met state.
type CelebrationTrigger struct {
	mu   sync.Mutex
	last *bool
}

func (t *CelebrationTrigger) Observe(met bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	fire := met && (t.last == nil || !*t.last)
	t.last = &met
	return fire
}

type DayListener func(summary model.DaySummary, celebrate bool)

// DayState holds the current day summary. Each Replace swaps in a new value and
// notifies listeners after the lock is released.
type DayState struct {
	mu        sync.RWMutex
	current   model.DaySummary
	loaded    bool
	trigger   CelebrationTrigger
	listeners []DayListener
}

func NewDayState() *DayState {
	return &DayState{}
}

func (s *DayState) Subscribe(fn DayListener) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *DayState) Current() (model.DaySummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.loaded
}

// Replace installs summary as the current value and reports whether the
// celebration edge fired.
func (s *DayState) Replace(summary model.DaySummary) bool {
	celebrate := s.trigger.Observe(GoalsFullyMet(summary, model.MacroKeys))

	s.mu.Lock()
	s.current = summary
	s.loaded = true
	listeners := append([]DayListener(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(summary, celebrate)
	}
	return celebrate
}

// Refresh reloads the summary for date from db and replaces the current value.
func (s *DayState) Refresh(db *sql.DB, date string) (model.DaySummary, bool, error) {
	summary, err := LoadDaySummary(db, date)
	if err != nil {
		return model.DaySummary{}, false, err
	}
	return summary, s.Replace(summary), nil
}
