package service_test

import (
	"sync"
	"testing"

	"github.com/dddeeprog/NutrientTracker/internal/model"
	"github.com/dddeeprog/NutrientTracker/internal/service"
)

func sampleEntries() ([]model.EntryWithFood, []model.CustomEntry) {
	rice := model.Food{ID: 1, Name: "Rice", Per100g: model.NutrientVector{CaloriesKcal: 130, ProteinG: 2.7, CarbsG: 28, FatG: 0.3}}
	egg := model.Food{ID: 2, Name: "Egg", Per100g: model.NutrientVector{CaloriesKcal: 143, ProteinG: 12.6, FatG: 9.5, IronMg: 1.8}}
	entries := []model.EntryWithFood{
		{Entry: model.Entry{ID: 1, FoodID: 1, AmountG: 180}, Food: rice},
		{Entry: model.Entry{ID: 2, FoodID: 2, AmountG: 55}, Food: egg},
		{Entry: model.Entry{ID: 3, FoodID: 1, AmountG: 33.3}, Food: rice},
	}
	customs := []model.CustomEntry{
		{ID: 1, Label: "Shake", Nutrients: model.NutrientVector{CaloriesKcal: 160, ProteinG: 30, CalciumMg: 200}},
		{ID: 2, Label: "Orange", Nutrients: model.NutrientVector{CaloriesKcal: 62, CarbsG: 15, VitaminCMg: 70}},
	}
	return entries, customs
}

func TestComputeDayTotalsIsAdditiveAndOrderIndependent(t *testing.T) {
	t.Parallel()

	entries, customs := sampleEntries()

	var want model.NutrientVector
	for _, e := range entries {
		want = want.Add(service.EntryContribution(e))
	}
	for _, c := range customs {
		want = want.Add(c.Nutrients)
	}

	got := service.ComputeDayTotals(entries, customs)
	if !vectorsEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	reversedEntries := []model.EntryWithFood{entries[2], entries[1], entries[0]}
	reversedCustoms := []model.CustomEntry{customs[1], customs[0]}
	if reordered := service.ComputeDayTotals(reversedEntries, reversedCustoms); !vectorsEqual(reordered, got) {
		t.Fatalf("expected order independence, got %+v vs %+v", reordered, got)
	}

	if empty := service.ComputeDayTotals(nil, nil); empty != (model.NutrientVector{}) {
		t.Fatalf("expected zero vector for no entries, got %+v", empty)
	}
}

func TestEntryContributionScalesByAmount(t *testing.T) {
	t.Parallel()

	food := model.Food{Per100g: model.NutrientVector{CaloriesKcal: 200, ProteinG: 10}}
	got := service.EntryContribution(model.EntryWithFood{Entry: model.Entry{AmountG: 150}, Food: food})
	if got.CaloriesKcal != 300 || got.ProteinG != 15 {
		t.Fatalf("expected 300 kcal and 15 g protein, got %+v", got)
	}

	negative := service.EntryContribution(model.EntryWithFood{Entry: model.Entry{AmountG: -50}, Food: food})
	if negative.CaloriesKcal != -100 {
		t.Fatalf("expected negative amount to propagate, got %v", negative.CaloriesKcal)
	}
}

func TestProgressRatioDefaultsToZeroWithoutPositiveGoal(t *testing.T) {
	t.Parallel()

	totals := model.NutrientVector{}
	for _, key := range model.NutrientKeys {
		totals.Set(key, 500)
	}

	var goal model.Goal
	for i, key := range model.NutrientKeys {
		switch i % 3 {
		case 0:
			goal.Targets.Set(key, nil)
		case 1:
			goal.Targets.Set(key, floatPtr(0))
		case 2:
			goal.Targets.Set(key, floatPtr(-10))
		}
	}
	summary := service.BuildDaySummary("2026-02-10", goal, nil, nil)
	summary.Totals = totals

	for _, key := range model.NutrientKeys {
		if r := service.ProgressRatio(summary, key); r != 0 {
			t.Fatalf("expected ratio 0 for %s, got %v", key, r)
		}
	}
}

func TestProgressRatioIsNotClamped(t *testing.T) {
	t.Parallel()

	var goal model.Goal
	goal.Targets.Set(model.NutrientProtein, floatPtr(50))
	summary := model.DaySummary{Goal: goal, Totals: model.NutrientVector{ProteinG: 75}}

	r := service.ProgressRatio(summary, model.NutrientProtein)
	if !approxEqual(r, 1.5) {
		t.Fatalf("expected ratio 1.5, got %v", r)
	}
	if service.ClampRatio(r) != 1 || service.ClampRatio(-0.2) != 0 || service.ClampRatio(0.4) != 0.4 {
		t.Fatalf("unexpected clamp behaviour")
	}
}

func TestGoalsFullyMet(t *testing.T) {
	t.Parallel()

	goal := service.DefaultGoal()
	met := model.NutrientVector{CaloriesKcal: 2000, ProteinG: 100, CarbsG: 250, FatG: 70}
	if !service.GoalsFullyMet(model.DaySummary{Goal: goal, Totals: met}, model.MacroKeys) {
		t.Fatalf("expected macros to be met at exactly the target")
	}

	short := met
	short.FatG = 69.9
	if service.GoalsFullyMet(model.DaySummary{Goal: goal, Totals: short}, model.MacroKeys) {
		t.Fatalf("expected macros not met when fat is short")
	}

	unset := goal
	unset.Targets.Set(model.NutrientCarbs, nil)
	if service.GoalsFullyMet(model.DaySummary{Goal: unset, Totals: met}, model.MacroKeys) {
		t.Fatalf("expected macros not met when a target is unset")
	}
}

func TestGoalsFullyMetWithNoKeysIsFalse(t *testing.T) {
	t.Parallel()

	summary := model.DaySummary{Goal: service.DefaultGoal(), Totals: model.NutrientVector{CaloriesKcal: 5000, ProteinG: 500, CarbsG: 500, FatG: 500}}
	if service.GoalsFullyMet(summary, nil) {
		t.Fatalf("expected nil key set to never be met")
	}
	if service.GoalsFullyMet(summary, []model.NutrientKey{}) {
		t.Fatalf("expected empty key set to never be met")
	}
}

func TestCelebrationTriggerFiresOnRisingEdgeOnly(t *testing.T) {
	t.Parallel()

	var trigger service.CelebrationTrigger
	sequence := []bool{false, true, true, false, true}
	want := []bool{false, true, false, false, true}
	for i, met := range sequence {
		if got := trigger.Observe(met); got != want[i] {
			t.Fatalf("step %d: observe(%v) = %v, want %v", i, met, got, want[i])
		}
	}

	var fresh service.CelebrationTrigger
	if !fresh.Observe(true) {
		t.Fatalf("expected first observation of true to fire from unknown state")
	}
}

func TestDayStateReplaceNotifiesWithEdge(t *testing.T) {
	t.Parallel()

	goal := service.DefaultGoal()
	metTotals := model.NutrientVector{CaloriesKcal: 2100, ProteinG: 120, CarbsG: 260, FatG: 80}
	summaries := []model.DaySummary{
		{Date: "2026-02-10", Goal: goal},
		{Date: "2026-02-10", Goal: goal, Totals: metTotals},
		{Date: "2026-02-10", Goal: goal, Totals: metTotals},
		{Date: "2026-02-10", Goal: goal},
		{Date: "2026-02-10", Goal: goal, Totals: metTotals},
	}

	state := service.NewDayState()
	if _, ok := state.Current(); ok {
		t.Fatalf("expected no current summary before first replace")
	}

	var mu sync.Mutex
	var fired []bool
	state.Subscribe(func(_ model.DaySummary, celebrate bool) {
		mu.Lock()
		fired = append(fired, celebrate)
		mu.Unlock()
	})

	for _, s := range summaries {
		state.Replace(s)
	}

	want := []bool{false, true, false, false, true}
	if len(fired) != len(want) {
		t.Fatalf("expected %d notifications, got %d", len(want), len(fired))
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Fatalf("notification %d: got %v, want %v", i, fired[i], want[i])
		}
	}

	current, ok := state.Current()
	if !ok || current.Totals != metTotals {
		t.Fatalf("expected last summary to be current, got %+v", current)
	}
}

func TestLoadDaySummaryReadsFreshAfterWrite(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	food := createFood(t, db, "Chicken", model.NutrientVector{CaloriesKcal: 165, ProteinG: 31})
	if _, err := service.CreateEntry(db, service.CreateEntryInput{Date: "2026-02-10", FoodID: food, AmountG: 200}); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := service.CreateCustomEntry(db, service.CreateCustomEntryInput{Date: "2026-02-10", Label: "Bar", Nutrients: model.NutrientVector{CaloriesKcal: 100}}); err != nil {
		t.Fatalf("create custom entry: %v", err)
	}

	state := service.NewDayState()
	summary, _, err := state.Refresh(db, "2026-02-10")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !approxEqual(summary.Totals.CaloriesKcal, 430) || !approxEqual(summary.Totals.ProteinG, 62) {
		t.Fatalf("unexpected totals: %+v", summary.Totals)
	}
	if len(summary.Entries) != 1 || len(summary.Customs) != 1 {
		t.Fatalf("unexpected summary contents: %+v", summary)
	}
	if v, ok := summary.Goal.Targets.Get(model.NutrientCalories); !ok || v != 2000 {
		t.Fatalf("expected default goal in summary, got %v", v)
	}

	if _, err := service.CreateCustomEntry(db, service.CreateCustomEntryInput{Date: "2026-02-10", Label: "Apple", Nutrients: model.NutrientVector{CaloriesKcal: 52}}); err != nil {
		t.Fatalf("create second custom entry: %v", err)
	}
	summary, _, err = state.Refresh(db, "2026-02-10")
	if err != nil {
		t.Fatalf("refresh after write: %v", err)
	}
	if !approxEqual(summary.Totals.CaloriesKcal, 482) {
		t.Fatalf("expected recompute after write to include new entry, got %v", summary.Totals.CaloriesKcal)
	}
}

func TestNewDayReport(t *testing.T) {
	t.Parallel()

	goal := service.DefaultGoal()
	goal.Targets.Set(model.NutrientSugar, nil)
	summary := model.DaySummary{Date: "2026-02-10", Goal: goal, Totals: model.NutrientVector{CaloriesKcal: 2500, SugarG: 12}}

	report := service.NewDayReport(summary, true)
	if len(report.Nutrients) != len(model.NutrientKeys) {
		t.Fatalf("expected one row per nutrient, got %d", len(report.Nutrients))
	}
	kcal := report.Nutrients[0]
	if !approxEqual(kcal.Ratio, 1.25) || kcal.Remaining == nil || *kcal.Remaining != -500 {
		t.Fatalf("unexpected calorie row: %+v", kcal)
	}
	if report.CaloriesLeft == nil || *report.CaloriesLeft != -500 {
		t.Fatalf("expected calories left of -500")
	}
	sugar := report.Nutrients[5]
	if sugar.Key != model.NutrientSugar || sugar.Goal != nil || sugar.Ratio != 0 {
		t.Fatalf("expected sugar row without goal, got %+v", sugar)
	}
	if !report.Celebrate || report.MacrosMet {
		t.Fatalf("unexpected flags: celebrate=%v macros_met=%v", report.Celebrate, report.MacrosMet)
	}
}
