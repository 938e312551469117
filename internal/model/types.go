package model

import "time"

const GoalID = 1

type Food struct {
	ID           int64
	Name         string
	ServingSizeG float64
	Per100g      NutrientVector
}

type Entry struct {
	ID        int64
	EatDate   string
	FoodID    int64
	AmountG   float64
	Notes     string
	CreatedAt time.Time
}

type EntryWithFood struct {
	Entry Entry
	Food  Food
}

type CustomEntry struct {
	ID        int64
	EatDate   string
	Label     string
	Nutrients NutrientVector
	Notes     string
	Source    string
	CreatedAt time.Time
}

// GoalTargets holds one optional daily target per nutrient. A nil target means no
// goal is set for that nutrient, which is not the same as a target of zero.
type GoalTargets struct {
	CaloriesKcal *float64 `json:"calories_kcal"`
	ProteinG     *float64 `json:"protein_g"`
	CarbsG       *float64 `json:"carbs_g"`
	FatG         *float64 `json:"fat_g"`
	FiberG       *float64 `json:"fiber_g"`
	SugarG       *float64 `json:"sugar_g"`
	SodiumMg     *float64 `json:"sodium_mg"`
	CalciumMg    *float64 `json:"calcium_mg"`
	IronMg       *float64 `json:"iron_mg"`
	VitaminCMg   *float64 `json:"vitamin_c_mg"`
}

func (g GoalTargets) Get(key NutrientKey) (float64, bool) {
	p := g.ptr(key)
	if p == nil || *p == nil {
		return 0, false
	}
	return **p, true
}

func (g *GoalTargets) Set(key NutrientKey, value *float64) {
	p := g.ptr(key)
	if p == nil {
		return
	}
	if value == nil {
		*p = nil
		return
	}
	v := *value
	*p = &v
}

func (g *GoalTargets) ptr(key NutrientKey) **float64 {
	switch key {
	case NutrientCalories:
		return &g.CaloriesKcal
	case NutrientProtein:
		return &g.ProteinG
	case NutrientCarbs:
		return &g.CarbsG
	case NutrientFat:
		return &g.FatG
	case NutrientFiber:
		return &g.FiberG
	case NutrientSugar:
		return &g.SugarG
	case NutrientSodium:
		return &g.SodiumMg
	case NutrientCalcium:
		return &g.CalciumMg
	case NutrientIron:
		return &g.IronMg
	case NutrientVitaminC:
		return &g.VitaminCMg
	}
	return nil
}

type Goal struct {
	ID      int64
	Targets GoalTargets
}

type ProviderSetting struct {
	Provider string
	APIKey   string
	Model    string
	Endpoint string
}

type AISession struct {
	ID         string
	CreatedAt  time.Time
	Provider   string
	Model      string
	PromptHash string
	ResultJSON string
	Note       string
}

// DaySummary is derived on demand from the goal and the day's entries; it is never stored.
type DaySummary struct {
	Date    string
	Goal    Goal
	Entries []EntryWithFood
	Customs []CustomEntry
	Totals  NutrientVector
}
