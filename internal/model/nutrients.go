package model

type NutrientKey string

const (
	NutrientCalories NutrientKey = "calories_kcal"
	NutrientProtein  NutrientKey = "protein_g"
	NutrientCarbs    NutrientKey = "carbs_g"
	NutrientFat      NutrientKey = "fat_g"
	NutrientFiber    NutrientKey = "fiber_g"
	NutrientSugar    NutrientKey = "sugar_g"
	NutrientSodium   NutrientKey = "sodium_mg"
	NutrientCalcium  NutrientKey = "calcium_mg"
	NutrientIron     NutrientKey = "iron_mg"
	NutrientVitaminC NutrientKey = "vitamin_c_mg"
)

// NutrientKeys is the fixed column order used by every table, export and report.
var NutrientKeys = []NutrientKey{
	NutrientCalories,
	NutrientProtein,
	NutrientCarbs,
	NutrientFat,
	NutrientFiber,
	NutrientSugar,
	NutrientSodium,
	NutrientCalcium,
	NutrientIron,
	NutrientVitaminC,
}

// MacroKeys are the nutrients that must all be met for a day to count as a goal day.
var MacroKeys = []NutrientKey{
	NutrientCalories,
	NutrientProtein,
	NutrientCarbs,
	NutrientFat,
}

type NutrientMeta struct {
	Key          NutrientKey
	Label        string
	Unit         string
	Per100Column string
}

var nutrientMeta = map[NutrientKey]NutrientMeta{
	NutrientCalories: {NutrientCalories, "Calories", "kcal", "calories_kcal_per_100g"},
	NutrientProtein:  {NutrientProtein, "Protein", "g", "protein_g_per_100g"},
	NutrientCarbs:    {NutrientCarbs, "Carbs", "g", "carbs_g_per_100g"},
	NutrientFat:      {NutrientFat, "Fat", "g", "fat_g_per_100g"},
	NutrientFiber:    {NutrientFiber, "Fiber", "g", "fiber_g_per_100g"},
	NutrientSugar:    {NutrientSugar, "Sugar", "g", "sugar_g_per_100g"},
	NutrientSodium:   {NutrientSodium, "Sodium", "mg", "sodium_mg_per_100g"},
	NutrientCalcium:  {NutrientCalcium, "Calcium", "mg", "calcium_mg_per_100g"},
	NutrientIron:     {NutrientIron, "Iron", "mg", "iron_mg_per_100g"},
	NutrientVitaminC: {NutrientVitaminC, "Vitamin C", "mg", "vitamin_c_mg_per_100g"},
}

func MetaFor(key NutrientKey) (NutrientMeta, bool) {
	m, ok := nutrientMeta[key]
	return m, ok
}

func ParseNutrientKey(value string) (NutrientKey, bool) {
	key := NutrientKey(value)
	_, ok := nutrientMeta[key]
	return key, ok
}

// NutrientVector is the ten-field nutrient record shared by every nutrient-bearing
// entity. Whether the values are per 100 g or absolute totals is decided by the
// owning entity.
type NutrientVector struct {
	CaloriesKcal float64 `json:"calories_kcal"`
	ProteinG     float64 `json:"protein_g"`
	CarbsG       float64 `json:"carbs_g"`
	FatG         float64 `json:"fat_g"`
	FiberG       float64 `json:"fiber_g"`
	SugarG       float64 `json:"sugar_g"`
	SodiumMg     float64 `json:"sodium_mg"`
	CalciumMg    float64 `json:"calcium_mg"`
	IronMg       float64 `json:"iron_mg"`
	VitaminCMg   float64 `json:"vitamin_c_mg"`
}

func (v NutrientVector) Add(o NutrientVector) NutrientVector {
	return NutrientVector{
		CaloriesKcal: v.CaloriesKcal + o.CaloriesKcal,
		ProteinG:     v.ProteinG + o.ProteinG,
		CarbsG:       v.CarbsG + o.CarbsG,
		FatG:         v.FatG + o.FatG,
		FiberG:       v.FiberG + o.FiberG,
		SugarG:       v.SugarG + o.SugarG,
		SodiumMg:     v.SodiumMg + o.SodiumMg,
		CalciumMg:    v.CalciumMg + o.CalciumMg,
		IronMg:       v.IronMg + o.IronMg,
		VitaminCMg:   v.VitaminCMg + o.VitaminCMg,
	}
}

func (v NutrientVector) Scale(factor float64) NutrientVector {
	return NutrientVector{
		CaloriesKcal: v.CaloriesKcal * factor,
		ProteinG:     v.ProteinG * factor,
		CarbsG:       v.CarbsG * factor,
		FatG:         v.FatG * factor,
		FiberG:       v.FiberG * factor,
		SugarG:       v.SugarG * factor,
		SodiumMg:     v.SodiumMg * factor,
		CalciumMg:    v.CalciumMg * factor,
		IronMg:       v.IronMg * factor,
		VitaminCMg:   v.VitaminCMg * factor,
	}
}

func (v NutrientVector) Get(key NutrientKey) float64 {
	switch key {
	case NutrientCalories:
		return v.CaloriesKcal
	case NutrientProtein:
		return v.ProteinG
	case NutrientCarbs:
		return v.CarbsG
	case NutrientFat:
		return v.FatG
	case NutrientFiber:
		return v.FiberG
	case NutrientSugar:
		return v.SugarG
	case NutrientSodium:
		return v.SodiumMg
	case NutrientCalcium:
		return v.CalciumMg
	case NutrientIron:
		return v.IronMg
	case NutrientVitaminC:
		return v.VitaminCMg
	}
	return 0
}

func (v *NutrientVector) Set(key NutrientKey, value float64) {
	switch key {
	case NutrientCalories:
		v.CaloriesKcal = value
	case NutrientProtein:
		v.ProteinG = value
	case NutrientCarbs:
		v.CarbsG = value
	case NutrientFat:
		v.FatG = value
	case NutrientFiber:
		v.FiberG = value
	case NutrientSugar:
		v.SugarG = value
	case NutrientSodium:
		v.SodiumMg = value
	case NutrientCalcium:
		v.CalciumMg = value
	case NutrientIron:
		v.IronMg = value
	case NutrientVitaminC:
		v.VitaminCMg = value
	}
}

// Values returns the fields in NutrientKeys order.
func (v NutrientVector) Values() []float64 {
	out := make([]float64, 0, len(NutrientKeys))
	for _, k := range NutrientKeys {
		out = append(out, v.Get(k))
	}
	return out
}

// Pointers exposes each field for database/sql Scan in NutrientKeys order.
func (v *NutrientVector) Pointers() []any {
	return []any{
		&v.CaloriesKcal,
		&v.ProteinG,
		&v.CarbsG,
		&v.FatG,
		&v.FiberG,
		&v.SugarG,
		&v.SodiumMg,
		&v.CalciumMg,
		&v.IronMg,
		&v.VitaminCMg,
	}
}

// Args returns the fields as query arguments in NutrientKeys order.
func (v NutrientVector) Args() []any {
	out := make([]any, 0, len(NutrientKeys))
	for _, val := range v.Values() {
		out = append(out, val)
	}
	return out
}
