package vision

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dddeeprog/NutrientTracker/internal/model"
)

type AIItem struct {
	Name             string               `json:"name"`
	EstimatedWeightG float64              `json:"estimated_weight_g"`
	Confidence       float64              `json:"confidence"`
	Notes            string               `json:"notes"`
	Nutrients        model.NutrientVector `json:"nutrients"`
}

// AIResult is the parsed model output. The zero value is the empty result.
type AIResult struct {
	Items          []AIItem `json:"items"`
	ServingContext *string  `json:"serving_context,omitempty"`
	ErrorMarginPct *float64 `json:"error_margin_pct,omitempty"`
	Advice         *string  `json:"advice,omitempty"`
}

func (r AIResult) Empty() bool {
	return len(r.Items) == 0 && r.ServingContext == nil && r.ErrorMarginPct == nil && r.Advice == nil
}

// flexFloat accepts a JSON number or a numeric string. Strings that do not
// parse as a number decode to zero.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	text := strings.TrimSpace(string(b))
	if text == "null" {
		return nil
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*f = flexFloat(v)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// flexString accepts a JSON string or a bare number, kept as its literal text.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	text := strings.TrimSpace(string(b))
	if text == "null" {
		return nil
	}
	if strings.HasPrefix(text, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

func (s *flexString) ptr() *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

func (f *flexFloat) ptr() *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

type wireNutrients struct {
	CaloriesKcal flexFloat `json:"calories_kcal"`
	ProteinG     flexFloat `json:"protein_g"`
	CarbsG       flexFloat `json:"carbs_g"`
	FatG         flexFloat `json:"fat_g"`
	FiberG       flexFloat `json:"fiber_g"`
	SugarG       flexFloat `json:"sugar_g"`
	SodiumMg     flexFloat `json:"sodium_mg"`
	CalciumMg    flexFloat `json:"calcium_mg"`
	IronMg       flexFloat `json:"iron_mg"`
	VitaminCMg   flexFloat `json:"vitamin_c_mg"`
}

func (w wireNutrients) vector() model.NutrientVector {
	return model.NutrientVector{
		CaloriesKcal: float64(w.CaloriesKcal),
		ProteinG:     float64(w.ProteinG),
		CarbsG:       float64(w.CarbsG),
		FatG:         float64(w.FatG),
		FiberG:       float64(w.FiberG),
		SugarG:       float64(w.SugarG),
		SodiumMg:     float64(w.SodiumMg),
		CalciumMg:    float64(w.CalciumMg),
		IronMg:       float64(w.IronMg),
		VitaminCMg:   float64(w.VitaminCMg),
	}
}

type wireItem struct {
	Name             flexString `json:"name"`
	EstimatedWeightG flexFloat  `json:"estimated_weight_g"`
	Confidence       flexFloat  `json:"confidence"`
	Notes            flexString `json:"notes"`
	wireNutrients
}

type wireResult struct {
	Items          []wireItem  `json:"items"`
	ServingContext *flexString `json:"serving_context"`
	ErrorMarginPct *flexFloat  `json:"error_margin_pct"`
	Advice         *flexString `json:"advice"`
}

// flatItem and flatResult are the model's own output shape: nutrient keys sit
// directly on each item.
type flatItem struct {
	Name             string  `json:"name"`
	EstimatedWeightG float64 `json:"estimated_weight_g"`
	Confidence       float64 `json:"confidence"`
	Notes            string  `json:"notes"`
	model.NutrientVector
}

type flatResult struct {
	Items          []flatItem `json:"items"`
	ServingContext *string    `json:"serving_context,omitempty"`
	ErrorMarginPct *float64   `json:"error_margin_pct,omitempty"`
	Advice         *string    `json:"advice,omitempty"`
}

// EncodeResult serializes r in the same flat shape ParseResponse reads.
func EncodeResult(r AIResult) ([]byte, error) {
	out := flatResult{
		Items:          make([]flatItem, 0, len(r.Items)),
		ServingContext: r.ServingContext,
		ErrorMarginPct: r.ErrorMarginPct,
		Advice:         r.Advice,
	}
	for _, it := range r.Items {
		out.Items = append(out.Items, flatItem{
			Name:             it.Name,
			EstimatedWeightG: it.EstimatedWeightG,
			Confidence:       it.Confidence,
			Notes:            it.Notes,
			NutrientVector:   it.Nutrients,
		})
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode ai result: %w", err)
	}
	return b, nil
}

// ParseResponse tries a strict decode first and then a repaired one. It never
// fails; unparseable text yields the empty result.
func ParseResponse(raw string) AIResult {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		if res, ok := decodeResult(text); ok {
			return res
		}
	}
	if res, ok := decodeResult(repairJSON(text)); ok {
		return res
	}
	return AIResult{Items: []AIItem{}}
}

// repairJSON keeps the span from the first '{' to the last '}', adding a brace
// at either end when the delimiter is missing.
func repairJSON(text string) string {
	start := strings.Index(text, "{")
	if start < 0 {
		text = "{" + text
		start = 0
	}
	body := text[start:]
	if end := strings.LastIndex(body, "}"); end >= 0 {
		return body[:end+1]
	}
	return body + "}"
}

func decodeResult(text string) (AIResult, bool) {
	var w wireResult
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return AIResult{}, false
	}
	out := AIResult{
		Items:          make([]AIItem, 0, len(w.Items)),
		ServingContext: w.ServingContext.ptr(),
		ErrorMarginPct: w.ErrorMarginPct.ptr(),
		Advice:         w.Advice.ptr(),
	}
	for _, it := range w.Items {
		out.Items = append(out.Items, AIItem{
			Name:             string(it.Name),
			EstimatedWeightG: float64(it.EstimatedWeightG),
			Confidence:       float64(it.Confidence),
			Notes:            string(it.Notes),
			Nutrients:        it.wireNutrients.vector(),
		})
	}
	return out, true
}
