package usda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dddeeprog/NutrientTracker/internal/model"
)

const defaultBaseURL = "https://api.nal.usda.gov"

// FoodLookup is a branded FoodData Central record. Per100g holds the label
// values, which FDC reports per 100 g for branded foods.
type FoodLookup struct {
	Barcode      string               `json:"barcode"`
	Description  string               `json:"description"`
	Brand        string               `json:"brand"`
	ServingSizeG float64              `json:"serving_size_g"`
	Per100g      model.NutrientVector `json:"per_100g"`
	FDCID        int64                `json:"fdc_id"`
}

type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func (c *Client) LookupBarcode(ctx context.Context, barcode string) (FoodLookup, []byte, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return FoodLookup{}, nil, fmt.Errorf("missing USDA API key")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}

	payload, err := json.Marshal(map[string]any{
		"query":    barcode,
		"dataType": []string{"Branded"},
		"pageSize": 20,
	})
	if err != nil {
		return FoodLookup{}, nil, fmt.Errorf("marshal USDA search payload: %w", err)
	}

	url := fmt.Sprintf("%s/fdc/v1/foods/search?api_key=%s", baseURL, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return FoodLookup{}, nil, fmt.Errorf("create USDA request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return FoodLookup{}, nil, fmt.Errorf("execute USDA request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FoodLookup{}, nil, fmt.Errorf("read USDA response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FoodLookup{}, body, fmt.Errorf("USDA request failed with status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return FoodLookup{}, body, fmt.Errorf("decode USDA response: %w", err)
	}

	food, ok := selectBarcodeMatch(parsed.Foods, barcode)
	if !ok {
		return FoodLookup{}, body, fmt.Errorf("no USDA branded food found for barcode %q", barcode)
	}

	out := FoodLookup{
		Barcode:     barcode,
		Description: strings.TrimSpace(food.Description),
		Brand:       strings.TrimSpace(food.BrandOwner),
		FDCID:       food.FDCID,
	}
	if unit := strings.ToLower(strings.TrimSpace(food.ServingSizeUnit)); food.ServingSize > 0 && (unit == "g" || unit == "grm") {
		out.ServingSizeG = food.ServingSize
	}
	for _, n := range food.FoodNutrients {
		if key, ok := nutrientKey(n.NutrientName, n.UnitName); ok {
			out.Per100g.Set(key, n.Value)
		}
	}
	return out, body, nil
}

// nutrientKey maps an FDC nutrient name to a tracked nutrient. Energy rows in kJ
// are skipped so they do not overwrite the kcal value.
func nutrientKey(name, unit string) (model.NutrientKey, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "energy":
		if strings.EqualFold(strings.TrimSpace(unit), "kj") {
			return "", false
		}
		return model.NutrientCalories, true
	case "protein":
		return model.NutrientProtein, true
	case "carbohydrate, by difference":
		return model.NutrientCarbs, true
	case "total lipid (fat)":
		return model.NutrientFat, true
	case "fiber, total dietary":
		return model.NutrientFiber, true
	case "sugars, total including nlea", "sugars, total":
		return model.NutrientSugar, true
	case "sodium, na":
		return model.NutrientSodium, true
	case "calcium, ca":
		return model.NutrientCalcium, true
	case "iron, fe":
		return model.NutrientIron, true
	case "vitamin c, total ascorbic acid":
		return model.NutrientVitaminC, true
	}
	return "", false
}

func selectBarcodeMatch(foods []usdaFood, barcode string) (usdaFood, bool) {
	for _, f := range foods {
		if strings.TrimSpace(f.GTINUPC) == barcode {
			return f, true
		}
	}
	if len(foods) > 0 {
		return foods[0], true
	}
	return usdaFood{}, false
}

type searchResponse struct {
	Foods []usdaFood `json:"foods"`
}

type usdaFood struct {
	FDCID           int64          `json:"fdcId"`
	Description     string         `json:"description"`
	BrandOwner      string         `json:"brandOwner"`
	GTINUPC         string         `json:"gtinUpc"`
	ServingSize     float64        `json:"servingSize"`
	ServingSizeUnit string         `json:"servingSizeUnit"`
	FoodNutrients   []usdaNutrient `json:"foodNutrients"`
}

type usdaNutrient struct {
	NutrientName string  `json:"nutrientName"`
	UnitName     string  `json:"unitName"`
	Value        float64 `json:"value"`
}
