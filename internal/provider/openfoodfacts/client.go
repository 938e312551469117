package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dddeeprog/NutrientTracker/internal/model"
)

const (
	defaultBaseURL = "https://world.openfoodfacts.org"
	userAgent      = "nutri/1.0 (+https://github.com/dddeeprog/NutrientTracker)"
)

type FoodLookup struct {
	Code         string               `json:"code"`
	Description  string               `json:"description"`
	Brand        string               `json:"brand"`
	ServingSizeG float64              `json:"serving_size_g"`
	Per100g      model.NutrientVector `json:"per_100g"`
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func (c *Client) LookupBarcode(ctx context.Context, barcode string) (FoodLookup, []byte, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/v2/product/%s.json", url.PathEscape(barcode)))
	if err != nil {
		return FoodLookup{}, body, err
	}

	var parsed offResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return FoodLookup{}, body, fmt.Errorf("decode openfoodfacts response: %w", err)
	}
	if parsed.Status != 1 || strings.TrimSpace(parsed.Product.ProductName) == "" {
		return FoodLookup{}, body, fmt.Errorf("no openfoodfacts product found for barcode %q", barcode)
	}
	out := toLookup(parsed.Product)
	if out.Code == "" {
		out.Code = barcode
	}
	return out, body, nil
}

func (c *Client) SearchFoods(ctx context.Context, query string, limit int) ([]FoodLookup, []byte, error) {
	if limit <= 0 {
		limit = 10
	}
	path := fmt.Sprintf("/cgi/search.pl?search_terms=%s&search_simple=1&action=process&json=1&page_size=%d",
		url.QueryEscape(strings.TrimSpace(query)),
		limit,
	)
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, body, err
	}
	var parsed offSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, body, fmt.Errorf("decode openfoodfacts search response: %w", err)
	}
	out := make([]FoodLookup, 0, len(parsed.Products))
	for _, p := range parsed.Products {
		if strings.TrimSpace(p.ProductName) == "" {
			continue
		}
		out = append(out, toLookup(p))
	}
	if len(out) == 0 {
		return nil, body, fmt.Errorf("no openfoodfacts product found for query %q", query)
	}
	return out, body, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create openfoodfacts request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute openfoodfacts request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read openfoodfacts response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, fmt.Errorf("openfoodfacts request failed with status %d", resp.StatusCode)
	}
	return body, nil
}

// nutriments reports *_100g values in grams except energy-kcal; mineral and
// vitamin keys are scaled to mg here.
var nutrimentKeys = []struct {
	key   model.NutrientKey
	field string
	scale float64
}{
	{model.NutrientCalories, "energy-kcal", 1},
	{model.NutrientProtein, "proteins", 1},
	{model.NutrientCarbs, "carbohydrates", 1},
	{model.NutrientFat, "fat", 1},
	{model.NutrientFiber, "fiber", 1},
	{model.NutrientSugar, "sugars", 1},
	{model.NutrientSodium, "sodium", 1000},
	{model.NutrientCalcium, "calcium", 1000},
	{model.NutrientIron, "iron", 1000},
	{model.NutrientVitaminC, "vitamin-c", 1000},
}

func toLookup(p offProduct) FoodLookup {
	out := FoodLookup{
		Code:         strings.TrimSpace(p.Code),
		Description:  strings.TrimSpace(p.ProductName),
		Brand:        strings.TrimSpace(p.Brands),
		ServingSizeG: servingGrams(p),
	}
	for _, n := range nutrimentKeys {
		if v, ok := parseFloatAny(p.Nutriments[n.field+"_100g"]); ok {
			out.Per100g.Set(n.key, v*n.scale)
		}
	}
	return out
}

func parseFloatAny(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// servingGrams returns 0 when the serving is not expressed in grams.
func servingGrams(p offProduct) float64 {
	if p.ServingQuantity > 0 {
		unit := strings.ToLower(strings.TrimSpace(p.ServingQuantityUnit))
		if unit == "" || unit == "g" {
			return p.ServingQuantity
		}
		return 0
	}
	parts := strings.Fields(strings.TrimSpace(p.ServingSize))
	if len(parts) >= 2 && strings.EqualFold(parts[1], "g") {
		if val, err := strconv.ParseFloat(strings.ReplaceAll(parts[0], ",", ""), 64); err == nil && val > 0 {
			return val
		}
	}
	return 0
}

type offResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type offProduct struct {
	Code                string         `json:"code"`
	ProductName         string         `json:"product_name"`
	Brands              string         `json:"brands"`
	ServingSize         string         `json:"serving_size"`
	ServingQuantity     float64        `json:"serving_quantity"`
	ServingQuantityUnit string         `json:"serving_quantity_unit"`
	Nutriments          map[string]any `json:"nutriments"`
}

type offSearchResponse struct {
	Products []offProduct `json:"products"`
}
