package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/dddeeprog/NutrientTracker/internal/model"
	"github.com/dddeeprog/NutrientTracker/internal/provider/openfoodfacts"
	"github.com/dddeeprog/NutrientTracker/internal/provider/usda"
)

const (
	LookupSourceUSDA          = "usda"
	LookupSourceOpenFoodFacts = "openfoodfacts"
)

var barcodePattern = regexp.MustCompile(`^\d{8,14}$`)

// RemoteFood is a catalog candidate fetched from a public nutrition database.
type RemoteFood struct {
	Source       string               `json:"source"`
	Barcode      string               `json:"barcode"`
	Name         string               `json:"name"`
	Brand        string               `json:"brand"`
	ServingSizeG float64              `json:"serving_size_g"`
	Per100g      model.NutrientVector `json:"per_100g"`
}

// LookupOptions carries the USDA key and optional test overrides for the remote clients.
type LookupOptions struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type lookupClient interface {
	LookupBarcode(ctx context.Context, barcode string) (RemoteFood, error)
}

type usdaLookup struct{ client *usda.Client }

func (a usdaLookup) LookupBarcode(ctx context.Context, barcode string) (RemoteFood, error) {
	food, _, err := a.client.LookupBarcode(ctx, barcode)
	if err != nil {
		return RemoteFood{}, err
	}
	return RemoteFood{
		Source:       LookupSourceUSDA,
		Barcode:      food.Barcode,
		Name:         food.Description,
		Brand:        food.Brand,
		ServingSizeG: food.ServingSizeG,
		Per100g:      food.Per100g,
	}, nil
}

type offLookup struct{ client *openfoodfacts.Client }

func (a offLookup) LookupBarcode(ctx context.Context, barcode string) (RemoteFood, error) {
	food, _, err := a.client.LookupBarcode(ctx, barcode)
	if err != nil {
		return RemoteFood{}, err
	}
	return fromOpenFoodFacts(food), nil
}

func fromOpenFoodFacts(food openfoodfacts.FoodLookup) RemoteFood {
	return RemoteFood{
		Source:       LookupSourceOpenFoodFacts,
		Barcode:      food.Code,
		Name:         food.Description,
		Brand:        food.Brand,
		ServingSizeG: food.ServingSizeG,
		Per100g:      food.Per100g,
	}
}

func NormalizeLookupSource(source string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "", LookupSourceOpenFoodFacts, "off":
		return LookupSourceOpenFoodFacts, nil
	case LookupSourceUSDA:
		return LookupSourceUSDA, nil
	}
	return "", fmt.Errorf("unsupported lookup source %q", source)
}

func LookupBarcode(ctx context.Context, source, barcode string, opts LookupOptions) (RemoteFood, error) {
	barcode = strings.TrimSpace(barcode)
	if !barcodePattern.MatchString(barcode) {
		return RemoteFood{}, fmt.Errorf("invalid barcode %q (expected 8-14 digits)", barcode)
	}
	source, err := NormalizeLookupSource(source)
	if err != nil {
		return RemoteFood{}, err
	}
	var client lookupClient
	switch source {
	case LookupSourceUSDA:
		client = usdaLookup{client: &usda.Client{APIKey: opts.APIKey, BaseURL: opts.BaseURL, HTTPClient: opts.HTTPClient}}
	default:
		client = offLookup{client: &openfoodfacts.Client{BaseURL: opts.BaseURL, HTTPClient: opts.HTTPClient}}
	}
	food, err := client.LookupBarcode(ctx, barcode)
	if err != nil {
		return RemoteFood{}, fmt.Errorf("lookup %s barcode %s: %w", source, barcode, err)
	}
	if food.Barcode == "" {
		food.Barcode = barcode
	}
	return food, nil
}

// SearchRemoteFoods queries Open Food Facts by free text.
func SearchRemoteFoods(ctx context.Context, query string, limit int, opts LookupOptions) ([]RemoteFood, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	client := &openfoodfacts.Client{BaseURL: opts.BaseURL, HTTPClient: opts.HTTPClient}
	items, _, err := client.SearchFoods(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search foods %q: %w", query, err)
	}
	out := make([]RemoteFood, 0, len(items))
	for _, item := range items {
		out = append(out, fromOpenFoodFacts(item))
	}
	return out, nil
}

// SaveRemoteFood adds a looked-up food to the catalog. name overrides the remote name.
func SaveRemoteFood(db *sql.DB, food RemoteFood, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = food.Name
		if food.Brand != "" {
			name = fmt.Sprintf("%s (%s)", food.Name, food.Brand)
		}
	}
	return CreateFood(db, CreateFoodInput{
		Name:         name,
		ServingSizeG: food.ServingSizeG,
		Per100g:      food.Per100g,
	})
}
