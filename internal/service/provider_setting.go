package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dddeeprog/NutrientTracker/internal/model"
)

// UpsertProviderSetting stores the key, model and endpoint for a provider, replacing any previous values.
func UpsertProviderSetting(db *sql.DB, s model.ProviderSetting) error {
	s.Provider = strings.TrimSpace(s.Provider)
	if s.Provider == "" {
		return fmt.Errorf("provider name is required")
	}
	_, err := db.Exec(`
INSERT INTO api_settings(provider, api_key, model, endpoint)
VALUES(?, ?, ?, ?)
ON CONFLICT(provider) DO UPDATE SET
  api_key=excluded.api_key,
  model=excluded.model,
  endpoint=excluded.endpoint
`, s.Provider, strings.TrimSpace(s.APIKey), strings.TrimSpace(s.Model), strings.TrimSpace(s.Endpoint))
	if err != nil {
		return fmt.Errorf("upsert provider %q: %w", s.Provider, err)
	}
	return nil
}

func ProviderSetting(db *sql.DB, provider string) (*model.ProviderSetting, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return nil, fmt.Errorf("provider name is required")
	}
	var s model.ProviderSetting
	err := db.QueryRow(`
SELECT provider, IFNULL(api_key, ''), IFNULL(model, ''), IFNULL(endpoint, '')
FROM api_settings
WHERE provider = ?
`, provider).Scan(&s.Provider, &s.APIKey, &s.Model, &s.Endpoint)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get provider %q: %w", provider, err)
	}
	return &s, nil
}

func ListProviderSettings(db *sql.DB) ([]model.ProviderSetting, error) {
	rows, err := db.Query(`
SELECT provider, IFNULL(api_key, ''), IFNULL(model, ''), IFNULL(endpoint, '')
FROM api_settings
ORDER BY provider ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()
	out := make([]model.ProviderSetting, 0)
	for rows.Next() {
		var s model.ProviderSetting
		if err := rows.Scan(&s.Provider, &s.APIKey, &s.Model, &s.Endpoint); err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate providers: %w", err)
	}
	return out, nil
}

func DeleteProviderSetting(db *sql.DB, provider string) error {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return fmt.Errorf("provider name is required")
	}
	res, err := db.Exec(`DELETE FROM api_settings WHERE provider = ?`, provider)
	if err != nil {
		return fmt.Errorf("delete provider %q: %w", provider, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("provider %q: %w", provider, ErrNotFound)
	}
	return nil
}

// MaskAPIKey keeps the last four characters of a key for display.
func MaskAPIKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
