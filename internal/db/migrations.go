package db

import (
	"database/sql"
	"errors"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS foods (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  serving_size_g REAL NOT NULL DEFAULT 100,
  calories_kcal_per_100g REAL NOT NULL DEFAULT 0,
  protein_g_per_100g REAL NOT NULL DEFAULT 0,
  carbs_g_per_100g REAL NOT NULL DEFAULT 0,
  fat_g_per_100g REAL NOT NULL DEFAULT 0,
  fiber_g_per_100g REAL NOT NULL DEFAULT 0,
  sugar_g_per_100g REAL NOT NULL DEFAULT 0,
  sodium_mg_per_100g REAL NOT NULL DEFAULT 0,
  calcium_mg_per_100g REAL NOT NULL DEFAULT 0,
  iron_mg_per_100g REAL NOT NULL DEFAULT 0,
  vitamin_c_mg_per_100g REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS entries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  eat_date TEXT NOT NULL,
  food_id INTEGER NOT NULL,
  amount_g REAL NOT NULL,
  notes TEXT,
  created_at DATETIME NOT NULL,
  FOREIGN KEY(food_id) REFERENCES foods(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_entries_food_id ON entries(food_id);
CREATE INDEX IF NOT EXISTS idx_entries_eat_date ON entries(eat_date);

CREATE TABLE IF NOT EXISTS goals (
  id INTEGER PRIMARY KEY,
  calories_kcal REAL,
  protein_g REAL,
  carbs_g REAL,
  fat_g REAL,
  fiber_g REAL,
  sugar_g REAL,
  sodium_mg REAL,
  calcium_mg REAL,
  iron_mg REAL,
  vitamin_c_mg REAL
);

CREATE TABLE IF NOT EXISTS custom_entries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  eat_date TEXT NOT NULL,
  label TEXT NOT NULL,
  calories_kcal REAL NOT NULL DEFAULT 0,
  protein_g REAL NOT NULL DEFAULT 0,
  carbs_g REAL NOT NULL DEFAULT 0,
  fat_g REAL NOT NULL DEFAULT 0,
  fiber_g REAL NOT NULL DEFAULT 0,
  sugar_g REAL NOT NULL DEFAULT 0,
  sodium_mg REAL NOT NULL DEFAULT 0,
  calcium_mg REAL NOT NULL DEFAULT 0,
  iron_mg REAL NOT NULL DEFAULT 0,
  vitamin_c_mg REAL NOT NULL DEFAULT 0,
  notes TEXT,
  source TEXT,
  created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_custom_entries_eat_date ON custom_entries(eat_date);
`,
	},
	{
		version: 2,
		name:    "api_settings",
		sql: `
CREATE TABLE IF NOT EXISTS api_settings (
  provider TEXT PRIMARY KEY,
  api_key TEXT,
  model TEXT,
  endpoint TEXT
);
`,
	},
	{
		version: 3,
		name:    "ai_sessions",
		sql: `
CREATE TABLE IF NOT EXISTS ai_sessions (
  id TEXT PRIMARY KEY,
  created_at DATETIME NOT NULL,
  provider TEXT,
  model TEXT,
  prompt_hash TEXT,
  result_json TEXT,
  note TEXT
);

CREATE INDEX IF NOT EXISTS idx_ai_sessions_created_at ON ai_sessions(created_at);
`,
	},
}

func ApplyMigrations(sqldb *sql.DB) error {
	if _, err := sqldb.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := sqldb.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := sqldb.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}
	return nil
}

// LatestVersion reports the highest migration version known to this binary.
func LatestVersion() int {
	return migrations[len(migrations)-1].version
}
