package nutri

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dddeeprog/NutrientTracker/internal/app"
	"github.com/dddeeprog/NutrientTracker/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize local nutri database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		if err := app.EnsureDBDir(path); err != nil {
			return err
		}

		sqldb, err := db.Open(path)
		if err != nil {
			return err
		}
		defer sqldb.Close()

		if err := db.ApplyMigrations(sqldb); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized nutri database at %s (schema v%d)\n", path, db.LatestVersion())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// resolveDBPath prefers --db, then the configured path, then the per-user default.
func resolveDBPath() (string, error) {
	if strings.TrimSpace(dbPath) != "" {
		return dbPath, nil
	}
	if cfg != nil && strings.TrimSpace(cfg.DBPath) != "" {
		return cfg.DBPath, nil
	}
	return app.DefaultDBPath()
}
