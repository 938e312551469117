package nutri

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dddeeprog/NutrientTracker/internal/app"
)

var (
	dbPath     string
	configPath string

	cfg    *app.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "nutri",
	Short: "nutri tracks foods and nutrients from your terminal",
	Long: "nutri is a local-first nutrient tracker: a food catalog with per-100 g values, " +
		"daily entries, custom and AI-estimated entries, goals for ten nutrients, weekly trends and CSV export.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := app.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = app.NewLogger(cfg.Log)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default $NUTRI_CONFIG or <user config dir>/nutri/config.yaml)")
}
