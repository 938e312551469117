package nutri

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dddeeprog/NutrientTracker/internal/service"
)

var (
	exportDate string
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tracked data",
}

var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Export one day's entries as CSV (default file nutrition_<date>.csv, '-' for stdout)",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateOrToday(exportDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			summary, err := service.LoadDaySummary(sqldb, date)
			if err != nil {
				return err
			}
			if exportOut == "-" {
				return service.ExportDayCSV(cmd.OutOrStdout(), summary)
			}

			path := exportOut
			if path == "" {
				path = service.ExportFileName(date)
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			if err := service.ExportDayCSV(f, summary); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close export file: %w", err)
			}
			logger.Debug("csv exported", "path", path, "entries", len(summary.Entries), "customs", len(summary.Customs))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", len(summary.Entries)+len(summary.Customs), path)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportCSVCmd)
	exportCSVCmd.Flags().StringVar(&exportDate, "date", "", "Date YYYY-MM-DD (default today)")
	exportCSVCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output path, '-' for stdout")
}
