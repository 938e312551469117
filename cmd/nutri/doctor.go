package nutri

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dddeeprog/NutrientTracker/internal/service"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run data integrity checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.RunDoctor(sqldb, doctorFix)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Orphan entries: %d\n", report.OrphanEntries)
			fmt.Fprintf(cmd.OutOrStdout(), "Invalid dates: %d\n", report.InvalidDates)
			fmt.Fprintf(cmd.OutOrStdout(), "Negative nutrient rows: %d\n", report.NegativeValues)
			fmt.Fprintf(cmd.OutOrStdout(), "Zero or negative amounts (informational): %d\n", report.NonPositiveAmount)
			if doctorFix {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed orphan entries: %d\n", report.RemovedOrphans)
				// Re-check so the exit status reflects the final state.
				report, err = service.RunDoctor(sqldb, false)
				if err != nil {
					return err
				}
			}
			if !report.Clean() {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Remove entries whose food no longer exists")
}
