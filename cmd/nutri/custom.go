package nutri

import (
	"database/sql"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dddeeprog/NutrientTracker/internal/service"
)

var customCmd = &cobra.Command{
	Use:   "custom",
	Short: "Log entries with their own absolute nutrient totals",
}

var (
	customLabel    string
	customDate     string
	customNotes    string
	customTotals   nutrientFlags
	customListDate string
)

var customAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Quick-add a custom entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateOrToday(customDate)
		if err != nil {
			return err
		}
		in := service.CreateCustomEntryInput{
			Date:      date,
			Label:     customLabel,
			Nutrients: customTotals.vector(),
			Notes:     customNotes,
			Source:    service.SourceManual,
		}
		return withDB(func(sqldb *sql.DB) error {
			return withDayState(cmd, sqldb, date, func() error {
				id, err := service.CreateCustomEntry(sqldb, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added custom entry %d: %s on %s\n", id, in.Label, date)
				return nil
			})
		})
	},
}

var customListCmd = &cobra.Command{
	Use:   "list",
	Short: "List custom entries for a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateOrToday(customListDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			customs, err := service.CustomEntriesByDate(sqldb, date)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tLABEL\tKCAL\tP\tC\tF\tSOURCE\tNOTES")
			for _, c := range customs {
				fmt.Fprintf(tw, "%d\t%s\t%.1f\t%.1f\t%.1f\t%.1f\t%s\t%s\n", c.ID, c.Label,
					c.Nutrients.CaloriesKcal, c.Nutrients.ProteinG, c.Nutrients.CarbsG, c.Nutrients.FatG, c.Source, c.Notes)
			}
			return tw.Flush()
		})
	},
}

var customDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a custom entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("custom entry id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteCustomEntry(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted custom entry %d\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(customCmd)
	customCmd.AddCommand(customAddCmd, customListCmd, customDeleteCmd)

	customAddCmd.Flags().StringVar(&customLabel, "label", "", "Label for the entry")
	customAddCmd.Flags().StringVar(&customDate, "date", "", "Date YYYY-MM-DD (default today)")
	customAddCmd.Flags().StringVar(&customNotes, "notes", "", "Optional notes")
	customTotals = addNutrientFlags(customAddCmd.Flags(), " total")
	_ = customAddCmd.MarkFlagRequired("label")

	customListCmd.Flags().StringVar(&customListDate, "date", "", "Date YYYY-MM-DD (default today)")
}
