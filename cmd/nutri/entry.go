package nutri

import (
	"database/sql"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dddeeprog/NutrientTracker/internal/service"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Log catalog foods by weight",
}

var (
	entryFood     string
	entryGrams    float64
	entryServings float64
	entryDate     string
	entryNotes    string
	entryListDate string
)

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log an amount of a catalog food",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateOrToday(entryDate)
		if err != nil {
			return err
		}
		gramsSet := cmd.Flags().Changed("grams")
		servingsSet := cmd.Flags().Changed("servings")
		if gramsSet == servingsSet {
			return fmt.Errorf("exactly one of --grams or --servings is required")
		}
		return withDB(func(sqldb *sql.DB) error {
			food, err := service.ResolveFood(sqldb, entryFood)
			if err != nil {
				return err
			}
			amount := entryGrams
			if servingsSet {
				amount = service.AmountFromServings(food, entryServings)
			}
			return withDayState(cmd, sqldb, date, func() error {
				id, err := service.CreateEntry(sqldb, service.CreateEntryInput{
					Date:    date,
					FoodID:  food.ID,
					AmountG: amount,
					Notes:   entryNotes,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added entry %d: %.1f g %s on %s\n", id, amount, food.Name, date)
				return nil
			})
		})
	},
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entries for a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateOrToday(entryListDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			entries, err := service.EntriesByDate(sqldb, date)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tFOOD\tGRAMS\tKCAL\tP\tC\tF\tNOTES")
			for _, e := range entries {
				c := service.EntryContribution(e)
				fmt.Fprintf(tw, "%d\t%s\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%s\n", e.Entry.ID, e.Food.Name, e.Entry.AmountG,
					c.CaloriesKcal, c.ProteinG, c.CarbsG, c.FatG, e.Entry.Notes)
			}
			return tw.Flush()
		})
	},
}

var entryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a catalog entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("entry id", args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteEntry(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %d\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(entryCmd)
	entryCmd.AddCommand(entryAddCmd, entryListCmd, entryDeleteCmd)

	entryAddCmd.Flags().StringVar(&entryFood, "food", "", "Catalog food id or exact name")
	entryAddCmd.Flags().Float64Var(&entryGrams, "grams", 0, "Amount eaten in grams")
	entryAddCmd.Flags().Float64Var(&entryServings, "servings", 0, "Amount eaten in servings of the food")
	entryAddCmd.Flags().StringVar(&entryDate, "date", "", "Date YYYY-MM-DD (default today)")
	entryAddCmd.Flags().StringVar(&entryNotes, "notes", "", "Optional notes")
	_ = entryAddCmd.MarkFlagRequired("food")

	entryListCmd.Flags().StringVar(&entryListDate, "date", "", "Date YYYY-MM-DD (default today)")
}
