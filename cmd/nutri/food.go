package nutri

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dddeeprog/NutrientTracker/internal/service"
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Manage the food catalog (values per 100 g)",
}

var (
	foodName     string
	foodServingG float64
	foodPer100   nutrientFlags
	foodJSON     bool
)

var foodAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a catalog food with per-100 g nutrient values",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.CreateFoodInput{
			Name:         foodName,
			ServingSizeG: foodServingG,
			Per100g:      foodPer100.vector(),
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.CreateFood(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added food %d (%s)\n", id, in.Name)
			return nil
		})
	},
}

var foodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog foods",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			foods, err := service.ListFoods(sqldb)
			if err != nil {
				return err
			}
			if foodJSON {
				b, err := json.MarshalIndent(foods, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal foods json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSERVING_G\tKCAL/100G\tP\tC\tF")
			for _, f := range foods {
				fmt.Fprintf(tw, "%d\t%s\t%.0f\t%.1f\t%.1f\t%.1f\t%.1f\n", f.ID, f.Name, f.ServingSizeG,
					f.Per100g.CaloriesKcal, f.Per100g.ProteinG, f.Per100g.CarbsG, f.Per100g.FatG)
			}
			return tw.Flush()
		})
	},
}

var foodShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show every nutrient of a catalog food",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			food, err := service.ResolveFood(sqldb, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Food %d: %s\nServing: %.1f g\nPer 100 g:\n", food.ID, food.Name, food.ServingSizeG)
			printVector(cmd.OutOrStdout(), food.Per100g)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(foodCmd)
	foodCmd.AddCommand(foodAddCmd, foodListCmd, foodShowCmd)

	foodAddCmd.Flags().StringVar(&foodName, "name", "", "Food name (unique, case-sensitive)")
	foodAddCmd.Flags().Float64Var(&foodServingG, "serving", service.DefaultServingSizeG, "Serving size in grams")
	foodPer100 = addNutrientFlags(foodAddCmd.Flags(), " per 100 g")
	_ = foodAddCmd.MarkFlagRequired("name")

	foodListCmd.Flags().BoolVar(&foodJSON, "json", false, "Output JSON")
}
