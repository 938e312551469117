package nutri

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dddeeprog/NutrientTracker/internal/service"
)

var (
	lookupSource string
	lookupAPIKey string
	lookupSave   bool
	lookupName   string
	lookupJSON   bool
	searchLimit  int
)

var foodLookupCmd = &cobra.Command{
	Use:   "lookup <barcode>",
	Short: "Fetch per-100 g values for a barcode from USDA or Open Food Facts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := service.NormalizeLookupSource(lookupSource)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			opts := service.LookupOptions{}
			if source == service.LookupSourceUSDA {
				key, err := resolveUSDAKey(sqldb)
				if err != nil {
					return err
				}
				opts.APIKey = key
			}
			food, err := service.LookupBarcode(cmd.Context(), source, args[0], opts)
			if err != nil {
				return err
			}
			if lookupJSON {
				b, err := json.MarshalIndent(food, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal lookup json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Source: %s\nBarcode: %s\nFood: %s\nBrand: %s\nServing: %.1f g\nPer 100 g:\n",
					food.Source, food.Barcode, food.Name, food.Brand, food.ServingSizeG)
				printVector(cmd.OutOrStdout(), food.Per100g)
			}
			if !lookupSave {
				return nil
			}
			id, err := service.SaveRemoteFood(sqldb, food, lookupName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved as food %d\n", id)
			return nil
		})
	},
}

var foodSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search Open Food Facts by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := service.SearchRemoteFoods(cmd.Context(), strings.Join(args, " "), searchLimit, service.LookupOptions{})
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "BARCODE\tNAME\tBRAND\tKCAL/100g\tP\tC\tF")
		for _, f := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.1f\t%.1f\t%.1f\n",
				f.Barcode, f.Name, f.Brand, f.Per100g.CaloriesKcal, f.Per100g.ProteinG, f.Per100g.CarbsG, f.Per100g.FatG)
		}
		return w.Flush()
	},
}

// resolveUSDAKey prefers --api-key, then the "usda" provider row.
func resolveUSDAKey(sqldb *sql.DB) (string, error) {
	if key := strings.TrimSpace(lookupAPIKey); key != "" {
		return key, nil
	}
	setting, err := service.ProviderSetting(sqldb, service.LookupSourceUSDA)
	if err != nil {
		return "", err
	}
	if setting == nil || setting.APIKey == "" {
		return "", fmt.Errorf("missing USDA API key: pass --api-key or run `nutri provider set usda --key <key>`")
	}
	return setting.APIKey, nil
}

func init() {
	foodCmd.AddCommand(foodLookupCmd, foodSearchCmd)

	foodLookupCmd.Flags().StringVar(&lookupSource, "source", service.LookupSourceOpenFoodFacts, "Lookup source: openfoodfacts|usda")
	foodLookupCmd.Flags().StringVar(&lookupAPIKey, "api-key", "", "USDA API key (default from `provider set usda`)")
	foodLookupCmd.Flags().BoolVar(&lookupSave, "save", false, "Add the result to the food catalog")
	foodLookupCmd.Flags().StringVar(&lookupName, "name", "", "Catalog name when saving (default \"<name> (<brand>)\")")
	foodLookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "Output JSON")

	foodSearchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum results")
}
