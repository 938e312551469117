package nutri

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dddeeprog/NutrientTracker/internal/model"
	"github.com/dddeeprog/NutrientTracker/internal/service"
)

var (
	trendEnd      string
	trendDense    bool
	trendNutrient string
	trendJSON     bool
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show per-day custom entry totals for the seven days ending at --end",
	RunE: func(cmd *cobra.Command, args []string) error {
		end, err := dateOrToday(trendEnd)
		if err != nil {
			return err
		}
		key, ok := model.ParseNutrientKey(trendNutrient)
		if !ok {
			return fmt.Errorf("unknown nutrient %q", trendNutrient)
		}
		return withDB(func(sqldb *sql.DB) error {
			points, err := service.LoadWeeklyTrend(sqldb, end)
			if err != nil {
				return err
			}
			if trendDense {
				if points, err = service.FillTrendGaps(points, end); err != nil {
					return err
				}
			}
			if trendJSON {
				b, err := json.MarshalIndent(points, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal trend json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			if len(points) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No custom entries in range")
				return nil
			}

			meta, _ := model.MetaFor(key)
			peak := 0.0
			for _, p := range points {
				if v := p.Totals.Get(key); v > peak {
					peak = v
				}
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "DATE\t%s (%s)\t\n", meta.Label, meta.Unit)
			for _, p := range points {
				v := p.Totals.Get(key)
				ratio := 0.0
				if peak > 0 {
					ratio = v / peak
				}
				fmt.Fprintf(w, "%s\t%.1f\t%s\n", p.Date, v, progressBar(ratio, 20))
			}
			return w.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(trendCmd)
	trendCmd.Flags().StringVar(&trendEnd, "end", "", "Last day of the window YYYY-MM-DD (default today)")
	trendCmd.Flags().BoolVar(&trendDense, "dense", false, "Include days without entries as zero rows")
	trendCmd.Flags().StringVar(&trendNutrient, "nutrient", string(model.NutrientCalories), "Nutrient key to chart")
	trendCmd.Flags().BoolVar(&trendJSON, "json", false, "Output JSON with all nutrients")
}
