package nutri

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dddeeprog/NutrientTracker/internal/model"
	"github.com/dddeeprog/NutrientTracker/internal/service"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage daily nutrient goals",
}

var (
	goalTargets nutrientFlags
	goalClear   string
	goalReset   bool
	goalJSON    bool
)

var goalSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change goal targets; flags not given keep their current value",
	RunE: func(cmd *cobra.Command, args []string) error {
		unset, err := parseNutrientList(goalClear)
		if err != nil {
			return err
		}
		changed := goalTargets.changed(cmd)
		if len(changed) == 0 && len(unset) == 0 && !goalReset {
			return fmt.Errorf("nothing to change: pass nutrient flags, --clear or --reset")
		}
		return withDB(func(sqldb *sql.DB) error {
			goal, err := service.GetGoal(sqldb)
			if err != nil {
				return err
			}
			if goalReset {
				goal = service.DefaultGoal()
			}
			for _, key := range changed {
				goal.Targets.Set(key, goalTargets[key])
			}
			for _, key := range unset {
				goal.Targets.Set(key, nil)
			}
			if err := service.SaveGoal(sqldb, goal); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved goal")
			printGoal(cmd, goal)
			return nil
		})
	},
}

var goalShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show goal targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			goal, err := service.GetGoal(sqldb)
			if err != nil {
				return err
			}
			if goalJSON {
				b, err := json.MarshalIndent(goal.Targets, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal goal json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			printGoal(cmd, goal)
			return nil
		})
	},
}

func printGoal(cmd *cobra.Command, goal model.Goal) {
	for _, key := range model.NutrientKeys {
		meta, _ := model.MetaFor(key)
		if v, ok := goal.Targets.Get(key); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %9.1f %s\n", meta.Label, v, meta.Unit)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-10s %9s\n", meta.Label, "unset")
	}
}

func parseNutrientList(value string) ([]model.NutrientKey, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	out := make([]model.NutrientKey, 0)
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, ok := model.ParseNutrientKey(part)
		if !ok {
			return nil, fmt.Errorf("unknown nutrient %q", part)
		}
		out = append(out, key)
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(goalCmd)
	goalCmd.AddCommand(goalSetCmd, goalShowCmd)

	goalTargets = addNutrientFlags(goalSetCmd.Flags(), " daily target")
	goalSetCmd.Flags().StringVar(&goalClear, "clear", "", "Comma-separated nutrient keys to unset (e.g. sugar_g,sodium_mg)")
	goalSetCmd.Flags().BoolVar(&goalReset, "reset", false, "Start from the default goal before applying changes")

	goalShowCmd.Flags().BoolVar(&goalJSON, "json", false, "Output JSON")
}
