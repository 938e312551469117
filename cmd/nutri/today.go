package nutri

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/dddeeprog/NutrientTracker/internal/model"
	"github.com/dddeeprog/NutrientTracker/internal/service"
)

const celebrationLine = "All macro goals met. Nice work!"

var (
	todayDate  string
	todayJSON  bool
	todayWatch time.Duration
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show the day's nutrient totals and goal progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateOrToday(todayDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			state := service.NewDayState()
			out := cmd.OutOrStdout()
			state.Subscribe(func(summary model.DaySummary, celebrate bool) {
				if err := renderDay(out, service.NewDayReport(summary, celebrate), todayJSON); err != nil {
					logger.Warn("render day summary", "error", err)
				}
			})
			if _, _, err := state.Refresh(sqldb, date); err != nil {
				return err
			}
			if todayWatch <= 0 {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return watchDay(ctx, sqldb, state, date, todayWatch)
		})
	},
}

func watchDay(ctx context.Context, sqldb *sql.DB, state *service.DayState, date string, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, _, err := state.Refresh(sqldb, date); err != nil {
				return err
			}
		}
	}
}

func renderDay(w io.Writer, report service.DayReport, asJSON bool) error {
	if asJSON {
		b, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal day report json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	fmt.Fprintf(w, "Date: %s (%d entries, %d custom)\n", report.Date, report.EntryCount, report.CustomCount)
	for _, n := range report.Nutrients {
		if n.Goal == nil {
			fmt.Fprintf(w, "%-10s %9.1f %-4s (no goal)\n", n.Label, n.Total, n.Unit)
			continue
		}
		over := ""
		if n.Ratio > 1 {
			over = " over"
		}
		fmt.Fprintf(w, "%-10s %9.1f / %.1f %-4s %s %5.0f%%%s\n", n.Label, n.Total, *n.Goal, n.Unit,
			progressBar(service.ClampRatio(n.Ratio), 20), n.Ratio*100, over)
	}
	if report.CaloriesLeft != nil {
		fmt.Fprintf(w, "Remaining: %.1f kcal\n", *report.CaloriesLeft)
	}
	if report.Celebrate {
		fmt.Fprintln(w, celebrationLine)
	}
	return nil
}

// withDayState loads the day before and after write and prints the celebration
// line only when the write moved the day into the goals-met state.
func withDayState(cmd *cobra.Command, sqldb *sql.DB, date string, write func() error) error {
	state := service.NewDayState()
	if _, _, err := state.Refresh(sqldb, date); err != nil {
		return err
	}
	if err := write(); err != nil {
		return err
	}
	summary, celebrate, err := state.Refresh(sqldb, date)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Day total: %s\n", macroLine(summary.Totals))
	if celebrate {
		fmt.Fprintln(cmd.OutOrStdout(), celebrationLine)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(todayCmd)
	todayCmd.Flags().StringVar(&todayDate, "date", "", "Date YYYY-MM-DD (default today)")
	todayCmd.Flags().BoolVar(&todayJSON, "json", false, "Output JSON")
	todayCmd.Flags().DurationVar(&todayWatch, "watch", 0, "Re-read and re-render at this interval until interrupted (e.g. 30s)")
}
