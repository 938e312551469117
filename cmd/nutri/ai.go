package nutri

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dddeeprog/NutrientTracker/internal/provider/vision"
	"github.com/dddeeprog/NutrientTracker/internal/service"
)

var (
	aiProvider string
	aiNote     string
	aiAdd      bool
	aiSelect   string
	aiDate     string

	aiSessionsLimit int
)

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "Estimate meal nutrients from a photo",
}

var aiAnalyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Send a meal photo to the configured provider and optionally log the items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateOrToday(aiDate)
		if err != nil {
			return err
		}
		selection, err := parseSelection(aiSelect)
		if err != nil {
			return err
		}
		providerName := strings.TrimSpace(aiProvider)
		if providerName == "" {
			providerName = cfg.AI.DefaultProvider
		}
		if providerName == "" {
			return fmt.Errorf("--provider is required (or set ai.default_provider in config)")
		}

		return withDB(func(sqldb *sql.DB) error {
			setting, err := service.ProviderSetting(sqldb, providerName)
			if err != nil {
				return err
			}
			if setting == nil {
				return fmt.Errorf("provider %q is not configured; run `nutri provider set %s`", providerName, providerName)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open image: %w", err)
			}
			defer f.Close()

			client := vision.NewClient(vision.ClientOptions{
				ConnectTimeout: cfg.AI.ConnectTimeout,
				Timeout:        cfg.AI.Timeout,
			})
			defer client.CloseIdleConnections()
			analyzer := vision.NewAnalyzer(client, vision.ImageOptions{
				MaxEdge: cfg.Image.MaxEdge,
				Quality: cfg.Image.Quality,
			}, logger)

			analysis, err := analyzer.Analyze(cmd.Context(), vision.AnalyzeInput{
				Image:   f,
				Note:    aiNote,
				Setting: *setting,
			})
			if err != nil {
				return err
			}
			if _, err := service.RecordAnalysis(sqldb, analysis, aiNote); err != nil {
				return err
			}

			printAIResult(cmd, analysis.Result)
			if analysis.Result.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "No items recognized")
				return nil
			}
			if !aiAdd && len(selection) == 0 {
				return nil
			}
			if len(selection) == 0 {
				selection = service.AllIndices(analysis.Result)
			}
			drafts := service.AIDrafts(analysis.Result, selection, analysis.Provider, date)
			if len(drafts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No valid items selected")
				return nil
			}
			return withDayState(cmd, sqldb, date, func() error {
				ids, err := service.AddAIDrafts(sqldb, drafts)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d custom entries on %s\n", len(ids), date)
				return nil
			})
		})
	},
}

func printAIResult(cmd *cobra.Command, result vision.AIResult) {
	out := cmd.OutOrStdout()
	if len(result.Items) > 0 {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tNAME\tWEIGHT(g)\tCONF\tMACROS")
		for i, item := range result.Items {
			fmt.Fprintf(w, "%d\t%s\t%.0f\t%.2f\t%s\n", i, item.Name, item.EstimatedWeightG, item.Confidence, macroLine(item.Nutrients))
		}
		_ = w.Flush()
	}
	if result.ServingContext != nil {
		fmt.Fprintf(out, "Context: %s\n", *result.ServingContext)
	}
	if result.ErrorMarginPct != nil {
		fmt.Fprintf(out, "Error margin: ±%.0f%%\n", *result.ErrorMarginPct)
	}
	if result.Advice != nil {
		fmt.Fprintf(out, "Advice: %s\n", *result.Advice)
	}
}

var aiSessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent AI analyses",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ListAISessions(sqldb, aiSessionsLimit)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No AI sessions recorded")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CREATED\tPROVIDER\tMODEL\tPROMPT\tNOTE")
			for _, s := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Provider, s.Model, shortHash(s.PromptHash), s.Note)
			}
			return w.Flush()
		})
	},
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func init() {
	rootCmd.AddCommand(aiCmd)
	aiCmd.AddCommand(aiAnalyzeCmd, aiSessionsCmd)

	aiAnalyzeCmd.Flags().StringVar(&aiProvider, "provider", "", "Provider name (default ai.default_provider)")
	aiAnalyzeCmd.Flags().StringVar(&aiNote, "note", "", "Extra context for the model (e.g. portion hints)")
	aiAnalyzeCmd.Flags().BoolVar(&aiAdd, "add", false, "Log every recognized item as a custom entry")
	aiAnalyzeCmd.Flags().StringVar(&aiSelect, "select", "", "Comma-separated item indices to log (e.g. 0,2)")
	aiAnalyzeCmd.Flags().StringVar(&aiDate, "date", "", "Date for logged items YYYY-MM-DD (default today)")

	aiSessionsCmd.Flags().IntVar(&aiSessionsLimit, "limit", 20, "Maximum sessions to show")
}
