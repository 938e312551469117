package nutri

import (
	"database/sql"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dddeeprog/NutrientTracker/internal/model"
	"github.com/dddeeprog/NutrientTracker/internal/service"
)

var (
	providerKey      string
	providerModel    string
	providerEndpoint string
)

var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Manage AI provider credentials",
}

var providerSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Create or replace a provider's key, model and endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return fmt.Errorf("provider name is required")
		}
		return withDB(func(sqldb *sql.DB) error {
			setting := model.ProviderSetting{
				Provider: name,
				APIKey:   providerKey,
				Model:    providerModel,
				Endpoint: providerEndpoint,
			}
			if existing, err := service.ProviderSetting(sqldb, name); err != nil {
				return err
			} else if existing != nil {
				if !cmd.Flags().Changed("key") {
					setting.APIKey = existing.APIKey
				}
				if !cmd.Flags().Changed("model") {
					setting.Model = existing.Model
				}
				if !cmd.Flags().Changed("endpoint") {
					setting.Endpoint = existing.Endpoint
				}
			}
			if err := service.UpsertProviderSetting(sqldb, setting); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved provider %s (key %s)\n", name, service.MaskAPIKey(setting.APIKey))
			return nil
		})
	},
}

var providerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List providers with masked keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ListProviderSettings(sqldb)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No providers configured")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tMODEL\tENDPOINT\tKEY")
			for _, s := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Provider, s.Model, s.Endpoint, service.MaskAPIKey(s.APIKey))
			}
			return w.Flush()
		})
	},
}

var providerDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteProviderSetting(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted provider %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(providerCmd)
	providerCmd.AddCommand(providerSetCmd, providerListCmd, providerDeleteCmd)

	providerSetCmd.Flags().StringVar(&providerKey, "key", "", "API key")
	providerSetCmd.Flags().StringVar(&providerModel, "model", "", "Model name (e.g. gpt-4o-mini)")
	providerSetCmd.Flags().StringVar(&providerEndpoint, "endpoint", "", "Chat completions URL")
}
