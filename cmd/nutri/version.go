package nutri

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dddeeprog/NutrientTracker/internal/db"
)

// Set at build time with -ldflags "-X github.com/dddeeprog/NutrientTracker/cmd/nutri.version=...".
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version/build metadata",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "nutri %s\ncommit: %s\nbuilt: %s\nschema: v%d\ngo: %s\n",
			version, commit, buildDate, db.LatestVersion(), runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
