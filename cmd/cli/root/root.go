package root

import (
	"github.com/crucial707/asset-tracker/cmd/cli/output"
	"github.com/spf13/cobra"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:           "assetctl",
	Short:         "Asset tracker CLI",
	Long:          "Command line interface for the asset tracker API. Set ASSET_API_URL to point at a server.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&output.JSON, "json", false, "print raw JSON instead of tables")
}

// Optional helper to return the RootCmd
func GetRoot() *cobra.Command {
	return RootCmd
}
