package assets

import (
	"net/http"

	"github.com/crucial707/asset-tracker/cmd/cli/client"
	"github.com/crucial707/asset-tracker/cmd/cli/output"
	"github.com/spf13/cobra"
)

// InitReport registers the status report command.
func InitReport(rootCmd *cobra.Command) {
	rootCmd.AddCommand(reportCmd())
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Count assets by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				StatusCounts []struct {
					Status string `json:"status"`
					Count  int    `json:"count"`
				} `json:"statusCounts"`
				Total int `json:"total"`
			}
			if err := client.Do(http.MethodGet, "/api/reports/assets", nil, &out, true); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output.JSON {
				return output.PrintJSON(w, out)
			}
			rows := make([][]interface{}, 0, len(out.StatusCounts)+1)
			for _, sc := range out.StatusCounts {
				rows = append(rows, []interface{}{sc.Status, sc.Count})
			}
			rows = append(rows, []interface{}{"total", out.Total})
			output.RenderTable(w, []string{"Status", "Count"}, rows)
			return nil
		},
	}
}
