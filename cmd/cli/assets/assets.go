package assets

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/crucial707/asset-tracker/cmd/cli/client"
	"github.com/crucial707/asset-tracker/cmd/cli/output"
	"github.com/crucial707/asset-tracker/internal/models"
	"github.com/crucial707/asset-tracker/internal/pagination"
	"github.com/spf13/cobra"
)

// ==========================
// Init Assets
// ==========================
func InitAssets(rootCmd *cobra.Command) {

	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "Manage assets",
	}

	assetsCmd.AddCommand(
		listAssetsCmd(),
		getAssetCmd(),
		createAssetCmd(),
		updateAssetCmd(),
		deleteAssetCmd(),
		assignAssetCmd(),
		unassignAssetCmd(),
	)

	rootCmd.AddCommand(assetsCmd)
}

type assetResponse struct {
	Data models.Asset `json:"data"`
}

func assigneeName(a models.Asset) string {
	if a.Assignee == nil {
		return "-"
	}
	return a.Assignee.Name
}

func printAsset(w io.Writer, a models.Asset) error {
	if output.JSON {
		return output.PrintJSON(w, a)
	}
	output.RenderTable(w, []string{"Field", "Value"}, [][]interface{}{
		{"ID", a.ID},
		{"Tag", output.Deref(a.AssetTag)},
		{"Name", a.Name},
		{"Category", a.Category},
		{"Manufacturer", output.Deref(a.Manufacturer)},
		{"Model", output.Deref(a.Model)},
		{"Serial", output.Deref(a.SerialNumber)},
		{"Location", output.Deref(a.Location)},
		{"Purchase date", output.Deref(a.PurchaseDate)},
		{"Purchase cost", output.Deref(a.PurchaseCost)},
		{"Warranty expiry", output.Deref(a.WarrantyExpiry)},
		{"Status", a.Status},
		{"Assigned to", assigneeName(a)},
		{"Updated", a.UpdatedAt.Format("2006-01-02 15:04")},
	})
	return nil
}

// ==========================
// LIST
// ==========================
func listAssetsCmd() *cobra.Command {
	var search, status, category string
	var page, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if search != "" {
				q.Set("search", search)
			}
			if status != "" {
				q.Set("status", status)
			}
			if category != "" {
				q.Set("category", category)
			}
			if page > 0 {
				q.Set("page", strconv.Itoa(page))
			}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			path := "/api/assets"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var out struct {
				Assets     []models.Asset  `json:"assets"`
				Pagination pagination.Meta `json:"pagination"`
			}
			if err := client.Do(http.MethodGet, path, nil, &out, true); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output.JSON {
				return output.PrintJSON(w, out)
			}
			rows := make([][]interface{}, 0, len(out.Assets))
			for _, a := range out.Assets {
				rows = append(rows, []interface{}{a.ID, output.Deref(a.AssetTag), a.Name, a.Category, a.Status, assigneeName(a)})
			}
			output.RenderTable(w, []string{"ID", "Tag", "Name", "Category", "Status", "Assigned To"}, rows)
			p := out.Pagination
			fmt.Fprintf(w, "Page %d of %d (%d assets)\n", p.Page, p.TotalPages, p.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "substring of name or asset tag")
	cmd.Flags().StringVar(&status, "status", "", "available, assigned, maintenance or retired")
	cmd.Flags().StringVar(&category, "category", "", "exact category")
	cmd.Flags().IntVar(&page, "page", 0, "page number (default 1)")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (default 10, max 100)")
	return cmd
}

// ==========================
// GET
// ==========================
func getAssetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show one asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out assetResponse
			if err := client.Do(http.MethodGet, "/api/assets/"+url.PathEscape(args[0]), nil, &out, true); err != nil {
				return err
			}
			return printAsset(cmd.OutOrStdout(), out.Data)
		},
	}
}

// detailFlags are the editable text fields, keyed by flag name.
var detailFlags = []struct{ flag, field, usage string }{
	{"tag", "assetTag", "asset tag"},
	{"name", "name", "asset name"},
	{"category", "category", "category"},
	{"manufacturer", "manufacturer", "manufacturer"},
	{"model", "model", "model"},
	{"serial", "serialNumber", "serial number"},
	{"location", "location", "location"},
	{"description", "description", "description"},
	{"purchase-date", "purchaseDate", "purchase date (YYYY-MM-DD)"},
	{"warranty-expiry", "warrantyExpiry", "warranty expiry (YYYY-MM-DD)"},
	{"status", "status", "available, assigned, maintenance or retired"},
	{"assigned-to", "assignedTo", "user id to assign"},
}

func addDetailFlags(cmd *cobra.Command) {
	for _, f := range detailFlags {
		cmd.Flags().String(f.flag, "", f.usage)
	}
	cmd.Flags().Float64("cost", 0, "purchase cost")
}

// changedFields collects the flags the user actually set into a JSON payload.
func changedFields(cmd *cobra.Command) (map[string]any, error) {
	payload := map[string]any{}
	for _, f := range detailFlags {
		if cmd.Flags().Changed(f.flag) {
			v, _ := cmd.Flags().GetString(f.flag)
			payload[f.field] = v
		}
	}
	if cmd.Flags().Changed("cost") {
		v, err := cmd.Flags().GetFloat64("cost")
		if err != nil {
			return nil, err
		}
		payload["purchaseCost"] = v
	}
	return payload, nil
}

// ==========================
// CREATE
// ==========================
func createAssetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := changedFields(cmd)
			if err != nil {
				return err
			}
			var out assetResponse
			if err := client.Do(http.MethodPost, "/api/assets", payload, &out, true); err != nil {
				return err
			}
			return printAsset(cmd.OutOrStdout(), out.Data)
		},
	}
	addDetailFlags(cmd)
	return cmd
}

// ==========================
// UPDATE
// ==========================
func updateAssetCmd() *cobra.Command {
	var clear []string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update asset fields; only the flags given are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := changedFields(cmd)
			if err != nil {
				return err
			}
			for _, field := range clear {
				payload[field] = nil
			}
			if len(payload) == 0 {
				return fmt.Errorf("nothing to update")
			}
			var out assetResponse
			if err := client.Do(http.MethodPut, "/api/assets/"+url.PathEscape(args[0]), payload, &out, true); err != nil {
				return err
			}
			return printAsset(cmd.OutOrStdout(), out.Data)
		},
	}
	addDetailFlags(cmd)
	cmd.Flags().StringSliceVar(&clear, "clear", nil, "JSON field names to clear, e.g. --clear location,assignedTo")
	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteAssetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do(http.MethodDelete, "/api/assets/"+url.PathEscape(args[0]), nil, nil, true); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Asset deleted")
			return nil
		},
	}
}

// ==========================
// ASSIGN / UNASSIGN
// ==========================
func assignAssetCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "assign [id]",
		Short: "Assign an asset to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			var out assetResponse
			payload := map[string]string{"userId": userID}
			if err := client.Do(http.MethodPost, "/api/assets/"+url.PathEscape(args[0])+"/assign", payload, &out, true); err != nil {
				return err
			}
			return printAsset(cmd.OutOrStdout(), out.Data)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	return cmd
}

func unassignAssetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign [id]",
		Short: "Return an assigned asset to available",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out assetResponse
			if err := client.Do(http.MethodPost, "/api/assets/"+url.PathEscape(args[0])+"/unassign", nil, &out, true); err != nil {
				return err
			}
			return printAsset(cmd.OutOrStdout(), out.Data)
		},
	}
}
