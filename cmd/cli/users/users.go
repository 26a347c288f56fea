package users

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
// CLI Command Init
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage the users assets can be assigned to",
	}
	usersCmd.AddCommand(listUsersCmd(), getUserCmd(), createUserCmd(), updateUserCmd())
	rootCmd.AddCommand(usersCmd)
}

func printUsers(w io.Writer, users []models.User) {
	rows := make([][]interface{}, 0, len(users))
	for _, u := range users {
		rows = append(rows, []interface{}{u.ID, u.Name, u.Email, u.Role, output.Deref(u.Department)})
	}
	output.RenderTable(w, []string{"ID", "Name", "Email", "Role", "Department"}, rows)
}

// ==========================
// List Users
// ==========================
func listUsersCmd() *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if page > 0 {
				q.Set("page", strconv.Itoa(page))
			}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			path := "/api/users"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var out struct {
				Users      []models.User   `json:"users"`
				Pagination pagination.Meta `json:"pagination"`
			}
			if err := client.Do(http.MethodGet, path, nil, &out, true); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if output.JSON {
				return output.PrintJSON(w, out)
			}
			printUsers(w, out.Users)
			fmt.Fprintf(w, "Page %d of %d (%d users)\n", out.Pagination.Page, out.Pagination.TotalPages, out.Pagination.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "page number (default 1)")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (default 10)")
	return cmd
}

// ==========================
// Get User
// ==========================
func getUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Data models.User `json:"data"`
			}
			if err := client.Do(http.MethodGet, "/api/users/"+url.PathEscape(args[0]), nil, &out, true); err != nil {
				return err
			}
			if output.JSON {
				return output.PrintJSON(cmd.OutOrStdout(), out.Data)
			}
			printUsers(cmd.OutOrStdout(), []models.User{out.Data})
			return nil
		},
	}
}

// ==========================
// Create User (admin only)
// ==========================
func createUserCmd() *cobra.Command {
	var in models.UserInput
	var department, phone string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("department") {
				in.Department = &department
			}
			if cmd.Flags().Changed("phone") {
				in.Phone = &phone
			}
			var out struct {
				Data models.User `json:"data"`
			}
			if err := client.Do(http.MethodPost, "/api/users", in, &out, true); err != nil {
				return err
			}
			if output.JSON {
				return output.PrintJSON(cmd.OutOrStdout(), out.Data)
			}
			printUsers(cmd.OutOrStdout(), []models.User{out.Data})
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "full name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password (min 8 characters)")
	cmd.Flags().StringVar(&in.Role, "role", "", "admin or user (default user)")
	cmd.Flags().StringVar(&department, "department", "", "department")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	return cmd
}

// ==========================
// Update User (admin only)
// ==========================
func updateUserCmd() *cobra.Command {
	var clear []string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update user fields; only the flags given are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{}
			for _, name := range []string{"name", "email", "password", "role", "department", "phone"} {
				if cmd.Flags().Changed(name) {
					v, _ := cmd.Flags().GetString(name)
					payload[name] = v
				}
			}
			for _, field := range clear {
				payload[field] = nil
			}
			if len(payload) == 0 {
				return fmt.Errorf("nothing to update")
			}
			var out struct {
				Data models.User `json:"data"`
			}
			if err := client.Do(http.MethodPut, "/api/users/"+url.PathEscape(args[0]), payload, &out, true); err != nil {
				return err
			}
			if output.JSON {
				return output.PrintJSON(cmd.OutOrStdout(), out.Data)
			}
			printUsers(cmd.OutOrStdout(), []models.User{out.Data})
			return nil
		},
	}
	cmd.Flags().String("name", "", "full name")
	cmd.Flags().String("email", "", "email address")
	cmd.Flags().String("password", "", "new password (min 8 characters)")
	cmd.Flags().String("role", "", "admin or user")
	cmd.Flags().String("department", "", "department")
	cmd.Flags().String("phone", "", "phone number")
	cmd.Flags().StringSliceVar(&clear, "clear", nil, "fields to clear: department, phone")
	return cmd
}
