package users

import (
	"fmt"

	"github.com/crucial707/milstock/cmd/cli/client"
	"github.com/crucial707/milstock/cmd/cli/output"
	"github.com/spf13/cobra"
)

type user struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	BaseID      *int   `json:"base_id"`
	IsSuperuser bool   `json:"is_superuser"`
}

// ==========================
// Init Users
// ==========================
func InitUsers(rootCmd *cobra.Command) {

	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users (admin only)",
	}

	usersCmd.AddCommand(
		listUsersCmd(),
		createUserCmd(),
		deleteUserCmd(),
	)

	rootCmd.AddCommand(usersCmd)
}

// ==========================
// LIST
// ==========================
func listUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []user
			if err := client.Do("GET", "/api/users", nil, &list); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(list))
			for _, u := range list {
				base := ""
				if u.BaseID != nil {
					base = fmt.Sprint(*u.BaseID)
				}
				rows = append(rows, []interface{}{u.ID, u.Username, u.Role, base, u.IsSuperuser})
			}
			output.RenderTable([]string{"ID", "Username", "Role", "Base", "Superuser"}, rows)
			return nil
		},
	}
}

// ==========================
// CREATE
// ==========================
func createUserCmd() *cobra.Command {

	var username string
	var password string
	var role string
	var baseID int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create user",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"username": username,
				"password": password,
				"role":     role,
			}
			if baseID > 0 {
				payload["base_id"] = baseID
			}

			var created user
			if err := client.Do("POST", "/api/users", payload, &created); err != nil {
				return err
			}
			fmt.Printf("Created user %d (%s, %s)\n", created.ID, created.Username, created.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().StringVar(&role, "role", "", "role: ADMIN, COMMANDER, or LOGISTICS")
	cmd.Flags().IntVar(&baseID, "base", 0, "home base id")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do("DELETE", "/api/users/"+args[0], nil, nil); err != nil {
				return err
			}
			fmt.Println("User deleted")
			return nil
		},
	}
}
