package bases

import (
	"fmt"

	"github.com/crucial707/milstock/cmd/cli/client"
	"github.com/crucial707/milstock/cmd/cli/output"
	"github.com/spf13/cobra"
)

type base struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Location string `json:"location"`
}

// ==========================
// Init Bases
// ==========================
func InitBases(rootCmd *cobra.Command) {

	basesCmd := &cobra.Command{
		Use:   "bases",
		Short: "Manage bases",
	}

	basesCmd.AddCommand(
		listBasesCmd(),
		createBaseCmd(),
		deleteBaseCmd(),
	)

	rootCmd.AddCommand(basesCmd)
}

// ==========================
// LIST
// ==========================
func listBasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bases",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []base
			if err := client.Do("GET", "/api/bases", nil, &list); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(list))
			for _, b := range list {
				rows = append(rows, []interface{}{b.ID, b.Name, b.Code, b.Location})
			}
			output.RenderTable([]string{"ID", "Name", "Code", "Location"}, rows)
			return nil
		},
	}
}

// ==========================
// CREATE
// ==========================
func createBaseCmd() *cobra.Command {

	var name string
	var code string
	var location string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create base",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{
				"name":     name,
				"code":     code,
				"location": location,
			}

			var created base
			if err := client.Do("POST", "/api/bases", payload, &created); err != nil {
				return err
			}
			fmt.Printf("Created base %d (%s)\n", created.ID, created.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "base name")
	cmd.Flags().StringVar(&code, "code", "", "short unique code")
	cmd.Flags().StringVar(&location, "location", "", "base location")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteBaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do("DELETE", "/api/bases/"+args[0], nil, nil); err != nil {
				return err
			}
			fmt.Println("Base deleted")
			return nil
		},
	}
}
