package equipment

import (
	"fmt"

	"github.com/crucial707/milstock/cmd/cli/client"
	"github.com/crucial707/milstock/cmd/cli/output"
	"github.com/spf13/cobra"
)

type equipmentType struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
}

// ==========================
// Init Equipment
// ==========================
func InitEquipment(rootCmd *cobra.Command) {

	equipmentCmd := &cobra.Command{
		Use:   "equipment",
		Short: "Manage equipment types",
	}

	equipmentCmd.AddCommand(
		listEquipmentCmd(),
		createEquipmentCmd(),
		deleteEquipmentCmd(),
	)

	rootCmd.AddCommand(equipmentCmd)
}

// ==========================
// LIST
// ==========================
func listEquipmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List equipment types",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []equipmentType
			if err := client.Do("GET", "/api/equipment-types", nil, &list); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(list))
			for _, e := range list {
				rows = append(rows, []interface{}{e.ID, e.Name, e.Category, e.Unit})
			}
			output.RenderTable([]string{"ID", "Name", "Category", "Unit"}, rows)
			return nil
		},
	}
}

// ==========================
// CREATE
// ==========================
func createEquipmentCmd() *cobra.Command {

	var name string
	var category string
	var description string
	var unit string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create equipment type",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{
				"name":        name,
				"category":    category,
				"description": description,
				"unit":        unit,
			}

			var created equipmentType
			if err := client.Do("POST", "/api/equipment-types", payload, &created); err != nil {
				return err
			}
			fmt.Printf("Created equipment type %d (%s)\n", created.ID, created.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "equipment type name")
	cmd.Flags().StringVar(&category, "category", "", "category, e.g. weapon, vehicle, ammunition")
	cmd.Flags().StringVar(&description, "description", "", "free-form description")
	cmd.Flags().StringVar(&unit, "unit", "", "counting unit (default: units)")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteEquipmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete equipment type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do("DELETE", "/api/equipment-types/"+args[0], nil, nil); err != nil {
				return err
			}
			fmt.Println("Equipment type deleted")
			return nil
		},
	}
}
