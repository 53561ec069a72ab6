// Package ledger holds the CLI commands for the four transaction kinds.
// Each kind gets list/create/delete, all backed by the same filter flags.
package ledger

import (
	"fmt"
	"net/url"

	"github.com/crucial707/milstock/cmd/cli/client"
	"github.com/crucial707/milstock/cmd/cli/output"
	"github.com/spf13/cobra"
)

// ==========================
// Init Ledger
// ==========================
func InitLedger(rootCmd *cobra.Command) {
	rootCmd.AddCommand(
		purchasesCmd(),
		transfersCmd(),
		assignmentsCmd(),
		expendituresCmd(),
	)
}

// listFilter carries the shared list flags.
type listFilter struct {
	baseID          int
	equipmentTypeID int
	startDate       string
	endDate         string
}

func (f *listFilter) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.baseID, "base", 0, "filter by base id")
	cmd.Flags().IntVar(&f.equipmentTypeID, "equipment-type", 0, "filter by equipment type id")
	cmd.Flags().StringVar(&f.startDate, "start-date", "", "inclusive lower bound (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.endDate, "end-date", "", "inclusive upper bound (YYYY-MM-DD)")
}

func (f *listFilter) query() string {
	q := url.Values{}
	if f.baseID > 0 {
		q.Set("base_id", fmt.Sprint(f.baseID))
	}
	if f.equipmentTypeID > 0 {
		q.Set("equipment_type_id", fmt.Sprint(f.equipmentTypeID))
	}
	if f.startDate != "" {
		q.Set("start_date", f.startDate)
	}
	if f.endDate != "" {
		q.Set("end_date", f.endDate)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ==========================
// PURCHASES
// ==========================
func purchasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purchases",
		Short: "Record and inspect purchases",
	}
	cmd.AddCommand(listPurchasesCmd(), createPurchaseCmd(), deleteCmd("purchases", "Purchase"))
	return cmd
}

func listPurchasesCmd() *cobra.Command {
	var f listFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List purchases",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []struct {
				ID              int     `json:"id"`
				BaseID          int     `json:"base_id"`
				EquipmentTypeID int     `json:"equipment_type_id"`
				Quantity        int     `json:"quantity"`
				UnitCost        *string `json:"unit_cost"`
				PurchasedAt     string  `json:"purchased_at"`
			}
			if err := client.Do("GET", "/api/purchases"+f.query(), nil, &list); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(list))
			for _, p := range list {
				cost := ""
				if p.UnitCost != nil {
					cost = *p.UnitCost
				}
				rows = append(rows, []interface{}{p.ID, p.BaseID, p.EquipmentTypeID, p.Quantity, cost, p.PurchasedAt})
			}
			output.RenderTable([]string{"ID", "Base", "Equipment", "Qty", "Unit cost", "Purchased at"}, rows)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func createPurchaseCmd() *cobra.Command {
	var baseID, equipmentTypeID, quantity int
	var unitCost, purchasedAt, notes string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a purchase",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"base_id":           baseID,
				"equipment_type_id": equipmentTypeID,
				"quantity":          quantity,
				"notes":             notes,
			}
			if purchasedAt != "" {
				payload["purchased_at"] = purchasedAt
			}
			if unitCost != "" {
				payload["unit_cost"] = unitCost
			}

			var created struct {
				ID int `json:"id"`
			}
			if err := client.Do("POST", "/api/purchases", payload, &created); err != nil {
				return err
			}
			fmt.Printf("Recorded purchase %d\n", created.ID)
			return nil
		},
	}

	cmd.Flags().IntVar(&baseID, "base", 0, "receiving base id")
	cmd.Flags().IntVar(&equipmentTypeID, "equipment-type", 0, "equipment type id")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "quantity in whole units")
	cmd.Flags().StringVar(&unitCost, "unit-cost", "", "unit cost, e.g. 12.50")
	cmd.Flags().StringVar(&purchasedAt, "at", "", "purchase timestamp (RFC 3339)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")

	return cmd
}

// ==========================
// TRANSFERS
// ==========================
func transfersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfers",
		Short: "Record and inspect transfers",
	}
	cmd.AddCommand(listTransfersCmd(), createTransferCmd(), deleteCmd("transfers", "Transfer"))
	return cmd
}

func listTransfersCmd() *cobra.Command {
	var f listFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transfers",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []struct {
				ID              int    `json:"id"`
				FromBaseID      int    `json:"from_base_id"`
				ToBaseID        int    `json:"to_base_id"`
				EquipmentTypeID int    `json:"equipment_type_id"`
				Quantity        int    `json:"quantity"`
				TransferAt      string `json:"transfer_at"`
			}
			if err := client.Do("GET", "/api/transfers"+f.query(), nil, &list); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(list))
			for _, t := range list {
				rows = append(rows, []interface{}{t.ID, t.FromBaseID, t.ToBaseID, t.EquipmentTypeID, t.Quantity, t.TransferAt})
			}
			output.RenderTable([]string{"ID", "From", "To", "Equipment", "Qty", "Transfer at"}, rows)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func createTransferCmd() *cobra.Command {
	var fromBaseID, toBaseID, equipmentTypeID, quantity int
	var transferAt, notes string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a transfer between bases",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"from_base_id":      fromBaseID,
				"to_base_id":        toBaseID,
				"equipment_type_id": equipmentTypeID,
				"quantity":          quantity,
				"notes":             notes,
			}
			if transferAt != "" {
				payload["transfer_at"] = transferAt
			}

			var created struct {
				ID int `json:"id"`
			}
			if err := client.Do("POST", "/api/transfers", payload, &created); err != nil {
				return err
			}
			fmt.Printf("Recorded transfer %d\n", created.ID)
			return nil
		},
	}

	cmd.Flags().IntVar(&fromBaseID, "from", 0, "source base id")
	cmd.Flags().IntVar(&toBaseID, "to", 0, "destination base id")
	cmd.Flags().IntVar(&equipmentTypeID, "equipment-type", 0, "equipment type id")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "quantity in whole units")
	cmd.Flags().StringVar(&transferAt, "at", "", "transfer timestamp (RFC 3339)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")

	return cmd
}

// ==========================
// ASSIGNMENTS
// ==========================
func assignmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assignments",
		Short: "Record and inspect personnel assignments",
	}
	cmd.AddCommand(listAssignmentsCmd(), createAssignmentCmd(), deleteCmd("assignments", "Assignment"))
	return cmd
}

func listAssignmentsCmd() *cobra.Command {
	var f listFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assignments",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []struct {
				ID              int    `json:"id"`
				BaseID          int    `json:"base_id"`
				EquipmentTypeID int    `json:"equipment_type_id"`
				AssignedTo      string `json:"assigned_to"`
				Quantity        int    `json:"quantity"`
				AssignedAt      string `json:"assigned_at"`
			}
			if err := client.Do("GET", "/api/assignments"+f.query(), nil, &list); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(list))
			for _, a := range list {
				rows = append(rows, []interface{}{a.ID, a.BaseID, a.EquipmentTypeID, a.AssignedTo, a.Quantity, a.AssignedAt})
			}
			output.RenderTable([]string{"ID", "Base", "Equipment", "Assigned to", "Qty", "Assigned at"}, rows)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func createAssignmentCmd() *cobra.Command {
	var baseID, equipmentTypeID, quantity int
	var assignedTo, assignedAt, purpose string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record an assignment to personnel",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"base_id":           baseID,
				"equipment_type_id": equipmentTypeID,
				"assigned_to":       assignedTo,
				"quantity":          quantity,
				"purpose":           purpose,
			}
			if assignedAt != "" {
				payload["assigned_at"] = assignedAt
			}

			var created struct {
				ID int `json:"id"`
			}
			if err := client.Do("POST", "/api/assignments", payload, &created); err != nil {
				return err
			}
			fmt.Printf("Recorded assignment %d\n", created.ID)
			return nil
		},
	}

	cmd.Flags().IntVar(&baseID, "base", 0, "base id")
	cmd.Flags().IntVar(&equipmentTypeID, "equipment-type", 0, "equipment type id")
	cmd.Flags().StringVar(&assignedTo, "to", "", "personnel name")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "quantity in whole units")
	cmd.Flags().StringVar(&assignedAt, "at", "", "assignment timestamp (RFC 3339)")
	cmd.Flags().StringVar(&purpose, "purpose", "", "purpose of the assignment")

	return cmd
}

// ==========================
// EXPENDITURES
// ==========================
func expendituresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenditures",
		Short: "Record and inspect expenditures",
	}
	cmd.AddCommand(listExpendituresCmd(), createExpenditureCmd(), deleteCmd("expenditures", "Expenditure"))
	return cmd
}

func listExpendituresCmd() *cobra.Command {
	var f listFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenditures",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []struct {
				ID              int    `json:"id"`
				BaseID          int    `json:"base_id"`
				EquipmentTypeID int    `json:"equipment_type_id"`
				Quantity        int    `json:"quantity"`
				ExpendedAt      string `json:"expended_at"`
				Reason          string `json:"reason"`
			}
			if err := client.Do("GET", "/api/expenditures"+f.query(), nil, &list); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(list))
			for _, e := range list {
				rows = append(rows, []interface{}{e.ID, e.BaseID, e.EquipmentTypeID, e.Quantity, e.ExpendedAt, e.Reason})
			}
			output.RenderTable([]string{"ID", "Base", "Equipment", "Qty", "Expended at", "Reason"}, rows)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func createExpenditureCmd() *cobra.Command {
	var baseID, equipmentTypeID, quantity int
	var expendedBy, expendedAt, reason string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record an expenditure",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"base_id":           baseID,
				"equipment_type_id": equipmentTypeID,
				"expended_by":       expendedBy,
				"quantity":          quantity,
				"reason":            reason,
			}
			if expendedAt != "" {
				payload["expended_at"] = expendedAt
			}

			var created struct {
				ID int `json:"id"`
			}
			if err := client.Do("POST", "/api/expenditures", payload, &created); err != nil {
				return err
			}
			fmt.Printf("Recorded expenditure %d\n", created.ID)
			return nil
		},
	}

	cmd.Flags().IntVar(&baseID, "base", 0, "base id")
	cmd.Flags().IntVar(&equipmentTypeID, "equipment-type", 0, "equipment type id")
	cmd.Flags().StringVar(&expendedBy, "by", "", "personnel or unit that expended the stock")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "quantity in whole units")
	cmd.Flags().StringVar(&expendedAt, "at", "", "expenditure timestamp (RFC 3339)")
	cmd.Flags().StringVar(&reason, "reason", "", "reason for the expenditure")

	return cmd
}

// deleteCmd builds the shared delete subcommand for a transaction kind.
func deleteCmd(resource, label string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a " + resource[:len(resource)-1] + " record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do("DELETE", "/api/"+resource+"/"+args[0], nil, nil); err != nil {
				return err
			}
			fmt.Println(label + " deleted")
			return nil
		},
	}
}
