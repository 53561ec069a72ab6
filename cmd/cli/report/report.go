package report

import (
	"fmt"
	"net/url"

	"github.com/crucial707/milstock/cmd/cli/client"
	"github.com/crucial707/milstock/cmd/cli/output"
	"github.com/spf13/cobra"
)

// ==========================
// Init Report
// ==========================
func InitReport(rootCmd *cobra.Command) {
	rootCmd.AddCommand(reportCmd())
}

// reportCmd renders the balance reconciliation for one base and equipment type.
func reportCmd() *cobra.Command {
	var baseID, equipmentTypeID int
	var startDate, endDate string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the balance reconciliation report",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if baseID > 0 {
				q.Set("base_id", fmt.Sprint(baseID))
			}
			if equipmentTypeID > 0 {
				q.Set("equipment_type_id", fmt.Sprint(equipmentTypeID))
			}
			if startDate != "" {
				q.Set("start_date", startDate)
			}
			if endDate != "" {
				q.Set("end_date", endDate)
			}
			path := "/api/dashboard"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var rep struct {
				Base struct {
					Name string `json:"name"`
					Code string `json:"code"`
				} `json:"base"`
				EquipmentType struct {
					Name string `json:"name"`
				} `json:"equipment_type"`
				Filters struct {
					StartDate *string `json:"start_date"`
					EndDate   *string `json:"end_date"`
				} `json:"filters"`
				OpeningBalance int `json:"opening_balance"`
				ClosingBalance int `json:"closing_balance"`
				NetMovement    struct {
					Total        int `json:"total"`
					Purchases    int `json:"purchases"`
					TransfersIn  int `json:"transfers_in"`
					TransfersOut int `json:"transfers_out"`
				} `json:"net_movement"`
				AssignedTotal int `json:"assigned_total"`
				ExpendedTotal int `json:"expended_total"`
			}
			if err := client.Do("GET", path, nil, &rep); err != nil {
				return err
			}

			fmt.Printf("Base: %s (%s)  Equipment: %s\n", rep.Base.Name, rep.Base.Code, rep.EquipmentType.Name)
			window := "(all history)"
			if rep.Filters.StartDate != nil {
				window = *rep.Filters.StartDate
			}
			if rep.Filters.EndDate != nil {
				window += " .. " + *rep.Filters.EndDate
			}
			fmt.Printf("Window: %s\n", window)

			output.RenderTable(
				[]string{"Opening", "Purchases", "In", "Out", "Net", "Assigned", "Expended", "Closing"},
				[][]interface{}{{
					rep.OpeningBalance,
					rep.NetMovement.Purchases,
					rep.NetMovement.TransfersIn,
					rep.NetMovement.TransfersOut,
					rep.NetMovement.Total,
					rep.AssignedTotal,
					rep.ExpendedTotal,
					rep.ClosingBalance,
				}},
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&baseID, "base", 0, "base id (defaults to your home base)")
	cmd.Flags().IntVar(&equipmentTypeID, "equipment-type", 0, "equipment type id")
	cmd.Flags().StringVar(&startDate, "start-date", "", "inclusive lower bound (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "inclusive upper bound (YYYY-MM-DD)")

	return cmd
}
