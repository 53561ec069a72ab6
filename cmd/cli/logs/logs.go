package logs

import (
	"fmt"
	"net/url"

	"github.com/crucial707/milstock/cmd/cli/client"
	"github.com/crucial707/milstock/cmd/cli/output"
	"github.com/spf13/cobra"
)

// ==========================
// Init Logs
// ==========================
func InitLogs(rootCmd *cobra.Command) {
	rootCmd.AddCommand(logsCmd())
}

// logsCmd lists transaction log entries, newest first.
func logsCmd() *cobra.Command {
	var actionType string
	var baseID int
	var startDate, endDate string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List the transaction audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if actionType != "" {
				q.Set("action_type", actionType)
			}
			if baseID > 0 {
				q.Set("base_id", fmt.Sprint(baseID))
			}
			if startDate != "" {
				q.Set("start_date", startDate)
			}
			if endDate != "" {
				q.Set("end_date", endDate)
			}
			path := "/api/logs"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var entries []struct {
				ID         int    `json:"id"`
				UserID     *int   `json:"user_id"`
				ActionType string `json:"action_type"`
				ModelName  string `json:"model_name"`
				ObjectID   int    `json:"object_id"`
				Timestamp  string `json:"timestamp"`
				Details    struct {
					Base          *int `json:"base"`
					FromBase      *int `json:"from_base"`
					ToBase        *int `json:"to_base"`
					EquipmentType *int `json:"equipment_type"`
					Quantity      *int `json:"quantity"`
				} `json:"details"`
			}
			if err := client.Do("GET", path, nil, &entries); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(entries))
			for _, e := range entries {
				user := ""
				if e.UserID != nil {
					user = fmt.Sprint(*e.UserID)
				}
				qty := ""
				if e.Details.Quantity != nil {
					qty = fmt.Sprint(*e.Details.Quantity)
				}
				rows = append(rows, []interface{}{e.ID, e.Timestamp, e.ActionType, e.ModelName, e.ObjectID, user, qty})
			}
			output.RenderTable([]string{"ID", "Timestamp", "Action", "Model", "Object", "User", "Qty"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&actionType, "action", "", "filter by action type (PURCHASE, TRANSFER, ASSIGNMENT, EXPENDITURE)")
	cmd.Flags().IntVar(&baseID, "base", 0, "filter by involved base id")
	cmd.Flags().StringVar(&startDate, "start-date", "", "inclusive lower bound (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "inclusive upper bound (YYYY-MM-DD)")

	return cmd
}
