package main

import (
	"fmt"
	"os"

	"github.com/crucial707/milstock/cmd/cli/auth"
	"github.com/crucial707/milstock/cmd/cli/bases"
	"github.com/crucial707/milstock/cmd/cli/equipment"
	"github.com/crucial707/milstock/cmd/cli/ledger"
	"github.com/crucial707/milstock/cmd/cli/logs"
	"github.com/crucial707/milstock/cmd/cli/report"
	"github.com/crucial707/milstock/cmd/cli/root"
	"github.com/crucial707/milstock/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()

	auth.InitAuth(rootCmd)
	bases.InitBases(rootCmd)
	equipment.InitEquipment(rootCmd)
	ledger.InitLedger(rootCmd)
	report.InitReport(rootCmd)
	logs.InitLogs(rootCmd)
	users.InitUsers(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
