package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"

	"kanso/internal/gas"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: kanso-gas <program.json> <oracle.json> [ap_change.json]")
		os.Exit(1)
	}

	programPath, oraclePath := os.Args[1], os.Args[2]

	programJSON, err := os.ReadFile(programPath)
	if err != nil {
		color.Red("failed to read program: %s", err)
		os.Exit(1)
	}
	oracleJSON, err := os.ReadFile(oraclePath)
	if err != nil {
		color.Red("failed to read libfunc-cost oracle: %s", err)
		os.Exit(1)
	}

	program, getCostFn, err := gas.LoadProgram(programJSON, oracleJSON)
	if err != nil {
		color.Red("failed to load program: %s", err)
		os.Exit(1)
	}

	preGasInfo, err := gas.ComputeCosts[gas.PreCost](program, getCostFn, gas.PreCostContext{})
	if err != nil {
		reportCostError(err)
		os.Exit(1)
	}

	getAPChangeFn := func(gas.StatementIdx) int { return 0 }
	if len(os.Args) > 3 {
		apChangeJSON, err := os.ReadFile(os.Args[3])
		if err != nil {
			color.Red("failed to read ap-change table: %s", err)
			os.Exit(1)
		}
		getAPChangeFn, err = gas.LoadAPChangeTable(apChangeJSON)
		if err != nil {
			color.Red("failed to load ap-change table: %s", err)
			os.Exit(1)
		}
	}

	postcost := gas.PostcostContext{
		GetAPChangeFn:    getAPChangeFn,
		PrecostGasInfo:   preGasInfo,
		BuiltinCostSteps: gas.DefaultBuiltinCostWithdrawSteps,
	}
	postGasInfo, err := gas.ComputeCosts[int32](program, getCostFn, postcost)
	if err != nil {
		reportCostError(err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(postGasInfo.ToJSON(), "", "  ")
	if err != nil {
		color.Red("failed to encode gas info: %s", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	color.Green("✅ Gas analysis complete for %s", programPath)
}

// reportCostError prints a CycleDetected error the way kanso-cli reports
// parse errors: a short, colored, human-readable line.
func reportCostError(err error) {
	color.Red("❌ Gas analysis failed: %s", err)
}
