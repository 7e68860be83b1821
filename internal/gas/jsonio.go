package gas

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// This file is the CLI-facing I/O boundary (spec.md §6's "Input: IR
// program" / "Input: libfunc-cost oracle", made concrete for
// cmd/kanso-gas). The analyzer core never imports encoding/json itself —
// only this adapter does, keeping §5's "allocation-bounded... no
// asynchronous I/O" core free of serialization concerns.

// jsonProgram is the on-disk shape of a Program.
type jsonProgram struct {
	Statements []jsonStatement `json:"statements"`
	Functions  []Function      `json:"functions"`
}

type jsonStatement struct {
	Return     bool            `json:"return,omitempty"`
	Invocation *jsonInvocation `json:"invocation,omitempty"`
}

type jsonInvocation struct {
	LibfuncID string       `json:"libfunc_id"`
	Branches  []BranchInfo `json:"branches"`
}

// jsonBranchCost is the on-disk shape of a BranchCost. Kind selects which
// of the fields below apply; unused fields are omitted by convention but
// not enforced.
type jsonBranchCost struct {
	Kind             string      `json:"kind"`
	ConstCost        ConstCost   `json:"const_cost,omitempty"`
	PreCost          PreCost     `json:"pre_cost,omitempty"`
	Function         FunctionRef `json:"function,omitempty"`
	Success          bool        `json:"success,omitempty"`
	WithBuiltinCosts bool        `json:"with_builtin_costs,omitempty"`
}

const (
	kindRegular      = "regular"
	kindBranchAlign  = "branch_align"
	kindFunctionCall = "function_call"
	kindWithdrawGas  = "withdraw_gas"
	kindRedepositGas = "redeposit_gas"
)

func (j jsonBranchCost) toBranchCost() (BranchCost, error) {
	switch j.Kind {
	case kindRegular:
		return RegularBranchCost{ConstCost: j.ConstCost, PreCost: j.PreCost}, nil
	case kindBranchAlign:
		return BranchAlignCost{}, nil
	case kindFunctionCall:
		return FunctionCallCost{ConstCost: j.ConstCost, Function: j.Function}, nil
	case kindWithdrawGas:
		return WithdrawGasCost{ConstCost: j.ConstCost, Success: j.Success, WithBuiltinCosts: j.WithBuiltinCosts}, nil
	case kindRedepositGas:
		return RedepositGasCost{}, nil
	default:
		return nil, fmt.Errorf("unknown branch cost kind %q", j.Kind)
	}
}

// CostOracleTable is the on-disk shape of the libfunc-cost oracle: one
// entry per concrete libfunc id, listing its branch costs in branch
// order.
type CostOracleTable map[string][]jsonBranchCost

// LoadProgram decodes a Program and its associated libfunc-cost oracle
// from JSON bytes, returning a GetCostFn ready to pass to ComputeCosts.
func LoadProgram(programJSON, oracleJSON []byte) (*Program, GetCostFn, error) {
	var jp jsonProgram
	if err := json.Unmarshal(programJSON, &jp); err != nil {
		return nil, nil, fmt.Errorf("decoding program: %w", err)
	}

	program := &Program{
		Statements: make([]Statement, len(jp.Statements)),
		Functions:  jp.Functions,
	}
	for i, js := range jp.Statements {
		if js.Return {
			program.Statements[i] = Statement{Return: true}
			continue
		}
		if js.Invocation == nil {
			return nil, nil, fmt.Errorf("statement %d is neither return nor invocation", i)
		}
		program.Statements[i] = Statement{Invocation: &Invocation{
			LibfuncID: js.Invocation.LibfuncID,
			Branches:  js.Invocation.Branches,
		}}
	}

	var table CostOracleTable
	if err := json.Unmarshal(oracleJSON, &table); err != nil {
		return nil, nil, fmt.Errorf("decoding libfunc-cost oracle: %w", err)
	}

	costs := make(map[string][]BranchCost, len(table))
	for libfuncID, entries := range table {
		converted := make([]BranchCost, len(entries))
		for i, e := range entries {
			bc, err := e.toBranchCost()
			if err != nil {
				return nil, nil, fmt.Errorf("libfunc %q branch %d: %w", libfuncID, i, err)
			}
			converted[i] = bc
		}
		costs[libfuncID] = converted
	}

	return program, func(libfuncID string) []BranchCost {
		return costs[libfuncID]
	}, nil
}

// LoadAPChangeTable decodes a JSON object mapping statement index
// (as a string key) to its AP-change value into a GetAPChangeFn.
// Statements absent from the table default to zero.
func LoadAPChangeTable(apChangeJSON []byte) (GetAPChangeFn, error) {
	var raw map[string]int
	if err := json.Unmarshal(apChangeJSON, &raw); err != nil {
		return nil, fmt.Errorf("decoding ap-change table: %w", err)
	}

	table := make(map[StatementIdx]int, len(raw))
	for k, v := range raw {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("ap-change table key %q is not a statement index: %w", k, err)
		}
		table[StatementIdx(n)] = v
	}

	return func(idx StatementIdx) int {
		return table[idx]
	}, nil
}

// GasInfoJSON is the on-disk shape GasInfo is rendered to by the CLI.
type GasInfoJSON struct {
	Variables     []VariableEntry          `json:"variables"`
	FunctionCosts map[string]map[string]int64 `json:"function_costs"`
}

// VariableEntry is one flattened (statement, token) -> amount entry, the
// JSON-friendly equivalent of a VariableValues map key.
type VariableEntry struct {
	Statement int    `json:"statement"`
	Token     string `json:"token"`
	Amount    int64  `json:"amount"`
}

// ToJSON flattens a GasInfo into its deterministic on-disk
// representation, sorted by statement then token so repeated runs on the
// same input produce byte-identical output (spec.md §5).
func (g *GasInfo) ToJSON() GasInfoJSON {
	entries := make([]VariableEntry, 0, len(g.VariableValues))
	for key, amount := range g.VariableValues {
		entries = append(entries, VariableEntry{Statement: int(key.Idx), Token: string(key.Token), Amount: amount})
	}
	sortVariableEntries(entries)

	fc := make(map[string]map[string]int64, len(g.FunctionCosts))
	for fn, costs := range g.FunctionCosts {
		m := make(map[string]int64, len(costs))
		for tt, v := range costs {
			m[string(tt)] = v
		}
		fc[fn] = m
	}

	return GasInfoJSON{Variables: entries, FunctionCosts: fc}
}

func sortVariableEntries(entries []VariableEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Statement != entries[j].Statement {
			return entries[i].Statement < entries[j].Statement
		}
		return entries[i].Token < entries[j].Token
	})
}
