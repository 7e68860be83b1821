package gas

import "fmt"

// VariableKey identifies one entry of the variable map: the statement
// that needs a cost variable emitted, and which token type it's for.
type VariableKey struct {
	Idx   StatementIdx
	Token TokenType
}

// VariableValues maps (statement, token type) to the signed 64-bit
// amount the downstream code generator must emit there.
type VariableValues map[VariableKey]int64

// FunctionCosts maps a function identifier to its entry-point cost,
// broken down by token type.
type FunctionCosts map[string]map[TokenType]int64

// GasInfo is the analyzer's output: the variable map plus the
// per-function entry-point costs (spec.md §3/§6).
type GasInfo struct {
	VariableValues VariableValues
	FunctionCosts  FunctionCosts
}

// insertUnique records a variable assignment, panicking if the key was
// already written during this pass: duplicate insertion is a programmer
// error, not a recoverable one (spec.md §7, §8 invariant 4).
func (v VariableValues) insertUnique(key VariableKey, amount int64) {
	if _, exists := v[key]; exists {
		panic(fmt.Sprintf("duplicate variable insertion at %+v", key))
	}
	v[key] = amount
}

// ComputeCosts runs the analyzer for the given program, cost oracle, and
// policy (spec.md §4.F). It drives: prepare wallet -> optionally compute
// target values -> per-statement analysis emitting variable assignments
// -> collect per-function entry-point costs.
func ComputeCosts[T any](program *Program, getCostFn GetCostFn, specific SpecificCostContext[T]) (*GasInfo, error) {
	ctx := newCostContext[T](program, getCostFn)

	if err := ctx.prepareWallet(specific); err != nil {
		return nil, err
	}

	if specific.ShouldHandleExcess() {
		if _, err := ctx.computeTargetValues(specific); err != nil {
			return nil, err
		}
	}

	variables := make(VariableValues)
	for i := range program.Statements {
		analyzeGasStatements(ctx, specific, StatementIdx(i), variables)
	}

	functionCosts := make(FunctionCosts, len(program.Functions))
	for _, fn := range program.Functions {
		functionCosts[fn.ID] = specific.ToCostMap(ctx.walletAt(fn.EntryPoint).Value)
	}

	return &GasInfo{VariableValues: variables, FunctionCosts: functionCosts}, nil
}

// analyzeGasStatements computes, for every withdraw_gas and branch_align
// statement, the exact cost variables the downstream code generator must
// emit (spec.md §4.D/analyze_gas_statements). It only acts on Invocation
// statements; Return statements need no variables.
func analyzeGasStatements[T any](ctx *costContext[T], specific SpecificCostContext[T], idx StatementIdx, variables VariableValues) {
	stmt := ctx.program.GetStatement(idx)
	if stmt.Return {
		return
	}
	invocation := stmt.Invocation
	libfuncCost := ctx.getCost(invocation.LibfuncID)
	requirements := branchRequirements(specific, ctx.walletAt, idx, invocation, libfuncCost)

	walletValue := ctx.walletAt(idx).Value

	for i, branchInfo := range invocation.Branches {
		branchCost := libfuncCost[i]
		requirement := requirements[i]
		futureWalletValue := ctx.walletAt(idx.Next(branchInfo.Target)).Value

		if wg, ok := branchCost.(WithdrawGasCost); ok && wg.Success {
			withdrawal := specific.GetGasWithdrawal(idx, branchCost, walletValue, futureWalletValue)
			for tokenType, amount := range specific.ToFullCostMap(withdrawal) {
				variables.insertUnique(VariableKey{Idx: idx, Token: tokenType}, maxI64(amount, 0))
				variables.insertUnique(VariableKey{Idx: idx.Next(branchInfo.Target), Token: tokenType}, maxI64(-amount, 0))
			}
			continue
		}

		if len(invocation.Branches) > 1 {
			cost := specific.Algebra().Sub(walletValue, requirement.Value)
			for tokenType, amount := range specific.ToFullCostMap(cost) {
				variables.insertUnique(VariableKey{Idx: idx.Next(branchInfo.Target), Token: tokenType}, amount)
			}
		}
	}
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
