package gas

// SpecificCostContext is the pluggable policy (spec.md §4.E) selecting
// pre-cost vs post-cost behavior: whether the excess pass runs, how a
// branch requirement is computed, how a withdraw_gas amount is derived,
// and how a raw cost value is surfaced as a token-keyed integer map.
type SpecificCostContext[T any] interface {
	// Algebra returns the arithmetic domain this policy's cost values
	// live in.
	Algebra() Algebra[T]

	// ShouldHandleExcess reports whether ComputeCosts should run the
	// backward excess-propagation pass after the forward wallet fill.
	ShouldHandleExcess() bool

	// ToCostMap converts a cost value to its token-keyed i64 map,
	// suppressing zero-valued entries where the policy says to.
	ToCostMap(cost T) map[TokenType]int64

	// ToFullCostMap is like ToCostMap but always includes every token
	// type this policy cares about, even when the value is zero.
	ToFullCostMap(cost T) map[TokenType]int64

	// GetGasWithdrawal computes the amount that should be withdrawn and
	// added to the wallet at a WithdrawGas{success:true} branch. Calling
	// this with any other branch cost is a programmer error.
	GetGasWithdrawal(idx StatementIdx, branchCost BranchCost, walletValue T, futureWalletValue T) T

	// GetBranchRequirement returns the wallet value needed before a
	// statement, assuming the given branch is taken.
	GetBranchRequirement(walletAt func(StatementIdx) WalletInfo[T], idx StatementIdx, branchInfo BranchInfo, branchCost BranchCost) WalletInfo[T]
}

// PreCostContext is the pre-cost policy: multi-token accounting, no
// excess handling, and a withdraw_gas branch that decouples the caller's
// wallet from everything downstream of it.
type PreCostContext struct{}

func (PreCostContext) Algebra() Algebra[PreCost] { return PreCostAlgebra{} }

func (PreCostContext) ShouldHandleExcess() bool { return false }

func (PreCostContext) ToCostMap(cost PreCost) map[TokenType]int64 {
	out := make(map[TokenType]int64, len(cost))
	for k, v := range cost {
		out[k] = int64(v)
	}
	return out
}

func (PreCostContext) ToFullCostMap(cost PreCost) map[TokenType]int64 {
	out := make(map[TokenType]int64, len(precostTokenTypes))
	for _, tt := range precostTokenTypes {
		out[tt] = int64(cost[tt])
	}
	return out
}

// GetGasWithdrawal has no const component in the pre-cost pass: the
// withdrawn amount is simply the downstream requirement minus what the
// wallet already holds.
func (PreCostContext) GetGasWithdrawal(_ StatementIdx, _ BranchCost, walletValue PreCost, futureWalletValue PreCost) PreCost {
	return PreCostAlgebra{}.Sub(futureWalletValue, walletValue)
}

func (c PreCostContext) GetBranchRequirement(walletAt func(StatementIdx) WalletInfo[PreCost], idx StatementIdx, branchInfo BranchInfo, branchCost BranchCost) WalletInfo[PreCost] {
	switch bc := branchCost.(type) {
	case RegularBranchCost:
		return addWallets(c.Algebra(), WalletInfo[PreCost]{Value: bc.PreCost}, walletAt(idx.Next(branchInfo.Target)))
	case BranchAlignCost:
		return addWallets(c.Algebra(), WalletInfo[PreCost]{}, walletAt(idx.Next(branchInfo.Target)))
	case FunctionCallCost:
		return addWallets(c.Algebra(), walletAt(bc.Function.EntryPoint), walletAt(idx.Next(branchInfo.Target)))
	case WithdrawGasCost:
		if bc.Success {
			// A successful withdraw decouples the caller's wallet from
			// the downstream requirement: the post-withdraw wallet is
			// determined by the withdraw amount, solved for later, not
			// by what comes after.
			return WalletInfo[PreCost]{}
		}
		return addWallets(c.Algebra(), WalletInfo[PreCost]{}, walletAt(idx.Next(branchInfo.Target)))
	case RedepositGasCost:
		// TODO: redeposit_gas's interaction with the excess pass is
		// unspecified upstream; contributes zero for now.
		return addWallets(c.Algebra(), WalletInfo[PreCost]{}, walletAt(idx.Next(branchInfo.Target)))
	default:
		panic("unhandled BranchCost variant in PreCostContext.GetBranchRequirement")
	}
}

// PostcostContext is the post-cost policy: scalar Const-only accounting,
// excess handling enabled, and withdraw_gas priced from a const cost plus
// an optional builtin-cost circuit fed by the pre-cost pass's results.
type PostcostContext struct {
	GetAPChangeFn    GetAPChangeFn
	PrecostGasInfo   *GasInfo
	BuiltinCostSteps BuiltinCostWithdrawSteps
}

func (PostcostContext) Algebra() Algebra[int32] { return PostCostAlgebra{} }

func (PostcostContext) ShouldHandleExcess() bool { return true }

func (PostcostContext) ToCostMap(cost int32) map[TokenType]int64 {
	if cost == 0 {
		return map[TokenType]int64{}
	}
	return map[TokenType]int64{Const: int64(cost)}
}

func (PostcostContext) ToFullCostMap(cost int32) map[TokenType]int64 {
	return map[TokenType]int64{Const: int64(cost)}
}

func (c PostcostContext) GetGasWithdrawal(idx StatementIdx, branchCost BranchCost, walletValue int32, futureWalletValue int32) int32 {
	wg, ok := branchCost.(WithdrawGasCost)
	if !ok || !wg.Success {
		panic("GetGasWithdrawal called with a branch cost that is not WithdrawGas{success:true}")
	}
	withdrawGasCost := c.computeWithdrawGasCost(idx, wg.ConstCost, wg.WithBuiltinCosts)
	return futureWalletValue + withdrawGasCost - walletValue
}

func (c PostcostContext) GetBranchRequirement(walletAt func(StatementIdx) WalletInfo[int32], idx StatementIdx, branchInfo BranchInfo, branchCost BranchCost) WalletInfo[int32] {
	var branchCostVal int32
	switch bc := branchCost.(type) {
	case RegularBranchCost:
		branchCostVal = bc.ConstCost.Cost()
	case BranchAlignCost:
		apChange := c.GetAPChangeFn(idx)
		if apChange == 0 {
			branchCostVal = 0
		} else {
			branchCostVal = ConstCost{Steps: 1, Holes: int32(apChange), RangeChecks: 0}.Cost()
		}
	case FunctionCallCost:
		return addWallets(c.Algebra(), WalletInfo[int32]{Value: walletAt(bc.Function.EntryPoint).Value + bc.ConstCost.Cost()}, walletAt(idx.Next(branchInfo.Target)))
	case WithdrawGasCost:
		cost := c.computeWithdrawGasCost(idx, bc.ConstCost, bc.WithBuiltinCosts)
		if bc.Success {
			// Same decoupling rationale as the pre-cost pass: don't add
			// the downstream wallet value.
			return WalletInfo[int32]{Value: cost}
		}
		branchCostVal = cost
	case RedepositGasCost:
		branchCostVal = 0
	default:
		panic("unhandled BranchCost variant in PostcostContext.GetBranchRequirement")
	}
	return addWallets(c.Algebra(), WalletInfo[int32]{Value: branchCostVal}, walletAt(idx.Next(branchInfo.Target)))
}

// computeWithdrawGasCost prices a withdraw_gas invocation: its constant
// component, plus, when with_builtin_costs is set, a steps-only ConstCost
// derived from the pre-cost pass's variable values at idx fed through the
// builtin-cost-withdraw formula (an external collaborator, spec.md §6).
func (c PostcostContext) computeWithdrawGasCost(idx StatementIdx, constCost ConstCost, withBuiltinCosts bool) int32 {
	amount := constCost.Cost()
	if withBuiltinCosts {
		steps := c.BuiltinCostSteps(func(tt TokenType) int64 {
			return c.PrecostGasInfo.VariableValues[VariableKey{Idx: idx, Token: tt}]
		})
		amount += ConstCost{Steps: steps}.Cost()
	}
	return amount
}
