package gas

// ConstCost is the triple of machine-level resources reduced to a single
// scalar by a fixed linear formula. Steps, holes, and range checks are
// non-negative by construction of the libfunc-cost oracle.
type ConstCost struct {
	Steps       int32
	Holes       int32
	RangeChecks int32
}

// Coefficients of the linear formula steps*S + holes*H + range_checks*R.
// These mirror the target VM's ABI; callers that need different
// coefficients should scale their libfunc-cost oracle accordingly, not
// edit these constants in place.
const (
	stepCost       int32 = 100
	holeCost       int32 = 10
	rangeCheckCost int32 = 70
)

// Cost reduces the triple to a single scalar.
func (c ConstCost) Cost() int32 {
	return c.Steps*stepCost + c.Holes*holeCost + c.RangeChecks*rangeCheckCost
}

// BranchCost is the tagged variant attached to each outgoing edge of an
// Invocation statement. Exactly one of the concrete types below is valid
// per branch.
type BranchCost interface {
	isBranchCost()
}

// RegularBranchCost is a plain cost: a constant scalar component plus a
// per-token-type pre-cost component.
type RegularBranchCost struct {
	ConstCost ConstCost
	PreCost   PreCost
}

// BranchAlignCost marks a branch_align edge; its scalar cost is derived
// from the AP-change oracle in the post-cost pass (§4.E) and is zero in
// the pre-cost pass.
type BranchAlignCost struct{}

// FunctionCallCost references a callee entry point; the branch
// requirement includes that callee's wallet value.
type FunctionCallCost struct {
	ConstCost ConstCost
	Function  FunctionRef
}

// WithdrawGasCost models one of the two edges of a withdraw_gas
// invocation (success and failure share the same libfunc call).
type WithdrawGasCost struct {
	ConstCost        ConstCost
	Success          bool
	WithBuiltinCosts bool
}

// RedepositGasCost marks a redeposit_gas edge. Contributes zero to the
// branch requirement in both cost algebras; its interaction with the
// excess pass is unspecified upstream (see DESIGN.md Open Question 2).
type RedepositGasCost struct{}

func (RegularBranchCost) isBranchCost() {}
func (BranchAlignCost) isBranchCost()   {}
func (FunctionCallCost) isBranchCost()  {}
func (WithdrawGasCost) isBranchCost()   {}
func (RedepositGasCost) isBranchCost()  {}

// FunctionRef identifies a callee by its entry-point statement.
type FunctionRef struct {
	ID         string
	EntryPoint StatementIdx
}
