package gas

import "fmt"

// StatementIdx identifies a position in a Program's flat statement list.
type StatementIdx int

func (idx StatementIdx) String() string {
	return fmt.Sprintf("%d", int(idx))
}

// Next resolves a branch target relative to idx. The IR is responsible
// for the actual offset/label resolution; callers of this package supply
// targets that are already absolute statement indices, matching how the
// upstream IR's BranchInfo.target works once resolved by the front end.
func (idx StatementIdx) Next(target StatementIdx) StatementIdx {
	return target
}

// BranchInfo is one outgoing edge of an Invocation statement.
type BranchInfo struct {
	Target StatementIdx
}

// Invocation is a statement that names a libfunc and lists its outgoing
// branches. The number of branches must match the number of BranchCost
// entries the libfunc-cost oracle returns for LibfuncID.
type Invocation struct {
	LibfuncID string
	Branches  []BranchInfo
}

// Statement is either a Return or an Invocation. Exactly one of the two
// fields is set.
type Statement struct {
	Return     bool
	Invocation *Invocation
}

// Function associates an identifier with the statement index of its
// entry point.
type Function struct {
	ID         string
	EntryPoint StatementIdx
}

// Program is the flat list of statements the analyzer operates over,
// plus the set of functions whose entry points need a reported cost.
type Program struct {
	Statements []Statement
	Functions  []Function
}

// GetStatement returns the statement at idx. Panics on an out-of-range
// index: an out-of-range statement index is a malformed program, a
// programmer/front-end error rather than a recoverable analyzer failure.
func (p *Program) GetStatement(idx StatementIdx) Statement {
	return p.Statements[int(idx)]
}

// GetCostFn is the libfunc-cost oracle: a pure, deterministic function
// from a concrete libfunc identifier to the list of branch costs, one
// entry per branch of every invocation of that libfunc.
type GetCostFn func(libfuncID string) []BranchCost

// GetAPChangeFn is the AP-change oracle consulted by the post-cost pass
// at branch_align statements.
type GetAPChangeFn func(idx StatementIdx) int
