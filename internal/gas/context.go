package gas

// costContext owns the program, the libfunc-cost oracle, and the
// per-statement wallet cache (spec.md §4.D). It drives the forward
// wallet-preparation pass and, for policies that ask for it, the
// backward excess-propagation pass.
type costContext[T any] struct {
	program   *Program
	getCostFn GetCostFn
	costs     map[StatementIdx]WalletInfo[T]
}

func newCostContext[T any](program *Program, getCostFn GetCostFn) *costContext[T] {
	return &costContext[T]{
		program:   program,
		getCostFn: getCostFn,
		costs:     make(map[StatementIdx]WalletInfo[T]),
	}
}

func (c *costContext[T]) getCost(libfuncID string) []BranchCost {
	return c.getCostFn(libfuncID)
}

// walletAt returns the required wallet value before executing statement
// idx. Panics if prepareWallet has not yet filled it — consulting the
// wallet before preparation is a programmer error, not a recoverable one.
func (c *costContext[T]) walletAt(idx StatementIdx) WalletInfo[T] {
	w, ok := c.costs[idx]
	if !ok {
		panic("wallet value was not yet computed for this statement; prepareWallet must run first")
	}
	return w
}

// prepareWallet fills walletAt for every statement by visiting them in
// reverse-topological order over the branch-requirement dependency graph
// (spec.md §4.D).
func (c *costContext[T]) prepareWallet(specific SpecificCostContext[T]) error {
	order, err := topologicalOrder(len(c.program.Statements), func(idx StatementIdx) []StatementIdx {
		stmt := c.program.GetStatement(idx)
		if stmt.Return {
			return nil
		}
		return branchRequirementDependencies(idx, stmt.Invocation, c.getCost(stmt.Invocation.LibfuncID))
	})
	if err != nil {
		return err
	}

	for _, idx := range order {
		c.costs[idx] = c.noCacheComputeWalletAt(idx, specific)
	}
	return nil
}

// noCacheComputeWalletAt computes the wallet value at idx assuming every
// dependency's value is already present in the cache.
func (c *costContext[T]) noCacheComputeWalletAt(idx StatementIdx, specific SpecificCostContext[T]) WalletInfo[T] {
	stmt := c.program.GetStatement(idx)
	if stmt.Return {
		return WalletInfo[T]{Value: specific.Algebra().Zero()}
	}

	invocation := stmt.Invocation
	libfuncCost := c.getCost(invocation.LibfuncID)
	requirements := branchRequirements(specific, c.walletAt, idx, invocation, libfuncCost)
	return mergeWallets(specific.Algebra(), requirements)
}

// branchRequirementDependencies returns the statements whose wallet
// value is needed to compute the branch requirements of idx (spec.md
// §4.D/prepare_wallet).
func branchRequirementDependencies(idx StatementIdx, invocation *Invocation, libfuncCost []BranchCost) []StatementIdx {
	var res []StatementIdx
	seen := make(map[StatementIdx]bool)
	add := func(dep StatementIdx) {
		if !seen[dep] {
			seen[dep] = true
			res = append(res, dep)
		}
	}

	for i, branchInfo := range invocation.Branches {
		switch bc := libfuncCost[i].(type) {
		case FunctionCallCost:
			add(bc.Function.EntryPoint)
		case WithdrawGasCost:
			if bc.Success {
				// A successful withdraw decouples the caller's wallet
				// from the downstream requirement; don't add it as a
				// dependency, or the dataflow would be needlessly
				// cyclic for any loop bounded by a withdraw.
				continue
			}
		}
		add(idx.Next(branchInfo.Target))
	}
	return res
}

// branchRequirements computes, for each outgoing branch of invocation,
// the WalletInfo required before the statement if that branch is taken.
func branchRequirements[T any](specific SpecificCostContext[T], walletAt func(StatementIdx) WalletInfo[T], idx StatementIdx, invocation *Invocation, libfuncCost []BranchCost) []WalletInfo[T] {
	out := make([]WalletInfo[T], len(invocation.Branches))
	for i, branchInfo := range invocation.Branches {
		out[i] = specific.GetBranchRequirement(walletAt, idx, branchInfo, libfuncCost[i])
	}
	return out
}

// computeTargetValues builds a second topological order that treats
// every branch edge as a dependency (including WithdrawGas success and
// FunctionCall) but does not follow into callee bodies, then walks it in
// reverse to propagate surplus wallet value ("excess") forward (spec.md
// §4.D/compute_target_values). The returned map is wallet_at(idx) +
// excess(idx) for every statement.
func (c *costContext[T]) computeTargetValues(specific SpecificCostContext[T]) (map[StatementIdx]T, error) {
	order, err := topologicalOrder(len(c.program.Statements), func(idx StatementIdx) []StatementIdx {
		stmt := c.program.GetStatement(idx)
		if stmt.Return {
			return nil
		}
		deps := make([]StatementIdx, len(stmt.Invocation.Branches))
		for i, b := range stmt.Invocation.Branches {
			deps[i] = idx.Next(b.Target)
		}
		return deps
	})
	if err != nil {
		return nil, err
	}

	excess := make(map[StatementIdx]T)
	finalized := make(map[StatementIdx]bool)

	for i := len(order) - 1; i >= 0; i-- {
		c.handleExcessAt(order[i], specific, excess, finalized)
	}

	target := make(map[StatementIdx]T, len(c.program.Statements))
	for i := range c.program.Statements {
		idx := StatementIdx(i)
		e, ok := excess[idx]
		if !ok {
			e = specific.Algebra().Zero()
		}
		target[idx] = specific.Algebra().Add(c.walletAt(idx).Value, e)
	}
	return target, nil
}

// handleExcessAt pushes the excess at idx to its successors, taking the
// per-token min of whatever a successor already has (if any) with what
// idx is offering. Successors already finalized (visited earlier in this
// reverse walk) are left untouched: that preserves the invariant that a
// statement's excess is the greatest lower bound of excess arriving from
// any of its predecessors on the reverse walk.
//
// TODO: withdraw_gas should decrement the excess it passes on by the
// planned withdrawal (so excess is spent instead of withdrawn),
// redeposit_gas should consume all local excess, and branch_align should
// add its alignment delta to the excess it passes on. None of the three
// adjustments is implemented yet — this mirrors the current upstream
// passthrough behavior exactly (see DESIGN.md Open Question 1).
func (c *costContext[T]) handleExcessAt(idx StatementIdx, specific SpecificCostContext[T], excess map[StatementIdx]T, finalized map[StatementIdx]bool) {
	finalized[idx] = true

	currentExcess, ok := excess[idx]
	if !ok {
		currentExcess = specific.Algebra().Zero()
	}

	stmt := c.program.GetStatement(idx)
	if stmt.Return {
		// Excess cannot be carried past a Return; simply drop it.
		return
	}
	invocation := stmt.Invocation

	for _, branchInfo := range invocation.Branches {
		branchStatement := idx.Next(branchInfo.Target)
		if finalized[branchStatement] {
			// Matches the upstream implementation: stop propagating
			// excess from idx entirely once one successor turns out to
			// already be finalized, rather than skipping just that one.
			return
		}

		actualExcess := currentExcess

		if existing, ok := excess[branchStatement]; ok {
			excess[branchStatement] = specific.Algebra().Min2(existing, actualExcess)
		} else {
			excess[branchStatement] = actualExcess
		}
	}
}
