package gas

// WalletInfo carries the minimum wallet value required before a
// statement executes, for a given cost algebra T.
type WalletInfo[T any] struct {
	Value T
}

// mergeWallets computes the per-branch-max of several WalletInfo values:
// a statement's wallet requirement is the max over what each of its
// outgoing branches demands.
func mergeWallets[T any](alg Algebra[T], branches []WalletInfo[T]) WalletInfo[T] {
	values := make([]T, len(branches))
	for i, w := range branches {
		values[i] = w.Value
	}
	return WalletInfo[T]{Value: alg.Max(values)}
}

// addWallets is field-wise addition of two WalletInfo values.
func addWallets[T any](alg Algebra[T], a, b WalletInfo[T]) WalletInfo[T] {
	return WalletInfo[T]{Value: alg.Add(a.Value, b.Value)}
}
