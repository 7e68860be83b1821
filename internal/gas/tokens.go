package gas

// TokenType is the closed enumeration of resource flavors the pre-cost
// algebra tracks. The post-cost algebra only ever produces Const.
type TokenType string

const (
	Const     TokenType = "Const"
	Pedersen  TokenType = "Pedersen"
	Bitwise   TokenType = "Bitwise"
	EcOp      TokenType = "EcOp"
	Poseidon  TokenType = "Poseidon"
	AddMod    TokenType = "AddMod"
	MulMod    TokenType = "MulMod"
)

// precostTokenTypes enumerates every token type tracked by the pre-cost
// pass, i.e. every TokenType other than Const. Order is fixed so that
// ToFullCostMap output is deterministic across runs.
var precostTokenTypes = []TokenType{
	Pedersen,
	Bitwise,
	EcOp,
	Poseidon,
	AddMod,
	MulMod,
}
