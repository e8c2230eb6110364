package sccp

import "sccp/internal/cps"

// UnaryOp folds a unary primitive operator over a constant operand.
type UnaryOp interface {
	Fold(c cps.ConstantValue) (cps.ConstantValue, bool)
}

// BinaryOp folds a binary primitive operator over two constant operands.
type BinaryOp interface {
	Fold(lhs, rhs cps.ConstantValue) (cps.ConstantValue, bool)
}

// DartTypes is the minimal "coreTypes + subtype query" handle spec §6
// requires for `is`-check folding: Null and Object are the only two types
// the core needs to name directly (null is T folds to true only when T is
// one of these two, spec §4.4).
type DartTypes interface {
	NullTypeName() string
	ObjectTypeName() string
	IsSubtype(sub, super string) bool
}

// ConstantSystem is the external collaborator of spec §4.3: it folds
// primitive unary/binary operators and answers subtype queries for `is`
// folding. Fold failures (unrecognized operator, operands outside the
// folding domain) are represented by the ok=false return, which the solver
// treats as "stays NonConst" — never as an error (spec §7).
type ConstantSystem interface {
	LookupUnary(op string) (UnaryOp, bool)
	LookupBinary(op string) (BinaryOp, bool)
	IsSubtype(types DartTypes, t1, t2 string) bool
}

type unaryFoldFunc func(cps.ConstantValue) (cps.ConstantValue, bool)

func (f unaryFoldFunc) Fold(c cps.ConstantValue) (cps.ConstantValue, bool) { return f(c) }

type binaryFoldFunc func(lhs, rhs cps.ConstantValue) (cps.ConstantValue, bool)

func (f binaryFoldFunc) Fold(l, r cps.ConstantValue) (cps.ConstantValue, bool) { return f(l, r) }
