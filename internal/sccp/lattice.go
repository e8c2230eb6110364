// Package sccp implements Sparse Conditional Constant Propagation over the
// internal/cps graph, following Wegman and Zadeck's "Constant Propagation
// with Conditional Branches": a two-worklist fixed-point solver discovers
// reachable code and constant values simultaneously, and a transformer
// rewrites the graph to exploit both facts.
package sccp

import "sccp/internal/cps"

// Kind tags the three levels of the abstract-value lattice (spec §3.2).
type Kind int

const (
	KindNothing Kind = iota
	KindConstant
	KindNonConst
)

// Value is an abstract value: Nothing ⊑ Constant(c,τ) ⊑ NonConst(τ). A zero
// Value is Nothing, matching the solver's convention that an absent map
// entry means Nothing (spec §3.3).
type Value struct {
	kind     Kind
	constVal cps.ConstantValue
	typ      Type
}

// Nothing is the bottom lattice element: no value has flowed here yet.
func Nothing() Value { return Value{kind: KindNothing} }

// ConstantVal constructs a known-constant abstract value. c must be
// non-nil (spec §4.1 invariant: "a Constant always carries a non-null
// constant").
func ConstantVal(c cps.ConstantValue, t Type) Value {
	if c == nil {
		panic("sccp: ConstantVal requires a non-nil constant")
	}
	return Value{kind: KindConstant, constVal: c, typ: t}
}

// NonConst constructs the top-but-one element: any runtime value of type t.
func NonConst(t Type) Value {
	if t == nil {
		panic("sccp: NonConst requires a non-nil type")
	}
	return Value{kind: KindNonConst, typ: t}
}

func (v Value) IsNothing() bool  { return v.kind == KindNothing }
func (v Value) IsConstant() bool { return v.kind == KindConstant }
func (v Value) IsNonConst() bool { return v.kind == KindNonConst }
func (v Value) Kind() Kind       { return v.kind }

// Constant returns the known constant value; only valid when IsConstant().
func (v Value) Constant() cps.ConstantValue { return v.constVal }

// Type returns the abstract type τ; valid for Constant and NonConst, not
// for Nothing (which carries no type, spec §4.1 invariant).
func (v Value) Type() Type { return v.typ }

// Join implements a ⊔ b (spec §3.2):
//   - either side Nothing  → the other side
//   - both Constant, equal → keep the Constant (types are joined too, so
//     precision is never lost if a wider type later flows in)
//   - otherwise             → NonConst with joined type
func (v Value) Join(other Value, ts TypeSystem) Value {
	if v.IsNothing() {
		return other
	}
	if other.IsNothing() {
		return v
	}
	if v.IsConstant() && other.IsConstant() && v.constVal.Equal(other.constVal) {
		return ConstantVal(v.constVal, ts.Join(v.typ, other.typ))
	}
	return NonConst(ts.Join(v.Type(), other.Type()))
}

// IsBool reports whether v is definitely a non-null boolean: vacuously true
// for Nothing (spec §4.1: "true when either the value is Nothing... or τ
// proves the value is strictly boolean and non-null").
func (v Value) IsBool(ts TypeSystem) bool {
	if v.IsNothing() {
		return true
	}
	return ts.IsDefinitelyBool(v.typ)
}

// rank gives the lattice's total order for the solver's monotonicity
// assertion (spec §4.4 "setValue"): a value may only move strictly upward.
func (k Kind) rank() int { return int(k) }

// LessOrEqual reports whether v ⊑ other in the Nothing ⊏ Constant ⊏
// NonConst order, ignoring the payload (used only to assert monotonic
// progression — two distinct Constants of the same rank never compare via
// this, they compare via Join's equality check instead).
func (v Value) LessOrEqual(other Value) bool {
	return v.kind.rank() <= other.kind.rank()
}

// Equal reports whether two abstract values are indistinguishable to the
// solver — used to detect "no progress" so setValue doesn't re-enqueue a
// definition whose join was a no-op (spec §4.4's worklist termination rule).
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNothing:
		return true
	case KindConstant:
		return v.constVal.Equal(other.constVal) && v.typ.String() == other.typ.String()
	case KindNonConst:
		return v.typ.String() == other.typ.String()
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNothing:
		return "⊥"
	case KindConstant:
		return "const(" + v.constVal.String() + ": " + v.typ.String() + ")"
	case KindNonConst:
		return "nonconst(" + v.typ.String() + ")"
	default:
		return "<bad lattice value>"
	}
}
