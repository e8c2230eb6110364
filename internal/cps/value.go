package cps

import (
	"fmt"
	"math/big"
)

// ConstantValue is the concrete value carried by a Constant definition. Most
// constants are primitive (bool/int/double/string/null) and can be folded
// and materialized directly; the remaining composite forms exist so the
// lattice can still represent "this is a known constant of some kind" for
// values like CreateFunction results, even though the Materializer (§4.6)
// refuses to turn them back into IR.
type ConstantValue interface {
	// IsPrimitive reports whether this constant can participate in
	// operator folding and materialization.
	IsPrimitive() bool
	String() string
	// Equal is structural equality, used by the lattice join (spec §3.2).
	Equal(other ConstantValue) bool
}

// PrimitiveKind enumerates the primitive constant forms the Materializer
// supports (spec §4.6).
type PrimitiveKind int

const (
	KindBool PrimitiveKind = iota
	KindInt
	KindDouble
	KindString
	KindNull
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// PrimitiveConstant is a statically known bool, int, double, string or null.
type PrimitiveConstant struct {
	Kind PrimitiveKind
	Bool bool
	Int  *big.Int
	Dbl  float64
	Str  string
}

func Bool(v bool) *PrimitiveConstant { return &PrimitiveConstant{Kind: KindBool, Bool: v} }
func Int(v *big.Int) *PrimitiveConstant {
	return &PrimitiveConstant{Kind: KindInt, Int: v}
}
func IntFromInt64(v int64) *PrimitiveConstant {
	return &PrimitiveConstant{Kind: KindInt, Int: big.NewInt(v)}
}
func Double(v float64) *PrimitiveConstant { return &PrimitiveConstant{Kind: KindDouble, Dbl: v} }
func Str(v string) *PrimitiveConstant     { return &PrimitiveConstant{Kind: KindString, Str: v} }
func Null() *PrimitiveConstant            { return &PrimitiveConstant{Kind: KindNull} }

func (p *PrimitiveConstant) IsPrimitive() bool { return true }

func (p *PrimitiveConstant) String() string {
	switch p.Kind {
	case KindBool:
		return fmt.Sprintf("%t", p.Bool)
	case KindInt:
		return p.Int.String()
	case KindDouble:
		return fmt.Sprintf("%g", p.Dbl)
	case KindString:
		return fmt.Sprintf("%q", p.Str)
	case KindNull:
		return "null"
	default:
		return "<bad primitive constant>"
	}
}

func (p *PrimitiveConstant) Equal(other ConstantValue) bool {
	o, ok := other.(*PrimitiveConstant)
	if !ok || o.Kind != p.Kind {
		return false
	}
	switch p.Kind {
	case KindBool:
		return p.Bool == o.Bool
	case KindInt:
		return p.Int.Cmp(o.Int) == 0
	case KindDouble:
		return p.Dbl == o.Dbl
	case KindString:
		return p.Str == o.Str
	case KindNull:
		return true
	default:
		return false
	}
}

// FunctionConstant is the constant value of a CreateFunction primitive: a
// reference to a known, closed-over function element. Composite (not
// primitive) per spec §4.6 — the Materializer must reject it.
type FunctionConstant struct {
	Element string
}

func (f *FunctionConstant) IsPrimitive() bool { return false }
func (f *FunctionConstant) String() string    { return fmt.Sprintf("function(%s)", f.Element) }
func (f *FunctionConstant) Equal(other ConstantValue) bool {
	o, ok := other.(*FunctionConstant)
	return ok && o.Element == f.Element
}

// ListConstant, MapConstant, ConstructedConstant, TypeConstant,
// DeferredConstant, DummyConstant and InterceptorConstant are the remaining
// composite constant forms spec §4.6 names. None of them is ever produced
// by the Analyzer (LiteralList/LiteralMap/CreateInstance always yield
// NonConst, spec §4.4), but the types exist so the taxonomy in the spec has
// a concrete home and so a future analyzer extension has somewhere to put
// them without inventing a new constant representation.

type ListConstant struct{ Elements []ConstantValue }

func (l *ListConstant) IsPrimitive() bool { return false }
func (l *ListConstant) String() string    { return "list-constant" }
func (l *ListConstant) Equal(other ConstantValue) bool { _, ok := other.(*ListConstant); return ok }

type MapConstant struct{ Entries map[string]ConstantValue }

func (m *MapConstant) IsPrimitive() bool { return false }
func (m *MapConstant) String() string    { return "map-constant" }
func (m *MapConstant) Equal(other ConstantValue) bool { _, ok := other.(*MapConstant); return ok }

type ConstructedConstant struct{ ClassName string }

func (c *ConstructedConstant) IsPrimitive() bool { return false }
func (c *ConstructedConstant) String() string    { return fmt.Sprintf("constructed(%s)", c.ClassName) }
func (c *ConstructedConstant) Equal(other ConstantValue) bool {
	o, ok := other.(*ConstructedConstant)
	return ok && o.ClassName == c.ClassName
}

type TypeConstant struct{ TypeName string }

func (t *TypeConstant) IsPrimitive() bool { return false }
func (t *TypeConstant) String() string    { return fmt.Sprintf("type(%s)", t.TypeName) }
func (t *TypeConstant) Equal(other ConstantValue) bool {
	o, ok := other.(*TypeConstant)
	return ok && o.TypeName == t.TypeName
}

type DeferredConstant struct{ Name string }

func (d *DeferredConstant) IsPrimitive() bool { return false }
func (d *DeferredConstant) String() string    { return fmt.Sprintf("deferred(%s)", d.Name) }
func (d *DeferredConstant) Equal(other ConstantValue) bool {
	o, ok := other.(*DeferredConstant)
	return ok && o.Name == d.Name
}

type DummyConstant struct{}

func (d *DummyConstant) IsPrimitive() bool             { return false }
func (d *DummyConstant) String() string                { return "dummy" }
func (d *DummyConstant) Equal(other ConstantValue) bool { _, ok := other.(*DummyConstant); return ok }

type InterceptorConstant struct{ TypeName string }

func (i *InterceptorConstant) IsPrimitive() bool { return false }
func (i *InterceptorConstant) String() string    { return fmt.Sprintf("interceptor(%s)", i.TypeName) }
func (i *InterceptorConstant) Equal(other ConstantValue) bool {
	o, ok := other.(*InterceptorConstant)
	return ok && o.TypeName == i.TypeName
}
