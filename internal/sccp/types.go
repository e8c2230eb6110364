package sccp

import (
	"strconv"

	"sccp/internal/cps"
)

// Type is the abstract type domain τ the lattice's Constant/NonConst
// variants carry. The core never constructs a Type itself — it only joins
// and queries the ones a TypeSystem hands back (spec §4.2).
type Type interface {
	String() string
}

// TypeSystem is the external collaborator the spec describes in §4.2: a
// source of named top-level types, return-type queries, and the join and
// isDefinitelyBool operations the lattice needs. Two concrete realizations
// are required (and provided below): UnitTypeSystem for when no type
// inference has run, and TypeMaskTypeSystem for post-inference precision.
type TypeSystem interface {
	Dynamic() Type
	TypeType() Type
	Function() Type
	Bool() Type
	Int() Type
	String() Type
	List() Type
	Map() Type

	// ReturnType answers "what type could a call to this static/top-level
	// function produce?".
	ReturnType(functionName string) Type
	// SelectorReturnType answers the same question for a polymorphic
	// method call site.
	SelectorReturnType(sel cps.Selector) Type
	// ParameterType turns a front-end type hint (possibly "") into τ.
	ParameterType(hint string) Type

	Join(a, b Type) Type
	TypeOf(c cps.ConstantValue) Type
	IsDefinitelyBool(t Type) bool
}

// --- UnitTypeSystem -------------------------------------------------------

// unitType is the single token every query collapses to when no type
// information is available.
type unitType struct{}

func (unitType) String() string { return "dynamic" }

// UnitTypeSystem is the degenerate TypeSystem used before/without type
// inference: every type is the same token, join is a no-op, and nothing
// can ever be proven to be definitely boolean (spec §4.2).
type UnitTypeSystem struct{}

var theUnitType Type = unitType{}

func (UnitTypeSystem) Dynamic() Type  { return theUnitType }
func (UnitTypeSystem) TypeType() Type { return theUnitType }
func (UnitTypeSystem) Function() Type { return theUnitType }
func (UnitTypeSystem) Bool() Type     { return theUnitType }
func (UnitTypeSystem) Int() Type      { return theUnitType }
func (UnitTypeSystem) String() Type   { return theUnitType }
func (UnitTypeSystem) List() Type     { return theUnitType }
func (UnitTypeSystem) Map() Type      { return theUnitType }

func (UnitTypeSystem) ReturnType(string) Type              { return theUnitType }
func (UnitTypeSystem) SelectorReturnType(cps.Selector) Type { return theUnitType }
func (UnitTypeSystem) ParameterType(string) Type            { return theUnitType }
func (UnitTypeSystem) Join(Type, Type) Type                 { return theUnitType }
func (UnitTypeSystem) TypeOf(cps.ConstantValue) Type        { return theUnitType }
func (UnitTypeSystem) IsDefinitelyBool(Type) bool           { return false }

// --- TypeMaskTypeSystem ----------------------------------------------------

// maskBit is a one-hot bit for each primitive kind the mask tracks. Modeled
// after the teacher's own named-builtin-type registry (internal/types),
// generalized from Kanso's concrete surface types into a union-of-bits
// abstract domain per spec §4.2.
type maskBit uint32

const (
	bitBool maskBit = 1 << iota
	bitInt
	bitDouble
	bitString
	bitList
	bitMap
	bitFunction
	bitType
	bitObject // catch-all for class instances/unknown object kinds
)

const bitAll = bitBool | bitInt | bitDouble | bitString | bitList | bitMap | bitFunction | bitType | bitObject

// mask is a type-mask: a set of possible runtime kinds plus a nullable bit,
// exactly the shape the compiler's own dataflow-inferred type masks have
// (spec §4.2 "wraps the compiler's dataflow-inferred type masks").
type mask struct {
	bits     maskBit
	nullable bool
}

func (m mask) String() string {
	if m.bits == bitAll && m.nullable {
		return "dynamic"
	}
	names := []struct {
		bit  maskBit
		name string
	}{
		{bitBool, "bool"}, {bitInt, "int"}, {bitDouble, "double"}, {bitString, "string"},
		{bitList, "list"}, {bitMap, "map"}, {bitFunction, "function"}, {bitType, "type"},
		{bitObject, "object"},
	}
	s := ""
	for _, n := range names {
		if m.bits&n.bit != 0 {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		s = "none"
	}
	if m.nullable {
		s += "?"
	}
	return s
}

func (m mask) join(o mask) mask {
	return mask{bits: m.bits | o.bits, nullable: m.nullable || o.nullable}
}

// TypeMaskTypeSystem wraps the compiler's dataflow-inferred type masks
// (spec §4.2): join is mask-union, and IsDefinitelyBool tests
// "containsOnlyBool ∧ ¬nullable".
type TypeMaskTypeSystem struct {
	// Signatures maps a static/top-level function name to its declared
	// return-type hint, and Selectors maps "name/arity" to its return-type
	// hint, both resolved through ParameterType's hint table. A nil map
	// behaves as "nothing known", same as the zero-value TypeMaskTypeSystem.
	Signatures map[string]string
	Selectors  map[string]string
}

func (t TypeMaskTypeSystem) Dynamic() Type  { return mask{bits: bitAll, nullable: true} }
func (t TypeMaskTypeSystem) TypeType() Type { return mask{bits: bitType} }
func (t TypeMaskTypeSystem) Function() Type { return mask{bits: bitFunction} }
func (t TypeMaskTypeSystem) Bool() Type     { return mask{bits: bitBool} }
func (t TypeMaskTypeSystem) Int() Type      { return mask{bits: bitInt} }
func (t TypeMaskTypeSystem) String() Type   { return mask{bits: bitString} }
func (t TypeMaskTypeSystem) List() Type     { return mask{bits: bitList} }
func (t TypeMaskTypeSystem) Map() Type      { return mask{bits: bitMap} }

func (t TypeMaskTypeSystem) ReturnType(functionName string) Type {
	if hint, ok := t.Signatures[functionName]; ok {
		return t.ParameterType(hint)
	}
	return t.Dynamic()
}

func (t TypeMaskTypeSystem) SelectorReturnType(sel cps.Selector) Type {
	if hint, ok := t.Selectors[sel.Name+"/"+strconv.Itoa(sel.Arity)]; ok {
		return t.ParameterType(hint)
	}
	return t.Dynamic()
}

func (t TypeMaskTypeSystem) ParameterType(hint string) Type {
	switch hint {
	case "bool":
		return t.Bool()
	case "int":
		return t.Int()
	case "double":
		return t.mask0(bitDouble)
	case "string", "String":
		return t.String()
	case "list", "List":
		return t.List()
	case "map", "Map":
		return t.Map()
	case "function", "Function":
		return t.Function()
	case "":
		return t.Dynamic()
	default:
		return t.Dynamic()
	}
}

func (t TypeMaskTypeSystem) mask0(b maskBit) Type { return mask{bits: b} }

func (t TypeMaskTypeSystem) Join(a, b Type) Type {
	am, aok := a.(mask)
	bm, bok := b.(mask)
	if !aok || !bok {
		return t.Dynamic()
	}
	return am.join(bm)
}

func (t TypeMaskTypeSystem) TypeOf(c cps.ConstantValue) Type {
	switch v := c.(type) {
	case *cps.PrimitiveConstant:
		switch v.Kind {
		case cps.KindBool:
			return t.Bool()
		case cps.KindInt:
			return t.Int()
		case cps.KindDouble:
			return t.mask0(bitDouble)
		case cps.KindString:
			return t.String()
		case cps.KindNull:
			return mask{bits: 0, nullable: true}
		}
	case *cps.FunctionConstant:
		return t.Function()
	}
	return t.Dynamic()
}

func (t TypeMaskTypeSystem) IsDefinitelyBool(typ Type) bool {
	m, ok := typ.(mask)
	if !ok {
		return false
	}
	return m.bits == bitBool && !m.nullable
}
