package sccp

import (
	"math/big"

	"sccp/internal/cps"
)

// StdConstantSystem is the default ConstantSystem: a lookup table of
// operator folders. Grounded on the teacher's own
// internal/ir/optimizations.go ConstantFolding.computeBinaryOp, lifted from
// one ad hoc switch into the UnaryOp/BinaryOp lookup tables spec §4.3
// requires, and extended to the arbitrary-precision integers and the
// boolean short-circuit operators primitive-level CPS IR actually carries.
type StdConstantSystem struct{}

func asPrimitive(c cps.ConstantValue) (*cps.PrimitiveConstant, bool) {
	p, ok := c.(*cps.PrimitiveConstant)
	return p, ok
}

func (StdConstantSystem) LookupUnary(op string) (UnaryOp, bool) {
	switch op {
	case "-", "unary-":
		return unaryFoldFunc(func(c cps.ConstantValue) (cps.ConstantValue, bool) {
			p, ok := asPrimitive(c)
			if !ok || p.Kind != cps.KindInt {
				if ok && p.Kind == cps.KindDouble {
					return cps.Double(-p.Dbl), true
				}
				return nil, false
			}
			return cps.Int(new(big.Int).Neg(p.Int)), true
		}), true
	case "!":
		return unaryFoldFunc(func(c cps.ConstantValue) (cps.ConstantValue, bool) {
			p, ok := asPrimitive(c)
			if !ok || p.Kind != cps.KindBool {
				return nil, false
			}
			return cps.Bool(!p.Bool), true
		}), true
	default:
		return nil, false
	}
}

func (StdConstantSystem) LookupBinary(op string) (BinaryOp, bool) {
	switch op {
	case "+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		return binaryFoldFunc(func(l, r cps.ConstantValue) (cps.ConstantValue, bool) {
			return foldBinary(op, l, r)
		}), true
	default:
		return nil, false
	}
}

func foldBinary(op string, l, r cps.ConstantValue) (cps.ConstantValue, bool) {
	lp, lok := asPrimitive(l)
	rp, rok := asPrimitive(r)
	if !lok || !rok {
		return nil, false
	}

	if lp.Kind == cps.KindInt && rp.Kind == cps.KindInt {
		return foldIntBinary(op, lp.Int, rp.Int)
	}
	if lp.Kind == cps.KindBool && rp.Kind == cps.KindBool {
		return foldBoolBinary(op, lp.Bool, rp.Bool)
	}
	if lp.Kind == cps.KindString && rp.Kind == cps.KindString && (op == "==" || op == "!=" || op == "+") {
		return foldStringBinary(op, lp.Str, rp.Str)
	}
	return nil, false
}

func foldIntBinary(op string, l, r *big.Int) (cps.ConstantValue, bool) {
	switch op {
	case "+":
		return cps.Int(new(big.Int).Add(l, r)), true
	case "-":
		return cps.Int(new(big.Int).Sub(l, r)), true
	case "*":
		return cps.Int(new(big.Int).Mul(l, r)), true
	case "/":
		if r.Sign() == 0 {
			return nil, false
		}
		return cps.Int(new(big.Int).Quo(l, r)), true
	case "%":
		if r.Sign() == 0 {
			return nil, false
		}
		return cps.Int(new(big.Int).Rem(l, r)), true
	case "==":
		return cps.Bool(l.Cmp(r) == 0), true
	case "!=":
		return cps.Bool(l.Cmp(r) != 0), true
	case "<":
		return cps.Bool(l.Cmp(r) < 0), true
	case "<=":
		return cps.Bool(l.Cmp(r) <= 0), true
	case ">":
		return cps.Bool(l.Cmp(r) > 0), true
	case ">=":
		return cps.Bool(l.Cmp(r) >= 0), true
	default:
		return nil, false
	}
}

func foldBoolBinary(op string, l, r bool) (cps.ConstantValue, bool) {
	switch op {
	case "&&":
		return cps.Bool(l && r), true
	case "||":
		return cps.Bool(l || r), true
	case "==":
		return cps.Bool(l == r), true
	case "!=":
		return cps.Bool(l != r), true
	default:
		return nil, false
	}
}

func foldStringBinary(op string, l, r string) (cps.ConstantValue, bool) {
	switch op {
	case "==":
		return cps.Bool(l == r), true
	case "!=":
		return cps.Bool(l != r), true
	case "+":
		return cps.Str(l + r), true
	default:
		return nil, false
	}
}

// IsSubtype implements the only subtype query the core actually needs:
// folding `null is T` (spec §4.4). Everything else defers to the supplied
// DartTypes.IsSubtype, which callers can back with a real class hierarchy;
// the default behavior here only recognizes Null/Object by name.
func (StdConstantSystem) IsSubtype(types DartTypes, t1, t2 string) bool {
	return types.IsSubtype(t1, t2)
}

// StdDartTypes is a minimal DartTypes that only knows the two names the
// `null is T` folding law (spec §4.4, §8) cares about; any richer subtype
// relation should be supplied by the front end via the Hierarchy field.
type StdDartTypes struct {
	Null   string
	Object string
	// Hierarchy maps a type name to the set of its supertypes (excluding
	// itself). The analyzer only ever queries it with the Null name as the
	// subtype, while folding `null is T`; an `is` check on a non-null
	// constant is not folded. May be nil.
	Hierarchy map[string][]string
}

func (d StdDartTypes) NullTypeName() string   { return d.Null }
func (d StdDartTypes) ObjectTypeName() string { return d.Object }

func (d StdDartTypes) IsSubtype(sub, super string) bool {
	if sub == super {
		return true
	}
	for _, s := range d.Hierarchy[sub] {
		if s == super {
			return true
		}
	}
	return false
}

// NewStdDartTypes returns the conventional Null/Object names used by the
// test fixtures and CLI front end.
func NewStdDartTypes() StdDartTypes {
	return StdDartTypes{Null: "Null", Object: "Object"}
}
