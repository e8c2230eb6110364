package sccp

import "sccp/internal/cps"

// Materialize turns a constant value the Analyzer discovered back into a
// literal the Transformer can splice into the graph as a Constant primitive
// (spec §4.6). Only primitive constants (bool/int/double/string/null) have a
// literal IR form; composite constants such as FunctionConstant or
// ListConstant exist purely so the lattice can say "this is some known
// constant", not so the Transformer can rebuild one from scratch — ok is
// false for those, and the caller must leave the original computation that
// produced the value in place.
func Materialize(c cps.ConstantValue) (cps.ConstantValue, bool) {
	if c == nil || !c.IsPrimitive() {
		return nil, false
	}
	return c, true
}
