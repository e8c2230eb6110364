package cps

// Parameter is a function or continuation parameter. At a RootNode it
// behaves like an ordinary SSA value bound once at entry; at a Continuation
// it behaves as a phi-node, accruing its value from every InvokeContinuation
// that targets the owning continuation (spec §4.4, §9).
type Parameter struct {
	DefinitionBase
	Name string
	// TypeHint names the parameter's static type, if the front end
	// supplied one ("" means unknown/dynamic). The TypeSystem
	// (package sccp) is responsible for turning this into an abstract τ.
	TypeHint string
}

// Continuation is a named block with parameters (spec glossary). It is a
// Definition (its invocations are references, and its parameters are
// φ-nodes) as well as the owner of a Body expression that runs once the
// continuation becomes reachable.
type Continuation struct {
	DefinitionBase
	Params []*Parameter
	body   Expression
	// IsReturn marks the implicit "return to caller" continuation threaded
	// through a RootNode.
	IsReturn bool
}

func (c *Continuation) Body() Expression     { return c.body }
func (c *Continuation) SetBody(b Expression) { c.body = b }

// MutableVariable is a boxed, explicitly get/set variable, bound by
// LetMutable or DeclareFunction.
type MutableVariable struct {
	DefinitionBase
	Name string
}

// Constant is a primitive definition carrying a statically known value.
type Constant struct {
	PrimitiveBase
	Value ConstantValue
}

// LiteralList and LiteralMap construct runtime list/map values; unlike
// Constant they are never themselves constant-foldable (spec §4.4).
type LiteralList struct {
	PrimitiveBase
	Elements []*Reference
}

type LiteralMapEntry struct {
	Key   *Reference
	Value *Reference
}

type LiteralMap struct {
	PrimitiveBase
	Entries []LiteralMapEntry
}

// CreateFunction closes over a function element, yielding a Constant
// FunctionConstant value (spec §4.4 "CreateFunction").
type CreateFunction struct {
	PrimitiveBase
	Element string
}

// CreateBox allocates a fresh mutable-cell box.
type CreateBox struct {
	PrimitiveBase
}

// CreateInstance constructs an object of a known class.
type CreateInstance struct {
	PrimitiveBase
	ClassName string
	Args      []*Reference
}

// GetField, GetStatic and GetMutableVariable read from memory the core
// cannot see through (spec's "Non-goals: recovery of constants through
// memory").
type GetField struct {
	PrimitiveBase
	Object    *Reference
	FieldName string
}

type GetStatic struct {
	PrimitiveBase
	Name string
}

type GetMutableVariable struct {
	PrimitiveBase
	Variable *MutableVariable
}

// ReifyTypeVar, ReifyRuntimeType, ReadTypeVariable and TypeExpression are
// the runtime-type-reflection primitives; the core treats all of them as
// opaque NonConst producers.
type ReifyTypeVar struct {
	PrimitiveBase
	TypeVarName string
}

type ReifyRuntimeType struct {
	PrimitiveBase
	Value *Reference
}

type ReadTypeVariable struct {
	PrimitiveBase
	TypeVarName string
}

type TypeExpression struct {
	PrimitiveBase
	TypeName string
}

// Interceptor looks up the interceptor object used for low-level method
// dispatch on a value.
type Interceptor struct {
	PrimitiveBase
	Value *Reference
}

// Identical is the low-level reference/primitive-equality test (spec §4.4,
// §4.5's "x ≡ true" simplification).
type Identical struct {
	PrimitiveBase
	Left, Right *Reference
}

// CreateInvocationMirror builds the mirror object passed to noSuchMethod.
type CreateInvocationMirror struct {
	PrimitiveBase
	Selector string
}
