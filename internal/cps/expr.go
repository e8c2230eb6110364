package cps

// Selector describes a method-call site: the method name plus enough
// disambiguation (here just arity) for the TypeSystem to answer "what
// return type could this call produce?" (spec glossary "Selector").
type Selector struct {
	Name  string
	Arity int
	// IsOperator marks selectors the ConstantSystem might know how to
	// fold (e.g. "+", "==", "unary-"). Non-operator selectors on a
	// Constant receiver widen to NonConst(dynamic) in InvokeMethod (spec
	// §4.4); on a NonConst receiver every selector widens to its
	// selector return type.
	IsOperator bool
}

// LetPrim binds the result of a primitive computation, then runs Body.
type LetPrim struct {
	ExpressionBase
	Prim Primitive
}

// LetCont introduces one or more continuations in scope for Body.
type LetCont struct {
	ExpressionBase
	Conts []*Continuation
}

// LetHandler introduces an exception handler in scope for Body. Spec §4.4,
// §9: the handler is conservatively always reachable; tightening this to
// "only if the protected body can throw" is left to a later pass.
type LetHandler struct {
	ExpressionBase
	Handler *Continuation
}

// LetMutable allocates a mutable variable, transferring the initializer's
// current value into it, then runs Body (spec §4.4).
type LetMutable struct {
	ExpressionBase
	Variable *MutableVariable
	Value    *Reference
}

// DeclareFunction hoists a local function declaration, binding Variable to
// Function for the remainder of Body.
type DeclareFunction struct {
	ExpressionBase
	Variable *MutableVariable
	Function *CreateFunction
}

// InvokeStatic calls a known top-level/static function.
type InvokeStatic struct {
	ExpressionBase
	Target       string
	Args         []*Reference
	Continuation *Reference
	ReturnHint   string
}

// InvokeMethod performs a (possibly polymorphic) instance method call,
// including primitive operators the ConstantSystem may be able to fold
// (spec §4.4's central InvokeMethod case).
type InvokeMethod struct {
	ExpressionBase
	Receiver     *Reference
	Selector     Selector
	Args         []*Reference
	Continuation *Reference
}

// InvokeMethodDirectly calls a method known not to be overridden, skipping
// virtual dispatch.
type InvokeMethodDirectly struct {
	ExpressionBase
	Receiver     *Reference
	Selector     Selector
	Args         []*Reference
	Continuation *Reference
	ReturnHint   string
}

// InvokeConstructor constructs a new instance of a known class.
type InvokeConstructor struct {
	ExpressionBase
	ClassName    string
	Args         []*Reference
	Continuation *Reference
}

// InvokeContinuation transfers control to a continuation with actual
// arguments — the CPS analogue of both "goto" and "phi-node input" (spec
// glossary, §4.4, §9).
type InvokeContinuation struct {
	ExpressionBase
	Continuation *Reference
	Args         []*Reference
}

// ConcatenateStrings implements Dart string interpolation/concatenation;
// folds to a single Constant string when every argument is constant (spec
// §4.4, §8 round-trip law).
type ConcatenateStrings struct {
	ExpressionBase
	Args         []*Reference
	Continuation *Reference
}

// TypeOperator implements `is`/`as` checks (spec §4.4).
type TypeOperator struct {
	ExpressionBase
	Operator     string // "is" or "as"
	Value        *Reference
	TargetType   string
	Continuation *Reference
}

// Condition is the predicate carried by a Branch (spec §3.1 "Conditions").
type Condition struct {
	Value *Reference
}

// Branch is the only conditional control-transfer node: it picks between
// TrueCont and FalseCont based on Condition (spec §4.4, the core of
// "conditional" constant propagation).
type Branch struct {
	ExpressionBase
	Condition Condition
	TrueCont  *Reference
	FalseCont *Reference
}

// Throw raises value as an exception; Rethrow re-raises the exception
// currently being handled. Both are control-flow terminals with no Body.
type Throw struct {
	ExpressionBase
	Value *Reference
}

type Rethrow struct {
	ExpressionBase
}

// SetMutableVariable, SetField and SetStatic perform effectful writes that
// the core does not attempt to track for constant recovery (spec
// "Non-goals").
type SetMutableVariable struct {
	ExpressionBase
	Variable *MutableVariable
	Value    *Reference
}

type SetField struct {
	ExpressionBase
	Object    *Reference
	FieldName string
	Value     *Reference
}

type SetStatic struct {
	ExpressionBase
	Name  string
	Value *Reference
}
