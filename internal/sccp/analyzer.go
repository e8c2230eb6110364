package sccp

import "sccp/internal/cps"

// Config supplies the external collaborators the analyzer needs (spec §4.2,
// §4.3): the abstract type domain, the operator-folding tables, and the
// subtype relation `is`-folding consults. A zero Config is valid — Run fills
// in the conventional defaults (UnitTypeSystem, StdConstantSystem,
// StdDartTypes, DefaultInternalError).
type Config struct {
	Types     TypeSystem
	Constants ConstantSystem
	Dart      DartTypes
	OnError   InternalErrorFunc
}

func (c Config) withDefaults() Config {
	if c.Types == nil {
		c.Types = UnitTypeSystem{}
	}
	if c.Constants == nil {
		c.Constants = StdConstantSystem{}
	}
	if c.Dart == nil {
		c.Dart = NewStdDartTypes()
	}
	if c.OnError == nil {
		c.OnError = DefaultInternalError
	}
	return c
}

// Result is the fixed point the analyzer reaches: which nodes are reachable
// and what abstract value every definition carries. The Transformer (and any
// caller inspecting the analysis directly) reads a program exclusively
// through this, never by re-running the solver.
type Result struct {
	cfg       Config
	reachable map[cps.Node]bool
	values    map[cps.Definition]Value
}

// IsReachable reports whether n was ever placed on the reachable set during
// the fixed-point computation.
func (r *Result) IsReachable(n cps.Node) bool { return r.reachable[n] }

// ValueOf returns the lattice value computed for def, or Nothing if def was
// never visited (e.g. it lives in unreachable code).
func (r *Result) ValueOf(def cps.Definition) Value {
	if def == nil {
		return Nothing()
	}
	return r.values[def]
}

// Types returns the TypeSystem the analysis ran with, for callers (notably
// the Transformer and Materializer) that need to ask further type questions
// using the same collaborator.
func (r *Result) Types() TypeSystem { return r.cfg.Types }

// Constants returns the ConstantSystem the analysis ran with.
func (r *Result) Constants() ConstantSystem { return r.cfg.Constants }

// analyzer is the mutable solver state; Result is its read-only export.
type analyzer struct {
	cfg       Config
	reachable map[cps.Node]bool
	values    map[cps.Definition]Value

	nodeWorklist []cps.Expression
	defWorklist  []cps.Definition
	inDefQueue   map[cps.Definition]bool
}

// Run solves the two-worklist fixed point over root (spec §4, §9): reachable
// code and constant values are discovered simultaneously, each refinement
// unblocking the other, until both worklists drain.
func Run(root *cps.RootNode, cfg Config) *Result {
	cfg = cfg.withDefaults()
	a := &analyzer{
		cfg:        cfg,
		reachable:  make(map[cps.Node]bool),
		values:     make(map[cps.Definition]Value),
		inDefQueue: make(map[cps.Definition]bool),
	}
	cps.SetParentPointers(root)
	for _, p := range root.Params {
		a.setValue(p, NonConst(a.paramType(p)))
	}
	a.pushReachable(root.Body())
	a.drain()
	return &Result{cfg: cfg, reachable: a.reachable, values: a.values}
}

func (a *analyzer) paramType(p *cps.Parameter) Type {
	return a.cfg.Types.ParameterType(p.TypeHint)
}

// drain alternates between the two worklists until both are empty. Nothing
// ever moves a value or a reachability bit backwards, so this always
// terminates: the lattice has finite height and the reachable set only
// grows (spec §4, termination argument).
func (a *analyzer) drain() {
	for len(a.nodeWorklist) > 0 || len(a.defWorklist) > 0 {
		for len(a.nodeWorklist) > 0 {
			n := a.nodeWorklist[len(a.nodeWorklist)-1]
			a.nodeWorklist = a.nodeWorklist[:len(a.nodeWorklist)-1]
			a.visitExpression(n)
		}
		for len(a.defWorklist) > 0 {
			d := a.defWorklist[len(a.defWorklist)-1]
			a.defWorklist = a.defWorklist[:len(a.defWorklist)-1]
			delete(a.inDefQueue, d)
			for _, use := range cps.Uses(d) {
				a.visitUse(use)
			}
		}
	}
}

func (a *analyzer) markReachable(n cps.Node) bool {
	if n == nil || a.reachable[n] {
		return false
	}
	a.reachable[n] = true
	return true
}

// pushReachable marks e reachable and, the first time only, queues it for a
// top-down visit. Later refinements that affect code already on this path
// arrive through defWorklist instead of a second push.
func (a *analyzer) pushReachable(e cps.Expression) {
	if e == nil || !a.markReachable(e) {
		return
	}
	a.nodeWorklist = append(a.nodeWorklist, e)
}

// reachContinuation marks c reachable, joins args into its parameters
// (spec §4.4, §9: "continuation parameter as φ-node, joined across every
// InvokeContinuation call site"), and — only the first time c becomes
// reachable — queues its body.
func (a *analyzer) reachContinuation(c *cps.Continuation, args []Value) {
	if c == nil {
		return
	}
	newly := a.markReachable(c)
	for i, p := range c.Params {
		if i < len(args) {
			a.setValue(p, args[i])
		}
	}
	if newly {
		a.pushReachable(c.Body())
	}
}

// setValue joins newVal into def's stored value and, if that changed
// anything, queues def onto defWorklist so every use site gets a chance to
// recompute. Join guarantees the update is monotonic; the LessOrEqual check
// asserts it (spec §4.4).
func (a *analyzer) setValue(def cps.Definition, newVal Value) {
	old := a.values[def]
	joined := old.Join(newVal, a.cfg.Types)
	if joined.Equal(old) {
		return
	}
	if !old.LessOrEqual(joined) {
		a.cfg.OnError("setValue", "lattice value moved downward")
	}
	a.values[def] = joined
	if !a.inDefQueue[def] {
		a.inDefQueue[def] = true
		a.defWorklist = append(a.defWorklist, def)
	}
}

func (a *analyzer) valueOf(ref *cps.Reference) Value {
	if ref == nil || ref.Definition == nil {
		return Nothing()
	}
	return a.valueOfDef(ref.Definition)
}

// valueOfDef reads def's current value directly, for the one place
// (GetMutableVariable) that depends on a Definition without going through a
// Reference on its use-list. Safe because LetMutable/DeclareFunction widen
// their variable to its final NonConst value the first time they're visited
// and never narrow or re-widen it afterward, so there is no later update
// this read could miss.
func (a *analyzer) valueOfDef(def cps.Definition) Value {
	if def == nil {
		return Nothing()
	}
	return a.values[def]
}

func (a *analyzer) contOf(ref *cps.Reference) *cps.Continuation {
	if ref == nil {
		return nil
	}
	c, _ := ref.Definition.(*cps.Continuation)
	return c
}

// visitUse re-derives whatever a single use site depends on def for: a
// Primitive recomputes its own value, a reachable Expression recomputes its
// effects. Unreachable expressions are skipped — revisiting dead code would
// waste work and could never change the answer (spec §4, sparse evaluation).
func (a *analyzer) visitUse(r *cps.Reference) {
	switch p := r.Parent.(type) {
	case cps.Primitive:
		a.visitPrimitive(p)
	case cps.Expression:
		if a.reachable[p] {
			a.visitExpression(p)
		}
	}
}

// visitExpression computes the effects of a single reachable expression:
// the value(s) it defines (if any) and the successor(s) it makes reachable.
// Called once when an expression first becomes reachable and again, for the
// same expression, whenever defWorklist reports that one of its operands
// changed (spec §4.4's node-kind enumeration).
func (a *analyzer) visitExpression(n cps.Expression) {
	switch e := n.(type) {
	case *cps.LetPrim:
		a.visitPrimitive(e.Prim)
		a.pushReachable(e.Body())

	case *cps.LetCont:
		// Conts become reachable only when invoked; this only continues the
		// code that follows the binding.
		a.pushReachable(e.Body())

	case *cps.LetHandler:
		// Open question (spec §9): exception-handler reachability stays
		// conservative — always reachable, not gated on "can the protected
		// body actually throw".
		a.markReachable(e.Handler)
		for _, p := range e.Handler.Params {
			a.setValue(p, NonConst(a.cfg.Types.Dynamic()))
		}
		a.pushReachable(e.Handler.Body())
		a.pushReachable(e.Body())

	case *cps.LetMutable:
		if e.Variable.Parent() != e {
			a.cfg.OnError("LetMutable", "mutable variable's parent does not point back at its binder")
		}
		// Open question (spec §9): mutable variables are not tracked through
		// their initializer's value, only conservatively widened. A later
		// pass could transfer e.Value's current value instead.
		a.setValue(e.Variable, NonConst(a.cfg.Types.Dynamic()))
		a.pushReachable(e.Body())

	case *cps.DeclareFunction:
		if e.Variable.Parent() != e {
			a.cfg.OnError("DeclareFunction", "mutable variable's parent does not point back at its binder")
		}
		a.visitPrimitive(e.Function)
		a.setValue(e.Variable, NonConst(a.cfg.Types.Dynamic()))
		a.pushReachable(e.Body())

	case *cps.SetMutableVariable:
		a.pushReachable(e.Body())
	case *cps.SetField:
		a.pushReachable(e.Body())
	case *cps.SetStatic:
		a.pushReachable(e.Body())

	case *cps.InvokeStatic:
		cont := a.contOf(e.Continuation)
		a.reachContinuation(cont, resultValues(cont, NonConst(a.cfg.Types.ReturnType(e.Target))))

	case *cps.InvokeMethod:
		a.visitInvoke(e.Selector, e.Receiver, e.Args, e.Continuation, a.cfg.Types.SelectorReturnType(e.Selector))

	case *cps.InvokeMethodDirectly:
		cont := a.contOf(e.Continuation)
		rt := a.cfg.Types.ParameterType(e.ReturnHint)
		a.reachContinuation(cont, resultValues(cont, NonConst(rt)))

	case *cps.InvokeConstructor:
		cont := a.contOf(e.Continuation)
		a.reachContinuation(cont, resultValues(cont, NonConst(a.cfg.Types.Dynamic())))

	case *cps.InvokeContinuation:
		cont := a.contOf(e.Continuation)
		args := make([]Value, len(e.Args))
		for i, arg := range e.Args {
			args[i] = a.valueOf(arg)
		}
		a.reachContinuation(cont, args)

	case *cps.ConcatenateStrings:
		a.visitConcatenateStrings(e)

	case *cps.TypeOperator:
		a.visitTypeOperator(e)

	case *cps.Branch:
		a.visitBranch(e)

	case *cps.Throw, *cps.Rethrow:
		// Terminal: no successor, nothing defined.
	}
}

// resultValues builds the single-element args slice reachContinuation
// expects for call-style expressions whose continuation takes zero or one
// parameter (the call's result). Calls binding more than one parameter never
// occur in this IR; it degrades to an empty slice if cont has no params.
func resultValues(cont *cps.Continuation, v Value) []Value {
	if cont == nil || len(cont.Params) == 0 {
		return nil
	}
	return []Value{v}
}

// visitInvoke implements the InvokeMethod fold rule (spec §4.4): `lhs` is the
// receiver's abstract value. Nothing makes the continuation reachable but
// defers its value; NonConst widens to NonConst(fallbackType)
// (selectorReturnType) regardless of operator-ness, since an unknown
// receiver rules out folding either way; a Constant receiver against a
// non-operator selector (or an operator that fails to fold) widens to
// NonConst(dynamic); an operand that is still Nothing defers the value the
// same way a Nothing receiver does; only a Constant receiver with a folding
// operator and all-Constant operands propagates the folded Constant.
func (a *analyzer) visitInvoke(sel cps.Selector, receiver *cps.Reference, args []*cps.Reference, contRef *cps.Reference, fallbackType Type) {
	cont := a.contOf(contRef)
	if cont == nil {
		return
	}
	if len(cont.Params) == 0 {
		a.reachContinuation(cont, nil)
		return
	}

	lhs := a.valueOf(receiver)
	if lhs.IsNothing() {
		// The call always transfers control once reached; only the folded
		// value is deferred until the receiver is known, preserving
		// monotonicity (spec §4.4's "setValue" discipline).
		a.reachContinuation(cont, nil)
		return
	}
	if !lhs.IsConstant() {
		a.reachContinuation(cont, []Value{NonConst(fallbackType)})
		return
	}
	if !sel.IsOperator {
		a.reachContinuation(cont, []Value{NonConst(a.cfg.Types.Dynamic())})
		return
	}

	operands := make([]Value, 0, len(args)+1)
	operands = append(operands, lhs)
	for _, arg := range args {
		operands = append(operands, a.valueOf(arg))
	}
	if anyNothing(operands) {
		// Same deferral as above: an arg is still unresolved, so folding
		// would be premature even though the receiver is already Constant.
		a.reachContinuation(cont, nil)
		return
	}
	if folded, ok := a.foldOperator(sel, operands); ok {
		a.reachContinuation(cont, []Value{folded})
		return
	}
	a.reachContinuation(cont, []Value{NonConst(a.cfg.Types.Dynamic())})
}

func anyNothing(vs []Value) bool {
	for _, v := range vs {
		if v.IsNothing() {
			return true
		}
	}
	return false
}

func (a *analyzer) foldOperator(sel cps.Selector, operands []Value) (Value, bool) {
	for _, v := range operands {
		if !v.IsConstant() {
			return Value{}, false
		}
	}
	switch len(operands) {
	case 1:
		op, ok := a.cfg.Constants.LookupUnary(sel.Name)
		if !ok {
			return Value{}, false
		}
		c, ok := op.Fold(operands[0].Constant())
		if !ok {
			return Value{}, false
		}
		return ConstantVal(c, a.cfg.Types.TypeOf(c)), true
	case 2:
		op, ok := a.cfg.Constants.LookupBinary(sel.Name)
		if !ok {
			return Value{}, false
		}
		c, ok := op.Fold(operands[0].Constant(), operands[1].Constant())
		if !ok {
			return Value{}, false
		}
		return ConstantVal(c, a.cfg.Types.TypeOf(c)), true
	default:
		return Value{}, false
	}
}

func (a *analyzer) visitConcatenateStrings(e *cps.ConcatenateStrings) {
	cont := a.contOf(e.Continuation)
	if cont == nil || len(cont.Params) == 0 {
		return
	}
	vals := make([]Value, len(e.Args))
	for i, arg := range e.Args {
		vals[i] = a.valueOf(arg)
	}
	if anyNothing(vals) {
		return
	}
	built, ok := "", true
	for _, v := range vals {
		if !v.IsConstant() {
			ok = false
			break
		}
		p, isPrim := v.Constant().(*cps.PrimitiveConstant)
		if !isPrim || p.Kind != cps.KindString {
			ok = false
			break
		}
		built += p.Str
	}
	if ok {
		c := cps.Str(built)
		a.reachContinuation(cont, []Value{ConstantVal(c, a.cfg.Types.TypeOf(c))})
		return
	}
	a.reachContinuation(cont, []Value{NonConst(a.cfg.Types.String())})
}

func (a *analyzer) visitTypeOperator(e *cps.TypeOperator) {
	cont := a.contOf(e.Continuation)
	if cont == nil || len(cont.Params) == 0 {
		return
	}
	v := a.valueOf(e.Value)
	if v.IsNothing() {
		return
	}

	if e.Operator == "is" {
		if v.IsConstant() {
			if p, ok := v.Constant().(*cps.PrimitiveConstant); ok && p.Kind == cps.KindNull {
				isNullSubtype := e.TargetType == a.cfg.Dart.NullTypeName() ||
					e.TargetType == a.cfg.Dart.ObjectTypeName() ||
					a.cfg.Constants.IsSubtype(a.cfg.Dart, a.cfg.Dart.NullTypeName(), e.TargetType)
				c := cps.Bool(isNullSubtype)
				a.reachContinuation(cont, []Value{ConstantVal(c, a.cfg.Types.TypeOf(c))})
				return
			}
		}
		a.reachContinuation(cont, []Value{NonConst(a.cfg.Types.Bool())})
		return
	}
	// "as": the cast either widens to the target type or throws; since we
	// never model the thrown path, the result just widens the value's type.
	a.reachContinuation(cont, []Value{NonConst(a.cfg.Types.ParameterType(e.TargetType))})
}

func (a *analyzer) visitBranch(e *cps.Branch) {
	cond := a.valueOf(e.Condition.Value)
	trueCont := a.contOf(e.TrueCont)
	falseCont := a.contOf(e.FalseCont)

	if cond.IsNothing() {
		// Neither target is known reachable yet; wait for the condition.
		return
	}
	if cond.IsConstant() {
		if p, ok := cond.Constant().(*cps.PrimitiveConstant); ok && p.Kind == cps.KindBool {
			if p.Bool {
				a.reachContinuation(trueCont, nil)
			} else {
				a.reachContinuation(falseCont, nil)
			}
			return
		}
		// Constant but not a bool: the condition's own definition is demoted
		// to NonConst(bool) outright, not joined with its old Constant type,
		// since no further folding through it is possible, and both arms are
		// live.
		def := e.Condition.Value.Definition
		demoted := NonConst(a.cfg.Types.Bool())
		if !a.values[def].Equal(demoted) {
			a.values[def] = demoted
			if !a.inDefQueue[def] {
				a.inDefQueue[def] = true
				a.defWorklist = append(a.defWorklist, def)
			}
		}
	}
	a.reachContinuation(trueCont, nil)
	a.reachContinuation(falseCont, nil)
}

// visitPrimitive computes the value a single Primitive definition produces.
// Most primitives are opaque (spec's memory/allocation Non-goals): only
// Constant, CreateFunction and Identical ever yield anything but NonConst.
func (a *analyzer) visitPrimitive(p cps.Primitive) {
	ts := a.cfg.Types
	switch prim := p.(type) {
	case *cps.Constant:
		a.setValue(prim, ConstantVal(prim.Value, ts.TypeOf(prim.Value)))

	case *cps.CreateFunction:
		c := &cps.FunctionConstant{Element: prim.Element}
		a.setValue(prim, ConstantVal(c, ts.Function()))

	case *cps.Identical:
		a.visitIdentical(prim)

	case *cps.LiteralList:
		a.setValue(prim, NonConst(ts.List()))
	case *cps.LiteralMap:
		a.setValue(prim, NonConst(ts.Map()))
	case *cps.CreateInstance:
		a.setValue(prim, NonConst(ts.Dynamic()))
	case *cps.CreateBox:
		a.setValue(prim, NonConst(ts.Dynamic()))
	case *cps.GetField:
		a.setValue(prim, NonConst(ts.Dynamic()))
	case *cps.GetStatic:
		a.setValue(prim, NonConst(ts.Dynamic()))
	case *cps.GetMutableVariable:
		a.setValue(prim, a.valueOfDef(prim.Variable))
	case *cps.ReifyTypeVar:
		a.setValue(prim, NonConst(ts.TypeType()))
	case *cps.ReifyRuntimeType:
		a.setValue(prim, NonConst(ts.TypeType()))
	case *cps.ReadTypeVariable:
		a.setValue(prim, NonConst(ts.TypeType()))
	case *cps.TypeExpression:
		a.setValue(prim, NonConst(ts.TypeType()))
	case *cps.Interceptor:
		a.setValue(prim, NonConst(ts.Dynamic()))
	case *cps.CreateInvocationMirror:
		a.setValue(prim, NonConst(ts.Dynamic()))
	}
}

// visitIdentical implements reference/primitive-equality folding (spec
// §4.4, §4.5's later "x ≡ true" simplification depends on this producing a
// real Constant(bool) whenever it safely can).
func (a *analyzer) visitIdentical(prim *cps.Identical) {
	l := a.valueOf(prim.Left)
	r := a.valueOf(prim.Right)
	if l.IsNothing() || r.IsNothing() {
		return
	}
	if l.IsConstant() && r.IsConstant() {
		c := cps.Bool(l.Constant().Equal(r.Constant()))
		a.setValue(prim, ConstantVal(c, a.cfg.Types.TypeOf(c)))
		return
	}
	a.setValue(prim, NonConst(a.cfg.Types.Bool()))
}
