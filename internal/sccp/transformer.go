package sccp

import "sccp/internal/cps"

// Stats counts how many of each rewrite kind a Transform pass performed,
// mirroring the teacher's own optimization passes reporting what they did
// rather than leaving the caller to diff the graph.
type Stats struct {
	Constified int
	Branches   int
	Identicals int
}

// Transformer rewrites a CPS graph in light of a completed Result (spec
// §4.5): definitions proven constant are materialized in place, a Branch
// with only one reachable target collapses to a direct InvokeContinuation,
// and an Identical comparison against the literal true is replaced by its
// other operand once that operand is already known to be boolean.
type Transformer struct {
	result *Result
}

// NewTransformer builds a Transformer that rewrites against result.
func NewTransformer(result *Result) *Transformer {
	return &Transformer{result: result}
}

// Transform rewrites root in place and reports what it did.
func (t *Transformer) Transform(root *cps.RootNode) Stats {
	var s Stats
	t.walk(root.Body(), &s)
	return s
}

// walk rewrites e and recurses into whatever body/continuations remain live
// after rewriting. Unreachable subtrees are left untouched entirely — spec
// §4.5 scopes rewriting to the fragment the Analyzer actually vouches for,
// and splicing inside dead code would be wasted (and unsafe, since its
// operands' values were never computed).
func (t *Transformer) walk(e cps.Expression, s *Stats) {
	if e == nil || !t.result.IsReachable(e) {
		return
	}
	switch n := e.(type) {
	case *cps.LetPrim:
		t.constifyPrim(n, s)
		t.simplifyIdentical(n, s)
		t.walk(n.Body(), s)
	case *cps.LetCont:
		for _, c := range n.Conts {
			if t.result.IsReachable(c) {
				t.walk(c.Body(), s)
			}
		}
		t.walk(n.Body(), s)
	case *cps.LetHandler:
		if t.result.IsReachable(n.Handler) {
			t.walk(n.Handler.Body(), s)
		}
		t.walk(n.Body(), s)
	case *cps.LetMutable:
		t.walk(n.Body(), s)
	case *cps.DeclareFunction:
		t.walk(n.Body(), s)
	case *cps.SetMutableVariable:
		t.walk(n.Body(), s)
	case *cps.SetField:
		t.walk(n.Body(), s)
	case *cps.SetStatic:
		t.walk(n.Body(), s)
	case *cps.Branch:
		t.collapseBranch(n, s)
	case *cps.InvokeMethod:
		refs := append([]*cps.Reference{n.Receiver, n.Continuation}, n.Args...)
		t.constifyExpr(n, n.Continuation, refs, s)
	case *cps.ConcatenateStrings:
		refs := append([]*cps.Reference{n.Continuation}, n.Args...)
		t.constifyExpr(n, n.Continuation, refs, s)
	case *cps.TypeOperator:
		t.constifyExpr(n, n.Continuation, []*cps.Reference{n.Value, n.Continuation}, s)
	}
}

// constifyPrim replaces a LetPrim's computation with a literal Constant once
// the Analyzer has proven its value and the value is materializable (spec
// §4.5 "constify-expression", §4.6). Every existing use of the old
// definition is redirected onto the new Constant so the rewrite is
// transparent to the rest of the graph.
func (t *Transformer) constifyPrim(n *cps.LetPrim, s *Stats) {
	if _, already := n.Prim.(*cps.Constant); already {
		return
	}
	val := t.result.ValueOf(n.Prim)
	if !val.IsConstant() {
		return
	}
	cv, ok := Materialize(val.Constant())
	if !ok {
		return
	}
	unlinkPrimRefs(n.Prim)

	replacement := cps.NewConstant(cv)
	for _, use := range cps.Uses(n.Prim) {
		cps.Retarget(use, replacement)
	}
	replacement.SetParent(n)
	n.Prim = replacement
	s.Constified++
}

// unlinkPrimRefs unlinks the References a discarded Primitive held into its
// own operands, mirroring the explicit unlinks constifyExpr/collapseBranch
// do for the expressions they discard. Of the primitive kinds that can ever
// reach here (IsConstant and materializable), only Identical holds operand
// References; Constant itself is filtered out above before this runs, and
// CreateFunction's FunctionConstant never passes Materialize.
func unlinkPrimRefs(p cps.Primitive) {
	if id, ok := p.(*cps.Identical); ok {
		id.Left.Unlink()
		id.Right.Unlink()
	}
}

// collapseBranch replaces a Branch with a direct InvokeContinuation to
// whichever target the Analyzer found reachable, once exactly one of the
// two is (spec §4.5). If both are reachable the condition was never proven,
// and if neither is the Branch itself is dead code some earlier rewrite (or
// a future DCE pass) should have already removed — either way there is
// nothing safe to collapse here.
func (t *Transformer) collapseBranch(n *cps.Branch, s *Stats) {
	trueReachable := t.result.IsReachable(n.TrueCont.Definition)
	falseReachable := t.result.IsReachable(n.FalseCont.Definition)
	if trueReachable == falseReachable {
		return
	}

	keep := n.FalseCont
	if trueReachable {
		keep = n.TrueCont
	}
	cont, _ := keep.Definition.(*cps.Continuation)

	parent := n.Parent()
	n.Condition.Value.Unlink()
	n.TrueCont.Unlink()
	n.FalseCont.Unlink()

	replacement := cps.NewInvokeContinuation(cont, nil)
	cps.Splice(parent, replacement)
	s.Branches++
}

// constifyExpr implements constify-expression for InvokeMethod,
// ConcatenateStrings and TypeOperator (spec §4.5): once the Analyzer has
// proven the call's continuation-parameter value constant and
// materializable, the whole call is replaced by a LetPrim binding that
// constant followed by a direct InvokeContinuation to cont, and every
// reference the original expression held — receiver, args, continuation —
// is unlinked since the call node itself is discarded.
func (t *Transformer) constifyExpr(e cps.Expression, contRef *cps.Reference, refs []*cps.Reference, s *Stats) {
	cont, ok := contRef.Definition.(*cps.Continuation)
	if !ok || len(cont.Params) == 0 {
		return
	}
	val := t.result.ValueOf(cont.Params[0])
	if !val.IsConstant() {
		return
	}
	cv, ok := Materialize(val.Constant())
	if !ok {
		return
	}

	parent := e.Parent()
	for _, r := range refs {
		r.Unlink()
	}

	constant := cps.NewConstant(cv)
	invoke := cps.NewInvokeContinuation(cont, []cps.Definition{constant})
	letPrim := cps.NewLetPrim(constant, invoke)
	constant.SetParent(letPrim)
	invoke.SetParent(letPrim)
	cps.Splice(parent, letPrim)
	s.Constified++
}

// simplifyIdentical rewrites `x ≡ true` (in either operand order) to a bare
// reference to x once x is already known to be a definitely-boolean,
// non-null value (spec §4.5). The symmetric `x ≡ false` case would need to
// introduce a boolean negation this IR has no primitive for, so it is left
// alone.
func (t *Transformer) simplifyIdentical(n *cps.LetPrim, s *Stats) {
	id, ok := n.Prim.(*cps.Identical)
	if !ok {
		return
	}
	if t.result.ValueOf(id).IsConstant() {
		return // already folded outright by constifyPrim
	}
	operand, matched := t.identicalBoolPattern(id)
	if !matched {
		return
	}
	for _, use := range cps.Uses(id) {
		cps.Retarget(use, operand)
	}
	s.Identicals++
}

func (t *Transformer) identicalBoolPattern(id *cps.Identical) (cps.Definition, bool) {
	ts := t.result.Types()
	if t.isTrueConstant(id.Left.Definition) && t.result.ValueOf(id.Right.Definition).IsBool(ts) {
		return id.Right.Definition, true
	}
	if t.isTrueConstant(id.Right.Definition) && t.result.ValueOf(id.Left.Definition).IsBool(ts) {
		return id.Left.Definition, true
	}
	return nil, false
}

func (t *Transformer) isTrueConstant(def cps.Definition) bool {
	v := t.result.ValueOf(def)
	if !v.IsConstant() {
		return false
	}
	p, ok := v.Constant().(*cps.PrimitiveConstant)
	return ok && p.Kind == cps.KindBool && p.Bool
}
