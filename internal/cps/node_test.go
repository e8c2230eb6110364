package cps

import "testing"

func TestReferenceLinkUnlink(t *testing.T) {
	def := NewParameter("x", "")
	parent := NewThrow(def)

	if def.FirstRef() != parent.Value {
		t.Fatalf("expected FirstRef to be the reference just created")
	}

	r2 := NewReference(def, parent)
	if def.FirstRef() != r2 {
		t.Fatalf("expected most recently added reference to be at the head of the use-list")
	}
	if got := len(Uses(def)); got != 2 {
		t.Fatalf("expected 2 uses, got %d", got)
	}

	r2.Unlink()
	if got := len(Uses(def)); got != 1 {
		t.Fatalf("expected 1 use after unlink, got %d", got)
	}
	if r2.Definition != nil {
		t.Fatalf("expected Unlink to clear the reference's Definition")
	}

	parent.Value.Unlink()
	if got := len(Uses(def)); got != 0 {
		t.Fatalf("expected 0 uses after unlinking the last reference, got %d", got)
	}
}

func TestSetParentPointers(t *testing.T) {
	x := NewParameter("x", "")
	one := NewConstant(IntFromInt64(1))
	lp := NewLetPrim(one, nil)
	ret := NewReturnContinuation([]*Parameter{NewParameter("r", "")})
	ic := NewInvokeContinuation(ret, []Definition{one})
	lp.SetBody(ic)

	root := NewRoot([]*Parameter{x}, lp)
	SetParentPointers(root)

	if x.Parent() != root {
		t.Fatalf("expected parameter's parent to be the root")
	}
	if one.Parent() != lp {
		t.Fatalf("expected the constant's parent to be its LetPrim")
	}
	if ic.Parent() != lp {
		t.Fatalf("expected the invoke's parent to be the enclosing LetPrim")
	}
}

func TestSpliceReplacesBody(t *testing.T) {
	a := NewConstant(IntFromInt64(1))
	b := NewConstant(IntFromInt64(2))
	lp := NewLetPrim(a, NewRethrow())
	SetParentPointers(NewRoot(nil, lp))

	replacement := NewLetPrim(b, nil)
	oldBody := lp.Body()
	Splice(lp, replacement)

	if lp.Body() != Expression(replacement) {
		t.Fatalf("expected Splice to install the replacement as the new body")
	}
	if replacement.Parent() != lp {
		t.Fatalf("expected Splice to set the replacement's parent")
	}
	_ = oldBody
}

func TestRetargetMovesUseOffOldDefinitionOntoNew(t *testing.T) {
	oldDef := NewParameter("old", "")
	newDef := NewParameter("new", "")
	use := NewThrow(oldDef)

	Retarget(use.Value, newDef)

	if len(Uses(oldDef)) != 0 {
		t.Fatalf("expected the old definition to have no uses left")
	}
	if len(Uses(newDef)) != 1 {
		t.Fatalf("expected the new definition to pick up the retargeted use")
	}
	if use.Value.Definition != Definition(newDef) {
		t.Fatalf("expected the reference to now point at newDef")
	}
	if use.Value.Parent != Node(use) {
		t.Fatalf("expected Retarget to leave the reference's Parent untouched")
	}
}
