package sccp

import (
	"testing"

	"sccp/internal/cps"
)

func testConfig() Config {
	return Config{
		Types:     TypeMaskTypeSystem{},
		Constants: StdConstantSystem{},
		Dart:      NewStdDartTypes(),
	}
}

// buildAddOneAndTwo builds:
//
//	fn f() ->
//	  let a = const 1
//	  let b = const 2
//	  invoke_method a "+" (b) -> ret(r)
//
// so the analyzer should discover the call result is the constant 3.
func buildAddOneAndTwo() (*cps.RootNode, *cps.InvokeMethod) {
	a := cps.NewConstant(cps.IntFromInt64(1))
	b := cps.NewConstant(cps.IntFromInt64(2))
	ret := cps.NewReturnContinuation([]*cps.Parameter{cps.NewParameter("r", "")})

	sel := cps.Selector{Name: "+", Arity: 1, IsOperator: true}
	call := cps.NewInvokeMethod(a, sel, []cps.Definition{b}, ret)

	lpB := cps.NewLetPrim(b, call)
	lpA := cps.NewLetPrim(a, lpB)

	root := cps.NewRoot(nil, lpA)
	return root, call
}

func TestAnalyzerFoldsConstantOperator(t *testing.T) {
	root, call := buildAddOneAndTwo()
	result := Run(root, testConfig())

	if !result.IsReachable(call) {
		t.Fatalf("expected the call to be reachable")
	}
	retParam := call.Continuation.Definition.(*cps.Continuation).Params[0]
	v := result.ValueOf(retParam)
	if !v.IsConstant() {
		t.Fatalf("expected the return continuation's parameter to be constant, got %v", v)
	}
	pc, ok := v.Constant().(*cps.PrimitiveConstant)
	if !ok || pc.Kind != cps.KindInt || pc.Int.Int64() != 3 {
		t.Fatalf("expected constant 3, got %v", v.Constant())
	}
}

func TestAnalyzerSkipsUnreachableBranch(t *testing.T) {
	trueCont := cps.NewContinuation(nil, cps.NewRethrow())
	falseCont := cps.NewContinuation(nil, cps.NewThrow(cps.NewParameter("unused", "")))
	cond := cps.NewConstant(cps.Bool(true))
	branch := cps.NewBranch(cond, trueCont, falseCont)
	lc := cps.NewLetCont([]*cps.Continuation{trueCont, falseCont}, branch)
	lp := cps.NewLetPrim(cond, lc)
	root := cps.NewRoot(nil, lp)

	result := Run(root, testConfig())

	if !result.IsReachable(trueCont) {
		t.Fatalf("expected the true continuation to be reachable")
	}
	if result.IsReachable(falseCont) {
		t.Fatalf("expected the false continuation to stay unreachable")
	}
}

func TestAnalyzerJoinsContinuationParamAcrossCallSites(t *testing.T) {
	// letcont k(r) = invoke_cont ret(r)
	// in (branch cond, both targets invoke k with a different constant)
	ret := cps.NewReturnContinuation([]*cps.Parameter{cps.NewParameter("rr", "")})
	kParam := cps.NewParameter("r", "")
	k := cps.NewContinuation([]*cps.Parameter{kParam}, cps.NewInvokeContinuation(ret, []cps.Definition{kParam}))

	one := cps.NewConstant(cps.IntFromInt64(1))
	two := cps.NewConstant(cps.IntFromInt64(2))
	invokeK1 := cps.NewInvokeContinuation(k, []cps.Definition{one})
	invokeK2 := cps.NewInvokeContinuation(k, []cps.Definition{two})

	trueCont := cps.NewContinuation(nil, invokeK1)
	falseCont := cps.NewContinuation(nil, invokeK2)

	// An unknown condition (a parameter) means both branches run, so k's
	// parameter should join 1 and 2 into NonConst.
	condParam := cps.NewParameter("cond", "")
	branch := cps.NewBranch(condParam, trueCont, falseCont)
	lc := cps.NewLetCont([]*cps.Continuation{trueCont, falseCont, k}, branch)
	lpOne := cps.NewLetPrim(one, lc)
	lpTwo := cps.NewLetPrim(two, lpOne)

	root := cps.NewRoot([]*cps.Parameter{condParam}, lpTwo)
	result := Run(root, testConfig())

	v := result.ValueOf(kParam)
	if v.IsConstant() {
		t.Fatalf("expected k's parameter to widen to NonConst once two different constants join, got %v", v)
	}
	if v.IsNothing() {
		t.Fatalf("expected k's parameter to have a value once k is reachable")
	}
}

func TestAnalyzerIdenticalFoldsOnConstants(t *testing.T) {
	a := cps.NewConstant(cps.IntFromInt64(7))
	b := cps.NewConstant(cps.IntFromInt64(7))
	id := cps.NewIdentical(a, b)
	ret := cps.NewReturnContinuation([]*cps.Parameter{cps.NewParameter("r", "")})
	ic := cps.NewInvokeContinuation(ret, []cps.Definition{id})

	lpID := cps.NewLetPrim(id, ic)
	lpB := cps.NewLetPrim(b, lpID)
	lpA := cps.NewLetPrim(a, lpB)
	root := cps.NewRoot(nil, lpA)

	result := Run(root, testConfig())
	v := result.ValueOf(id)
	if !v.IsConstant() {
		t.Fatalf("expected Identical over two equal constants to fold, got %v", v)
	}
	pc := v.Constant().(*cps.PrimitiveConstant)
	if pc.Kind != cps.KindBool || !pc.Bool {
		t.Fatalf("expected true, got %v", pc)
	}
}

func TestTransformerConstifiesFoldedIdentical(t *testing.T) {
	// let a = const 7
	// let b = const 7
	// let eq = identical(a, b)   -- not itself a Constant node yet
	// invoke_cont ret(eq)
	a := cps.NewConstant(cps.IntFromInt64(7))
	b := cps.NewConstant(cps.IntFromInt64(7))
	id := cps.NewIdentical(a, b)
	ret := cps.NewReturnContinuation([]*cps.Parameter{cps.NewParameter("r", "")})
	ic := cps.NewInvokeContinuation(ret, []cps.Definition{id})

	lpID := cps.NewLetPrim(id, ic)
	lpB := cps.NewLetPrim(b, lpID)
	lpA := cps.NewLetPrim(a, lpB)
	root := cps.NewRoot(nil, lpA)

	result := Run(root, testConfig())
	stats := NewTransformer(result).Transform(root)
	if stats.Constified == 0 {
		t.Fatalf("expected the folded Identical to be constified, got stats=%+v", stats)
	}
	if _, ok := lpID.Prim.(*cps.Constant); !ok {
		t.Fatalf("expected lpID.Prim to be replaced by a Constant, got %T", lpID.Prim)
	}
	if ic.Args[0].Definition != cps.Definition(lpID.Prim) {
		t.Fatalf("expected the invoke's argument to be retargeted onto the new Constant")
	}
}

func TestTransformerCollapsesBranchWithOneReachableTarget(t *testing.T) {
	trueCont := cps.NewContinuation(nil, cps.NewRethrow())
	falseCont := cps.NewContinuation(nil, cps.NewThrow(cps.NewParameter("unused", "")))
	cond := cps.NewConstant(cps.Bool(true))
	branch := cps.NewBranch(cond, trueCont, falseCont)
	lc := cps.NewLetCont([]*cps.Continuation{trueCont, falseCont}, branch)
	lp := cps.NewLetPrim(cond, lc)
	root := cps.NewRoot(nil, lp)

	result := Run(root, testConfig())
	stats := NewTransformer(result).Transform(root)

	if stats.Branches != 1 {
		t.Fatalf("expected exactly one branch collapse, got %+v", stats)
	}
	ic, ok := lc.Body().(*cps.InvokeContinuation)
	if !ok {
		t.Fatalf("expected the branch to be replaced by an InvokeContinuation, got %T", lc.Body())
	}
	if ic.Continuation.Definition != cps.Definition(trueCont) {
		t.Fatalf("expected the collapsed invoke to target the reachable true continuation")
	}
}

func TestAnalyzerDemotesNonBoolConstantCondition(t *testing.T) {
	// branch on a constant int: both arms run, and the condition's own
	// definition should widen to NonConst(bool) rather than stay Constant(42).
	trueCont := cps.NewContinuation(nil, cps.NewRethrow())
	falseCont := cps.NewContinuation(nil, cps.NewRethrow())
	cond := cps.NewConstant(cps.IntFromInt64(42))
	branch := cps.NewBranch(cond, trueCont, falseCont)
	lc := cps.NewLetCont([]*cps.Continuation{trueCont, falseCont}, branch)
	lp := cps.NewLetPrim(cond, lc)
	root := cps.NewRoot(nil, lp)

	result := Run(root, testConfig())

	if !result.IsReachable(trueCont) || !result.IsReachable(falseCont) {
		t.Fatalf("expected both continuations reachable for a non-bool constant condition")
	}
	v := result.ValueOf(cond)
	if v.IsConstant() {
		t.Fatalf("expected the condition to be demoted to NonConst, got %v", v)
	}
	if !v.IsBool(result.Types()) {
		t.Fatalf("expected the demoted condition to be NonConst(bool), got %v", v)
	}
}

func TestAnalyzerInvokeMethodDirectlyNeverFolds(t *testing.T) {
	// An operator-shaped selector on InvokeMethodDirectly must still widen to
	// NonConst(returnHint) rather than fold, since only InvokeMethod attempts
	// operator folding (spec §4.4).
	a := cps.NewConstant(cps.IntFromInt64(1))
	b := cps.NewConstant(cps.IntFromInt64(2))
	ret := cps.NewReturnContinuation([]*cps.Parameter{cps.NewParameter("r", "")})
	sel := cps.Selector{Name: "+", Arity: 1, IsOperator: true}
	call := cps.NewInvokeMethodDirectly(a, sel, []cps.Definition{b}, ret, "int")

	lpB := cps.NewLetPrim(b, call)
	lpA := cps.NewLetPrim(a, lpB)
	root := cps.NewRoot(nil, lpA)

	result := Run(root, testConfig())
	v := result.ValueOf(ret.Params[0])
	if v.IsConstant() {
		t.Fatalf("expected InvokeMethodDirectly to never fold, got %v", v)
	}
	if v.IsNothing() {
		t.Fatalf("expected the continuation parameter to have a value")
	}
}

func TestAnalyzerInvokeMethodNonOperatorWidensToDynamic(t *testing.T) {
	// A constant receiver against a non-operator selector must widen to
	// NonConst(dynamic), not NonConst(selectorReturnType).
	a := cps.NewConstant(cps.IntFromInt64(1))
	ret := cps.NewReturnContinuation([]*cps.Parameter{cps.NewParameter("r", "")})
	sel := cps.Selector{Name: "toString", Arity: 0, IsOperator: false}
	call := cps.NewInvokeMethod(a, sel, nil, ret)
	lpA := cps.NewLetPrim(a, call)
	root := cps.NewRoot(nil, lpA)

	result := Run(root, testConfig())
	v := result.ValueOf(ret.Params[0])
	if v.IsConstant() {
		t.Fatalf("expected a non-operator selector to never fold, got %v", v)
	}
	ts := result.Types().(TypeMaskTypeSystem)
	if !v.Equal(NonConst(ts.Dynamic())) {
		t.Fatalf("expected NonConst(dynamic), got %v", v)
	}
}

func TestTransformerConstifiesInvokeMethod(t *testing.T) {
	root, call := buildAddOneAndTwo()
	origCont := call.Continuation.Definition
	result := Run(root, testConfig())
	stats := NewTransformer(result).Transform(root)

	if stats.Constified == 0 {
		t.Fatalf("expected the folded InvokeMethod to be constified, got stats=%+v", stats)
	}

	lpA, ok := root.Body().(*cps.LetPrim)
	if !ok {
		t.Fatalf("expected root body to still start with the LetPrim binding a, got %T", root.Body())
	}
	lpB, ok := lpA.Body().(*cps.LetPrim)
	if !ok {
		t.Fatalf("expected a's body to still be the LetPrim binding b, got %T", lpA.Body())
	}
	replaced, ok := lpB.Body().(*cps.LetPrim)
	if !ok {
		t.Fatalf("expected the InvokeMethod to be replaced by a LetPrim, got %T", lpB.Body())
	}
	cv, ok := replaced.Prim.(*cps.Constant)
	if !ok {
		t.Fatalf("expected the new LetPrim to bind a Constant, got %T", replaced.Prim)
	}
	pc, ok := cv.Value.(*cps.PrimitiveConstant)
	if !ok || pc.Kind != cps.KindInt || pc.Int.Int64() != 3 {
		t.Fatalf("expected the materialized constant to be 3, got %v", cv.Value)
	}
	ic, ok := replaced.Body().(*cps.InvokeContinuation)
	if !ok {
		t.Fatalf("expected the new LetPrim's body to invoke the original continuation, got %T", replaced.Body())
	}
	if ic.Continuation.Definition != origCont {
		t.Fatalf("expected the spliced invoke to still target the original continuation")
	}
	if ic.Args[0].Definition != cps.Definition(cv) {
		t.Fatalf("expected the spliced invoke's argument to reference the new constant")
	}
}

func TestTransformerIdempotentOnAlreadyFoldedGraph(t *testing.T) {
	a := cps.NewConstant(cps.IntFromInt64(7))
	b := cps.NewConstant(cps.IntFromInt64(7))
	id := cps.NewIdentical(a, b)
	ret := cps.NewReturnContinuation([]*cps.Parameter{cps.NewParameter("r", "")})
	ic := cps.NewInvokeContinuation(ret, []cps.Definition{id})
	lpID := cps.NewLetPrim(id, ic)
	lpB := cps.NewLetPrim(b, lpID)
	lpA := cps.NewLetPrim(a, lpB)
	root := cps.NewRoot(nil, lpA)

	result := Run(root, testConfig())
	NewTransformer(result).Transform(root)

	result2 := Run(root, testConfig())
	stats2 := NewTransformer(result2).Transform(root)
	if stats2.Constified != 0 {
		t.Fatalf("expected re-running Transform on an already-folded graph to be a no-op, got %+v", stats2)
	}
}
