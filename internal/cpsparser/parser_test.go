package cpsparser

import (
	"testing"

	"sccp/internal/cps"
	"sccp/internal/sccp"
)

func TestParseAndBuildSimpleFunction(t *testing.T) {
	src := `
fn add(x, y) =
  let a = const 1
  invoke_method a "+" (x) -> ret
`
	prog, err := Parse("test.cps", src)
	if err != nil {
		t.Fatalf("unexpected parse error: %s", FormatParseError("test.cps", src, err))
	}

	root, _, _, errs := Build(prog)
	if len(errs) != 0 {
		t.Fatalf("unexpected build errors: %v", errs)
	}
	if len(root.Params) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(root.Params))
	}
	if _, ok := root.Body().(*cps.LetPrim); !ok {
		t.Fatalf("expected the body to begin with a LetPrim, got %T", root.Body())
	}
}

func TestBuildReportsUndefinedName(t *testing.T) {
	src := `
fn f() =
  invoke_cont ret(missing)
`
	prog, err := Parse("test.cps", src)
	if err != nil {
		t.Fatalf("unexpected parse error: %s", FormatParseError("test.cps", src, err))
	}
	_, _, _, errs := Build(prog)
	if len(errs) == 0 {
		t.Fatalf("expected an undefined-name error")
	}
}

func TestParsedProgramAnalyzes(t *testing.T) {
	src := `
fn f() =
  let a = const 1
  let b = const 2
  letcont k(r) =
    invoke_cont ret(r)
  invoke_method a "+" (b) -> k
`
	prog, err := Parse("test.cps", src)
	if err != nil {
		t.Fatalf("unexpected parse error: %s", FormatParseError("test.cps", src, err))
	}
	root, _, _, errs := Build(prog)
	if len(errs) != 0 {
		t.Fatalf("unexpected build errors: %v", errs)
	}

	result := sccp.Run(root, sccp.Config{})
	if !result.IsReachable(root.Body()) {
		t.Fatalf("expected the root's body to be reachable")
	}
}

func TestBranchParsesAndAnalyzes(t *testing.T) {
	src := `
fn f(cond) =
  letcont t() =
    rethrow
  letcont e() =
    rethrow
  branch cond -> t, e
`
	prog, err := Parse("test.cps", src)
	if err != nil {
		t.Fatalf("unexpected parse error: %s", FormatParseError("test.cps", src, err))
	}
	root, _, branches, errs := Build(prog)
	if len(errs) != 0 {
		t.Fatalf("unexpected build errors: %v", errs)
	}
	if len(branches) != 1 {
		t.Fatalf("expected one branch binding, got %d", len(branches))
	}
	if branches[0].TrueName != "t" || branches[0].FalseName != "e" {
		t.Fatalf("unexpected branch binding names: %+v", branches[0])
	}

	result := sccp.Run(root, sccp.Config{})
	if !result.IsReachable(root.Body()) {
		t.Fatalf("expected the branch itself to be reachable")
	}
}
