package sccpcli

import (
	"testing"

	"sccp/internal/cpsparser"
	"sccp/internal/errors"
	"sccp/internal/sccp"
)

func TestDeadBranchWarningsReportsConstantCondition(t *testing.T) {
	src := `
fn f() =
  let c = const true
  letcont t() =
    rethrow
  letcont e() =
    rethrow
  branch c -> t, e
`
	prog, err := cpsparser.Parse("test.cps", src)
	if err != nil {
		t.Fatalf("unexpected parse error: %s", cpsparser.FormatParseError("test.cps", src, err))
	}

	root, _, branches, errs := cpsparser.Build(prog)
	if len(errs) != 0 {
		t.Fatalf("unexpected build errors: %v", errs)
	}

	result := sccp.Run(root, sccp.Config{})
	warnings := DeadBranchWarnings(branches, result)
	if len(warnings) != 1 {
		t.Fatalf("expected one dead-branch warning, got %d: %v", len(warnings), warnings)
	}
	if warnings[0].Code != errors.WarningDeadBranch {
		t.Fatalf("expected code %s, got %s", errors.WarningDeadBranch, warnings[0].Code)
	}
}

func TestDeadBranchWarningsSilentWhenBothArmsReachable(t *testing.T) {
	src := `
fn f(cond) =
  letcont t() =
    rethrow
  letcont e() =
    rethrow
  branch cond -> t, e
`
	prog, err := cpsparser.Parse("test.cps", src)
	if err != nil {
		t.Fatalf("unexpected parse error: %s", cpsparser.FormatParseError("test.cps", src, err))
	}

	root, _, branches, errs := cpsparser.Build(prog)
	if len(errs) != 0 {
		t.Fatalf("unexpected build errors: %v", errs)
	}

	result := sccp.Run(root, sccp.Config{})
	warnings := DeadBranchWarnings(branches, result)
	if len(warnings) != 0 {
		t.Fatalf("expected no dead-branch warnings, got %v", warnings)
	}
}
