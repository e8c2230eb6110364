package lsp

import (
	"github.com/alecthomas/participle/v2"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"sccp/internal/cpsparser"
	"sccp/internal/errors"
	"sccp/internal/sccp"
)

// ConvertParseError transforms a participle syntax error into a single LSP diagnostic.
func ConvertParseError(path, source string, err error) []protocol.Diagnostic {
	rendered := cpsparser.FormatParseError(path, source, err)

	line, column := 0, 0
	if pe, ok := err.(participle.Error); ok {
		pos := pe.Position()
		line, column = pos.Line-1, pos.Column-1
	}

	return []protocol.Diagnostic{
		{
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(max0(line)), Character: uint32(max0(column))},
				End:   protocol.Position{Line: uint32(max0(line)), Character: uint32(max0(column) + 1)},
			},
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("cps-parser"),
			Message:  rendered,
		},
	}
}

// ConvertBuildErrors transforms graph-build diagnostics (undefined names,
// arity mismatches, ...) into LSP diagnostics.
func ConvertBuildErrors(errs []errors.CompilerError) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic

	for _, e := range errs {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{
					Line:      uint32(max0(e.Position.Line - 1)),
					Character: uint32(max0(e.Position.Column - 1)),
				},
				End: protocol.Position{
					Line:      uint32(max0(e.Position.Line - 1)),
					Character: uint32(max0(e.Position.Column-1) + max(e.Length, 1)),
				},
			},
			Severity: severityFor(e.Level),
			Source:   ptrString("cps-builder: " + e.Code),
			Message:  e.Message,
		})
	}

	return diagnostics
}

// ConvertReachabilityWarnings reports every continuation the analyzer never
// marked reachable as a warning diagnostic, the LSP-visible counterpart of
// what the CLI's printer renders as "; unreachable: ...".
func ConvertReachabilityWarnings(conts []cpsparser.ContinuationBinding, result *sccp.Result) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic

	for _, cb := range conts {
		body := cb.Cont.Body()
		if body != nil && result.IsReachable(body) {
			continue
		}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(max0(cb.Pos.Line - 1)), Character: uint32(max0(cb.Pos.Column - 1))},
				End:   protocol.Position{Line: uint32(max0(cb.Pos.Line - 1)), Character: uint32(max0(cb.Pos.Column-1) + len(cb.Name))},
			},
			Severity: ptrSeverity(protocol.DiagnosticSeverityWarning),
			Source:   ptrString("cps-analysis: " + errors.WarningUnreachableContinuation),
			Message:  "continuation '" + cb.Name + "' is never invoked along any reachable path",
		})
	}

	return diagnostics
}

// ConvertDeadBranchWarnings reports every branch the analyzer proved takes
// only one of its two arms, the LSP-visible counterpart of the CLI's
// sccpcli.DeadBranchWarnings.
func ConvertDeadBranchWarnings(branches []cpsparser.BranchBinding, result *sccp.Result) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic

	for _, bb := range branches {
		trueReachable := result.IsReachable(bb.Branch.TrueCont.Definition)
		falseReachable := result.IsReachable(bb.Branch.FalseCont.Definition)
		if trueReachable == falseReachable {
			continue
		}

		liveArm := bb.FalseName
		if trueReachable {
			liveArm = bb.TrueName
		}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(max0(bb.Pos.Line - 1)), Character: uint32(max0(bb.Pos.Column - 1))},
				End:   protocol.Position{Line: uint32(max0(bb.Pos.Line - 1)), Character: uint32(max0(bb.Pos.Column-1) + len("branch"))},
			},
			Severity: ptrSeverity(protocol.DiagnosticSeverityWarning),
			Source:   ptrString("cps-analysis: " + errors.WarningDeadBranch),
			Message:  "branch always takes the '" + liveArm + "' arm",
		})
	}

	return diagnostics
}

func severityFor(level errors.ErrorLevel) *protocol.DiagnosticSeverity {
	if level == errors.Warning {
		return ptrSeverity(protocol.DiagnosticSeverityWarning)
	}
	return ptrSeverity(protocol.DiagnosticSeverityError)
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
