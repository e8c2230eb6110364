package sccpcli

import (
	"sccp/internal/cpsparser"
	"sccp/internal/errors"
	"sccp/internal/sccp"
)

// DeadBranchWarnings reports every branch the analyzer proved takes only one
// of its two arms, the same provably-dead-arm fact collapseBranch acts on
// when it rewrites a Branch into a direct invoke_cont, surfaced here as a
// warning computed from the analysis result alone (the CLI prints these
// before it runs the Transformer).
func DeadBranchWarnings(branches []cpsparser.BranchBinding, result *sccp.Result) []errors.CompilerError {
	var warnings []errors.CompilerError

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
		warnings = append(warnings, errors.DeadBranch(liveArm, errors.Position{
			Filename: bb.Pos.Filename,
			Line:     bb.Pos.Line,
			Column:   bb.Pos.Column,
		}))
	}

	return warnings
}
