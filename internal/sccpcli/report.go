package sccpcli

import (
	"fmt"

	"github.com/fatih/color"

	"sccp/internal/sccp"
)

// Report renders a one-line-per-rewrite-kind summary of a Transform run, the
// same "what did this pass actually do" shape the teacher's optimization
// passes return to their own caller (internal/ir/optimizations.go's pass
// result structs), colorized the way the CLI's success/failure messages are.
func Report(s sccp.Stats) string {
	if s.Constified == 0 && s.Branches == 0 && s.Identicals == 0 {
		return color.YellowString("no rewrites applied")
	}
	return fmt.Sprintf("%s constants folded, %s branches collapsed, %s comparisons simplified",
		color.GreenString("%d", s.Constified),
		color.GreenString("%d", s.Branches),
		color.GreenString("%d", s.Identicals),
	)
}
