package sccp

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var errOut = os.Stderr

// InternalErrorFunc reports a violated compiler invariant (spec §7) and
// aborts compilation. Every condition it covers is a programming error in
// the front end or in this pass itself, never a user-facing diagnostic —
// there is nothing the caller can recover from, so implementations should
// not return.
type InternalErrorFunc func(context, message string)

// DefaultInternalError renders the violation the way the teacher's own
// error reporter colors compiler-internal failures, then panics. Used
// whenever a caller does not supply its own sink.
func DefaultInternalError(context, message string) {
	color.New(color.FgRed, color.Bold).Fprintf(errOut, "internal error")
	fmt.Fprintf(errOut, " [%s]: %s\n", context, message)
	panic(fmt.Sprintf("sccp: internal error in %s: %s", context, message))
}
