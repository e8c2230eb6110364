// Package sccpcli renders the result of an analysis/transform run for human
// consumption: the rewritten graph and a summary of what changed, in the
// colorized indented style the teacher's own IR printer and error reporter
// use.
package sccpcli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"sccp/internal/cps"
	"sccp/internal/sccp"
)

// Printer accumulates rendered output with the teacher's indent/writeLine
// pattern (internal/ir/printer.go), adapted to walk a CPS graph instead of
// SSA basic blocks.
type Printer struct {
	indent int
	result *sccp.Result
	output strings.Builder
}

// NewPrinter builds a Printer that reports reachability/value facts from
// result alongside the graph structure.
func NewPrinter(result *sccp.Result) *Printer {
	return &Printer{result: result}
}

// PrintRoot renders root's rewritten body.
func PrintRoot(root *cps.RootNode, result *sccp.Result) string {
	p := NewPrinter(result)
	p.writeLine("fn(%s)", paramNames(root.Params))
	p.indent++
	p.printExpr(root.Body())
	p.indent--
	return p.output.String()
}

func paramNames(params []*cps.Parameter) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...any) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

// printExpr renders a single expression and recurses into its body, marking
// unreachable code the way a dead-code annotation would (spec §4: the
// analysis never deletes anything by itself — printing is the first place
// reachability actually becomes visible to a human).
func (p *Printer) printExpr(e cps.Expression) {
	if e == nil {
		return
	}
	if p.result != nil && !p.result.IsReachable(e) {
		p.writeLine("%s", color.New(color.FgHiBlack).Sprintf("; unreachable: %s", describe(e)))
		return
	}
	switch n := e.(type) {
	case *cps.LetPrim:
		p.writeLine("let %s = %s", primName(n.Prim), p.valueOf(n.Prim))
		p.printExpr(n.Body())
	case *cps.LetCont:
		for _, c := range n.Conts {
			p.writeLine("letcont %s:", contLabel(c))
			p.indent++
			p.printExpr(c.Body())
			p.indent--
		}
		p.printExpr(n.Body())
	case *cps.LetHandler:
		p.writeLine("lethandler:")
		p.indent++
		p.printExpr(n.Handler.Body())
		p.indent--
		p.printExpr(n.Body())
	case *cps.LetMutable:
		p.writeLine("letmutable %s", n.Variable.Name)
		p.printExpr(n.Body())
	case *cps.DeclareFunction:
		p.writeLine("declarefunction %s", n.Variable.Name)
		p.printExpr(n.Body())
	case *cps.SetMutableVariable:
		p.writeLine("set %s", n.Variable.Name)
		p.printExpr(n.Body())
	case *cps.SetField:
		p.writeLine("setfield %s", n.FieldName)
		p.printExpr(n.Body())
	case *cps.SetStatic:
		p.writeLine("setstatic %s", n.Name)
		p.printExpr(n.Body())
	case *cps.InvokeContinuation:
		p.writeLine("invoke_cont %s", refTarget(n.Continuation))
	case *cps.Branch:
		p.writeLine("branch -> %s, %s", refTarget(n.TrueCont), refTarget(n.FalseCont))
	case *cps.InvokeMethod:
		p.writeLine("invoke_method %q -> %s", n.Selector.Name, refTarget(n.Continuation))
	case *cps.InvokeStatic:
		p.writeLine("invoke_static %s -> %s", n.Target, refTarget(n.Continuation))
	case *cps.Throw:
		p.writeLine("throw")
	case *cps.Rethrow:
		p.writeLine("rethrow")
	default:
		p.writeLine("%s", describe(e))
	}
}

func (p *Printer) valueOf(prim cps.Primitive) string {
	if p.result == nil {
		return primName(prim)
	}
	v := p.result.ValueOf(prim)
	if v.IsConstant() {
		return color.GreenString("%s", v.Constant().String())
	}
	return primName(prim)
}

func primName(prim cps.Primitive) string {
	switch p := prim.(type) {
	case *cps.Constant:
		return p.Value.String()
	case *cps.Identical:
		return "identical(...)"
	default:
		return fmt.Sprintf("%T", prim)
	}
}

func contLabel(c *cps.Continuation) string {
	if c.IsReturn {
		return "ret"
	}
	return fmt.Sprintf("k%p", c)
}

func refTarget(r *cps.Reference) string {
	c, ok := r.Definition.(*cps.Continuation)
	if !ok {
		return "?"
	}
	return contLabel(c)
}

func describe(e cps.Expression) string {
	return fmt.Sprintf("%T", e)
}
