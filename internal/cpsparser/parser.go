package cpsparser

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"
)

var parser = participle.MustBuild[Program](
	participle.Lexer(CPSLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(3),
)

// Parse reads source into a Program syntax tree; Build turns that tree into
// the CPS graph it describes. Modeled on
// grammar/parser.go's ParseFile/ParseSource split: syntax errors come back
// from participle, name-resolution errors come back from Build, and both
// are reported the same way by the caller.
func Parse(filename, source string) (*Program, error) {
	prog, err := parser.ParseString(filename, source)
	if err != nil {
		return nil, err
	}
	return prog, nil
}

// FormatParseError renders a participle syntax error in the caret style the
// teacher's grammar package uses, pointing at the offending line and column
// rather than just printing the raw message.
func FormatParseError(filename, source string, err error) string {
	pe, ok := err.(participle.Error)
	if !ok {
		return err.Error()
	}
	pos := pe.Position()
	lines := strings.Split(source, "\n")
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d:%d: %s\n", filename, pos.Line, pos.Column, pe.Message())
	if pos.Line >= 1 && pos.Line <= len(lines) {
		line := lines[pos.Line-1]
		fmt.Fprintf(&b, "    %s\n", line)
		marker := strings.Repeat(" ", max(pos.Column-1, 0)) + color.RedString("^")
		fmt.Fprintf(&b, "    %s\n", marker)
	}
	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
