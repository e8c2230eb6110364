package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorReporter(t *testing.T) {
	source := `fn test() =
  let x = unknownName
  invoke_cont ret(x)`

	reporter := NewErrorReporter("test.cps", source)

	err := UndefinedName("unknownName", Position{Line: 2, Column: 11}, []string{"knownName", "anotherName"})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "error["+ErrorUndefinedName+"]")
	assert.Contains(t, formatted, "undefined name")
	assert.Contains(t, formatted, "unknownName")

	assert.Contains(t, formatted, "test.cps:2:11")

	assert.Contains(t, formatted, "did you mean")
	assert.Contains(t, formatted, "knownName")
}

func TestUndefinedNameError(t *testing.T) {
	pos := Position{Line: 1, Column: 5}

	err := UndefinedName("balace", pos, []string{"balance"})
	assert.Equal(t, ErrorUndefinedName, err.Code)
	assert.Contains(t, err.Message, "balace")
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "did you mean 'balance'")

	err = UndefinedName("xyz", pos, []string{})
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "make sure the name is bound")
}

func TestUndefinedContinuationError(t *testing.T) {
	pos := Position{Line: 1, Column: 5}

	err := UndefinedContinuation("k2", pos, []string{"k1"})
	assert.Equal(t, ErrorUndefinedContinuation, err.Code)
	assert.Contains(t, err.Message, "k2")
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "did you mean 'k1'")
	assert.NotEmpty(t, err.HelpText)
}

func TestArityMismatchError(t *testing.T) {
	pos := Position{Line: 1, Column: 5}

	err := ArityMismatch("k", 2, 1, pos)
	assert.Equal(t, ErrorArityMismatch, err.Code)
	assert.Contains(t, err.Message, "expects 2 argument(s), got 1")
	assert.Len(t, err.Suggestions, 1)
}

func TestDuplicateContinuationError(t *testing.T) {
	pos := Position{Line: 1, Column: 5}

	err := DuplicateContinuation("k", pos)
	assert.Equal(t, ErrorDuplicateContinuation, err.Code)
	assert.Contains(t, err.Message, "duplicate continuation 'k'")
	assert.Len(t, err.Notes, 1)
}

func TestWarningFormatting(t *testing.T) {
	source := `fn f() =
  letcont dead() =
    rethrow
  rethrow`
	reporter := NewErrorReporter("test.cps", source)

	err := UnreachableContinuation("dead", Position{Line: 2, Column: 11})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "warning["+WarningUnreachableContinuation+"]")
	assert.Contains(t, formatted, "never invoked")
}

func TestErrorMarkerCreation(t *testing.T) {
	source := `let variable = value;`
	reporter := NewErrorReporter("test.cps", source)

	marker := reporter.createMarker(5, 8, Error) // "variable" is 8 chars at column 5

	spaces := strings.Count(marker, " ")
	assert.Equal(t, 4, spaces) // column 5 means 4 spaces before
	carets := strings.Count(marker, "^")
	assert.Equal(t, 8, carets) // 8 character length
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("hello", "hello"))
	assert.Equal(t, 1, levenshteinDistance("hello", "hallo"))
	assert.Equal(t, 1, levenshteinDistance("hello", "helo"))
	assert.Equal(t, 5, levenshteinDistance("hello", ""))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

func TestSimilarNameFinding(t *testing.T) {
	candidates := []string{"balance", "amount", "total", "balanceOf", "xyz"}

	similar := findSimilarNames("balace", candidates)
	assert.Contains(t, similar, "balance")
	assert.NotContains(t, similar, "xyz")

	similar = findSimilarNames("verydifferent", candidates)
	assert.Empty(t, similar)
}

func TestErrorLevels(t *testing.T) {
	source := `test`
	reporter := NewErrorReporter("test.cps", source)
	pos := Position{Line: 1, Column: 1}

	errorErr := CompilerError{Level: Error, Message: "test error", Position: pos}
	warningErr := CompilerError{Level: Warning, Message: "test warning", Position: pos}

	errorFormatted := reporter.FormatError(errorErr)
	warningFormatted := reporter.FormatError(warningErr)

	assert.Contains(t, errorFormatted, "error:")
	assert.Contains(t, warningFormatted, "warning:")
}
