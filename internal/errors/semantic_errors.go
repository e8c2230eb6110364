package errors

import (
	"fmt"
	"strings"
)

// SemanticErrorBuilder provides a fluent interface for creating semantic errors with suggestions
type SemanticErrorBuilder struct {
	err CompilerError
}

// NewSemanticError creates a new semantic error builder
func NewSemanticError(code, message string, pos Position) *SemanticErrorBuilder {
	return &SemanticErrorBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewSemanticWarning creates a new semantic warning builder
func NewSemanticWarning(code, message string, pos Position) *SemanticErrorBuilder {
	return &SemanticErrorBuilder{
		err: CompilerError{
			Level:    Warning,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithLength sets the length of the error span
func (b *SemanticErrorBuilder) WithLength(length int) *SemanticErrorBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *SemanticErrorBuilder) WithSuggestion(message string) *SemanticErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithNote adds a note to the error
func (b *SemanticErrorBuilder) WithNote(note string) *SemanticErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *SemanticErrorBuilder) WithHelp(help string) *SemanticErrorBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed compiler error
func (b *SemanticErrorBuilder) Build() CompilerError {
	return b.err
}

// Common error constructors with suggestions, one per failure a graph build
// or a parse can raise.

// UndefinedName creates an error for a name with no binding in scope.
func UndefinedName(name string, pos Position, similarNames []string) CompilerError {
	builder := NewSemanticError(ErrorUndefinedName, fmt.Sprintf("undefined name '%s'", name), pos).
		WithLength(len(name))

	if len(similarNames) > 0 {
		builder = builder.WithSuggestion(didYouMean(similarNames))
	} else {
		builder = builder.WithSuggestion("make sure the name is bound by a let, letcont, or parameter list before use")
	}

	return builder.Build()
}

// UndefinedContinuation creates an error for a continuation reference with no binding in scope.
func UndefinedContinuation(name string, pos Position, similarNames []string) CompilerError {
	builder := NewSemanticError(ErrorUndefinedContinuation, fmt.Sprintf("undefined continuation '%s'", name), pos).
		WithLength(len(name))

	if len(similarNames) > 0 {
		builder = builder.WithSuggestion(didYouMean(similarNames))
	}

	return builder.WithHelp("continuations are bound with letcont, or implicitly as the function's return path").Build()
}

// NotAContinuation creates an error for a name that resolves but isn't a continuation.
func NotAContinuation(name string, pos Position) CompilerError {
	return NewSemanticError(ErrorNotAContinuation, fmt.Sprintf("'%s' is not a continuation", name), pos).
		WithLength(len(name)).
		WithSuggestion("only names bound by letcont or the function's own return path can be invoked here").
		Build()
}

// NotAMutableVariable creates an error for a name that resolves but isn't a mutable cell.
func NotAMutableVariable(name string, pos Position) CompilerError {
	return NewSemanticError(ErrorNotAMutableVariable, fmt.Sprintf("'%s' is not a mutable variable", name), pos).
		WithLength(len(name)).
		WithSuggestion("only names bound by letmutable can be the target of a set").
		Build()
}

// ArityMismatch creates an error for a call site whose argument count disagrees with its target.
func ArityMismatch(targetName string, expected, actual int, pos Position) CompilerError {
	return NewSemanticError(ErrorArityMismatch,
		fmt.Sprintf("'%s' expects %d argument(s), got %d", targetName, expected, actual), pos).
		WithSuggestion(fmt.Sprintf("provide exactly %d argument(s)", expected)).
		WithHelp("a continuation's parameter list fixes how many arguments every invoke_cont of it must pass").
		Build()
}

// DuplicateContinuation creates an error for a continuation name rebound in the same scope.
func DuplicateContinuation(name string, pos Position) CompilerError {
	return NewSemanticError(ErrorDuplicateContinuation, fmt.Sprintf("duplicate continuation '%s'", name), pos).
		WithLength(len(name)).
		WithSuggestion(fmt.Sprintf("rename one of the '%s' bindings", name)).
		WithNote("continuation names must be unique within the scope that binds them").
		Build()
}

// MalformedPrimitive creates an error for a primitive expression matching no known form.
func MalformedPrimitive(pos Position) CompilerError {
	return NewSemanticError(ErrorMalformedPrimitive, "malformed primitive expression", pos).
		WithHelp("expected one of: const, identical(a, b), getfield x.f").
		Build()
}

// MalformedTerminator creates an error for a block terminator matching no known form.
func MalformedTerminator(pos Position) CompilerError {
	return NewSemanticError(ErrorMalformedTerminator, "malformed block terminator", pos).
		WithHelp("expected one of: invoke_cont, branch, invoke_method, invoke_static, throw, rethrow").
		Build()
}

// UnexpectedToken creates an error for input the lexer/grammar couldn't match.
func UnexpectedToken(message string, pos Position) CompilerError {
	return NewSemanticError(ErrorUnexpectedToken, message, pos).Build()
}

// UnterminatedString creates an error for a string literal with no closing quote.
func UnterminatedString(pos Position) CompilerError {
	return NewSemanticError(ErrorUnterminatedString, "unterminated string literal", pos).
		WithSuggestion("add a closing '\"' before the end of the line").
		Build()
}

// UnreachableContinuation creates a warning for a continuation that is never invoked.
func UnreachableContinuation(name string, pos Position) CompilerError {
	return NewSemanticWarning(WarningUnreachableContinuation, fmt.Sprintf("continuation '%s' is never invoked", name), pos).
		WithNote("the analysis found no reachable call site that ever targets it").
		Build()
}

// DeadBranch creates a warning for a branch with a provably unreachable arm.
func DeadBranch(liveArm string, pos Position) CompilerError {
	return NewSemanticWarning(WarningDeadBranch, fmt.Sprintf("branch always takes the '%s' arm", liveArm), pos).
		WithSuggestion("the other arm can be removed once this is confirmed").
		Build()
}

// Helper functions

func didYouMean(names []string) string {
	if len(names) == 1 {
		return fmt.Sprintf("did you mean '%s'?", names[0])
	}
	return fmt.Sprintf("did you mean one of: '%s'?", strings.Join(names, "', '"))
}

// SimilarNames returns the candidates close enough to target to suggest as a
// "did you mean" fix, for callers outside this package building their own
// CompilerError values.
func SimilarNames(target string, candidates []string) []string {
	return findSimilarNames(target, candidates)
}

func findSimilarNames(target string, candidates []string) []string {
	var similar []string

	for _, candidate := range candidates {
		if levenshteinDistance(target, candidate) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}

	return similar
}

// Simple Levenshtein distance implementation for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Create matrix
	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}

	// Initialize first row and column
	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	// Fill the matrix
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			matrix[i][j] = min3(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
