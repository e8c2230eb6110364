package errors

// Error codes used in diagnostics across the toolchain.
//
// Error code ranges:
// E0001-E0099: Name resolution errors (building a graph from parsed syntax)
// E0100-E0199: Lexer/parser errors
// E0600-E0699: Flow control errors (no code in this range is defined)
// W0001-W0099: Warnings (flow control / reachability)

const (
	// E0001: A name used in an operand position resolves to nothing in scope
	ErrorUndefinedName = "E0001"

	// E0002: A name used where a continuation is expected resolves to nothing
	ErrorUndefinedContinuation = "E0002"

	// E0003: A name resolves to a definition, but not a continuation
	ErrorNotAContinuation = "E0003"

	// E0004: A name resolves to a definition, but not a mutable variable
	ErrorNotAMutableVariable = "E0004"

	// E0005: A call site's argument count disagrees with the target's parameters
	ErrorArityMismatch = "E0005"

	// E0006: Two continuations in the same scope bind the same name
	ErrorDuplicateContinuation = "E0006"

	// E0007: A primitive form didn't match any of the grammar's alternatives
	ErrorMalformedPrimitive = "E0007"

	// E0008: A block's terminator didn't match any of the grammar's alternatives
	ErrorMalformedTerminator = "E0008"

	// Lexer/parser errors (E0100-E0199)

	// E0100: The lexer or grammar rejected the input outright
	ErrorUnexpectedToken = "E0100"

	// E0101: A string literal was never closed before end of line
	ErrorUnterminatedString = "E0101"

	// E0102: A literal's text couldn't be parsed into its declared kind
	ErrorInvalidLiteral = "E0102"

	// Flow control warnings (W0001-W0099)

	// W0001: A continuation is never the target of any reachable call
	WarningUnreachableContinuation = "W0001"

	// W0002: A branch always resolves to one arm, leaving the other dead
	WarningDeadBranch = "W0002"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorUndefinedName:
		return "Name is used but not bound in the current scope"
	case ErrorUndefinedContinuation:
		return "Continuation is referenced but not bound in the current scope"
	case ErrorNotAContinuation:
		return "Name resolves to a definition that isn't a continuation"
	case ErrorNotAMutableVariable:
		return "Name resolves to a definition that isn't a mutable variable"
	case ErrorArityMismatch:
		return "Call site passes a different number of arguments than the target expects"
	case ErrorDuplicateContinuation:
		return "Continuation name already bound in this scope"
	case ErrorMalformedPrimitive:
		return "Primitive expression doesn't match any known form"
	case ErrorMalformedTerminator:
		return "Block terminator doesn't match any known form"
	case ErrorUnexpectedToken:
		return "Input doesn't match the grammar at this point"
	case ErrorUnterminatedString:
		return "String literal has no closing quote"
	case ErrorInvalidLiteral:
		return "Literal text couldn't be converted to its declared kind"
	case WarningUnreachableContinuation:
		return "Continuation is never invoked along any reachable path"
	case WarningDeadBranch:
		return "One arm of this branch can never run"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the error code represents a warning rather than an error
func IsWarning(code string) bool {
	return len(code) > 0 && code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0001" && code < "E0100":
		return "Name Resolution"
	case code >= "E0100" && code < "E0200":
		return "Lexer/Parser"
	case code >= "E0600" && code < "E0700":
		return "Flow Control"
	case len(code) > 0 && code[0] == 'W':
		return "Warning"
	default:
		return "Unknown"
	}
}
