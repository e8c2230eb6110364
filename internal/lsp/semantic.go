package lsp

import (
	"github.com/alecthomas/participle/v2/lexer"

	"sccp/internal/cpsparser"
)

// SemanticToken represents a single LSP semantic token entry.
// Line and StartChar are 0-based positions.
// TokenType is an index into SemanticTokenTypes.
// TokenModifiers is a bitmask based on SemanticTokenModifiers.
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

func collectSemanticTokens(prog *cpsparser.Program) []SemanticToken {
	var tokens []SemanticToken
	if prog == nil || prog.Func == nil {
		return tokens
	}
	return walkFunction(prog.Func)
}

func walkFunction(fn *cpsparser.Function) []SemanticToken {
	var tokens []SemanticToken

	tokens = append(tokens, makeToken(fn.Pos, fn.Name, "function", 1))
	tokens = append(tokens, nameTokens(fn.Params, "parameter", 0)...)
	if fn.Block != nil {
		tokens = append(tokens, walkBlock(fn.Block)...)
	}

	return tokens
}

func walkBlock(b *cpsparser.BlockExpr) []SemanticToken {
	var tokens []SemanticToken

	for _, stmt := range b.Stmts {
		switch {
		case stmt.LetPrim != nil:
			tokens = append(tokens, makeToken(stmt.LetPrim.Pos, stmt.LetPrim.Name, "variable", 1))
		case stmt.LetCont != nil:
			tokens = append(tokens, makeToken(stmt.LetCont.Pos, stmt.LetCont.Name, "function", 1))
			tokens = append(tokens, nameTokens(stmt.LetCont.Params, "parameter", 0)...)
			if stmt.LetCont.Block != nil {
				tokens = append(tokens, walkBlock(stmt.LetCont.Block)...)
			}
		case stmt.LetMutable != nil:
			tokens = append(tokens, nameToken(stmt.LetMutable.Name, "variable", 1))
			tokens = append(tokens, nameToken(stmt.LetMutable.Value, "variable", 0))
		case stmt.SetMutable != nil:
			tokens = append(tokens, nameToken(stmt.SetMutable.Name, "variable", 0))
			tokens = append(tokens, nameToken(stmt.SetMutable.Value, "variable", 0))
		}
	}

	if b.Terminator != nil {
		tokens = append(tokens, walkTerminator(b.Terminator)...)
	}

	return tokens
}

func walkTerminator(t *cpsparser.Terminator) []SemanticToken {
	var tokens []SemanticToken

	switch {
	case t.InvokeCont != nil:
		tokens = append(tokens, makeToken(t.Pos, "invoke_cont", "keyword", 0))
		tokens = append(tokens, nameToken(t.InvokeCont.Name, "function", 0))
		tokens = append(tokens, nameTokens(t.InvokeCont.Args, "variable", 0)...)
	case t.Branch != nil:
		tokens = append(tokens, makeToken(t.Pos, "branch", "keyword", 0))
		tokens = append(tokens, nameToken(t.Branch.Cond, "variable", 0))
		tokens = append(tokens, nameToken(t.Branch.TrueName, "function", 0))
		tokens = append(tokens, nameToken(t.Branch.FalseName, "function", 0))
	case t.InvokeMethod != nil:
		tokens = append(tokens, makeToken(t.Pos, "invoke_method", "keyword", 0))
		tokens = append(tokens, nameToken(t.InvokeMethod.Receiver, "variable", 0))
		tokens = append(tokens, nameTokens(t.InvokeMethod.Args, "variable", 0)...)
		tokens = append(tokens, nameToken(t.InvokeMethod.Cont, "function", 0))
	case t.InvokeStatic != nil:
		tokens = append(tokens, makeToken(t.Pos, "invoke_static", "keyword", 0))
		tokens = append(tokens, nameToken(t.InvokeStatic.Target, "function", 0))
		tokens = append(tokens, nameTokens(t.InvokeStatic.Args, "variable", 0)...)
		tokens = append(tokens, nameToken(t.InvokeStatic.Cont, "function", 0))
	case t.Throw != nil:
		tokens = append(tokens, makeToken(t.Pos, "throw", "keyword", 0))
		tokens = append(tokens, nameToken(t.Throw.Value, "variable", 0))
	case t.Rethrow != nil:
		tokens = append(tokens, makeToken(t.Pos, "rethrow", "keyword", 0))
	}

	return tokens
}

// nameToken builds a token at n's own position rather than its containing
// statement's, since the grammar captures a position per identifier for
// exactly this purpose.
func nameToken(n *cpsparser.Name, tokenType string, decl int) SemanticToken {
	return makeToken(n.Pos, n.Value, tokenType, decl)
}

func nameTokens(names []*cpsparser.Name, tokenType string, decl int) []SemanticToken {
	tokens := make([]SemanticToken, len(names))
	for i, n := range names {
		tokens[i] = nameToken(n, tokenType, decl)
	}
	return tokens
}

// makeToken builds a token at pos's line using value's own length. Only
// the function's own name, LetPrim's bound name and LetCont's own name pass
// a statement's Pos directly, since each of those names exactly one thing at that
// position; everywhere a statement or terminator can name more than one
// identifier, callers go through nameToken/nameTokens instead, each reading
// its own captured position off a cpsparser.Name.
func makeToken(pos lexer.Position, value, tokenType string, decl int) SemanticToken {
	return SemanticToken{
		Line:           uint32(max0(pos.Line - 1)),
		StartChar:      uint32(max0(pos.Column - 1)),
		Length:         uint32(len(value)),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: decl << indexOf("declaration", SemanticTokenModifiers),
	}
}

func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return -1
}
