// Package cpsparser implements a textual surface syntax for the CPS graphs
// package sccp analyzes and rewrites: a small, explicit notation for
// RootNode/LetPrim/LetCont/Branch/Invoke*, used by the CLI, the language
// server, and this package's own tests to build graphs without hand-wiring
// internal/cps References.
package cpsparser

import "github.com/alecthomas/participle/v2/lexer"

// CPSLexer tokenizes the surface syntax. Modeled on the teacher's stateful
// lexer rule table (grammar/lexer.go), narrowed to the tokens this grammar
// actually needs: identifiers, integers, strings (selectors and string literals),
// operators and punctuation, with comments and whitespace elided.
var CPSLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Float", `[0-9]+\.[0-9]+`, nil},
		{"Int", `0x[0-9a-fA-F]+|[0-9]+`, nil},
		{"String", `"(\\.|[^"\\])*"`, nil},
		{"Punctuation", `->|=>|[(){},.:;?=]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
