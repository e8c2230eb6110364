package cpsparser

import "github.com/alecthomas/participle/v2/lexer"

// Program is a single function: the unit this package builds into a
// *cps.RootNode. Modeled on grammar/grammar.go's top-level Program/Module
// shape, narrowed to one function per source file since a CPS graph has no
// need for the surrounding module/struct/use machinery.
type Program struct {
	Pos  lexer.Position
	Func *Function `@@`
}

// Function is `fn name(params) = Block`.
type Function struct {
	Pos    lexer.Position
	Name   string     `"fn" @Ident`
	Params []*Name    `"(" [ @@ { "," @@ } ] ")"`
	Block  *BlockExpr `"=" @@`
}

// BlockExpr is a sequence of bindings followed by exactly one terminator —
// the textual counterpart of a chain of LetPrim/LetCont/LetMutable nodes
// ending in an Invoke*/Branch/Throw/Rethrow expression (spec's CPS shape:
// every block ends in a single control transfer, never falls off the end).
type BlockExpr struct {
	Pos        lexer.Position
	Stmts      []*Stmt     `@@*`
	Terminator *Terminator `@@`
}

// Stmt is one non-terminal binding form.
type Stmt struct {
	Pos        lexer.Position
	LetPrim    *LetPrimStmt    `  @@`
	LetCont    *LetContStmt    `| @@`
	LetMutable *LetMutableStmt `| @@`
	SetMutable *SetMutableStmt `| @@`
}

// LetPrimStmt is `let name = prim`.
type LetPrimStmt struct {
	Pos  lexer.Position
	Name string    `"let" @Ident "="`
	Prim *PrimExpr `@@`
}

// PrimExpr covers the primitive forms a program built by this grammar can
// construct directly. Other opaque primitives (CreateInstance, GetStatic, ...) are
// reachable only by composing a bigger graph programmatically — they carry
// no literal syntax here because a CPS graph exercising them textually
// doesn't need a distinct spelling for each.
type PrimExpr struct {
	Pos       lexer.Position
	Const     *Literal       `  "const" @@`
	Identical *IdenticalPrim `| @@`
	GetField  *GetFieldPrim  `| @@`
}

// IdenticalPrim is `identical(left, right)`.
type IdenticalPrim struct {
	Pos   lexer.Position
	Left  *Name `"identical" "(" @@ ","`
	Right *Name `@@ ")"`
}

// GetFieldPrim is `getfield object.field`.
type GetFieldPrim struct {
	Pos    lexer.Position
	Object *Name  `"getfield" @@ "."`
	Field  string `@Ident`
}

// Name is an identifier captured together with its own source position, so
// a terminator referencing several names (e.g. a branch's condition and its
// two targets) can be diagnosed and highlighted at each name's real column
// instead of the position of the statement that contains them.
type Name struct {
	Pos   lexer.Position
	Value string `@Ident`
}

// Literal is an immediate value usable directly as a Constant.
type Literal struct {
	Pos    lexer.Position
	Bool   *string  `  @("true" | "false")`
	Null   bool     `| @"null"`
	Float  *float64 `| @Float`
	Int    *string  `| @Int`
	String *string  `| @String`
}

// LetContStmt binds a named continuation in scope for the rest of the block.
type LetContStmt struct {
	Pos    lexer.Position
	Name   string     `"letcont" @Ident`
	Params []*Name    `"(" [ @@ { "," @@ } ] ")"`
	Block  *BlockExpr `"=" @@`
}

// LetMutableStmt allocates a mutable cell initialized from an existing name.
type LetMutableStmt struct {
	Pos   lexer.Position
	Name  *Name `"letmutable" @@ "="`
	Value *Name `@@`
}

// SetMutableStmt writes a new value into an existing mutable cell.
type SetMutableStmt struct {
	Pos   lexer.Position
	Name  *Name `"set" @@ "="`
	Value *Name `@@`
}

// Terminator is the single control-transfer expression every block ends
// with (spec §3's CPS shape: an expression either binds something and
// continues, or transfers control and stops).
type Terminator struct {
	Pos          lexer.Position
	InvokeCont   *InvokeContExpr   `  @@`
	Branch       *BranchExpr       `| @@`
	InvokeMethod *InvokeMethodExpr `| @@`
	InvokeStatic *InvokeStaticExpr `| @@`
	Throw        *ThrowExpr        `| @@`
	Rethrow      *RethrowExpr      `| @@`
}

// InvokeContExpr is `invoke_cont name(args)`.
type InvokeContExpr struct {
	Pos  lexer.Position
	Name *Name   `"invoke_cont" @@`
	Args []*Name `"(" [ @@ { "," @@ } ] ")"`
}

// BranchExpr is `branch cond -> trueName, falseName`.
type BranchExpr struct {
	Pos       lexer.Position
	Cond      *Name `"branch" @@ "->"`
	TrueName  *Name `@@ ","`
	FalseName *Name `@@`
}

// InvokeMethodExpr is `invoke_method recv "op" (args) -> cont`.
type InvokeMethodExpr struct {
	Pos      lexer.Position
	Receiver *Name   `"invoke_method" @@`
	Selector string  `@String`
	Args     []*Name `"(" [ @@ { "," @@ } ] ")"`
	Cont     *Name   `"->" @@`
}

// InvokeStaticExpr is `invoke_static name(args) -> cont`.
type InvokeStaticExpr struct {
	Pos    lexer.Position
	Target *Name   `"invoke_static" @@`
	Args   []*Name `"(" [ @@ { "," @@ } ] ")"`
	Cont   *Name   `"->" @@`
}

// ThrowExpr is `throw name`.
type ThrowExpr struct {
	Pos   lexer.Position
	Value *Name `"throw" @@`
}

// RethrowExpr is the bare `rethrow` terminal.
type RethrowExpr struct {
	Pos lexer.Position
	Tok string `@"rethrow"`
}
