package cpsparser

import (
	"math/big"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"sccp/internal/cps"
	"sccp/internal/errors"
)

// scope resolves surface names to the cps.Definition they were bound to,
// chaining to an outer scope for names introduced by an enclosing block —
// the same lexical-scoping shape a symbol table for any nested-block
// language needs.
type scope struct {
	parent *scope
	defs   map[string]cps.Definition
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, defs: make(map[string]cps.Definition)}
}

func (s *scope) define(name string, def cps.Definition) {
	s.defs[name] = def
}

func (s *scope) lookup(name string) (cps.Definition, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if d, ok := cur.defs[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// names returns every name visible from s, innermost scope first, for
// building "did you mean" suggestions on a resolution failure.
func (s *scope) names() []string {
	var out []string
	seen := make(map[string]bool)
	for cur := s; cur != nil; cur = cur.parent {
		for name := range cur.defs {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	return out
}

// ContinuationBinding records where in the source a continuation got its
// name, so a caller holding only the built graph (which has no names or
// positions of its own — cps.Continuation is pure IR) can still report
// diagnostics like "continuation 'k' is never invoked" against source text.
type ContinuationBinding struct {
	Name string
	Pos  lexer.Position
	Cont *cps.Continuation
}

// BranchBinding records where in the source a branch terminator appeared
// and the names of its two arms, the same way ContinuationBinding does for
// continuations: a built *cps.Branch carries neither, so a caller wanting to
// report "this branch always takes the 'x' arm" needs this side channel to
// recover a name and a position.
type BranchBinding struct {
	Pos       lexer.Position
	TrueName  string
	FalseName string
	Branch    *cps.Branch
}

// Build walks a parsed Program and constructs the CPS graph it describes,
// returning every continuation binding and branch terminator encountered
// (for reachability and dead-arm diagnostics) and the diagnostics
// accumulated along the way (unresolved names, wrong arities) rather than
// stopping at the first one — mirroring the teacher's semantic analyzer
// reporting a batch of problems per run instead of one at a time.
func Build(prog *Program) (*cps.RootNode, []ContinuationBinding, []BranchBinding, []errors.CompilerError) {
	b := &builder{}
	root := b.buildFunction(prog.Func)
	return root, b.conts, b.branches, b.errs
}

type builder struct {
	errs     []errors.CompilerError
	conts    []ContinuationBinding
	branches []BranchBinding
}

func toPosition(pos lexer.Position) errors.Position {
	return errors.Position{Filename: pos.Filename, Line: pos.Line, Column: pos.Column}
}

func (b *builder) report(err errors.CompilerError) {
	b.errs = append(b.errs, err)
}

func (b *builder) buildFunction(fn *Function) *cps.RootNode {
	s := newScope(nil)
	params := make([]*cps.Parameter, len(fn.Params))
	for i, name := range fn.Params {
		p := cps.NewParameter(name.Value, "")
		params[i] = p
		s.define(name.Value, p)
	}
	ret := cps.NewReturnContinuation(nil)
	s.define("ret", ret)

	root := cps.NewRoot(params, nil)
	body := b.buildBlock(fn.Block, s)
	root.SetBody(body)
	return root
}

// buildBlock threads the statements in stmts into a chain of LetPrim/
// LetCont/LetMutable/SetMutableVariable nodes, each wrapping the
// construction of whatever follows it, and finally wraps the terminator
// (spec's CPS shape: every nested expression has exactly one "rest of the
// computation" slot it owns).
func (b *builder) buildBlock(block *BlockExpr, s *scope) cps.Expression {
	return b.buildStmts(block.Stmts, block.Terminator, s)
}

func (b *builder) buildStmts(stmts []*Stmt, term *Terminator, s *scope) cps.Expression {
	if len(stmts) == 0 {
		return b.buildTerminator(term, s)
	}
	head, rest := stmts[0], stmts[1:]
	switch {
	case head.LetPrim != nil:
		prim := b.buildPrim(head.LetPrim.Prim, s)
		lp := cps.NewLetPrim(prim, nil)
		s.define(head.LetPrim.Name, prim)
		lp.SetBody(b.buildStmts(rest, term, s))
		return lp

	case head.LetCont != nil:
		if _, already := s.defs[head.LetCont.Name]; already {
			b.report(errors.DuplicateContinuation(head.LetCont.Name, toPosition(head.Pos)))
		}
		inner := newScope(s)
		params := make([]*cps.Parameter, len(head.LetCont.Params))
		for i, name := range head.LetCont.Params {
			p := cps.NewParameter(name.Value, "")
			params[i] = p
			inner.define(name.Value, p)
		}
		cont := cps.NewContinuation(params, nil)
		s.define(head.LetCont.Name, cont)
		b.conts = append(b.conts, ContinuationBinding{Name: head.LetCont.Name, Pos: head.Pos, Cont: cont})
		cont.SetBody(b.buildBlock(head.LetCont.Block, inner))
		lc := cps.NewLetCont([]*cps.Continuation{cont}, nil)
		lc.SetBody(b.buildStmts(rest, term, s))
		return lc

	case head.LetMutable != nil:
		val, ok := s.lookup(head.LetMutable.Value.Value)
		if !ok {
			b.report(errors.UndefinedName(head.LetMutable.Value.Value, toPosition(head.LetMutable.Value.Pos), errors.SimilarNames(head.LetMutable.Value.Value, s.names())))
			val = cps.NewParameter("<error>", "")
		}
		v := cps.NewMutableVariable(head.LetMutable.Name.Value)
		lm := cps.NewLetMutable(v, val, nil)
		s.define(head.LetMutable.Name.Value, v)
		lm.SetBody(b.buildStmts(rest, term, s))
		return lm

	case head.SetMutable != nil:
		target, ok := s.lookup(head.SetMutable.Name.Value)
		if !ok {
			b.report(errors.UndefinedName(head.SetMutable.Name.Value, toPosition(head.SetMutable.Name.Pos), errors.SimilarNames(head.SetMutable.Name.Value, s.names())))
			return b.buildStmts(rest, term, s)
		}
		mv, ok := target.(*cps.MutableVariable)
		if !ok {
			b.report(errors.NotAMutableVariable(head.SetMutable.Name.Value, toPosition(head.SetMutable.Name.Pos)))
			return b.buildStmts(rest, term, s)
		}
		val, ok := s.lookup(head.SetMutable.Value.Value)
		if !ok {
			b.report(errors.UndefinedName(head.SetMutable.Value.Value, toPosition(head.SetMutable.Value.Pos), errors.SimilarNames(head.SetMutable.Value.Value, s.names())))
			val = cps.NewParameter("<error>", "")
		}
		sm := cps.NewSetMutableVariable(mv, val, nil)
		sm.SetBody(b.buildStmts(rest, term, s))
		return sm
	}
	b.report(errors.UnexpectedToken("malformed statement", toPosition(head.Pos)))
	return b.buildStmts(rest, term, s)
}

func (b *builder) buildPrim(p *PrimExpr, s *scope) cps.Primitive {
	switch {
	case p.Const != nil:
		return cps.NewConstant(b.buildLiteral(p.Const))
	case p.Identical != nil:
		l := b.resolve(p.Identical.Left, s)
		r := b.resolve(p.Identical.Right, s)
		return cps.NewIdentical(l, r)
	case p.GetField != nil:
		obj := b.resolve(p.GetField.Object, s)
		return cps.NewGetField(obj, p.GetField.Field)
	}
	b.report(errors.MalformedPrimitive(toPosition(p.Pos)))
	return cps.NewConstant(cps.Null())
}

func (b *builder) buildLiteral(lit *Literal) cps.ConstantValue {
	switch {
	case lit.Bool != nil:
		return cps.Bool(*lit.Bool == "true")
	case lit.Null:
		return cps.Null()
	case lit.Float != nil:
		return cps.Double(*lit.Float)
	case lit.Int != nil:
		n := new(big.Int)
		text := *lit.Int
		if strings.HasPrefix(text, "0x") {
			n.SetString(text[2:], 16)
		} else {
			n.SetString(text, 10)
		}
		return cps.Int(n)
	case lit.String != nil:
		return cps.Str(unquote(*lit.String))
	}
	b.report(errors.UnexpectedToken("malformed literal", toPosition(lit.Pos)))
	return cps.Null()
}

func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

func (b *builder) buildTerminator(term *Terminator, s *scope) cps.Expression {
	switch {
	case term.InvokeCont != nil:
		t := term.InvokeCont
		cont := b.resolveContinuation(t.Name, s)
		args := b.resolveAll(t.Args, s)
		b.checkArity(t.Name, cont, len(args))
		return cps.NewInvokeContinuation(cont, args)

	case term.Branch != nil:
		t := term.Branch
		cond := b.resolve(t.Cond, s)
		trueCont := b.resolveContinuation(t.TrueName, s)
		falseCont := b.resolveContinuation(t.FalseName, s)
		b.checkArity(t.TrueName, trueCont, 0)
		b.checkArity(t.FalseName, falseCont, 0)
		branch := cps.NewBranch(cond, trueCont, falseCont)
		b.branches = append(b.branches, BranchBinding{
			Pos: term.Pos, TrueName: t.TrueName.Value, FalseName: t.FalseName.Value, Branch: branch,
		})
		return branch

	case term.InvokeMethod != nil:
		t := term.InvokeMethod
		recv := b.resolve(t.Receiver, s)
		cont := b.resolveContinuation(t.Cont, s)
		b.checkArity(t.Cont, cont, 1)
		sel := cps.Selector{Name: unquote(t.Selector), Arity: len(t.Args), IsOperator: isOperatorName(unquote(t.Selector))}
		return cps.NewInvokeMethod(recv, sel, b.resolveAll(t.Args, s), cont)

	case term.InvokeStatic != nil:
		t := term.InvokeStatic
		cont := b.resolveContinuation(t.Cont, s)
		b.checkArity(t.Cont, cont, 1)
		return cps.NewInvokeStatic(t.Target.Value, b.resolveAll(t.Args, s), cont, "")

	case term.Throw != nil:
		return cps.NewThrow(b.resolve(term.Throw.Value, s))

	case term.Rethrow != nil:
		return cps.NewRethrow()
	}
	b.report(errors.MalformedTerminator(toPosition(term.Pos)))
	return cps.NewRethrow()
}

// checkArity reports a mismatch between a continuation's declared parameter
// count and the number of arguments a call site actually supplies. The
// implicit return continuation is exempt: it is synthesized with no
// declared parameters (cps.NewReturnContinuation(nil)) both for a function's
// real "ret" and as resolveContinuation's own error-recovery stand-in, so
// its arity carries no information to check against.
func (b *builder) checkArity(n *Name, cont *cps.Continuation, nargs int) {
	if cont.IsReturn {
		return
	}
	if len(cont.Params) != nargs {
		b.report(errors.ArityMismatch(n.Value, len(cont.Params), nargs, toPosition(n.Pos)))
	}
}

func isOperatorName(name string) bool {
	switch name {
	case "+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">=", "&&", "||", "unary-", "!":
		return true
	default:
		return false
	}
}

func (b *builder) resolve(n *Name, s *scope) cps.Definition {
	if d, ok := s.lookup(n.Value); ok {
		return d
	}
	b.report(errors.UndefinedName(n.Value, toPosition(n.Pos), errors.SimilarNames(n.Value, s.names())))
	return cps.NewParameter("<error>", "")
}

func (b *builder) resolveAll(names []*Name, s *scope) []cps.Definition {
	out := make([]cps.Definition, len(names))
	for i, n := range names {
		out[i] = b.resolve(n, s)
	}
	return out
}

func (b *builder) resolveContinuation(n *Name, s *scope) *cps.Continuation {
	d, ok := s.lookup(n.Value)
	if !ok {
		b.report(errors.UndefinedContinuation(n.Value, toPosition(n.Pos), errors.SimilarNames(n.Value, s.names())))
		return cps.NewReturnContinuation(nil)
	}
	c, ok := d.(*cps.Continuation)
	if !ok {
		b.report(errors.NotAContinuation(n.Value, toPosition(n.Pos)))
		return cps.NewReturnContinuation(nil)
	}
	return c
}
