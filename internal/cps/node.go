// Package cps defines the Continuation-Passing-Style program graph that the
// SCCP pass (package sccp) traverses and rewrites. The IR itself is treated
// as an external collaborator by the analysis/transform core: this package
// is deliberately thin plumbing — node kinds, parent pointers, and the
// use-def reference relation — not a place for its own optimizations.
package cps

// Node is the common interface of every CPS graph node: expressions,
// primitives, continuations and the root. Every node has exactly one parent
// except the root (spec §3.1's structural invariant).
type Node interface {
	Parent() Node
	SetParent(Node)
}

// NodeBase gives every concrete node kind its parent pointer.
type NodeBase struct {
	parent Node
}

func (n *NodeBase) Parent() Node     { return n.parent }
func (n *NodeBase) SetParent(p Node) { n.parent = p }

// Expression is a CPS node with a unique control-flow successor reachable
// through Body (terminal expressions such as Branch/Throw report nil).
type Expression interface {
	Node
	Body() Expression
	SetBody(Expression)
	isExpression()
}

// ExpressionBase is embedded by every Expression implementation. Expressions
// with no Body slot of their own (Branch, Throw, Rethrow, InvokeContinuation)
// simply never call SetBody and Body always returns nil.
type ExpressionBase struct {
	NodeBase
	body Expression
}

func (e *ExpressionBase) Body() Expression     { return e.body }
func (e *ExpressionBase) SetBody(b Expression) { e.body = b }
func (*ExpressionBase) isExpression()          {}

// Definition is any node that produces a value consumed by References.
// Constant, Parameter and Continuation are all Definitions — Continuation
// doubles as a definition because its parameters behave as CPS phi-nodes
// (spec §4.4 "continuation parameter as φ-node").
type Definition interface {
	Node
	FirstRef() *Reference
	addRef(r *Reference)
	removeRef(r *Reference)
	isDefinition()
}

// DefinitionBase is embedded by every Definition implementation and owns the
// head of its doubly-linked use-list.
type DefinitionBase struct {
	NodeBase
	firstRef *Reference
}

func (d *DefinitionBase) FirstRef() *Reference { return d.firstRef }
func (*DefinitionBase) isDefinition()          {}

func (d *DefinitionBase) addRef(r *Reference) {
	r.next = d.firstRef
	if d.firstRef != nil {
		d.firstRef.prev = r
	}
	r.prev = nil
	d.firstRef = r
}

func (d *DefinitionBase) removeRef(r *Reference) {
	if r.prev != nil {
		r.prev.next = r.next
	} else {
		d.firstRef = r.next
	}
	if r.next != nil {
		r.next.prev = r.prev
	}
	r.prev, r.next = nil, nil
}

// Primitive is a Definition introduced by a LetPrim (spec §3.1's "Primitives
// / Definitions" list minus Parameter, Continuation and MutableVariable,
// which are bound by RootNode/LetCont/LetMutable respectively).
type Primitive interface {
	Definition
	isPrimitive()
}

// PrimitiveBase is embedded by every concrete Primitive.
type PrimitiveBase struct {
	DefinitionBase
}

func (*PrimitiveBase) isPrimitive() {}

// Reference is a single use-site of a Definition. It participates in the
// definition's use-list and can be unlinked in O(1) (spec §3.1, §5).
type Reference struct {
	Definition Definition
	Parent     Node // the node holding this reference (expression or primitive)
	prev, next *Reference
}

// NewReference creates a reference to def, owned by parent, and links it
// into def's use-list.
func NewReference(def Definition, parent Node) *Reference {
	r := &Reference{Definition: def, Parent: parent}
	if def != nil {
		def.addRef(r)
	}
	return r
}

// Unlink removes r from its definition's use-list and clears r.Definition.
// Calling it again on an already-unlinked reference does nothing.
func (r *Reference) Unlink() {
	if r.Definition != nil {
		r.Definition.removeRef(r)
		r.Definition = nil
	}
}

// Next returns the next reference in the owning definition's use-list.
func (r *Reference) Next() *Reference { return r.next }

// Uses returns every reference in def's use-list, in list order. Intended
// for analysis code that needs a snapshot rather than a live walk — the
// solver mutates the list (via Unlink) while walking live uses elsewhere.
func Uses(def Definition) []*Reference {
	var out []*Reference
	for r := def.FirstRef(); r != nil; r = r.Next() {
		out = append(out, r)
	}
	return out
}

// RootNode is the program entry: it has a body expression and, for
// functions, parameters.
type RootNode struct {
	NodeBase
	Params []*Parameter
	body   Expression
}

func (r *RootNode) Body() Expression     { return r.body }
func (r *RootNode) SetBody(b Expression) { r.body = b }

// SetParentPointers performs the preparatory walk spec §4 requires before
// analysis begins: every node's parent is made to point at its actual
// structural parent.
func SetParentPointers(root *RootNode) {
	if root == nil {
		return
	}
	for _, p := range root.Params {
		p.SetParent(root)
	}
	if root.Body() != nil {
		walkSetParent(root.Body(), root)
	}
}

func walkSetParent(n Expression, parent Node) {
	if n == nil {
		return
	}
	n.SetParent(parent)
	switch e := n.(type) {
	case *LetPrim:
		e.Prim.SetParent(e)
		walkSetParent(e.Body(), e)
	case *LetCont:
		for _, c := range e.Conts {
			c.SetParent(e)
			for _, p := range c.Params {
				p.SetParent(c)
			}
			walkSetParent(c.Body(), c)
		}
		walkSetParent(e.Body(), e)
	case *LetHandler:
		e.Handler.SetParent(e)
		for _, p := range e.Handler.Params {
			p.SetParent(e.Handler)
		}
		walkSetParent(e.Handler.Body(), e.Handler)
		walkSetParent(e.Body(), e)
	case *LetMutable:
		e.Variable.SetParent(e)
		walkSetParent(e.Body(), e)
	case *SetMutableVariable:
		walkSetParent(e.Body(), e)
	case *SetField:
		walkSetParent(e.Body(), e)
	case *SetStatic:
		walkSetParent(e.Body(), e)
	case *DeclareFunction:
		e.Variable.SetParent(e)
		e.Function.SetParent(e)
		walkSetParent(e.Body(), e)
	case *InvokeStatic, *InvokeMethod, *InvokeMethodDirectly, *InvokeConstructor,
		*ConcatenateStrings, *TypeOperator, *InvokeContinuation, *Branch, *Throw, *Rethrow:
		// These expressions have no independent Body slot: control only
		// continues through their Continuation argument (or, for Branch/
		// Throw/Rethrow, not at all). The continuation's own body is
		// walked when the LetCont/RootNode that binds it is visited.
	}
}

