package cps

// bodyHolder is any node with a single Body expression slot that a new
// expression can be spliced into — the CPS analogue of the SSA basic
// block's "replace terminator/instruction list" operation the Transformer
// performs (spec §4.5).
type bodyHolder interface {
	Node
	Body() Expression
	SetBody(Expression)
}

// Splice replaces parent's body slot with newNode and sets newNode's parent
// pointer to parent, atomically from the caller's point of view (spec
// §4.5's "every splice sets newNode.parent = oldParent and oldParent.body =
// newNode atomically"). parent must be the structural parent already
// recorded on the node being replaced.
func Splice(parent Node, newNode Expression) {
	newNode.SetParent(parent)
	switch p := parent.(type) {
	case bodyHolder:
		p.SetBody(newNode)
	default:
		panic("cps: Splice called with a parent that has no body slot")
	}
}

// Retarget moves r off whatever Definition it currently points at and onto
// newDef, keeping r itself (and its Parent) unchanged. The Transformer uses
// this to redirect every use of a definition proven constant onto the
// freshly materialized Constant node (spec §4.5's "constify-expression"),
// and to fold an Identical comparison into a direct reference to one of its
// operands.
func Retarget(r *Reference, newDef Definition) {
	if r.Definition != nil {
		r.Definition.removeRef(r)
	}
	r.Definition = newDef
	if newDef != nil {
		newDef.addRef(r)
	}
}
