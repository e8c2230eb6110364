package cps

// This file collects small constructors that build a node and wire its
// References in one step. Hand-assembling Reference{Definition, Parent}
// pairs correctly is exactly the kind of bookkeeping spec §5's "memory
// discipline" warns about getting wrong; callers (tests, internal/cpsparser)
// should go through these rather than poking the structs directly.

func NewRoot(params []*Parameter, body Expression) *RootNode {
	r := &RootNode{Params: params}
	r.SetBody(body)
	return r
}

func NewConstant(v ConstantValue) *Constant {
	return &Constant{Value: v}
}

func NewParameter(name, typeHint string) *Parameter {
	return &Parameter{Name: name, TypeHint: typeHint}
}

func NewMutableVariable(name string) *MutableVariable {
	return &MutableVariable{Name: name}
}

func NewContinuation(params []*Parameter, body Expression) *Continuation {
	c := &Continuation{Params: params}
	c.SetBody(body)
	return c
}

func NewReturnContinuation(params []*Parameter) *Continuation {
	return &Continuation{Params: params, IsReturn: true}
}

func NewLetPrim(prim Primitive, body Expression) *LetPrim {
	lp := &LetPrim{Prim: prim}
	lp.SetBody(body)
	return lp
}

func NewLetCont(conts []*Continuation, body Expression) *LetCont {
	lc := &LetCont{Conts: conts}
	lc.SetBody(body)
	return lc
}

func NewLetHandler(handler *Continuation, body Expression) *LetHandler {
	lh := &LetHandler{Handler: handler}
	lh.SetBody(body)
	return lh
}

func NewLetMutable(v *MutableVariable, value Definition, body Expression) *LetMutable {
	lm := &LetMutable{Variable: v}
	lm.Value = NewReference(value, lm)
	lm.SetBody(body)
	return lm
}

func NewDeclareFunction(v *MutableVariable, fn *CreateFunction, body Expression) *DeclareFunction {
	df := &DeclareFunction{Variable: v, Function: fn}
	df.SetBody(body)
	return df
}

func NewSetMutableVariable(v *MutableVariable, value Definition, body Expression) *SetMutableVariable {
	s := &SetMutableVariable{Variable: v}
	s.Value = NewReference(value, s)
	s.SetBody(body)
	return s
}

func NewInvokeContinuation(cont *Continuation, args []Definition) *InvokeContinuation {
	ic := &InvokeContinuation{}
	ic.Continuation = NewReference(cont, ic)
	for _, a := range args {
		ic.Args = append(ic.Args, NewReference(a, ic))
	}
	return ic
}

func NewBranch(cond Definition, trueCont, falseCont *Continuation) *Branch {
	b := &Branch{}
	b.Condition = Condition{Value: NewReference(cond, b)}
	b.TrueCont = NewReference(trueCont, b)
	b.FalseCont = NewReference(falseCont, b)
	return b
}

func NewInvokeMethod(receiver Definition, sel Selector, args []Definition, cont *Continuation) *InvokeMethod {
	im := &InvokeMethod{Selector: sel}
	im.Receiver = NewReference(receiver, im)
	for _, a := range args {
		im.Args = append(im.Args, NewReference(a, im))
	}
	im.Continuation = NewReference(cont, im)
	return im
}

func NewInvokeStatic(target string, args []Definition, cont *Continuation, returnHint string) *InvokeStatic {
	is := &InvokeStatic{Target: target, ReturnHint: returnHint}
	for _, a := range args {
		is.Args = append(is.Args, NewReference(a, is))
	}
	is.Continuation = NewReference(cont, is)
	return is
}

func NewInvokeMethodDirectly(receiver Definition, sel Selector, args []Definition, cont *Continuation, returnHint string) *InvokeMethodDirectly {
	im := &InvokeMethodDirectly{Selector: sel, ReturnHint: returnHint}
	im.Receiver = NewReference(receiver, im)
	for _, a := range args {
		im.Args = append(im.Args, NewReference(a, im))
	}
	im.Continuation = NewReference(cont, im)
	return im
}

func NewInvokeConstructor(className string, args []Definition, cont *Continuation) *InvokeConstructor {
	ic := &InvokeConstructor{ClassName: className}
	for _, a := range args {
		ic.Args = append(ic.Args, NewReference(a, ic))
	}
	ic.Continuation = NewReference(cont, ic)
	return ic
}

func NewConcatenateStrings(args []Definition, cont *Continuation) *ConcatenateStrings {
	cs := &ConcatenateStrings{}
	for _, a := range args {
		cs.Args = append(cs.Args, NewReference(a, cs))
	}
	cs.Continuation = NewReference(cont, cs)
	return cs
}

func NewTypeOperator(op string, value Definition, targetType string, cont *Continuation) *TypeOperator {
	to := &TypeOperator{Operator: op, TargetType: targetType}
	to.Value = NewReference(value, to)
	to.Continuation = NewReference(cont, to)
	return to
}

func NewIdentical(left, right Definition) *Identical {
	id := &Identical{}
	id.Left = NewReference(left, id)
	id.Right = NewReference(right, id)
	return id
}

func NewThrow(value Definition) *Throw {
	t := &Throw{}
	t.Value = NewReference(value, t)
	return t
}

func NewRethrow() *Rethrow { return &Rethrow{} }

func NewGetField(object Definition, field string) *GetField {
	g := &GetField{FieldName: field}
	g.Object = NewReference(object, g)
	return g
}

func NewGetStatic(name string) *GetStatic { return &GetStatic{Name: name} }

func NewGetMutableVariable(v *MutableVariable) *GetMutableVariable {
	return &GetMutableVariable{Variable: v}
}

func NewCreateFunction(element string) *CreateFunction {
	return &CreateFunction{Element: element}
}

func NewCreateInstance(className string, args []Definition) *CreateInstance {
	ci := &CreateInstance{ClassName: className}
	for _, a := range args {
		ci.Args = append(ci.Args, NewReference(a, ci))
	}
	return ci
}

func NewLiteralList(elements []Definition) *LiteralList {
	ll := &LiteralList{}
	for _, e := range elements {
		ll.Elements = append(ll.Elements, NewReference(e, ll))
	}
	return ll
}

func NewLiteralMap(keys, values []Definition) *LiteralMap {
	lm := &LiteralMap{}
	for i := range keys {
		lm.Entries = append(lm.Entries, LiteralMapEntry{
			Key:   NewReference(keys[i], lm),
			Value: NewReference(values[i], lm),
		})
	}
	return lm
}

func NewInterceptor(value Definition) *Interceptor {
	i := &Interceptor{}
	i.Value = NewReference(value, i)
	return i
}

func NewReifyRuntimeType(value Definition) *ReifyRuntimeType {
	r := &ReifyRuntimeType{}
	r.Value = NewReference(value, r)
	return r
}
