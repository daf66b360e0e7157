package constraint

// Visitor double-dispatches over a constraint tree. Implementations that
// only care about some node kinds can embed BaseVisitor and override the
// rest.
type Visitor interface {
	VisitPrimary(p *Primary)
	VisitUnary(u *Unary)
	VisitBinary(b *Binary)
}

// BaseVisitor is the default traversal: recurse left-then-right on Binary,
// into the operand on Unary, no-op on Primary. Embed it and override the
// methods you need; call the embedded method to keep recursing.
type BaseVisitor struct {
	Self Visitor
}

// self returns the outermost visitor so overridden methods keep dispatching
// through the embedder, not back into BaseVisitor.
func (b *BaseVisitor) self() Visitor {
	if b.Self != nil {
		return b.Self
	}
	return b
}

func (b *BaseVisitor) VisitPrimary(p *Primary) {}

func (b *BaseVisitor) VisitUnary(u *Unary) {
	if u.Child != nil {
		u.Child.Accept(b.self())
	}
}

func (b *BaseVisitor) VisitBinary(bin *Binary) {
	if bin.Left != nil {
		bin.Left.Accept(b.self())
	}
	if bin.Right != nil {
		bin.Right.Accept(b.self())
	}
}

// Walk runs the default traversal over e, invoking visit for every Primary
// leaf encountered. It is the common case (collect referenced features)
// used by the feature model's constraint binding and the solver's
// referenced-name collection.
func Walk(e Expr, visit func(p *Primary)) {
	if e == nil {
		return
	}
	w := &collector{visit: visit}
	w.Self = w
	e.Accept(w)
}

type collector struct {
	BaseVisitor
	visit func(p *Primary)
}

func (c *collector) VisitPrimary(p *Primary) {
	c.visit(p)
}
