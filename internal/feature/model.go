package feature

import (
	"sort"
	"strings"

	"github.com/se-sic/vara-feature-go/internal/constraint"
	"github.com/se-sic/vara-feature-go/internal/fmerr"
	"github.com/se-sic/vara-feature-go/internal/handle"
)

// MixedConstraint is a constraint whose encoding depends on the two
// orthogonal enums described for Mixed constraints: ExprKind controls
// whether the stored expression is asserted as written or negated,
// ReqKind controls whether the encoding is gated on every referenced
// binary feature being selected.
type MixedConstraint struct {
	Expr     constraint.Expr
	ExprKind ExprKind
	Req      ReqKind
}

// FeatureModel is the single ownership root of a feature tree: it owns
// every Node (via its Arena) and every top-level constraint.
type FeatureModel struct {
	arena *Arena

	name   string
	commit string
	path   string
	root   handle.Handle

	byName map[string]handle.Handle

	boolConstraints    []constraint.Expr
	nonBoolConstraints []constraint.Expr
	mixedConstraints   []MixedConstraint

	orderCache []handle.Handle
	orderDirty bool
}

// New returns an empty, rootless model.
func New(name string) *FeatureModel {
	return &FeatureModel{
		arena:      NewArena(),
		name:       name,
		root:       handle.Invalid,
		byName:     make(map[string]handle.Handle),
		orderDirty: true,
	}
}

func (m *FeatureModel) invalidate() { m.orderDirty = true }

// --- scalar accessors ---

func (m *FeatureModel) Name() string   { return m.name }
func (m *FeatureModel) Commit() string { return m.commit }
func (m *FeatureModel) Path() string   { return m.path }
func (m *FeatureModel) Root() handle.Handle { return m.root }

func (m *FeatureModel) SetName(v string)   { m.name = v }
func (m *FeatureModel) SetCommit(v string) { m.commit = v }
func (m *FeatureModel) SetPath(v string)   { m.path = v }

// --- lookup ---

// Lookup resolves a feature by name in O(1).
func (m *FeatureModel) Lookup(name string) (handle.Handle, bool) {
	h, ok := m.byName[name]
	return h, ok
}

// Get returns the node at h.
func (m *FeatureModel) Get(h handle.Handle) (*Node, bool) {
	return m.arena.Get(h)
}

// Size returns the number of Feature nodes in the model (Relationship
// groups are not counted).
func (m *FeatureModel) Size() int { return len(m.byName) }

// Features returns every feature handle in depth-first,
// parent-before-children, case-insensitive lexicographic tiebreak order.
// The order is cached and recomputed lazily the next time it's asked for
// after a mutation invalidates it.
func (m *FeatureModel) Features() []handle.Handle {
	if m.orderDirty {
		m.orderCache = m.computeOrder()
		m.orderDirty = false
	}
	return m.orderCache
}

func (m *FeatureModel) computeOrder() []handle.Handle {
	var out []handle.Handle
	if m.root != handle.Invalid {
		m.dfs(m.root, &out)
	}
	return out
}

func (m *FeatureModel) dfs(h handle.Handle, out *[]handle.Handle) {
	n, ok := m.arena.Get(h)
	if !ok {
		return
	}
	if n.Kind.IsFeature() {
		*out = append(*out, h)
	}
	for _, child := range m.orderedChildren(n) {
		m.dfs(child, out)
	}
}

// orderedChildren flattens a Relationship child transparently (its
// feature children become siblings of n's direct feature children for
// ordering purposes) and sorts the result case-insensitively by name.
func (m *FeatureModel) orderedChildren(n *Node) []handle.Handle {
	var named []handle.Handle
	for _, c := range n.Children {
		cn, ok := m.arena.Get(c)
		if !ok {
			continue
		}
		if cn.Kind == KindRelationship {
			named = append(named, cn.Children...)
		} else {
			named = append(named, c)
		}
	}
	sort.Slice(named, func(i, j int) bool {
		ni, _ := m.arena.Get(named[i])
		nj, _ := m.arena.Get(named[j])
		return strings.ToLower(ni.Name) < strings.ToLower(nj.Name)
	})
	return named
}

// --- constraint lists ---

func (m *FeatureModel) BooleanConstraints() []constraint.Expr    { return m.boolConstraints }
func (m *FeatureModel) NonBooleanConstraints() []constraint.Expr { return m.nonBoolConstraints }
func (m *FeatureModel) MixedConstraints() []MixedConstraint      { return m.mixedConstraints }

// --- mutation: features ---

// AddFeatureNode installs n in the model. If parent is handle.Invalid, n
// attaches to the model's root (or becomes the root itself, if n is a
// Root-kind node and the model has none yet).
func (m *FeatureModel) AddFeatureNode(n *Node, parent handle.Handle) (handle.Handle, error) {
	if !n.Kind.IsFeature() {
		return handle.Invalid, fmerr.New(fmerr.Generic, "AddFeatureNode: node is not a Feature kind")
	}
	if _, exists := m.byName[n.Name]; exists {
		return handle.Invalid, fmerr.Newf(fmerr.AlreadyPresent, "feature %q already present", n.Name)
	}

	if n.Kind == KindRoot {
		if m.root != handle.Invalid {
			return handle.Invalid, fmerr.New(fmerr.Inconsistent, "model already has a root feature")
		}
		h := m.arena.Alloc(n)
		m.root = h
		m.byName[n.Name] = h
		m.invalidate()
		return h, nil
	}

	if parent == handle.Invalid {
		parent = m.root
	}
	if parent == handle.Invalid {
		return handle.Invalid, fmerr.New(fmerr.MissingParent, "no parent available: model has no root")
	}
	parentNode, ok := m.arena.Get(parent)
	if !ok {
		return handle.Invalid, fmerr.New(fmerr.MissingParent, "parent feature not present in model")
	}

	h := m.arena.Alloc(n)
	n.Parent = parent
	parentNode.Children = append(parentNode.Children, h)
	m.byName[n.Name] = h
	m.invalidate()
	return h, nil
}

// RemoveFeatureNode removes the feature at h. Non-recursive removal only
// succeeds for a leaf: no children, or a single empty Relationship child.
// Recursive removal drops the whole subtree (including any Relationship
// group beneath it).
func (m *FeatureModel) RemoveFeatureNode(h handle.Handle, recursive bool) error {
	n, ok := m.arena.Get(h)
	if !ok {
		return fmerr.New(fmerr.MissingFeature, "feature not present in model")
	}
	if !n.Kind.IsFeature() {
		return fmerr.New(fmerr.Generic, "RemoveFeatureNode: handle does not refer to a Feature")
	}

	if !recursive {
		if !m.isRemovableLeaf(n) {
			return fmerr.Newf(fmerr.Inconsistent, "feature %q is not a leaf; recursive removal required", n.Name)
		}
		if len(n.Children) == 1 {
			m.deleteSubtree(n.Children[0])
		}
	} else {
		for _, c := range n.Children {
			m.deleteSubtree(c)
		}
	}

	if n.Parent != handle.Invalid {
		if p, ok := m.arena.Get(n.Parent); ok {
			p.Children = removeHandle(p.Children, h)
		}
	}
	if m.root == h {
		m.root = handle.Invalid
	}
	delete(m.byName, n.Name)
	m.arena.Delete(h)
	m.invalidate()
	return nil
}

func (m *FeatureModel) isRemovableLeaf(n *Node) bool {
	if len(n.Children) == 0 {
		return true
	}
	if len(n.Children) != 1 {
		return false
	}
	rel, ok := m.arena.Get(n.Children[0])
	return ok && rel.Kind == KindRelationship && len(rel.Children) == 0
}

func (m *FeatureModel) deleteSubtree(h handle.Handle) {
	n, ok := m.arena.Get(h)
	if !ok {
		return
	}
	for _, c := range n.Children {
		m.deleteSubtree(c)
	}
	if n.Kind.IsFeature() {
		delete(m.byName, n.Name)
	}
	m.arena.Delete(h)
}

func removeHandle(list []handle.Handle, target handle.Handle) []handle.Handle {
	out := list[:0]
	for _, h := range list {
		if h != target {
			out = append(out, h)
		}
	}
	return out
}

// --- mutation: relationships ---

// AddRelationship inserts a group of the given kind under parent,
// re-parenting parent's existing feature children under the new group.
func (m *FeatureModel) AddRelationship(kind RelationshipKind, parent handle.Handle) (handle.Handle, error) {
	p, ok := m.arena.Get(parent)
	if !ok || !p.Kind.IsFeature() {
		return handle.Invalid, fmerr.New(fmerr.MissingParent, "relationship parent must be a feature present in the model")
	}
	for _, c := range p.Children {
		if cn, ok := m.arena.Get(c); ok && cn.Kind == KindRelationship {
			return handle.Invalid, fmerr.New(fmerr.AlreadyPresent, "feature already has a relationship group")
		}
	}

	rel := NewRelationship(kind)
	h := m.arena.Alloc(rel)
	rel.Parent = parent
	rel.Children = append(rel.Children, p.Children...)
	for _, c := range p.Children {
		if cn, ok := m.arena.Get(c); ok {
			cn.Parent = h
		}
	}
	p.Children = []handle.Handle{h}
	m.invalidate()
	return h, nil
}

// RemoveRelationship removes parent's relationship child, re-parenting its
// feature children back up to parent directly.
func (m *FeatureModel) RemoveRelationship(parent handle.Handle) error {
	p, ok := m.arena.Get(parent)
	if !ok {
		return fmerr.New(fmerr.MissingFeature, "parent feature not present in model")
	}
	var relHandle handle.Handle
	found := false
	for _, c := range p.Children {
		if cn, ok := m.arena.Get(c); ok && cn.Kind == KindRelationship {
			relHandle = c
			found = true
			break
		}
	}
	if !found {
		return fmerr.New(fmerr.MissingFeature, "parent feature has no relationship group")
	}
	rel, _ := m.arena.Get(relHandle)
	newChildren := make([]handle.Handle, 0, len(p.Children)-1+len(rel.Children))
	for _, c := range p.Children {
		if c == relHandle {
			continue
		}
		newChildren = append(newChildren, c)
	}
	for _, c := range rel.Children {
		if cn, ok := m.arena.Get(c); ok {
			cn.Parent = parent
		}
		newChildren = append(newChildren, c)
	}
	p.Children = newChildren
	m.arena.Delete(relHandle)
	m.invalidate()
	return nil
}

// --- mutation: locations ---

func (m *FeatureModel) AddLocation(f handle.Handle, r FeatureSourceRange) error {
	n, ok := m.arena.Get(f)
	if !ok || !n.Kind.IsFeature() {
		return fmerr.New(fmerr.MissingFeature, "feature not present in model")
	}
	n.Locations = append(n.Locations, r)
	return nil
}

func (m *FeatureModel) RemoveLocation(f handle.Handle, r FeatureSourceRange) error {
	n, ok := m.arena.Get(f)
	if !ok || !n.Kind.IsFeature() {
		return fmerr.New(fmerr.MissingFeature, "feature not present in model")
	}
	for i, l := range n.Locations {
		if sameLocation(l, r) {
			n.Locations = append(n.Locations[:i], n.Locations[i+1:]...)
			return nil
		}
	}
	return fmerr.New(fmerr.Generic, "location not found on feature")
}

func sameLocation(a, b FeatureSourceRange) bool {
	return a.Path == b.Path && a.Category == b.Category &&
		samePoint(a.Start, b.Start) && samePoint(a.End, b.End)
}

func samePoint(a, b *Location) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// --- mutation: constraints ---

// bindAndRegister rebinds every unbound Primary feature leaf in e to the
// model's live feature handles and registers e on each referenced
// feature's Constraints list. It fails with MissingFeature if e mentions
// a name not present in the model.
func (m *FeatureModel) bindAndRegister(e constraint.Expr) error {
	var missing string
	var referenced []handle.Handle
	constraint.Walk(e, func(p *constraint.Primary) {
		if p.IsNumber || missing != "" {
			return
		}
		h, ok := m.byName[p.Name]
		if !ok {
			missing = p.Name
			return
		}
		p.Bind(h)
		referenced = append(referenced, h)
	})
	if missing != "" {
		return fmerr.Newf(fmerr.MissingFeature, "constraint references unknown feature %q", missing)
	}
	for _, h := range referenced {
		if n, ok := m.arena.Get(h); ok {
			n.Constraints = append(n.Constraints, e)
		}
	}
	return nil
}

// AddBooleanConstraint installs a purely boolean top-level constraint.
func (m *FeatureModel) AddBooleanConstraint(e constraint.Expr) error {
	if err := m.bindAndRegister(e); err != nil {
		return err
	}
	m.boolConstraints = append(m.boolConstraints, e)
	return nil
}

// AddNonBooleanConstraint installs a purely arithmetic/numeric top-level
// constraint.
func (m *FeatureModel) AddNonBooleanConstraint(e constraint.Expr) error {
	if err := m.bindAndRegister(e); err != nil {
		return err
	}
	m.nonBoolConstraints = append(m.nonBoolConstraints, e)
	return nil
}

// AddMixedConstraint installs a constraint that intermingles boolean
// features used as integers, tagged with its ExprKind and ReqKind.
func (m *FeatureModel) AddMixedConstraint(e constraint.Expr, exprKind ExprKind, req ReqKind) error {
	if err := m.bindAndRegister(e); err != nil {
		return err
	}
	m.mixedConstraints = append(m.mixedConstraints, MixedConstraint{Expr: e, ExprKind: exprKind, Req: req})
	return nil
}

// --- mutation: tree surgery ---

// SetRoot installs h as the new root. If the model already has a root,
// that old root's children move under h and the old root is removed.
func (m *FeatureModel) SetRoot(h handle.Handle) error {
	n, ok := m.arena.Get(h)
	if !ok || !n.Kind.IsFeature() {
		return fmerr.New(fmerr.MissingFeature, "new root feature not present in model")
	}
	if m.root != h && n.Parent != handle.Invalid {
		if p, ok := m.arena.Get(n.Parent); ok {
			p.Children = removeHandle(p.Children, h)
		}
	}
	if m.root != handle.Invalid && m.root != h {
		old, ok := m.arena.Get(m.root)
		if ok {
			for _, c := range old.Children {
				if cn, ok := m.arena.Get(c); ok {
					cn.Parent = h
				}
			}
			n.Children = append(n.Children, old.Children...)
			delete(m.byName, old.Name)
			m.arena.Delete(m.root)
		}
	}
	n.Kind = KindRoot
	n.Parent = handle.Invalid
	m.root = h
	m.invalidate()
	return nil
}

// AddChild re-parents child to a new parent: removes the old edge, if
// any, and adds the new one.
func (m *FeatureModel) AddChild(parent, child handle.Handle) error {
	p, ok := m.arena.Get(parent)
	if !ok || !p.Kind.IsFeature() {
		return fmerr.New(fmerr.MissingParent, "parent feature not present in model")
	}
	c, ok := m.arena.Get(child)
	if !ok || !c.Kind.IsFeature() {
		return fmerr.New(fmerr.MissingFeature, "child feature not present in model")
	}
	if c.Parent != handle.Invalid {
		if old, ok := m.arena.Get(c.Parent); ok {
			old.Children = removeHandle(old.Children, child)
		}
	}
	c.Parent = parent
	p.Children = append(p.Children, child)
	m.invalidate()
	return nil
}

// --- cloning ---

// Clone deep-copies the model: a fresh arena with every node copied by
// value, and independent copies of the three constraint lists and the
// name index. Cloned constraints start unbound (Expr.Clone copies feature
// leaves by name) and are rebound by name against the clone, which yields
// the same handles because Arena.Clone preserves handle identity.
func (m *FeatureModel) Clone() *FeatureModel {
	c := &FeatureModel{
		arena:      m.arena.Clone(),
		name:       m.name,
		commit:     m.commit,
		path:       m.path,
		root:       m.root,
		byName:     make(map[string]handle.Handle, len(m.byName)),
		orderDirty: true,
	}
	for k, v := range m.byName {
		c.byName[k] = v
	}
	c.boolConstraints = cloneExprs(m.boolConstraints)
	c.nonBoolConstraints = cloneExprs(m.nonBoolConstraints)
	c.mixedConstraints = make([]MixedConstraint, len(m.mixedConstraints))
	for i, mc := range m.mixedConstraints {
		c.mixedConstraints[i] = MixedConstraint{Expr: mc.Expr.Clone(), ExprKind: mc.ExprKind, Req: mc.Req}
	}
	// Re-run binding on the cloned constraints so their Primary leaves
	// point at this model's arena rather than the source's (Clone() on
	// an Expr copies feature leaves by name only, per its contract).
	for _, e := range c.boolConstraints {
		_ = c.bindAndRegister(e)
	}
	for _, e := range c.nonBoolConstraints {
		_ = c.bindAndRegister(e)
	}
	for i := range c.mixedConstraints {
		_ = c.bindAndRegister(c.mixedConstraints[i].Expr)
	}
	return c
}

// RestoreFrom overwrites m's entire state with snap's, in place, so that m
// keeps its identity (every outstanding *FeatureModel pointer to it sees
// the restored state) while its contents become snap's. Used by modify-mode
// transaction rollback: snap is a Clone taken before a replay that later
// failed validation, and is not retained by anything else afterward.
func (m *FeatureModel) RestoreFrom(snap *FeatureModel) {
	*m = *snap
}

func cloneExprs(in []constraint.Expr) []constraint.Expr {
	out := make([]constraint.Expr, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}
