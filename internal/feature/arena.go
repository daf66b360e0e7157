package feature

import "github.com/se-sic/vara-feature-go/internal/handle"

// Arena owns every Node by value, addressed only through stable handles.
// The core is single-threaded and non-reentrant by design (callers must
// not share a model across goroutines without their own synchronization),
// so Arena carries no internal lock.
type Arena struct {
	nodes map[handle.Handle]*Node
	next  int64
}

// NewArena returns an empty arena. Handle 0 is reserved as handle.Invalid,
// so allocation starts at 1.
func NewArena() *Arena {
	return &Arena{nodes: make(map[handle.Handle]*Node), next: 1}
}

// Alloc installs n in the arena, assigns it a fresh handle, and returns
// that handle.
func (a *Arena) Alloc(n *Node) handle.Handle {
	h := handle.Handle(a.next)
	a.next++
	n.Handle = h
	a.nodes[h] = n
	return h
}

// Get looks up a node by handle.
func (a *Arena) Get(h handle.Handle) (*Node, bool) {
	n, ok := a.nodes[h]
	return n, ok
}

// Delete removes a node from the arena. Its handle is never reused.
func (a *Arena) Delete(h handle.Handle) {
	delete(a.nodes, h)
}

// Len returns the number of live nodes.
func (a *Arena) Len() int { return len(a.nodes) }

// Handles returns every live handle, in no particular order.
func (a *Arena) Handles() []handle.Handle {
	out := make([]handle.Handle, 0, len(a.nodes))
	for h := range a.nodes {
		out = append(out, h)
	}
	return out
}

// Clone deep-copies the arena: every node is copied by value (including
// its owned slices), handles and the allocation counter are preserved
// verbatim so parent/child/constraint-owner references in the clone still
// resolve correctly within it.
func (a *Arena) Clone() *Arena {
	c := &Arena{nodes: make(map[handle.Handle]*Node, len(a.nodes)), next: a.next}
	for h, n := range a.nodes {
		c.nodes[h] = n.clone()
	}
	return c
}
