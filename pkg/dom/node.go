package dom

import (
	"errors"
	"sort"
	"sync/atomic"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota // <div>, <input>, etc.
	KindText                // Plain text node
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

var (
	// ErrNilNode is returned when a nil node is passed to a tree operation.
	ErrNilNode = errors.New("dom: nil node")

	// ErrHierarchy is returned when an insertion would create a cycle or
	// move a document root.
	ErrHierarchy = errors.New("dom: invalid hierarchy")

	// ErrNotChild is returned when the addressed node is not a child of
	// the parent it was addressed through.
	ErrNotChild = errors.New("dom: node is not a child of this parent")
)

var nodeIDs atomic.Uint64

// nextNodeID returns a process-unique node id. Zero is reserved for the
// "no node" anchor in the live protocol.
func nextNodeID() uint64 {
	return nodeIDs.Add(1)
}

// Node is a single node in a document tree. Nodes are created by the
// element factories and mutated through methods so the owning Document
// can observe every change.
type Node struct {
	kind     Kind
	tag      string
	text     string
	id       uint64
	attrs    map[string]string
	handlers map[string]Handler
	parent   *Node
	children []*Node

	// doc is set on a document root only. Everything below the root
	// reaches the document by walking parent links.
	doc *Document
}

// newElement creates a detached element node.
func newElement(tag string) *Node {
	return &Node{
		kind: KindElement,
		tag:  tag,
		id:   nextNodeID(),
	}
}

// Text creates a text node.
func Text(content string) *Node {
	return &Node{
		kind: KindText,
		text: content,
		id:   nextNodeID(),
	}
}

// ID returns the node's stable identifier. Ids are unique per process and
// never reused; serialized HTML carries them as data-k attributes.
func (n *Node) ID() uint64 { return n.id }

// Kind returns the node type.
func (n *Node) Kind() Kind { return n.kind }

// Tag returns the element tag name, or "" for text nodes.
func (n *Node) Tag() string { return n.tag }

// Text returns the text content of a text node.
func (n *Node) Text() string { return n.text }

// Parent returns the parent node, or nil for detached and root nodes.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	if len(n.children) == 0 {
		return nil
	}
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// Attr returns the value of the named attribute and whether it is set.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// Attrs returns a copy of the attribute map.
func (n *Node) Attrs() map[string]string {
	if len(n.attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(n.attrs))
	for k, v := range n.attrs {
		out[k] = v
	}
	return out
}

// document returns the owning Document, or nil if the node's tree is not
// rooted in one.
func (n *Node) document() *Document {
	top := n
	for top.parent != nil {
		top = top.parent
	}
	return top.doc
}

// contains reports whether other is n or a descendant of n.
func (n *Node) contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// indexOf returns the position of child in n's child list, or -1.
func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// SetText replaces the content of a text node. It is a no-op on elements
// and when the content is unchanged.
func (n *Node) SetText(content string) {
	if n.kind != KindText || n.text == content {
		return
	}
	n.text = content
	if d := n.document(); d != nil {
		d.mutated(Mutation{Kind: MutText, Target: n, Value: content})
		d.settle()
	}
}

// SetAttr sets an attribute. An empty value renders as a bare attribute,
// which is how boolean attributes like disabled and checked are expressed.
func (n *Node) SetAttr(name, value string) {
	if n.kind != KindElement {
		return
	}
	if old, ok := n.attrs[name]; ok && old == value {
		return
	}
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
	if d := n.document(); d != nil {
		d.mutated(Mutation{Kind: MutAttr, Target: n, Attr: name, Value: value})
		d.settle()
	}
}

// RemoveAttr removes an attribute if present.
func (n *Node) RemoveAttr(name string) {
	if n.kind != KindElement {
		return
	}
	if _, ok := n.attrs[name]; !ok {
		return
	}
	delete(n.attrs, name)
	if d := n.document(); d != nil {
		d.mutated(Mutation{Kind: MutAttr, Target: n, Attr: name, Deleted: true})
		d.settle()
	}
}

// AppendChild adds child as the last child of n. A child that already has
// a parent is detached from it first; both steps count as one mutating
// call for disposal purposes.
func (n *Node) AppendChild(child *Node) error {
	return n.insert(child, nil)
}

// InsertBefore inserts child immediately before ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) error {
	if ref != nil && ref.parent != n {
		return ErrNotChild
	}
	return n.insert(child, ref)
}

// ReplaceChild replaces oldChild with newChild and detaches oldChild.
// Watchers on the old subtree fire; newChild and its subtree stay live.
func (n *Node) ReplaceChild(newChild, oldChild *Node) error {
	if newChild == nil || oldChild == nil {
		return ErrNilNode
	}
	if oldChild.parent != n {
		return ErrNotChild
	}
	if newChild == oldChild {
		return nil
	}
	if newChild.doc != nil || newChild.contains(n) {
		return ErrHierarchy
	}

	i := n.indexOf(oldChild)
	var ref *Node
	if i+1 < len(n.children) {
		ref = n.children[i+1]
	}
	if err := n.removeChild(oldChild); err != nil {
		return err
	}
	if ref == newChild {
		// The replacement was already the next sibling; removing
		// oldChild put it in position.
		if d := n.document(); d != nil {
			d.settle()
		}
		return nil
	}
	return n.insert(newChild, ref)
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) error {
	d := n.document()
	if err := n.removeChild(child); err != nil {
		return err
	}
	if d != nil {
		d.settle()
	}
	return nil
}

// Remove detaches n from its parent. Detached nodes are left untouched.
func (n *Node) Remove() {
	if n.parent == nil {
		return
	}
	// n is known to be a child of its parent.
	_ = n.parent.RemoveChild(n)
}

// insert places child before ref (nil ref appends) and settles disposal
// watchers once, so a move within this call is never seen as a removal.
func (n *Node) insert(c, ref *Node) error {
	if c == nil {
		return ErrNilNode
	}
	if c == ref {
		return nil
	}
	if n.kind != KindElement {
		return ErrHierarchy
	}
	if c.doc != nil {
		// Document roots stay put.
		return ErrHierarchy
	}
	if c.contains(n) {
		return ErrHierarchy
	}

	var oldDoc *Document
	if c.parent != nil {
		oldDoc = c.parent.document()
		if err := c.parent.removeChild(c); err != nil {
			return err
		}
	}

	if ref == nil {
		n.children = append(n.children, c)
	} else {
		i := n.indexOf(ref)
		n.children = append(n.children, nil)
		copy(n.children[i+1:], n.children[i:])
		n.children[i] = c
	}
	c.parent = n

	newDoc := n.document()
	if newDoc != nil {
		newDoc.mutated(Mutation{Kind: MutChildList, Target: n, Added: []*Node{c}, Before: ref})
	}

	if oldDoc != nil {
		oldDoc.settle()
	}
	if newDoc != nil && newDoc != oldDoc {
		newDoc.settle()
	}
	return nil
}

// removeChild performs the structural removal and mutation report without
// settling disposal watchers. Callers settle once their whole operation
// is complete.
func (n *Node) removeChild(c *Node) error {
	if c == nil {
		return ErrNilNode
	}
	i := n.indexOf(c)
	if i < 0 {
		return ErrNotChild
	}

	d := n.document()

	copy(n.children[i:], n.children[i+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	c.parent = nil

	if d != nil {
		d.mutated(Mutation{Kind: MutChildList, Target: n, Removed: []*Node{c}})
	}
	return nil
}

// Find returns the first node in n's subtree (including n) for which the
// predicate holds, in document order.
func (n *Node) Find(pred func(*Node) bool) *Node {
	if pred(n) {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(pred); found != nil {
			return found
		}
	}
	return nil
}

// FindByID returns the node with the given id in n's subtree, or nil.
func (n *Node) FindByID(id uint64) *Node {
	return n.Find(func(c *Node) bool { return c.id == id })
}

// Walk visits n and every descendant in document order.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, c := range n.children {
		c.Walk(visit)
	}
}

// EventNames returns the sorted event names this node handles.
func (n *Node) EventNames() []string {
	if len(n.handlers) == 0 {
		return nil
	}
	names := make([]string, 0, len(n.handlers))
	for name := range n.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
