package live

import (
	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/protocol"
)

// translator turns document mutation records into wire patches. The
// document root has no counterpart in the client page, so anything
// addressed at the root uses wire id zero, which the client resolves to
// its mount element.
type translator struct {
	root uint64
}

// id maps a node to its wire id.
func (t *translator) id(n *dom.Node) uint64 {
	if n.ID() == t.root {
		return 0
	}
	return n.ID()
}

func (t *translator) patches(m dom.Mutation) []protocol.Patch {
	switch m.Kind {
	case dom.MutText:
		return t.text(m)
	case dom.MutAttr:
		return t.attr(m)
	case dom.MutChildList:
		return t.childList(m)
	default:
		return nil
	}
}

// text addresses the parent element, since text nodes carry no data-k
// in rendered HTML. The patch replaces the element's entire text, which
// is exact as long as text-bearing elements keep a single text child;
// the widget catalog holds to that.
func (t *translator) text(m dom.Mutation) []protocol.Patch {
	parent := m.Target.Parent()
	if parent == nil {
		return nil
	}
	return []protocol.Patch{protocol.NewSetTextPatch(t.id(parent), elementText(parent))}
}

// attr maps attribute changes to wire patches. The value attribute on a
// form control and the checked attribute on an input become live
// property updates so the client changes what the user sees, not just
// what a fresh parse would see.
func (t *translator) attr(m dom.Mutation) []protocol.Patch {
	n := m.Target
	switch {
	case m.Attr == "checked" && n.Tag() == "input":
		return []protocol.Patch{protocol.NewSetCheckedPatch(t.id(n), !m.Deleted)}
	case m.Attr == "value" && isFormControl(n.Tag()):
		value := m.Value
		if m.Deleted {
			value = ""
		}
		return []protocol.Patch{protocol.NewSetValuePatch(t.id(n), value)}
	case m.Deleted:
		return []protocol.Patch{protocol.NewRemoveAttrPatch(t.id(n), m.Attr)}
	default:
		return []protocol.Patch{protocol.NewSetAttrPatch(t.id(n), m.Attr, m.Value)}
	}
}

func (t *translator) childList(m dom.Mutation) []protocol.Patch {
	var out []protocol.Patch
	for _, removed := range m.Removed {
		out = append(out, t.removal(m.Target, removed)...)
	}
	for _, added := range m.Added {
		out = append(out, protocol.NewInsertNodePatch(
			added.ID(), t.id(m.Target), t.anchor(m), added.HTML()))
	}
	return out
}

// removal emits a RemoveNode for elements. A removed text node is not
// addressable client-side, so its removal is folded into a text reset
// on the parent, or a parent re-render when the parent mixes text with
// element children.
func (t *translator) removal(parent, n *dom.Node) []protocol.Patch {
	if n.Kind() == dom.KindElement {
		return []protocol.Patch{protocol.NewRemoveNodePatch(n.ID())}
	}
	if parent == nil {
		return nil
	}
	if hasElementChildren(parent) {
		return t.rerender(parent)
	}
	return []protocol.Patch{protocol.NewSetTextPatch(t.id(parent), elementText(parent))}
}

// rerender replaces an element subtree wholesale. Node ids are stable,
// so the fresh fragment carries the same data-k values and later
// patches keep resolving.
func (t *translator) rerender(n *dom.Node) []protocol.Patch {
	parent := n.Parent()
	if parent == nil || n.ID() == t.root {
		return nil
	}
	var before uint64
	if next := nextElementSibling(parent, n); next != nil {
		before = next.ID()
	}
	return []protocol.Patch{
		protocol.NewRemoveNodePatch(n.ID()),
		protocol.NewInsertNodePatch(n.ID(), t.id(parent), before, n.HTML()),
	}
}

// anchor resolves the insertion anchor to an element id the client can
// find. Text-node anchors fall forward to the next element sibling;
// zero means append.
func (t *translator) anchor(m dom.Mutation) uint64 {
	b := m.Before
	if b == nil {
		return 0
	}
	if b.Kind() == dom.KindElement {
		return b.ID()
	}
	if next := nextElementSibling(m.Target, b); next != nil {
		return next.ID()
	}
	return 0
}

// initialPatches streams a freshly mounted document: one insert per
// root child, all anchored to the mount element.
func initialPatches(doc *dom.Document) []protocol.Patch {
	children := doc.Root().Children()
	patches := make([]protocol.Patch, 0, len(children))
	for _, c := range children {
		patches = append(patches, protocol.NewInsertNodePatch(c.ID(), 0, 0, c.HTML()))
	}
	return patches
}

// elementText concatenates an element's direct text children.
func elementText(n *dom.Node) string {
	var text string
	for _, c := range n.Children() {
		if c.Kind() == dom.KindText {
			text += c.Text()
		}
	}
	return text
}

// isFormControl reports whether tag names an element with a live value
// property distinct from its value attribute.
func isFormControl(tag string) bool {
	switch tag {
	case "input", "select", "textarea":
		return true
	}
	return false
}

func hasElementChildren(n *dom.Node) bool {
	for _, c := range n.Children() {
		if c.Kind() == dom.KindElement {
			return true
		}
	}
	return false
}

func nextElementSibling(parent, n *dom.Node) *dom.Node {
	siblings := parent.Children()
	seen := false
	for _, c := range siblings {
		if c == n {
			seen = true
			continue
		}
		if seen && c.Kind() == dom.KindElement {
			return c
		}
	}
	return nil
}
