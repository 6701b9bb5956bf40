package dom

import (
	"errors"
	"testing"
)

func TestAppendChild(t *testing.T) {
	parent := Div()
	a := Span("a")
	b := Span("b")

	if err := parent.AppendChild(a); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}
	if err := parent.AppendChild(b); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}

	kids := parent.Children()
	if len(kids) != 2 || kids[0] != a || kids[1] != b {
		t.Fatalf("children = %v, want [a b]", kids)
	}
	if a.Parent() != parent || b.Parent() != parent {
		t.Error("parent links not set")
	}
}

func TestInsertBefore(t *testing.T) {
	parent := Div()
	a := Span("a")
	c := Span("c")
	parent.AppendChild(a)
	parent.AppendChild(c)

	b := Span("b")
	if err := parent.InsertBefore(b, c); err != nil {
		t.Fatalf("InsertBefore: %v", err)
	}

	kids := parent.Children()
	if len(kids) != 3 || kids[0] != a || kids[1] != b || kids[2] != c {
		t.Fatal("insertion order wrong")
	}

	if err := parent.InsertBefore(Span("x"), Span("stranger")); !errors.Is(err, ErrNotChild) {
		t.Fatalf("InsertBefore with foreign ref returned %v, want ErrNotChild", err)
	}
}

func TestInsertBeforeNilRefAppends(t *testing.T) {
	parent := Div()
	a := Span("a")
	parent.AppendChild(a)

	b := Span("b")
	if err := parent.InsertBefore(b, nil); err != nil {
		t.Fatalf("InsertBefore: %v", err)
	}
	kids := parent.Children()
	if kids[len(kids)-1] != b {
		t.Error("nil ref should append")
	}
}

func TestRemoveChild(t *testing.T) {
	parent := Div()
	a := Span("a")
	parent.AppendChild(a)

	if err := parent.RemoveChild(a); err != nil {
		t.Fatalf("RemoveChild: %v", err)
	}
	if len(parent.Children()) != 0 {
		t.Error("child not removed")
	}
	if a.Parent() != nil {
		t.Error("removed child keeps parent link")
	}

	if err := parent.RemoveChild(a); !errors.Is(err, ErrNotChild) {
		t.Fatalf("removing twice returned %v, want ErrNotChild", err)
	}
}

func TestReplaceChild(t *testing.T) {
	parent := Div()
	old := Span("old")
	sibling := Span("sibling")
	parent.AppendChild(old)
	parent.AppendChild(sibling)

	repl := Span("new")
	if err := parent.ReplaceChild(repl, old); err != nil {
		t.Fatalf("ReplaceChild: %v", err)
	}

	kids := parent.Children()
	if len(kids) != 2 || kids[0] != repl || kids[1] != sibling {
		t.Fatal("replacement not in old position")
	}
	if old.Parent() != nil {
		t.Error("replaced child keeps parent link")
	}
}

func TestReplaceChildWithNextSibling(t *testing.T) {
	parent := Div()
	a := Span("a")
	b := Span("b")
	parent.AppendChild(a)
	parent.AppendChild(b)

	if err := parent.ReplaceChild(b, a); err != nil {
		t.Fatalf("ReplaceChild: %v", err)
	}
	kids := parent.Children()
	if len(kids) != 1 || kids[0] != b {
		t.Fatal("expected only b to remain")
	}
}

func TestAppendMovesReparentedChild(t *testing.T) {
	first := Div()
	second := Div()
	child := Span("x")
	first.AppendChild(child)

	if err := second.AppendChild(child); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}
	if len(first.Children()) != 0 {
		t.Error("child still in first parent")
	}
	if child.Parent() != second {
		t.Error("child not moved to second parent")
	}
}

func TestInsertRejectsCycle(t *testing.T) {
	parent := Div()
	child := Div()
	parent.AppendChild(child)

	if err := child.AppendChild(parent); !errors.Is(err, ErrHierarchy) {
		t.Fatalf("inserting ancestor returned %v, want ErrHierarchy", err)
	}
	if err := parent.AppendChild(parent); !errors.Is(err, ErrHierarchy) {
		t.Fatalf("self insertion returned %v, want ErrHierarchy", err)
	}
}

func TestInsertRejectsDocumentRoot(t *testing.T) {
	doc := NewDocument()
	elsewhere := Div()

	if err := elsewhere.AppendChild(doc.Root()); !errors.Is(err, ErrHierarchy) {
		t.Fatalf("moving a root returned %v, want ErrHierarchy", err)
	}
}

func TestInsertIntoTextNodeFails(t *testing.T) {
	txt := Text("hello")
	if err := txt.AppendChild(Span()); !errors.Is(err, ErrHierarchy) {
		t.Fatalf("appending to text node returned %v, want ErrHierarchy", err)
	}
}

func TestAttrs(t *testing.T) {
	n := Div(Class("card"), ID("main"))

	if v, ok := n.Attr("class"); !ok || v != "card" {
		t.Errorf("class = %q, %v", v, ok)
	}

	n.SetAttr("class", "panel")
	if v, _ := n.Attr("class"); v != "panel" {
		t.Errorf("class after SetAttr = %q", v)
	}

	n.RemoveAttr("id")
	if _, ok := n.Attr("id"); ok {
		t.Error("id still present after RemoveAttr")
	}
}

func TestSetText(t *testing.T) {
	txt := Text("before")
	txt.SetText("after")
	if txt.Text() != "after" {
		t.Errorf("text = %q", txt.Text())
	}
}

func TestFindByID(t *testing.T) {
	needle := Span("needle")
	tree := Div(Div(Div(needle)))

	if got := tree.FindByID(needle.ID()); got != needle {
		t.Error("FindByID did not locate nested node")
	}
	if got := tree.FindByID(0); got != nil {
		t.Error("FindByID(0) found something")
	}
}

func TestWalkOrder(t *testing.T) {
	a := Span("a")
	b := Span("b")
	tree := Div(a, Div(b))

	var order []uint64
	tree.Walk(func(n *Node) { order = append(order, n.ID()) })

	// div, a, a's text, inner div, b, b's text
	if len(order) != 6 {
		t.Fatalf("visited %d nodes, want 6", len(order))
	}
	if order[0] != tree.ID() || order[1] != a.ID() {
		t.Error("walk not in document order")
	}
}

func TestElShorthand(t *testing.T) {
	n := El("p", Class("note"), "hello", Span("world"))

	if n.Tag() != "p" {
		t.Errorf("tag = %q", n.Tag())
	}
	kids := n.Children()
	if len(kids) != 2 {
		t.Fatalf("children = %d, want 2", len(kids))
	}
	if kids[0].Kind() != KindText || kids[0].Text() != "hello" {
		t.Error("string argument did not become a text child")
	}
	if kids[1].Tag() != "span" {
		t.Error("node argument not appended")
	}
}

func TestNodeIDsUnique(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		n := Div()
		if n.ID() == 0 {
			t.Fatal("node id zero is reserved")
		}
		if seen[n.ID()] {
			t.Fatalf("duplicate node id %d", n.ID())
		}
		seen[n.ID()] = true
	}
}
