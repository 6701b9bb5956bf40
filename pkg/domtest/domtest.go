package domtest

import (
	"strings"
	"testing"

	"github.com/knobs-dev/knobs/pkg/dom"
)

// Mount attaches n to the document body, failing the test on error.
func Mount(t *testing.T, doc *dom.Document, n *dom.Node) {
	t.Helper()
	if err := doc.Root().AppendChild(n); err != nil {
		t.Fatalf("mount: %v", err)
	}
}

// Fire dispatches ev on n and fails the test when no handler is
// registered for the event type. A handler error does not fail the
// test; it is returned for the caller to assert on.
func Fire(t *testing.T, n *dom.Node, ev dom.Event) error {
	t.Helper()
	handled, err := n.Dispatch(ev)
	if !handled {
		t.Fatalf("no %q handler on <%s>", ev.Type, n.Tag())
	}
	return err
}

// Input fires an input event carrying value.
func Input(t *testing.T, n *dom.Node, value string) error {
	t.Helper()
	return Fire(t, n, dom.Event{Type: "input", Value: value})
}

// Change fires a change event carrying value.
func Change(t *testing.T, n *dom.Node, value string) error {
	t.Helper()
	return Fire(t, n, dom.Event{Type: "change", Value: value})
}

// Check fires a change event carrying a checked state.
func Check(t *testing.T, n *dom.Node, checked bool) error {
	t.Helper()
	return Fire(t, n, dom.Event{Type: "change", Checked: checked})
}

// Click fires a click event.
func Click(t *testing.T, n *dom.Node) error {
	t.Helper()
	return Fire(t, n, dom.Event{Type: "click"})
}

// RenderToString renders a node and returns the HTML string. This is
// useful for asserting on rendered output.
func RenderToString(n *dom.Node) string {
	return n.HTML()
}

// ExpectContains asserts that rendered output contains expected.
func ExpectContains(t *testing.T, n *dom.Node, expected string) {
	t.Helper()
	html := RenderToString(n)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain
// unexpected.
func ExpectNotContains(t *testing.T, n *dom.Node, unexpected string) {
	t.Helper()
	html := RenderToString(n)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that rendered output contains a specific tag.
func ExpectElement(t *testing.T, n *dom.Node, tag string) {
	t.Helper()
	html := RenderToString(n)
	if !strings.Contains(html, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute
// with the given value.
func ExpectAttribute(t *testing.T, n *dom.Node, attr, value string) {
	t.Helper()
	html := RenderToString(n)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// ExpectText asserts that the node's subtree contains a text node with
// exactly the given content.
func ExpectText(t *testing.T, n *dom.Node, text string) {
	t.Helper()
	found := n.Find(func(c *dom.Node) bool {
		return c.Kind() == dom.KindText && c.Text() == text
	})
	if found == nil {
		t.Errorf("expected a text node %q, got:\n%s", text, truncate(RenderToString(n), 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
