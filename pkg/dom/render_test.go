package dom

import (
	"fmt"
	"strings"
	"testing"
)

func TestRenderElement(t *testing.T) {
	n := Div(Class("card"), ID("main"))

	want := fmt.Sprintf(`<div class="card" id="main" data-k="%d"></div>`, n.ID())
	if got := n.HTML(); got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
}

func TestRenderNested(t *testing.T) {
	inner := Span("hi")
	n := Div(inner)

	want := fmt.Sprintf(`<div data-k="%d"><span data-k="%d">hi</span></div>`, n.ID(), inner.ID())
	if got := n.HTML(); got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
}

func TestRenderEscapesText(t *testing.T) {
	n := Span(`a < b & "c"`)

	if got := n.HTML(); !strings.Contains(got, "a &lt; b &amp; &quot;c&quot;") {
		t.Errorf("text not escaped: %q", got)
	}
}

func TestRenderEscapesAttr(t *testing.T) {
	n := Div(TitleAttr(`say "hi" & <run>`))

	got := n.HTML()
	if !strings.Contains(got, `title="say &quot;hi&quot; &amp; &lt;run&gt;"`) {
		t.Errorf("attribute not escaped: %q", got)
	}
}

func TestRenderVoidElement(t *testing.T) {
	n := Input(Type("text"))

	want := fmt.Sprintf(`<input type="text" data-k="%d">`, n.ID())
	if got := n.HTML(); got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
}

func TestRenderBooleanAttr(t *testing.T) {
	n := Input(Type("checkbox"), Checked())

	want := fmt.Sprintf(`<input checked type="checkbox" data-k="%d">`, n.ID())
	if got := n.HTML(); got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
}

func TestRenderEventMarkers(t *testing.T) {
	n := Button(OnClick(func(Event) error { return nil }), "Go")

	want := fmt.Sprintf(`<button data-on-click="true" data-k="%d">Go</button>`, n.ID())
	if got := n.HTML(); got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
}

func TestRenderSortedEventMarkers(t *testing.T) {
	n := Input(
		Type("text"),
		OnInput(func(Event) error { return nil }),
		OnChange(func(Event) error { return nil }),
	)

	got := n.HTML()
	changeAt := strings.Index(got, "data-on-change")
	inputAt := strings.Index(got, "data-on-input")
	if changeAt < 0 || inputAt < 0 || changeAt > inputAt {
		t.Errorf("markers missing or unsorted: %q", got)
	}
}

func TestRenderDocument(t *testing.T) {
	doc := NewDocument()
	doc.Root().AppendChild(P("hello"))

	got := doc.HTML()
	if !strings.HasPrefix(got, "<body") || !strings.HasSuffix(got, "</body>") {
		t.Errorf("document HTML = %q", got)
	}
	if !strings.Contains(got, "<p") || !strings.Contains(got, "hello") {
		t.Errorf("child missing from %q", got)
	}
}

func TestWriteHTMLNil(t *testing.T) {
	var sb strings.Builder
	if err := WriteHTML(&sb, nil); err != nil {
		t.Fatalf("WriteHTML(nil): %v", err)
	}
	if sb.Len() != 0 {
		t.Errorf("nil node wrote %q", sb.String())
	}
}
