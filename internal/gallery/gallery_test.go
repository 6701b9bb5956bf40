package gallery

import (
	"strings"
	"testing"

	"github.com/knobs-dev/knobs/pkg/dom"
)

func buildDoc(t *testing.T) *dom.Document {
	t.Helper()
	doc := dom.NewDocument()
	if err := Build(doc); err != nil {
		t.Fatalf("Build error: %v", err)
	}
	return doc
}

// findInput returns the first input of the given type, in document order.
func findInput(t *testing.T, doc *dom.Document, inputType string) *dom.Node {
	t.Helper()
	n := doc.Root().Find(func(n *dom.Node) bool {
		if n.Kind() != dom.KindElement || n.Tag() != "input" {
			return false
		}
		typ, _ := n.Attr("type")
		return typ == inputType
	})
	if n == nil {
		t.Fatalf("no input of type %q in the gallery", inputType)
	}
	return n
}

func TestBuildRendersEveryWidget(t *testing.T) {
	doc := buildDoc(t)
	html := doc.HTML()

	kinds := []string{
		"text", "textarea", "range", "number",
		"select", "radio", "multiselect", "checkbox",
		"toggle", "button", "date", "datetime",
		"color", "search", "table", "file", "form",
	}
	for _, kind := range kinds {
		if !strings.Contains(html, `"knob knob-`+kind+`"`) {
			t.Errorf("rendered gallery is missing the %s widget", kind)
		}
	}

	if !strings.Contains(html, "knobs gallery") {
		t.Error("rendered gallery is missing the header")
	}
}

func TestSliderAndNumberStayInSync(t *testing.T) {
	doc := buildDoc(t)

	slider := findInput(t, doc, "range")
	// Document order puts the Numbers section ahead of the form, so the
	// first number input is the bound one.
	number := findInput(t, doc, "number")

	handled, err := slider.Dispatch(dom.Event{Type: "input", Value: "75"})
	if !handled {
		t.Fatal("slider did not handle the input event")
	}
	if err != nil {
		t.Fatalf("slider input: %v", err)
	}
	if v, _ := number.Attr("value"); v != "75" {
		t.Errorf("number value = %q, want %q", v, "75")
	}

	// The other direction.
	if _, err := number.Dispatch(dom.Event{Type: "input", Value: "40"}); err != nil {
		t.Fatalf("number input: %v", err)
	}
	if v, _ := slider.Attr("value"); v != "40" {
		t.Errorf("slider value = %q, want %q", v, "40")
	}

	// The number field rejects out-of-range input; the pair keeps its
	// last value.
	if _, err := number.Dispatch(dom.Event{Type: "input", Value: "500"}); err == nil {
		t.Fatal("expected a rejection for the out-of-range value")
	}
	if v, _ := slider.Attr("value"); v != "40" {
		t.Errorf("slider value after rejection = %q, want %q", v, "40")
	}
}

func TestDropDownDrivesRadioGroup(t *testing.T) {
	doc := buildDoc(t)

	drop := doc.Root().Find(func(n *dom.Node) bool {
		if n.Kind() != dom.KindElement || n.Tag() != "select" {
			return false
		}
		_, multiple := n.Attr("multiple")
		return !multiple
	})
	if drop == nil {
		t.Fatal("no single-choice select in the gallery")
	}

	if _, err := drop.Dispatch(dom.Event{Type: "change", Value: "chocolate"}); err != nil {
		t.Fatalf("select change: %v", err)
	}

	chosen := doc.Root().Find(func(n *dom.Node) bool {
		if n.Kind() != dom.KindElement || n.Tag() != "input" {
			return false
		}
		typ, _ := n.Attr("type")
		v, _ := n.Attr("value")
		_, checked := n.Attr("checked")
		return typ == "radio" && v == "chocolate" && checked
	})
	if chosen == nil {
		t.Error("radio group did not follow the drop-down")
	}
}

func TestTextMirrorsIntoTextarea(t *testing.T) {
	doc := buildDoc(t)

	field := findInput(t, doc, "text")
	if _, err := field.Dispatch(dom.Event{Type: "input", Value: "hello"}); err != nil {
		t.Fatalf("text input: %v", err)
	}

	area := doc.Root().Find(func(n *dom.Node) bool {
		return n.Kind() == dom.KindElement && n.Tag() == "textarea"
	})
	if area == nil {
		t.Fatal("no textarea in the gallery")
	}
	if c := area.FirstChild(); c == nil || c.Text() != "hello" {
		t.Error("textarea did not mirror the text field")
	}

	// The character counter follows too.
	html := doc.HTML()
	if !strings.Contains(html, "5 characters") {
		t.Error("character counter did not update")
	}
}

func TestToggleUpdatesStatus(t *testing.T) {
	doc := buildDoc(t)

	// The checkbox widget also holds checkbox-type inputs, so identify
	// the toggle by its widget root.
	toggle := doc.Root().Find(func(n *dom.Node) bool {
		if n.Kind() != dom.KindElement || n.Tag() != "input" {
			return false
		}
		p := n.Parent()
		if p == nil {
			return false
		}
		class, _ := p.Attr("class")
		return strings.Contains(class, "knob-toggle")
	})
	if toggle == nil {
		t.Fatal("no toggle in the gallery")
	}
	if _, err := toggle.Dispatch(dom.Event{Type: "change", Checked: true}); err != nil {
		t.Fatalf("toggle change: %v", err)
	}

	if !strings.Contains(doc.HTML(), ">on</p>") {
		t.Error("toggle status did not switch to on")
	}
}

func TestBuildsAreIndependent(t *testing.T) {
	first := buildDoc(t)
	second := buildDoc(t)

	slider := findInput(t, first, "range")
	if _, err := slider.Dispatch(dom.Event{Type: "input", Value: "99"}); err != nil {
		t.Fatalf("slider input: %v", err)
	}

	otherSlider := findInput(t, second, "range")
	if v, _ := otherSlider.Attr("value"); v == "99" {
		t.Error("documents share widget state")
	}
}
