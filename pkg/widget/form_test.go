package widget

import (
	"errors"
	"testing"

	"github.com/knobs-dev/knobs/pkg/view"
)

func newTestForm() (*Form, *Text, *Toggle) {
	name := NewText()
	dark := NewToggle()
	fm := NewForm([]Field{
		{Name: "name", View: view.AsAny[string](name), Node: name.Node()},
		{Name: "dark", View: view.AsAny[bool](dark), Node: dark.Node()},
	})
	return fm, name, dark
}

func TestFormSnapshot(t *testing.T) {
	fm, _, _ := newTestForm()

	got := fm.Value()
	if got["name"] != "" || got["dark"] != false {
		t.Errorf("initial value = %v", got)
	}
	if len(got) != 2 {
		t.Errorf("snapshot has %d keys, want 2", len(got))
	}
}

func TestFormFieldEditReEmits(t *testing.T) {
	fm, name, _ := newTestForm()

	var fired int
	fm.Listen(func() error { fired++; return nil })

	if err := name.SetValue("ada"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if fired != 1 {
		t.Errorf("form notified %d times, want 1", fired)
	}
	if got := fm.Value()["name"]; got != "ada" {
		t.Errorf("value[name] = %v, want %q", got, "ada")
	}
}

func TestFormSetValueRoutesOnce(t *testing.T) {
	fm, name, dark := newTestForm()

	var fired int
	fm.Listen(func() error { fired++; return nil })

	err := fm.SetValue(map[string]any{"name": "grace", "dark": true})
	if err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if fired != 1 {
		t.Errorf("form notified %d times, want 1", fired)
	}
	if got := name.Value(); got != "grace" {
		t.Errorf("name = %q, want %q", got, "grace")
	}
	if !dark.Value() {
		t.Error("dark = false, want true")
	}
}

func TestFormUnknownKey(t *testing.T) {
	fm, name, _ := newTestForm()

	err := fm.SetValue(map[string]any{"name": "x", "nope": 1})
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("SetValue returned %v, want ErrUnknownField", err)
	}
	// The known entry is still applied.
	if got := name.Value(); got != "x" {
		t.Errorf("name = %q, want %q", got, "x")
	}
}

func TestFormFieldRejectionJoined(t *testing.T) {
	name := NewText()
	count := NewNumber(WithMin(0), WithMax(10))
	fm := NewForm([]Field{
		{Name: "name", View: view.AsAny[string](name), Node: name.Node()},
		{Name: "count", View: view.AsAny[float64](count), Node: count.Node()},
	})

	err := fm.SetValue(map[string]any{"name": "ok", "count": 50.0})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("SetValue returned %v, want ErrOutOfRange", err)
	}
	if got := name.Value(); got != "ok" {
		t.Errorf("name = %q, want %q", got, "ok")
	}
}

func TestFormTypeMismatch(t *testing.T) {
	fm, _, _ := newTestForm()

	err := fm.SetValue(map[string]any{"dark": "yes"})
	if !errors.Is(err, view.ErrTypeMismatch) {
		t.Fatalf("SetValue returned %v, want ErrTypeMismatch", err)
	}
}
