package widget

import (
	"testing"

	"github.com/knobs-dev/knobs/pkg/dom"
)

func TestToggleChangeEvent(t *testing.T) {
	tg := NewToggle()
	if tg.Value() {
		t.Fatal("initial value = true, want false")
	}

	if _, err := tg.Control().Dispatch(dom.Event{Type: "change", Checked: true}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !tg.Value() {
		t.Error("value = false after checking")
	}
	if _, ok := tg.Control().Attr("checked"); !ok {
		t.Error("checked attribute missing")
	}

	if _, err := tg.Control().Dispatch(dom.Event{Type: "change", Checked: false}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if tg.Value() {
		t.Error("value = true after unchecking")
	}
	if _, ok := tg.Control().Attr("checked"); ok {
		t.Error("checked attribute still present")
	}
}

func TestToggleSetValueNotifies(t *testing.T) {
	tg := NewToggle()

	var fired int
	tg.Listen(func() error { fired++; return nil })

	if err := tg.SetValue(true); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if err := tg.SetValue(true); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if fired != 2 {
		t.Errorf("notified %d times, want 2", fired)
	}
}
