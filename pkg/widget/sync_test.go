package widget

import (
	"errors"
	"math"
	"testing"

	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/view"
)

func TestWidgetDisposal(t *testing.T) {
	doc := dom.NewDocument()
	w := NewToggle()
	if err := doc.Root().AppendChild(w.Node()); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}

	ch, err := w.Disposal()
	if err != nil {
		t.Fatalf("Disposal: %v", err)
	}
	select {
	case <-ch:
		t.Fatal("disposal fired while attached")
	default:
	}

	w.Node().Remove()
	select {
	case <-ch:
	default:
		t.Fatal("disposal did not fire on removal")
	}
}

func TestBindingFollowsWidgetLifetime(t *testing.T) {
	doc := dom.NewDocument()
	num := NewNumber()
	if err := doc.Root().AppendChild(num.Node()); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}

	store := view.NewInput(5.0)
	if err := view.Bind[float64](num, store); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if got := num.Value(); got != 5 {
		t.Fatalf("widget = %v after bind, want 5", got)
	}

	if err := num.SetValue(9); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if got := store.Value(); got != 9 {
		t.Fatalf("store = %v, want 9", got)
	}

	// Removing the widget's node ends the binding: changes stop
	// flowing in either direction, immediately.
	num.Node().Remove()

	if err := store.SetValue(42); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if got := num.Value(); got != 9 {
		t.Errorf("widget = %v after teardown, want 9", got)
	}
	if err := num.SetValue(7); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if got := store.Value(); got != 42 {
		t.Errorf("store = %v after teardown, want 42", got)
	}
}

func TestCounterBoundToStore(t *testing.T) {
	doc := dom.NewDocument()
	counter := NewButton("Count")
	if err := doc.Root().AppendChild(counter.Node()); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}

	store := view.NewInput(0)
	if err := view.Bind[int](counter, store); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	if err := store.SetValue(5); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if got := counter.Value(); got != 5 {
		t.Fatalf("counter = %d after store set, want 5", got)
	}

	for i := 0; i < 4; i++ {
		if err := counter.Click(); err != nil {
			t.Fatalf("Click: %v", err)
		}
	}
	if got := counter.Value(); got != 9 {
		t.Fatalf("counter = %d after clicks, want 9", got)
	}
	if got := store.Value(); got != 9 {
		t.Fatalf("store = %d after clicks, want 9", got)
	}

	counter.Node().Remove()
	ch, err := counter.Disposal()
	if err != nil {
		t.Fatalf("Disposal: %v", err)
	}
	<-ch

	if err := store.SetValue(42); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if got := counter.Value(); got != 9 {
		t.Errorf("counter = %d after disposal, want 9", got)
	}
	if got := store.Value(); got != 42 {
		t.Errorf("store = %d after disposal, want 42", got)
	}
}

func TestBindTwoWidgetsNoFeedbackLoop(t *testing.T) {
	doc := dom.NewDocument()
	short := NewText()
	long := NewTextarea()
	if err := doc.Root().AppendChild(short.Node()); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}
	if err := doc.Root().AppendChild(long.Node()); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}
	if err := short.SetValue("seed"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	if err := view.Bind[string](long, short); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if got := long.Value(); got != "seed" {
		t.Fatalf("target = %q after bind, want %q", got, "seed")
	}

	var shortN, longN int
	short.Listen(func() error { shortN++; return nil })
	long.Listen(func() error { longN++; return nil })

	if err := short.SetValue("a"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if got := long.Value(); got != "a" {
		t.Errorf("target = %q, want %q", got, "a")
	}
	if err := long.SetValue("b"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if got := short.Value(); got != "b" {
		t.Errorf("source = %q, want %q", got, "b")
	}

	// One user change produces exactly one notification per side; the
	// echo carries an equal value and stops.
	if shortN != 2 || longN != 2 {
		t.Errorf("notifications = %d/%d, want 2/2", shortN, longN)
	}
}

func TestBindManyFanIn(t *testing.T) {
	lt, cancel := view.NewLifetime()
	defer cancel()

	a := NewButton("A")
	b := NewButton("B")
	total := view.NewInput(0)

	err := view.BindMany[int](total, []view.View[int]{a, b}, lt)
	if err != nil {
		t.Fatalf("BindMany: %v", err)
	}

	if err := a.Click(); err != nil {
		t.Fatalf("Click: %v", err)
	}
	if err := a.Click(); err != nil {
		t.Fatalf("Click: %v", err)
	}
	if got := total.Value(); got != 2 {
		t.Errorf("target = %d, want 2", got)
	}
	if err := b.Click(); err != nil {
		t.Fatalf("Click: %v", err)
	}
	if got := total.Value(); got != 1 {
		t.Errorf("target = %d after b, want 1 (last changed wins)", got)
	}

	// Fan-in never writes back to a source.
	if err := total.SetValue(99); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if a.Value() != 2 || b.Value() != 1 {
		t.Errorf("sources = %d/%d after target write, want 2/1", a.Value(), b.Value())
	}
}

func TestBindClampConverges(t *testing.T) {
	doc := dom.NewDocument()
	rng := NewRange(WithMin(0), WithMax(10))
	num := NewNumber()
	if err := doc.Root().AppendChild(rng.Node()); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}
	if err := doc.Root().AppendChild(num.Node()); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}

	if err := view.Bind[float64](num, rng); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if got := num.Value(); got != 5 {
		t.Fatalf("number = %v after bind, want slider midpoint 5", got)
	}

	// An over-range write reaches the slider, clamps there, and the
	// clamped value flows back; both sides settle on the bound.
	if err := num.SetValue(50); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if got := rng.Value(); got != 10 {
		t.Errorf("slider = %v, want 10", got)
	}
	if got := num.Value(); got != 10 {
		t.Errorf("number = %v, want 10", got)
	}
}

func TestBindValidationSurfaces(t *testing.T) {
	doc := dom.NewDocument()
	rng := NewRange(WithMin(0), WithMax(10))
	num := NewNumber()
	if err := doc.Root().AppendChild(rng.Node()); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}
	if err := doc.Root().AppendChild(num.Node()); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}

	// The empty number field holds NaN, which the slider rejects, so
	// binding the slider to it fails up front.
	err := view.Bind[float64](rng, num)
	if !errors.Is(err, ErrNotANumber) {
		t.Fatalf("Bind returned %v, want ErrNotANumber", err)
	}

	if err := num.SetValue(3); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if err := view.Bind[float64](rng, num); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	// Clearing the field propagates NaN to the slider, which rejects
	// it. The error surfaces to the caller; the field keeps NaN, the
	// slider keeps its value, nothing is rolled back.
	err = num.SetValue(math.NaN())
	if !errors.Is(err, ErrNotANumber) {
		t.Fatalf("SetValue returned %v, want ErrNotANumber", err)
	}
	if got := num.Value(); !math.IsNaN(got) {
		t.Errorf("number = %v, want NaN", got)
	}
	if got := rng.Value(); got != 3 {
		t.Errorf("slider = %v, want 3", got)
	}

	// The slider still holds 3, so a second clear propagates and is
	// rejected again.
	if err := num.SetValue(math.NaN()); !errors.Is(err, ErrNotANumber) {
		t.Fatalf("second clear returned %v, want ErrNotANumber", err)
	}
}
