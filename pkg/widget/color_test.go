package widget

import (
	"errors"
	"testing"

	"github.com/knobs-dev/knobs/pkg/dom"
)

func TestColorDefaultsToBlack(t *testing.T) {
	c := NewColor()
	if got := c.Value(); got != "#000000" {
		t.Errorf("initial value = %q, want #000000", got)
	}
}

func TestColorAcceptsNamesAndHex(t *testing.T) {
	c := NewColor()

	cases := []struct {
		in, want string
	}{
		{"rebeccapurple", "#663399"},
		{"RED", "#ff0000"},
		{"#AbCdEf", "#abcdef"},
		{"#abc", "#aabbcc"},
		{"  white  ", "#ffffff"},
	}
	for _, tc := range cases {
		if err := c.SetValue(tc.in); err != nil {
			t.Errorf("SetValue(%q): %v", tc.in, err)
			continue
		}
		if got := c.Value(); got != tc.want {
			t.Errorf("SetValue(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestColorRejectsGarbage(t *testing.T) {
	c := NewColor()

	for _, in := range []string{"#12", "#12345", "notacolor", "rgb(1,2,3)"} {
		err := c.SetValue(in)
		if !errors.Is(err, ErrBadColor) {
			t.Errorf("SetValue(%q) returned %v, want ErrBadColor", in, err)
		}
	}
	if got := c.Value(); got != "#000000" {
		t.Errorf("value = %q after rejections, want #000000", got)
	}
}

func TestColorInputEvent(t *testing.T) {
	c := NewColor()

	if _, err := c.Control().Dispatch(dom.Event{Type: "input", Value: "#00ff00"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := c.Value(); got != "#00ff00" {
		t.Errorf("value = %q, want #00ff00", got)
	}
	if v, _ := c.Control().Attr("value"); v != "#00ff00" {
		t.Errorf("value attribute = %q, want #00ff00", v)
	}
}

func TestNormalizeColor(t *testing.T) {
	if _, ok := NormalizeColor("no such color"); ok {
		t.Error("NormalizeColor accepted garbage")
	}
	got, ok := NormalizeColor("Navy")
	if !ok || got != "#000080" {
		t.Errorf("NormalizeColor(Navy) = %q, %v", got, ok)
	}
}
