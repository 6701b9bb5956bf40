package widget

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/view"
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Color is a color picker. Its value is always a normalized six-digit
// lowercase hex string; assignments accept short hex and SVG 1.1 color
// names and normalize them.
type Color struct {
	base
	*view.Input[string]
}

// NewColor builds a picker set to black.
func NewColor(opts ...Option) *Color {
	o := applyOptions(opts)
	c := &Color{Input: view.NewInput("#000000")}

	control := dom.Input(dom.Type("color"), dom.Value("#000000"))
	control.On("input", func(ev dom.Event) error { return c.SetValue(ev.Value) })

	c.init("color", control, o)
	return c
}

// SetValue sets the color and notifies. "#abc", "#aabbcc", and names
// like "rebeccapurple" are accepted; anything else is rejected.
func (c *Color) SetValue(v string) error {
	normalized, ok := NormalizeColor(v)
	if !ok {
		return rejected("color", v, ErrBadColor)
	}
	c.control.SetAttr("value", normalized)
	return c.Input.SetValue(normalized)
}

// NormalizeColor resolves a color to six-digit lowercase hex. It accepts
// hex in short or long form and SVG 1.1 color names.
func NormalizeColor(v string) (string, bool) {
	v = strings.TrimSpace(strings.ToLower(v))

	if named, ok := colornames.Map[v]; ok {
		return fmt.Sprintf("#%02x%02x%02x", named.R, named.G, named.B), true
	}
	if !hexColor.MatchString(v) {
		return "", false
	}
	if len(v) == 4 {
		// #abc expands to #aabbcc
		r, g, b := v[1], v[2], v[3]
		return string([]byte{'#', r, r, g, g, b, b}), true
	}
	return v, true
}
