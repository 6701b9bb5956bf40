// Package domtest provides testing helpers for knobs widgets.
//
// The domtest package reduces boilerplate when testing widgets by
// providing event firing helpers and render assertions over dom nodes.
//
// # Quick Start
//
//	func TestVolume(t *testing.T) {
//	    doc := dom.NewDocument()
//	    volume := widget.NewRange(widget.WithMin(0), widget.WithMax(11))
//	    domtest.Mount(t, doc, volume.Node())
//
//	    domtest.Fire(t, volume.Control(), dom.Event{Type: "input", Value: "7"})
//	    if volume.Value() != 7 {
//	        t.Errorf("got %v", volume.Value())
//	    }
//	}
//
// # Event Helpers
//
// Input, Change, Check, and Click wrap Fire for the common event shapes:
//
//	domtest.Input(t, name.Control(), "ada")
//	domtest.Check(t, toggle.Control(), true)
//	domtest.Click(t, button.Control())
//
// # Render Assertions
//
// Assert on rendered HTML output:
//
//	domtest.ExpectContains(t, volume.Node(), "knob-range")
//	domtest.ExpectAttribute(t, volume.Control(), "max", "11")
//	domtest.ExpectNotContains(t, volume.Node(), "<script")
//
// The helpers fail the test through t.Helper-annotated calls, so
// failures point at the test line, not the helper.
package domtest
