// Package gallery builds the demo document for the preview server: one
// section per widget kind, with paired widgets held together by two-way
// bindings. The same document serves live sessions and the static build.
package gallery

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/format"
	"github.com/knobs-dev/knobs/pkg/view"
	"github.com/knobs-dev/knobs/pkg/widget"
)

// Build assembles the gallery into doc. Sections attach to the document
// root before their bindings are made, so every binding's lifetime is
// armed against a live node.
func Build(doc *dom.Document) error {
	root := doc.Root()

	if err := root.AppendChild(dom.Header(
		dom.Class("gallery-header"),
		dom.H1("knobs gallery"),
		dom.P("Every widget, live. Edits flow through typed views, and paired widgets stay in sync through two-way bindings."),
	)); err != nil {
		return err
	}

	builders := []func(*dom.Node) error{
		textSection,
		numberSection,
		choiceSection,
		multiChoiceSection,
		switchSection,
		timeSection,
		colorSection,
		searchSection,
		tableSection,
		fileSection,
		formSection,
	}
	for _, build := range builders {
		if err := build(root); err != nil {
			return err
		}
	}
	return nil
}

// addSection attaches a titled section to the root. Children are handed
// over during construction, so the whole subtree arrives in one append.
func addSection(root *dom.Node, title string, children ...*dom.Node) error {
	return root.AppendChild(dom.Section(
		dom.Class("gallery-section"),
		dom.H2(title),
		children,
	))
}

func textSection(root *dom.Node) error {
	field := widget.NewText(
		widget.WithLabel("Single line"),
		widget.WithPlaceholder("type here"),
		widget.WithMaxLength(120),
	)
	area := widget.NewTextarea(
		widget.WithLabel("Multi line"),
		widget.WithRows(3),
		widget.WithMaxLength(120),
	)
	count := dom.Text("0 characters")

	if err := addSection(root, "Text",
		field.Node(),
		area.Node(),
		dom.P(dom.Class("gallery-status"), count),
	); err != nil {
		return err
	}

	// Both sides hold strings, so the field and the textarea mirror
	// each other.
	if err := view.Bind[string](area, field); err != nil {
		return err
	}
	field.Listen(func() error {
		count.SetText(fmt.Sprintf("%d characters", utf8.RuneCountInString(field.Value())))
		return nil
	})
	return nil
}

func numberSection(root *dom.Node) error {
	slider := widget.NewRange(
		widget.WithLabel("Slider"),
		widget.WithMin(0), widget.WithMax(100), widget.WithStep(1),
	)
	num := widget.NewNumber(
		widget.WithLabel("Number"),
		widget.WithMin(0), widget.WithMax(100),
	)

	if err := addSection(root, "Numbers",
		slider.Node(),
		num.Node(),
		dom.P(dom.Class("gallery-note"),
			"The slider clamps out-of-range values; the number field rejects them. Bound together they settle on the slider's clamp."),
	); err != nil {
		return err
	}

	return view.Bind[float64](num, slider)
}

func choiceSection(root *dom.Node) error {
	flavors := []string{"vanilla", "chocolate", "pistachio"}
	drop := widget.NewSelect(flavors, widget.WithLabel("Drop-down"))
	radio := widget.NewRadio(flavors, widget.WithLabel("Radio group"))

	if err := addSection(root, "One of many", drop.Node(), radio.Node()); err != nil {
		return err
	}

	return view.Bind[string](radio, drop)
}

func multiChoiceSection(root *dom.Node) error {
	tools := []string{"hammer", "saw", "wrench", "plane"}
	multi := widget.NewMultiSelect(tools, widget.WithLabel("Multi-select"))
	boxes := widget.NewCheckbox(tools, widget.WithLabel("Checkboxes"))

	if err := addSection(root, "Several of many", multi.Node(), boxes.Node()); err != nil {
		return err
	}

	return view.Bind[[]string](boxes, multi)
}

func switchSection(root *dom.Node) error {
	toggle := widget.NewToggle(widget.WithLabel("Notifications"))
	state := dom.Text("off")

	clicker := widget.NewButton("Click me")
	clicks := dom.Text("0 clicks")

	if err := addSection(root, "Switches and buttons",
		toggle.Node(),
		dom.P(dom.Class("gallery-status"), state),
		clicker.Node(),
		dom.P(dom.Class("gallery-status"), clicks),
	); err != nil {
		return err
	}

	toggle.Listen(func() error {
		if toggle.Value() {
			state.SetText("on")
		} else {
			state.SetText("off")
		}
		return nil
	})
	clicker.Listen(func() error {
		clicks.SetText(fmt.Sprintf("%d clicks", clicker.Value()))
		return nil
	})
	return nil
}

func timeSection(root *dom.Node) error {
	day := widget.NewDate(widget.WithLabel("Date"))
	moment := widget.NewDatetime(widget.WithLabel("Datetime"))
	picked := dom.Text("nothing picked")

	if err := addSection(root, "Time",
		day.Node(),
		moment.Node(),
		dom.P(dom.Class("gallery-status"), picked),
	); err != nil {
		return err
	}

	day.Listen(func() error {
		if day.Value().IsZero() {
			picked.SetText("nothing picked")
		} else {
			picked.SetText("picked " + format.Date(day.Value()))
		}
		return nil
	})
	return nil
}

func colorSection(root *dom.Node) error {
	picker := widget.NewColor(widget.WithLabel("Accent"))
	swatch := dom.Span(
		dom.Class("gallery-swatch"),
		dom.StyleAttr("background: #000000"),
	)

	if err := addSection(root, "Color", picker.Node(), swatch); err != nil {
		return err
	}

	picker.Listen(func() error {
		swatch.SetAttr("style", "background: "+picker.Value())
		return nil
	})
	return nil
}

func searchSection(root *dom.Node) error {
	words := []string{
		"crimson", "scarlet", "vermilion", "amber", "gold",
		"chartreuse", "emerald", "teal", "azure", "indigo", "violet",
	}
	finder := widget.NewSearch(words,
		widget.WithLabel("Find a color"),
		widget.WithPlaceholder("query"),
	)
	matches := dom.Text(preview(finder.Value()))

	if err := addSection(root, "Search",
		finder.Node(),
		dom.P(dom.Class("gallery-status"), matches),
	); err != nil {
		return err
	}

	finder.Listen(func() error {
		matches.SetText(preview(finder.Value()))
		return nil
	})
	return nil
}

// preview shows the first few rows of a result set.
func preview(rows []string) string {
	if len(rows) == 0 {
		return "no matches"
	}
	if len(rows) > 5 {
		return strings.Join(rows[:5], ", ") + ", …"
	}
	return strings.Join(rows, ", ")
}

type moon struct {
	Name   string
	Planet string
	Radius float64
}

func tableSection(root *dom.Node) error {
	rows := []moon{
		{Name: "Io", Planet: "Jupiter", Radius: 1821.6},
		{Name: "Europa", Planet: "Jupiter", Radius: 1560.8},
		{Name: "Titan", Planet: "Saturn", Radius: 2574.7},
		{Name: "Triton", Planet: "Neptune", Radius: 1353.4},
	}
	table := widget.NewTable(rows, []widget.Column[moon]{
		{Name: "Moon", Value: func(m moon) any { return m.Name }},
		{Name: "Planet", Value: func(m moon) any { return m.Planet }},
		{Name: "Radius (km)", Value: func(m moon) any { return m.Radius }},
	}, widget.WithLabel("Moons"))
	chosen := dom.Text("0 chosen")

	if err := addSection(root, "Table",
		table.Node(),
		dom.P(dom.Class("gallery-status"), chosen),
	); err != nil {
		return err
	}

	table.Listen(func() error {
		chosen.SetText(fmt.Sprintf("%d chosen", len(table.Value())))
		return nil
	})
	return nil
}

func fileSection(root *dom.Node) error {
	picker := widget.NewFile(
		widget.WithLabel("Attachment"),
		widget.WithAccept("image/*"),
	)
	status := dom.Text("no file")

	if err := addSection(root, "File",
		picker.Node(),
		dom.P(dom.Class("gallery-status"), status),
		dom.P(dom.Class("gallery-note"),
			"The chosen file posts to the upload endpoint; the widget holds the returned descriptor, never the bytes."),
	); err != nil {
		return err
	}

	picker.Listen(func() error {
		desc := picker.Value()
		if desc.Key == "" {
			status.SetText("no file")
		} else {
			status.SetText(fmt.Sprintf("%s (%d bytes)", desc.Name, desc.Size))
		}
		return nil
	})
	return nil
}

func formSection(root *dom.Node) error {
	name := widget.NewText(widget.WithLabel("Name"), widget.WithPlaceholder("Ada"))
	level := widget.NewNumber(widget.WithLabel("Level"), widget.WithMin(1), widget.WithMax(10))
	admin := widget.NewToggle(widget.WithLabel("Admin"))
	role := widget.NewSelect([]string{"viewer", "editor", "owner"}, widget.WithLabel("Role"))

	profile := widget.NewForm([]widget.Field{
		{Name: "name", View: view.AsAny[string](name), Node: name.Node()},
		{Name: "level", View: view.AsAny[float64](level), Node: level.Node()},
		{Name: "admin", View: view.AsAny[bool](admin), Node: admin.Node()},
		{Name: "role", View: view.AsAny[string](role), Node: role.Node()},
	}, widget.WithLabel("Profile"))

	dump := dom.Text(renderValues(profile.Value()))

	if err := addSection(root, "Form",
		profile.Node(),
		dom.Pre(dom.Class("gallery-dump"), dump),
	); err != nil {
		return err
	}

	profile.Listen(func() error {
		dump.SetText(renderValues(profile.Value()))
		return nil
	})
	return nil
}

// renderValues prints a field map with stable key order.
func renderValues(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s = %s\n", k, format.Stringify(m[k]))
	}
	return b.String()
}
