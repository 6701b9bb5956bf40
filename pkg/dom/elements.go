package dom

import (
	"fmt"
	"strings"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value string
}

// El creates a detached element with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, *Node, []*Node, string, EventHandler.
func El(tag string, args ...any) *Node {
	n := newElement(tag)

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
			continue

		case Attr:
			if v.Key != "" {
				n.setAttrQuiet(v.Key, v.Value)
			}

		case []Attr:
			for _, a := range v {
				if a.Key != "" {
					n.setAttrQuiet(a.Key, a.Value)
				}
			}

		case *Node:
			if v != nil {
				n.appendQuiet(v)
			}

		case []*Node:
			for _, c := range v {
				if c != nil {
					n.appendQuiet(c)
				}
			}

		case string:
			// Shorthand for text node
			n.appendQuiet(Text(v))

		case EventHandler:
			n.On(v.Event, v.Fn)
		}
	}

	return n
}

// setAttrQuiet sets an attribute during construction, before the node can
// belong to a document.
func (n *Node) setAttrQuiet(key, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
}

// appendQuiet adds a child during construction. The child is fresh or an
// explicitly built detached subtree, so no cycle check is needed, but a
// previously parented child is still detached first.
func (n *Node) appendQuiet(c *Node) {
	if c.parent != nil {
		i := c.parent.indexOf(c)
		p := c.parent
		copy(p.children[i:], p.children[i+1:])
		p.children[len(p.children)-1] = nil
		p.children = p.children[:len(p.children)-1]
	}
	c.parent = n
	n.children = append(n.children, c)
}

// Document structure elements

func Div(args ...any) *Node     { return El("div", args...) }
func Span(args ...any) *Node    { return El("span", args...) }
func P(args ...any) *Node       { return El("p", args...) }
func Pre(args ...any) *Node     { return El("pre", args...) }
func Code(args ...any) *Node    { return El("code", args...) }
func Strong(args ...any) *Node  { return El("strong", args...) }
func Em(args ...any) *Node      { return El("em", args...) }
func A(args ...any) *Node       { return El("a", args...) }
func Ul(args ...any) *Node      { return El("ul", args...) }
func Ol(args ...any) *Node      { return El("ol", args...) }
func Li(args ...any) *Node      { return El("li", args...) }
func H1(args ...any) *Node      { return El("h1", args...) }
func H2(args ...any) *Node      { return El("h2", args...) }
func H3(args ...any) *Node      { return El("h3", args...) }
func Header(args ...any) *Node  { return El("header", args...) }
func Footer(args ...any) *Node  { return El("footer", args...) }
func Main(args ...any) *Node    { return El("main", args...) }
func Section(args ...any) *Node { return El("section", args...) }
func Img(args ...any) *Node     { return El("img", args...) }
func Br(args ...any) *Node      { return El("br", args...) }
func Hr(args ...any) *Node      { return El("hr", args...) }

// Form elements

func Form(args ...any) *Node     { return El("form", args...) }
func Input(args ...any) *Node    { return El("input", args...) }
func Textarea(args ...any) *Node { return El("textarea", args...) }
func Select(args ...any) *Node   { return El("select", args...) }
func Option(args ...any) *Node   { return El("option", args...) }
func Optgroup(args ...any) *Node { return El("optgroup", args...) }
func Button(args ...any) *Node   { return El("button", args...) }
func Label(args ...any) *Node    { return El("label", args...) }
func Fieldset(args ...any) *Node { return El("fieldset", args...) }
func Legend(args ...any) *Node   { return El("legend", args...) }
func Datalist(args ...any) *Node { return El("datalist", args...) }
func Output(args ...any) *Node   { return El("output", args...) }
func Progress(args ...any) *Node { return El("progress", args...) }
func Meter(args ...any) *Node    { return El("meter", args...) }

// Table elements

func Table(args ...any) *Node   { return El("table", args...) }
func Thead(args ...any) *Node   { return El("thead", args...) }
func Tbody(args ...any) *Node   { return El("tbody", args...) }
func Tfoot(args ...any) *Node   { return El("tfoot", args...) }
func Tr(args ...any) *Node      { return El("tr", args...) }
func Th(args ...any) *Node      { return El("th", args...) }
func Td(args ...any) *Node      { return El("td", args...) }
func Caption(args ...any) *Node { return El("caption", args...) }

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// attr creates an Attr with the given key and value.
func attr(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the style attribute.
func StyleAttr(style string) Attr { return attr("style", style) }

// TitleAttr sets the title attribute.
func TitleAttr(title string) Attr { return attr("title", title) }

// Data creates a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Form attributes

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Value sets the value attribute.
func Value(v string) Attr { return attr("value", v) }

// Placeholder sets the placeholder attribute.
func Placeholder(p string) Attr { return attr("placeholder", p) }

// For sets the for attribute.
func For(id string) Attr { return attr("for", id) }

// Min sets the min attribute.
func Min(v string) Attr { return attr("min", v) }

// Max sets the max attribute.
func Max(v string) Attr { return attr("max", v) }

// Step sets the step attribute.
func Step(v string) Attr { return attr("step", v) }

// Rows sets the rows attribute.
func Rows(n int) Attr { return attr("rows", fmt.Sprintf("%d", n)) }

// Cols sets the cols attribute.
func Cols(n int) Attr { return attr("cols", fmt.Sprintf("%d", n)) }

// MaxLength sets the maxlength attribute.
func MaxLength(n int) Attr { return attr("maxlength", fmt.Sprintf("%d", n)) }

// Accept sets the accept attribute.
func Accept(spec string) Attr { return attr("accept", spec) }

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Alt sets the alt attribute.
func Alt(text string) Attr { return attr("alt", text) }

// ListAttr sets the list attribute, pairing an input with a datalist.
func ListAttr(id string) Attr { return attr("list", id) }

// ColSpan sets the colspan attribute.
func ColSpan(n int) Attr { return attr("colspan", fmt.Sprintf("%d", n)) }

// Boolean attributes, rendered bare.

// Disabled sets the disabled attribute.
func Disabled() Attr { return attr("disabled", "") }

// Checked sets the checked attribute.
func Checked() Attr { return attr("checked", "") }

// Selected sets the selected attribute.
func Selected() Attr { return attr("selected", "") }

// Multiple sets the multiple attribute.
func Multiple() Attr { return attr("multiple", "") }

// Required sets the required attribute.
func Required() Attr { return attr("required", "") }

// ReadOnly sets the readonly attribute.
func ReadOnly() Attr { return attr("readonly", "") }
