package dom

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// WriteHTML serializes n and its subtree to w. Elements carry their node
// id as a data-k attribute and a data-on-<event> marker per handler, which
// is what the live client uses to address nodes and bind listeners.
func WriteHTML(w io.Writer, n *Node) error {
	if n == nil {
		return nil
	}
	switch n.kind {
	case KindElement:
		return writeElement(w, n)
	case KindText:
		_, err := io.WriteString(w, escapeText(n.text))
		return err
	default:
		return fmt.Errorf("dom: unknown node kind: %d", n.kind)
	}
}

// HTML returns the subtree rooted at n as an HTML fragment.
func (n *Node) HTML() string {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// HTML returns the document body as HTML.
func (d *Document) HTML() string {
	return d.root.HTML()
}

func writeElement(w io.Writer, n *Node) error {
	if _, err := io.WriteString(w, "<"+n.tag); err != nil {
		return err
	}
	if err := writeAttributes(w, n); err != nil {
		return err
	}

	if IsVoidElement(n.tag) {
		_, err := io.WriteString(w, ">")
		return err
	}

	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	for _, c := range n.children {
		if err := WriteHTML(w, c); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</"+n.tag+">")
	return err
}

// writeAttributes writes sorted attributes, then event markers, then the
// node id. The order is deterministic so serialized output is stable.
func writeAttributes(w io.Writer, n *Node) error {
	if len(n.attrs) > 0 {
		keys := make([]string, 0, len(n.attrs))
		for key := range n.attrs {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			value := n.attrs[key]
			if value == "" {
				// Boolean attribute
				if _, err := io.WriteString(w, " "+key); err != nil {
					return err
				}
				continue
			}
			if _, err := io.WriteString(w, ` `+key+`="`+escapeAttr(value)+`"`); err != nil {
				return err
			}
		}
	}

	for _, name := range n.EventNames() {
		if _, err := io.WriteString(w, ` data-on-`+name+`="true"`); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, ` data-k="`+strconv.FormatUint(n.id, 10)+`"`)
	return err
}
