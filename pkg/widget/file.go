package widget

import (
	"context"
	"encoding/json"
	"io"

	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/upload"
	"github.com/knobs-dev/knobs/pkg/view"
)

// File picks an uploaded file. The client posts the chosen file to the
// upload endpoint and echoes the returned descriptor as the change event
// value, so the widget holds an upload.File and never the file content.
// The zero descriptor means no file is chosen.
type File struct {
	base
	*view.Input[upload.File]
	name *dom.Node
}

// NewFile returns a file picker with no file chosen.
func NewFile(opts ...Option) *File {
	o := applyOptions(opts)
	f := &File{Input: view.NewInput(upload.File{})}

	control := dom.Input(dom.Type("file"))
	if o.accept != "" {
		control.SetAttr("accept", o.accept)
	}
	control.On("change", func(ev dom.Event) error {
		if ev.Value == "" {
			return f.SetValue(upload.File{})
		}
		var desc upload.File
		if err := json.Unmarshal([]byte(ev.Value), &desc); err != nil {
			return rejected("file", ev.Value, ErrBadUpload)
		}
		return f.SetValue(desc)
	})

	f.init("file", control, o)
	f.name = dom.Text("")
	f.root.AppendChild(dom.Span(dom.Class("knob-filename"), f.name))
	return f
}

// SetValue stores a file descriptor and shows its name. A non-zero
// descriptor must carry the key issued by the upload endpoint.
func (f *File) SetValue(desc upload.File) error {
	if desc != (upload.File{}) && desc.Key == "" {
		return rejected("file", desc, ErrBadUpload)
	}
	f.name.SetText(desc.Name)
	return f.Input.SetValue(desc)
}

// Receive saves content to store and selects the stored file. It is the
// programmatic path to the same state a browser pick reaches through the
// upload endpoint.
func (f *File) Receive(ctx context.Context, store upload.Store, name, contentType string, r io.Reader) error {
	desc, err := store.Save(ctx, name, contentType, r)
	if err != nil {
		return err
	}
	return f.SetValue(desc)
}
