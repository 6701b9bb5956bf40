package protocol

import "io"

// PatchOp is the type of patch operation.
type PatchOp uint8

// Patch operation constants.
const (
	PatchSetText    PatchOp = 0x01 // Update text content
	PatchSetAttr    PatchOp = 0x02 // Set attribute
	PatchRemoveAttr PatchOp = 0x03 // Remove attribute
	PatchInsertNode PatchOp = 0x04 // Insert serialized HTML fragment
	PatchRemoveNode PatchOp = 0x05 // Remove node
	PatchSetValue   PatchOp = 0x06 // Set input value property
	PatchSetChecked PatchOp = 0x07 // Set checkbox checked property
)

// String returns the string representation of the patch operation.
func (op PatchOp) String() string {
	switch op {
	case PatchSetText:
		return "SetText"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchInsertNode:
		return "InsertNode"
	case PatchRemoveNode:
		return "RemoveNode"
	case PatchSetValue:
		return "SetValue"
	case PatchSetChecked:
		return "SetChecked"
	default:
		return "Unknown"
	}
}

// Patch represents a single DOM operation. Nodes are addressed by the
// numeric id the renderer emits as data-k.
type Patch struct {
	Op      PatchOp
	Node    uint64 // Target node id
	Key     string // Attribute key for SetAttr/RemoveAttr
	Value   string // Text, attribute value, input value, or HTML fragment
	Parent  uint64 // Parent node id for InsertNode
	Before  uint64 // Anchor sibling for InsertNode (0 = append)
	Checked bool   // For SetChecked
}

// PatchesFrame represents a batch of patches with a sequence number.
type PatchesFrame struct {
	Seq     uint64
	Patches []Patch
}

// EncodePatches encodes a patches frame to bytes.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	EncodePatchesTo(e, pf)
	return e.Bytes()
}

// EncodePatchesTo encodes a patches frame using the provided encoder.
func EncodePatchesTo(e *Encoder, pf *PatchesFrame) {
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))

	body := NewEncoder()
	for i := range pf.Patches {
		encodePatch(e, body, &pf.Patches[i])
	}
}

// encodePatch encodes a single patch as [op][body length][body]. The
// length prefix is what makes unknown ops skippable: a decoder that
// does not recognize the op steps over the body and stays in sync.
func encodePatch(e *Encoder, body *Encoder, p *Patch) {
	body.Reset()
	body.WriteUvarint(p.Node)

	switch p.Op {
	case PatchSetText, PatchSetValue:
		body.WriteString(p.Value)

	case PatchSetAttr:
		body.WriteString(p.Key)
		body.WriteString(p.Value)

	case PatchRemoveAttr:
		body.WriteString(p.Key)

	case PatchInsertNode:
		body.WriteUvarint(p.Parent)
		body.WriteUvarint(p.Before)
		body.WriteString(p.Value)

	case PatchRemoveNode:
		// Node id is sufficient.

	case PatchSetChecked:
		body.WriteBool(p.Checked)
	}

	e.WriteByte(byte(p.Op))
	e.WriteUvarint(uint64(body.Len()))
	e.WriteBytes(body.Bytes())
}

// DecodePatches decodes a patches frame from bytes.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	d := NewDecoder(data)
	return DecodePatchesFrom(d)
}

// DecodePatchesFrom decodes a patches frame from a decoder. Patches
// with unknown ops are dropped, not errors: their length prefix lets
// the decoder skip them, which is how older clients survive newer
// servers.
func DecodePatchesFrom(d *Decoder) (*PatchesFrame, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}

	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}

	pf := &PatchesFrame{Seq: seq, Patches: make([]Patch, 0, count)}
	for i := 0; i < count; i++ {
		p, known, err := decodePatch(d)
		if err != nil {
			return nil, err
		}
		if known {
			pf.Patches = append(pf.Patches, p)
		}
	}
	return pf, nil
}

// decodePatch decodes one patch, reporting known=false for ops this
// decoder does not understand.
func decodePatch(d *Decoder) (Patch, bool, error) {
	var p Patch

	opByte, err := d.ReadByte()
	if err != nil {
		return p, false, err
	}
	p.Op = PatchOp(opByte)

	length, err := d.ReadUvarint()
	if err != nil {
		return p, false, err
	}
	if length > uint64(d.Remaining()) {
		return p, false, io.ErrUnexpectedEOF
	}
	raw, err := d.ReadBytes(int(length))
	if err != nil {
		return p, false, err
	}
	body := NewDecoder(raw)

	p.Node, err = body.ReadUvarint()
	if err != nil {
		return p, false, err
	}

	switch p.Op {
	case PatchSetText, PatchSetValue:
		p.Value, err = body.ReadString()

	case PatchSetAttr:
		p.Key, err = body.ReadString()
		if err != nil {
			return p, false, err
		}
		p.Value, err = body.ReadString()

	case PatchRemoveAttr:
		p.Key, err = body.ReadString()

	case PatchInsertNode:
		p.Parent, err = body.ReadUvarint()
		if err != nil {
			return p, false, err
		}
		p.Before, err = body.ReadUvarint()
		if err != nil {
			return p, false, err
		}
		p.Value, err = body.ReadString()

	case PatchRemoveNode:
		// No additional data.

	case PatchSetChecked:
		p.Checked, err = body.ReadBool()

	default:
		// Unknown op: the body was already consumed, skip the patch.
		return p, false, nil
	}

	return p, err == nil, err
}

// NewSetTextPatch creates a SetText patch.
func NewSetTextPatch(node uint64, text string) Patch {
	return Patch{Op: PatchSetText, Node: node, Value: text}
}

// NewSetAttrPatch creates a SetAttr patch.
func NewSetAttrPatch(node uint64, key, value string) Patch {
	return Patch{Op: PatchSetAttr, Node: node, Key: key, Value: value}
}

// NewRemoveAttrPatch creates a RemoveAttr patch.
func NewRemoveAttrPatch(node uint64, key string) Patch {
	return Patch{Op: PatchRemoveAttr, Node: node, Key: key}
}

// NewInsertNodePatch creates an InsertNode patch carrying a serialized
// HTML fragment. A before of 0 appends to the parent's children.
func NewInsertNodePatch(node, parent, before uint64, html string) Patch {
	return Patch{Op: PatchInsertNode, Node: node, Parent: parent, Before: before, Value: html}
}

// NewRemoveNodePatch creates a RemoveNode patch.
func NewRemoveNodePatch(node uint64) Patch {
	return Patch{Op: PatchRemoveNode, Node: node}
}

// NewSetValuePatch creates a SetValue patch. Unlike SetAttr on "value",
// it updates the live input property, so it takes effect on controls
// the user has already typed in.
func NewSetValuePatch(node uint64, value string) Patch {
	return Patch{Op: PatchSetValue, Node: node, Value: value}
}

// NewSetCheckedPatch creates a SetChecked patch.
func NewSetCheckedPatch(node uint64, checked bool) Patch {
	return Patch{Op: PatchSetChecked, Node: node, Checked: checked}
}
