// Package protocol implements the binary wire protocol for live knobs
// sessions.
//
// The protocol is optimized for minimal bandwidth and fast
// encoding/decoding. It defines how widget events flow from client to
// server and how DOM patches flow from server to client over a
// WebSocket connection.
//
// # Design Goals
//
//   - Minimal size: typical event < 15 bytes, typical patch < 25 bytes
//   - Fast encoding/decoding: no reflection, direct byte manipulation
//   - Sequenced delivery: frame sequence numbers, acknowledgments
//   - Extensible: versioned header, skippable patch bodies
//
// # Wire Format
//
// Every frame starts with a 4-byte header followed by a varint body
// length and the body:
//
//	┌──────────┬──────────┬──────────┬──────────┬─────────────┬──────┐
//	│ Magic    │ Version  │ Type     │ Flags    │ Body Length │ Body │
//	│ (1 byte) │ (1 byte) │ (1 byte) │ (1 byte) │ (varint)    │ ...  │
//	└──────────┴──────────┴──────────┴──────────┴─────────────┴──────┘
//
// # Frame Types
//
//   - FrameHello (0x00): connection setup, both directions
//   - FrameEvent (0x01): client to server widget events
//   - FramePatches (0x02): server to client DOM patches
//   - FrameAck (0x03): client acknowledges received patches
//   - FramePing (0x04), FramePong (0x05): keepalive
//   - FrameError (0x06): error report
//
// # Encoding
//
//   - Varint: compact encoding for node ids, lengths, and sequence
//     numbers (protobuf-style)
//   - Length-prefixed: strings prefixed with a varint length
//   - Big-endian: fixed-width integers (uint16, uint64)
//
// # Events
//
// Events address nodes by the numeric id the renderer emits as data-k.
// A click is four or five bytes; input and change events add the value.
//
//	[Seq: varint][Type: 0x02][Node: varint][Value: len-prefixed]
//
// # Patches
//
// Each patch is [Op: 1 byte][Body length: varint][Body]. The body
// length makes every patch skippable, so a decoder can step over
// operations it does not recognize and stay in sync with the rest of
// the frame.
//
// # Usage Example
//
//	pf := &protocol.PatchesFrame{
//	    Seq: 1,
//	    Patches: []protocol.Patch{
//	        protocol.NewSetTextPatch(7, "Hello"),
//	        protocol.NewSetAttrPatch(9, "value", "0.5"),
//	    },
//	}
//	frame := protocol.NewFrame(protocol.FramePatches, protocol.EncodePatches(pf))
//	err := protocol.WriteFrame(conn, frame)
package protocol
