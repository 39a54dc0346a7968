// Package protocol implements the binary wire protocol spoken between a
// tablesync server and the browser runtime.
//
// Events flow from client to server when the user interacts with a table
// (header clicks, key presses, search input); patches flow back to update
// header state, toggle classes and rewrite the address bar.
//
// # Wire Format
//
// Every websocket message is one frame with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Encoding
//
//   - Varint: compact unsigned integers (protobuf-style)
//   - ZigZag: signed integers encoded as unsigned varints
//   - Length-prefixed: strings prefixed with a varint length
//   - Big-endian: fixed-width integers
//
// # Events
//
//	[Seq: varint][Type: byte][HID: string][Target: string][payload]
//
// Click carries button and modifiers, KeyDown/KeyPress carry key, code,
// modifiers and repeat; Input, Change, Search and PopState carry one string.
//
// # Patches
//
//	[Seq: varint][Count: varint] then per patch [Op: byte][operands]
//
// HistoryPush and HistoryReplace carry only the target URL. The client
// applies them with history.pushState and history.replaceState.
//
// # Handshake
//
//	Client                          Server
//	  │──── ClientHello ─────────────>│  version, session, table, location
//	  │<──── ServerHello ─────────────│  status, session, time
package protocol
