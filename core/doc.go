// Package core defines the shared value types of the turn engine: messages,
// cards, conversation contexts and the request/response contract of a turn.
//
// Design goals:
//   - Keep the shapes minimal and transport independent
//   - Make the conversation context's invariants (append-only history,
//     monotonic goal flag) enforceable at the type level where possible
//   - Stay free of provider, storage and HTTP concerns so every other
//     package can depend on core without cycles
package core
