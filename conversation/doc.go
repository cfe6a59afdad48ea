// Package conversation persists per-conversation state between turns.
//
// The Store contract is deliberately small: Get returns a snapshot (or nil
// for an unknown key, which the engine treats as "first turn") and Upsert
// writes one back guarded by an optimistic version stamp. The version check
// is what makes the engine's read-modify-write of a context safe against
// lost updates even when the per-key lock is not the only writer (for
// example a future shared store behind several engine processes).
package conversation
