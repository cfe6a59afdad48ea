// Package engine orchestrates one conversational turn: load or create the
// conversation context, generate a reply through the ranked providers,
// evaluate the goal, persist the exchange and return the structured result.
//
// Per turn the engine moves through loading → generating → evaluating →
// persisting; a failure in any state aborts the turn before persisting, so
// a failed turn leaves the stored context untouched and the same request is
// safe to resend.
//
// Concurrency model:
//   - turns on different conversation keys run fully in parallel, bounded
//     by a weighted semaphore for backpressure
//   - turns sharing a key serialize on a per-key lock; the store's version
//     check backs this up against lost updates
//   - the provider call and the model-assisted evaluation are the only
//     blocking operations; both are bounded by the per-turn deadline
package engine
