// Package goal decides, turn by turn, whether a conversation has satisfied
// the objective declared on its card.
//
// Two interchangeable strategies implement the Evaluator interface:
//
//   - Heuristic: deterministic keyword matching of goal-derived terms
//     against the assistant's latest reply. Zero extra latency, coarse
//     accuracy. The documented fallback strategy.
//   - ModelAssisted: a secondary provider call asking the backend for a
//     yes/no judgment over the transcript. Higher accuracy at the cost of
//     latency and an extra failure surface; on any failure it degrades to
//     "not achieved" instead of raising, because non-achievement is always
//     the safe default for this step.
//
// Evaluators are stateless and freely shared across concurrent turns. The
// engine, not the evaluator, enforces that an achieved goal never reverts.
package goal
