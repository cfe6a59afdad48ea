// Package provider defines the provider-agnostic generation contract of the
// turn engine and the machinery shared by all backends.
//
// Core goals:
//   - Unify model backends behind a single Adapter interface so the engine
//     never branches per vendor
//   - Normalize failures into a small classified taxonomy (Error / Kind)
//     that the registry and the engine can act on
//   - Keep retry with exponential backoff in one place (WithRetry) so each
//     adapter only supplies the single outbound call
//   - Facilitate lightweight mocking for tests (MockAdapter)
//
// Backends (OpenAI, Anthropic, Gemini) implement the Adapter interface in
// subpackages so higher layers remain decoupled from vendor SDKs. Registry
// composes several adapters into one Completer with priority-ordered
// fallback.
package provider
