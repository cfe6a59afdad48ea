// Package logging provides a minimal logging interface and adapters for the
// turn engine.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the engine, registry and evaluators use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - TurnLogger with conversation-scoped context and domain helpers for
//     provider calls and completed turns
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
