// Package server exposes the turn engine over HTTP. It owns exactly one
// route, POST /play-turn, and the mapping from internal failure kinds to
// the small set of externally visible statuses. Authentication is not its
// business: the handler trusts that an upstream gate already authorized the
// caller for the conversation and card.
package server
