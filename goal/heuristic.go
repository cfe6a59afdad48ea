package goal

import (
	"context"
	"strings"
	"unicode"

	"github.com/talecard/talecard/core"
)

// stopwords are goal-text words too generic to signal achievement.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "from": true, "into": true, "about": true, "a": true,
	"an": true, "of": true, "to": true, "in": true, "on": true, "is": true,
	"are": true, "be": true, "user": true, "make": true, "have": true,
	"has": true, "what": true, "how": true, "why": true,
}

// HeuristicOptions tune the keyword matcher.
type HeuristicOptions struct {
	// MatchFraction is the share of goal keywords that must appear in the
	// assistant's latest reply for the goal to count as achieved. The
	// required count is rounded up and never below one.
	MatchFraction float64
	// MinKeywordLen drops goal words shorter than this many runes.
	MinKeywordLen int
}

// Heuristic is the deterministic keyword-matching strategy: case-insensitive
// matching of goal-derived terms against the assistant's latest response.
type Heuristic struct {
	matchFraction float64
	minKeywordLen int
}

// NewHeuristic constructs the keyword evaluator with optional overrides.
func NewHeuristic(optFns ...func(o *HeuristicOptions)) *Heuristic {
	opts := HeuristicOptions{MatchFraction: 0.5, MinKeywordLen: 4}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Heuristic{matchFraction: opts.MatchFraction, minKeywordLen: opts.MinKeywordLen}
}

// Evaluate implements Evaluator. It never fails; an empty goal or an empty
// reply simply evaluates to not achieved.
func (h *Heuristic) Evaluate(_ context.Context, cardGoal string, history []core.Message) (bool, error) {
	keywords := h.keywords(cardGoal)
	if len(keywords) == 0 {
		return false, nil
	}
	reply := strings.ToLower(core.LastAssistantText(history))
	if reply == "" {
		return false, nil
	}

	matched := 0
	for _, kw := range keywords {
		if strings.Contains(reply, kw) {
			matched++
		}
	}

	required := int(float64(len(keywords))*h.matchFraction + 0.999)
	if required < 1 {
		required = 1
	}
	return matched >= required, nil
}

// keywords extracts the significant lowercase terms from the goal text.
func (h *Heuristic) keywords(goalText string) []string {
	fields := strings.FieldsFunc(strings.ToLower(goalText), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var keywords []string
	seen := map[string]bool{}
	for _, f := range fields {
		if len([]rune(f)) < h.minKeywordLen || stopwords[f] || seen[f] {
			continue
		}
		seen[f] = true
		keywords = append(keywords, f)
	}
	return keywords
}
