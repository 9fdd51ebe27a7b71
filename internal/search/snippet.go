package search

import (
	"sort"
	"strings"

	"github.com/retrieved/thicket/internal/index"
)

const snippetRadius = 120

// attachSnippet fills in r.Snippet and r.MatchRanges from the chunk's
// stored body, locating raw (pre-analysis) query terms by case-insensitive
// substring search. Aggregated results (those with constituents) omit
// match_ranges per §6.
func attachSnippet(snap *index.Snapshot, r *Result, terms []string) {
	chunk, ok := snap.Get(r.ID)
	if !ok {
		return
	}
	body := chunk.Body

	var ranges []MatchRange
	if len(r.Constituents) == 0 {
		ranges = findMatchRanges(body, terms)
		r.MatchRanges = ranges
	}

	r.Snippet = buildSnippet(body, ranges)
}

func findMatchRanges(body string, terms []string) []MatchRange {
	if body == "" || len(terms) == 0 {
		return nil
	}
	lower := strings.ToLower(body)

	var raw []MatchRange
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		start := 0
		for {
			idx := strings.Index(lower[start:], term)
			if idx < 0 {
				break
			}
			absStart := start + idx
			raw = append(raw, MatchRange{Start: absStart, End: absStart + len(term)})
			start = absStart + len(term)
		}
	}
	if len(raw) == 0 {
		return nil
	}

	sort.Slice(raw, func(i, j int) bool { return raw[i].Start < raw[j].Start })

	merged := raw[:1]
	for _, m := range raw[1:] {
		last := &merged[len(merged)-1]
		if m.Start <= last.End {
			if m.End > last.End {
				last.End = m.End
			}
			continue
		}
		merged = append(merged, m)
	}
	return merged
}

func buildSnippet(body string, ranges []MatchRange) string {
	if body == "" {
		return ""
	}
	if len(ranges) == 0 {
		return truncate(body, 2*snippetRadius)
	}

	var parts []string
	for _, r := range ranges {
		start := r.Start - snippetRadius
		if start < 0 {
			start = 0
		}
		end := r.End + snippetRadius
		if end > len(body) {
			end = len(body)
		}
		parts = append(parts, strings.TrimSpace(body[start:end]))
	}
	return strings.Join(parts, " … ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(s[:n]) + "…"
}
