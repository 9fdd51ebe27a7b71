package contextanalysis

import (
	"path/filepath"
	"strings"

	"github.com/retrieved/thicket/internal/analyzer"
	"github.com/retrieved/thicket/internal/mdevents"
)

// extractContentTerms implements §4.8 step 2: select a parser by extension,
// sample the first SampleSize bytes for large files, tag tokens with their
// structural source weight, and run them through the text analyzer.
func extractContentTerms(path string, content []byte, an *analyzer.Analyzer, params Params, out map[string]*accum) {
	if len(content) > params.SampleSize {
		content = content[:params.SampleSize]
	}

	if isMarkdown(path) {
		extractMarkdownTerms(content, an, out)
		return
	}
	extractPlainTextTerms(content, an, out)
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdx":
		return true
	default:
		return false
	}
}

func extractPlainTextTerms(content []byte, an *analyzer.Analyzer, out map[string]*accum) {
	for _, tok := range an.Analyze(string(content)) {
		bump(out, tok, WeightBody)
	}
}

// extractMarkdownTerms gives heading text its own heading-level weight and
// tags everything else uniformly at body weight: a term's prominence comes
// from appearing IN a title, not from merely living under one. Heading byte
// ranges are found with the same goldmark-backed walk the chunk tree
// builder uses (§4.3), then excluded from the body pass.
func extractMarkdownTerms(content []byte, an *analyzer.Analyzer, out map[string]*accum) {
	events := mdevents.ExtractHeadings(content)
	if len(events) == 0 {
		extractPlainTextTerms(content, an, out)
		return
	}

	for _, h := range events {
		tagText(h.Text, headingWeight(h.Level), an, out)
	}

	pos := 0
	var body strings.Builder
	for _, h := range events {
		if h.LineStart > pos {
			body.Write(content[pos:h.LineStart])
			body.WriteByte(' ')
		}
		pos = h.LineEnd
	}
	if pos < len(content) {
		body.Write(content[pos:])
	}
	tagText(body.String(), WeightBody, an, out)
}

func headingWeight(level int) float64 {
	switch {
	case level == 1:
		return WeightHeadingH1
	case level <= 3:
		return WeightHeadingMid
	default:
		return WeightHeadingLow
	}
}

func tagText(s string, weight float64, an *analyzer.Analyzer, out map[string]*accum) {
	for _, tok := range an.Analyze(s) {
		bump(out, tok, weight)
	}
}
