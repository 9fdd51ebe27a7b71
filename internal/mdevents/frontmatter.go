package mdevents

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/retrieved/thicket/internal/chunk"
)

// ParseFrontmatter extracts a leading "---" delimited YAML frontmatter
// block from content, returning the parsed frontmatter and the remaining
// body. If content has no frontmatter block, ParseFrontmatter returns a nil
// frontmatter and the content unchanged.
func ParseFrontmatter(content []byte) (*chunk.Frontmatter, []byte, error) {
	lines := strings.Split(string(content), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return nil, content, nil
	}

	endLine := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			endLine = i
			break
		}
	}
	if endLine == -1 {
		return nil, content, nil
	}

	raw := strings.Join(lines[1:endLine], "\n")

	var data map[string]any
	if err := yaml.Unmarshal([]byte(raw), &data); err != nil {
		return nil, content, fmt.Errorf("parse frontmatter: %w", err)
	}

	fm := &chunk.Frontmatter{}
	if t, ok := data["title"].(string); ok {
		fm.Title = t
	}
	fm.Tags = parseTags(data["tags"])

	body := strings.Join(lines[endLine+1:], "\n")
	return fm, []byte(body), nil
}

// parseTags accepts tags expressed either as a YAML list or a single
// comma/space separated string.
func parseTags(v any) []string {
	switch t := v.(type) {
	case []any:
		tags := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				tags = append(tags, strings.TrimSpace(s))
			}
		}
		return tags
	case string:
		var tags []string
		for _, part := range strings.FieldsFunc(t, func(r rune) bool { return r == ',' || r == ' ' }) {
			if p := strings.TrimSpace(part); p != "" {
				tags = append(tags, p)
			}
		}
		return tags
	default:
		return nil
	}
}
