package chunk

import (
	"strings"
	"testing"
)

// findHeadings is a tiny test-only markdown scanner: it treats any line
// starting with one or more '#' as a heading, mirroring what the real
// markdown parser collaborator (goldmark-backed, see internal/mdevents)
// would hand the builder.
func findHeadings(content string) []HeadingEvent {
	var events []HeadingEvent
	pos := 0
	for _, line := range strings.SplitAfter(content, "\n") {
		if line == "" {
			continue
		}
		trimmed := strings.TrimLeft(line, "#")
		level := len(line) - len(trimmed)
		if level >= 1 && level <= 6 && strings.HasPrefix(strings.TrimSpace(trimmed), "") {
			text := strings.TrimSpace(trimmed)
			if text != "" || level > 0 {
				events = append(events, HeadingEvent{
					Level:     level,
					Text:      strings.TrimSpace(text),
					LineStart: pos,
					LineEnd:   pos + len(line),
				})
			}
		}
		pos += len(line)
	}
	return events
}

func TestBuildIntroABScenario(t *testing.T) {
	content := "# Intro\n## A\ntext\n## B\ntext\n"
	headings := findHeadings(content)

	nodes := Build("docs", "g/a.md", []byte(content), nil, headings)

	if len(nodes) != 4 {
		t.Fatalf("expected 4 chunks, got %d: %+v", len(nodes), nodes)
	}

	doc := nodes[0]
	if doc.ID != "docs:g/a.md" || doc.Depth != 0 || doc.Title != "Intro" {
		t.Fatalf("unexpected document node: %+v", doc)
	}

	wantIDs := []string{"docs:g/a.md", "docs:g/a.md#intro", "docs:g/a.md#a", "docs:g/a.md#b"}
	for i, want := range wantIDs {
		if nodes[i].ID != want {
			t.Fatalf("node %d ID = %q, want %q", i, nodes[i].ID, want)
		}
	}

	var a *Node
	for i := range nodes {
		if nodes[i].ID == "docs:g/a.md#a" {
			a = &nodes[i]
		}
	}
	if a == nil {
		t.Fatal("missing #a node")
	}
	if a.Breadcrumb != "Intro › A" {
		t.Fatalf("breadcrumb = %q, want %q", a.Breadcrumb, "Intro › A")
	}
}

func TestBuildEmptyFileProducesNoChunks(t *testing.T) {
	if nodes := Build("docs", "e.md", []byte("   \n\t\n"), nil, nil); len(nodes) != 0 {
		t.Fatalf("expected 0 chunks for blank file, got %d", len(nodes))
	}
	if nodes := Build("docs", "e.md", []byte(""), nil, nil); len(nodes) != 0 {
		t.Fatalf("expected 0 chunks for empty file, got %d", len(nodes))
	}
}

func TestBuildFrontmatterOnlyDocument(t *testing.T) {
	fm := &Frontmatter{Title: "My Title"}
	nodes := Build("docs", "f.md", []byte(""), fm, nil)
	if len(nodes) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(nodes))
	}
	if nodes[0].Title != "My Title" {
		t.Fatalf("title = %q, want %q", nodes[0].Title, "My Title")
	}
}

func TestBuildConsecutiveSameLevelHeadingsDiscardsEarlier(t *testing.T) {
	content := "## A\n## B\ntext\n"
	headings := findHeadings(content)
	nodes := Build("docs", "x.md", []byte(content), nil, headings)

	for _, n := range nodes {
		if n.Title == "A" {
			t.Fatalf("expected empty-span heading 'A' to be discarded, got %+v", n)
		}
	}
}

func TestBuildSlugCollisionSuffixes(t *testing.T) {
	content := "# Doc\n## Same\ntext\n## Same\ntext\n"
	headings := findHeadings(content)
	nodes := Build("docs", "x.md", []byte(content), nil, headings)

	var slugs []string
	for _, n := range nodes {
		if n.Title == "Same" {
			slugs = append(slugs, n.Slug)
		}
	}
	if len(slugs) != 2 || slugs[0] != "same" || slugs[1] != "same-1" {
		t.Fatalf("slugs = %v, want [same same-1]", slugs)
	}
}

func TestBuildPositionsArePreorderPrefix(t *testing.T) {
	content := "# Intro\n## A\ntext\n### A1\ntext\n## B\ntext\n"
	headings := findHeadings(content)
	nodes := Build("docs", "x.md", []byte(content), nil, headings)

	for i, n := range nodes {
		if n.Position != i {
			t.Fatalf("node %d has Position %d, want %d", i, n.Position, i)
		}
	}
}

func TestBuildPlainTextFile(t *testing.T) {
	nodes := Build("docs", "notes.txt", []byte("just some plain text"), nil, nil)
	if len(nodes) != 1 {
		t.Fatalf("expected 1 chunk for plain text, got %d", len(nodes))
	}
	if nodes[0].Title != "notes" {
		t.Fatalf("title = %q, want %q", nodes[0].Title, "notes")
	}
	if nodes[0].ByteStart != 0 || nodes[0].ByteEnd != len("just some plain text") {
		t.Fatalf("unexpected span: %+v", nodes[0])
	}
}

func TestBodyReconstructionSubtractsChildren(t *testing.T) {
	content := "# Intro\nparent text\n## A\nchild text\n"
	headings := findHeadings(content)
	nodes := Build("docs", "x.md", []byte(content), nil, headings)

	var intro, a Node
	for _, n := range nodes {
		switch n.Title {
		case "Intro":
			intro = n
		case "A":
			a = n
		}
	}

	body := Body([]byte(content), intro, []Node{a})
	if strings.Contains(body, "child text") {
		t.Fatalf("body should exclude child span, got %q", body)
	}
	if !strings.Contains(body, "parent text") {
		t.Fatalf("body should include parent's own text, got %q", body)
	}
}
