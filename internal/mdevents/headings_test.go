package mdevents

import "testing"

func TestExtractHeadingsBasic(t *testing.T) {
	content := []byte("# Intro\n## A\ntext\n## B\ntext\n")
	events := ExtractHeadings(content)

	if len(events) != 3 {
		t.Fatalf("expected 3 headings, got %d: %+v", len(events), events)
	}
	if events[0].Text != "Intro" || events[0].Level != 1 {
		t.Fatalf("unexpected first heading: %+v", events[0])
	}
	if events[1].Text != "A" || events[1].Level != 2 {
		t.Fatalf("unexpected second heading: %+v", events[1])
	}

	// Spans must begin strictly after the heading line.
	if string(content[events[0].LineEnd:events[0].LineEnd+1]) == "#" {
		t.Fatalf("LineEnd should be past the heading line, got body starting %q",
			content[events[0].LineEnd:])
	}
}

func TestExtractHeadingsIncludesInlineCode(t *testing.T) {
	content := []byte("## Using `foo()`\ntext\n")
	events := ExtractHeadings(content)
	if len(events) != 1 {
		t.Fatalf("expected 1 heading, got %d", len(events))
	}
	if events[0].Text != "Using foo()" {
		t.Fatalf("heading text = %q, want inline code text included", events[0].Text)
	}
}

func TestParseFrontmatterTitleAndTags(t *testing.T) {
	content := []byte("---\ntitle: My Doc\ntags: [a, b]\n---\nbody here\n")
	fm, body, err := ParseFrontmatter(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fm == nil || fm.Title != "My Doc" {
		t.Fatalf("unexpected frontmatter: %+v", fm)
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "a" || fm.Tags[1] != "b" {
		t.Fatalf("unexpected tags: %v", fm.Tags)
	}
	if string(body) != "body here\n" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestParseFrontmatterAbsent(t *testing.T) {
	content := []byte("# just a heading\n")
	fm, body, err := ParseFrontmatter(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fm != nil {
		t.Fatalf("expected nil frontmatter, got %+v", fm)
	}
	if string(body) != string(content) {
		t.Fatalf("expected body unchanged")
	}
}
