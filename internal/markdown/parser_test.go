package markdown

import (
	"strings"
	"testing"
)

func TestParseRendersGFM(t *testing.T) {
	parser := NewGoldmarkParser()

	out, err := parser.Parse([]byte("# Heading\n\nSome ~~old~~ **new** text"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rendered := string(out)
	if !strings.Contains(rendered, "<h1") || !strings.Contains(rendered, "<del>old</del>") {
		t.Fatalf("unexpected render output: %s", rendered)
	}
}

func TestParseFrontMatterSplitsMetaAndBody(t *testing.T) {
	source := []byte(`---
title: Future Of Energy
summary: Where the grid is heading
category: Technology
draft: false
---
Body of the post.
`)

	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("parse frontmatter: %v", err)
	}
	if meta.Title != "Future Of Energy" || meta.Category != "Technology" {
		t.Fatalf("unexpected meta %#v", meta)
	}
	if strings.TrimSpace(string(body)) != "Body of the post." {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestParseFrontMatterRejectsMalformedDelimiters(t *testing.T) {
	if _, _, err := ParseFrontMatter([]byte("---\ntitle: Broken\nBody without closing delimiter")); err == nil {
		t.Fatal("expected error for unterminated frontmatter")
	}
}
