package blogscmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/magvolt/sitecms/internal/blogs"
)

func writePost(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write post: %v", err)
	}
}

const samplePost = `---
title: Future Of Energy
summary: Where the grid is heading
category: Technology
---
Long form body.
`

func TestImportCreatesPosts(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "future.md", samplePost)
	writePost(t, dir, "notes.txt", "not markdown")

	repo := blogs.NewMemoryBlogRepository()
	handler := NewImportHandler(repo, nil)

	if err := handler.Execute(context.Background(), ImportCommand{Dir: dir}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	records, err := repo.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 imported post, got %d", len(records))
	}
	if records[0].Slug != "future-of-energy" || records[0].TitleLower != "future of energy" {
		t.Fatalf("unexpected record %#v", records[0])
	}
}

func TestImportIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "future.md", samplePost)

	repo := blogs.NewMemoryBlogRepository()
	handler := NewImportHandler(repo, nil)
	ctx := context.Background()

	if err := handler.Execute(ctx, ImportCommand{Dir: dir}); err != nil {
		t.Fatalf("first import: %v", err)
	}
	if err := handler.Execute(ctx, ImportCommand{Dir: dir}); err != nil {
		t.Fatalf("second import: %v", err)
	}

	records, _ := repo.FetchAll(ctx)
	if len(records) != 1 {
		t.Fatalf("re-import duplicated posts: %d records", len(records))
	}
}

func TestImportSkipsDrafts(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "draft.md", `---
title: Not Ready
draft: true
---
wip
`)

	repo := blogs.NewMemoryBlogRepository()
	handler := NewImportHandler(repo, nil)

	if err := handler.Execute(context.Background(), ImportCommand{Dir: dir}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	records, _ := repo.FetchAll(context.Background())
	if len(records) != 0 {
		t.Fatalf("draft should not be imported, got %d records", len(records))
	}
}

func TestImportDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "future.md", samplePost)

	repo := blogs.NewMemoryBlogRepository()
	handler := NewImportHandler(repo, nil)

	if err := handler.Execute(context.Background(), ImportCommand{Dir: dir, DryRun: true}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	records, _ := repo.FetchAll(context.Background())
	if len(records) != 0 {
		t.Fatalf("dry run should not write, got %d records", len(records))
	}
}

func TestImportRequiresDir(t *testing.T) {
	handler := NewImportHandler(blogs.NewMemoryBlogRepository(), nil)

	if err := handler.Execute(context.Background(), ImportCommand{}); err == nil {
		t.Fatal("expected validation error for missing dir")
	}
}
