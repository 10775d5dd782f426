// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"strings"
	"testing"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/pdiddy/vault-sync/pkg/types"
)

// fakeRewriter implements ImageRewriter against a fixed link table.
type fakeRewriter struct {
	links map[string]string
}

func (f *fakeRewriter) Rewrite(ref string, embed bool) (types.ImageCopyInstruction, bool) {
	link, ok := f.links[ref]
	if !ok {
		return types.ImageCopyInstruction{}, false
	}
	return types.ImageCopyInstruction{
		SourcePath: "/vault/" + ref,
		DestPath:   "/site/static/images/" + ref,
		FileName:   ref,
		Link:       link,
	}, true
}

// newTransformer returns a Transformer with a frozen clock.
func newTransformer(cfg types.SyncConfig, rw ImageRewriter) *Transformer {
	t := New(cfg, rw)
	t.now = func() time.Time {
		return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	return t
}

func TestConvert_PlainDocument(t *testing.T) {
	tr := newTransformer(types.SyncConfig{}, nil)
	res := tr.Convert("\n\nHello world.\n\nSecond paragraph.\n\n", "note.md")

	want := `---
title: "note"
date: 2026-01-02T03:04:05Z
draft: false
tags: []
---

Hello world.

Second paragraph.
`
	if res.Output != want {
		t.Errorf("output = %q, want %q", res.Output, want)
	}
	if len(res.Images) != 0 {
		t.Errorf("expected no image instructions, got %d", len(res.Images))
	}
}

func TestConvert_FilteredHeaders(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantPresent []string
		wantAbsent  []string
	}{
		{
			name:        "filtered subtree removed",
			content:     "## Notes\ncontent\n## Next\nmore",
			wantPresent: []string{"more", "## Next"},
			wantAbsent:  []string{"content", "## Notes"},
		},
		{
			name:        "deeper headers stay inside the filter region",
			content:     "## Notes\n### Sub\nhidden\n## After\nvisible",
			wantPresent: []string{"visible", "## After"},
			wantAbsent:  []string{"hidden", "### Sub"},
		},
		{
			name:        "filtered header inside an active region is still dropped",
			content:     "## Notes\n## Notes\nhidden\n# Top\nkept",
			wantPresent: []string{"kept", "# Top"},
			wantAbsent:  []string{"hidden", "## Notes"},
		},
		{
			name:        "unlisted header passes through",
			content:     "## Ideas\nkept",
			wantPresent: []string{"## Ideas", "kept"},
		},
	}

	cfg := types.SyncConfig{FilteredHeaders: []string{"Notes"}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTransformer(cfg, nil).Convert(tt.content, "n.md")
			for _, s := range tt.wantPresent {
				if !strings.Contains(res.Output, s) {
					t.Errorf("output missing %q:\n%s", s, res.Output)
				}
			}
			for _, s := range tt.wantAbsent {
				if strings.Contains(res.Output, s) {
					t.Errorf("output should not contain %q:\n%s", s, res.Output)
				}
			}
		})
	}
}

func TestConvert_TagBlock(t *testing.T) {
	content := "tags:\n- foo\n- !!!\n- bar\nBody text."
	res := newTransformer(types.SyncConfig{}, nil).Convert(content, "n.md")

	if !strings.Contains(res.Output, `tags: ["foo", "bar"]`) {
		t.Errorf("tags line wrong:\n%s", res.Output)
	}
	if !strings.Contains(res.Output, "Body text.") {
		t.Error("block-exit line should fall through to the body")
	}
	if strings.Contains(res.Output, "!!!") {
		t.Error("symbol-only entry should be discarded")
	}
}

func TestConvert_InlineTags(t *testing.T) {
	content := "Intro #golang text #golang #!!!\n#only-tags #here\nplain line"
	res := newTransformer(types.SyncConfig{}, nil).Convert(content, "n.md")

	if !strings.Contains(res.Output, `tags: ["golang", "only-tags", "here"]`) {
		t.Errorf("tags line wrong:\n%s", res.Output)
	}
	if strings.Contains(res.Output, "#golang") {
		t.Error("tag tokens should be stripped from the body")
	}
	if !strings.Contains(res.Output, "Intro") || !strings.Contains(res.Output, "text") {
		t.Error("surrounding text should survive tag stripping")
	}
	// A line that was only tags is dropped entirely.
	for _, line := range strings.Split(res.Output, "\n") {
		if strings.TrimSpace(line) == "" && line != "" {
			t.Errorf("unexpected whitespace-only line %q", line)
		}
	}
	if !strings.Contains(res.Output, "plain line") {
		t.Error("untouched lines should pass through verbatim")
	}
}

func TestConvert_TagExtractionIdempotent(t *testing.T) {
	content := "tags:\n- foo\nBody #bar text"
	first := newTransformer(types.SyncConfig{}, nil).Convert(content, "n.md")

	second := newTransformer(types.SyncConfig{}, nil).Convert(first.Output, "n.md")
	if !strings.Contains(second.Output, "tags: []") {
		t.Errorf("re-converting converted output should find no tags:\n%s", second.Output)
	}
}

func TestConvert_SeedTags(t *testing.T) {
	tr := newTransformer(types.SyncConfig{}, nil)
	tr.SeedTags = []string{"carried", "dup"}
	res := tr.Convert("Body #dup #fresh", "n.md")

	if !strings.Contains(res.Output, `tags: ["carried", "dup", "fresh"]`) {
		t.Errorf("seed tags should lead the set without duplicates:\n%s", res.Output)
	}
}

func TestConvert_Description(t *testing.T) {
	cfg := types.SyncConfig{DescriptionLines: 2}
	res := newTransformer(cfg, nil).Convert("First line.\nSecond line.\nThird line.", "n.md")

	if !strings.Contains(res.Output, "description: First line.Second line.") {
		t.Errorf("description should join the first lines of the original input:\n%s", res.Output)
	}

	cfg.DescriptionMaxLength = 5
	res = newTransformer(cfg, nil).Convert("First line.\nSecond line.\n", "n.md")
	if !strings.Contains(res.Output, "description: First\n") {
		t.Errorf("description should be capped at the configured length:\n%s", res.Output)
	}
}

func TestConvert_RemoteImagesUntouched(t *testing.T) {
	rw := &fakeRewriter{links: map[string]string{"x.png": "/images/x.png"}}
	line := "![remote](http://example.com/x.png)"
	res := newTransformer(types.SyncConfig{}, rw).Convert(line, "n.md")

	if !strings.Contains(res.Output, line) {
		t.Errorf("remote image line should be unchanged:\n%s", res.Output)
	}
	if len(res.Images) != 0 {
		t.Errorf("remote images must not produce instructions, got %d", len(res.Images))
	}
}

func TestConvert_ImageRewriting(t *testing.T) {
	rw := &fakeRewriter{links: map[string]string{
		"a.png":       "/images/a.png",
		"pics/b.jpeg": "/images/b.jpeg",
	}}
	content := "![shot](a.png) and ![[pics/b.jpeg]]\n![gone](missing.png)"
	res := newTransformer(types.SyncConfig{}, rw).Convert(content, "n.md")

	if !strings.Contains(res.Output, "![shot](/images/a.png)") {
		t.Errorf("bracket image should keep its alt text:\n%s", res.Output)
	}
	if !strings.Contains(res.Output, "![b](/images/b.jpeg)") {
		t.Errorf("embed should become bracket syntax with base-name alt:\n%s", res.Output)
	}
	if !strings.Contains(res.Output, "![gone](missing.png)") {
		t.Errorf("unresolvable reference should stay untouched:\n%s", res.Output)
	}
	if len(res.Images) != 2 {
		t.Fatalf("instructions = %d, want 2", len(res.Images))
	}
	if res.Images[0].FileName != "a.png" || res.Images[1].FileName != "pics/b.jpeg" {
		t.Errorf("instructions out of order: %+v", res.Images)
	}
}

func TestConvert_ImageLineSkipsTagHandling(t *testing.T) {
	rw := &fakeRewriter{links: map[string]string{"a.png": "/images/a.png"}}
	res := newTransformer(types.SyncConfig{}, rw).Convert("![alt](a.png) #not-a-tag", "n.md")

	if !strings.Contains(res.Output, "#not-a-tag") {
		t.Error("tag handling must not run on an image line")
	}
	if strings.Contains(res.Output, `"not-a-tag"`) {
		t.Error("no tag should be extracted from an image line")
	}
}

func TestConvert_TagBlockSurvivesImageLine(t *testing.T) {
	rw := &fakeRewriter{links: map[string]string{"a.png": "/images/a.png"}}
	res := newTransformer(types.SyncConfig{}, rw).Convert("tags:\n![x](a.png)\n- foo\nbody", "n.md")

	if !strings.Contains(res.Output, `tags: ["foo"]`) {
		t.Errorf("list items after an image line should still be collected as tags, got:\n%s", res.Output)
	}
	if !strings.Contains(res.Output, "![x](/images/a.png)") {
		t.Error("image line inside a tag block should be rewritten and kept")
	}
	if strings.Contains(res.Output, "- foo") {
		t.Error("tag list item should not leak into the body")
	}
	if !strings.Contains(res.Output, "body") {
		t.Error("line after the tag block should stay in the body")
	}
}

func TestConvert_ImageOrderFollowsAppearance(t *testing.T) {
	rw := &fakeRewriter{links: map[string]string{
		"e.png": "/images/e.png",
		"b.png": "/images/b.png",
	}}
	res := newTransformer(types.SyncConfig{}, rw).Convert("![[e.png]] ![b](b.png)", "n.md")

	if len(res.Images) != 2 {
		t.Fatalf("expected 2 image instructions, got %d", len(res.Images))
	}
	if res.Images[0].FileName != "e.png" {
		t.Errorf("Images[0] = %q, want %q", res.Images[0].FileName, "e.png")
	}
	if res.Images[1].FileName != "b.png" {
		t.Errorf("Images[1] = %q, want %q", res.Images[1].FileName, "b.png")
	}
}

func TestConvert_FrontMatterFields(t *testing.T) {
	rw := &fakeRewriter{links: map[string]string{"cover.png": "/images/cover.png"}}
	cfg := types.SyncConfig{
		Author:              "P. Diddy",
		CoverFromFirstImage: true,
		DescriptionLines:    1,
	}
	res := newTransformer(cfg, rw).Convert("A note about tools.\n![[cover.png]]\n#tools", "n.md")

	var meta struct {
		Title       string   `yaml:"title"`
		Draft       bool     `yaml:"draft"`
		Tags        []string `yaml:"tags"`
		Description string   `yaml:"description"`
		Author      string   `yaml:"author"`
		Cover       string   `yaml:"cover"`
	}
	if _, err := frontmatter.Parse(strings.NewReader(res.Output), &meta); err != nil {
		t.Fatalf("emitted front matter should parse: %v", err)
	}
	if meta.Title != "n" {
		t.Errorf("title = %q, want %q", meta.Title, "n")
	}
	if meta.Draft {
		t.Error("draft should always be false")
	}
	if len(meta.Tags) != 1 || meta.Tags[0] != "tools" {
		t.Errorf("tags = %v, want [tools]", meta.Tags)
	}
	if meta.Description != "A note about tools." {
		t.Errorf("description = %q", meta.Description)
	}
	if meta.Author != "P. Diddy" {
		t.Errorf("author = %q", meta.Author)
	}
	if meta.Cover != "/images/cover.png" {
		t.Errorf("cover = %q, want first image link", meta.Cover)
	}
}

func TestConvert_OptionalFieldsOmitted(t *testing.T) {
	res := newTransformer(types.SyncConfig{}, nil).Convert("Body.", "n.md")
	for _, field := range []string{"description:", "author:", "cover:"} {
		if strings.Contains(res.Output, field) {
			t.Errorf("field %q should be omitted entirely:\n%s", field, res.Output)
		}
	}
}

func TestSymbolOnly(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"!!!", true},
		{"---", true},
		{"foo", false},
		{"f1", false},
		{"тег", false},
		{"", false},
		{"!bang!", false},
	}
	for _, tt := range tests {
		if got := symbolOnly(tt.in); got != tt.want {
			t.Errorf("symbolOnly(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
