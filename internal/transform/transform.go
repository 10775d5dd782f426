// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transform converts wiki-style note text into site content:
// it synthesizes YAML front matter, extracts tags from three syntaxes,
// filters configured header subtrees, and rewrites image references
// through an injected ImageRewriter.
// See docs/ARCHITECTURE § Transformer.
package transform

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/pdiddy/vault-sync/pkg/types"
)

// imageExts is the extension alternation shared by both image patterns.
const imageExts = `png|jpg|jpeg|gif|webp|svg`

// ImageRewriter resolves a raw image reference from a document into a
// copy instruction and the new link path. The second return is false
// when the reference cannot be resolved (remote URL handling is done
// by the transformer itself; the rewriter only sees local candidates).
type ImageRewriter interface {
	Rewrite(ref string, embed bool) (types.ImageCopyInstruction, bool)
}

// Transformer converts one document at a time. It performs no I/O
// itself; image resolution goes through the ImageRewriter.
type Transformer struct {
	cfg    types.SyncConfig
	images ImageRewriter
	now    func() time.Time

	// SeedTags are pre-extracted tags placed ahead of any tags found in
	// the content, with the same set semantics. Used when re-syncing a
	// note that already carries generated front matter.
	SeedTags []string
}

// New returns a Transformer for cfg. rw may be nil, in which case image
// references pass through unchanged.
func New(cfg types.SyncConfig, rw ImageRewriter) *Transformer {
	return &Transformer{cfg: cfg, images: rw, now: time.Now}
}

// scanState threads the line-scanner state through the document.
type scanState struct {
	headerLevel int
	skipping    bool
	inTagBlock  bool
}

// Convert transforms content into site content text plus the image
// copies that text depends on. It never fails: unmatched markup passes
// through unchanged.
func (t *Transformer) Convert(content, fileName string) types.ConversionResult {
	title := strings.TrimSuffix(fileName, ".md")

	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")

	var (
		st     scanState
		body   []string
		tags   []string
		seen   = map[string]bool{}
		images []types.ImageCopyInstruction
	)

	addTag := func(tag string) {
		if tag == "" || symbolOnly(tag) || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	for _, tag := range t.SeedTags {
		addTag(tag)
	}

	for _, raw := range lines {
		trimmed := strings.TrimSpace(raw)

		// Header-gated filtering. A same-or-shallower header ends an
		// active filter region; a listed header starts one and is
		// itself dropped.
		if level, text, ok := parseHeader(trimmed); ok {
			if level <= st.headerLevel {
				st.skipping = false
			}
			st.headerLevel = level
			if t.filteredHeader(text) {
				st.skipping = true
				continue
			}
		}

		if st.skipping {
			continue
		}

		// Image references. A line with any image match is emitted as
		// rewritten and gets no tag handling; an active tag block is
		// suppressed only for this line, not exited.
		if line, found := t.rewriteImages(raw, &images); found {
			body = append(body, line)
			continue
		}

		// Tag block: "tags:" marker starts it, list items feed it, the
		// first non-list line exits it and falls through below.
		if trimmed == "tags:" {
			st.inTagBlock = true
			continue
		}
		if st.inTagBlock {
			if strings.HasPrefix(trimmed, "-") {
				addTag(strings.TrimSpace(trimmed[1:]))
				continue
			}
			st.inTagBlock = false
		}

		// Standalone inline #tags.
		if matches := inlineTagPattern.FindAllString(trimmed, -1); matches != nil {
			for _, m := range matches {
				addTag(strings.TrimPrefix(m, "#"))
			}
			stripped := strings.TrimSpace(inlineTagPattern.ReplaceAllString(trimmed, ""))
			if stripped != "" {
				body = append(body, stripped)
			}
			continue
		}

		body = append(body, raw)
	}

	out := t.frontMatter(title, content, tags, images)
	out += "\n" + trimBlankEdges(body) + "\n"

	return types.ConversionResult{Output: out, Images: images}
}

// filteredHeader reports whether text exactly matches a configured
// filtered header.
func (t *Transformer) filteredHeader(text string) bool {
	for _, h := range t.cfg.FilteredHeaders {
		if text == h {
			return true
		}
	}
	return false
}

// frontMatter builds the fixed-order metadata block. Optional fields
// are omitted entirely when their trigger condition is false.
func (t *Transformer) frontMatter(title, original string, tags []string, images []types.ImageCopyInstruction) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %q\n", title)
	fmt.Fprintf(&b, "date: %s\n", t.now().Format(time.RFC3339))
	b.WriteString("draft: false\n")

	quoted := make([]string, len(tags))
	for i, tag := range tags {
		quoted[i] = fmt.Sprintf("%q", tag)
	}
	fmt.Fprintf(&b, "tags: [%s]\n", strings.Join(quoted, ", "))

	if desc := t.description(original); desc != "" {
		fmt.Fprintf(&b, "description: %s\n", desc)
	}
	if t.cfg.Author != "" {
		fmt.Fprintf(&b, "author: %s\n", t.cfg.Author)
	}
	if t.cfg.CoverFromFirstImage && len(images) > 0 {
		fmt.Fprintf(&b, "cover: %s\n", images[0].Link)
	}
	b.WriteString("---\n")
	return b.String()
}

// description takes the first configured number of lines of the
// original text, joined and trimmed, capped at DescriptionMaxLength
// runes when a cap is set.
func (t *Transformer) description(original string) string {
	n := t.cfg.DescriptionLines
	if n <= 0 {
		return ""
	}
	lines := strings.Split(original, "\n")
	if n > len(lines) {
		n = len(lines)
	}
	desc := strings.TrimSpace(strings.Join(lines[:n], ""))
	if max := t.cfg.DescriptionMaxLength; max > 0 {
		if runes := []rune(desc); len(runes) > max {
			desc = string(runes[:max])
		}
	}
	return desc
}

// symbolOnly reports whether s is non-empty and contains no letters or
// digits. Such tokens are list noise, not tags.
func symbolOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// parseHeader splits a trimmed line into its marker-run level and
// header text. Lines like "#tag" (no space after the marker run) are
// not headers.
func parseHeader(trimmed string) (level int, text string, ok bool) {
	m := headerPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return 0, "", false
	}
	return len(m[1]), strings.TrimSpace(m[2]), true
}

// trimBlankEdges joins lines, dropping leading and trailing blank lines
// but preserving interior paragraph breaks.
func trimBlankEdges(lines []string) string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
