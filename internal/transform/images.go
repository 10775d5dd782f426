// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/vault-sync/pkg/types"
)

var (
	headerPattern    = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	inlineTagPattern = regexp.MustCompile(`#[^\s#]+`)

	// bracketImagePattern matches ![alt](path.ext) for image extensions.
	bracketImagePattern = regexp.MustCompile(fmt.Sprintf(`!\[([^\]]*)\]\(([^)]+\.(?i:%s))\)`, imageExts))

	// embedImagePattern matches ![[path.ext]] and ![[path.ext|alias]].
	embedImagePattern = regexp.MustCompile(fmt.Sprintf(`!\[\[([^\]|]+\.(?i:%s))(?:\|[^\]]*)?\]\]`, imageExts))

	// webSchemePattern matches references to remote resources, which are
	// never copied or rewritten.
	webSchemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
)

// imageMatch locates one image reference within a line.
type imageMatch struct {
	start, end int
	embed      bool
}

// rewriteImages scans one line for bracket-image and embed-image
// references, processing them in line-position order so the instruction
// list comes out in the order the references appeared. Every local,
// resolvable reference is rewritten to its new site-relative link and
// its copy instruction appended to images. The second return reports
// whether the line contained any image reference at all; such lines get
// no tag handling.
func (t *Transformer) rewriteImages(line string, images *[]types.ImageCopyInstruction) (string, bool) {
	var matches []imageMatch
	for _, m := range bracketImagePattern.FindAllStringIndex(line, -1) {
		matches = append(matches, imageMatch{start: m[0], end: m[1]})
	}
	for _, m := range embedImagePattern.FindAllStringIndex(line, -1) {
		matches = append(matches, imageMatch{start: m[0], end: m[1], embed: true})
	}
	if len(matches) == 0 {
		return line, false
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(line[last:m.start])
		b.WriteString(t.rewriteMatch(line[m.start:m.end], m.embed, images))
		last = m.end
	}
	b.WriteString(line[last:])
	return b.String(), true
}

// rewriteMatch rewrites a single matched reference, or returns it
// unchanged when the source cannot be resolved. Embed syntax becomes
// bracket syntax with the reference's base name as alt text; bracket
// syntax keeps its alt text.
func (t *Transformer) rewriteMatch(match string, embed bool, images *[]types.ImageCopyInstruction) string {
	if embed {
		m := embedImagePattern.FindStringSubmatch(match)
		inst, ok := t.resolve(m[1], true)
		if !ok {
			return match
		}
		*images = append(*images, inst)
		alt := strings.TrimSuffix(path.Base(m[1]), path.Ext(m[1]))
		return fmt.Sprintf("![%s](%s)", alt, inst.Link)
	}
	m := bracketImagePattern.FindStringSubmatch(match)
	inst, ok := t.resolve(m[2], false)
	if !ok {
		return match
	}
	*images = append(*images, inst)
	return fmt.Sprintf("![%s](%s)", m[1], inst.Link)
}

// resolve delegates a local image reference to the configured rewriter.
// Remote references and unresolvable sources are left untouched.
func (t *Transformer) resolve(ref string, embed bool) (types.ImageCopyInstruction, bool) {
	if t.images == nil || webSchemePattern.MatchString(ref) {
		return types.ImageCopyInstruction{}, false
	}
	return t.images.Rewrite(ref, embed)
}
