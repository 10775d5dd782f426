// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package images resolves in-document image references to vault files
// and copies them into the site tree.
// See docs/ARCHITECTURE § Images.
package images

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/vault-sync/pkg/types"
)

// imagesDir is the subdirectory images are copied into under both
// layout modes.
const imagesDir = "images"

// LinkResolver maps an embed-style reference plus the directory of the
// referencing document to a vault-relative path.
type LinkResolver interface {
	ResolveEmbed(ref, fromDir string) (string, bool)
}

// Resolver builds copy instructions for one document's image
// references. It implements transform.ImageRewriter.
type Resolver struct {
	cfg    types.SyncConfig
	links  LinkResolver
	base   string // absolute vault base directory
	docDir string // vault-relative directory of the document
	title  string
	now    func() time.Time
}

// NewResolver returns a Resolver for the document at docRelPath inside
// the vault rooted at base.
func NewResolver(cfg types.SyncConfig, links LinkResolver, base, docRelPath string) *Resolver {
	fileName := filepath.Base(docRelPath)
	return &Resolver{
		cfg:    cfg,
		links:  links,
		base:   base,
		docDir: filepath.Dir(docRelPath),
		title:  strings.TrimSuffix(fileName, ".md"),
		now:    time.Now,
	}
}

// Rewrite resolves ref to an existing vault file and returns its copy
// instruction. Sources that cannot be resolved, or do not exist, return
// false: the reference is left untouched in the document.
func (r *Resolver) Rewrite(ref string, embed bool) (types.ImageCopyInstruction, bool) {
	src, ok := r.resolveSource(ref, embed)
	if !ok {
		return types.ImageCopyInstruction{}, false
	}
	if _, err := os.Stat(src); err != nil {
		return types.ImageCopyInstruction{}, false
	}

	name := r.destName(src)
	dest, link := r.destination(name)
	return types.ImageCopyInstruction{
		SourcePath: src,
		DestPath:   dest,
		FileName:   name,
		Link:       link,
	}, true
}

// resolveSource turns a raw reference into an absolute candidate path.
// Embed references go through the link resolver; a leading slash means
// vault-rooted; anything else is relative to the document's directory.
func (r *Resolver) resolveSource(ref string, embed bool) (string, bool) {
	if embed {
		if r.links == nil {
			return "", false
		}
		rel, ok := r.links.ResolveEmbed(ref, r.docDir)
		if !ok {
			return "", false
		}
		return filepath.Join(r.base, rel), true
	}
	if strings.HasPrefix(ref, "/") {
		return filepath.Join(r.base, strings.TrimPrefix(ref, "/")), true
	}
	return filepath.Join(r.base, r.docDir, ref), true
}

// destName keeps the original base name. With TimestampNames set, a
// timestamp goes between name and extension.
func (r *Resolver) destName(src string) string {
	name := filepath.Base(src)
	if !r.cfg.TimestampNames {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return stem + "-" + r.now().Format("20060102150405") + ext
}

// destination computes the absolute copy target and the site-relative
// link for name under the configured layout. Link segments are
// percent-encoded individually and always use forward slashes.
func (r *Resolver) destination(name string) (dest, link string) {
	if r.cfg.Layout == types.LayoutCentralized {
		dest = filepath.Join(r.cfg.OutputDir, r.cfg.StaticSubDir, imagesDir, name)
		link = "/" + imagesDir + "/" + url.PathEscape(name)
		return dest, link
	}
	dest = filepath.Join(r.cfg.OutputDir, r.cfg.ContentSubDir, r.title, imagesDir, name)
	link = "./" + imagesDir + "/" + url.PathEscape(name)
	return dest, link
}
