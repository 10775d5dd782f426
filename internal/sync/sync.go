// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sync runs the batch pipeline: each selected note is
// transformed, its images copied, and the result written to the site
// tree. Documents are processed sequentially and failures are isolated
// per document.
// See docs/ARCHITECTURE § Pipeline.
package sync

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/pdiddy/vault-sync/internal/images"
	"github.com/pdiddy/vault-sync/internal/transform"
	"github.com/pdiddy/vault-sync/internal/vault"
	"github.com/pdiddy/vault-sync/pkg/types"
)

// Syncer converts selected notes from a vault into the site tree.
type Syncer struct {
	cfg   types.SyncConfig
	vault *vault.Vault

	// DryRun performs the full transform but writes nothing.
	DryRun bool
}

// New returns a Syncer for cfg operating on v.
func New(cfg types.SyncConfig, v *vault.Vault) *Syncer {
	return &Syncer{cfg: cfg, vault: v}
}

// DocumentResult records the outcome of syncing one note.
type DocumentResult struct {
	Name       string               `json:"name" yaml:"name"`
	Status     types.DocumentStatus `json:"status" yaml:"status"`
	OutputPath string               `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Images     int                  `json:"images" yaml:"images"`
	Error      string               `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary is the batch outcome.
type Summary struct {
	Synced    int
	Failed    int
	Documents []DocumentResult
}

// Total returns the number of documents processed.
func (s Summary) Total() int {
	return s.Synced + s.Failed
}

// HasFailures reports whether any document failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Message renders the user-facing batch outcome: the tally, plus one
// "name: message" line per failed document.
func (s Summary) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Synced %d of %d note(s)", s.Synced, s.Total())
	if !s.HasFailures() {
		return b.String()
	}
	fmt.Fprintf(&b, ", %d failed:", s.Failed)
	for _, d := range s.Documents {
		if d.Status == types.StatusFailed {
			fmt.Fprintf(&b, "\n  %s: %s", d.Name, d.Error)
		}
	}
	return b.String()
}

// SyncAll processes notes in selection order, printing per-file status
// lines to w. A failure in one note never aborts the batch.
func (s *Syncer) SyncAll(relPaths []string, w io.Writer) Summary {
	var sum Summary
	for _, rel := range relPaths {
		res := s.syncOne(rel)
		sum.Documents = append(sum.Documents, res)
		switch res.Status {
		case types.StatusFailed:
			sum.Failed++
			fmt.Fprintf(w, "failed:  %s (%s)\n", res.Name, res.Error)
		case types.StatusDryRun:
			sum.Synced++
			fmt.Fprintf(w, "would sync: %s -> %s (%d images)\n", res.Name, res.OutputPath, res.Images)
		default:
			sum.Synced++
			fmt.Fprintf(w, "synced:  %s -> %s (%d images)\n", res.Name, res.OutputPath, res.Images)
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d synced, %d failed (total: %d)\n",
		sum.Synced, sum.Failed, sum.Total())
	return sum
}

// syncOne converts a single note: transform, image copies, then the
// document write. Any error fails only this note.
func (s *Syncer) syncOne(rel string) DocumentResult {
	name := filepath.Base(rel)
	res := DocumentResult{Name: name}

	content, err := s.vault.ReadNote(rel)
	if err != nil {
		res.Status = types.StatusFailed
		res.Error = err.Error()
		return res
	}

	body, seedTags := stripGenerated(content)

	rw := images.NewResolver(s.cfg, s.vault, s.vault.Base(), rel)
	tr := transform.New(s.cfg, rw)
	tr.SeedTags = seedTags
	conv := tr.Convert(body, name)

	res.OutputPath = OutputPath(s.cfg, name)
	res.Images = len(conv.Images)

	if s.DryRun {
		res.Status = types.StatusDryRun
		return res
	}

	if err := images.CopyAll(conv.Images); err != nil {
		res.Status = types.StatusFailed
		res.Error = err.Error()
		return res
	}

	if err := os.MkdirAll(filepath.Dir(res.OutputPath), 0o755); err != nil {
		res.Status = types.StatusFailed
		res.Error = fmt.Sprintf("creating output directory: %v", err)
		return res
	}
	if err := os.WriteFile(res.OutputPath, []byte(conv.Output), 0o644); err != nil {
		res.Status = types.StatusFailed
		res.Error = fmt.Sprintf("writing output: %v", err)
		return res
	}

	res.Status = types.StatusSynced
	return res
}

// OutputPath computes the document destination for fileName. Colocated
// layout gives each note its own directory with an index file.
func OutputPath(cfg types.SyncConfig, fileName string) string {
	if cfg.Layout == types.LayoutColocated {
		ext := filepath.Ext(fileName)
		title := strings.TrimSuffix(fileName, ext)
		return filepath.Join(cfg.OutputDir, cfg.ContentSubDir, title, "index"+ext)
	}
	return filepath.Join(cfg.OutputDir, cfg.ContentSubDir, fileName)
}

// generatedMeta is the subset of generated front matter consulted when
// re-syncing already-converted output.
type generatedMeta struct {
	Title string   `yaml:"title"`
	Date  string   `yaml:"date"`
	Draft *bool    `yaml:"draft"`
	Tags  []string `yaml:"tags"`
}

// stripGenerated detects front matter previously produced by this tool
// (title, date and draft all present) and removes it, returning the
// remaining body and the recorded tags so a re-sync regenerates the
// block instead of stacking a second one. Anything else, including
// hand-written front matter, passes through untouched.
func stripGenerated(content string) (string, []string) {
	if !strings.HasPrefix(content, "---\n") {
		return content, nil
	}
	var meta generatedMeta
	rest, err := frontmatter.Parse(strings.NewReader(content), &meta)
	if err != nil || meta.Title == "" || meta.Date == "" || meta.Draft == nil {
		return content, nil
	}
	return string(rest), meta.Tags
}
