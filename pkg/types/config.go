// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the settings and shared result types for vault-sync.
// See docs/ARCHITECTURE § Settings.
package types

import (
	"fmt"
	"strings"
)

// ImageLayout selects where copied images are placed in the site tree.
type ImageLayout string

const (
	// LayoutCentralized puts every image under {output}/{static}/images/.
	LayoutCentralized ImageLayout = "centralized"
	// LayoutColocated puts each document's images next to its index file,
	// under {output}/{content}/{title}/images/.
	LayoutColocated ImageLayout = "colocated"
)

// SyncConfig holds the settings for a sync run. Loaded from the config
// file and environment by viper, with command-line flags taking
// precedence. Immutable during a batch.
type SyncConfig struct {
	// VaultDir is the root directory of the note vault.
	VaultDir string `json:"vault_dir" yaml:"vault_dir"`

	// OutputDir is the root of the generated site source tree.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ContentSubDir is the sub-path under OutputDir for converted
	// documents (e.g. "content/posts").
	ContentSubDir string `json:"content_sub_dir" yaml:"content_sub_dir"`

	// StaticSubDir is the sub-path under OutputDir for shared static
	// assets, used by the centralized image layout (e.g. "static").
	StaticSubDir string `json:"static_sub_dir" yaml:"static_sub_dir"`

	// Layout selects the image placement mode: centralized or colocated.
	// Colocated mode also writes each document as {title}/index.md.
	Layout ImageLayout `json:"layout" yaml:"layout"`

	// FilteredHeaders lists header texts whose subtrees are removed from
	// the output. Matching is exact on the header text.
	FilteredHeaders []string `json:"filtered_headers" yaml:"filtered_headers"`

	// DescriptionLines is the number of leading lines of the original
	// note used as the front-matter description. Zero disables the field.
	DescriptionLines int `json:"description_lines" yaml:"description_lines"`

	// DescriptionMaxLength caps the description at this many runes.
	// Zero means no cap.
	DescriptionMaxLength int `json:"description_max_length" yaml:"description_max_length"`

	// CoverFromFirstImage emits the first rewritten image's link as the
	// front-matter cover value.
	CoverFromFirstImage bool `json:"cover_from_first_image" yaml:"cover_from_first_image"`

	// Author is emitted as the front-matter author when non-empty.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// TimestampNames appends a timestamp to copied image file names.
	// Off by default; older vault exports used this to avoid collisions.
	TimestampNames bool `json:"timestamp_names" yaml:"timestamp_names"`
}

// Validate reports configuration problems that would make a sync run
// meaningless. It accumulates all issues rather than stopping at the first.
func (c SyncConfig) Validate() error {
	var issues []string
	if c.VaultDir == "" {
		issues = append(issues, "vault_dir is required")
	}
	if c.OutputDir == "" {
		issues = append(issues, "output_dir is required")
	}
	switch c.Layout {
	case LayoutCentralized, LayoutColocated:
	default:
		issues = append(issues, fmt.Sprintf("layout %q: use centralized or colocated", c.Layout))
	}
	if c.DescriptionLines < 0 {
		issues = append(issues, "description_lines must not be negative")
	}
	if c.DescriptionMaxLength < 0 {
		issues = append(issues, "description_max_length must not be negative")
	}
	if len(issues) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(issues, "; "))
	}
	return nil
}

// HistoryConfig holds settings for the run-history store.
type HistoryConfig struct {
	// DataDir is the directory holding history.db. Empty disables
	// history recording.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxRuns is the default maximum number of runs listed (default 20).
	MaxRuns int `json:"max_runs" yaml:"max_runs"`
}
