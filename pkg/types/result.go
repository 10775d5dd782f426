// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ImageCopyInstruction records one image file to copy into the site
// tree. The destination is fully decided when the instruction is
// created; the copier never renames.
type ImageCopyInstruction struct {
	// SourcePath is the absolute path of the image inside the vault.
	// It existed when the instruction was created.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// DestPath is the absolute path the image is copied to.
	DestPath string `json:"dest_path" yaml:"dest_path"`

	// FileName is the destination base name.
	FileName string `json:"file_name" yaml:"file_name"`

	// Link is the site-relative, percent-encoded path written into the
	// rewritten document ("/images/a%20b.png" or "./images/a%20b.png").
	Link string `json:"link" yaml:"link"`
}

// ConversionResult is the outcome of transforming one document.
type ConversionResult struct {
	// Output is the converted document text, front matter included.
	Output string

	// Images lists the copies needed to make Output's links resolve,
	// in the order the references appeared.
	Images []ImageCopyInstruction
}

// DocumentStatus classifies the outcome of syncing one document.
type DocumentStatus string

const (
	StatusSynced DocumentStatus = "synced"
	StatusFailed DocumentStatus = "failed"
	StatusDryRun DocumentStatus = "dry-run"
)
