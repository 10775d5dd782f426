// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package images

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/vault-sync/pkg/types"
)

// Copy realizes one instruction. An already-present destination is
// skipped without touching it, so repeated runs never overwrite. The
// first return reports whether bytes were copied.
func Copy(inst types.ImageCopyInstruction) (bool, error) {
	if _, err := os.Stat(inst.DestPath); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(inst.DestPath), 0o755); err != nil {
		return false, fmt.Errorf("creating image directory: %w", err)
	}

	src, err := os.Open(inst.SourcePath)
	if err != nil {
		return false, fmt.Errorf("opening image %s: %w", inst.SourcePath, err)
	}
	defer src.Close()

	dst, err := os.Create(inst.DestPath)
	if err != nil {
		return false, fmt.Errorf("creating image %s: %w", inst.DestPath, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return false, fmt.Errorf("copying image %s: %w", inst.FileName, err)
	}
	if err := dst.Close(); err != nil {
		return false, fmt.Errorf("closing image %s: %w", inst.DestPath, err)
	}
	return true, nil
}

// CopyAll realizes instructions in order, stopping at the first error.
func CopyAll(instructions []types.ImageCopyInstruction) error {
	for _, inst := range instructions {
		if _, err := Copy(inst); err != nil {
			return err
		}
	}
	return nil
}
