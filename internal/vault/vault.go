// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vault provides filesystem access to a wiki-style note vault:
// reading notes and resolving embed-style references by short name.
// See docs/ARCHITECTURE § Vault.
package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Vault is an opened note vault. The base-name index built at open time
// backs embed-reference resolution; a batch run works against a single
// immutable snapshot of the vault layout.
type Vault struct {
	base string
	// index maps lowercased base names to vault-relative paths.
	index map[string][]string
}

// Open walks the vault rooted at base and indexes its files by base
// name. Dot-directories (.obsidian, .git) are skipped.
func Open(base string) (*Vault, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolving vault path %s: %w", base, err)
	}

	v := &Vault{base: abs, index: make(map[string][]string)}

	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != abs && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(abs, p)
		if err != nil {
			return err
		}
		key := strings.ToLower(d.Name())
		v.index[key] = append(v.index[key], rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("indexing vault %s: %w", abs, err)
	}
	return v, nil
}

// Base returns the absolute vault root directory.
func (v *Vault) Base() string {
	return v.base
}

// ReadNote reads a note by vault-relative path.
func (v *Vault) ReadNote(rel string) (string, error) {
	data, err := os.ReadFile(filepath.Join(v.base, rel))
	if err != nil {
		return "", fmt.Errorf("reading note %s: %w", rel, err)
	}
	return string(data), nil
}

// Exists reports whether a vault-relative path names an existing file.
func (v *Vault) Exists(rel string) bool {
	_, err := os.Stat(filepath.Join(v.base, rel))
	return err == nil
}

// ResolveEmbed maps an embed reference to a vault-relative path.
// References carrying a path are tried against the vault root first;
// otherwise the base-name index decides, preferring a file in the
// referencing document's directory, then the shallowest match.
func (v *Vault) ResolveEmbed(ref, fromDir string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}

	if strings.Contains(ref, "/") {
		rel := filepath.FromSlash(ref)
		if v.Exists(rel) {
			return rel, true
		}
	}

	candidates := v.index[strings.ToLower(filepath.Base(filepath.FromSlash(ref)))]
	if len(candidates) == 0 {
		return "", false
	}

	var best string
	for _, c := range candidates {
		if filepath.Dir(c) == fromDir {
			return c, true
		}
		if best == "" || depth(c) < depth(best) {
			best = c
		}
	}
	return best, true
}

// depth counts path separators, used to rank embed candidates.
func depth(rel string) int {
	return strings.Count(rel, string(filepath.Separator))
}
