// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"testing"
)

func TestSyncConfigValidate(t *testing.T) {
	valid := SyncConfig{
		VaultDir:  "/vault",
		OutputDir: "/site",
		Layout:    LayoutCentralized,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	var empty SyncConfig
	err := empty.Validate()
	if err == nil {
		t.Fatal("empty config should be rejected")
	}
	// All problems are reported at once.
	for _, want := range []string{"vault_dir", "output_dir", "layout"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}

	bad := valid
	bad.DescriptionLines = -1
	if err := bad.Validate(); err == nil {
		t.Error("negative description_lines should be rejected")
	}
}
