// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sync

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/vault-sync/pkg/types"
)

// ReportFile is the on-disk record of a sync run: the effective
// settings, per-document outcomes, and a timestamped summary. A
// researcher can diff reports across runs without re-reading the site
// tree.
type ReportFile struct {
	Config    types.SyncConfig `yaml:"config"`
	Documents []DocumentResult `yaml:"documents"`
	Summary   ReportSummary    `yaml:"summary"`
}

// ReportSummary stores batch statistics and a timestamp.
type ReportSummary struct {
	Synced    int       `yaml:"synced"`
	Failed    int       `yaml:"failed"`
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteReport saves a run report to a YAML file.
func WriteReport(path string, cfg types.SyncConfig, sum Summary) error {
	rf := ReportFile{
		Config:    cfg,
		Documents: sum.Documents,
		Summary: ReportSummary{
			Synced:    sum.Synced,
			Failed:    sum.Failed,
			Total:     sum.Total(),
			Timestamp: time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(rf)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// ReadReport loads a previously written run report.
func ReadReport(path string) (*ReportFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report %s: %w", path, err)
	}
	var rf ReportFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &rf, nil
}
