package daily

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// SnapshotStore persists the merged day records as a single pretty
// printed JSON array. A write replaces the whole file; there are no
// incremental updates.
type SnapshotStore struct {
	Path string
}

func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{Path: path}
}

// Write atomically replaces the snapshot: the records are marshaled to a
// temp file first and renamed over the target, so a failed run never
// leaves a partial file behind.
func (s *SnapshotStore) Write(records []Record) error {
	recordsJson, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal day records: %w", err)
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmpPath := s.Path + ".tmp"
	if err := os.WriteFile(tmpPath, recordsJson, 0o644); err != nil {
		return fmt.Errorf("write snapshot temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("replace snapshot file: %w", err)
	}

	log.Debugf("wrote %d day records to %s", len(records), s.Path)
	return nil
}

func (s *SnapshotStore) Load() ([]Record, error) {
	snapshotBytes, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(snapshotBytes, &records); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return records, nil
}
