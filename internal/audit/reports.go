package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ReportStore persists scan reports as JSON files, one file per run.
type ReportStore struct {
	Dir string
}

func NewReportStore(dir string) *ReportStore {
	return &ReportStore{Dir: dir}
}

// SaveReport saves the provided report as JSON under a UUID4 filename
// and returns the filename.
func (rs *ReportStore) SaveReport(report any) (string, error) {
	if err := rs.ensureDir(); err != nil {
		return "", fmt.Errorf("failed to ensure report directory: %w", err)
	}

	filename := fmt.Sprintf("%s.json", uuid.New().String())
	path := filepath.Join(rs.Dir, filename)

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	log.Printf("Saved scan report: %s", path)
	return filename, nil
}

// ensureDir creates the report directory if it doesn't exist
func (rs *ReportStore) ensureDir() error {
	if _, err := os.Stat(rs.Dir); os.IsNotExist(err) {
		if err := os.MkdirAll(rs.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	return nil
}
