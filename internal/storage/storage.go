package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const stampLayout = "20060102T150405Z"

// ReportStore provides a file-based storage for rendered HTML reports.
type ReportStore struct {
	basePath string
}

// NewReportStore creates a new ReportStore and ensures the base directory exists.
func NewReportStore(basePath string) (*ReportStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &ReportStore{basePath: basePath}, nil
}

// Path returns the full path for a given report ID and generation time.
func (s *ReportStore) Path(reportID string, generatedAt time.Time) string {
	filename := fmt.Sprintf("%s_%s.html", reportID, generatedAt.UTC().Format(stampLayout))
	return filepath.Join(s.basePath, filename)
}

// Save writes a rendered report and returns the file path. Older versions of
// the same report are removed so only the latest exists.
func (s *ReportStore) Save(reportID string, generatedAt time.Time, html []byte) (string, error) {
	if err := s.Remove(reportID); err != nil {
		return "", err
	}

	filePath := s.Path(reportID, generatedAt)
	if err := os.WriteFile(filePath, html, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return filePath, nil
}

// Load reads a stored report back.
func (s *ReportStore) Load(reportID string, generatedAt time.Time) ([]byte, error) {
	data, err := os.ReadFile(s.Path(reportID, generatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}
	return data, nil
}

// Exists checks if a report file exists.
func (s *ReportStore) Exists(reportID string, generatedAt time.Time) bool {
	_, err := os.Stat(s.Path(reportID, generatedAt))
	return !os.IsNotExist(err)
}

// Remove deletes every file written for reportID.
func (s *ReportStore) Remove(reportID string) error {
	pattern := filepath.Join(s.basePath, fmt.Sprintf("%s_*.html", reportID))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("failed to glob report files: %w", err)
	}

	for _, match := range matches {
		if err := os.Remove(match); err != nil {
			return fmt.Errorf("failed to remove report file %s: %w", match, err)
		}
	}
	return nil
}
