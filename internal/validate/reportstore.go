package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// reportPrefix and the timestamp layout encode generation time in the
// filename, which is also the recency ordering.
const (
	reportPrefix     = "validation_report_"
	reportTimeLayout = "20060102_150405"
)

// ReportStore persists validation reports as immutable JSON artifacts in
// one directory. The newest filename is the latest report.
type ReportStore struct {
	dir string
}

// NewReportStore creates a store rooted at dir, creating it if needed.
func NewReportStore(dir string) (*ReportStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return &ReportStore{dir: dir}, nil
}

// Save writes the report and returns the artifact path.
// Reports are never rewritten: a name collision within the same second
// gets a uniquifying suffix from the report ID.
func (s *ReportStore) Save(r *Report) (string, error) {
	name := reportPrefix + r.GeneratedAt.Format(reportTimeLayout) + ".json"
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		name = reportPrefix + r.GeneratedAt.Format(reportTimeLayout) + "_" + r.ID.String()[:8] + ".json"
		path = filepath.Join(s.dir, name)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// Latest returns the most recent report, or nil if none exist.
func (s *ReportStore) Latest() (*Report, error) {
	reports, err := s.History(1)
	if err != nil || len(reports) == 0 {
		return nil, err
	}
	return reports[0], nil
}

// History returns up to n reports, newest first.
func (s *ReportStore) History(n int) ([]*Report, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read report dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), reportPrefix) && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	if n > 0 && len(names) > n {
		names = names[:n]
	}

	reports := make([]*Report, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("read report %s: %w", name, err)
		}
		var r Report
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode report %s: %w", name, err)
		}
		reports = append(reports, &r)
	}
	return reports, nil
}
