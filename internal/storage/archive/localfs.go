package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/firedintern/meta-fgi/internal/core"
	"github.com/firedintern/meta-fgi/internal/hindsight"
)

// LocalFS stores report artifacts on the local filesystem.
type LocalFS struct {
	basePath string
}

// NewLocalFS creates a local report store rooted at basePath.
func NewLocalFS(basePath string) (*LocalFS, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating base path: %w", err)
	}
	return &LocalFS{basePath: basePath}, nil
}

func (l *LocalFS) fullPath(name string) string {
	return filepath.Join(l.basePath, name)
}

// SaveReport writes the report as indented JSON under its derived name.
func (l *LocalFS) SaveReport(ctx context.Context, report *hindsight.Report) (string, error) {
	data, err := report.Encode()
	if err != nil {
		return "", core.WrapError(core.ErrStoreFailed, err)
	}

	name := report.Filename()
	if err := os.WriteFile(l.fullPath(name), data, 0644); err != nil {
		return "", core.WrapError(core.ErrStoreFailed, err)
	}
	return l.fullPath(name), nil
}

// LoadReport reads a stored report by name.
func (l *LocalFS) LoadReport(ctx context.Context, name string) (*hindsight.Report, error) {
	data, err := os.ReadFile(l.fullPath(name))
	if err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, err)
	}

	var report hindsight.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, err)
	}
	return &report, nil
}

// ListReports returns the names of all stored report files.
func (l *LocalFS) ListReports(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, core.WrapError(core.ErrStoreFailed, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Delete removes a stored report.
func (l *LocalFS) Delete(ctx context.Context, name string) error {
	if err := os.Remove(l.fullPath(name)); err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}
	return nil
}
