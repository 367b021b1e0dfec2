package archive

import (
	"context"

	"github.com/firedintern/meta-fgi/internal/hindsight"
)

// Store persists backtest report artifacts.
type Store interface {
	// SaveReport writes a report under its derived filename and returns
	// the stored path.
	SaveReport(ctx context.Context, report *hindsight.Report) (string, error)

	// LoadReport reads a previously stored report by name.
	LoadReport(ctx context.Context, name string) (*hindsight.Report, error)

	// ListReports returns the names of all stored reports.
	ListReports(ctx context.Context) ([]string, error)

	// Delete removes a stored report.
	Delete(ctx context.Context, name string) error
}
