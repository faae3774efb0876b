package review

import (
	"context"
	"io"
)

// ExportService packages a project's mockups for download
type ExportService interface {
	// ExportProject writes a ZIP archive of every attached image to w
	ExportProject(ctx context.Context, projectID string, w io.Writer) error
}
