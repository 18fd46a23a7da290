package export

import (
	"fmt"

	"github.com/sadopc/workpulse/internal/report"
)

// WriteReport writes the markdown rendering of r.
func WriteReport(r *report.Report, path string) error {
	if err := writeFile(path, []byte(r.Markdown())); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
