package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/user/listing-collector/internal/entity"
	"github.com/user/listing-collector/internal/repository"
	"github.com/user/listing-collector/pkg/utils"
)

// FileExporter writes the spreadsheet and JSON manifest for a run into an
// output directory.
type FileExporter struct {
	now func() time.Time
}

// NewFileExporter creates a new instance of FileExporter.
func NewFileExporter() *FileExporter {
	return &FileExporter{now: time.Now}
}

// Export writes <base>_<timestamp>.xlsx and <base>_<timestamp>.json.
func (e *FileExporter) Export(ctx context.Context, report *entity.RunReport, outputDir string) (entity.Artifacts, error) {
	if err := ctx.Err(); err != nil {
		return entity.Artifacts{}, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return entity.Artifacts{}, fmt.Errorf("%w: creating output directory: %v", repository.ErrExportFailed, err)
	}

	now := e.now()
	stem := filepath.Join(outputDir, FileBase(report.CollectionName)+"_"+FileTimestamp(now))
	artifacts := entity.Artifacts{
		SpreadsheetPath: stem + ".xlsx",
		ManifestPath:    stem + ".json",
	}

	err := WriteSpreadsheet(artifacts.SpreadsheetPath, report.Items, SpreadsheetSummary{
		CollectionName: report.CollectionName,
		Collected:      len(report.Items),
		TotalAvailable: report.TotalAvailable,
		CollectedAt:    ISOTimestamp(now),
	})
	if err != nil {
		return entity.Artifacts{}, fmt.Errorf("%w: spreadsheet: %v", repository.ErrExportFailed, err)
	}
	slog.Info("Spreadsheet saved", "path", artifacts.SpreadsheetPath)

	brand, err := utils.LastPathSegment(report.SourceURL)
	if err != nil {
		slog.Warn("Could not derive brand from source URL", "url", report.SourceURL, "error", err)
	}
	urls := make([]string, 0, len(report.Items))
	for _, item := range report.Items {
		urls = append(urls, item.URL)
	}
	if err := WriteManifest(artifacts.ManifestPath, NewManifest(urls, report.SourceURL, brand)); err != nil {
		return entity.Artifacts{}, fmt.Errorf("%w: manifest: %v", repository.ErrExportFailed, err)
	}
	slog.Info("Manifest saved", "path", artifacts.ManifestPath)

	return artifacts, nil
}
