package repository

import (
	"context"

	"github.com/user/listing-collector/internal/entity"
)

// ExporterRepository turns a finished run into output artifacts.
type ExporterRepository interface {
	Export(ctx context.Context, report *entity.RunReport, outputDir string) (entity.Artifacts, error)
}
