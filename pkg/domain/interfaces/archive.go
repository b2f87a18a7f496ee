package interfaces

import (
	"context"

	"github.com/m-mizutani/srafetch/pkg/domain/model"
)

// ArchiveClient resolves project accessions through the archive metadata service
type ArchiveClient interface {
	// ListRuns returns the runinfo table of a project, one record per run in
	// archive order. An unknown project yields an empty table.
	ListRuns(ctx context.Context, project model.ProjectAccession) (*model.RunInfo, error)
}

// Fetcher downloads one run into a destination directory using the external
// download utility. It blocks until the utility exits.
type Fetcher interface {
	Fetch(ctx context.Context, run model.RunAccession, destDir string) error
}
