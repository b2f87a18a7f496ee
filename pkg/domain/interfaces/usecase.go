package interfaces

import (
	"context"

	"github.com/m-mizutani/srafetch/pkg/domain/model"
)

// ResolverUseCase turns user input into the canonical run list
type ResolverUseCase interface {
	// FromProjects resolves project accessions paired with study names
	FromProjects(ctx context.Context, projects []model.ProjectAccession, studies []string) (*model.RunList, error)

	// FromProjectCSV resolves a study,accession CSV of project accessions
	FromProjectCSV(ctx context.Context, path string) (*model.RunList, error)

	// FromRunList reads run accessions directly under a single study
	FromRunList(path, study string) (*model.RunList, error)
}

// DispatcherUseCase downloads every run of a run list
type DispatcherUseCase interface {
	Dispatch(ctx context.Context, list *model.RunList, outDir string, opts model.DispatchOptions) (*model.DispatchReport, error)
}

// PartitionerUseCase persists one accession-list file per study
type PartitionerUseCase interface {
	// Write creates outDir and writes <outDir>/<study>.txt for every study,
	// returning the written paths in study order
	Write(ctx context.Context, outDir string, studies []*model.Study) ([]string, error)

	// WriteRunInfo writes <outDir>/<study>.runinfo.csv for every study that
	// carries archive metadata
	WriteRunInfo(ctx context.Context, outDir string, list *model.RunList) ([]string, error)
}

// JobGeneratorUseCase renders batch-scheduler scripts for per-study run lists
type JobGeneratorUseCase interface {
	// Generate renders the job script for a single study's run list
	Generate(ctx context.Context, study, runListPath string) (*model.JobScript, error)

	// GenerateAll renders a job script for every <study>.txt in runsDir
	GenerateAll(ctx context.Context, runsDir string) ([]*model.JobScript, error)
}
