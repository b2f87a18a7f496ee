package usecase

import (
	"context"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/srafetch/pkg/domain/interfaces"
	"github.com/m-mizutani/srafetch/pkg/domain/model"
	"github.com/m-mizutani/srafetch/pkg/domain/types"
)

type dispatcher struct {
	fetcher interfaces.Fetcher
}

// NewDispatcher creates a new DispatcherUseCase
func NewDispatcher(fetcher interfaces.Fetcher) interfaces.DispatcherUseCase {
	return &dispatcher{
		fetcher: fetcher,
	}
}

// Dispatch fetches every run into <outDir>/<study>/, one at a time. A failed
// run is recorded in the report and the batch continues; only directory
// creation failures and cancellation stop it early.
func (uc *dispatcher) Dispatch(ctx context.Context, list *model.RunList, outDir string, opts model.DispatchOptions) (*model.DispatchReport, error) {
	logger := ctxlog.From(ctx)
	report := &model.DispatchReport{}

	if opts.RunsOnly {
		logger.Info("Runs-only mode, skipping downloads",
			"study_count", len(list.Studies()),
			"run_count", list.Len(),
		)
		report.Skipped = true
		return report, nil
	}

	for _, study := range list.Studies() {
		studyDir := filepath.Join(outDir, study.Name)
		if err := ensureDir(studyDir); err != nil {
			return report, goerr.Wrap(err, "failed to create study directory",
				goerr.V("study", study.Name),
				goerr.T(types.ErrTagIO),
			)
		}

		logger.Info("Processing study",
			"study", study.Name,
			"dir", studyDir,
			"run_count", len(study.Runs),
		)

		for _, run := range study.Runs {
			if err := ctx.Err(); err != nil {
				return report, goerr.Wrap(err, "dispatch interrupted",
					goerr.V("study", study.Name),
					goerr.V("run", run),
				)
			}

			logger.Info("Downloading run", "study", study.Name, "run", run)

			if err := uc.fetcher.Fetch(ctx, run, studyDir); err != nil {
				logger.Error("Failed to download run",
					"study", study.Name,
					"run", run,
					"error", err,
				)
				report.Failed = append(report.Failed, model.FetchOutcome{
					Study: study.Name,
					Run:   run,
					Err: goerr.Wrap(err, "download failed",
						goerr.V("study", study.Name),
						goerr.V("run", run),
						goerr.T(types.ErrTagDownload),
					),
				})
				continue
			}

			report.Succeeded = append(report.Succeeded, model.FetchOutcome{
				Study: study.Name,
				Run:   run,
			})
		}
	}

	logger.Info("Dispatch completed",
		"succeeded", len(report.Succeeded),
		"failed", len(report.Failed),
	)

	return report, nil
}
