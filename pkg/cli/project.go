package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/srafetch/pkg/cli/config"
	"github.com/m-mizutani/srafetch/pkg/domain/interfaces"
	"github.com/m-mizutani/srafetch/pkg/domain/model"
	"github.com/m-mizutani/srafetch/pkg/domain/types"
	"github.com/m-mizutani/srafetch/pkg/usecase"
	"github.com/urfave/cli/v3"
)

var newArchiveClient = func(cfg *config.Archive) interfaces.ArchiveClient {
	return cfg.NewClient()
}

func cmdProject() *cli.Command {
	var (
		projects   []string
		studies    []string
		csvPath    string
		output     string
		runsOnly   bool
		archiveCfg config.Archive
		fetchCfg   config.Fetch
	)

	flags := []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "bioproject",
			Aliases:     []string{"p"},
			Usage:       "Project accession to download (repeatable)",
			Destination: &projects,
		},
		&cli.StringSliceFlag{
			Name:        "study",
			Aliases:     []string{"s"},
			Usage:       "Study name for the project at the same position (repeatable, defaults to the project accession)",
			Destination: &studies,
		},
		&cli.StringFlag{
			Name:        "csv",
			Usage:       "CSV file with study,accession columns of project accessions",
			Destination: &csvPath,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output directory",
			Required:    true,
			Destination: &output,
			Sources:     cli.EnvVars("SRAFETCH_OUTPUT"),
		},
		&cli.BoolFlag{
			Name:        "runs_only",
			Usage:       "Only write <output>/<study>.txt run lists and runinfo tables without downloading",
			Destination: &runsOnly,
		},
	}
	flags = append(flags, archiveCfg.Flags()...)
	flags = append(flags, fetchCfg.Flags()...)

	return &cli.Command{
		Name:    "project",
		Aliases: []string{"p"},
		Usage:   "Resolve project accessions to runs and download them",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if csvPath != "" && len(projects) > 0 {
				return goerr.New("--csv and --bioproject are mutually exclusive", goerr.T(types.ErrTagResolution))
			}
			if csvPath == "" && len(projects) == 0 {
				return goerr.New("either --csv or --bioproject is required", goerr.T(types.ErrTagResolution))
			}
			if csvPath != "" && len(studies) > 0 {
				return goerr.New("--study is only used with --bioproject", goerr.T(types.ErrTagResolution))
			}

			logger.Info("Starting project download",
				slog.String("output", output),
				slog.Bool("runs_only", runsOnly),
				slog.Any("archive", archiveCfg),
			)

			resolver := usecase.NewResolver(newArchiveClient(&archiveCfg))

			var list *model.RunList
			var err error
			if csvPath != "" {
				list, err = resolver.FromProjectCSV(ctx, csvPath)
			} else {
				accessions := make([]model.ProjectAccession, len(projects))
				for i, p := range projects {
					accessions[i] = model.NewProjectAccession(p)
				}
				list, err = resolver.FromProjects(ctx, accessions, studies)
			}
			if err != nil {
				return err
			}

			partitioner := usecase.NewPartitioner()
			if _, err := partitioner.Write(ctx, output, list.Studies()); err != nil {
				return err
			}
			if _, err := partitioner.WriteRunInfo(ctx, output, list); err != nil {
				return err
			}

			report, err := usecase.NewDispatcher(fetchCfg.NewFetcher()).Dispatch(ctx, list, output, model.DispatchOptions{
				RunsOnly: runsOnly,
			})
			if report != nil {
				printReport(c.Root().Writer, report)
			}
			if err != nil {
				return err
			}

			return reportError(report)
		},
	}
}
