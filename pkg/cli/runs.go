package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/srafetch/pkg/cli/config"
	"github.com/m-mizutani/srafetch/pkg/domain/model"
	"github.com/m-mizutani/srafetch/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdRuns() *cli.Command {
	var (
		runsPath string
		study    string
		output   string
		fetchCfg config.Fetch
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "runs",
			Aliases:     []string{"r"},
			Usage:       "File with run accessions, one per line",
			Required:    true,
			Destination: &runsPath,
		},
		&cli.StringFlag{
			Name:        "study",
			Aliases:     []string{"s"},
			Usage:       "Study name used as output subdirectory",
			Required:    true,
			Destination: &study,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output directory",
			Required:    true,
			Destination: &output,
			Sources:     cli.EnvVars("SRAFETCH_OUTPUT"),
		},
	}
	flags = append(flags, fetchCfg.Flags()...)

	return &cli.Command{
		Name:    "runs",
		Aliases: []string{"r"},
		Usage:   "Download a list of run accessions under a single study",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting run list download",
				slog.String("runs", runsPath),
				slog.String("study", study),
				slog.String("output", output),
			)

			list, err := usecase.NewResolver(nil).FromRunList(runsPath, study)
			if err != nil {
				return err
			}

			report, err := usecase.NewDispatcher(fetchCfg.NewFetcher()).Dispatch(ctx, list, output, model.DispatchOptions{})
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
