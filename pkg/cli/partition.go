package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/srafetch/pkg/domain/model"
	"github.com/m-mizutani/srafetch/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdPartition() *cli.Command {
	var (
		input  string
		output string
	)

	return &cli.Command{
		Name:  "partition",
		Usage: "Split a study,accession CSV of runs into <output>/<study>.txt files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "CSV file with study,accession columns",
				Required:    true,
				Destination: &input,
				Sources:     cli.EnvVars("SRAFETCH_PARTITION_INPUT"),
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Directory for per-study run lists",
				Required:    true,
				Destination: &output,
				Sources:     cli.EnvVars("SRAFETCH_PARTITION_OUTPUT"),
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			rows, err := usecase.ReadAssignmentsCSV(input)
			if err != nil {
				return err
			}
			logger.Info("Read run assignments", "input", input, "row_count", len(rows))

			paths, err := usecase.NewPartitioner().Write(ctx, output, model.GroupAssignments(rows))
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Wrote %d run lists to %s\n", len(paths), output)
			return nil
		},
	}
}
