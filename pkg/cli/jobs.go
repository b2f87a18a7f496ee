package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/srafetch/pkg/cli/config"
	"github.com/m-mizutani/srafetch/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdJobs() *cli.Command {
	var jobsCfg config.Jobs

	return &cli.Command{
		Name:  "jobs",
		Usage: "Generate a batch-scheduler script per study run list",
		Flags: jobsCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			tmpl, err := jobsCfg.Template()
			if err != nil {
				return err
			}

			gen, err := usecase.NewJobGenerator(tmpl, jobsCfg.JobsDir, jobsCfg.OutputDir)
			if err != nil {
				return goerr.Wrap(err, "failed to create job generator")
			}

			scripts, err := gen.GenerateAll(ctx, jobsCfg.RunsDir)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			for _, s := range scripts {
				fmt.Fprintln(w, s.ScriptPath)
			}
			fmt.Fprintf(w, "Generated %d job scripts in %s\n", len(scripts), jobsCfg.JobsDir)
			return nil
		},
	}
}
