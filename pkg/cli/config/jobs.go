package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/srafetch/pkg/domain/model"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Jobs holds job script generation configuration. Directories have no
// defaults since they are specific to each cluster.
type Jobs struct {
	ConfigPath string
	RunsDir    string
	JobsDir    string
	OutputDir  string
	Binary     string
}

// Flags returns CLI flags for job generation
func (c *Jobs) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "job-config",
			Usage:       "TOML file with scheduler directives and setup lines",
			Destination: &c.ConfigPath,
			Sources:     cli.EnvVars("SRAFETCH_JOB_CONFIG"),
		},
		&cli.StringFlag{
			Name:        "runs-dir",
			Usage:       "Directory of per-study <study>.txt run lists",
			Required:    true,
			Destination: &c.RunsDir,
			Sources:     cli.EnvVars("SRAFETCH_RUNS_DIR"),
		},
		&cli.StringFlag{
			Name:        "jobs-dir",
			Usage:       "Directory to write job scripts into",
			Required:    true,
			Destination: &c.JobsDir,
			Sources:     cli.EnvVars("SRAFETCH_JOBS_DIR"),
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Download root used by the generated jobs",
			Required:    true,
			Destination: &c.OutputDir,
			Sources:     cli.EnvVars("SRAFETCH_OUTPUT"),
		},
		&cli.StringFlag{
			Name:        "binary",
			Usage:       "srafetch executable invoked by jobs (overrides job config)",
			Destination: &c.Binary,
			Sources:     cli.EnvVars("SRAFETCH_BINARY"),
		},
	}
}

// Template loads the job template from the TOML file when given
func (c *Jobs) Template() (model.JobTemplate, error) {
	tmpl := model.DefaultJobTemplate()

	if c.ConfigPath != "" {
		raw, err := os.ReadFile(c.ConfigPath)
		if err != nil {
			return tmpl, goerr.Wrap(err, "failed to read job config", goerr.V("path", c.ConfigPath))
		}
		if err := toml.Unmarshal(raw, &tmpl); err != nil {
			return tmpl, goerr.Wrap(err, "failed to parse job config", goerr.V("path", c.ConfigPath))
		}
	}

	if c.Binary != "" {
		tmpl.Binary = c.Binary
	}

	return tmpl, nil
}
