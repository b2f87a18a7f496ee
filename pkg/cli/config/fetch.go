package config

import (
	"github.com/m-mizutani/srafetch/pkg/domain/interfaces"
	"github.com/m-mizutani/srafetch/pkg/infra/sratools"
	"github.com/urfave/cli/v3"
)

// Fetch holds SRA Toolkit configuration
type Fetch struct {
	PrefetchCommand string
	PrefetchArgs    []string
	DumpCommand     string
	DumpArgs        []string
	Compress        bool
	KeepSRA         bool
}

// Flags returns CLI flags for download utility configuration
func (c *Fetch) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "prefetch-cmd",
			Usage:       "prefetch executable",
			Value:       sratools.DefaultPrefetchCommand,
			Destination: &c.PrefetchCommand,
			Sources:     cli.EnvVars("SRAFETCH_PREFETCH_CMD"),
		},
		&cli.StringSliceFlag{
			Name:        "prefetch-arg",
			Usage:       "Extra argument passed to prefetch (repeatable)",
			Destination: &c.PrefetchArgs,
		},
		&cli.StringFlag{
			Name:        "dump-cmd",
			Usage:       "FASTQ conversion executable (fasterq-dump or fastq-dump)",
			Value:       sratools.DefaultDumpCommand,
			Destination: &c.DumpCommand,
			Sources:     cli.EnvVars("SRAFETCH_DUMP_CMD"),
		},
		&cli.StringSliceFlag{
			Name:        "dump-arg",
			Usage:       "Argument passed to the dump tool (repeatable, replaces the default --split-files)",
			Destination: &c.DumpArgs,
		},
		&cli.BoolFlag{
			Name:        "compress",
			Usage:       "gzip FASTQ output",
			Value:       true,
			Destination: &c.Compress,
			Sources:     cli.EnvVars("SRAFETCH_COMPRESS"),
		},
		&cli.BoolFlag{
			Name:        "keep-sra",
			Usage:       "Keep downloaded .sra files under <output>/<study>/sra/",
			Destination: &c.KeepSRA,
			Sources:     cli.EnvVars("SRAFETCH_KEEP_SRA"),
		},
	}
}

// NewFetcher creates the download utility wrapper
func (c *Fetch) NewFetcher() interfaces.Fetcher {
	return sratools.New(sratools.Config{
		PrefetchCommand: c.PrefetchCommand,
		PrefetchArgs:    c.PrefetchArgs,
		DumpCommand:     c.DumpCommand,
		DumpArgs:        c.DumpArgs,
		Compress:        c.Compress,
		KeepSRA:         c.KeepSRA,
	})
}
