package config

import (
	"github.com/m-mizutani/srafetch/pkg/domain/interfaces"
	"github.com/m-mizutani/srafetch/pkg/infra/entrez"
	"github.com/urfave/cli/v3"
)

// Archive holds NCBI E-utilities configuration
type Archive struct {
	Tool   string
	Email  string `masq:"secret"`
	RetMax int
	Retry  int
}

// Flags returns CLI flags for archive configuration
func (c *Archive) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "entrez-tool",
			Usage:       "Tool name reported to NCBI E-utilities",
			Value:       "srafetch",
			Destination: &c.Tool,
			Sources:     cli.EnvVars("SRAFETCH_ENTREZ_TOOL"),
		},
		&cli.StringFlag{
			Name:        "entrez-email",
			Usage:       "Contact e-mail reported to NCBI E-utilities",
			Destination: &c.Email,
			Sources:     cli.EnvVars("SRAFETCH_ENTREZ_EMAIL"),
		},
		&cli.IntFlag{
			Name:        "entrez-retmax",
			Usage:       "Number of runinfo records fetched per request",
			Value:       500,
			Destination: &c.RetMax,
			Sources:     cli.EnvVars("SRAFETCH_ENTREZ_RETMAX"),
		},
		&cli.IntFlag{
			Name:        "entrez-retry",
			Usage:       "Attempts per runinfo request",
			Value:       3,
			Destination: &c.Retry,
			Sources:     cli.EnvVars("SRAFETCH_ENTREZ_RETRY"),
		},
	}
}

// NewClient creates the archive metadata client
func (c *Archive) NewClient() interfaces.ArchiveClient {
	return entrez.NewClient(c.Tool, c.Email, entrez.WithRetMax(c.RetMax), entrez.WithRetry(c.Retry))
}
