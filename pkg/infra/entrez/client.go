package entrez

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/biogo/ncbi/entrez"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/srafetch/pkg/domain/interfaces"
	"github.com/m-mizutani/srafetch/pkg/domain/model"
	"github.com/m-mizutani/srafetch/pkg/domain/types"
)

const (
	sraDB         = "sra"
	runInfoType   = "runinfo"
	defaultRetMax = 500
	defaultRetry  = 3
)

type searchFunc func(db, query string, p *entrez.Parameters, h *entrez.History, tool, email string) (int, error)
type fetchFunc func(db string, p *entrez.Parameters, tool, email string, h *entrez.History) (io.ReadCloser, error)

type client struct {
	tool   string
	email  string
	retMax int
	retry  int
	search searchFunc
	fetch  fetchFunc
}

// Option configures the Entrez client
type Option func(*client)

// WithRetMax sets the number of runinfo records fetched per request
func WithRetMax(n int) Option {
	return func(c *client) {
		if n > 0 {
			c.retMax = n
		}
	}
}

// WithRetry sets how many times a runinfo batch is requested before giving up
func WithRetry(n int) Option {
	return func(c *client) {
		if n > 0 {
			c.retry = n
		}
	}
}

// NewClient creates an ArchiveClient backed by NCBI E-utilities. NCBI asks
// that tool and email identify the caller.
func NewClient(tool, email string, opts ...Option) interfaces.ArchiveClient {
	c := &client{
		tool:   tool,
		email:  email,
		retMax: defaultRetMax,
		retry:  defaultRetry,
		search: doSearch,
		fetch:  doFetch,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func doSearch(db, query string, p *entrez.Parameters, h *entrez.History, tool, email string) (int, error) {
	s, err := entrez.DoSearch(db, query, p, h, tool, email)
	if err != nil {
		return 0, err
	}
	return s.Count, nil
}

func doFetch(db string, p *entrez.Parameters, tool, email string, h *entrez.History) (io.ReadCloser, error) {
	return entrez.Fetch(db, p, tool, email, h)
}

// ListRuns searches the SRA database for the project and pages through its
// runinfo table
func (c *client) ListRuns(ctx context.Context, project model.ProjectAccession) (*model.RunInfo, error) {
	logger := ctxlog.From(ctx)

	h := entrez.History{}
	count, err := c.search(sraDB, string(project), nil, &h, c.tool, c.email)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search archive",
			goerr.V("project", project),
			goerr.T(types.ErrTagResolution),
		)
	}

	logger.Debug("Archive search completed", "project", project, "count", count)

	table := &model.RunInfo{}
	p := &entrez.Parameters{RetMax: c.retMax, RetType: runInfoType, RetMode: "text"}
	for p.RetStart = 0; p.RetStart < count; p.RetStart += p.RetMax {
		var batch *model.RunInfo
		for attempt := 1; attempt <= c.retry; attempt++ {
			if err := ctx.Err(); err != nil {
				return nil, goerr.Wrap(err, "archive query interrupted",
					goerr.V("project", project),
					goerr.V("ret_start", p.RetStart),
				)
			}

			batch, err = c.fetchBatch(p, &h)
			if err == nil {
				break
			}
			logger.Warn("Failed to fetch runinfo batch",
				"project", project,
				"ret_start", p.RetStart,
				"attempt", attempt,
				"error", err,
			)
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to fetch runinfo",
				goerr.V("project", project),
				goerr.V("ret_start", p.RetStart),
				goerr.T(types.ErrTagResolution),
			)
		}
		table.Append(batch)
	}

	return table, nil
}

func (c *client) fetchBatch(p *entrez.Parameters, h *entrez.History) (*model.RunInfo, error) {
	r, err := c.fetch(sraDB, p, c.tool, c.email, h)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return parseRunInfo(r)
}

// parseRunInfo reads a runinfo CSV. Responses may repeat the header line and
// contain blank lines; both are skipped, as are records without a run.
func parseRunInfo(r io.Reader) (*model.RunInfo, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	info := &model.RunInfo{}
	runIdx := -1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse runinfo")
		}

		if runIdx < 0 {
			for i, col := range record {
				if strings.TrimSpace(col) == model.RunInfoRunColumn {
					runIdx = i
					break
				}
			}
			if runIdx < 0 {
				return nil, goerr.New("runinfo has no Run column", goerr.V("header", record))
			}
			info.Header = record
			continue
		}

		if runIdx >= len(record) {
			continue
		}
		run := strings.TrimSpace(record[runIdx])
		if run == "" || run == model.RunInfoRunColumn {
			continue
		}
		info.Records = append(info.Records, record)
	}

	return info, nil
}
