package usecase

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/srafetch/pkg/domain/interfaces"
	"github.com/m-mizutani/srafetch/pkg/domain/model"
	"github.com/m-mizutani/srafetch/pkg/domain/types"
)

type resolver struct {
	archive interfaces.ArchiveClient
}

// NewResolver creates a new ResolverUseCase. archive may be nil when only run
// lists are resolved.
func NewResolver(archive interfaces.ArchiveClient) interfaces.ResolverUseCase {
	return &resolver{
		archive: archive,
	}
}

// FromProjects resolves each project accession into its runs under the study
// at the same position. Without studies, the project accession names its own
// study.
func (uc *resolver) FromProjects(ctx context.Context, projects []model.ProjectAccession, studies []string) (*model.RunList, error) {
	if len(projects) == 0 {
		return nil, goerr.New("no project accession given", goerr.T(types.ErrTagResolution))
	}

	if len(studies) == 0 {
		studies = make([]string, len(projects))
		for i, p := range projects {
			studies[i] = string(p)
		}
	} else if len(studies) != len(projects) {
		return nil, goerr.New("number of studies must match number of projects",
			goerr.V("projects", len(projects)),
			goerr.V("studies", len(studies)),
			goerr.T(types.ErrTagResolution),
		)
	}

	list := model.NewRunList()
	for i, project := range projects {
		if err := uc.resolveProject(ctx, list, project, studies[i]); err != nil {
			return nil, err
		}
	}

	return list, nil
}

// FromProjectCSV resolves a study,accession CSV where accession is a project
func (uc *resolver) FromProjectCSV(ctx context.Context, path string) (*model.RunList, error) {
	logger := ctxlog.From(ctx)

	rows, err := readStudyCSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, goerr.New("no valid data found in CSV file", goerr.V("path", path), goerr.T(types.ErrTagResolution))
	}

	projects := make([]model.ProjectAccession, 0, len(rows))
	studies := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.study == "" || row.accession == "" {
			return nil, goerr.New("CSV record has empty study or accession",
				goerr.V("path", path),
				goerr.V("line", row.line),
				goerr.T(types.ErrTagResolution),
			)
		}
		studies = append(studies, row.study)
		projects = append(projects, model.NewProjectAccession(row.accession))
	}

	logger.Info("Read projects from CSV file",
		"path", path,
		"project_count", len(projects),
	)

	return uc.FromProjects(ctx, projects, studies)
}

// FromRunList reads run accessions, one per line, under a single study. Each
// line is parsed as CSV and its first field taken, so exported runinfo tables
// work as input. A header line and # comments are skipped.
func (uc *resolver) FromRunList(path, study string) (*model.RunList, error) {
	if study == "" {
		return nil, goerr.New("study name is required", goerr.T(types.ErrTagResolution))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open runs file",
			goerr.V("path", path),
			goerr.T(types.ErrTagResolution),
		)
	}
	defer f.Close()

	var runs []model.RunAccession
	scanner := bufio.NewScanner(f)
	first := true
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line, err = firstCSVField(line)
		if err != nil {
			return nil, goerr.Wrap(err, "malformed line in runs file",
				goerr.V("path", path),
				goerr.V("line", lineNo),
				goerr.T(types.ErrTagResolution),
			)
		}
		if first && isRunListHeader(line) {
			first = false
			continue
		}
		first = false
		if line == "" {
			continue
		}
		runs = append(runs, model.NewRunAccession(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to read runs file",
			goerr.V("path", path),
			goerr.T(types.ErrTagResolution),
		)
	}

	list := model.NewRunList()
	if err := list.Add(study, runs...); err != nil {
		return nil, err
	}

	return list, nil
}

func (uc *resolver) resolveProject(ctx context.Context, list *model.RunList, project model.ProjectAccession, study string) error {
	logger := ctxlog.From(ctx)

	if uc.archive == nil {
		return goerr.New("archive client is not configured", goerr.T(types.ErrTagResolution))
	}

	logger.Info("Resolving project",
		"project", project,
		"study", study,
	)

	info, err := uc.archive.ListRuns(ctx, project)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve project",
			goerr.V("project", project),
			goerr.V("study", study),
			goerr.T(types.ErrTagResolution),
		)
	}
	runs := info.Runs()
	if len(runs) == 0 {
		return goerr.New("project has no runs",
			goerr.V("project", project),
			goerr.V("study", study),
			goerr.T(types.ErrTagResolution),
		)
	}

	if err := list.Add(study, runs...); err != nil {
		return goerr.Wrap(err, "failed to assign runs to study",
			goerr.V("project", project),
			goerr.T(types.ErrTagResolution),
		)
	}
	list.AddRunInfo(study, info)

	logger.Info("Resolved project",
		"project", project,
		"study", study,
		"run_count", len(runs),
	)

	return nil
}

func isRunListHeader(s string) bool {
	switch s {
	case "Run", "run", "accession", "run_accession":
		return true
	default:
		return false
	}
}
