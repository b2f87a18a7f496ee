package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"text/template"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/srafetch/pkg/domain/interfaces"
	"github.com/m-mizutani/srafetch/pkg/domain/model"
	"github.com/m-mizutani/srafetch/pkg/domain/types"
	"github.com/skarademir/naturalsort"
)

//go:embed templates/job.sh.tmpl
var jobTemplate string

const (
	// JobScriptExt is the extension of generated job scripts
	JobScriptExt = ".sh"

	jobNameStudy = "{study}"
	slurmJobName = "--job-name=srafetch-" + jobNameStudy
)

type jobGenerator struct {
	cfg     model.JobTemplate
	jobsDir string
	outDir  string
	tmpl    *template.Template
}

type jobParams struct {
	model.JobTemplate
	Version     string
	JobNameArgs string
	Study       string
	RunListPath string
	OutputDir   string
	StudyDir    string
}

// NewJobGenerator creates a generator writing scripts to jobsDir. outDir is the
// download root the generated jobs write into.
func NewJobGenerator(cfg model.JobTemplate, jobsDir, outDir string) (interfaces.JobGeneratorUseCase, error) {
	if jobsDir == "" {
		return nil, goerr.New("jobs directory is required")
	}
	if outDir == "" {
		return nil, goerr.New("output directory is required")
	}

	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve output directory", goerr.V("dir", outDir))
	}

	defaults := model.DefaultJobTemplate()
	if cfg.Shell == "" {
		cfg.Shell = defaults.Shell
	}
	if cfg.Prefix == "" {
		cfg.Prefix = defaults.Prefix
	}
	// the default job name uses sbatch syntax; other schedulers need job_name
	if cfg.JobName == "" && cfg.Prefix == defaults.Prefix {
		cfg.JobName = slurmJobName
	}
	if cfg.Binary == "" {
		cfg.Binary = defaults.Binary
	}

	tmpl, err := template.New("job").Funcs(template.FuncMap{
		"quote": shellQuote,
	}).Parse(jobTemplate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse job template")
	}

	return &jobGenerator{
		cfg:     cfg,
		jobsDir: jobsDir,
		outDir:  absOut,
		tmpl:    tmpl,
	}, nil
}

// Generate writes <jobsDir>/<study>.sh with the executable bit set,
// overwriting any previous script for the study
func (g *jobGenerator) Generate(ctx context.Context, study, runListPath string) (*model.JobScript, error) {
	logger := ctxlog.From(ctx)

	if study == "" {
		return nil, goerr.New("study name is required", goerr.V("run_list", runListPath))
	}

	absList, err := filepath.Abs(runListPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve run list path", goerr.V("path", runListPath))
	}

	params := jobParams{
		JobTemplate: g.cfg,
		Version:     types.Version,
		JobNameArgs: strings.ReplaceAll(g.cfg.JobName, jobNameStudy, shellQuote(study)),
		Study:       study,
		RunListPath: absList,
		OutputDir:   g.outDir,
		StudyDir:    filepath.Join(g.outDir, study) + string(filepath.Separator),
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, params); err != nil {
		return nil, goerr.Wrap(err, "failed to render job script", goerr.V("study", study))
	}

	if err := ensureDir(g.jobsDir); err != nil {
		return nil, err
	}

	scriptPath := filepath.Join(g.jobsDir, study+JobScriptExt)
	if err := writeFile(scriptPath, buf.Bytes(), 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to write job script",
			goerr.V("study", study),
			goerr.T(types.ErrTagIO),
		)
	}

	logger.Info("Generated job script",
		"study", study,
		"script", scriptPath,
		"run_list", absList,
	)

	return &model.JobScript{
		Study:       study,
		RunListPath: absList,
		ScriptPath:  scriptPath,
	}, nil
}

// GenerateAll renders a script for every <study>.txt in runsDir, in natural
// order of file names
func (g *jobGenerator) GenerateAll(ctx context.Context, runsDir string) ([]*model.JobScript, error) {
	entries, err := os.ReadDir(runsDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read runs directory",
			goerr.V("dir", runsDir),
			goerr.T(types.ErrTagIO),
		)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != RunListExt {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Sort(naturalsort.NaturalSort(names))

	scripts := make([]*model.JobScript, 0, len(names))
	for _, name := range names {
		study := strings.TrimSuffix(name, RunListExt)
		script, err := g.Generate(ctx, study, filepath.Join(runsDir, name))
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, script)
	}

	return scripts, nil
}

var shellSafe = regexp.MustCompile(`^[A-Za-z0-9_./=:,+@%-]+$`)

func shellQuote(s string) string {
	if shellSafe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
