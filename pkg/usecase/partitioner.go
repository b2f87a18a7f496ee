package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/srafetch/pkg/domain/interfaces"
	"github.com/m-mizutani/srafetch/pkg/domain/model"
	"github.com/m-mizutani/srafetch/pkg/domain/types"
)

const (
	// RunListExt is the extension of per-study accession-list files
	RunListExt = ".txt"
	// RunInfoExt is the extension of per-study archive metadata tables
	RunInfoExt = ".runinfo.csv"
)

type partitioner struct{}

// NewPartitioner creates a new PartitionerUseCase
func NewPartitioner() interfaces.PartitionerUseCase {
	return &partitioner{}
}

// Write overwrites <outDir>/<study>.txt for every study. A study without runs
// still gets an empty file.
func (uc *partitioner) Write(ctx context.Context, outDir string, studies []*model.Study) ([]string, error) {
	logger := ctxlog.From(ctx)

	if err := ensureDir(outDir); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(studies))
	for _, study := range studies {
		path := RunListPath(outDir, study.Name)

		var buf bytes.Buffer
		for _, run := range study.Runs {
			buf.WriteString(string(run))
			buf.WriteByte('\n')
		}

		if err := writeFile(path, buf.Bytes(), 0644); err != nil {
			return nil, goerr.Wrap(err, "failed to write run list",
				goerr.V("study", study.Name),
				goerr.T(types.ErrTagIO),
			)
		}

		logger.Info("Wrote run list",
			"study", study.Name,
			"path", path,
			"run_count", len(study.Runs),
		)
		paths = append(paths, path)
	}

	return paths, nil
}

// WriteRunInfo overwrites <outDir>/<study>.runinfo.csv with the runinfo table
// kept for each study. Studies without metadata are skipped.
func (uc *partitioner) WriteRunInfo(ctx context.Context, outDir string, list *model.RunList) ([]string, error) {
	logger := ctxlog.From(ctx)

	if err := ensureDir(outDir); err != nil {
		return nil, err
	}

	var paths []string
	for _, study := range list.Studies() {
		info, ok := list.RunInfo(study.Name)
		if !ok {
			continue
		}

		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(info.Header); err != nil {
			return nil, goerr.Wrap(err, "failed to encode runinfo header", goerr.V("study", study.Name))
		}
		if err := w.WriteAll(info.Records); err != nil {
			return nil, goerr.Wrap(err, "failed to encode runinfo", goerr.V("study", study.Name))
		}

		path := filepath.Join(outDir, study.Name+RunInfoExt)
		if err := writeFile(path, buf.Bytes(), 0644); err != nil {
			return nil, goerr.Wrap(err, "failed to write runinfo",
				goerr.V("study", study.Name),
				goerr.T(types.ErrTagIO),
			)
		}

		logger.Info("Wrote runinfo",
			"study", study.Name,
			"path", path,
			"record_count", len(info.Records),
		)
		paths = append(paths, path)
	}

	return paths, nil
}

// RunListPath returns the accession-list file path of a study
func RunListPath(outDir, study string) string {
	return filepath.Join(outDir, study+RunListExt)
}

// ReadAssignmentsCSV reads a study,accession CSV of run accessions for
// partitioning. Rows with an empty accession only register their study.
func ReadAssignmentsCSV(path string) ([]model.Assignment, error) {
	rows, err := readStudyCSV(path)
	if err != nil {
		return nil, err
	}

	assignments := make([]model.Assignment, 0, len(rows))
	for _, row := range rows {
		if row.study == "" {
			return nil, goerr.New("CSV record has empty study",
				goerr.V("path", path),
				goerr.V("line", row.line),
				goerr.T(types.ErrTagResolution),
			)
		}
		assignments = append(assignments, model.Assignment{
			Study:     row.study,
			Accession: model.NewRunAccession(row.accession),
		})
	}

	return assignments, nil
}
