package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/m-mizutani/srafetch/pkg/domain/model"
)

// mockArchive is a fake ArchiveClient keyed by project accession
type mockArchive struct {
	runs  map[model.ProjectAccession][]model.RunAccession
	err   error
	calls []model.ProjectAccession
}

func (m *mockArchive) ListRuns(ctx context.Context, project model.ProjectAccession) (*model.RunInfo, error) {
	m.calls = append(m.calls, project)
	if m.err != nil {
		return nil, m.err
	}

	info := &model.RunInfo{Header: []string{"Run", "BioProject", "spots"}}
	for _, run := range m.runs[project] {
		info.Records = append(info.Records, []string{string(run), string(project), "100"})
	}
	return info, nil
}

// mockFetcher records calls and fails for the configured runs
type mockFetcher struct {
	fail  map[model.RunAccession]bool
	calls []fetchCall
}

type fetchCall struct {
	Run     model.RunAccession
	DestDir string
}

func (m *mockFetcher) Fetch(ctx context.Context, run model.RunAccession, destDir string) error {
	m.calls = append(m.calls, fetchCall{Run: run, DestDir: destDir})
	if m.fail[run] {
		return errors.New("prefetch exited with status 3")
	}
	return os.WriteFile(filepath.Join(destDir, string(run)+".fastq.gz"), []byte("@"+string(run)+"\n"), 0644)
}
