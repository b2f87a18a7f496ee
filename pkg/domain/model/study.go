package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/srafetch/pkg/domain/types"
)

// Study is a user-defined label grouping run accessions for output and jobs.
// Name is used verbatim as a path component.
type Study struct {
	Name string
	Runs []RunAccession
}

// RunList is the canonical resolved input: studies in first-seen order, each
// holding its runs in first-seen order. A run belongs to at most one study.
type RunList struct {
	studies []*Study
	byName  map[string]*Study
	owner   map[RunAccession]string
	runInfo map[string]*RunInfo
}

// NewRunList creates an empty RunList
func NewRunList() *RunList {
	return &RunList{
		byName:  make(map[string]*Study),
		owner:   make(map[RunAccession]string),
		runInfo: make(map[string]*RunInfo),
	}
}

// Add appends runs to the named study, creating it when absent. A run repeated
// within the same study is kept once. A run already owned by another study is
// rejected and nothing from this call is added.
func (x *RunList) Add(study string, runs ...RunAccession) error {
	if study == "" {
		return goerr.New("study name is empty", goerr.T(types.ErrTagResolution))
	}

	for _, run := range runs {
		if owner, ok := x.owner[run]; ok && owner != study {
			return goerr.New("run accession assigned to multiple studies",
				goerr.V("run", run),
				goerr.V("study", study),
				goerr.V("existing_study", owner),
				goerr.T(types.ErrTagResolution),
			)
		}
	}

	s, ok := x.byName[study]
	if !ok {
		s = &Study{Name: study}
		x.byName[study] = s
		x.studies = append(x.studies, s)
	}

	for _, run := range runs {
		if _, ok := x.owner[run]; ok {
			continue
		}
		x.owner[run] = study
		s.Runs = append(s.Runs, run)
	}

	return nil
}

// Studies returns studies in the order they were first added
func (x *RunList) Studies() []*Study {
	return x.studies
}

// Study looks up a study by name
func (x *RunList) Study(name string) (*Study, bool) {
	s, ok := x.byName[name]
	return s, ok
}

// AddRunInfo keeps archive metadata rows for a study. Tables of several
// projects resolved into the same study are concatenated.
func (x *RunList) AddRunInfo(study string, info *RunInfo) {
	if info == nil {
		return
	}
	table, ok := x.runInfo[study]
	if !ok {
		table = &RunInfo{}
		x.runInfo[study] = table
	}
	table.Append(info)
}

// RunInfo returns the archive metadata kept for a study, if any
func (x *RunList) RunInfo(study string) (*RunInfo, bool) {
	info, ok := x.runInfo[study]
	return info, ok
}

// Len returns the total number of run accessions across all studies
func (x *RunList) Len() int {
	return len(x.owner)
}

// Assignment is a single (study, accession) row of a partition table
type Assignment struct {
	Study     string
	Accession RunAccession
}

// GroupAssignments groups rows by study in first-seen order. Rows are copied
// as-is without deduplication; an empty accession registers the study only.
func GroupAssignments(rows []Assignment) []*Study {
	var studies []*Study
	index := make(map[string]*Study)

	for _, row := range rows {
		s, ok := index[row.Study]
		if !ok {
			s = &Study{Name: row.Study}
			index[row.Study] = s
			studies = append(studies, s)
		}
		if row.Accession != "" {
			s.Runs = append(s.Runs, row.Accession)
		}
	}

	return studies
}
