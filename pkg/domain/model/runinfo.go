package model

import "strings"

// RunInfoRunColumn is the runinfo column holding the run accession
const RunInfoRunColumn = "Run"

// RunInfo is the archive's per-run metadata table (spots, bases, layout, size
// and so on) as returned for one or more projects
type RunInfo struct {
	Header  []string
	Records [][]string
}

func (x *RunInfo) columnIndex(name string) int {
	for i, col := range x.Header {
		if strings.TrimSpace(col) == name {
			return i
		}
	}
	return -1
}

// Runs returns the non-empty values of the Run column in table order
func (x *RunInfo) Runs() []RunAccession {
	if x == nil {
		return nil
	}
	idx := x.columnIndex(RunInfoRunColumn)
	if idx < 0 {
		return nil
	}

	var runs []RunAccession
	for _, record := range x.Records {
		if idx >= len(record) {
			continue
		}
		if run := NewRunAccession(record[idx]); run != "" {
			runs = append(runs, run)
		}
	}
	return runs
}

// Append adds the records of other. Columns are matched by name against the
// receiver's header; columns unknown to the receiver are dropped and missing
// ones left empty. An empty receiver adopts other's header.
func (x *RunInfo) Append(other *RunInfo) {
	if other == nil {
		return
	}
	if len(x.Header) == 0 {
		x.Header = append([]string(nil), other.Header...)
	}

	mapping := make([]int, len(x.Header))
	for i, col := range x.Header {
		mapping[i] = other.columnIndex(strings.TrimSpace(col))
	}

	for _, record := range other.Records {
		aligned := make([]string, len(x.Header))
		for i, src := range mapping {
			if src >= 0 && src < len(record) {
				aligned[i] = record[src]
			}
		}
		x.Records = append(x.Records, aligned)
	}
}
