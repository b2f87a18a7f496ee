package model

import "strings"

// ProjectAccession identifies a collection of sequencing runs (e.g. PRJNA123456)
type ProjectAccession string

// RunAccession identifies a single sequencing run (e.g. SRR1234567)
type RunAccession string

// NewProjectAccession trims surrounding whitespace from raw input
func NewProjectAccession(s string) ProjectAccession {
	return ProjectAccession(strings.TrimSpace(s))
}

// NewRunAccession trims surrounding whitespace from raw input
func NewRunAccession(s string) RunAccession {
	return RunAccession(strings.TrimSpace(s))
}

func (x ProjectAccession) String() string { return string(x) }
func (x RunAccession) String() string     { return string(x) }
