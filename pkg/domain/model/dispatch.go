package model

// FetchOutcome is the result of one download utility invocation
type FetchOutcome struct {
	Study string
	Run   RunAccession
	Err   error // nil on success
}

// DispatchReport summarizes a dispatcher run
type DispatchReport struct {
	Succeeded []FetchOutcome
	Failed    []FetchOutcome
	Skipped   bool // runs-only mode, nothing was fetched
}

// HasFailure reports whether any accession failed to download
func (x *DispatchReport) HasFailure() bool {
	return len(x.Failed) > 0
}

// Total returns the number of accessions processed
func (x *DispatchReport) Total() int {
	return len(x.Succeeded) + len(x.Failed)
}

// DispatchOptions controls a dispatcher run
type DispatchOptions struct {
	RunsOnly bool // resolve and persist run lists without fetching
}
