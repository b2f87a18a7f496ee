package model

// JobScript describes a generated batch-scheduler script
type JobScript struct {
	Study       string // Study name the job downloads
	RunListPath string // Per-study accession list consumed by the job
	ScriptPath  string // Where the script was written
}

// JobTemplate holds the static scheduler settings rendered into every job
// script. Values are passed through without validation. JobName is the
// directive argument naming the job, with {study} replaced by the quoted study
// name (e.g. "-N srafetch-{study}" for PBS).
type JobTemplate struct {
	Shell      string   `toml:"shell"`
	Prefix     string   `toml:"prefix"`
	JobName    string   `toml:"job_name"`
	Binary     string   `toml:"binary"`
	Directives []string `toml:"directives"`
	Setup      []string `toml:"setup"`
	FetchArgs  []string `toml:"fetch_args"`
}

// DefaultJobTemplate returns settings for a plain SLURM bash job. Directives
// are left empty; cluster specific values have to come from configuration.
func DefaultJobTemplate() JobTemplate {
	return JobTemplate{
		Shell:  "/bin/bash",
		Prefix: "#SBATCH",
		Binary: "srafetch",
	}
}
