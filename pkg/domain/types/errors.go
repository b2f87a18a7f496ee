package types

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrTagResolution marks unusable input: bad CSV, empty project or unreachable archive
	ErrTagResolution = goerr.NewTag("resolution")

	// ErrTagDownload marks a single accession whose download utility failed
	ErrTagDownload = goerr.NewTag("download")

	// ErrTagIO marks output directory or file write failures
	ErrTagIO = goerr.NewTag("io")
)
