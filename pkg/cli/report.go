package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/srafetch/pkg/domain/model"
	"github.com/m-mizutani/srafetch/pkg/domain/types"
)

// printReport writes a per-accession summary so failed runs can be retried
func printReport(w io.Writer, report *model.DispatchReport) {
	if report.Skipped {
		fmt.Fprintln(w, "Runs-only mode: run lists written, no downloads performed")
		return
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed, color.Bold)

	green.Fprintf(w, "%d succeeded", len(report.Succeeded))
	fmt.Fprint(w, ", ")
	if report.HasFailure() {
		red.Fprintf(w, "%d failed", len(report.Failed))
	} else {
		fmt.Fprint(w, "0 failed")
	}
	fmt.Fprintf(w, " (%d runs)\n", report.Total())

	for _, f := range report.Failed {
		red.Fprint(w, "FAILED")
		fmt.Fprintf(w, " study=%s run=%s\n", f.Study, f.Run)
	}
}

func reportError(report *model.DispatchReport) error {
	if !report.HasFailure() {
		return nil
	}

	failed := make([]string, len(report.Failed))
	for i, f := range report.Failed {
		failed[i] = f.Study + "/" + string(f.Run)
	}
	return goerr.New("some runs failed to download",
		goerr.V("failed_count", len(report.Failed)),
		goerr.V("failed", failed),
		goerr.T(types.ErrTagDownload),
	)
}
