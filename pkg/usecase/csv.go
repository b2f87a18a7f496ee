package usecase

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/srafetch/pkg/domain/types"
)

const (
	columnStudy     = "study"
	columnAccession = "accession"
)

type csvRow struct {
	line      int
	study     string
	accession string
}

// readStudyCSV reads a CSV whose header contains the case-sensitive columns
// "study" and "accession". Every data row must have both values.
func readStudyCSV(path string) ([]csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open CSV file",
			goerr.V("path", path),
			goerr.T(types.ErrTagResolution),
		)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, goerr.New("CSV file is empty", goerr.V("path", path), goerr.T(types.ErrTagResolution))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read CSV header", goerr.V("path", path), goerr.T(types.ErrTagResolution))
	}

	studyIdx, accIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")) {
		case columnStudy:
			studyIdx = i
		case columnAccession:
			accIdx = i
		}
	}
	if studyIdx < 0 || accIdx < 0 {
		return nil, goerr.New("CSV header must contain study and accession columns",
			goerr.V("path", path),
			goerr.V("header", header),
			goerr.T(types.ErrTagResolution),
		)
	}

	var rows []csvRow
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read CSV record",
				goerr.V("path", path),
				goerr.V("line", line),
				goerr.T(types.ErrTagResolution),
			)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if studyIdx >= len(record) || accIdx >= len(record) {
			return nil, goerr.New("CSV record is missing columns",
				goerr.V("path", path),
				goerr.V("line", line),
				goerr.T(types.ErrTagResolution),
			)
		}

		rows = append(rows, csvRow{
			line:      line,
			study:     strings.TrimSpace(record[studyIdx]),
			accession: strings.TrimSpace(record[accIdx]),
		})
	}

	return rows, nil
}

// firstCSVField returns the unquoted, trimmed first field of a single CSV line
func firstCSVField(line string) (string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	record, err := r.Read()
	if errors.Is(err, io.EOF) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(record[0]), nil
}
