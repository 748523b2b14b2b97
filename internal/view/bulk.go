package view

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/simp-lee/hyve-admin/internal/domain"
)

// MaxBulkRows bounds one bulk upload.
const MaxBulkRows = 500

// BulkDialog is the view model of the bulk upload dialog. Before an upload
// only Title, Action and Columns are set.
type BulkDialog struct {
	Title   string
	Action  string
	Columns []string
	// Done is set once an upload was processed.
	Done    bool
	Created int
	Failed  []domain.BulkFailure
	Error   string
}

// BulkRow is one data line of an uploaded CSV file. Line is the 1-based line
// number in the file, counting the header.
type BulkRow struct {
	Line   int
	Values map[string]string
}

// Get returns the trimmed value of column name.
func (r BulkRow) Get(name string) string {
	return strings.TrimSpace(r.Values[name])
}

// ReadBulkCSV parses a CSV upload with a header line. Header names are
// matched case-insensitively; every name in required must be present. Blank
// lines are skipped.
func ReadBulkCSV(r io.Reader, required []string) ([]BulkRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.NewAppError(domain.CodeValidation, "the file is empty", nil)
	}
	if err != nil {
		return nil, domain.NewAppError(domain.CodeValidation, "the file is not valid CSV", err)
	}
	for i := range header {
		header[i] = normalizeHeader(header[i])
	}
	var missing []string
	for _, name := range required {
		if !slices.Contains(header, normalizeHeader(name)) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewAppError(domain.CodeValidation, "missing columns: "+strings.Join(missing, ", "), nil)
	}

	var rows []BulkRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.NewAppError(domain.CodeValidation, "the file is not valid CSV", err)
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}
		if len(rows) == MaxBulkRows {
			return nil, domain.NewAppError(domain.CodeValidation, fmt.Sprintf("at most %d rows per upload", MaxBulkRows), nil)
		}
		row := BulkRow{Line: line, Values: make(map[string]string, len(header))}
		for i, name := range header {
			if i < len(rec) {
				row.Values[name] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, domain.NewAppError(domain.CodeValidation, "the file has no rows", nil)
	}
	return rows, nil
}

// normalizeHeader maps "First Name", "first_name" and "firstName" alike.
func normalizeHeader(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "\ufeff")
	return strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s))
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
