package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/mdoutline/internal/doctree"
)

const csvBatchRows = 20

// CSVParser handles CSV files. Each batch of rows becomes a level-1 section
// and each row a level-2 headline named by its first non-empty cell, so rows
// fold individually.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	b := doctree.NewBuilder()
	if len(records) == 0 {
		return b.Tree(trimExt(filename)), nil
	}
	headers, rows := records[0], records[1:]

	for i, row := range rows {
		// Line numbers are 1-indexed and the header is line 1.
		line := i + 2
		if i%csvBatchRows == 0 {
			last := min(i+csvBatchRows, len(rows)) + 1
			b.Heading(&doctree.DocNode{Title: fmt.Sprintf("Rows %d-%d", line, last), Level: 1})
		}
		b.Heading(&doctree.DocNode{Title: rowTitle(row, line), Level: 2})
		b.Text(rowFields(headers, row))
	}
	return b.Tree(trimExt(filename)), nil
}

func rowTitle(row []string, line int) string {
	for _, cell := range row {
		if c := strings.TrimSpace(cell); c != "" {
			return c
		}
	}
	return fmt.Sprintf("Row %d", line)
}

// rowFields lists a row as "header: value" lines. Cells beyond the header
// row are listed bare.
func rowFields(headers, row []string) string {
	lines := make([]string, 0, len(row))
	for j, cell := range row {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		if j < len(headers) && headers[j] != "" {
			lines = append(lines, headers[j]+": "+cell)
		} else {
			lines = append(lines, cell)
		}
	}
	return strings.Join(lines, "\n")
}
