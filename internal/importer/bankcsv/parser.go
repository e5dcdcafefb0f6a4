// Package bankcsv parses bank CSV statements into planned-movement params.
// The header profile is auto-detected, so callers feed it whatever their
// bank exports.
package bankcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	enc "github.com/sversluys/walleto/internal/encoding"
	"github.com/sversluys/walleto/internal/movement"
)

const (
	maxNameLen   = 30
	fallbackName = "Imported movement"
)

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]movement.Params, error) {
	utf8r, err := enc.ToUTF8(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	rows, err := readAnyDelimiter(utf8r)
	if err != nil {
		return nil, err
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no known statement layout found in header")
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// readAnyDelimiter reads the file with ';' first (the European bank default)
// and falls back to ',' when that yields single-column rows.
func readAnyDelimiter(r io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}

	for _, comma := range []rune{';', ','} {
		cr := csv.NewReader(strings.NewReader(string(raw)))
		cr.Comma = comma
		cr.FieldsPerRecord = -1
		cr.LazyQuotes = true

		rows, err := cr.ReadAll()
		if err != nil {
			continue
		}

		for _, row := range rows {
			if len(row) > 1 {
				return rows, nil
			}
		}
	}

	return nil, fmt.Errorf("statement is not delimited CSV")
}

// colIndex maps column names to their position in the header row.
type colIndex map[string]int

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matches(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matches(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts movement params from data rows. Rows without a
// parsable date are footer noise and are skipped; a bad amount on a dated
// row is a real error.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRow int) ([]movement.Params, error) {
	var out []movement.Params

	for i, row := range rows {
		rowNum := headerRow + i + 2 // 1-based, past the header

		date, ok := parseDate(p, cellValue(row, cols[p.DateCol]))
		if !ok {
			continue
		}

		desc := cellValue(row, cols[p.DescCol])

		amount, err := parseAmount(p, cellValue(row, cols[p.AmountCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount: %w", rowNum, err)
		}

		if amount.IsZero() {
			continue
		}

		typ := movement.TypeCredit
		if amount.IsNegative() {
			typ = movement.TypeDebit
		}

		out = append(out, movement.Params{
			Name:        nameFrom(desc),
			Description: desc,
			Amount:      amount,
			DueDate:     date,
			Type:        typ,
		})
	}

	return out, nil
}

func parseDate(p *Profile, s string) (time.Time, bool) {
	for _, layout := range p.DateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// nameFrom derives a movement name from the statement description, keeping
// it inside the entity's 3-30 character bounds.
func nameFrom(desc string) string {
	name := strings.Join(strings.Fields(desc), " ")
	if utf8.RuneCountInString(name) < 3 {
		return fallbackName
	}

	if utf8.RuneCountInString(name) > maxNameLen {
		runes := []rune(name)
		name = strings.TrimSpace(string(runes[:maxNameLen]))
	}

	if utf8.RuneCountInString(name) < 3 {
		return fallbackName
	}

	return name
}
