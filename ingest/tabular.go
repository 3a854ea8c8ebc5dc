package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// candidate delimiters, in tie-break order: comma wins ties.
var delimiters = []rune{',', ';', '\t'}

// TabularDecoder decodes delimited text (.csv, .txt) into raw records.
// The delimiter is detected from the first non-empty line.
type TabularDecoder struct{}

func (d *TabularDecoder) CanDecode(fileName string) bool {
	lower := strings.ToLower(fileName)
	return strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".txt")
}

func (d *TabularDecoder) Decode(data []byte) (*DecodeResult, error) {
	text := string(data)
	header := firstNonEmptyLine(text)
	if header == "" {
		return nil, fmt.Errorf("no content")
	}
	delim := detectDelimiter(header)

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	res := &DecodeResult{Kind: KindSpreadsheet}

	var headers []string
	rowNum := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("row %d: failed to parse: %v", rowNum, err))
			continue
		}
		if isBlankRow(row) {
			continue
		}
		if headers == nil {
			headers = make([]string, len(row))
			for i, h := range row {
				headers[i] = strings.Trim(strings.TrimSpace(h), `"'`)
			}
			continue
		}
		// Tolerate ragged trailing columns: a row survives with at least
		// half the header count, as long as something in it is non-blank.
		if len(row)*2 < len(headers) {
			continue
		}
		rec := NewRawRecord()
		for i, h := range headers {
			if i >= len(row) {
				break
			}
			rec.Set(h, row[i])
		}
		res.Candidates = append(res.Candidates, Candidate{Record: rec, Line: rowNum})
	}

	if headers == nil {
		return nil, fmt.Errorf("no header row")
	}
	return res, nil
}

// detectDelimiter picks the candidate that yields the most columns on the
// first non-empty line. Ties favor comma.
func detectDelimiter(line string) rune {
	best := ','
	bestCount := 0
	for _, d := range delimiters {
		n := len(strings.Split(line, string(d)))
		if n > bestCount {
			best = d
			bestCount = n
		}
	}
	return best
}

func firstNonEmptyLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
