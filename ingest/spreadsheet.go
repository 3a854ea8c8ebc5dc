package ingest

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// maxSheetsPerUpload caps how many sheets of a workbook are decoded.
const maxSheetsPerUpload = 3

// dateLayouts are the cell formats normalized to YYYY-MM-DD.
var dateLayouts = []string{
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"2006/01/02",
	"2-Jan-06",
	"Jan 2, 2006",
	"2006-01-02 15:04:05",
}

// WorkbookDecoder decodes .xls/.xlsx workbooks into raw records, iterating
// up to maxSheetsPerUpload sheets. Cell values are coerced to normalized
// strings: numbers to a plain decimal string, dates to YYYY-MM-DD.
type WorkbookDecoder struct{}

func (d *WorkbookDecoder) CanDecode(fileName string) bool {
	lower := strings.ToLower(fileName)
	return strings.HasSuffix(lower, ".xls") || strings.HasSuffix(lower, ".xlsx")
}

func (d *WorkbookDecoder) Decode(data []byte) (*DecodeResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	if len(sheets) > maxSheetsPerUpload {
		sheets = sheets[:maxSheetsPerUpload]
	}

	res := &DecodeResult{Kind: KindSpreadsheet}
	sheetsWithData := 0
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("sheet %s: %v", sheet, err))
			continue
		}
		cands := decodeSheet(rows, sheet)
		if len(cands) > 0 {
			sheetsWithData++
		}
		res.Candidates = append(res.Candidates, cands...)
	}

	// Sheet tags only matter when more than one sheet yielded data.
	if sheetsWithData <= 1 {
		for i := range res.Candidates {
			res.Candidates[i].Sheet = ""
		}
	}
	return res, nil
}

func decodeSheet(rows [][]string, sheet string) []Candidate {
	var headers []string
	var cands []Candidate
	for rowNum, row := range rows {
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
		rec := NewRawRecord()
		for i, h := range headers {
			if i >= len(row) {
				break
			}
			if h == "" {
				continue
			}
			rec.Set(h, normalizeCellValue(row[i]))
		}
		if rec.Len() == 0 {
			continue
		}
		cands = append(cands, Candidate{Record: rec, Line: rowNum + 1, Sheet: sheet})
	}
	return cands
}

// normalizeCellValue trims a cell and coerces recognizable dates to
// YYYY-MM-DD and grouped numbers to a plain decimal string.
func normalizeCellValue(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return s
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	plain := strings.ReplaceAll(s, ",", "")
	if plain != s {
		if n, err := strconv.ParseFloat(plain, 64); err == nil {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
	}
	return s
}
