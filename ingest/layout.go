package ingest

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// rowEpsilon is the Y tolerance for grouping fragments onto one line;
	// it absorbs sub-pixel baseline jitter.
	rowEpsilon = 2.0
	// wordGapFactor of the font size marks a word boundary within a line.
	wordGapFactor = 0.3
	// columnGapFactor of the font size marks a column boundary; the gap is
	// rendered as a 3-space run so downstream column splitting can see it.
	columnGapFactor = 2.0
)

// TextFragment is one positioned piece of page text.
type TextFragment struct {
	Text     string
	X, Y     float64
	W        float64
	FontSize float64
}

// ExtractDocumentLines converts a PDF payload into reading-ordered text
// lines, one slice per page, pages in document order.
func ExtractDocumentLines(data []byte) ([][]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	totalPages := reader.NumPage()
	pages := make([][]string, 0, totalPages)
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		content := page.Content()
		frags := make([]TextFragment, 0, len(content.Text))
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			frags = append(frags, TextFragment{Text: t.S, X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize})
		}
		pages = append(pages, LinesFromFragments(frags))
	}
	return pages, nil
}

// LinesFromFragments groups positioned fragments into visually-distinct rows
// and renders each row left-to-right. Rows are ordered top of page first
// (descending Y), matching natural reading order.
func LinesFromFragments(frags []TextFragment) []string {
	if len(frags) == 0 {
		return nil
	}

	type row struct {
		y     float64
		frags []TextFragment
	}
	var rows []row
	for _, f := range frags {
		placed := false
		for i := range rows {
			if math.Abs(rows[i].y-f.Y) < rowEpsilon {
				rows[i].frags = append(rows[i].frags, f)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, row{y: f.Y, frags: []TextFragment{f}})
		}
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		sort.Slice(r.frags, func(i, j int) bool { return r.frags[i].X < r.frags[j].X })
		lines = append(lines, renderRow(r.frags))
	}
	return lines
}

// renderRow joins a row's fragments, inserting a single space at word
// boundaries and a wide run at column-sized gaps.
func renderRow(frags []TextFragment) string {
	var b strings.Builder
	for i, f := range frags {
		if i > 0 {
			prev := frags[i-1]
			gap := f.X - (prev.X + prev.W)
			size := prev.FontSize
			if size <= 0 {
				size = 10
			}
			switch {
			case gap >= columnGapFactor*size:
				b.WriteString("   ")
			case gap >= wordGapFactor*size:
				b.WriteString(" ")
			}
		}
		b.WriteString(f.Text)
	}
	return b.String()
}
