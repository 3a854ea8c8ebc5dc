package ingest

import (
	"regexp"
	"strings"
)

// Stock indicator glyphs used in supplier price lists.
const (
	StockInGlyph  = "✓"
	StockOutGlyph = "✗"
)

// Raw field names emitted for document-sourced records. They are deliberately
// loose; the column mapper resolves them like any spreadsheet header.
const (
	rawFieldCode        = "code"
	rawFieldDescription = "description"
	rawFieldDiscountCat = "discount category"
	rawFieldSAP         = "sap code"
	rawFieldStock       = "stock"
	rawFieldPrice       = "unit price"
	rawFieldMOQ         = "moq"
)

// headerLabels are the six expected column labels of a price-list table.
// A line is treated as the table header once at least minHeaderLabels of
// them appear, case-insensitively, with or without internal whitespace.
var headerLabels = [][]string{
	{"cat.no", "catno", "catalogue", "code"},
	{"discountcategory", "disc.cat", "disccat", "dc"},
	{"sap"},
	{"stock"},
	{"unitprice", "price"},
	{"minorderqty", "minimumorder", "moq"},
}

const minHeaderLabels = 4

const (
	codePat  = `([A-Za-z0-9][\w./-]*)`
	pricePat = `(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)`
	sapPat   = `([A-Z0-9][A-Z0-9-]{3,})`
	stockPat = `(` + StockInGlyph + `|` + StockOutGlyph + `|\d+)`
)

// lineMatcher extracts a raw record from one line of a recognized table.
// Matchers are tried in order, most specific first; the first match wins.
type lineMatcher struct {
	name string
	re   *regexp.Regexp
	// build maps the regexp's submatches onto a raw record. A nil return
	// means the match is rejected and later matchers get a chance.
	build func(m []string) *RawRecord
}

var lineMatchers = []lineMatcher{
	{
		// Full fixed-column row: code, category, optional reference,
		// stock, price, minimum order quantity.
		name: "full",
		re: regexp.MustCompile(`^` + codePat + `\s+(\d{1,3})\s+(?:` + sapPat + `\s+)?` +
			stockPat + `\s+` + pricePat + `\s+(\d+)\s*$`),
		build: func(m []string) *RawRecord {
			rec := NewRawRecord()
			rec.Set(rawFieldCode, m[1])
			rec.Set(rawFieldDiscountCat, m[2])
			if m[3] != "" {
				rec.Set(rawFieldSAP, m[3])
			}
			rec.Set(rawFieldStock, m[4])
			rec.Set(rawFieldPrice, m[5])
			rec.Set(rawFieldMOQ, m[6])
			return rec
		},
	},
	{
		// Bullet-separated variant: stock and reference omitted.
		name: "bullet",
		re: regexp.MustCompile(`^` + codePat + `\s+(\d{1,3})\s*•\s*` +
			pricePat + `\s+(\d+)\s*$`),
		build: func(m []string) *RawRecord {
			rec := NewRawRecord()
			rec.Set(rawFieldCode, m[1])
			rec.Set(rawFieldDiscountCat, m[2])
			rec.Set(rawFieldPrice, m[3])
			rec.Set(rawFieldMOQ, m[4])
			return rec
		},
	},
	{
		// Compact variant: code, category, price, minimum order quantity.
		name: "compact",
		re: regexp.MustCompile(`^` + codePat + `\s+(\d{1,3})\s+` +
			pricePat + `\s+(\d+)\s*$`),
		build: func(m []string) *RawRecord {
			rec := NewRawRecord()
			rec.Set(rawFieldCode, m[1])
			rec.Set(rawFieldDiscountCat, m[2])
			rec.Set(rawFieldPrice, m[3])
			rec.Set(rawFieldMOQ, m[4])
			return rec
		},
	},
	{
		// Descriptive variant: free-text description between code and
		// category.
		name: "descriptive",
		re: regexp.MustCompile(`^` + codePat + `\s+(.+?)\s+(\d{1,3})\s+(?:` + sapPat + `\s+)?` +
			stockPat + `\s+` + pricePat + `\s+(\d+)\s*$`),
		build: func(m []string) *RawRecord {
			rec := NewRawRecord()
			rec.Set(rawFieldCode, m[1])
			rec.Set(rawFieldDescription, m[2])
			rec.Set(rawFieldDiscountCat, m[3])
			if m[4] != "" {
				rec.Set(rawFieldSAP, m[4])
			}
			rec.Set(rawFieldStock, m[5])
			rec.Set(rawFieldPrice, m[6])
			rec.Set(rawFieldMOQ, m[7])
			return rec
		},
	},
}

var (
	columnSplitRe = regexp.MustCompile(`\t| {3,}`)
	decimalRe     = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+(?:\.\d+)?$|^\d+\.\d+$`)
	allDigitsRe   = regexp.MustCompile(`^\d+$`)
	alnumLeadRe   = regexp.MustCompile(`^[A-Za-z0-9]`)

	// discountContextRe recognizes a page-context line carrying a discount
	// category, tolerant of label wording variants.
	discountContextRe = regexp.MustCompile(`(?i)disc(?:ount)?\.?\s*cat(?:egory)?\.?\s*[:\-]?\s*(\d+)`)
)

// backfillWindow bounds how many of the most recent records a page-context
// discount category is propagated to.
const backfillWindow = 5

// ExtractRecords recovers structured candidates from the reading-ordered
// lines of a document. Row extraction only begins once a table header line
// is recognized on a page; earlier lines are still scanned for page-context
// metadata. Each record derives from exactly one line.
func ExtractRecords(pages [][]string) []Candidate {
	var out []Candidate
	for pageIdx, lines := range pages {
		pageNum := pageIdx + 1
		pageStart := len(out)
		headerSeen := false
		for lineIdx, line := range lines {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if !headerSeen {
				if isTableHeader(trimmed) {
					headerSeen = true
				} else {
					backfillDiscountCategory(out[pageStart:], trimmed)
				}
				continue
			}
			if rec := matchLine(trimmed); rec != nil {
				out = append(out, Candidate{
					Record: rec,
					Line:   lineIdx + 1,
					Page:   pageNum,
				})
				continue
			}
			backfillDiscountCategory(out[pageStart:], trimmed)
		}
	}
	return out
}

// matchLine runs the matcher cascade, then the columnar fallback.
func matchLine(line string) *RawRecord {
	for _, m := range lineMatchers {
		if sub := m.re.FindStringSubmatch(line); sub != nil {
			if rec := m.build(sub); rec != nil {
				return rec
			}
		}
	}
	return matchColumnar(line)
}

// matchColumnar splits a line on tabs or 3+ consecutive spaces and infers
// fields positionally. The record is kept only when a code and at least one
// of price or category were identified.
func matchColumnar(line string) *RawRecord {
	if !strings.Contains(line, "\t") && !strings.Contains(line, "   ") {
		return nil
	}
	var cols []string
	for _, c := range columnSplitRe.Split(line, -1) {
		c = strings.TrimSpace(c)
		if c != "" {
			cols = append(cols, c)
		}
	}
	if len(cols) < 2 {
		return nil
	}

	used := make([]bool, len(cols))
	code, category, price, stock := -1, -1, -1, -1

	for i, c := range cols {
		if alnumLeadRe.MatchString(c) && !allDigitsRe.MatchString(c) {
			code = i
			used[i] = true
			break
		}
	}
	if code == -1 {
		// All columns are bare numbers or none leads with an alphanumeric;
		// fall back to the literal first alphanumeric-leading column.
		for i, c := range cols {
			if alnumLeadRe.MatchString(c) {
				code = i
				used[i] = true
				break
			}
		}
		if code == -1 {
			return nil
		}
	}
	for i, c := range cols {
		if !used[i] && allDigitsRe.MatchString(c) && len(c) <= 3 {
			category = i
			used[i] = true
			break
		}
	}
	for i, c := range cols {
		if !used[i] && decimalRe.MatchString(c) {
			price = i
			used[i] = true
			break
		}
	}
	moq := -1
	for i := len(cols) - 1; i >= 0; i-- {
		if !used[i] && allDigitsRe.MatchString(cols[i]) {
			moq = i
			used[i] = true
			break
		}
	}
	for i, c := range cols {
		if !used[i] && (c == StockInGlyph || c == StockOutGlyph) {
			stock = i
			used[i] = true
			break
		}
	}

	if price == -1 && category == -1 {
		return nil
	}

	rec := NewRawRecord()
	rec.Set(rawFieldCode, cols[code])
	if category != -1 {
		rec.Set(rawFieldDiscountCat, cols[category])
	}
	if stock != -1 {
		rec.Set(rawFieldStock, cols[stock])
	}
	if price != -1 {
		rec.Set(rawFieldPrice, cols[price])
	}
	if moq != -1 {
		rec.Set(rawFieldMOQ, cols[moq])
	}
	return rec
}

// isTableHeader reports whether a line textually contains enough of the
// expected column labels to mark the start of tabular data.
func isTableHeader(line string) bool {
	norm := normalizeHeader(line)
	found := 0
	for _, group := range headerLabels {
		for _, label := range group {
			if strings.Contains(norm, label) {
				found++
				break
			}
		}
	}
	return found >= minHeaderLabels
}

// backfillDiscountCategory propagates a page-context discount category to the
// most recent records on the same page that lack one, at most backfillWindow
// of them, tagging each with a provenance note.
func backfillDiscountCategory(pageRecords []Candidate, line string) {
	m := discountContextRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	value := m[1]
	updated := 0
	for i := len(pageRecords) - 1; i >= 0 && updated < backfillWindow; i-- {
		rec := pageRecords[i].Record
		if v, ok := rec.Get(rawFieldDiscountCat); ok && strings.TrimSpace(v) != "" {
			continue
		}
		rec.Set(rawFieldDiscountCat, value)
		pageRecords[i].Notes = append(pageRecords[i].Notes, "discount category from page context")
		updated++
	}
}
