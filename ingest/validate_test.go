package ingest

import (
	"fmt"
	"strings"
	"testing"
)

func spreadsheetCandidate(line int, fields map[string]string) Candidate {
	rec := NewRawRecord()
	for _, key := range []string{"ProductID", "Name", "Qty", "Company", "Shop", "Price", "MOQ", "Stock", "GST"} {
		if v, ok := fields[key]; ok {
			rec.Set(key, v)
		}
	}
	return Candidate{Record: rec, Line: line}
}

func goodRow(line int, id string) Candidate {
	return spreadsheetCandidate(line, map[string]string{
		"ProductID": id,
		"Name":      "Widget " + id,
		"Qty":       "5",
		"Company":   "Acme",
		"Shop":      "MainShop",
		"Price":     "9.99",
	})
}

func TestValidateRejectionDoesNotHaltBatch(t *testing.T) {
	cfg := DefaultValidationConfig()

	var cands []Candidate
	for i := 1; i <= 10; i++ {
		c := goodRow(i+1, fmt.Sprintf("P%d", i))
		if i == 5 {
			c.Record.Set("Price", "abc")
		}
		cands = append(cands, c)
	}

	res := ValidateAndNormalize(cands, KindSpreadsheet, cfg)
	if len(res.Valid) != 9 {
		t.Fatalf("expected 9 valid records, got %d", len(res.Valid))
	}
	if len(res.Invalid) != 1 {
		t.Fatalf("expected 1 rejection, got %d", len(res.Invalid))
	}
	rej := res.Invalid[0]
	if rej.Line != 6 {
		t.Fatalf("expected rejection at line 6, got %d", rej.Line)
	}
	if len(rej.Issues) != 1 || !strings.Contains(rej.Issues[0], "not numeric") {
		t.Fatalf("unexpected issues: %v", rej.Issues)
	}
}

func TestValidateMissingRequiredFields(t *testing.T) {
	cfg := DefaultValidationConfig()

	c := spreadsheetCandidate(2, map[string]string{
		"ProductID": "P1",
		"Price":     "9.99",
	})
	res := ValidateAndNormalize([]Candidate{c}, KindSpreadsheet, cfg)
	if len(res.Invalid) != 1 {
		t.Fatalf("expected rejection, got %d valid", len(res.Valid))
	}
	// Name, quantity, company and shop are all missing.
	if len(res.Invalid[0].Issues) != 4 {
		t.Fatalf("expected 4 issues, got %v", res.Invalid[0].Issues)
	}
}

func TestValidateNegativeValuesWarn(t *testing.T) {
	cfg := DefaultValidationConfig()

	c := goodRow(2, "P1")
	c.Record.Set("Price", "-5.00")
	c.Record.Set("Qty", "-3")

	res := ValidateAndNormalize([]Candidate{c}, KindSpreadsheet, cfg)
	if len(res.Valid) != 1 {
		t.Fatalf("expected negative values to pass validation, got %d valid", len(res.Valid))
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", res.Warnings)
	}
	p := res.Valid[0]
	if p.Price != -5.00 || p.Quantity != -3 {
		t.Fatalf("expected values preserved, got price=%v qty=%d", p.Price, p.Quantity)
	}
}

func TestValidateMinOrderQtyMustBePositive(t *testing.T) {
	cfg := DefaultValidationConfig()

	c := goodRow(2, "P1")
	c.Record.Set("MOQ", "0")

	res := ValidateAndNormalize([]Candidate{c}, KindSpreadsheet, cfg)
	if len(res.Invalid) != 1 {
		t.Fatal("expected zero minimum order quantity to be rejected")
	}
	if !strings.Contains(res.Invalid[0].Issues[0], "positive integer") {
		t.Fatalf("unexpected issue: %v", res.Invalid[0].Issues)
	}
}

func TestValidateStockIndicator(t *testing.T) {
	cfg := DefaultValidationConfig()

	c := goodRow(2, "P1")
	c.Record.Set("Stock", StockInGlyph)
	res := ValidateAndNormalize([]Candidate{c}, KindSpreadsheet, cfg)
	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warning for a known glyph, got %v", res.Warnings)
	}
	if res.Valid[0].Stock != StockInGlyph {
		t.Fatalf("expected glyph preserved, got %q", res.Valid[0].Stock)
	}

	c = goodRow(2, "P2")
	c.Record.Set("Stock", "??")
	res = ValidateAndNormalize([]Candidate{c}, KindSpreadsheet, cfg)
	if len(res.Valid) != 1 {
		t.Fatal("expected unrecognized stock indicator to stay valid")
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "stock indicator") {
		t.Fatalf("expected stock warning, got %v", res.Warnings)
	}
}

func TestValidateGroupedNumbers(t *testing.T) {
	cfg := DefaultValidationConfig()

	c := goodRow(2, "P1")
	c.Record.Set("Price", "1,234.50")

	res := ValidateAndNormalize([]Candidate{c}, KindSpreadsheet, cfg)
	if len(res.Valid) != 1 {
		t.Fatalf("expected grouped price to parse, invalid=%v", res.Invalid)
	}
	if res.Valid[0].Price != 1234.50 {
		t.Fatalf("price = %v", res.Valid[0].Price)
	}
}

func TestValidateDocumentRecord(t *testing.T) {
	cfg := DefaultValidationConfig()

	rec := NewRawRecord()
	rec.Set("code", "AB-123")
	rec.Set("discount category", "12")
	rec.Set("stock", StockOutGlyph)
	rec.Set("unit price", "450.00")
	rec.Set("moq", "10")
	cand := Candidate{Record: rec, Line: 4, Page: 2}

	res := ValidateAndNormalize([]Candidate{cand}, KindDocument, cfg)
	if len(res.Valid) != 1 {
		t.Fatalf("expected valid document record, invalid=%v", res.Invalid)
	}
	p := res.Valid[0]
	if p.ProductID != "AB-123" {
		t.Fatalf("product id = %q", p.ProductID)
	}
	if p.Name != "AB-123" {
		t.Fatalf("expected name to fall back to the code, got %q", p.Name)
	}
	if p.CompanyName != "Unknown Company" || p.ShopName != "Unknown Shop" {
		t.Fatalf("expected vendor placeholders, got %q / %q", p.CompanyName, p.ShopName)
	}
	if p.DiscountCategory != "12" || p.MinOrderQty != 10 || p.Stock != StockOutGlyph {
		t.Fatalf("unexpected fields: %+v", p)
	}
	if p.Page != 2 {
		t.Fatalf("page = %d", p.Page)
	}
}

func TestValidateDocumentRequiresCodeAndPrice(t *testing.T) {
	cfg := DefaultValidationConfig()

	rec := NewRawRecord()
	rec.Set("discount category", "12")
	cand := Candidate{Record: rec, Line: 4, Page: 1}

	res := ValidateAndNormalize([]Candidate{cand}, KindDocument, cfg)
	if len(res.Invalid) != 1 {
		t.Fatal("expected rejection")
	}
	if len(res.Invalid[0].Issues) != 2 {
		t.Fatalf("expected code and price issues, got %v", res.Invalid[0].Issues)
	}
}

func TestGenerateProductID(t *testing.T) {
	a := generateProductID("GLASS")
	b := generateProductID("GLASS")
	if !strings.HasPrefix(a, "GLASS-") {
		t.Fatalf("unexpected id %q", a)
	}
	if a == b {
		t.Fatal("expected generated ids to be unique")
	}
	if !strings.HasPrefix(generateProductID(""), "UNKNOWN-") {
		t.Fatalf("expected UNKNOWN prefix for empty category")
	}
}

func TestValidateBackfillNoteBecomesWarning(t *testing.T) {
	cfg := DefaultValidationConfig()

	rec := NewRawRecord()
	rec.Set("code", "AB-1")
	rec.Set("unit price", "10.00")
	rec.Set("discount category", "42")
	cand := Candidate{Record: rec, Line: 7, Page: 3, Notes: []string{"discount category from page context"}}

	res := ValidateAndNormalize([]Candidate{cand}, KindDocument, cfg)
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "page 3 line 7") {
		t.Fatalf("expected positioned provenance warning, got %v", res.Warnings)
	}
}
