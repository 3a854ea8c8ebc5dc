package ingest

import "testing"

func TestDetectDelimiter(t *testing.T) {
	cases := []struct {
		line string
		want rune
	}{
		{"a,b,c", ','},
		{"a;b;c", ';'},
		{"a\tb\tc", '\t'},
		{"a,b;c", ','}, // tie favors comma
		{"plain", ','},
	}
	for _, tc := range cases {
		if got := detectDelimiter(tc.line); got != tc.want {
			t.Fatalf("detectDelimiter(%q) = %q, want %q", tc.line, got, tc.want)
		}
	}
}

func TestTabularDecodeSemicolon(t *testing.T) {
	d := &TabularDecoder{}
	res, err := d.Decode([]byte("a;b;c\n1;2;3\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(res.Candidates))
	}
	rec := res.Candidates[0].Record
	for key, want := range map[string]string{"a": "1", "b": "2", "c": "3"} {
		if v, _ := rec.Get(key); v != want {
			t.Fatalf("field %q = %q, want %q", key, v, want)
		}
	}
	if res.Candidates[0].Line != 2 {
		t.Fatalf("expected line 2, got %d", res.Candidates[0].Line)
	}
}

func TestTabularDecodeQuotedHeaders(t *testing.T) {
	d := &TabularDecoder{}
	res, err := d.Decode([]byte("\"Product ID\",\"Name\"\nP1,Widget\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(res.Candidates))
	}
	if v, ok := res.Candidates[0].Record.Get("Product ID"); !ok || v != "P1" {
		t.Fatalf("expected quote-stripped header, got %q (ok=%v)", v, ok)
	}
}

func TestTabularDecodeRaggedAndBlankRows(t *testing.T) {
	d := &TabularDecoder{}
	res, err := d.Decode([]byte("a,b,c,d\n1,2,3,4\n\n9\n5,6,7\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// "9" alone has fewer than half the header columns and is dropped;
	// "5,6,7" survives with a missing trailing field.
	if len(res.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(res.Candidates))
	}
	last := res.Candidates[1].Record
	if _, ok := last.Get("d"); ok {
		t.Fatal("expected missing trailing field to be absent")
	}
}

func TestTabularDecodeEmpty(t *testing.T) {
	d := &TabularDecoder{}
	if _, err := d.Decode([]byte("  \n\n")); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestTabularCanDecode(t *testing.T) {
	d := &TabularDecoder{}
	if !d.CanDecode("list.CSV") || !d.CanDecode("notes.txt") {
		t.Fatal("expected csv/txt to be accepted")
	}
	if d.CanDecode("book.xlsx") {
		t.Fatal("expected xlsx to be rejected")
	}
}
