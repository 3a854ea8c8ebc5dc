// Package ingest turns heterogeneous catalog uploads (delimited text,
// spreadsheets, page-based documents) into canonical products ready to be
// merged into the catalog.
package ingest

// RawRecord is an unnormalized field-name-to-text mapping extracted from one
// row or line of an upload. Field names are kept exactly as found in the
// source; iteration order is insertion order, which the column mapper relies
// on for tie-breaking.
type RawRecord struct {
	keys   []string
	values map[string]string
}

func NewRawRecord() *RawRecord {
	return &RawRecord{values: make(map[string]string)}
}

// Set stores a field value. Setting an existing field overwrites the value
// without changing its position.
func (r *RawRecord) Set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r *RawRecord) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Fields returns the field names in insertion order.
func (r *RawRecord) Fields() []string {
	return r.keys
}

func (r *RawRecord) Len() int {
	return len(r.keys)
}

// SourceKind distinguishes the two decoder families; they carry different
// required-field sets through validation.
type SourceKind int

const (
	KindSpreadsheet SourceKind = iota
	KindDocument
)

// Candidate is a raw record plus its position in the source artifact.
type Candidate struct {
	Record *RawRecord
	Line   int      // 1-based row/line number within the sheet or page
	Sheet  string   // originating sheet, set when several sheets yield data
	Page   int      // originating page for document sources, 1-based
	Notes  []string // provenance notes, e.g. a backfilled discount category
}

// DecodeResult is the output of one decoder run over a single file.
type DecodeResult struct {
	Kind       SourceKind
	Candidates []Candidate
	Warnings   []string
}
