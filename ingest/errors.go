package ingest

import "fmt"

// FormatError reports a file whose extension no registered decoder accepts.
// It is recorded as a per-file error string; the batch continues.
type FormatError struct {
	FileName string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.FileName)
}

// ParseError reports a file whose payload could not be decoded at all
// (corrupt workbook, unreadable document). It carries the underlying cause
// and is recorded per-file without aborting the batch.
type ParseError struct {
	FileName string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.FileName, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
