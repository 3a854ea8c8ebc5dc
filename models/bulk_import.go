package models

// ImportSummary is the aggregate outcome of one upload batch. Counts are
// summed across files in selection order; a fully-failed file contributes
// zero to Success/Skipped and one or more entries to Errors.
type ImportSummary struct {
	Success  int      `json:"success"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ImportValidation is the dry-run counterpart of ImportSummary: the batch is
// parsed and validated but nothing is committed to the catalog.
type ImportValidation struct {
	TotalRecords   int      `json:"total_records"`
	ValidRecords   int      `json:"valid_records"`
	InvalidRecords int      `json:"invalid_records"`
	DuplicateIDs   []string `json:"duplicate_ids"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings"`
}

// AppendPayload is the per-file catalog mutation produced by the pipeline,
// consumed by the repository's append entry point.
type AppendPayload struct {
	Products []Product `json:"products"`
	FileName string    `json:"fileName"`
}
