package ingest

import "catalog-service/models"

// MergeResult is the outcome of deduplicating one file's normalized records
// against the existing catalog.
type MergeResult struct {
	Appended   []models.Product
	Skipped    int
	SkippedIDs []string
}

// MergeIntoCatalog partitions newly normalized records into those to append
// and those skipped as duplicates of existing product ids. Records are only
// compared against the existing catalog, not against each other: generated
// ids are batch-unique upstream, and explicit ids reused across rows are
// intentionally both kept. Every appended record is stamped with the batch's
// source file name.
func MergeIntoCatalog(existing map[string]struct{}, batch []models.Product, fileName string) MergeResult {
	res := MergeResult{Appended: make([]models.Product, 0, len(batch))}
	for _, p := range batch {
		if _, dup := existing[p.ProductID]; dup {
			res.Skipped++
			res.SkippedIDs = append(res.SkippedIDs, p.ProductID)
			continue
		}
		p.SourceFile = fileName
		res.Appended = append(res.Appended, p)
	}
	return res
}
