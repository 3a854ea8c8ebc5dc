package ingest

import (
	"fmt"
	"strings"

	"catalog-service/models"

	"go.uber.org/zap"
)

// Decoder turns one upload's payload into raw record candidates.
type Decoder interface {
	// CanDecode reports whether this decoder handles the given file name.
	CanDecode(fileName string) bool

	// Decode parses the payload. A returned error means the payload could
	// not be decoded at all; per-row problems surface later in validation.
	Decode(data []byte) (*DecodeResult, error)
}

// Registry holds decoders in registration order; the first decoder that
// accepts a file name wins.
type Registry struct {
	decoders []Decoder
}

// NewRegistry returns a registry with all built-in decoders: delimited text,
// workbooks, and page-based documents.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(&TabularDecoder{})
	r.Register(&WorkbookDecoder{})
	r.Register(&DocumentDecoder{})
	return r
}

func (r *Registry) Register(d Decoder) {
	r.decoders = append(r.decoders, d)
}

// DecoderFor returns the first decoder accepting the file name, or nil.
func (r *Registry) DecoderFor(fileName string) Decoder {
	for _, d := range r.decoders {
		if d.CanDecode(fileName) {
			return d
		}
	}
	return nil
}

// DocumentDecoder decodes page-based documents (.pdf): positioned text is
// reassembled into reading-ordered lines, then the pattern cascade recovers
// structured records.
type DocumentDecoder struct{}

func (d *DocumentDecoder) CanDecode(fileName string) bool {
	return strings.HasSuffix(strings.ToLower(fileName), ".pdf")
}

func (d *DocumentDecoder) Decode(data []byte) (*DecodeResult, error) {
	pages, err := ExtractDocumentLines(data)
	if err != nil {
		return nil, err
	}
	return &DecodeResult{
		Kind:       KindDocument,
		Candidates: ExtractRecords(pages),
	}, nil
}

// UploadFile is one file of an upload batch.
type UploadFile struct {
	Name string
	Data []byte
}

// BatchResult is the full outcome of a pipeline run: the aggregate summary
// plus one append payload per file that produced records. The caller commits
// the payloads; the pipeline itself never touches the catalog store.
type BatchResult struct {
	Summary models.ImportSummary
	Appends []models.AppendPayload
	// SkippedIDs lists the product ids skipped as catalog duplicates.
	SkippedIDs []string
}

// Pipeline wires the decoder registry and validation config into a batch
// processor.
type Pipeline struct {
	registry *Registry
	cfg      ValidationConfig
}

func NewPipeline(registry *Registry, cfg ValidationConfig) *Pipeline {
	return &Pipeline{registry: registry, cfg: cfg}
}

// Run processes the files sequentially in selection order. knownIDs is the
// catalog's duplicate-id set, read once by the caller before the batch; it
// is advanced after each file's append so a batch containing the same ids
// twice dedups the later occurrence. Every failure is captured as a per-file
// error string; nothing aborts the remaining files.
func (p *Pipeline) Run(knownIDs map[string]struct{}, files []UploadFile) *BatchResult {
	known := make(map[string]struct{}, len(knownIDs))
	for id := range knownIDs {
		known[id] = struct{}{}
	}

	res := &BatchResult{
		Summary: models.ImportSummary{Errors: []string{}, Warnings: []string{}},
	}

	for _, file := range files {
		dec := p.registry.DecoderFor(file.Name)
		if dec == nil {
			ferr := &FormatError{FileName: file.Name}
			res.Summary.Errors = append(res.Summary.Errors, ferr.Error())
			continue
		}

		decoded, err := dec.Decode(file.Data)
		if err != nil {
			perr := &ParseError{FileName: file.Name, Err: err}
			zap.L().Warn("upload failed to decode",
				zap.String("file", file.Name), zap.Error(err))
			res.Summary.Errors = append(res.Summary.Errors, perr.Error())
			continue
		}
		for _, w := range decoded.Warnings {
			res.Summary.Warnings = append(res.Summary.Warnings, fmt.Sprintf("%s: %s", file.Name, w))
		}

		vr := ValidateAndNormalize(decoded.Candidates, decoded.Kind, p.cfg)
		for _, rej := range vr.Invalid {
			res.Summary.Errors = append(res.Summary.Errors, fmt.Sprintf(
				"%s %s: %v", file.Name, positionLabel(Candidate{Line: rej.Line, Sheet: rej.Sheet, Page: rej.Page}), rej.Issues))
		}
		for _, w := range vr.Warnings {
			res.Summary.Warnings = append(res.Summary.Warnings, fmt.Sprintf("%s %s", file.Name, w))
		}

		merged := MergeIntoCatalog(known, vr.Valid, file.Name)
		res.Summary.Success += len(merged.Appended)
		res.Summary.Skipped += merged.Skipped
		res.SkippedIDs = append(res.SkippedIDs, merged.SkippedIDs...)
		if len(merged.Appended) > 0 {
			for _, ap := range merged.Appended {
				known[ap.ProductID] = struct{}{}
			}
			res.Appends = append(res.Appends, models.AppendPayload{
				Products: merged.Appended,
				FileName: file.Name,
			})
		}

		zap.L().Info("upload processed",
			zap.String("file", file.Name),
			zap.Int("appended", len(merged.Appended)),
			zap.Int("skipped", merged.Skipped),
			zap.Int("rejected", len(vr.Invalid)),
		)
	}

	return res
}
