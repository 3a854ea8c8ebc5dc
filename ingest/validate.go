package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"catalog-service/models"

	"github.com/google/uuid"
)

// ValidationConfig makes the required-field set and the vendor placeholders
// explicit configuration; the source formats in the wild disagree on both.
type ValidationConfig struct {
	Aliases AliasTable
	// RequiredSpreadsheet lists the canonical fields that must resolve to a
	// non-blank value for spreadsheet-sourced records.
	RequiredSpreadsheet []string
	// Document-sourced records assume a single known vendor per batch.
	DocumentCompany string
	DocumentShop    string
	// Placeholders applied when a spreadsheet carries no vendor identity.
	CompanyPlaceholder string
	ShopPlaceholder    string
}

func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		Aliases: DefaultAliases(),
		RequiredSpreadsheet: []string{
			FieldProductID, FieldName, FieldQuantity,
			FieldCompanyName, FieldShopName, FieldPrice,
		},
		DocumentCompany:    "Unknown Company",
		DocumentShop:       "Unknown Shop",
		CompanyPlaceholder: "Unknown Company",
		ShopPlaceholder:    "Unknown Shop",
	}
}

// RejectedRecord is a candidate that failed a required or type check, tagged
// with its position and every issue found.
type RejectedRecord struct {
	Line   int      `json:"line"`
	Sheet  string   `json:"sheet,omitempty"`
	Page   int      `json:"page,omitempty"`
	Issues []string `json:"issues"`
}

// ValidationResult partitions a batch of candidates.
type ValidationResult struct {
	Valid    []models.Product
	Invalid  []RejectedRecord
	Warnings []string
}

// ValidateAndNormalize applies per-field validation to each candidate and
// normalizes the clean ones into canonical products. A rejected record does
// not halt processing of subsequent records. Duplicate detection against the
// existing catalog is the merge layer's job, not done here.
func ValidateAndNormalize(cands []Candidate, kind SourceKind, cfg ValidationConfig) *ValidationResult {
	res := &ValidationResult{}
	for _, cand := range cands {
		p, issues, warnings := normalizeOne(cand, kind, cfg)
		res.Warnings = append(res.Warnings, warnings...)
		if len(issues) > 0 {
			res.Invalid = append(res.Invalid, RejectedRecord{
				Line:   cand.Line,
				Sheet:  cand.Sheet,
				Page:   cand.Page,
				Issues: issues,
			})
			continue
		}
		res.Valid = append(res.Valid, *p)
	}
	return res
}

func normalizeOne(cand Candidate, kind SourceKind, cfg ValidationConfig) (*models.Product, []string, []string) {
	var issues, warnings []string
	rec := cand.Record
	at := cfg.Aliases

	where := positionLabel(cand)

	if kind == KindSpreadsheet {
		for _, field := range cfg.RequiredSpreadsheet {
			if v, ok := at.ResolveTrimmed(rec, field); !ok || v == "" {
				issues = append(issues, fmt.Sprintf("missing required field %q", field))
			}
		}
	} else {
		if v, ok := at.ResolveTrimmed(rec, FieldProductID); !ok || v == "" {
			issues = append(issues, "missing required field \"code\"")
		}
		if v, ok := at.ResolveTrimmed(rec, FieldPrice); !ok || v == "" {
			issues = append(issues, "missing required field \"price\"")
		}
	}

	price := 0.0
	if raw, ok := at.ResolveTrimmed(rec, FieldPrice); ok && raw != "" {
		n, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			issues = append(issues, fmt.Sprintf("price %q is not numeric", raw))
		} else {
			if n < 0 {
				warnings = append(warnings, fmt.Sprintf("%s: negative price %v", where, n))
			}
			price = n
		}
	}

	quantity := 0
	if raw, ok := at.ResolveTrimmed(rec, FieldQuantity); ok && raw != "" {
		n, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			issues = append(issues, fmt.Sprintf("quantity %q is not numeric", raw))
		} else {
			if n < 0 {
				warnings = append(warnings, fmt.Sprintf("%s: negative quantity %v", where, n))
			}
			quantity = int(n)
		}
	}

	moq := 0
	if raw, ok := at.ResolveTrimmed(rec, FieldMinOrderQty); ok && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			issues = append(issues, fmt.Sprintf("minimum order quantity %q is not a positive integer", raw))
		} else {
			moq = n
		}
	}

	stock, _ := at.ResolveTrimmed(rec, FieldStock)
	if stock != "" && stock != StockInGlyph && stock != StockOutGlyph {
		if _, err := strconv.ParseFloat(stock, 64); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: unrecognized stock indicator %q", where, stock))
		}
	}

	gst := 0.0
	if raw, ok := at.ResolveTrimmed(rec, FieldGST); ok && raw != "" {
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			gst = n
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: non-numeric gst %q ignored", where, raw))
		}
	}

	if len(issues) > 0 {
		return nil, issues, warnings
	}

	category, _ := at.ResolveTrimmed(rec, FieldCategory)
	description, _ := at.ResolveTrimmed(rec, FieldDescription)

	id, _ := at.ResolveTrimmed(rec, FieldProductID)
	if id == "" {
		id = generateProductID(category)
	}

	name, _ := at.ResolveTrimmed(rec, FieldName)
	if name == "" {
		name = description
	}
	if name == "" {
		name = id
	}

	company, _ := at.ResolveTrimmed(rec, FieldCompanyName)
	shop, _ := at.ResolveTrimmed(rec, FieldShopName)
	if company == "" {
		if kind == KindDocument {
			company = cfg.DocumentCompany
		} else {
			company = cfg.CompanyPlaceholder
		}
	}
	if shop == "" {
		if kind == KindDocument {
			shop = cfg.DocumentShop
		} else {
			shop = cfg.ShopPlaceholder
		}
	}

	catalogueNo, _ := at.ResolveTrimmed(rec, FieldCatalogueNo)
	discountCat, _ := at.ResolveTrimmed(rec, FieldDiscountCategory)
	sap, _ := at.ResolveTrimmed(rec, FieldSAPCode)

	for _, note := range cand.Notes {
		warnings = append(warnings, fmt.Sprintf("%s: %s", where, note))
	}

	return &models.Product{
		ProductID:        id,
		Name:             name,
		CompanyName:      company,
		ShopName:         shop,
		Price:            price,
		Quantity:         quantity,
		Category:         category,
		GST:              gst,
		Description:      description,
		Sheet:            cand.Sheet,
		Page:             cand.Page,
		CatalogueNo:      catalogueNo,
		Stock:            stock,
		MinOrderQty:      moq,
		DiscountCategory: discountCat,
		SAPCode:          sap,
		CreatedAt:        time.Now().UTC(),
	}, nil, warnings
}

// generateProductID builds an id from the category (or "UNKNOWN") plus a
// uniqueness suffix. Generated ids are unique within a batch.
func generateProductID(category string) string {
	base := strings.TrimSpace(category)
	if base == "" {
		base = "UNKNOWN"
	}
	return fmt.Sprintf("%s-%s", base, uuid.New().String()[:8])
}

func positionLabel(cand Candidate) string {
	switch {
	case cand.Page > 0:
		return fmt.Sprintf("page %d line %d", cand.Page, cand.Line)
	case cand.Sheet != "":
		return fmt.Sprintf("sheet %s row %d", cand.Sheet, cand.Line)
	default:
		return fmt.Sprintf("row %d", cand.Line)
	}
}
