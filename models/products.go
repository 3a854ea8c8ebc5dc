package models

import "time"

// Product is the catalog's unit of truth. Once merged into the catalog a
// product is never mutated by the ingestion pipeline; later edits go through
// the regular update path.
type Product struct {
	ProductID   string  `json:"productId"`
	Name        string  `json:"name"`
	CompanyName string  `json:"companyName"`
	ShopName    string  `json:"shopName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category,omitempty"`
	GST         float64 `json:"gst,omitempty"`
	Description string  `json:"description,omitempty"`

	// Provenance: the upload that produced this record, plus sheet/page
	// when the source was a workbook or a page-based document.
	SourceFile string `json:"sourceFile"`
	Sheet      string `json:"sheet,omitempty"`
	Page       int    `json:"page,omitempty"`

	// Fields preserved from document-sourced price lists.
	CatalogueNo      string `json:"catalogueNo,omitempty"`
	Stock            string `json:"stock,omitempty"`
	MinOrderQty      int    `json:"minOrderQty,omitempty"`
	DiscountCategory string `json:"discountCategory,omitempty"`
	SAPCode          string `json:"sapCode,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
