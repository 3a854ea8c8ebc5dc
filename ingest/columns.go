package ingest

import "strings"

// Canonical field names resolved by the column mapper.
const (
	FieldProductID        = "productId"
	FieldName             = "name"
	FieldCompanyName      = "companyName"
	FieldShopName         = "shopName"
	FieldPrice            = "price"
	FieldQuantity         = "quantity"
	FieldCategory         = "category"
	FieldGST              = "gst"
	FieldDescription      = "description"
	FieldCatalogueNo      = "catalogueNo"
	FieldStock            = "stock"
	FieldMinOrderQty      = "minOrderQty"
	FieldDiscountCategory = "discountCategory"
	FieldSAPCode          = "sapCode"
)

// AliasTable maps each canonical field to its ranked alias substrings, most
// preferred first. A raw header matches an alias when the lower-cased,
// whitespace-stripped header contains the alias anywhere.
type AliasTable map[string][]string

// DefaultAliases covers the header vocabulary seen across supplier
// spreadsheets and extracted price-list documents. Order matters: the first
// alias with any matching raw field wins.
func DefaultAliases() AliasTable {
	return AliasTable{
		FieldProductID:        {"productid", "itemcode", "catalogueno", "cat.no", "sku", "code", "id"},
		FieldName:             {"productname", "itemname", "name", "title"},
		FieldCompanyName:      {"companyname", "company", "manufacturer", "brand", "vendor"},
		FieldShopName:         {"shopname", "shop", "store", "outlet"},
		FieldPrice:            {"unitpriceininr", "unitprice", "price", "amount", "cost", "mrp", "rate"},
		FieldQuantity:         {"quantity", "qty", "units"},
		FieldCategory:         {"productcategory", "category", "group"},
		FieldGST:              {"gst", "tax", "vat"},
		FieldDescription:      {"description", "details", "desc", "remarks"},
		FieldCatalogueNo:      {"catalogueno", "catalogno", "catno"},
		FieldStock:            {"stock", "availability", "avail"},
		FieldMinOrderQty:      {"minorderqty", "minimumorder", "moq"},
		FieldDiscountCategory: {"discountcategory", "disccat", "dc"},
		FieldSAPCode:          {"sapcode", "sap"},
	}
}

// Resolve returns the value of the best-matching raw field for the given
// canonical field. The first alias in priority order that has any matching
// raw field wins; among raw fields matching that alias, the first in record
// iteration order wins. The second return is false when no alias matched;
// callers apply field-specific defaults.
func (a AliasTable) Resolve(rec *RawRecord, field string) (string, bool) {
	aliases, ok := a[field]
	if !ok {
		return "", false
	}
	for _, alias := range aliases {
		for _, key := range rec.Fields() {
			if strings.Contains(normalizeHeader(key), alias) {
				v, _ := rec.Get(key)
				return v, true
			}
		}
	}
	return "", false
}

// ResolveTrimmed is Resolve with surrounding whitespace removed from the value.
func (a AliasTable) ResolveTrimmed(rec *RawRecord, field string) (string, bool) {
	v, ok := a.Resolve(rec, field)
	return strings.TrimSpace(v), ok
}

// normalizeHeader lower-cases a raw header and strips all whitespace so that
// "Unit Price in INR" matches the alias "unitpriceininr".
func normalizeHeader(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '\t', '\n', '\r':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
