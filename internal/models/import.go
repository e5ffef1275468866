package models

// ImportRow is one data row of a quarterly sheet. DateOfPurchase and
// PaidAmount keep the raw cell value: a float64 for numeric cells, a string
// otherwise, nil when the cell is empty.
type ImportRow struct {
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	Category       string `json:"category"`
	Owner          string `json:"owner"`
	DateOfPurchase any    `json:"dateOfPurchase,omitempty"`
	PaidAmount     any    `json:"paidAmount,omitempty"`
	Section        string `json:"section"`
}

// ImportOptions control how rows become products.
type ImportOptions struct {
	DefaultStatus  ProductStatus `json:"defaultStatus"`
	SkipDuplicates bool          `json:"skipDuplicates"`
	CreateSellers  bool          `json:"createSellers"`
}

// DefaultImportOptions mirrors what a caller gets when it does not choose.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		DefaultStatus:  ProductStatusDraft,
		SkipDuplicates: true,
	}
}

// ImportError reports a problem with one row. Row 0 is a global error not tied
// to a row; otherwise Row is the 1-based sheet row (header is row 1).
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResult summarizes an import run.
type ImportResult struct {
	Success  bool          `json:"success"`
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}
