package service

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/utils"
)

// Column headers of a quarterly inventory sheet.
const (
	ColBrand          = "Brand"
	ColModel          = "Model"
	ColCategory       = "Category"
	ColOwner          = "Owner"
	ColDateOfPurchase = "Date Of Purchase"
	ColPaid           = "Paid"
)

var (
	// RequiredColumns must all be present in every accepted sheet.
	RequiredColumns = []string{ColBrand, ColModel, ColCategory, ColOwner}
	// ExpectedColumns is the full layout reported back on format errors.
	ExpectedColumns = []string{ColBrand, ColModel, ColCategory, ColOwner, ColDateOfPurchase, ColPaid}

	sectionSheets = map[string]bool{"Q1": true, "Q2": true, "Q3": true, "Q4": true}
)

// SheetFormatError rejects a whole workbook because one sheet does not have
// the expected layout.
type SheetFormatError struct {
	SheetName       string   `json:"sheetName"`
	Errors          []string `json:"errors"`
	FoundColumns    []string `json:"foundColumns"`
	ExpectedColumns []string `json:"expectedColumns"`
}

func (e *SheetFormatError) Error() string {
	return fmt.Sprintf("Invalid format in sheet %q: %s", e.SheetName, strings.Join(e.Errors, "; "))
}

// IsSectionSheet reports whether a sheet name is one of Q1..Q4, ignoring case.
func IsSectionSheet(name string) bool {
	return sectionSheets[strings.ToUpper(strings.TrimSpace(name))]
}

// ParseWorkbook reads an xlsx workbook and returns the data rows of its Q1..Q4
// sheets in workbook order. Other sheets are ignored. A section sheet without
// data or without a required column fails the whole parse with a
// *SheetFormatError; no section rows at all yields utils.ErrNoValidSheets.
func ParseWorkbook(r io.Reader) ([]models.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidWorkbook, err)
	}
	defer f.Close()

	var rows []models.ImportRow
	for _, sheet := range f.GetSheetList() {
		if !IsSectionSheet(sheet) {
			log.Debug().Str("sheet", sheet).Msg("Skipping non-section sheet")
			continue
		}

		raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: read sheet %q: %v", utils.ErrInvalidWorkbook, sheet, err)
		}

		sheetRows, err := parseSheet(sheet, raw)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("sheet", sheet).Int("rows", len(sheetRows)).Msg("Parsed section sheet")
		rows = append(rows, sheetRows...)
	}

	if len(rows) == 0 {
		return nil, utils.ErrNoValidSheets
	}
	return rows, nil
}

// parseSheet turns raw cell rows (header first) into import rows.
func parseSheet(sheet string, raw [][]string) ([]models.ImportRow, error) {
	var header []string
	if len(raw) > 0 {
		header = trimAll(raw[0])
	}

	data := raw
	if len(data) > 0 {
		data = data[1:]
	}
	data = dropBlankRows(data)

	if len(data) == 0 {
		return nil, &SheetFormatError{
			SheetName:       sheet,
			Errors:          []string{"No data found in Excel file"},
			FoundColumns:    nonEmpty(header),
			ExpectedColumns: ExpectedColumns,
		}
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if key == "" {
			continue
		}
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[normalizeHeader(col)]; !ok {
			missing = append(missing, "Missing required column: "+col)
		}
	}
	if len(missing) > 0 {
		return nil, &SheetFormatError{
			SheetName:       sheet,
			Errors:          missing,
			FoundColumns:    nonEmpty(header),
			ExpectedColumns: ExpectedColumns,
		}
	}

	section := strings.ToUpper(strings.TrimSpace(sheet))
	cell := func(row []string, col string) string {
		i, ok := index[normalizeHeader(col)]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]models.ImportRow, 0, len(data))
	for _, row := range data {
		out = append(out, models.ImportRow{
			Brand:          cell(row, ColBrand),
			Model:          cell(row, ColModel),
			Category:       cell(row, ColCategory),
			Owner:          cell(row, ColOwner),
			DateOfPurchase: typedCell(cell(row, ColDateOfPurchase)),
			PaidAmount:     typedCell(cell(row, ColPaid)),
			Section:        section,
		})
	}
	return out, nil
}

// normalizeHeader lowercases and collapses inner whitespace so that
// "Date of  purchase" matches "Date Of Purchase".
func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

// typedCell keeps numeric cells as float64 (dates arrive as serials) and
// everything else as text. Empty cells become nil.
func typedCell(v string) any {
	if v == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, r := range rows {
		for _, c := range r {
			if strings.TrimSpace(c) != "" {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

func nonEmpty(in []string) []string {
	out := []string{}
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
