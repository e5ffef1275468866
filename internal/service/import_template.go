package service

import (
	"github.com/xuri/excelize/v2"
)

// BuildImportTemplate returns an empty workbook with one sheet per quarter
// and the expected header row. Required headers are highlighted.
func BuildImportTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	requiredStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	required := map[string]bool{}
	for _, c := range RequiredColumns {
		required[c] = true
	}

	for i, sheet := range []string{"Q1", "Q2", "Q3", "Q4"} {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}

		for col, name := range ExpectedColumns {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(sheet, cell, name); err != nil {
				return nil, err
			}
			style := headerStyle
			if required[name] {
				style = requiredStyle
			}
			_ = f.SetCellStyle(sheet, cell, cell, style)

			colName, _ := excelize.ColumnNumberToName(col + 1)
			_ = f.SetColWidth(sheet, colName, colName, 18)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
