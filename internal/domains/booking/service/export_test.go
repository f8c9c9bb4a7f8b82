package service

import "github.com/xuri/excelize/v2"

// ApplyColumnWidth exposes applyColumnWidths to the external test package.
func ApplyColumnWidth(f *excelize.File, sheet, from, to string, width float64) error {
	return applyColumnWidths(f, sheet, []columnWidth{{from: from, to: to, width: width}})
}
