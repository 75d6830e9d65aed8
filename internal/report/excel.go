package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pablomc88/megtools/domain/groups"
)

const comparisonSheet = "Comparisons"

// ExportComparisons writes the full pairwise comparison table to an xlsx
// workbook, one row per pair in canonical enumeration order.
func ExportComparisons(path string, comps []groups.Comparison) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", comparisonSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"Group I", "Group J", "Mean diff", "q", "p-value", "Cohen's d", "Reject H0"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(comparisonSheet, cell, h); err != nil {
			return err
		}
	}

	for row, c := range comps {
		values := []interface{}{c.I, c.J, c.MeanDiff, c.QStat, c.PValue, c.EffectSize, c.Reject}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(comparisonSheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
