package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/user/listing-collector/internal/entity"
)

const (
	productsSheet = "Products"
	summarySheet  = "Summary"
)

// SpreadsheetSummary is the content of the Summary sheet.
type SpreadsheetSummary struct {
	CollectionName string
	Collected      int
	TotalAvailable int
	CollectedAt    string
}

// WriteSpreadsheet writes a workbook with a Products sheet (ID, Product URL,
// SKU) and a Summary sheet to path.
func WriteSpreadsheet(path string, items []entity.CollectedItem, summary SpreadsheetSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", productsSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(productsSheet, "A1", &[]any{"ID", "Product URL", "SKU"}); err != nil {
		return err
	}
	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{i + 1, item.URL, SKU(item.URL)}
		if err := f.SetSheetRow(productsSheet, cell, &row); err != nil {
			return fmt.Errorf("writing product row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(productsSheet, "B", "B", 80); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	rows := [][]any{
		{"Collection", summary.CollectionName},
		{"Products Collected", summary.Collected},
		{"Total Available", summary.TotalAvailable},
		{"Date Collected", summary.CollectedAt},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 22); err != nil {
		return err
	}

	return f.SaveAs(path)
}
