package reports

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	sheetInward  = "Inward"
	sheetOutward = "Outward"
)

// Workbook builds the two-sheet export: the inward register and the outward
// register, each closed by a totals row.
func Workbook(in []TransactionRow, out []OutboundRow) (*excelize.File, error) {
	f := excelize.NewFile()
	printer := message.NewPrinter(language.English)

	if err := f.SetSheetName("Sheet1", sheetInward); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(sheetOutward); err != nil {
		return nil, err
	}

	inHeader := []interface{}{"Invoice", "Supplier", "Date", "Product Code", "Product", "Quantity", "Unit Price", "Total"}
	if err := f.SetSheetRow(sheetInward, "A1", &inHeader); err != nil {
		return nil, err
	}
	var inQty int64
	inTotal := decimal.Zero
	for i, row := range in {
		cell := fmt.Sprintf("A%d", i+2)
		values := []interface{}{
			row.InvoiceNumber, row.SupplierName, row.InwardStockDate.Format(dateLayout),
			row.ProductCode, row.ProductName, row.Quantity,
			row.UnitPrice.String(), row.Total.String(),
		}
		if err := f.SetSheetRow(sheetInward, cell, &values); err != nil {
			return nil, err
		}
		inQty += row.Quantity
		inTotal = inTotal.Add(row.Total)
	}
	inFooter := []interface{}{"Total", "", "", "", "", printer.Sprintf("%d", inQty), "", inTotal.String()}
	if err := f.SetSheetRow(sheetInward, fmt.Sprintf("A%d", len(in)+2), &inFooter); err != nil {
		return nil, err
	}

	outHeader := []interface{}{"Invoice", "Branch", "Date", "Product Code", "Product", "Qty Requested", "Total"}
	if err := f.SetSheetRow(sheetOutward, "A1", &outHeader); err != nil {
		return nil, err
	}
	var outQty int64
	outTotal := decimal.Zero
	for i, row := range out {
		cell := fmt.Sprintf("A%d", i+2)
		values := []interface{}{
			row.InvoiceNumber, row.BranchName, row.OutwardDate.Format(dateLayout),
			row.ProductCode, row.ProductName, row.QtyRequested, row.Total.String(),
		}
		if err := f.SetSheetRow(sheetOutward, cell, &values); err != nil {
			return nil, err
		}
		outQty += row.QtyRequested
		outTotal = outTotal.Add(row.Total)
	}
	outFooter := []interface{}{"Total", "", "", "", "", printer.Sprintf("%d", outQty), outTotal.String()}
	if err := f.SetSheetRow(sheetOutward, fmt.Sprintf("A%d", len(out)+2), &outFooter); err != nil {
		return nil, err
	}

	return f, nil
}
