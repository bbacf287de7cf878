package ledger

import (
	"context"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/attribution-service/internal/model"
)

const sheetName = "Attributions"

// ledgerHeader is the column order of the workbook sheet.
var ledgerHeader = []string{
	"Store", "Order ID", "Email", "Customer Name", "Phone",
	"Order Date", "Order Total", "Sales Rep", "Contact Date",
	"Manual Verification", "Review Reason", "Record Type", "NetSuite Phone",
}

// XLSX appends attribution records to a local workbook file, creating the
// file with a header row on first write. Appends are serialized; the
// workbook is rewritten whole on each append, which is fine at one order
// per webhook event.
type XLSX struct {
	mu   sync.Mutex
	path string
}

// NewXLSX creates an XLSX-file ledger at the given path.
func NewXLSX(path string) *XLSX {
	return &XLSX{path: path}
}

func (x *XLSX) Append(_ context.Context, rec model.AttributionRecord) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	file, sheet, err := x.open()
	if err != nil {
		return err
	}

	row := sheet.AddRow()
	for _, v := range recordCells(rec) {
		row.AddCell().SetString(v)
	}

	if err := file.Save(x.path); err != nil {
		return eris.Wrapf(err, "ledger: save workbook %s", x.path)
	}
	return nil
}

// open loads the workbook, creating it with a header row when absent.
func (x *XLSX) open() (*xlsx.File, *xlsx.Sheet, error) {
	if _, err := os.Stat(x.path); os.IsNotExist(err) {
		file := xlsx.NewFile()
		sheet, err := file.AddSheet(sheetName)
		if err != nil {
			return nil, nil, eris.Wrap(err, "ledger: add sheet")
		}
		header := sheet.AddRow()
		for _, h := range ledgerHeader {
			header.AddCell().SetString(h)
		}
		return file, sheet, nil
	}

	file, err := xlsx.OpenFile(x.path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "ledger: open workbook %s", x.path)
	}
	sheet, ok := file.Sheet[sheetName]
	if !ok {
		s, err := file.AddSheet(sheetName)
		if err != nil {
			return nil, nil, eris.Wrap(err, "ledger: add sheet")
		}
		sheet = s
	}
	return file, sheet, nil
}

func recordCells(rec model.AttributionRecord) []string {
	verified := "no"
	if rec.ManualVerification {
		verified = "yes"
	}
	return []string{
		rec.Store, rec.OrderID, rec.Email, rec.CustomerName, rec.Phone,
		rec.OrderDate, rec.OrderTotal, rec.SalesRep, rec.ContactDate,
		verified, rec.ReviewReason, rec.RecordType, rec.NetSuitePhone,
	}
}
