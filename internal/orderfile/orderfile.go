// Package orderfile reads order lists (order id + store name) from CSV or
// XLSX files for batch attribution.
package orderfile

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/attribution-service/internal/attribution"
)

// Read loads triggers from the file at path, dispatching on extension.
// Column order is order_id, store; a header row is skipped when the first
// cell reads "order_id".
func Read(path string) ([]attribution.Trigger, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, eris.Errorf("orderfile: unsupported file type %q", filepath.Ext(path))
	}
}

func readCSV(path string) ([]attribution.Trigger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "orderfile: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var triggers []attribution.Trigger
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "orderfile: read %s", path)
		}
		if t, ok := toTrigger(rec); ok {
			triggers = append(triggers, t)
		}
	}
	return triggers, nil
}

func readXLSX(path string) ([]attribution.Trigger, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "orderfile: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("orderfile: %s has no sheets", path)
	}

	var triggers []attribution.Trigger
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.Value
		}
		if t, ok := toTrigger(cells); ok {
			triggers = append(triggers, t)
		}
	}
	return triggers, nil
}

// toTrigger converts one row, skipping headers and blank lines.
func toTrigger(cells []string) (attribution.Trigger, bool) {
	if len(cells) < 2 {
		return attribution.Trigger{}, false
	}
	orderID := strings.TrimSpace(cells[0])
	store := strings.TrimSpace(cells[1])
	if orderID == "" || store == "" || strings.EqualFold(orderID, "order_id") {
		return attribution.Trigger{}, false
	}
	return attribution.Trigger{OrderID: orderID, Store: store}, true
}
