package codec

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"netorg/internal/domain"
)

// CSVHeader is the column order of the CSV export
var CSVHeader = []string{"mac", "name", "group", "ip", "known", "reserved", "active"}

// CSVCodec exports the device table as CSV, one row per device in table
// order
type CSVCodec struct{}

// NewCSVCodec creates a new CSV codec
func NewCSVCodec() *CSVCodec {
	return &CSVCodec{}
}

// Format returns the codec format identifier
func (c *CSVCodec) Format() string {
	return "csv"
}

// Export writes the header and every row
func (c *CSVCodec) Export(table *domain.DeviceTable, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, d := range table.Rows() {
		record := []string{
			d.MAC,
			d.Name,
			d.Group,
			d.IP,
			strconv.FormatBool(d.Known),
			strconv.FormatBool(d.Reserved),
			strconv.FormatBool(d.Active),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", d.MAC, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
