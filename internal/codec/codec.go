// Package codec converts netorg data to and from its file formats: the
// known-devices YAML file and the device table exports.
package codec

import (
	"fmt"
	"io"

	"netorg/internal/domain"
)

// Exporter writes a device table in one format
type Exporter interface {
	Export(table *domain.DeviceTable, w io.Writer) error
	Format() string
}

// Exporters lists the supported export formats
func Exporters() []Exporter {
	return []Exporter{NewCSVCodec(), NewJSONCodec()}
}

// ExporterFor returns the exporter for format
func ExporterFor(format string) (Exporter, error) {
	for _, e := range Exporters() {
		if e.Format() == format {
			return e, nil
		}
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}
