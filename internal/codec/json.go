package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"netorg/internal/domain"
)

// JSONCodec exports the device table as a JSON array of devices
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Export exports the device table to JSON
func (c *JSONCodec) Export(table *domain.DeviceTable, w io.Writer) error {
	devices := make([]domain.Device, 0, table.Len())
	for _, d := range table.Rows() {
		devices = append(devices, *d)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(devices); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
