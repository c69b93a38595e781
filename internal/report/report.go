// Package report renders scan results and device table exports on the
// console.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"netorg/internal/format"
	"netorg/internal/scan"
)

const nameMargin = 2

// Console prints a scan analysis: a count summary followed by one section
// per non-empty bucket listing the device names in columns
type Console struct {
	w io.Writer
}

// NewConsole creates a reporter writing to w (os.Stdout when nil)
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{w: w}
}

// Report implements port.ScanReporter
func (c *Console) Report(analysis scan.Analysis) error {
	if len(analysis) == 0 {
		fmt.Fprintln(c.w, pterm.Warning.Sprint("No devices found."))
		return nil
	}

	tableData := pterm.TableData{{"Bucket", "Devices"}}
	for _, label := range scan.BucketOrder {
		if b := analysis.Bucket(label); b.Len() > 0 {
			tableData = append(tableData, []string{label, fmt.Sprint(b.Len())})
		}
	}

	table, err := pterm.DefaultTable.
		WithHasHeader(true).
		WithBoxed(false).
		WithData(tableData).
		Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	fmt.Fprintln(c.w, table)

	for _, label := range scan.BucketOrder {
		b := analysis.Bucket(label)
		if b.Len() == 0 {
			continue
		}
		fmt.Fprint(c.w, pterm.DefaultSection.Sprintf("%s (%d)", label, b.Len()))
		for _, line := range format.Lines(format.AdaptiveColumnize(displayNames(b), nameMargin)) {
			fmt.Fprintln(c.w, strings.TrimRight(line, " "))
		}
	}
	return nil
}

// displayNames substitutes the MAC for devices without a name
func displayNames(b *scan.Bucket) []string {
	names := make([]string, len(b.DeviceNames))
	for i, name := range b.DeviceNames {
		if name == "" {
			name = b.MACs[i]
		}
		names[i] = name
	}
	return names
}

// CSVOut writes an exported device table to a stream
type CSVOut struct {
	w io.Writer
}

// NewCSVOut creates a CSV sink writing to w (os.Stdout when nil)
func NewCSVOut(w io.Writer) *CSVOut {
	if w == nil {
		w = os.Stdout
	}
	return &CSVOut{w: w}
}

// Write implements port.DeviceTableCSVOut
func (o *CSVOut) Write(csv string) error {
	_, err := io.WriteString(o.w, csv)
	return err
}
