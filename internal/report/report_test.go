package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netorg/internal/scan"
)

func TestConsole_Report(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	analysis := scan.Analysis{
		"KNOWN_RESERVED_ACTIVE": {
			DeviceNames: []string{"Eero Beacon Lady Pit", "Kitchen Fridge"},
			MACs:        []string{"18:90:88:28:eb:5b", "68:a4:0e:2d:9a:91"},
		},
		"not_known_not_reserved_ACTIVE": {
			DeviceNames: []string{""},
			MACs:        []string{"aa:bb:cc:dd:ee:01"},
		},
		scan.BucketActiveUnclassified: {
			DeviceNames: []string{""},
			MACs:        []string{"aa:bb:cc:dd:ee:01"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewConsole(&buf).Report(analysis))
	out := buf.String()

	assert.Contains(t, out, "KNOWN_RESERVED_ACTIVE (2)")
	assert.Contains(t, out, "Eero Beacon Lady Pit")
	assert.Contains(t, out, "Kitchen Fridge")
	// nameless devices are listed by MAC
	assert.Contains(t, out, "aa:bb:cc:dd:ee:01")
	assert.NotContains(t, out, "KNOWN_RESERVED_not_active")

	// sections follow the bucket order
	first := strings.Index(out, "not_known_not_reserved_ACTIVE (1)")
	second := strings.Index(out, "KNOWN_RESERVED_ACTIVE (2)")
	third := strings.Index(out, "ACTIVE_UNCLASSIFIED (1)")
	require.True(t, first >= 0 && second >= 0 && third >= 0, out)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestConsole_ReportEmpty(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	var buf bytes.Buffer
	require.NoError(t, NewConsole(&buf).Report(scan.Analysis{}))
	assert.Contains(t, buf.String(), "No devices found.")
}

func TestCSVOut_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVOut(&buf).Write("mac,name\naa,b\n"))
	assert.Equal(t, "mac,name\naa,b\n", buf.String())
}
