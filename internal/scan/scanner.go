package scan

import (
	"strings"

	"netorg/internal/domain"
)

// BucketActiveUnclassified collects active devices that still need a group.
// It cuts across the state buckets: a device is in its state bucket and,
// when it qualifies, in this one too.
const BucketActiveUnclassified = "ACTIVE_UNCLASSIFIED"

// Bucket lists the devices of one classification
type Bucket struct {
	DeviceNames []string `json:"device_names"`
	MACs        []string `json:"macs"`
}

func (b *Bucket) add(d *domain.Device) {
	b.DeviceNames = append(b.DeviceNames, d.Name)
	b.MACs = append(b.MACs, d.MAC)
}

// Len returns the number of devices in the bucket
func (b *Bucket) Len() int {
	return len(b.MACs)
}

// Analysis maps bucket labels to buckets
type Analysis map[string]*Bucket

// Bucket returns the named bucket, or an empty one when nothing landed in it
func (a Analysis) Bucket(label string) *Bucket {
	if b, ok := a[label]; ok {
		return b
	}
	return &Bucket{}
}

// BucketOrder is the presentation order of the buckets. The all-false
// combination cannot occur and has no bucket.
var BucketOrder = []string{
	"not_known_not_reserved_ACTIVE",
	"not_known_RESERVED_not_active",
	"not_known_RESERVED_ACTIVE",
	"KNOWN_not_reserved_not_active",
	"KNOWN_not_reserved_ACTIVE",
	"KNOWN_RESERVED_not_active",
	"KNOWN_RESERVED_ACTIVE",
	BucketActiveUnclassified,
}

// Label returns the state bucket label of a device, e.g.
// KNOWN_RESERVED_ACTIVE or not_known_RESERVED_not_active
func Label(d *domain.Device) string {
	parts := []string{
		axis(d.Known, "KNOWN", "not_known"),
		axis(d.Reserved, "RESERVED", "not_reserved"),
		axis(d.Active, "ACTIVE", "not_active"),
	}
	return strings.Join(parts, "_")
}

func axis(flag bool, yes, no string) string {
	if flag {
		return yes
	}
	return no
}

// Scanner classifies the devices of a completed device table. It only reads
// the table.
type Scanner struct {
	table    *domain.DeviceTable
	analysis Analysis
}

// New creates a scanner over table
func New(table *domain.DeviceTable) *Scanner {
	return &Scanner{table: table}
}

// Run classifies every device and stores the result
func (s *Scanner) Run() {
	analysis := make(Analysis)
	for _, d := range s.table.Rows() {
		if !d.Known && !d.Reserved && !d.Active {
			continue
		}
		label := Label(d)
		bucketFor(analysis, label).add(d)

		if domain.ActiveUnclassified(d) {
			bucketFor(analysis, BucketActiveUnclassified).add(d)
		}
	}
	s.analysis = analysis
}

// Analysis returns the result of the last Run, or nil before Run
func (s *Scanner) Analysis() Analysis {
	return s.analysis
}

func bucketFor(a Analysis, label string) *Bucket {
	b, ok := a[label]
	if !ok {
		b = &Bucket{}
		a[label] = b
	}
	return b
}
