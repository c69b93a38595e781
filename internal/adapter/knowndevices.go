package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"netorg/internal/codec"
	"netorg/internal/domain"
)

// KnownDevicesFile stores known devices in a YAML file (devices.yml)
type KnownDevicesFile struct {
	path  string
	codec *codec.KnownDevicesYAML
	log   logrus.FieldLogger
}

// NewKnownDevicesFile creates a store for path. The file does not need to
// exist yet.
func NewKnownDevicesFile(path string, opts ...Option) *KnownDevicesFile {
	o := newOptions(opts)
	return &KnownDevicesFile{
		path:  path,
		codec: codec.NewKnownDevicesYAML(),
		log:   o.log,
	}
}

// Path returns the file location
func (k *KnownDevicesFile) Path() string {
	return k.path
}

// Load reads the known devices. A missing file holds no devices.
func (k *KnownDevicesFile) Load(ctx context.Context) ([]domain.KnownDevice, error) {
	data, err := os.ReadFile(k.path)
	if errors.Is(err, os.ErrNotExist) {
		k.log.Debugf("%s not found", k.path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read known devices: %w", err)
	}

	devices, err := k.codec.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k.path, err)
	}
	k.log.Debugf("Loaded %d known devices from %s", len(devices), k.path)
	return devices, nil
}

// Save rewrites the file from the table and logs which devices were added
// or dropped. An unchanged file is left alone.
func (k *KnownDevicesFile) Save(ctx context.Context, table *domain.DeviceTable) error {
	before, err := k.Load(ctx)
	unreadable := err != nil
	if unreadable {
		k.log.Warnf("Replacing unreadable %s: %v", k.path, err)
		before = nil
	}

	for _, d := range table.Filter(domain.IsStaleReservation) {
		k.log.Debugf("Skipping %s,%s", d.Name, d.MAC)
	}
	after := domain.KnownDevicesView(table)

	diff := DiffKnownDevices(before, after)
	if !diff.Empty() || unreadable {
		var buf bytes.Buffer
		if err := k.codec.Export(after, &buf); err != nil {
			return err
		}
		if err := WriteFileAtomic(k.path, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("write known devices: %w", err)
		}
	}

	k.logChanges(diff)
	return nil
}

func (k *KnownDevicesFile) logChanges(diff KnownDevicesDiff) {
	if diff.Empty() {
		k.log.Infof("There are no changes to known devices (%s)", filepath.Base(k.path))
		return
	}
	k.log.Infof("Known devices (%s) differences are as follows:", filepath.Base(k.path))
	if len(diff.Added) == 0 {
		k.log.Info("  There are no new devices")
	} else {
		k.log.Info("  Adding devices:")
		for _, d := range diff.Added {
			k.log.Infof("    %s: %s %s", d.Group, d.Name, d.MAC)
		}
	}
	if len(diff.Removed) > 0 {
		k.log.Info("  Removing devices:")
		for _, d := range diff.Removed {
			k.log.Infof("    %s: %s %s", d.Group, d.Name, d.MAC)
		}
	}
}

// KnownDevicesDiff lists entries present only after or only before a save
type KnownDevicesDiff struct {
	Added   []domain.KnownDevice
	Removed []domain.KnownDevice
}

// Empty reports whether nothing changed
func (d KnownDevicesDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// DiffKnownDevices compares two known-device lists entry by entry. A device
// that moved group or was renamed shows up as removed and added.
func DiffKnownDevices(before, after []domain.KnownDevice) KnownDevicesDiff {
	inBefore := make(map[domain.KnownDevice]bool, len(before))
	for _, d := range before {
		inBefore[d] = true
	}
	inAfter := make(map[domain.KnownDevice]bool, len(after))
	for _, d := range after {
		inAfter[d] = true
	}

	var diff KnownDevicesDiff
	for _, d := range after {
		if !inBefore[d] {
			diff.Added = append(diff.Added, d)
		}
	}
	for _, d := range before {
		if !inAfter[d] {
			diff.Removed = append(diff.Removed, d)
		}
	}
	return diff
}

// WriteFileAtomic writes data to a temp file beside path and renames it
// into place
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
