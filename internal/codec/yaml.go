package codec

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"netorg/internal/domain"
)

// KnownDevicesYAML reads and writes the known-devices file:
//
//	devices:
//	  printers:
//	    - Office Printer,aa:bb:cc:dd:ee:ff
//
// Groups keep their file order and every entry is "name,mac".
type KnownDevicesYAML struct{}

// NewKnownDevicesYAML creates a new known-devices codec
func NewKnownDevicesYAML() *KnownDevicesYAML {
	return &KnownDevicesYAML{}
}

// Format returns the codec format identifier
func (c *KnownDevicesYAML) Format() string {
	return "yaml"
}

// Parse reads known devices. An empty document holds no devices; anything
// else that is not shaped like the format fails with domain.ErrMalformedData.
func (c *KnownDevicesYAML) Parse(r io.Reader) ([]domain.KnownDevice, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: invalid YAML: %v", domain.ErrMalformedData, err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping with a devices key (line %d)", domain.ErrMalformedData, root.Line)
	}

	groups := mappingValue(root, "devices")
	if groups == nil {
		return nil, fmt.Errorf("%w: missing devices key", domain.ErrMalformedData)
	}
	if groups.Tag == "!!null" {
		return nil, nil
	}
	if groups.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: devices must map group names to lists (line %d)", domain.ErrMalformedData, groups.Line)
	}

	var devices []domain.KnownDevice
	for i := 0; i+1 < len(groups.Content); i += 2 {
		group := groups.Content[i].Value
		entries := groups.Content[i+1]
		if entries.Tag == "!!null" {
			continue
		}
		if entries.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("%w: group %s must be a list (line %d)", domain.ErrMalformedData, group, entries.Line)
		}
		for _, e := range entries.Content {
			name, mac, ok := splitEntry(e.Value)
			if e.Kind != yaml.ScalarNode || !ok {
				return nil, fmt.Errorf("%w: entry %q in group %s is not name,mac (line %d)", domain.ErrMalformedData, e.Value, group, e.Line)
			}
			devices = append(devices, domain.KnownDevice{Name: name, MAC: mac, Group: group})
		}
	}
	return devices, nil
}

// Export writes known devices grouped in order of first appearance.
// An empty group is written as unclassified.
func (c *KnownDevicesYAML) Export(devices []domain.KnownDevice, w io.Writer) error {
	groups := &yaml.Node{Kind: yaml.MappingNode}
	lists := make(map[string]*yaml.Node)
	for _, d := range devices {
		group := d.Group
		if group == "" {
			group = domain.GroupUnclassified
		}
		list, ok := lists[group]
		if !ok {
			list = &yaml.Node{Kind: yaml.SequenceNode}
			lists[group] = list
			groups.Content = append(groups.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: group},
				list,
			)
		}
		list.Content = append(list.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: d.Name + "," + d.MAC,
		})
	}

	root := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "devices"},
			groups,
		},
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(root); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// splitEntry splits "name,mac" on the last comma; names may contain commas
func splitEntry(s string) (name, mac string, ok bool) {
	i := strings.LastIndex(s, ",")
	if i < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(s[:i])
	mac = strings.TrimSpace(s[i+1:])
	return name, mac, mac != ""
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}
