package config

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// OrderedMap is a string keyed map that serializes its entries in
// insertion order instead of sorting them. The zero value is an empty map
// ready to use.
type OrderedMap struct {
	keys   []string
	values map[string]interface{}
}

// NewOrderedMap returns an empty map.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: map[string]interface{}{}}
}

// Set stores value under key. Replacing a value keeps the key's position.
func (m *OrderedMap) Set(key string, value interface{}) {
	if m.values == nil {
		m.values = map[string]interface{}{}
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *OrderedMap) Get(key string) (interface{}, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// MarshalYAML emits a mapping node whose entries follow insertion order.
func (m *OrderedMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range m.keys {
		value := &yaml.Node{}
		if err := value.Encode(m.values[k]); err != nil {
			return nil, errors.Wrapf(err, "encode %s", k)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k},
			value,
		)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping keeping the document's key order.
func (m *OrderedMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.Errorf("line %d: expected a mapping", node.Line)
	}
	m.keys = nil
	m.values = map[string]interface{}{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var value interface{}
		if err := node.Content[i+1].Decode(&value); err != nil {
			return err
		}
		m.Set(node.Content[i].Value, value)
	}
	return nil
}
