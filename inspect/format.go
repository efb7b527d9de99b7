package inspect

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ToJSON renders an entry tree as JSON.
func ToJSON(entry Entry, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(entry, "", "  ")
	}

	return json.Marshal(entry)
}

// ToYAML renders an entry tree as YAML. Leaf entries are written in flow style
// so that every scalar property takes one line.
func ToYAML(entry Entry) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(yamlNode(entry)); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}

	return buf.Bytes(), nil
}

func yamlNode(entry Entry) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}

	add := func(key string, value *yaml.Node) {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
	}

	addString := func(key, value string) {
		if value != "" {
			add(key, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value})
		}
	}

	addString("name", entry.Name)
	addString("kind", entry.Kind)
	addString("value", entry.Value)
	addString("target", entry.Target)

	if len(entry.Children) == 0 {
		node.Style = yaml.FlowStyle
		return node
	}

	children := &yaml.Node{Kind: yaml.SequenceNode}
	for _, child := range entry.Children {
		children.Content = append(children.Content, yamlNode(child))
	}

	add("children", children)

	return node
}
