// Package parser provides configuration parsers.
package parser

import (
	"gopkg.in/yaml.v3"

	"github.com/meshfx-dev/meshfx-sdk/domain/ports"
)

// YamlConfigParser implements ConfigParser for YAML.
type YamlConfigParser struct{}

// NewYamlConfigParser creates a new YamlConfigParser.
func NewYamlConfigParser() ports.ConfigParser {
	return &YamlConfigParser{}
}

// Parse unmarshals a YAML mapping into a generic map.
// An empty document yields an empty map.
func (p *YamlConfigParser) Parse(data []byte) (map[string]any, error) {
	values := make(map[string]any)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}
