package entities

import "encoding/json"

// BundleManifest describes a plugin bundle: the plugins it exports and the
// configuration it accepts.
type BundleManifest struct {
	ConfigSchema json.RawMessage `json:"config_schema,omitempty" yaml:"-"`
	SDKVersion   string          `json:"sdk_version" yaml:"sdk_version"`
	Plugins      []PluginInfo    `json:"plugins" yaml:"plugins"`
}
