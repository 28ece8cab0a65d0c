package plugin

import (
	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
	"github.com/meshfx-dev/meshfx-sdk/domain/ports"
)

// MainEntryFunc is the entry point the host calls for every action.
// The returned status is the only result the host observes.
type MainEntryFunc func(action string, effect entities.MeshEffectHandle, inArgs, outArgs entities.PropertySetHandle) entities.Status

// Descriptor is the record a host reads to identify a plugin and drive it.
// Descriptors are created once and handed out by pointer; the host must not
// modify them.
type Descriptor struct {
	// SetHost gives the plugin its host handle. Hosts call it before load.
	SetHost func(host ports.Host) `json:"-" yaml:"-" validate:"required"`
	// MainEntry receives every action.
	MainEntry MainEntryFunc `json:"-" yaml:"-" validate:"required"`
	Info      entities.PluginInfo `json:"info" yaml:"info"`
}
