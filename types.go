// Package sdk is a bundle of mesh effect plugins.
//
// The bundle exports two plugins: MfxSamplePlugin0, a filter copying its
// input mesh to its output, and MfxSamplePlugin1, which handles no action.
// Hosts enumerate them with NumberOfPlugins and GetPlugin.
package sdk

import (
	"github.com/meshfx-dev/meshfx-sdk/application/plugin"
	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
)

// Version is the SDK version reported in bundle manifests.
const Version = "1.0.0"

// Identifiers of the sample plugins.
const (
	FilterPluginID = "MfxSamplePlugin0"
	InertPluginID  = "MfxSamplePlugin1"
)

// Descriptor is the record a host reads to drive a plugin.
type Descriptor = plugin.Descriptor

// Manifest describes the plugins of a bundle and its configuration schema.
type Manifest = entities.BundleManifest
