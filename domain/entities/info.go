package entities

import "github.com/Masterminds/semver/v3"

// PluginInfo identifies a plugin to the host. It is immutable once a
// descriptor has been published.
type PluginInfo struct {
	// PluginAPI names the API the plugin implements.
	PluginAPI string `json:"plugin_api" yaml:"plugin_api" validate:"required"`
	// Identifier is globally unique across every loaded bundle.
	Identifier string `json:"identifier" yaml:"identifier" validate:"required,printascii"`
	// APIVersion is the version of PluginAPI.
	APIVersion int `json:"api_version" yaml:"api_version" validate:"gte=1"`
	// VersionMajor is bumped on incompatible changes of the plugin.
	VersionMajor int `json:"version_major" yaml:"version_major" validate:"gte=0"`
	// VersionMinor is bumped on compatible changes of the plugin.
	VersionMinor int `json:"version_minor" yaml:"version_minor" validate:"gte=0"`
}

// NewMeshEffectInfo returns the identity of a mesh effect plugin.
func NewMeshEffectInfo(identifier string, major, minor int) PluginInfo {
	return PluginInfo{
		PluginAPI:    MeshEffectPluginAPI,
		APIVersion:   MeshEffectPluginAPIVersion,
		Identifier:   identifier,
		VersionMajor: major,
		VersionMinor: minor,
	}
}

// SemVer returns the plugin version as a semantic version (patch is always 0).
// Negative components are clamped to zero.
func (i PluginInfo) SemVer() *semver.Version {
	return semver.New(nonNegative(i.VersionMajor), nonNegative(i.VersionMinor), 0, "", "")
}

func nonNegative(v int) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}
