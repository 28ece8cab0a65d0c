package plugin

import (
	stdErrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
	"github.com/meshfx-dev/meshfx-sdk/domain/errors"
)

var validate = validator.New()

// Registry is an immutable, ordered collection of plugin descriptors.
// Once created via NewRegistry, plugins cannot be added or removed, so
// lookups need no locking.
type Registry struct {
	plugins      []*Descriptor
	sdkVersion   string
	configSchema []byte
}

// registryBuilder accumulates configuration during registry construction.
type registryBuilder struct {
	ids          map[string]struct{}
	plugins      []*Descriptor
	errors       []error
	sdkVersion   string
	configSchema []byte
}

// RegistryOption is a functional option for configuring a Registry.
type RegistryOption func(*registryBuilder)

// NewRegistry creates an immutable Registry with the given options.
// Plugins keep the order in which they were added. Returns an error if a
// descriptor is invalid or an identifier is registered twice.
//
// Example usage:
//
//	registry, err := NewRegistry(
//	    WithPlugin(filter.Descriptor()),
//	    WithPlugin(inert.Descriptor()),
//	    WithSDKVersion("1.0.0"),
//	)
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	b := &registryBuilder{
		ids: make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(b)
	}

	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	return &Registry{
		plugins:      b.plugins,
		sdkVersion:   b.sdkVersion,
		configSchema: b.configSchema,
	}, nil
}

// Count returns the number of plugins in the registry.
func (r *Registry) Count() int {
	return len(r.plugins)
}

// Plugin returns the nth descriptor. The same pointer is returned on every
// call for a given index.
func (r *Registry) Plugin(nth int) (*Descriptor, error) {
	if nth < 0 || nth >= len(r.plugins) {
		return nil, &errors.BadIndexError{Index: nth, Count: len(r.plugins)}
	}
	return r.plugins[nth], nil
}

// Manifest describes the registry contents for tooling.
func (r *Registry) Manifest() *entities.BundleManifest {
	m := &entities.BundleManifest{
		SDKVersion: r.sdkVersion,
		Plugins:    make([]entities.PluginInfo, 0, len(r.plugins)),
	}
	if len(r.configSchema) > 0 {
		m.ConfigSchema = append([]byte(nil), r.configSchema...)
	}
	for _, d := range r.plugins {
		m.Plugins = append(m.Plugins, d.Info)
	}
	return m
}

// addPlugin validates d and appends it.
func (b *registryBuilder) addPlugin(d *Descriptor) error {
	if d == nil {
		return fmt.Errorf("plugin descriptor cannot be nil")
	}
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if stdErrors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid plugin descriptor %q: field %s failed on '%s' rule",
				d.Info.Identifier, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid plugin descriptor %q: %w", d.Info.Identifier, err)
	}
	if _, exists := b.ids[d.Info.Identifier]; exists {
		return fmt.Errorf("duplicate plugin identifier: %q", d.Info.Identifier)
	}
	b.ids[d.Info.Identifier] = struct{}{}
	b.plugins = append(b.plugins, d)
	return nil
}

// WithPlugin appends a descriptor to the registry.
func WithPlugin(d *Descriptor) RegistryOption {
	return func(b *registryBuilder) {
		if err := b.addPlugin(d); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}

// WithSDKVersion sets the SDK version reported by Manifest.
func WithSDKVersion(v string) RegistryOption {
	return func(b *registryBuilder) {
		b.sdkVersion = v
	}
}

// WithConfigSchema sets the configuration schema reported by Manifest.
func WithConfigSchema(schema []byte) RegistryOption {
	return func(b *registryBuilder) {
		b.configSchema = schema
	}
}
