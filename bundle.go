package sdk

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/meshfx-dev/meshfx-sdk/application/config"
	"github.com/meshfx-dev/meshfx-sdk/application/geometry"
	"github.com/meshfx-dev/meshfx-sdk/application/plugin"
	"github.com/meshfx-dev/meshfx-sdk/application/schema"
	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
	"github.com/meshfx-dev/meshfx-sdk/domain/ports"
	"github.com/meshfx-dev/meshfx-sdk/infrastructure/metrics"
	"github.com/meshfx-dev/meshfx-sdk/infrastructure/parser"
	"github.com/meshfx-dev/meshfx-sdk/log"
)

// bundleConfig holds the options of a Bundle.
type bundleConfig struct {
	logger   *slog.Logger
	recorder ports.Recorder
	registry prometheus.Registerer
}

// BundleOption configures a Bundle.
type BundleOption func(*bundleConfig)

// WithLogger overrides the logger built from the configured log level.
func WithLogger(logger *slog.Logger) BundleOption {
	return func(c *bundleConfig) {
		c.logger = logger
	}
}

// WithRecorder reports runtime measurements to rec.
func WithRecorder(rec ports.Recorder) BundleOption {
	return func(c *bundleConfig) {
		c.recorder = rec
	}
}

// WithPrometheus registers the bundle metrics with reg.
// It takes precedence over WithRecorder.
func WithPrometheus(reg prometheus.Registerer) BundleOption {
	return func(c *bundleConfig) {
		c.registry = reg
	}
}

// Bundle is a registry of plugins sharing one configuration.
type Bundle struct {
	cfg      config.Config
	registry *plugin.Registry
	runtimes []*plugin.Runtime
}

// NewBundle builds the sample plugins from cfg. Bundles are independent of
// each other; the package-level functions use a default bundle.
func NewBundle(cfg config.Config, opts ...BundleOption) (*Bundle, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	bc := bundleConfig{}
	for _, opt := range opts {
		opt(&bc)
	}
	if bc.logger == nil {
		bc.logger = log.New(log.WithLevel(log.ParseLevel(cfg.LogLevel)))
	}
	if bc.registry != nil {
		rec, err := metrics.NewRecorder(bc.registry)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		bc.recorder = rec
	}

	rtOpts := []plugin.RuntimeOption{
		plugin.WithLogger(bc.logger),
		plugin.WithRecorder(bc.recorder),
		plugin.WithStrictOrdering(cfg.StrictOrdering),
		plugin.WithTraceSuites(cfg.TraceSuiteCalls),
		plugin.WithDefaultTime(entities.Time(cfg.DefaultTime)),
	}
	runtimes := []*plugin.Runtime{
		plugin.NewRuntime(entities.NewMeshEffectInfo(FilterPluginID, 1, 0), plugin.FilterEffect(geometry.Identity{}), rtOpts...),
		plugin.NewRuntime(entities.NewMeshEffectInfo(InertPluginID, 1, 0), nil, rtOpts...),
	}

	configSchema, err := schema.GenerateSchema(config.Config{},
		schema.WithTitle("meshfx bundle configuration"),
		schema.WithDescription("Runtime configuration shared by every plugin of the bundle."),
	)
	if err != nil {
		return nil, err
	}

	regOpts := []plugin.RegistryOption{
		plugin.WithSDKVersion(semver.MustParse(Version).String()),
		plugin.WithConfigSchema(configSchema),
	}
	for _, rt := range runtimes {
		regOpts = append(regOpts, plugin.WithPlugin(rt.Descriptor()))
	}
	registry, err := plugin.NewRegistry(regOpts...)
	if err != nil {
		return nil, err
	}

	return &Bundle{cfg: cfg, registry: registry, runtimes: runtimes}, nil
}

// Config returns the configuration the bundle was built from.
func (b *Bundle) Config() config.Config {
	return b.cfg
}

// NumberOfPlugins returns the number of plugins in the bundle.
func (b *Bundle) NumberOfPlugins() int {
	return b.registry.Count()
}

// GetPlugin returns the nth plugin descriptor, or a BadIndexError.
func (b *Bundle) GetPlugin(nth int) (*Descriptor, error) {
	return b.registry.Plugin(nth)
}

// Runtime returns the runtime backing the nth plugin, or nil.
func (b *Bundle) Runtime(nth int) *plugin.Runtime {
	if nth < 0 || nth >= len(b.runtimes) {
		return nil
	}
	return b.runtimes[nth]
}

// Manifest describes the bundle.
func (b *Bundle) Manifest() *Manifest {
	return b.registry.Manifest()
}

var (
	defaultOnce   sync.Once
	defaultBundle *Bundle
)

// DefaultBundle returns the bundle configured from the MFX_* environment
// variables, building it on first use. An invalid environment is logged and
// the default configuration is used instead.
func DefaultBundle() *Bundle {
	defaultOnce.Do(func() {
		cfg, err := config.FromEnv(os.LookupEnv)
		if err != nil {
			log.New().Error("ignoring invalid environment configuration", "error", err)
			cfg = config.Default()
		}
		b, err := NewBundle(cfg)
		if err != nil {
			panic(fmt.Sprintf("failed to build default bundle: %v", err))
		}
		defaultBundle = b
	})
	return defaultBundle
}

// NumberOfPlugins returns the number of plugins in the default bundle.
func NumberOfPlugins() int {
	return DefaultBundle().NumberOfPlugins()
}

// GetPlugin returns the nth plugin of the default bundle. The same
// descriptor is returned on every call.
func GetPlugin(nth int) (*Descriptor, error) {
	return DefaultBundle().GetPlugin(nth)
}

// LoadConfig parses YAML configuration data.
func LoadConfig(data []byte) (config.Config, error) {
	return config.Load(parser.NewYamlConfigParser(), data)
}

// LoadConfigFile reads and parses a YAML configuration file.
func LoadConfigFile(path string) (config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to read configuration: %w", err)
	}
	return LoadConfig(data)
}
