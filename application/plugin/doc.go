// Package plugin implements the plugin side of the mesh effect contract.
//
// A Registry publishes a fixed list of Descriptors. Each descriptor is backed
// by a Runtime that owns the host handle, the suites resolved at load time,
// the per-instance table and the lifecycle state of one plugin. The host
// drives a plugin by calling its main entry with an action name; the runtime
// dispatches the action through a table of handlers wrapped by middleware.
//
//	rt := plugin.NewRuntime(
//	    entities.NewMeshEffectInfo("MyFilter", 1, 0),
//	    plugin.FilterEffect(myTransform),
//	    plugin.WithLogger(logger),
//	)
//	reg, err := plugin.NewRegistry(plugin.WithPlugin(rt.Descriptor()))
package plugin
