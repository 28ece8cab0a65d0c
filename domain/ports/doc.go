// Package ports defines the interfaces the plugin runtime depends on.
// The host side of the mesh effect API (suites, host handle) and the
// infrastructure concerns (metrics, configuration parsing) are reached only
// through these abstractions, so domain and application logic never depend
// on a concrete host.
package ports
