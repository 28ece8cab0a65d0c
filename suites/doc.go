// Package suites resolves the host suites a mesh effect plugin depends on
// and decorates them with call observers.
// It has no knowledge of any particular host: everything goes through the
// interfaces in domain/ports.
package suites
