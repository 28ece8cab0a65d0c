// Package entities provides the core domain types of the mesh effect API:
// status codes, action identifiers, opaque host handles, property names,
// plugin identity and mesh geometry snapshots.
// These types carry no behaviour that depends on a host.
package entities
