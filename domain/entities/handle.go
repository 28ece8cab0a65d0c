package entities

import "fmt"

// PropertySetHandle references a host-owned bag of named, typed properties.
// The zero value is the nil handle.
type PropertySetHandle uint64

// MeshEffectHandle references a host-owned effect (descriptor or instance).
type MeshEffectHandle uint64

// MeshInputHandle references a named input or output slot of an effect.
type MeshInputHandle uint64

// IsNil reports whether h is the nil handle.
func (h PropertySetHandle) IsNil() bool { return h == 0 }

func (h PropertySetHandle) String() string { return fmt.Sprintf("propset#%d", uint64(h)) }

// IsNil reports whether h is the nil handle.
func (h MeshEffectHandle) IsNil() bool { return h == 0 }

func (h MeshEffectHandle) String() string { return fmt.Sprintf("effect#%d", uint64(h)) }

// IsNil reports whether h is the nil handle.
func (h MeshInputHandle) IsNil() bool { return h == 0 }

func (h MeshInputHandle) String() string { return fmt.Sprintf("input#%d", uint64(h)) }

// Time is a real-valued sample index. Zero is the default sample.
type Time float64
