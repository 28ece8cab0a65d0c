package plugin

import (
	"github.com/meshfx-dev/meshfx-sdk/domain/ports"
)

// Names and labels of the slots of a filter effect.
const (
	MainInputName   = "MainInput"
	MainInputLabel  = "Main Input"
	MainOutputName  = "MainOutput"
	MainOutputLabel = "Main Output"
)

// Slot is an input or output declared during describe.
type Slot struct {
	Name  string
	Label string
}

// MeshEffect is what a plugin computes: one input slot, one output slot and
// the transform applied between them when cooking. A nil Transform copies
// the input unchanged.
type MeshEffect struct {
	Transform ports.MeshTransform
	Input     Slot
	Output    Slot
}

// FilterEffect returns an effect reading MainInput and writing MainOutput.
func FilterEffect(t ports.MeshTransform) *MeshEffect {
	return &MeshEffect{
		Input:     Slot{Name: MainInputName, Label: MainInputLabel},
		Output:    Slot{Name: MainOutputName, Label: MainOutputLabel},
		Transform: t,
	}
}
