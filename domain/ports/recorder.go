package ports

import (
	"time"

	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
)

// Recorder receives runtime measurements.
type Recorder interface {
	// ObserveAction records the outcome of one main entry call.
	ObserveAction(plugin string, action entities.Action, status entities.Status, elapsed time.Duration)

	// ObserveSuiteCall records the status of one host suite call.
	ObserveSuiteCall(suite, method string, status entities.Status)

	// MeshAcquired and MeshReleased track meshes held by a plugin.
	MeshAcquired(plugin string)
	MeshReleased(plugin string)
}

// NopRecorder discards every measurement.
type NopRecorder struct{}

func (NopRecorder) ObserveAction(string, entities.Action, entities.Status, time.Duration) {}
func (NopRecorder) ObserveSuiteCall(string, string, entities.Status)                      {}
func (NopRecorder) MeshAcquired(string)                                                   {}
func (NopRecorder) MeshReleased(string)                                                   {}
