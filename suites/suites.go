package suites

import (
	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
	"github.com/meshfx-dev/meshfx-sdk/domain/errors"
	"github.com/meshfx-dev/meshfx-sdk/domain/ports"
)

// Suites holds the host suites resolved at load time.
type Suites struct {
	Property   ports.PropertySuite
	MeshEffect ports.MeshEffectSuite
}

// Resolve fetches the property suite and the mesh effect suite (version 1)
// from the host. It returns a MissingHostFeatureError naming the first suite
// the host does not provide.
func Resolve(host ports.Host) (*Suites, error) {
	if host == nil {
		return nil, &errors.MissingHostFeatureError{Suite: entities.PropertySuiteName, Version: entities.SuiteVersion}
	}

	prop, ok := host.FetchSuite(entities.PropertySuiteName, entities.SuiteVersion).(ports.PropertySuite)
	if !ok || prop == nil {
		return nil, &errors.MissingHostFeatureError{Suite: entities.PropertySuiteName, Version: entities.SuiteVersion}
	}

	mesh, ok := host.FetchSuite(entities.MeshEffectSuiteName, entities.SuiteVersion).(ports.MeshEffectSuite)
	if !ok || mesh == nil {
		return nil, &errors.MissingHostFeatureError{Suite: entities.MeshEffectSuiteName, Version: entities.SuiteVersion}
	}

	return &Suites{Property: prop, MeshEffect: mesh}, nil
}

// Check converts a suite call status into an error.
// StatusOK yields nil; any other status yields a SuiteError.
func Check(suite, method string, status entities.Status) error {
	if status == entities.StatusOK {
		return nil
	}
	return &errors.SuiteError{Suite: suite, Method: method, Code: status}
}

// CheckProperty is Check for property suite methods.
func CheckProperty(method string, status entities.Status) error {
	return Check(entities.PropertySuiteName, method, status)
}

// CheckMeshEffect is Check for mesh effect suite methods.
func CheckMeshEffect(method string, status entities.Status) error {
	return Check(entities.MeshEffectSuiteName, method, status)
}
