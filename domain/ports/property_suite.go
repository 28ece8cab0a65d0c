package ports

import "github.com/meshfx-dev/meshfx-sdk/domain/entities"

// PropertySuite gives access to host-owned property sets.
// Every method returns the status reported by the host. Pointer properties
// carry Go slices ([]float32 for point data, []int32 for vertex and face data).
type PropertySuite interface {
	PropSetString(h entities.PropertySetHandle, name string, index int, value string) entities.Status
	PropSetInt(h entities.PropertySetHandle, name string, index int, value int) entities.Status
	PropSetDouble(h entities.PropertySetHandle, name string, index int, value float64) entities.Status
	PropSetPointer(h entities.PropertySetHandle, name string, index int, value any) entities.Status

	PropGetString(h entities.PropertySetHandle, name string, index int) (string, entities.Status)
	PropGetInt(h entities.PropertySetHandle, name string, index int) (int, entities.Status)
	PropGetDouble(h entities.PropertySetHandle, name string, index int) (float64, entities.Status)
	PropGetPointer(h entities.PropertySetHandle, name string, index int) (any, entities.Status)
}
