package entities

// Suite names and versions fetched from the host at load time.
const (
	PropertySuiteName   = "OfxPropertySuite"
	MeshEffectSuiteName = "OfxMeshEffectSuite"
	SuiteVersion        = 1
)

// Plugin API identification published in every descriptor.
const (
	MeshEffectPluginAPI        = "OfxMeshEffectPluginAPI"
	MeshEffectPluginAPIVersion = 1
)

// Property names.
const (
	PropLabel = "OfxPropLabel"
	PropTime  = "OfxPropTime"

	MeshEffectPropContext = "OfxMeshEffectPropContext"

	MeshPropPointCount  = "OfxMeshPropPointCount"
	MeshPropVertexCount = "OfxMeshPropVertexCount"
	MeshPropFaceCount   = "OfxMeshPropFaceCount"
	MeshPropPointData   = "OfxMeshPropPointData"
	MeshPropVertexData  = "OfxMeshPropVertexData"
	MeshPropFaceData    = "OfxMeshPropFaceData"
)

// MeshEffectContextFilter is the context of an effect with one mesh input
// and one mesh output.
const MeshEffectContextFilter = "OfxMeshEffectContextFilter"
