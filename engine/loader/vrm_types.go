package loader

// GLB container constants. All values are little-endian on the wire.
const (
	vrmGLBMagic     uint32 = 0x46546C67 // "glTF"
	vrmGLBChunkJSON uint32 = 0x4E4F534A // "JSON"
	vrmGLBChunkBIN  uint32 = 0x004E4942 // "BIN\0"
)

// Accessor component type constants (glTF 2.0 component type enum).
const (
	vrmComponentTypeByte          = 5120
	vrmComponentTypeUnsignedByte  = 5121
	vrmComponentTypeShort         = 5122
	vrmComponentTypeUnsignedShort = 5123
	vrmComponentTypeUnsignedInt   = 5125
	vrmComponentTypeFloat         = 5126
)

// Accessor type constants.
const (
	vrmAccessorTypeScalar = "SCALAR"
	vrmAccessorTypeVec2   = "VEC2"
	vrmAccessorTypeVec3   = "VEC3"
	vrmAccessorTypeVec4   = "VEC4"
)

// vrmGLBHeader is the fixed 12-byte GLB file header.
type vrmGLBHeader struct {
	Magic   uint32
	Version uint32
	Length  uint32
}

// vrmGLBChunkHeader is the 8-byte header preceding each GLB chunk.
type vrmGLBChunkHeader struct {
	ChunkLength uint32
	ChunkType   uint32
}

// vrmDocument is the root of the parsed JSON chunk, restricted to the
// subset of the schema the viewer consumes.
type vrmDocument struct {
	Nodes       []vrmNode       `json:"nodes"`
	Meshes      []vrmMesh       `json:"meshes"`
	Accessors   []vrmAccessor   `json:"accessors"`
	BufferViews []vrmBufferView `json:"bufferViews"`
}

// vrmNode is one node in the document hierarchy. Optional fields are
// pointers so omitted values can be told apart from explicit zeroes.
type vrmNode struct {
	Name        string      `json:"name"`
	Translation *[3]float32 `json:"translation"`
	Rotation    *[4]float32 `json:"rotation"` // quaternion (x, y, z, w)
	Scale       *[3]float32 `json:"scale"`
	Mesh        *int        `json:"mesh"`
	ParentIndex *int        `json:"parentIndex"`
}

// vrmMesh is a mesh entry: an ordered list of primitives.
type vrmMesh struct {
	Name       string         `json:"name"`
	Primitives []vrmPrimitive `json:"primitives"`
}

// vrmPrimitive is one drawable primitive within a mesh. Attributes maps
// semantic names (POSITION, NORMAL) to accessor indices.
type vrmPrimitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices"`
}

// vrmAccessor describes a typed view into binary data.
type vrmAccessor struct {
	BufferView    *int   `json:"bufferView"`
	ByteOffset    int    `json:"byteOffset"`
	ComponentType int    `json:"componentType"`
	Count         int    `json:"count"`
	Type          string `json:"type"`
}

// vrmBufferView describes a byte range of the binary chunk, optionally
// with an interleaving stride.
type vrmBufferView struct {
	Buffer     int  `json:"buffer"`
	ByteOffset int  `json:"byteOffset"`
	ByteLength int  `json:"byteLength"`
	ByteStride *int `json:"byteStride"`
}

// vrmComponentTypeSize returns the byte size of a component type, or 0
// for unknown values.
func vrmComponentTypeSize(componentType int) int {
	switch componentType {
	case vrmComponentTypeByte, vrmComponentTypeUnsignedByte:
		return 1
	case vrmComponentTypeShort, vrmComponentTypeUnsignedShort:
		return 2
	case vrmComponentTypeUnsignedInt, vrmComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

// vrmAccessorTypeArity returns the number of components per element for
// an accessor type, or 0 for unsupported values.
func vrmAccessorTypeArity(accessorType string) int {
	switch accessorType {
	case vrmAccessorTypeScalar:
		return 1
	case vrmAccessorTypeVec2:
		return 2
	case vrmAccessorTypeVec3:
		return 3
	case vrmAccessorTypeVec4:
		return 4
	default:
		return 0
	}
}
