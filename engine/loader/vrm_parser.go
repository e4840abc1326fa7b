package loader

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// ErrFormat is the sentinel for malformed or unsupported model data: bad
// magic, wrong chunk layout, unparseable JSON, out-of-range references,
// unsupported accessor types, or binary reads past the end of the chunk.
// All format failures returned by this package match it via errors.Is.
var ErrFormat = errors.New("malformed model data")

// vrmParserImpl is the implementation of the vrmParser interface.
type vrmParserImpl struct {
	document *vrmDocument
	binary   []byte
}

// vrmParser defines the interface for parsing binary VRM/GLB containers
// and decoding their typed accessors. This is internal to the loader package.
type vrmParser interface {
	// Parse loads and parses a binary container from the given path.
	//
	// Parameters:
	//   - path: path to the model file
	//
	// Returns:
	//   - error: error if reading or parsing fails
	Parse(path string) error

	// ParseReader parses a binary container from a reader.
	// Use this when loading from embedded resources or network streams.
	//
	// Parameters:
	//   - r: reader containing GLB binary data
	//
	// Returns:
	//   - error: error if parsing fails
	ParseReader(r io.Reader) error

	// Document returns the parsed document.
	// Returns nil if Parse has not been called successfully.
	//
	// Returns:
	//   - *vrmDocument: the parsed document or nil
	Document() *vrmDocument

	// DecodeAttribute decodes a FLOAT accessor into a flattened float
	// stream, de-interleaving strided buffer views.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//   - accessorType: the required accessor type (SCALAR, VEC2, VEC3, VEC4)
	//
	// Returns:
	//   - []float32: the decoded components, arity floats per element
	//   - error: error if the accessor is missing, mistyped, or out of bounds
	DecodeAttribute(accessorIndex int, accessorType string) ([]float32, error)

	// DecodeIndices decodes an index accessor into uint32 values.
	// Only UNSIGNED_SHORT and UNSIGNED_INT component types are accepted;
	// narrower indices are widened to uint32.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []uint32: the decoded indices
	//   - error: error if the accessor is missing, mistyped, or out of bounds
	DecodeIndices(accessorIndex int) ([]uint32, error)
}

var _ vrmParser = &vrmParserImpl{}

// newVRMParser creates a new binary container parser instance.
//
// Returns:
//   - vrmParser: a new parser instance
func newVRMParser() vrmParser {
	return &vrmParserImpl{}
}

func (p *vrmParserImpl) Document() *vrmDocument {
	return p.document
}

func (p *vrmParserImpl) Parse(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return p.parseGLB(data)
}

func (p *vrmParserImpl) ParseReader(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}
	return p.parseGLB(data)
}

// parseGLB parses the binary container: a 12-byte header followed by
// exactly one JSON chunk and one BIN chunk, in that order. The header's
// version and total-length words are not validated.
func (p *vrmParserImpl) parseGLB(data []byte) error {
	r := bytes.NewReader(data)

	var header vrmGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("%w: truncated header", ErrFormat)
	}
	if header.Magic != vrmGLBMagic {
		return fmt.Errorf("%w: bad magic 0x%08X", ErrFormat, header.Magic)
	}

	jsonData, err := readChunk(r, vrmGLBChunkJSON)
	if err != nil {
		return fmt.Errorf("JSON chunk: %w", err)
	}
	binData, err := readChunk(r, vrmGLBChunkBIN)
	if err != nil {
		return fmt.Errorf("BIN chunk: %w", err)
	}

	var doc vrmDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("%w: invalid document JSON: %v", ErrFormat, err)
	}

	p.document = &doc
	p.binary = binData
	return nil
}

// readChunk reads one chunk header and payload, requiring the given
// chunk type tag.
func readChunk(r *bytes.Reader, wantType uint32) ([]byte, error) {
	var header vrmGLBChunkHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: truncated chunk header", ErrFormat)
	}
	if header.ChunkType != wantType {
		return nil, fmt.Errorf("%w: unexpected chunk type 0x%08X", ErrFormat, header.ChunkType)
	}

	data := make([]byte, header.ChunkLength)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("%w: truncated chunk payload", ErrFormat)
	}
	return data, nil
}

// resolvedAccessor is an accessor whose byte layout has been validated
// against the binary chunk.
type resolvedAccessor struct {
	acc      *vrmAccessor
	base     int // byte offset of the first element in the binary chunk
	stride   int // bytes between consecutive elements
	elemSize int // tightly-packed element size
}

// resolveAccessor looks up an accessor, computes its effective base
// offset and stride, and bounds-checks the full read against the binary
// chunk. Every failure is a format error.
func (p *vrmParserImpl) resolveAccessor(accessorIndex int) (*resolvedAccessor, error) {
	if p.document == nil {
		return nil, fmt.Errorf("%w: no document loaded", ErrFormat)
	}
	doc := p.document

	if accessorIndex < 0 || accessorIndex >= len(doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor index %d out of range", ErrFormat, accessorIndex)
	}
	acc := &doc.Accessors[accessorIndex]

	if acc.BufferView == nil {
		return nil, fmt.Errorf("%w: accessor %d has no bufferView", ErrFormat, accessorIndex)
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(doc.BufferViews) {
		return nil, fmt.Errorf("%w: accessor %d references bufferView %d out of range", ErrFormat, accessorIndex, *acc.BufferView)
	}
	bv := &doc.BufferViews[*acc.BufferView]

	componentSize := vrmComponentTypeSize(acc.ComponentType)
	arity := vrmAccessorTypeArity(acc.Type)
	if componentSize == 0 || arity == 0 {
		return nil, fmt.Errorf("%w: accessor %d has unsupported layout: type=%s, componentType=%d", ErrFormat, accessorIndex, acc.Type, acc.ComponentType)
	}
	elemSize := componentSize * arity

	stride := elemSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	base := bv.ByteOffset + acc.ByteOffset
	if acc.Count < 0 || base < 0 {
		return nil, fmt.Errorf("%w: accessor %d has negative layout values", ErrFormat, accessorIndex)
	}
	if acc.Count > 0 {
		end := base + (acc.Count-1)*stride + elemSize
		if end > len(p.binary) {
			return nil, fmt.Errorf("%w: accessor %d reads past binary chunk: need %d bytes, have %d", ErrFormat, accessorIndex, end, len(p.binary))
		}
	}

	return &resolvedAccessor{acc: acc, base: base, stride: stride, elemSize: elemSize}, nil
}

func (p *vrmParserImpl) DecodeAttribute(accessorIndex int, accessorType string) ([]float32, error) {
	ra, err := p.resolveAccessor(accessorIndex)
	if err != nil {
		return nil, err
	}

	if ra.acc.Type != accessorType || ra.acc.ComponentType != vrmComponentTypeFloat {
		return nil, fmt.Errorf("%w: accessor %d is not %s FLOAT: type=%s, componentType=%d", ErrFormat, accessorIndex, accessorType, ra.acc.Type, ra.acc.ComponentType)
	}

	arity := vrmAccessorTypeArity(accessorType)
	result := make([]float32, ra.acc.Count*arity)
	for i := 0; i < ra.acc.Count; i++ {
		elem := p.binary[ra.base+i*ra.stride:]
		for c := 0; c < arity; c++ {
			bits := binary.LittleEndian.Uint32(elem[c*4:])
			result[i*arity+c] = math.Float32frombits(bits)
		}
	}

	return result, nil
}

func (p *vrmParserImpl) DecodeIndices(accessorIndex int) ([]uint32, error) {
	ra, err := p.resolveAccessor(accessorIndex)
	if err != nil {
		return nil, err
	}

	if ra.acc.Type != vrmAccessorTypeScalar {
		return nil, fmt.Errorf("%w: index accessor %d is not SCALAR: type=%s", ErrFormat, accessorIndex, ra.acc.Type)
	}

	result := make([]uint32, ra.acc.Count)
	switch ra.acc.ComponentType {
	case vrmComponentTypeUnsignedShort:
		for i := 0; i < ra.acc.Count; i++ {
			result[i] = uint32(binary.LittleEndian.Uint16(p.binary[ra.base+i*ra.stride:]))
		}
	case vrmComponentTypeUnsignedInt:
		for i := 0; i < ra.acc.Count; i++ {
			result[i] = binary.LittleEndian.Uint32(p.binary[ra.base+i*ra.stride:])
		}
	default:
		return nil, fmt.Errorf("%w: index accessor %d has unsupported component type %d", ErrFormat, accessorIndex, ra.acc.ComponentType)
	}

	return result, nil
}
