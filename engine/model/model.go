package model

import (
	"errors"
	"fmt"
	"sync"

	"github.com/halversen/vrmview/common"
)

// Common errors returned by transform evaluation. A cyclic hierarchy is a
// fatal asset defect: an unguarded ancestor walk over it would never terminate.
var (
	ErrCyclicHierarchy = errors.New("cyclic parentIndex chain in node hierarchy")
	ErrNodeOutOfRange  = errors.New("node index out of range")
)

// modelImpl is the implementation of the Model interface.
type modelImpl struct {
	name  string
	nodes []Node

	// worlds holds the precomputed world transform of every node,
	// indexed by node index. Computed once at construction.
	worlds [][16]float32

	releaseOnce sync.Once
}

// Model is a fully loaded, renderable node hierarchy. The node collection is
// written once at load time and only read thereafter; all world transforms
// are precomputed in parent-before-child order at construction.
type Model interface {
	// Name returns the model's identifier (typically the source path).
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Nodes returns the model's node collection in document order.
	// The returned slice must not be modified.
	//
	// Returns:
	//   - []Node: the nodes
	Nodes() []Node

	// WorldTransform returns the precomputed world transform of the node
	// at the given index.
	//
	// Parameters:
	//   - index: the node index
	//
	// Returns:
	//   - [16]float32: the column-major world transform matrix
	WorldTransform(index int) [16]float32

	// Release frees every GPU buffer owned by the model's nodes.
	// Safe to call multiple times; only the first call releases.
	// Must not be called while a frame referencing the model is in flight.
	Release()
}

var _ Model = &modelImpl{}

// NewModel creates a Model from the provided options and precomputes all
// world transforms. Fails if the node hierarchy contains a cyclic or
// out-of-range parentIndex chain.
//
// Parameters:
//   - options: functional options to configure the model
//
// Returns:
//   - Model: the constructed model
//   - error: error if the hierarchy is malformed
func NewModel(options ...ModelBuilderOption) (Model, error) {
	m := &modelImpl{}
	for _, opt := range options {
		opt(m)
	}

	worlds, err := resolveWorldTransforms(m.nodes)
	if err != nil {
		return nil, err
	}
	m.worlds = worlds

	return m, nil
}

func (m *modelImpl) Name() string {
	return m.name
}

func (m *modelImpl) Nodes() []Node {
	return m.nodes
}

func (m *modelImpl) WorldTransform(index int) [16]float32 {
	return m.worlds[index]
}

func (m *modelImpl) Release() {
	m.releaseOnce.Do(func() {
		for i := range m.nodes {
			if m.nodes[i].Buffers != nil {
				m.nodes[i].Buffers.Release()
			}
		}
	})
}

// WorldTransform computes the accumulated world transform of one node by
// composing local transforms up the parent chain. The walk is iterative and
// guarded: a chain longer than the node count can only mean a parentIndex
// cycle, which fails with ErrCyclicHierarchy instead of diverging.
//
// Parameters:
//   - nodes: the full node collection (parent indices refer into it)
//   - index: the node whose world transform to compute
//
// Returns:
//   - [16]float32: the column-major world transform matrix
//   - error: error if an index is out of range or the chain is cyclic
func WorldTransform(nodes []Node, index int) ([16]float32, error) {
	var world [16]float32
	common.Identity(world[:])

	var local [16]float32
	steps := 0
	for i := index; i != RootIndex; {
		if i < 0 || i >= len(nodes) {
			return world, fmt.Errorf("%w: %d (have %d nodes)", ErrNodeOutOfRange, i, len(nodes))
		}
		steps++
		if steps > len(nodes) {
			return world, fmt.Errorf("%w: walk from node %d exceeded %d steps", ErrCyclicHierarchy, index, len(nodes))
		}

		t := nodes[i].Local
		common.ComposeTRS(local[:], t.Translation, t.Rotation, t.Scale)

		// Ancestors multiply on the left: world = parent_local * world.
		common.Mul4(world[:], local[:], world[:])

		i = nodes[i].ParentIndex
	}

	return world, nil
}

// resolveWorldTransforms precomputes the world transform of every node into
// an indexed array, using the guarded per-node walk. Fails on the first
// malformed chain.
func resolveWorldTransforms(nodes []Node) ([][16]float32, error) {
	worlds := make([][16]float32, len(nodes))
	for i := range nodes {
		w, err := WorldTransform(nodes, i)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		worlds[i] = w
	}
	return worlds, nil
}
