package loader

import (
	"io"

	"github.com/halversen/vrmview/engine/model"
)

// vrmLoaderBackendImpl is the implementation of vrmLoaderBackend.
type vrmLoaderBackendImpl struct{}

// vrmLoaderBackend is a loaderBackend implementation for binary VRM/GLB
// containers. Each load uses a fresh parser so backends stay stateless.
type vrmLoaderBackend interface {
	loaderBackend
}

var _ vrmLoaderBackend = &vrmLoaderBackendImpl{}

// newVRMLoaderBackend creates a new VRM loader backend.
//
// Returns:
//   - vrmLoaderBackend: the loader backend for binary VRM/GLB files
func newVRMLoaderBackend() vrmLoaderBackend {
	return &vrmLoaderBackendImpl{}
}

func (b *vrmLoaderBackendImpl) Load(path string) ([]model.Node, error) {
	p := newVRMParser()
	if err := p.Parse(path); err != nil {
		return nil, err
	}
	return extractNodes(p)
}

func (b *vrmLoaderBackendImpl) LoadReader(r io.Reader) ([]model.Node, error) {
	p := newVRMParser()
	if err := p.ParseReader(r); err != nil {
		return nil, err
	}
	return extractNodes(p)
}
