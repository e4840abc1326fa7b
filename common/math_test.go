package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-5

func assertMat4Equal(t *testing.T, expected, actual []float32) {
	t.Helper()
	for i := 0; i < 16; i++ {
		assert.InDelta(t, expected[i], actual[i], epsilon, "element %d", i)
	}
}

func TestIdentity(t *testing.T) {
	m := make([]float32, 16)
	for i := range m {
		m[i] = float32(i)
	}
	Identity(m)

	expected := []float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	assertMat4Equal(t, expected, m)
}

func TestMul4Identity(t *testing.T) {
	a := []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	id := make([]float32, 16)
	Identity(id)

	out := make([]float32, 16)
	Mul4(out, a, id)
	assertMat4Equal(t, a, out)

	Mul4(out, id, a)
	assertMat4Equal(t, a, out)
}

func TestMul4Aliasing(t *testing.T) {
	a := make([]float32, 16)
	RotationY(a, 0.7)
	b := make([]float32, 16)
	RotationY(b, -0.7)

	// a * inverse(a) == identity, result written over a.
	Mul4(a, a, b)

	id := make([]float32, 16)
	Identity(id)
	assertMat4Equal(t, id, a)
}

func TestComposeTRSTranslationOnly(t *testing.T) {
	m := make([]float32, 16)
	ComposeTRS(m, [3]float32{1, 2, 3}, [4]float32{0, 0, 0, 1}, [3]float32{1, 1, 1})

	p := TransformPoint(m, [3]float32{0, 0, 0})
	assert.InDelta(t, 1.0, p[0], epsilon)
	assert.InDelta(t, 2.0, p[1], epsilon)
	assert.InDelta(t, 3.0, p[2], epsilon)
}

func TestComposeTRSScaleAppliedBeforeTranslation(t *testing.T) {
	m := make([]float32, 16)
	ComposeTRS(m, [3]float32{10, 0, 0}, [4]float32{0, 0, 0, 1}, [3]float32{2, 2, 2})

	// (1,0,0) scales to (2,0,0) then translates to (12,0,0).
	p := TransformPoint(m, [3]float32{1, 0, 0})
	assert.InDelta(t, 12.0, p[0], epsilon)
	assert.InDelta(t, 0.0, p[1], epsilon)
	assert.InDelta(t, 0.0, p[2], epsilon)
}

func TestComposeTRSQuarterTurnAboutY(t *testing.T) {
	// Quaternion for a +90 degree rotation about Y: (0, sin45, 0, cos45).
	s := math32.Sin(math32.Pi / 4)
	c := math32.Cos(math32.Pi / 4)
	m := make([]float32, 16)
	ComposeTRS(m, [3]float32{}, [4]float32{0, s, 0, c}, [3]float32{1, 1, 1})

	// +Z rotates to +X under a right-handed +90 degree Y rotation.
	p := TransformPoint(m, [3]float32{0, 0, 1})
	assert.InDelta(t, 1.0, p[0], epsilon)
	assert.InDelta(t, 0.0, p[1], epsilon)
	assert.InDelta(t, 0.0, p[2], epsilon)
}

func TestRotationYMatchesQuaternion(t *testing.T) {
	angle := float32(0.6)
	fromQuat := make([]float32, 16)
	half := angle / 2
	ComposeTRS(fromQuat, [3]float32{}, [4]float32{0, math32.Sin(half), 0, math32.Cos(half)}, [3]float32{1, 1, 1})

	direct := make([]float32, 16)
	RotationY(direct, angle)

	assertMat4Equal(t, fromQuat, direct)
}

func TestSliceToBytes(t *testing.T) {
	floats := []float32{1.0, 2.0}
	b := SliceToBytes(floats)
	assert.Len(t, b, 8)

	var empty []float32
	assert.Nil(t, SliceToBytes(empty))
}
