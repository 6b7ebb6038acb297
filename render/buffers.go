package render

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// nextPowerOfTwo returns the smallest power of two >= n, matching the
// teacher's rendertarget.go helper exactly.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

// dynamicBuffer is a vertex/index pair that grows to the next power of two
// whenever a frame needs more capacity than it currently has, and is
// re-uploaded (its slices repopulated) every frame rather than mutated in
// place (spec.md §4.9 stage 4).
type dynamicBuffer struct {
	vertices []ebiten.Vertex
	indices  []uint32
}

// reset truncates the buffer to length zero without releasing capacity, so
// a new frame starts writing from index 0.
func (b *dynamicBuffer) reset() {
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
}

// ensureVertexCap grows b.vertices' capacity to the next power of two >=
// needed, if it isn't already large enough.
func (b *dynamicBuffer) ensureVertexCap(needed int) {
	if cap(b.vertices) >= needed {
		return
	}
	grown := make([]ebiten.Vertex, len(b.vertices), nextPowerOfTwo(needed))
	copy(grown, b.vertices)
	b.vertices = grown
}

func (b *dynamicBuffer) ensureIndexCap(needed int) {
	if cap(b.indices) >= needed {
		return
	}
	grown := make([]uint32, len(b.indices), nextPowerOfTwo(needed))
	copy(grown, b.indices)
	b.indices = grown
}

func (b *dynamicBuffer) appendVertex(v ebiten.Vertex) {
	b.ensureVertexCap(len(b.vertices) + 1)
	b.vertices = append(b.vertices, v)
}

func (b *dynamicBuffer) appendIndex(i uint32) {
	b.ensureIndexCap(len(b.indices) + 1)
	b.indices = append(b.indices, i)
}
