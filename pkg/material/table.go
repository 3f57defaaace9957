package material

import (
	"github.com/df07/go-scanline-tracer/pkg/core"
)

// Table is an append-only arena of materials addressed by core.MaterialIndex.
// Materials are immutable once added, so a Table may be shared by concurrent
// readers after construction.
type Table struct {
	materials []Material
}

// NewTable creates an empty material table
func NewTable() *Table {
	return &Table{}
}

// Add stores m and returns its handle
func (t *Table) Add(m Material) core.MaterialIndex {
	t.materials = append(t.materials, m)
	return core.MaterialIndex(len(t.materials) - 1)
}

// Get returns the material for a handle. Out of range handles yield a
// material with an unknown kind, which absorbs every ray.
func (t *Table) Get(i core.MaterialIndex) Material {
	if i < 0 || int(i) >= len(t.materials) {
		return Material{Kind: Kind(^uint32(0))}
	}
	return t.materials[i]
}

// Len returns the number of materials
func (t *Table) Len() int {
	return len(t.materials)
}

// All returns the materials in handle order
func (t *Table) All() []Material {
	return t.materials
}
