// Package grids defines the spatial-grid collaborator the execution core
// addresses image and volume elements through.
//
// The core only needs an addressing oracle: how many points a grid has,
// whether an index is valid, and the index↔world-coordinate mapping. The
// Grid interface captures exactly that; the geometry behind it (orientation
// matrices, anisotropic transforms) lives in the imaging subsystems that
// implement it. Regular is a minimal axis-aligned implementation, enough for
// element-wise pipelines and tests.
package grids

import (
	"math"

	"github.com/pkg/errors"
)

// Point is a position in world coordinates.
type Point [3]float64

// ErrOutsideGrid is returned when a world coordinate maps to no grid point.
var ErrOutsideGrid = errors.New("coordinate outside grid")

// Grid is the addressing oracle for a regularly sampled image or volume.
type Grid interface {
	// PointCount returns the total number of grid points.
	PointCount() int

	// IsValidIndex reports whether i addresses a grid point.
	IsValidIndex(i int) bool

	// IndexToWorld returns the world coordinate of grid point i.
	IndexToWorld(i int) Point

	// WorldToIndex returns the grid point nearest to p, or ErrOutsideGrid.
	WorldToIndex(p Point) (int, error)
}

// Regular is an axis-aligned grid with uniform per-axis spacing.
type Regular struct {
	dims    [3]int
	origin  Point
	spacing Point
}

var _ Grid = (*Regular)(nil)

// NewRegular returns a Regular grid with the given dimensions, origin and
// per-axis spacing. Spacing components must be non-zero.
func NewRegular(dims [3]int, origin, spacing Point) (*Regular, error) {
	for axis, d := range dims {
		if d <= 0 {
			return nil, errors.Errorf("grid dimension %d must be positive, got %d", axis, d)
		}
	}
	for axis, s := range spacing {
		if s == 0 {
			return nil, errors.Errorf("grid spacing %d must be non-zero", axis)
		}
	}
	return &Regular{dims: dims, origin: origin, spacing: spacing}, nil
}

// PointCount implements Grid.
func (g *Regular) PointCount() int {
	return g.dims[0] * g.dims[1] * g.dims[2]
}

// IsValidIndex implements Grid.
func (g *Regular) IsValidIndex(i int) bool {
	return i >= 0 && i < g.PointCount()
}

// IndexToWorld implements Grid. The flat index order is x fastest, z slowest.
func (g *Regular) IndexToWorld(i int) Point {
	x := i % g.dims[0]
	y := (i / g.dims[0]) % g.dims[1]
	z := i / (g.dims[0] * g.dims[1])
	return Point{
		g.origin[0] + float64(x)*g.spacing[0],
		g.origin[1] + float64(y)*g.spacing[1],
		g.origin[2] + float64(z)*g.spacing[2],
	}
}

// WorldToIndex implements Grid, snapping to the nearest grid point.
func (g *Regular) WorldToIndex(p Point) (int, error) {
	var idx [3]int
	for axis := 0; axis < 3; axis++ {
		i := int(math.Round((p[axis] - g.origin[axis]) / g.spacing[axis]))
		if i < 0 || i >= g.dims[axis] {
			return 0, errors.Wrapf(ErrOutsideGrid, "axis %d: %v", axis, p[axis])
		}
		idx[axis] = i
	}
	return idx[0] + g.dims[0]*(idx[1]+g.dims[1]*idx[2]), nil
}
