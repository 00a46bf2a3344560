// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transform

import (
	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/vizscene/math32"
)

// Grid is a non-linear transform that adds a displacement, interpolated
// trilinearly from a regular grid of displacement vectors, to each point,
// and then applies PostMatrix. Points outside of the grid are not displaced.
type Grid struct {

	// Origin is the position of the first grid point.
	Origin mgl32.Vec3

	// Spacing is the distance between grid points along each axis.
	Spacing mgl32.Vec3

	// Dims is the number of grid points along each axis.
	Dims [3]int

	// Displacements are the displacement vectors of the grid points,
	// with x varying fastest.
	Displacements []mgl32.Vec3

	// PostMatrix is applied after the displacement.
	PostMatrix mgl32.Mat4
}

// NumPoints returns the number of grid points given by Dims.
func (g *Grid) NumPoints() int {
	return g.Dims[0] * g.Dims[1] * g.Dims[2]
}

// IsValid returns whether the grid has positive dimensions, a
// displacement for every grid point and a non-zero spacing.
func (g *Grid) IsValid() bool {
	if g.Dims[0] <= 0 || g.Dims[1] <= 0 || g.Dims[2] <= 0 || len(g.Displacements) != g.NumPoints() {
		return false
	}
	return g.Spacing[0] != 0 && g.Spacing[1] != 0 && g.Spacing[2] != 0
}

func (g *Grid) at(i, j, k int) mgl32.Vec3 {
	return g.Displacements[i+g.Dims[0]*(j+g.Dims[1]*k)]
}

// Displacement returns the interpolated displacement at the given point.
func (g *Grid) Displacement(p mgl32.Vec3) mgl32.Vec3 {
	if !g.IsValid() {
		return mgl32.Vec3{}
	}
	var i0 [3]int
	var f [3]float32
	for a := range 3 {
		x := (p[a] - g.Origin[a]) / g.Spacing[a]
		last := float32(g.Dims[a] - 1)
		if x < 0 || x > last {
			return mgl32.Vec3{}
		}
		fl := math32.Floor(x)
		i := int(fl)
		if i >= g.Dims[a]-1 {
			i = max(g.Dims[a]-2, 0)
		}
		i0[a] = i
		f[a] = x - float32(i)
	}
	var d mgl32.Vec3
	for dk := range 2 {
		wk := 1 - f[2]
		if dk == 1 {
			wk = f[2]
		}
		k := min(i0[2]+dk, g.Dims[2]-1)
		for dj := range 2 {
			wj := 1 - f[1]
			if dj == 1 {
				wj = f[1]
			}
			j := min(i0[1]+dj, g.Dims[1]-1)
			for di := range 2 {
				wi := 1 - f[0]
				if di == 1 {
					wi = f[0]
				}
				i := min(i0[0]+di, g.Dims[0]-1)
				w := wi * wj * wk
				if w == 0 {
					continue
				}
				d = d.Add(g.at(i, j, k).Mul(w))
			}
		}
	}
	return d
}

func (g *Grid) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	return math32.MulPoint(g.PostMatrix, p.Add(g.Displacement(p)))
}

func (g *Grid) Inverse() Transform {
	return &InverseGrid{Grid: g}
}

func (g *Grid) IsLinear() bool { return false }

func (g *Grid) Matrix() (mgl32.Mat4, bool) { return mgl32.Mat4{}, false }

// InverseGrid is the inverse of a [Grid], computed for each point by
// fixed-point iteration. It converges when the displacement field is
// smooth relative to the grid spacing.
type InverseGrid struct {
	Grid *Grid
}

const (
	inverseIterations = 50
	inverseTolerance  = 1e-5
)

func (ig *InverseGrid) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	y := math32.MulPoint(ig.Grid.PostMatrix.Inv(), p)
	x := y
	for range inverseIterations {
		nx := y.Sub(ig.Grid.Displacement(x))
		done := nx.Sub(x).Len() < inverseTolerance
		x = nx
		if done {
			break
		}
	}
	return x
}

func (ig *InverseGrid) Inverse() Transform { return ig.Grid }

func (ig *InverseGrid) IsLinear() bool { return false }

func (ig *InverseGrid) Matrix() (mgl32.Mat4, bool) { return mgl32.Mat4{}, false }
