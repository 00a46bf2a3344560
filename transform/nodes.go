// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transform

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/vizscene/math32"
	"cogentcore.org/vizscene/scene"
)

// RegisterNodes registers the transform node classes in the given scene.
func RegisterNodes(sc *scene.Scene) {
	sc.RegisterNodeClass(&LinearTransformNode{})
	sc.RegisterNodeClass(&GridTransformNode{})
}

// LinearTransformNode is a transform node defined by a matrix.
type LinearTransformNode struct {
	TransformableBase

	// MatrixToParent maps points from the space of the nodes under this
	// node to the space of its parent transform.
	MatrixToParent mgl32.Mat4
}

func (n *LinearTransformNode) New() scene.Node { return &LinearTransformNode{} }

func (n *LinearTransformNode) Init() {
	n.TransformableBase.Init()
	n.MatrixToParent = mgl32.Ident4()
}

func (n *LinearTransformNode) TransformToParent() Transform {
	return Linear{M: n.MatrixToParent}
}

func (n *LinearTransformNode) IsLinear() bool { return true }

// SetMatrixToParent sets [LinearTransformNode.MatrixToParent], emitting
// [EventTransformModified] and [scene.EventModified] if it changed.
func (n *LinearTransformNode) SetMatrixToParent(m mgl32.Mat4) {
	if m == n.MatrixToParent {
		return
	}
	defer n.ModifyScope()()
	n.MatrixToParent = m
	n.InvokeCustomModifiedEvent(EventTransformModified, n.This)
	n.Modified()
}

// Translate translates the nodes under this node by the given offset
// in the space of the parent.
func (n *LinearTransformNode) Translate(v mgl32.Vec3) {
	n.SetMatrixToParent(mgl32.Translate3D(v[0], v[1], v[2]).Mul4(n.MatrixToParent))
}

// Rotate rotates the nodes under this node by the given angle in degrees
// around the given axis through the origin of the parent.
func (n *LinearTransformNode) Rotate(degrees float32, axis mgl32.Vec3) {
	if axis.Len() == 0 {
		return
	}
	r := mgl32.HomogRotate3D(math32.DegToRad(degrees), axis.Normalize())
	n.SetMatrixToParent(r.Mul4(n.MatrixToParent))
}

// Scale scales the nodes under this node by the given factors along
// the axes of the parent.
func (n *LinearTransformNode) Scale(s mgl32.Vec3) {
	n.SetMatrixToParent(mgl32.Scale3D(s[0], s[1], s[2]).Mul4(n.MatrixToParent))
}

// ApplyTransformMatrix premultiplies [LinearTransformNode.MatrixToParent]
// by the given matrix.
func (n *LinearTransformNode) ApplyTransformMatrix(m mgl32.Mat4) {
	n.SetMatrixToParent(m.Mul4(n.MatrixToParent))
}

func (n *LinearTransformNode) ReadAttributes(a *scene.Attributes) {
	n.TransformableBase.ReadAttributes(a)
	a.Mat4("matrixTransformToParent", &n.MatrixToParent)
}

func (n *LinearTransformNode) WriteAttributes(a *scene.Attributes) {
	n.TransformableBase.WriteAttributes(a)
	a.SetMat4("matrixTransformToParent", n.MatrixToParent)
}

// GridTransformNode is a non-linear transform node defined by a grid of
// displacement vectors followed by a matrix. See [Grid].
type GridTransformNode struct {
	TransformableBase

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

func (n *GridTransformNode) New() scene.Node { return &GridTransformNode{} }

func (n *GridTransformNode) Init() {
	n.TransformableBase.Init()
	n.Spacing = mgl32.Vec3{1, 1, 1}
	n.PostMatrix = mgl32.Ident4()
}

// Grid returns the [Grid] transform of the node.
func (n *GridTransformNode) Grid() *Grid {
	return &Grid{Origin: n.Origin, Spacing: n.Spacing, Dims: n.Dims, Displacements: n.Displacements, PostMatrix: n.PostMatrix}
}

func (n *GridTransformNode) TransformToParent() Transform {
	return n.Grid()
}

func (n *GridTransformNode) IsLinear() bool { return false }

// SetGrid sets the displacement grid. The number of displacements must
// match the dimensions.
func (n *GridTransformNode) SetGrid(origin, spacing mgl32.Vec3, dims [3]int, displacements []mgl32.Vec3) error {
	g := &Grid{Origin: origin, Spacing: spacing, Dims: dims, Displacements: displacements}
	if !g.IsValid() {
		return fmt.Errorf("transform.GridTransformNode.SetGrid: %d displacements for dimensions %v and spacing %v", len(displacements), dims, spacing)
	}
	defer n.ModifyScope()()
	n.Origin = origin
	n.Spacing = spacing
	n.Dims = dims
	n.Displacements = displacements
	n.InvokeCustomModifiedEvent(EventTransformModified, n.This)
	n.Modified()
	return nil
}

// ApplyTransformMatrix premultiplies [GridTransformNode.PostMatrix]
// by the given matrix.
func (n *GridTransformNode) ApplyTransformMatrix(m mgl32.Mat4) {
	defer n.ModifyScope()()
	n.PostMatrix = m.Mul4(n.PostMatrix)
	n.InvokeCustomModifiedEvent(EventTransformModified, n.This)
	n.Modified()
}

func (n *GridTransformNode) ReadAttributes(a *scene.Attributes) {
	n.TransformableBase.ReadAttributes(a)
	a.Vec3("gridOrigin", &n.Origin)
	a.Vec3("gridSpacing", &n.Spacing)
	var dims []int
	a.Ints("gridDimensions", &dims)
	if len(dims) == 3 {
		copy(n.Dims[:], dims)
	}
	a.Vec3s("displacements", &n.Displacements)
	a.Mat4("postMatrix", &n.PostMatrix)
}

func (n *GridTransformNode) WriteAttributes(a *scene.Attributes) {
	n.TransformableBase.WriteAttributes(a)
	a.SetVec3("gridOrigin", n.Origin)
	a.SetVec3("gridSpacing", n.Spacing)
	a.SetInts("gridDimensions", n.Dims[:]...)
	a.SetVec3s("displacements", n.Displacements)
	a.SetMat4("postMatrix", n.PostMatrix)
}
