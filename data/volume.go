// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/vizscene/math32"
	"cogentcore.org/vizscene/scene"
)

// VolumeNode is a displayable image volume. Its geometry maps voxel
// indexes (IJK) to the local space of its parent transform (RAS).
// Only linear transforms can be hardened into a volume.
type VolumeNode struct {
	DisplayableBase

	// IJKToRAS maps voxel indexes to positions.
	IJKToRAS mgl32.Mat4

	// Dimensions is the number of voxels along each axis.
	Dimensions [3]int
}

func (v *VolumeNode) New() scene.Node { return &VolumeNode{} }

func (v *VolumeNode) Init() {
	v.DisplayableBase.Init()
	v.IJKToRAS = mgl32.Ident4()
}

// SetIJKToRAS sets [VolumeNode.IJKToRAS], emitting [EventImageDataModified].
func (v *VolumeNode) SetIJKToRAS(m mgl32.Mat4) {
	if v.IJKToRAS == m {
		return
	}
	defer v.ModifyScope()()
	v.IJKToRAS = m
	v.InvokeCustomModifiedEvent(EventImageDataModified, nil)
	v.Modified()
}

// SetGeometry sets [VolumeNode.IJKToRAS] from the position of the first
// voxel, the voxel spacing and the directions of the voxel axes.
func (v *VolumeNode) SetGeometry(origin, spacing mgl32.Vec3, directions [3]mgl32.Vec3) {
	var cols [3]mgl32.Vec4
	for i := range 3 {
		d := directions[i]
		if d.Len() > 0 {
			d = d.Normalize()
		}
		cols[i] = d.Mul(spacing[i]).Vec4(0)
	}
	v.SetIJKToRAS(mgl32.Mat4FromCols(cols[0], cols[1], cols[2], origin.Vec4(1)))
}

// SetDimensions sets [VolumeNode.Dimensions], emitting [EventImageDataModified].
func (v *VolumeNode) SetDimensions(dims [3]int) {
	if v.Dimensions == dims {
		return
	}
	defer v.ModifyScope()()
	v.Dimensions = dims
	v.InvokeCustomModifiedEvent(EventImageDataModified, nil)
	v.Modified()
}

// Origin returns the position of the first voxel.
func (v *VolumeNode) Origin() mgl32.Vec3 {
	return math32.Translation(v.IJKToRAS)
}

// Spacing returns the distance between voxels along each axis.
func (v *VolumeNode) Spacing() mgl32.Vec3 {
	var s mgl32.Vec3
	for i := range 3 {
		s[i] = v.IJKToRAS.Col(i).Vec3().Len()
	}
	return s
}

// Directions returns the normalized directions of the voxel axes.
func (v *VolumeNode) Directions() [3]mgl32.Vec3 {
	return math32.Axes(v.IJKToRAS)
}

// Center returns the position of the center of the volume.
func (v *VolumeNode) Center() mgl32.Vec3 {
	var c mgl32.Vec3
	for i := range 3 {
		c[i] = float32(max(v.Dimensions[i]-1, 0)) / 2
	}
	return math32.MulPoint(v.IJKToRAS, c)
}

// IJKToWorld returns the matrix from voxel indexes to world space,
// or false if the transform to world is not linear.
func (v *VolumeNode) IJKToWorld() (mgl32.Mat4, bool) {
	w, ok := v.MatrixToWorld()
	if !ok {
		return mgl32.Mat4{}, false
	}
	return w.Mul4(v.IJKToRAS), true
}

// ApplyTransformMatrix premultiplies [VolumeNode.IJKToRAS] by the given matrix.
func (v *VolumeNode) ApplyTransformMatrix(m mgl32.Mat4) {
	v.SetIJKToRAS(m.Mul4(v.IJKToRAS))
}

// CreateDefaultDisplayNodes adds a [VolumeDisplayNode] to the scene and
// references it, if the volume has no display node yet.
func (v *VolumeNode) CreateDefaultDisplayNodes() *VolumeDisplayNode {
	dn, _ := v.createDisplayNode("VolumeDisplayNode").(*VolumeDisplayNode)
	return dn
}

func (v *VolumeNode) ReadAttributes(a *scene.Attributes) {
	v.DisplayableBase.ReadAttributes(a)
	a.Mat4("ijkToRAS", &v.IJKToRAS)
	var dims []int
	a.Ints("dimensions", &dims)
	if len(dims) == 3 {
		copy(v.Dimensions[:], dims)
	}
}

func (v *VolumeNode) WriteAttributes(a *scene.Attributes) {
	v.DisplayableBase.WriteAttributes(a)
	a.SetMat4("ijkToRAS", v.IJKToRAS)
	a.SetInts("dimensions", v.Dimensions[:]...)
}
