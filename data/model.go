// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/vizscene/math32"
	"cogentcore.org/vizscene/scene"
	"cogentcore.org/vizscene/transform"
)

// ModelNode is a displayable point set, such as the vertices of a
// surface mesh, in the local space of its parent transform.
type ModelNode struct {
	DisplayableBase

	// Points are the positions of the points.
	Points []mgl32.Vec3
}

func (m *ModelNode) New() scene.Node { return &ModelNode{} }

// SetPoints sets the points, emitting [EventMeshModified].
func (m *ModelNode) SetPoints(pts []mgl32.Vec3) {
	defer m.ModifyScope()()
	m.Points = pts
	m.InvokeCustomModifiedEvent(EventMeshModified, nil)
	m.Modified()
}

// Bounds returns the lowest and highest coordinates of the points in
// local space, or false if there are no points.
func (m *ModelNode) Bounds() (lo, hi mgl32.Vec3, ok bool) {
	return bounds(m.Points)
}

// WorldBounds returns [ModelNode.Bounds] of the points mapped to
// world space.
func (m *ModelNode) WorldBounds() (lo, hi mgl32.Vec3, ok bool) {
	tr := m.TransformToWorld()
	pts := make([]mgl32.Vec3, len(m.Points))
	for i, p := range m.Points {
		pts[i] = tr.TransformPoint(p)
	}
	return bounds(pts)
}

func bounds(pts []mgl32.Vec3) (lo, hi mgl32.Vec3, ok bool) {
	if len(pts) == 0 {
		return
	}
	lo, hi = pts[0], pts[0]
	for _, p := range pts[1:] {
		for i := range 3 {
			lo[i] = math32.Min(lo[i], p[i])
			hi[i] = math32.Max(hi[i], p[i])
		}
	}
	return lo, hi, true
}

func (m *ModelNode) ApplyTransformMatrix(mat mgl32.Mat4) {
	pts := make([]mgl32.Vec3, len(m.Points))
	for i, p := range m.Points {
		pts[i] = math32.MulPoint(mat, p)
	}
	m.SetPoints(pts)
}

// ApplyTransform maps every point through the given transform,
// which can be non-linear.
func (m *ModelNode) ApplyTransform(t transform.Transform) bool {
	pts := make([]mgl32.Vec3, len(m.Points))
	for i, p := range m.Points {
		pts[i] = t.TransformPoint(p)
	}
	m.SetPoints(pts)
	return true
}

func (m *ModelNode) CanApplyNonLinearTransforms() bool { return true }

// CreateDefaultDisplayNodes adds a [ModelDisplayNode] to the scene and
// references it, if the model has no display node yet.
func (m *ModelNode) CreateDefaultDisplayNodes() *ModelDisplayNode {
	dn, _ := m.createDisplayNode("ModelDisplayNode").(*ModelDisplayNode)
	return dn
}

func (m *ModelNode) ReadAttributes(a *scene.Attributes) {
	m.DisplayableBase.ReadAttributes(a)
	a.Vec3s("points", &m.Points)
}

func (m *ModelNode) WriteAttributes(a *scene.Attributes) {
	m.DisplayableBase.WriteAttributes(a)
	if len(m.Points) > 0 {
		a.SetVec3s("points", m.Points)
	}
}
