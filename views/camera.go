// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package views

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/vizscene/scene"
)

// Camera interaction flags.
const (
	CameraPoseFlag Flags = 1 << iota
	CameraZoomFlag
	CameraLookFromAxisFlag
	CameraCenterFlag
)

// Axis is a world axis direction that a camera can look from.
type Axis int32

const (
	Left Axis = iota
	Right
	Posterior
	Anterior
	Inferior
	Superior
)

var axisNames = []string{"Left", "Right", "Posterior", "Anterior", "Inferior", "Superior"}

func (a Axis) String() string { return enumString(axisNames, int32(a)) }

// Direction returns the unit vector of the axis in RAS coordinates,
// or the zero vector for an invalid axis.
func (a Axis) Direction() mgl32.Vec3 {
	d := mgl32.Vec3{}
	if a < 0 || int(a) >= len(axisNames) {
		return d
	}
	sign := float32(1)
	if a%2 == 0 {
		sign = -1
	}
	d[a/2] = sign
	return d
}

// CameraNode is the camera of a [ViewNode].
type CameraNode struct {
	scene.NodeBase
	InteractionState

	// Position is the position of the camera.
	Position mgl32.Vec3

	// FocalPoint is the point that the camera looks at.
	FocalPoint mgl32.Vec3

	// ViewUp is the up direction of the camera.
	ViewUp mgl32.Vec3

	// ViewAngle is the vertical angle of view in degrees, used by
	// perspective projection.
	ViewAngle float32

	// ParallelScale is half the height of the view in world units,
	// used by orthographic projection.
	ParallelScale float32

	// LookAxis is the axis of the last [CameraNode.LookFromAxis].
	LookAxis Axis
}

func (c *CameraNode) New() scene.Node { return &CameraNode{} }

func (c *CameraNode) Init() {
	c.NodeBase.Init()
	c.ResetInteractionFlagsModifier()
	c.DeclareReferenceRole(ViewRole, "viewNodeRef", nil, scene.TargetClass("ViewNode"))
	c.setDefaults()
}

// ViewRole is the role through which a camera references its view.
const ViewRole = "view"

func (c *CameraNode) setDefaults() {
	c.Position = mgl32.Vec3{0, 500, 0}
	c.FocalPoint = mgl32.Vec3{}
	c.ViewUp = mgl32.Vec3{0, 0, 1}
	c.ViewAngle = 30
	c.ParallelScale = 1
	c.LookAxis = Anterior
}

// ViewNode returns the view of the camera, or nil.
func (c *CameraNode) ViewNode() *ViewNode {
	v, _ := c.Reference(ViewRole).(*ViewNode)
	return v
}

// SetViewNodeID sets the view of the camera.
func (c *CameraNode) SetViewNodeID(id string) {
	c.SetReferenceID(ViewRole, id)
}

// SetPose sets the position, focal point and up direction of the camera.
func (c *CameraNode) SetPose(position, focal, up mgl32.Vec3) {
	if c.Position == position && c.FocalPoint == focal && c.ViewUp == up {
		return
	}
	c.Position, c.FocalPoint, c.ViewUp = position, focal, up
	c.Modified()
}

// SetViewAngle sets [CameraNode.ViewAngle].
func (c *CameraNode) SetViewAngle(a float32) { setField(&c.NodeBase, &c.ViewAngle, a) }

// SetParallelScale sets [CameraNode.ParallelScale].
func (c *CameraNode) SetParallelScale(s float32) { setField(&c.NodeBase, &c.ParallelScale, s) }

// Distance returns the distance from the position to the focal point.
func (c *CameraNode) Distance() float32 {
	return c.Position.Sub(c.FocalPoint).Len()
}

// SetDistance moves the camera along its view direction so that it is
// at the given distance from the focal point. It does nothing if the
// distance is not positive or the position is at the focal point.
func (c *CameraNode) SetDistance(d float32) {
	dir := c.Position.Sub(c.FocalPoint)
	l := dir.Len()
	if d <= 0 || l == 0 {
		return
	}
	c.SetPose(c.FocalPoint.Add(dir.Mul(d/l)), c.FocalPoint, c.ViewUp)
}

// Dolly moves the camera toward the focal point by the given factor:
// a factor above 1 moves closer. It also divides the parallel scale.
func (c *CameraNode) Dolly(factor float32) {
	if factor <= 0 {
		return
	}
	defer c.ModifyScope()()
	d := c.Position.Sub(c.FocalPoint).Mul(1 / factor)
	c.SetPose(c.FocalPoint.Add(d), c.FocalPoint, c.ViewUp)
	c.SetParallelScale(c.ParallelScale / factor)
}

// LookFromAxis moves the camera onto the given axis through the focal
// point, keeping its distance.
func (c *CameraNode) LookFromAxis(axis Axis) {
	dir := axis.Direction()
	if dir == (mgl32.Vec3{}) {
		slog.Warn("views.CameraNode.LookFromAxis: invalid axis", "id", c.ID, "axis", int32(axis))
		return
	}
	defer c.ModifyScope()()
	dist := c.Distance()
	if dist == 0 {
		dist = 500
	}
	up := mgl32.Vec3{0, 0, 1}
	if axis == Inferior || axis == Superior {
		up = mgl32.Vec3{0, 1, 0}
	}
	c.SetPose(c.FocalPoint.Add(dir.Mul(dist)), c.FocalPoint, up)
	setField(&c.NodeBase, &c.LookAxis, axis)
}

// SetFocalPoint moves the focal point to the given point, translating
// the position with it.
func (c *CameraNode) SetFocalPoint(p mgl32.Vec3) {
	c.SetPose(c.Position.Add(p.Sub(c.FocalPoint)), p, c.ViewUp)
}

// Reset restores the default pose and zoom.
func (c *CameraNode) Reset() {
	defer c.ModifyScope()()
	def := CameraNode{}
	def.setDefaults()
	c.SetPose(def.Position, def.FocalPoint, def.ViewUp)
	c.SetViewAngle(def.ViewAngle)
	c.SetParallelScale(def.ParallelScale)
	setField(&c.NodeBase, &c.LookAxis, def.LookAxis)
}

func (c *CameraNode) ReadAttributes(a *scene.Attributes) {
	c.NodeBase.ReadAttributes(a)
	a.Vec3("position", &c.Position)
	a.Vec3("focalPoint", &c.FocalPoint)
	a.Vec3("viewUp", &c.ViewUp)
	a.Float32("viewAngle", &c.ViewAngle)
	a.Float32("parallelScale", &c.ParallelScale)
	readEnum(a, "lookAxis", axisNames, &c.LookAxis)
}

func (c *CameraNode) WriteAttributes(a *scene.Attributes) {
	c.NodeBase.WriteAttributes(a)
	a.SetVec3("position", c.Position)
	a.SetVec3("focalPoint", c.FocalPoint)
	a.SetVec3("viewUp", c.ViewUp)
	a.SetFloat32("viewAngle", c.ViewAngle)
	a.SetFloat32("parallelScale", c.ParallelScale)
	a.Set("lookAxis", c.LookAxis.String())
}
