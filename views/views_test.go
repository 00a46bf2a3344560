// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package views_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/vizscene/data"
	"cogentcore.org/vizscene/scene"
	"cogentcore.org/vizscene/transform"
	. "cogentcore.org/vizscene/views"
)

func newScene() *scene.Scene {
	sc := scene.NewScene()
	transform.RegisterNodes(sc)
	data.RegisterNodes(sc)
	RegisterNodes(sc)
	return sc
}

func assertVec3(t *testing.T, want, got mgl32.Vec3, msg ...any) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], 1e-4, msg...)
	}
}

func TestFlags(t *testing.T) {
	var f Flags
	f.SetFlag(true, SliceToRASFlag, SliceFieldOfViewFlag)
	assert.True(t, f.HasFlag(SliceToRASFlag))
	assert.True(t, f.HasFlag(SliceFieldOfViewFlag|SliceXYZOriginFlag))
	assert.False(t, f.HasFlag(SliceXYZOriginFlag))
	f.ClearFlag(SliceToRASFlag)
	assert.Equal(t, SliceFieldOfViewFlag, f)
	assert.Equal(t, "Flags(0x2)", f.String())

	var s InteractionState
	s.ResetInteractionFlagsModifier()
	s.SetInteractionFlags(SliceToRASFlag | SliceFieldOfViewFlag)
	s.InteractionFlagsModifier.ClearFlag(SliceToRASFlag)
	assert.Equal(t, SliceFieldOfViewFlag, s.BroadcastFlags())
}

func TestSliceOrientation(t *testing.T) {
	sc := newScene()
	s := sc.AddNewNodeByClass("SliceNode", "Red").(*SliceNode)
	assert.Equal(t, Axial, s.OrientationName)

	s.SetSliceOffset(5)
	assert.InDelta(t, 5, s.SliceOffset(), 1e-5)

	events := 0
	s.On(scene.EventModified, func(caller scene.Node, data any) { events++ })
	require.True(t, s.SetOrientation(Sagittal))
	assert.Equal(t, Sagittal, s.OrientationName)
	assert.Equal(t, 1, events)
	assertVec3(t, mgl32.Vec3{0, 0, 5}, s.SliceToRAS.Col(3).Vec3(), "center is kept")
	assertVec3(t, mgl32.Vec3{1, 0, 0}, s.Normal())

	assert.False(t, s.SetOrientation("Oblique"))
	assert.Equal(t, Sagittal, s.OrientationName)

	s.ResetOrientation()
	assert.Equal(t, Axial, s.OrientationName)

	axial, _ := OrientationMatrix(Axial)
	tilted := mgl32.HomogRotate3D(mgl32.DegToRad(10), mgl32.Vec3{0, 0, 1}).Mul4(axial)
	s.SetSliceToRAS(tilted)
	assert.Equal(t, Reformat, s.OrientationName)

	other := scene.New[SliceNode]()
	assert.False(t, s.IsOrientationMatching(other, 0.001))
	assert.True(t, s.IsOrientationMatching(other, 0.5))
}

func TestRotateToVolumePlane(t *testing.T) {
	sc := newScene()
	s := sc.AddNewNodeByClass("SliceNode", "Red").(*SliceNode)
	axial, _ := OrientationMatrix(Axial)
	s.SetSliceToRAS(mgl32.HomogRotate3D(mgl32.DegToRad(10), mgl32.Vec3{0, 0, 1}).Mul4(axial))
	require.Equal(t, Reformat, s.OrientationName)

	assert.False(t, s.RotateToVolumePlane(nil))
	v := sc.AddNewNodeByClass("VolumeNode", "volume").(*data.VolumeNode)
	v.SetGeometry(mgl32.Vec3{}, mgl32.Vec3{2, 2, 2}, [3]mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	require.True(t, s.RotateToVolumePlane(v))
	assert.Equal(t, Axial, s.OrientationName)
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, s.SliceToRAS.Col(0).Vec3())
}

func TestResetFieldOfView(t *testing.T) {
	sc := newScene()
	s := sc.AddNewNodeByClass("SliceNode", "Red").(*SliceNode)
	s.SetDimensions([3]int{200, 100, 1})
	s.SetXYZOrigin(mgl32.Vec3{3, 4, 0})
	events := 0
	s.On(scene.EventModified, func(caller scene.Node, data any) { events++ })
	s.ResetFieldOfView()
	assert.Equal(t, 1, events)
	assert.Equal(t, mgl32.Vec3{250, 125, 1}, s.FieldOfView)
	assert.Equal(t, mgl32.Vec3{}, s.XYZOrigin)
}

func TestComposite(t *testing.T) {
	sc := newScene()
	s := sc.AddNewNodeByClass("SliceNode", "Red").(*SliceNode)
	s.SetLayoutName("Red")
	c := sc.AddNewNodeByClass("SliceCompositeNode", "Red composite").(*SliceCompositeNode)
	c.SetLayoutName("Red")
	assert.Same(t, s, c.SliceNode())
	assert.Same(t, c, s.CompositeNode())

	v := sc.AddNewNodeByClass("VolumeNode", "volume").(*data.VolumeNode)
	m := sc.AddNewNodeByClass("ModelNode", "model")
	c.SetBackgroundVolumeID(v.ID)
	assert.Same(t, v, c.BackgroundVolume())
	c.SetForegroundVolumeID(m.AsNode().ID)
	assert.Nil(t, c.LayerVolume(ForegroundVolumeRole), "only volumes are layers")

	c.SetLabelOpacity(3)
	assert.Equal(t, float32(1), c.LabelOpacity)

	sc.RemoveNode(v)
	assert.Empty(t, c.LayerVolumeID(BackgroundVolumeRole))
}

func TestCamera(t *testing.T) {
	sc := newScene()
	v := sc.AddNewNodeByClass("ViewNode", "View1").(*ViewNode)
	c := sc.AddNewNodeByClass("CameraNode", "camera").(*CameraNode)
	c.SetViewNodeID(v.ID)
	assert.Same(t, v, c.ViewNode())
	assert.Equal(t, []*CameraNode{c}, v.Cameras())

	events := 0
	c.On(scene.EventModified, func(caller scene.Node, data any) { events++ })
	c.LookFromAxis(Left)
	assert.Equal(t, 1, events)
	assertVec3(t, mgl32.Vec3{-500, 0, 0}, c.Position)
	c.LookFromAxis(Superior)
	assertVec3(t, mgl32.Vec3{0, 0, 500}, c.Position)
	assertVec3(t, mgl32.Vec3{0, 1, 0}, c.ViewUp)

	c.Dolly(2)
	assert.InDelta(t, 250, c.Distance(), 1e-3)
	assert.InDelta(t, 0.5, c.ParallelScale, 1e-6)

	c.SetFocalPoint(mgl32.Vec3{10, 0, 0})
	assertVec3(t, mgl32.Vec3{10, 0, 250}, c.Position)

	c.SetDistance(100)
	assertVec3(t, mgl32.Vec3{10, 0, 100}, c.Position)

	c.Reset()
	assertVec3(t, mgl32.Vec3{0, 500, 0}, c.Position)
	assertVec3(t, mgl32.Vec3{}, c.FocalPoint)
	assert.Equal(t, Anterior, c.LookAxis)

	events = 0
	assert.Equal(t, mgl32.Vec3{}, Axis(6).Direction())
	assert.Equal(t, mgl32.Vec3{}, Axis(-1).Direction())
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, Superior.Direction())
	assert.NotPanics(t, func() { c.LookFromAxis(Axis(9)) })
	assertVec3(t, mgl32.Vec3{0, 500, 0}, c.Position)
	assert.Equal(t, Anterior, c.LookAxis)
	assert.Equal(t, 0, events)
}

func TestSelection(t *testing.T) {
	sc := newScene()
	s := Selection(sc)
	require.NotNil(t, s)
	assert.Equal(t, "SelectionNodeSingleton", s.ID)
	assert.Same(t, s, Selection(sc))

	v := sc.AddNewNodeByClass("VolumeNode", "volume").(*data.VolumeNode)
	view := sc.AddNewNodeByClass("ViewNode", "View1")
	s.SetActiveVolumeID(v.ID)
	s.SetActiveViewID(view.AsNode().ID)
	assert.Same(t, v, s.ActiveVolume())
	assert.Same(t, view, s.ActiveView())
}

func TestViewsRoundTrip(t *testing.T) {
	src := newScene()
	s := src.AddNewNodeByClass("SliceNode", "Yellow").(*SliceNode)
	s.SetLayoutName("Yellow")
	s.SetOrientation(Sagittal)
	s.SetSliceSpacingMode(PrescribedSliceSpacing)
	s.SetDimensions([3]int{300, 200, 1})
	c := src.AddNewNodeByClass("SliceCompositeNode", "Yellow composite").(*SliceCompositeNode)
	c.SetLayoutName("Yellow")
	c.SetLinkedControl(true)
	vol := src.AddNewNodeByClass("VolumeNode", "volume")
	c.SetBackgroundVolumeID(vol.AsNode().ID)
	v := src.AddNewNodeByClass("ViewNode", "View1").(*ViewNode)
	v.SetRenderMode(Orthographic)
	v.SetRulerType(ThickRuler)
	cam := src.AddNewNodeByClass("CameraNode", "camera").(*CameraNode)
	cam.SetViewNodeID(v.ID)
	cam.LookFromAxis(Inferior)
	Selection(src).SetActiveViewID(v.ID)

	str, err := src.Serialize()
	require.NoError(t, err)
	dst := newScene()
	_, err = dst.ImportString(str)
	require.NoError(t, err)

	ds := dst.NodeByID(s.ID).(*SliceNode)
	assert.Equal(t, Sagittal, ds.OrientationName)
	assert.Equal(t, s.SliceToRAS, ds.SliceToRAS)
	assert.Equal(t, PrescribedSliceSpacing, ds.SliceSpacingMode)
	assert.Equal(t, [3]int{300, 200, 1}, ds.Dimensions)
	dc := ds.CompositeNode()
	require.NotNil(t, dc)
	assert.True(t, dc.LinkedControl)
	assert.Equal(t, vol.AsNode().ID, dc.BackgroundVolume().ID)
	dv := dst.NodeByID(v.ID).(*ViewNode)
	assert.Equal(t, Orthographic, dv.RenderMode)
	assert.Equal(t, ThickRuler, dv.RulerType)
	dcam := dst.NodeByID(cam.ID).(*CameraNode)
	assert.Same(t, dv, dcam.ViewNode())
	assert.Equal(t, Inferior, dcam.LookAxis)
	assertVec3(t, cam.Position, dcam.Position)
	assert.Same(t, dv, Selection(dst).ActiveView())
}
