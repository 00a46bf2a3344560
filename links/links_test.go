// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package links_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/vizscene/data"
	. "cogentcore.org/vizscene/links"
	"cogentcore.org/vizscene/scene"
	"cogentcore.org/vizscene/views"
)

func newScene() (*scene.Scene, *Logic) {
	sc := scene.NewScene()
	data.RegisterNodes(sc)
	views.RegisterNodes(sc)
	return sc, New(sc)
}

func countModified(n scene.Node) *int {
	count := new(int)
	n.AsNode().On(scene.EventModified, func(caller scene.Node, data any) { *count++ })
	return count
}

func addView(sc *scene.Scene, name string, hot bool) *views.ViewNode {
	v := sc.AddNewNodeByClass("ViewNode", name).(*views.ViewNode)
	v.SetLinkedControl(true)
	v.SetHotLinkedControl(hot)
	return v
}

func addSlice(sc *scene.Scene, name, orientation string) *views.SliceNode {
	s := sc.AddNewNodeByClass("SliceNode", name).(*views.SliceNode)
	s.SetLayoutName(name)
	s.SetOrientation(orientation)
	c := sc.AddNewNodeByClass("SliceCompositeNode", name+" composite").(*views.SliceCompositeNode)
	c.SetLayoutName(name)
	c.SetLinkedControl(true)
	c.SetHotLinkedControl(true)
	return s
}

func TestBroadcastNonReentrant(t *testing.T) {
	sc, lg := newScene()
	a := addView(sc, "A", true)
	b := addView(sc, "B", true)
	aEvents, bEvents := countModified(a), countModified(b)
	bFieldOfViewSets := 0
	b.On(scene.EventModified, func(caller scene.Node, data any) {
		if b.FieldOfView == 300 {
			bFieldOfViewSets++
		}
	})
	// b also interacts, so its update would broadcast back without the guard
	b.InteractingOn()
	b.SetInteractionFlags(views.ViewFieldOfViewFlag)

	a.InteractingOn()
	a.SetInteractionFlags(views.ViewFieldOfViewFlag)
	a.SetFieldOfView(300)
	a.InteractingOff()

	assert.Equal(t, float32(300), b.FieldOfView)
	assert.Equal(t, 1, *bEvents)
	assert.Equal(t, 1, bFieldOfViewSets)
	assert.Equal(t, 1, *aEvents)
	assert.False(t, lg.IsBroadcasting())
}

func TestBroadcastGating(t *testing.T) {
	sc, _ := newScene()
	a := addView(sc, "A", true)
	b := addView(sc, "B", true)
	c := addView(sc, "C", true)
	c.SetViewGroup(1)

	a.SetFieldOfView(150)
	assert.Equal(t, float32(200), b.FieldOfView, "not interacting")

	a.InteractingOn()
	a.SetFieldOfView(160)
	assert.Equal(t, float32(200), b.FieldOfView, "no interaction flags")

	a.SetInteractionFlags(views.ViewFieldOfViewFlag | views.ViewBoxVisibleFlag)
	a.InteractionFlagsModifier.ClearFlag(views.ViewBoxVisibleFlag)
	func() {
		defer a.ModifyScope()()
		a.SetFieldOfView(170)
		a.SetBoxVisible(false)
	}()
	assert.Equal(t, float32(170), b.FieldOfView)
	assert.True(t, b.BoxVisible, "masked by the modifier")
	assert.Equal(t, float32(200), c.FieldOfView, "other view group")

	a.SetLinkedControl(false)
	a.SetFieldOfView(180)
	assert.Equal(t, float32(170), b.FieldOfView, "not linked")
}

func TestOrientationGating(t *testing.T) {
	sc, lg := newScene()
	assert.Equal(t, float32(DefaultOrientationTolerance), lg.OrientationTolerance)
	a := addSlice(sc, "Red", views.Axial)
	b := addSlice(sc, "Yellow", views.Sagittal)
	c := addSlice(sc, "Other", views.Axial)
	bToRAS, bOrigin := b.SliceToRAS, b.XYZOrigin

	a.InteractingOn()
	a.SetInteractionFlags(views.SliceToRASFlag | views.SliceXYZOriginFlag | views.SliceFieldOfViewFlag)
	func() {
		defer a.ModifyScope()()
		a.SetSliceOffset(12)
		a.SetXYZOrigin(mgl32.Vec3{5, 5, 0})
		a.SetFieldOfView(mgl32.Vec3{100, 100, 1})
	}()
	a.InteractingOff()

	assert.Equal(t, bToRAS, b.SliceToRAS, "orientation dependent")
	assert.Equal(t, bOrigin, b.XYZOrigin, "orientation dependent")
	assert.Equal(t, mgl32.Vec3{100, 100, 1}, b.FieldOfView)

	assert.Equal(t, a.SliceToRAS, c.SliceToRAS)
	assert.InDelta(t, 12, c.SliceOffset(), 1e-5)
	assert.Equal(t, mgl32.Vec3{5, 5, 0}, c.XYZOrigin)
	assert.Equal(t, mgl32.Vec3{100, 100, 1}, c.FieldOfView)
}

func TestSliceCommands(t *testing.T) {
	sc, _ := newScene()
	a := addSlice(sc, "Red", views.Axial)
	b := addSlice(sc, "Yellow", views.Sagittal)
	b.SetDimensions([3]int{100, 50, 1})
	b.SetFieldOfView(mgl32.Vec3{10, 10, 1})

	a.InteractingOn()
	a.SetInteractionFlags(views.SliceOrientationFlag | views.SliceResetFieldOfViewFlag)
	a.Modified()
	a.InteractingOff()
	assert.Equal(t, views.Axial, b.OrientationName)
	assert.Equal(t, mgl32.Vec3{250, 125, 1}, b.FieldOfView)
}

func TestCompositeAndCameraBroadcast(t *testing.T) {
	sc, _ := newScene()
	addSlice(sc, "Red", views.Axial)
	addSlice(sc, "Yellow", views.Sagittal)
	cs := scene.NodesOf[*views.SliceCompositeNode](sc)
	require.Len(t, cs, 2)
	vol := sc.AddNewNodeByClass("VolumeNode", "volume")

	cs[0].InteractingOn()
	cs[0].SetInteractionFlags(views.BackgroundVolumeFlag | views.LabelOpacityFlag)
	func() {
		defer cs[0].ModifyScope()()
		cs[0].SetBackgroundVolumeID(vol.AsNode().ID)
		cs[0].SetLabelOpacity(0.25)
	}()
	cs[0].InteractingOff()
	assert.Same(t, vol, cs[1].BackgroundVolume())
	assert.Equal(t, float32(0.25), cs[1].LabelOpacity)

	v1 := addView(sc, "View1", true)
	v2 := addView(sc, "View2", true)
	cam1 := sc.AddNewNodeByClass("CameraNode", "camera1").(*views.CameraNode)
	cam1.SetViewNodeID(v1.ID)
	cam2 := sc.AddNewNodeByClass("CameraNode", "camera2").(*views.CameraNode)
	cam2.SetViewNodeID(v2.ID)
	cam2Events := countModified(cam2)

	cam1.InteractingOn()
	cam1.SetInteractionFlags(views.CameraLookFromAxisFlag)
	cam1.LookFromAxis(views.Superior)
	cam1.InteractingOff()
	assert.Equal(t, views.Superior, cam2.LookAxis)
	assert.Equal(t, cam1.Position, cam2.Position)
	assert.Equal(t, 1, *cam2Events)
}

func TestCameraZoomBroadcast(t *testing.T) {
	sc, _ := newScene()
	v1 := addView(sc, "View1", true)
	v2 := addView(sc, "View2", true)
	cam1 := sc.AddNewNodeByClass("CameraNode", "camera1").(*views.CameraNode)
	cam1.SetViewNodeID(v1.ID)
	cam2 := sc.AddNewNodeByClass("CameraNode", "camera2").(*views.CameraNode)
	cam2.SetViewNodeID(v2.ID)
	cam2.SetPose(mgl32.Vec3{500, 0, 0}, mgl32.Vec3{}, mgl32.Vec3{0, 0, 1})
	cam2Events := countModified(cam2)

	cam1.InteractingOn()
	cam1.SetInteractionFlags(views.CameraZoomFlag)
	cam1.Dolly(2)
	cam1.InteractingOff()
	assert.InDelta(t, 250, cam1.Distance(), 1e-3)
	assert.InDelta(t, 250, cam2.Distance(), 1e-3)
	assert.InDelta(t, 250, cam2.Position[0], 1e-3, "the sibling keeps its own view direction")
	assert.Equal(t, cam1.ParallelScale, cam2.ParallelScale)
	assert.Equal(t, 1, *cam2Events)
}

func TestInteractSession(t *testing.T) {
	sc, lg := newScene()
	a := addView(sc, "A", false)
	b := addView(sc, "B", false)
	bEvents := countModified(b)

	for _, fov := range []float32{210, 220, 230} {
		lg.Interact(a, views.ViewFieldOfViewFlag, func() { a.SetFieldOfView(fov) })
	}
	assert.Equal(t, float32(200), b.FieldOfView, "intermediate changes are not broadcast")
	assert.Equal(t, views.ViewFieldOfViewFlag, lg.PendingFlags(a))
	lg.EndInteraction(a)
	assert.Equal(t, float32(230), b.FieldOfView)
	assert.Equal(t, 1, *bEvents)
	assert.False(t, a.Interacting)
	assert.Zero(t, lg.PendingFlags(a))

	b.SetHotLinkedControl(true)
	*bEvents = 0
	a.SetHotLinkedControl(true)
	lg.Interact(a, views.ViewFieldOfViewFlag, func() { a.SetFieldOfView(240) })
	assert.Equal(t, float32(240), b.FieldOfView)
	assert.Equal(t, 1, *bEvents)
	lg.EndInteraction(a)
	assert.Equal(t, 1, *bEvents)
}

func TestBatchSuppressesBroadcast(t *testing.T) {
	sc, lg := newScene()
	a := addView(sc, "A", true)
	b := addView(sc, "B", true)
	a.InteractingOn()
	a.SetInteractionFlags(views.ViewFieldOfViewFlag)

	sc.StartState(scene.ImportState)
	assert.True(t, lg.IsBroadcasting())
	a.SetFieldOfView(300)
	sc.StartState(scene.BatchProcessState)
	sc.EndState(scene.BatchProcessState)
	assert.True(t, lg.IsBroadcasting())
	sc.EndState(scene.ImportState)
	assert.False(t, lg.IsBroadcasting())
	assert.Equal(t, float32(200), b.FieldOfView)

	a.SetFieldOfView(310)
	assert.Equal(t, float32(310), b.FieldOfView)

	lg.Close()
	a.SetFieldOfView(320)
	assert.Equal(t, float32(310), b.FieldOfView)
}

func TestHotLinkedDefault(t *testing.T) {
	sc, lg := newScene()
	lg.HotLinkedDefault = true
	v := sc.AddNewNodeByClass("ViewNode", "View1").(*views.ViewNode)
	assert.True(t, v.HotLinkedControl)
	c := sc.AddNewNodeByClass("SliceCompositeNode", "Red").(*views.SliceCompositeNode)
	assert.True(t, c.HotLinkedControl)

	src := scene.NewScene()
	views.RegisterNodes(src)
	src.AddNewNodeByClass("ViewNode", "View2")
	s, err := src.Serialize()
	require.NoError(t, err)
	_, err = sc.ImportString(s)
	require.NoError(t, err)
	imported := sc.FirstNodeByName("View2").(*views.ViewNode)
	assert.False(t, imported.HotLinkedControl, "imported nodes keep their document value")

	sc.RemoveNode(v)
	a := addView(sc, "A", true)
	a.InteractingOn()
	a.SetInteractionFlags(views.ViewFieldOfViewFlag)
	a.SetFieldOfView(250)
	assert.Equal(t, float32(200), v.FieldOfView, "removed nodes are not linked")
}
