// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package views

import (
	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/vizscene/scene"
)

// View interaction flags.
const (
	ViewFieldOfViewFlag Flags = 1 << iota
	ViewBackgroundColorFlag
	ViewBoxVisibleFlag
	ViewAxisLabelsVisibleFlag
	ViewRenderModeFlag
	ViewAnimationModeFlag
	ViewOrientationMarkerTypeFlag
	ViewRulerTypeFlag
)

// RenderMode is the projection of a 3D view.
type RenderMode int32

const (
	Perspective RenderMode = iota
	Orthographic
)

var renderModeNames = []string{"Perspective", "Orthographic"}

func (m RenderMode) String() string { return enumString(renderModeNames, int32(m)) }

// AnimationMode is the automatic camera motion of a 3D view.
type AnimationMode int32

const (
	NoAnimation AnimationMode = iota
	Spin
	Rock
)

var animationModeNames = []string{"Off", "Spin", "Rock"}

func (m AnimationMode) String() string { return enumString(animationModeNames, int32(m)) }

// OrientationMarkerType is the kind of marker that shows the
// orientation of a view.
type OrientationMarkerType int32

const (
	NoOrientationMarker OrientationMarkerType = iota
	CubeOrientationMarker
	HumanOrientationMarker
	AxesOrientationMarker
)

var orientationMarkerTypeNames = []string{"None", "Cube", "Human", "Axes"}

func (m OrientationMarkerType) String() string {
	return enumString(orientationMarkerTypeNames, int32(m))
}

// RulerType is the kind of ruler shown in a view.
type RulerType int32

const (
	NoRuler RulerType = iota
	ThinRuler
	ThickRuler
)

var rulerTypeNames = []string{"None", "Thin", "Thick"}

func (m RulerType) String() string { return enumString(rulerTypeNames, int32(m)) }

// ViewNode is a 3D view of the scene.
type ViewNode struct {
	scene.NodeBase
	InteractionState

	// LayoutName is the name of the view in the layout.
	LayoutName string

	// ViewGroup is the group of views that are linked together.
	ViewGroup int

	// LinkedControl is whether interactive changes are broadcast to
	// the other 3D views of the view group.
	LinkedControl bool

	// HotLinkedControl is whether every intermediate change of an
	// interaction is broadcast, instead of only the final one.
	HotLinkedControl bool

	// FieldOfView is the size of the region shown around the focal point.
	FieldOfView float32

	// BackgroundColor is the color behind the scene.
	BackgroundColor mgl32.Vec3

	// BoxVisible is whether the bounding box of the scene is shown.
	BoxVisible bool

	// AxisLabelsVisible is whether the labels of the box axes are shown.
	AxisLabelsVisible bool

	RenderMode            RenderMode
	AnimationMode         AnimationMode
	OrientationMarkerType OrientationMarkerType
	RulerType             RulerType
}

func (v *ViewNode) New() scene.Node { return &ViewNode{} }

func (v *ViewNode) Init() {
	v.NodeBase.Init()
	v.ResetInteractionFlagsModifier()
	v.FieldOfView = 200
	v.BackgroundColor = mgl32.Vec3{0.76, 0.76, 0.9}
	v.BoxVisible = true
	v.AxisLabelsVisible = true
}

func (v *ViewNode) SetLayoutName(name string)   { setField(&v.NodeBase, &v.LayoutName, name) }
func (v *ViewNode) SetViewGroup(g int)          { setField(&v.NodeBase, &v.ViewGroup, g) }
func (v *ViewNode) SetLinkedControl(on bool)    { setField(&v.NodeBase, &v.LinkedControl, on) }
func (v *ViewNode) SetHotLinkedControl(on bool) { setField(&v.NodeBase, &v.HotLinkedControl, on) }
func (v *ViewNode) SetFieldOfView(fov float32)  { setField(&v.NodeBase, &v.FieldOfView, fov) }

func (v *ViewNode) SetBackgroundColor(c mgl32.Vec3) {
	setField(&v.NodeBase, &v.BackgroundColor, c)
}

func (v *ViewNode) SetBoxVisible(on bool)        { setField(&v.NodeBase, &v.BoxVisible, on) }
func (v *ViewNode) SetAxisLabelsVisible(on bool) { setField(&v.NodeBase, &v.AxisLabelsVisible, on) }
func (v *ViewNode) SetRenderMode(m RenderMode)   { setField(&v.NodeBase, &v.RenderMode, m) }

func (v *ViewNode) SetAnimationMode(m AnimationMode) {
	setField(&v.NodeBase, &v.AnimationMode, m)
}

func (v *ViewNode) SetOrientationMarkerType(m OrientationMarkerType) {
	setField(&v.NodeBase, &v.OrientationMarkerType, m)
}

func (v *ViewNode) SetRulerType(m RulerType) { setField(&v.NodeBase, &v.RulerType, m) }

// Cameras returns the cameras that reference this view.
func (v *ViewNode) Cameras() []*CameraNode {
	sc := v.Scene()
	if sc == nil {
		return nil
	}
	var cams []*CameraNode
	for _, n := range sc.Referrers(v.ID) {
		if c, ok := n.(*CameraNode); ok && c.ViewNode() == v {
			cams = append(cams, c)
		}
	}
	return cams
}

func (v *ViewNode) ReadAttributes(a *scene.Attributes) {
	v.NodeBase.ReadAttributes(a)
	a.Text("layoutName", &v.LayoutName)
	a.Int("viewGroup", &v.ViewGroup)
	a.Bool("linkedControl", &v.LinkedControl)
	a.Bool("hotLinkedControl", &v.HotLinkedControl)
	a.Float32("fieldOfView", &v.FieldOfView)
	a.Vec3("backgroundColor", &v.BackgroundColor)
	a.Bool("boxVisible", &v.BoxVisible)
	a.Bool("axisLabelsVisible", &v.AxisLabelsVisible)
	readEnum(a, "renderMode", renderModeNames, &v.RenderMode)
	readEnum(a, "animationMode", animationModeNames, &v.AnimationMode)
	readEnum(a, "orientationMarkerType", orientationMarkerTypeNames, &v.OrientationMarkerType)
	readEnum(a, "rulerType", rulerTypeNames, &v.RulerType)
}

func (v *ViewNode) WriteAttributes(a *scene.Attributes) {
	v.NodeBase.WriteAttributes(a)
	a.Set("layoutName", v.LayoutName)
	a.SetInt("viewGroup", v.ViewGroup)
	a.SetBool("linkedControl", v.LinkedControl)
	a.SetBool("hotLinkedControl", v.HotLinkedControl)
	a.SetFloat32("fieldOfView", v.FieldOfView)
	a.SetVec3("backgroundColor", v.BackgroundColor)
	a.SetBool("boxVisible", v.BoxVisible)
	a.SetBool("axisLabelsVisible", v.AxisLabelsVisible)
	a.Set("renderMode", v.RenderMode.String())
	a.Set("animationMode", v.AnimationMode.String())
	a.Set("orientationMarkerType", v.OrientationMarkerType.String())
	a.Set("rulerType", v.RulerType.String())
}
