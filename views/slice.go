// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package views

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/vizscene/data"
	"cogentcore.org/vizscene/math32"
	"cogentcore.org/vizscene/scene"
)

// Slice interaction flags.
const (
	SliceToRASFlag Flags = 1 << iota
	SliceFieldOfViewFlag
	SliceOrientationFlag
	SliceResetFieldOfViewFlag
	SliceXYZOriginFlag
	SliceLabelOutlineFlag
	SliceVisibleFlag
	SliceSpacingFlag
	SliceResetOrientationFlag
	SliceRotateToBackgroundVolumePlaneFlag
)

// Orientation names.
const (
	Axial    = "Axial"
	Sagittal = "Sagittal"
	Coronal  = "Coronal"
	Reformat = "Reformat"
)

// Orientations are the names of the preset orientations.
var Orientations = []string{Axial, Sagittal, Coronal}

// OrientationMatrix returns the rotation of the preset orientation
// with the given name, or false if there is no such preset.
func OrientationMatrix(name string) (mgl32.Mat4, bool) {
	switch name {
	case Axial:
		return mgl32.Mat4FromCols(mgl32.Vec4{-1, 0, 0, 0}, mgl32.Vec4{0, 1, 0, 0}, mgl32.Vec4{0, 0, 1, 0}, mgl32.Vec4{0, 0, 0, 1}), true
	case Sagittal:
		return mgl32.Mat4FromCols(mgl32.Vec4{0, -1, 0, 0}, mgl32.Vec4{0, 0, 1, 0}, mgl32.Vec4{1, 0, 0, 0}, mgl32.Vec4{0, 0, 0, 1}), true
	case Coronal:
		return mgl32.Mat4FromCols(mgl32.Vec4{-1, 0, 0, 0}, mgl32.Vec4{0, 0, 1, 0}, mgl32.Vec4{0, 1, 0, 0}, mgl32.Vec4{0, 0, 0, 1}), true
	}
	return mgl32.Mat4{}, false
}

// orientationTolerance is the tolerance for recognizing a preset
// orientation in a slice matrix.
const orientationTolerance = 1e-3

// SliceSpacingMode is how the distance between slices is determined.
type SliceSpacingMode int32

const (
	// AutomaticSliceSpacing uses the spacing of the displayed volumes.
	AutomaticSliceSpacing SliceSpacingMode = iota

	// PrescribedSliceSpacing uses [SliceNode.PrescribedSliceSpacing].
	PrescribedSliceSpacing
)

var sliceSpacingModeNames = []string{"Automatic", "Prescribed"}

func (m SliceSpacingMode) String() string { return enumString(sliceSpacingModeNames, int32(m)) }

// SliceNode is a 2D slice view of the scene: a plane in world space
// with a field of view.
type SliceNode struct {
	scene.NodeBase
	InteractionState

	// LayoutName is the name of the view in the layout, which pairs
	// the slice with its [SliceCompositeNode].
	LayoutName string

	// ViewGroup is the group of views that are linked together.
	ViewGroup int

	// SliceToRAS maps slice coordinates to world coordinates: its
	// columns are the x and y axes of the slice plane, the plane
	// normal, and the plane center.
	SliceToRAS mgl32.Mat4

	// FieldOfView is the size of the slice view in world units.
	FieldOfView mgl32.Vec3

	// Dimensions is the size of the slice view in pixels.
	Dimensions [3]int

	// XYZOrigin is the pan offset of the view.
	XYZOrigin mgl32.Vec3

	// OrientationName is the name of the preset orientation that
	// SliceToRAS has, or [Reformat].
	OrientationName string

	// DefaultOrientation is the orientation that a reset restores.
	DefaultOrientation string

	// SliceVisible is whether the slice is shown in 3D views.
	SliceVisible bool

	// LabelOutline is whether label volumes are drawn as outlines.
	LabelOutline bool

	// SliceSpacingMode is how the distance between slices is determined.
	SliceSpacingMode SliceSpacingMode

	// PrescribedSliceSpacing is the distance between slices in
	// [PrescribedSliceSpacing] mode.
	PrescribedSliceSpacing mgl32.Vec3

	// DefaultFieldOfView is the field of view that a reset restores.
	DefaultFieldOfView float32
}

func (s *SliceNode) New() scene.Node { return &SliceNode{} }

func (s *SliceNode) Init() {
	s.NodeBase.Init()
	s.ResetInteractionFlagsModifier()
	s.SliceToRAS, _ = OrientationMatrix(Axial)
	s.OrientationName = Axial
	s.DefaultOrientation = Axial
	s.FieldOfView = mgl32.Vec3{250, 250, 1}
	s.Dimensions = [3]int{256, 256, 1}
	s.PrescribedSliceSpacing = mgl32.Vec3{1, 1, 1}
	s.DefaultFieldOfView = 250
}

// SetLayoutName sets [SliceNode.LayoutName].
func (s *SliceNode) SetLayoutName(name string) { setField(&s.NodeBase, &s.LayoutName, name) }

// SetViewGroup sets [SliceNode.ViewGroup].
func (s *SliceNode) SetViewGroup(g int) { setField(&s.NodeBase, &s.ViewGroup, g) }

// SetSliceToRAS sets [SliceNode.SliceToRAS] and updates the orientation name.
func (s *SliceNode) SetSliceToRAS(m mgl32.Mat4) {
	if s.SliceToRAS == m {
		return
	}
	s.SliceToRAS = m
	s.OrientationName = MatchingOrientation(m)
	s.Modified()
}

// MatchingOrientation returns the name of the preset orientation of the
// given slice matrix, or [Reformat].
func MatchingOrientation(m mgl32.Mat4) string {
	for _, name := range Orientations {
		om, _ := OrientationMatrix(name)
		if math32.AxesMatch(m, om, orientationTolerance) {
			return name
		}
	}
	return Reformat
}

// SetOrientation rotates the slice to the preset orientation with the
// given name, keeping its center. It returns false if there is no
// such preset.
func (s *SliceNode) SetOrientation(name string) bool {
	m, ok := OrientationMatrix(name)
	if !ok {
		slog.Warn("views.SliceNode.SetOrientation: unknown orientation", "id", s.ID, "orientation", name)
		return false
	}
	math32.SetTranslation(&m, math32.Translation(s.SliceToRAS))
	s.SetSliceToRAS(m)
	return true
}

// ResetOrientation rotates the slice to [SliceNode.DefaultOrientation].
func (s *SliceNode) ResetOrientation() {
	s.SetOrientation(s.DefaultOrientation)
}

// IsOrientationMatching returns whether the axes of the two slices
// agree within the given tolerance.
func (s *SliceNode) IsOrientationMatching(other *SliceNode, tol float32) bool {
	return math32.AxesMatch(s.SliceToRAS, other.SliceToRAS, tol)
}

// Normal returns the normal of the slice plane.
func (s *SliceNode) Normal() mgl32.Vec3 {
	n := s.SliceToRAS.Col(2).Vec3()
	if n.Len() == 0 {
		return n
	}
	return n.Normalize()
}

// SliceOffset returns the distance of the slice plane from the world
// origin along its normal.
func (s *SliceNode) SliceOffset() float32 {
	return math32.Translation(s.SliceToRAS).Dot(s.Normal())
}

// SetSliceOffset moves the slice plane along its normal to the given
// distance from the world origin.
func (s *SliceNode) SetSliceOffset(offset float32) {
	m := s.SliceToRAS
	t := math32.Translation(m).Add(s.Normal().Mul(offset - s.SliceOffset()))
	math32.SetTranslation(&m, t)
	s.SetSliceToRAS(m)
}

// SetFieldOfView sets [SliceNode.FieldOfView].
func (s *SliceNode) SetFieldOfView(fov mgl32.Vec3) { setField(&s.NodeBase, &s.FieldOfView, fov) }

// SetDimensions sets [SliceNode.Dimensions].
func (s *SliceNode) SetDimensions(dims [3]int) { setField(&s.NodeBase, &s.Dimensions, dims) }

// ResetFieldOfView sets the field of view to [SliceNode.DefaultFieldOfView]
// along x, keeping the aspect ratio of the dimensions, and removes the pan.
func (s *SliceNode) ResetFieldOfView() {
	defer s.ModifyScope()()
	aspect := float32(1)
	if s.Dimensions[0] > 0 {
		aspect = float32(s.Dimensions[1]) / float32(s.Dimensions[0])
	}
	d := s.DefaultFieldOfView
	s.SetFieldOfView(mgl32.Vec3{d, d * aspect, s.FieldOfView[2]})
	s.SetXYZOrigin(mgl32.Vec3{})
}

// SetXYZOrigin sets [SliceNode.XYZOrigin].
func (s *SliceNode) SetXYZOrigin(o mgl32.Vec3) { setField(&s.NodeBase, &s.XYZOrigin, o) }

// SetSliceVisible sets [SliceNode.SliceVisible].
func (s *SliceNode) SetSliceVisible(v bool) { setField(&s.NodeBase, &s.SliceVisible, v) }

// SetLabelOutline sets [SliceNode.LabelOutline].
func (s *SliceNode) SetLabelOutline(v bool) { setField(&s.NodeBase, &s.LabelOutline, v) }

// SetSliceSpacingMode sets [SliceNode.SliceSpacingMode].
func (s *SliceNode) SetSliceSpacingMode(m SliceSpacingMode) {
	setField(&s.NodeBase, &s.SliceSpacingMode, m)
}

// SetPrescribedSliceSpacing sets [SliceNode.PrescribedSliceSpacing].
func (s *SliceNode) SetPrescribedSliceSpacing(sp mgl32.Vec3) {
	setField(&s.NodeBase, &s.PrescribedSliceSpacing, sp)
}

// RotateToVolumePlane aligns the slice axes with the closest voxel axes
// of the given volume, keeping the slice center. It returns false if the
// volume is nil or its transform to world is not linear.
func (s *SliceNode) RotateToVolumePlane(v *data.VolumeNode) bool {
	if v == nil {
		return false
	}
	ijk, ok := v.IJKToWorld()
	if !ok {
		return false
	}
	axes := math32.Axes(ijk)
	m := s.SliceToRAS
	var used [3]bool
	for i := range 3 {
		c := m.Col(i).Vec3()
		best, bestDot := -1, float32(-1)
		for j := range 3 {
			if used[j] {
				continue
			}
			if d := math32.Abs(c.Dot(axes[j])); d > bestDot {
				best, bestDot = j, d
			}
		}
		used[best] = true
		ax := axes[best]
		if c.Dot(ax) < 0 {
			ax = ax.Mul(-1)
		}
		m.SetCol(i, ax.Vec4(0))
	}
	s.SetSliceToRAS(m)
	return true
}

// CompositeNode returns the [SliceCompositeNode] with the same layout
// name, or nil.
func (s *SliceNode) CompositeNode() *SliceCompositeNode {
	sc := s.Scene()
	if sc == nil {
		return nil
	}
	for _, c := range scene.NodesOf[*SliceCompositeNode](sc) {
		if c.LayoutName == s.LayoutName {
			return c
		}
	}
	return nil
}

func (s *SliceNode) ReadAttributes(a *scene.Attributes) {
	s.NodeBase.ReadAttributes(a)
	a.Text("layoutName", &s.LayoutName)
	a.Int("viewGroup", &s.ViewGroup)
	a.Mat4("sliceToRAS", &s.SliceToRAS)
	a.Vec3("fieldOfView", &s.FieldOfView)
	var dims []int
	a.Ints("dimensions", &dims)
	if len(dims) == 3 {
		copy(s.Dimensions[:], dims)
	}
	a.Vec3("xyzOrigin", &s.XYZOrigin)
	a.Text("orientation", &s.OrientationName)
	a.Text("defaultOrientation", &s.DefaultOrientation)
	a.Bool("sliceVisible", &s.SliceVisible)
	a.Bool("labelOutline", &s.LabelOutline)
	readEnum(a, "sliceSpacingMode", sliceSpacingModeNames, &s.SliceSpacingMode)
	a.Vec3("prescribedSliceSpacing", &s.PrescribedSliceSpacing)
	a.Float32("defaultFieldOfView", &s.DefaultFieldOfView)
}

func (s *SliceNode) WriteAttributes(a *scene.Attributes) {
	s.NodeBase.WriteAttributes(a)
	a.Set("layoutName", s.LayoutName)
	a.SetInt("viewGroup", s.ViewGroup)
	a.SetMat4("sliceToRAS", s.SliceToRAS)
	a.SetVec3("fieldOfView", s.FieldOfView)
	a.SetInts("dimensions", s.Dimensions[:]...)
	a.SetVec3("xyzOrigin", s.XYZOrigin)
	a.Set("orientation", s.OrientationName)
	a.Set("defaultOrientation", s.DefaultOrientation)
	a.SetBool("sliceVisible", s.SliceVisible)
	a.SetBool("labelOutline", s.LabelOutline)
	a.Set("sliceSpacingMode", s.SliceSpacingMode.String())
	a.SetVec3("prescribedSliceSpacing", s.PrescribedSliceSpacing)
	a.SetFloat32("defaultFieldOfView", s.DefaultFieldOfView)
}
