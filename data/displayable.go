// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"log/slog"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/vizscene/scene"
)

// Displayable is the trait of nodes that can be shown through
// [Display] nodes.
type Displayable interface {
	Storable

	// AsDisplayable returns the [DisplayableBase] of the node.
	AsDisplayable() *DisplayableBase
}

// IsDisplayable returns whether the given node is displayable.
func IsDisplayable(n scene.Node) bool {
	_, ok := n.(Displayable)
	return ok
}

// DisplayableBase implements [Displayable]. It declares the multi-valued
// [DisplayRole] reference to its display nodes, and emits
// [EventDisplayModified] when one of them is modified.
type DisplayableBase struct {
	StorableBase
}

func (d *DisplayableBase) AsDisplayable() *DisplayableBase { return d }

func (d *DisplayableBase) Init() {
	d.StorableBase.Init()
	d.DeclareReferenceRole(DisplayRole, "displayNodeRef", []scene.Event{scene.EventModified}, scene.Multiple(), scene.TargetIs(IsDisplay))
}

// DisplayNodes returns the display nodes that resolve.
func (d *DisplayableBase) DisplayNodes() []Display {
	var ds []Display
	for _, n := range d.References(DisplayRole) {
		if dn, ok := n.(Display); ok {
			ds = append(ds, dn)
		}
	}
	return ds
}

// DisplayNode returns the first display node, or nil.
func (d *DisplayableBase) DisplayNode() Display {
	dn, _ := d.Reference(DisplayRole).(Display)
	return dn
}

// AddDisplayNodeID adds a display node.
func (d *DisplayableBase) AddDisplayNodeID(id string) {
	d.AddReferenceID(DisplayRole, id)
}

// RemoveDisplayNodeIDs removes all display nodes.
func (d *DisplayableBase) RemoveDisplayNodeIDs() {
	d.RemoveReferenceIDs(DisplayRole)
}

// SetDisplayVisibility sets the visibility of all display nodes.
func (d *DisplayableBase) SetDisplayVisibility(visible bool) {
	for _, dn := range d.DisplayNodes() {
		dn.AsDisplay().SetVisibility(visible)
	}
}

// createDisplayNode adds a display node of the given class to the scene
// of the node and references it, unless the node already has a display
// node. It returns the display node, or nil if the node is not in a scene.
func (d *DisplayableBase) createDisplayNode(class string) Display {
	if dn := d.DisplayNode(); dn != nil {
		return dn
	}
	sc := d.Scene()
	if sc == nil {
		return nil
	}
	dn, ok := sc.AddNewNodeByClass(class, d.Name+" display").(Display)
	if !ok {
		return nil
	}
	d.AddDisplayNodeID(dn.AsNode().ID)
	return dn
}

func (d *DisplayableBase) ProcessEvent(caller scene.Node, ev scene.Event, data any) {
	if ev == scene.EventModified && IsDisplay(caller) {
		d.InvokeCustomModifiedEvent(EventDisplayModified, caller)
		return
	}
	d.StorableBase.ProcessEvent(caller, ev, data)
}

// Display is the trait of display nodes.
type Display interface {
	scene.Node

	// AsDisplay returns the [DisplayNodeBase] of the node.
	AsDisplay() *DisplayNodeBase
}

// IsDisplay returns whether the given node is a display node.
func IsDisplay(n scene.Node) bool {
	_, ok := n.(Display)
	return ok
}

// DisplayNodeBase implements [Display]. It declares the multi-valued
// [ViewRole] reference to the views that show it; a display node
// without views is shown in every view.
type DisplayNodeBase struct {
	scene.NodeBase

	// Visibility is whether the node is shown.
	Visibility bool

	// Color is the RGB color, with components from 0 to 1.
	Color mgl32.Vec3

	// Opacity is from 0 (transparent) to 1 (opaque).
	Opacity float32
}

func (d *DisplayNodeBase) AsDisplay() *DisplayNodeBase { return d }

func (d *DisplayNodeBase) Init() {
	d.NodeBase.Init()
	d.Visibility = true
	d.Color = mgl32.Vec3{0.5, 0.5, 0.5}
	d.Opacity = 1
	d.DeclareReferenceRole(ViewRole, "viewNodeRef", nil, scene.Multiple())
}

// SetVisibility sets [DisplayNodeBase.Visibility].
func (d *DisplayNodeBase) SetVisibility(visible bool) {
	if d.Visibility == visible {
		return
	}
	d.Visibility = visible
	d.Modified()
}

// SetColor sets [DisplayNodeBase.Color].
func (d *DisplayNodeBase) SetColor(c mgl32.Vec3) {
	if d.Color == c {
		return
	}
	d.Color = c
	d.Modified()
}

// SetOpacity sets [DisplayNodeBase.Opacity], clamped to [0, 1].
func (d *DisplayNodeBase) SetOpacity(o float32) {
	o = min(max(o, 0), 1)
	if d.Opacity == o {
		return
	}
	d.Opacity = o
	d.Modified()
}

// AddViewNodeID restricts the node to be shown in the given view,
// in addition to the views it is already restricted to.
func (d *DisplayNodeBase) AddViewNodeID(id string) {
	if slices.Contains(d.ReferenceIDs(ViewRole), id) {
		return
	}
	d.AddReferenceID(ViewRole, id)
}

// RemoveViewNodeIDs makes the node shown in every view.
func (d *DisplayNodeBase) RemoveViewNodeIDs() {
	d.RemoveReferenceIDs(ViewRole)
}

// IsDisplayableInView returns whether the node is shown in the view
// with the given ID.
func (d *DisplayNodeBase) IsDisplayableInView(viewID string) bool {
	ids := d.ReferenceIDs(ViewRole)
	return len(ids) == 0 || slices.Contains(ids, viewID)
}

// IsVisibleInView returns whether the node is visible and shown in the
// view with the given ID.
func (d *DisplayNodeBase) IsVisibleInView(viewID string) bool {
	return d.Visibility && d.IsDisplayableInView(viewID)
}

// DisplayableNode returns the first displayable node that references
// this node as a display node, or nil.
func (d *DisplayNodeBase) DisplayableNode() Displayable {
	sc := d.Scene()
	if sc == nil {
		return nil
	}
	for _, n := range sc.Referrers(d.ID) {
		if dn, ok := n.(Displayable); ok && slices.Contains(dn.AsNode().ReferenceIDs(DisplayRole), d.ID) {
			return dn
		}
	}
	return nil
}

func (d *DisplayNodeBase) ReadAttributes(a *scene.Attributes) {
	d.NodeBase.ReadAttributes(a)
	a.Bool("visibility", &d.Visibility)
	a.Vec3("color", &d.Color)
	a.Float32("opacity", &d.Opacity)
}

func (d *DisplayNodeBase) WriteAttributes(a *scene.Attributes) {
	d.NodeBase.WriteAttributes(a)
	a.SetBool("visibility", d.Visibility)
	a.SetVec3("color", d.Color)
	a.SetFloat32("opacity", d.Opacity)
}

// Representation is how a model is drawn.
type Representation int32

const (
	Surface Representation = iota
	Wireframe
	Points
)

var representationNames = []string{"Surface", "Wireframe", "Points"}

func (r Representation) String() string {
	if r < 0 || int(r) >= len(representationNames) {
		return "Surface"
	}
	return representationNames[r]
}

// SetString sets the representation from its name.
func (r *Representation) SetString(s string) bool {
	idx := slices.Index(representationNames, s)
	if idx < 0 {
		return false
	}
	*r = Representation(idx)
	return true
}

// ModelDisplayNode is the display node of [ModelNode].
type ModelDisplayNode struct {
	DisplayNodeBase

	// Representation is how the model is drawn.
	Representation Representation

	// PointSize is the size of points in pixels.
	PointSize float32

	// LineWidth is the width of lines in pixels.
	LineWidth float32
}

func (d *ModelDisplayNode) New() scene.Node { return &ModelDisplayNode{} }

func (d *ModelDisplayNode) Init() {
	d.DisplayNodeBase.Init()
	d.PointSize = 1
	d.LineWidth = 1
}

// SetRepresentation sets [ModelDisplayNode.Representation].
func (d *ModelDisplayNode) SetRepresentation(r Representation) {
	if d.Representation == r {
		return
	}
	d.Representation = r
	d.Modified()
}

func (d *ModelDisplayNode) ReadAttributes(a *scene.Attributes) {
	d.DisplayNodeBase.ReadAttributes(a)
	if s, ok := a.ValueTry("representation"); ok && !d.Representation.SetString(s) {
		slog.Warn("data.ModelDisplayNode.ReadAttributes: invalid representation", "value", s)
	}
	a.Float32("pointSize", &d.PointSize)
	a.Float32("lineWidth", &d.LineWidth)
}

func (d *ModelDisplayNode) WriteAttributes(a *scene.Attributes) {
	d.DisplayNodeBase.WriteAttributes(a)
	a.Set("representation", d.Representation.String())
	a.SetFloat32("pointSize", d.PointSize)
	a.SetFloat32("lineWidth", d.LineWidth)
}

// VolumeDisplayNode is the display node of [VolumeNode].
type VolumeDisplayNode struct {
	DisplayNodeBase

	// Window is the width of the range of intensities that is mapped
	// from black to white.
	Window float32

	// Level is the center of that range.
	Level float32

	// Interpolate is whether intensities are interpolated between voxels.
	Interpolate bool
}

func (d *VolumeDisplayNode) New() scene.Node { return &VolumeDisplayNode{} }

func (d *VolumeDisplayNode) Init() {
	d.DisplayNodeBase.Init()
	d.Window = 256
	d.Level = 128
	d.Interpolate = true
}

// SetWindowLevel sets the window and the level, emitting one
// [scene.EventModified].
func (d *VolumeDisplayNode) SetWindowLevel(window, level float32) {
	if d.Window == window && d.Level == level {
		return
	}
	d.Window = max(window, 0)
	d.Level = level
	d.Modified()
}

// WindowRange returns the lowest and highest intensities of the window.
func (d *VolumeDisplayNode) WindowRange() (lo, hi float32) {
	return d.Level - d.Window/2, d.Level + d.Window/2
}

func (d *VolumeDisplayNode) ReadAttributes(a *scene.Attributes) {
	d.DisplayNodeBase.ReadAttributes(a)
	a.Float32("window", &d.Window)
	a.Float32("level", &d.Level)
	a.Bool("interpolate", &d.Interpolate)
}

func (d *VolumeDisplayNode) WriteAttributes(a *scene.Attributes) {
	d.DisplayNodeBase.WriteAttributes(a)
	a.SetFloat32("window", d.Window)
	a.SetFloat32("level", d.Level)
	a.SetBool("interpolate", d.Interpolate)
}
