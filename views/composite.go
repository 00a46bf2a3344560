// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package views

import (
	"cogentcore.org/vizscene/data"
	"cogentcore.org/vizscene/math32"
	"cogentcore.org/vizscene/scene"
)

// Slice composite interaction flags.
const (
	BackgroundVolumeFlag Flags = 1 << iota
	ForegroundVolumeFlag
	LabelVolumeFlag
	ForegroundOpacityFlag
	LabelOpacityFlag
)

// Layer roles of [SliceCompositeNode].
const (
	BackgroundVolumeRole = "backgroundVolume"
	ForegroundVolumeRole = "foregroundVolume"
	LabelVolumeRole      = "labelVolume"
)

// SliceCompositeNode describes the layers of volumes shown in the
// [SliceNode] with the same layout name, and whether changes to that
// slice view are linked to the other slice views.
type SliceCompositeNode struct {
	scene.NodeBase
	InteractionState

	// LayoutName is the name of the view in the layout.
	LayoutName string

	// LinkedControl is whether interactive changes are broadcast to
	// the other slice views of the view group.
	LinkedControl bool

	// HotLinkedControl is whether every intermediate change of an
	// interaction is broadcast, instead of only the final one.
	HotLinkedControl bool

	// ForegroundOpacity is the opacity of the foreground layer.
	ForegroundOpacity float32

	// LabelOpacity is the opacity of the label layer.
	LabelOpacity float32
}

func (c *SliceCompositeNode) New() scene.Node { return &SliceCompositeNode{} }

func (c *SliceCompositeNode) Init() {
	c.NodeBase.Init()
	c.ResetInteractionFlagsModifier()
	c.ForegroundOpacity = 0
	c.LabelOpacity = 1
	for _, role := range []string{BackgroundVolumeRole, ForegroundVolumeRole, LabelVolumeRole} {
		c.DeclareReferenceRole(role, role+"ID", nil, scene.TargetClass("VolumeNode"))
	}
}

// SetLayoutName sets [SliceCompositeNode.LayoutName].
func (c *SliceCompositeNode) SetLayoutName(name string) { setField(&c.NodeBase, &c.LayoutName, name) }

// SetLinkedControl sets [SliceCompositeNode.LinkedControl].
func (c *SliceCompositeNode) SetLinkedControl(on bool) { setField(&c.NodeBase, &c.LinkedControl, on) }

// SetHotLinkedControl sets [SliceCompositeNode.HotLinkedControl].
func (c *SliceCompositeNode) SetHotLinkedControl(on bool) {
	setField(&c.NodeBase, &c.HotLinkedControl, on)
}

// SetForegroundOpacity sets [SliceCompositeNode.ForegroundOpacity], clamped to [0, 1].
func (c *SliceCompositeNode) SetForegroundOpacity(o float32) {
	setField(&c.NodeBase, &c.ForegroundOpacity, math32.Clamp(o, 0, 1))
}

// SetLabelOpacity sets [SliceCompositeNode.LabelOpacity], clamped to [0, 1].
func (c *SliceCompositeNode) SetLabelOpacity(o float32) {
	setField(&c.NodeBase, &c.LabelOpacity, math32.Clamp(o, 0, 1))
}

// LayerVolumeID returns the ID of the volume in the given layer role.
func (c *SliceCompositeNode) LayerVolumeID(role string) string {
	return c.ReferenceID(role)
}

// LayerVolume returns the volume in the given layer role, or nil.
func (c *SliceCompositeNode) LayerVolume(role string) *data.VolumeNode {
	v, _ := c.Reference(role).(*data.VolumeNode)
	return v
}

// SetLayerVolumeID sets the volume of the given layer role; an empty
// ID clears the layer.
func (c *SliceCompositeNode) SetLayerVolumeID(role, id string) {
	if c.ReferenceID(role) == id {
		return
	}
	c.SetReferenceID(role, id)
	c.Modified()
}

// BackgroundVolume returns the background volume, or nil.
func (c *SliceCompositeNode) BackgroundVolume() *data.VolumeNode {
	return c.LayerVolume(BackgroundVolumeRole)
}

// SetBackgroundVolumeID sets the background volume.
func (c *SliceCompositeNode) SetBackgroundVolumeID(id string) {
	c.SetLayerVolumeID(BackgroundVolumeRole, id)
}

// SetForegroundVolumeID sets the foreground volume.
func (c *SliceCompositeNode) SetForegroundVolumeID(id string) {
	c.SetLayerVolumeID(ForegroundVolumeRole, id)
}

// SetLabelVolumeID sets the label volume.
func (c *SliceCompositeNode) SetLabelVolumeID(id string) {
	c.SetLayerVolumeID(LabelVolumeRole, id)
}

// SliceNode returns the [SliceNode] with the same layout name, or nil.
func (c *SliceCompositeNode) SliceNode() *SliceNode {
	sc := c.Scene()
	if sc == nil {
		return nil
	}
	for _, s := range scene.NodesOf[*SliceNode](sc) {
		if s.LayoutName == c.LayoutName {
			return s
		}
	}
	return nil
}

func (c *SliceCompositeNode) ReadAttributes(a *scene.Attributes) {
	c.NodeBase.ReadAttributes(a)
	a.Text("layoutName", &c.LayoutName)
	a.Bool("linkedControl", &c.LinkedControl)
	a.Bool("hotLinkedControl", &c.HotLinkedControl)
	a.Float32("foregroundOpacity", &c.ForegroundOpacity)
	a.Float32("labelOpacity", &c.LabelOpacity)
}

func (c *SliceCompositeNode) WriteAttributes(a *scene.Attributes) {
	c.NodeBase.WriteAttributes(a)
	a.Set("layoutName", c.LayoutName)
	a.SetBool("linkedControl", c.LinkedControl)
	a.SetBool("hotLinkedControl", c.HotLinkedControl)
	a.SetFloat32("foregroundOpacity", c.ForegroundOpacity)
	a.SetFloat32("labelOpacity", c.LabelOpacity)
}
