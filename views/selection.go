// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package views

import (
	"cogentcore.org/vizscene/data"
	"cogentcore.org/vizscene/scene"
)

// Selection roles.
const (
	ActiveVolumeRole = "activeVolume"
	ActiveViewRole   = "activeView"
)

// SelectionNode is the singleton that holds the active volume and the
// active view of the scene.
type SelectionNode struct {
	scene.NodeBase
}

func (s *SelectionNode) New() scene.Node { return &SelectionNode{} }

func (s *SelectionNode) Init() {
	s.NodeBase.Init()
	s.SingletonTag = "Singleton"
	s.DeclareReferenceRole(ActiveVolumeRole, "activeVolumeID", nil, scene.TargetClass("VolumeNode"))
	s.DeclareReferenceRole(ActiveViewRole, "activeViewID", nil)
}

// Selection returns the selection singleton of the scene, adding it
// if the scene has none.
func Selection(sc *scene.Scene) *SelectionNode {
	if s, ok := sc.SingletonNode("Singleton", "SelectionNode").(*SelectionNode); ok {
		return s
	}
	s, _ := sc.AddNode(scene.New[SelectionNode]()).(*SelectionNode)
	return s
}

// ActiveVolume returns the active volume, or nil.
func (s *SelectionNode) ActiveVolume() *data.VolumeNode {
	v, _ := s.Reference(ActiveVolumeRole).(*data.VolumeNode)
	return v
}

// SetActiveVolumeID sets the active volume.
func (s *SelectionNode) SetActiveVolumeID(id string) {
	if s.ReferenceID(ActiveVolumeRole) == id {
		return
	}
	s.SetReferenceID(ActiveVolumeRole, id)
	s.Modified()
}

// ActiveView returns the active slice or 3D view, or nil.
func (s *SelectionNode) ActiveView() scene.Node {
	return s.Reference(ActiveViewRole)
}

// SetActiveViewID sets the active view.
func (s *SelectionNode) SetActiveViewID(id string) {
	if s.ReferenceID(ActiveViewRole) == id {
		return
	}
	s.SetReferenceID(ActiveViewRole, id)
	s.Modified()
}
