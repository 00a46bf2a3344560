// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testdata provides node types for testing the scene package.
package testdata

import (
	"cogentcore.org/vizscene/scene"
)

// ItemNode is a node with a single-valued "parent" role that relays
// Modified events and a multi-valued "other" role. It records the
// reference callbacks and relayed events it receives.
type ItemNode struct {
	scene.NodeBase

	Value float32

	Tags []float32

	// Log records callbacks as "kind role target" strings.
	Log []string `copier:"-"`
}

func (n *ItemNode) New() scene.Node { return &ItemNode{} }

func (n *ItemNode) Init() {
	n.NodeBase.Init()
	n.DeclareReferenceRole("parent", "parentRef", []scene.Event{scene.EventModified})
	n.DeclareReferenceRole("other", "otherRefs", nil, scene.Multiple())
}

func (n *ItemNode) ReadAttributes(a *scene.Attributes) {
	n.NodeBase.ReadAttributes(a)
	a.Float32("value", &n.Value)
	a.Floats("tags", &n.Tags)
}

func (n *ItemNode) WriteAttributes(a *scene.Attributes) {
	n.NodeBase.WriteAttributes(a)
	a.SetFloat32("value", n.Value)
	if len(n.Tags) > 0 {
		a.SetFloats("tags", n.Tags...)
	}
}

// SetValue sets the value and emits a Modified event.
func (n *ItemNode) SetValue(v float32) {
	if n.Value == v {
		return
	}
	n.Value = v
	n.Modified()
}

func targetID(ref *scene.Reference) string {
	if t := ref.Target(); t != nil {
		return t.AsNode().ID
	}
	return "nil"
}

func (n *ItemNode) OnReferenceAdded(ref *scene.Reference) {
	n.Log = append(n.Log, "added "+ref.Role+" "+targetID(ref))
	n.NodeBase.OnReferenceAdded(ref)
}

func (n *ItemNode) OnReferenceModified(ref *scene.Reference) {
	n.Log = append(n.Log, "modified "+ref.Role+" "+targetID(ref))
	n.NodeBase.OnReferenceModified(ref)
}

func (n *ItemNode) OnReferenceRemoved(ref *scene.Reference) {
	n.Log = append(n.Log, "removed "+ref.Role+" "+targetID(ref))
	n.NodeBase.OnReferenceRemoved(ref)
}

func (n *ItemNode) ProcessEvent(caller scene.Node, ev scene.Event, data any) {
	n.Log = append(n.Log, "event "+ev.String()+" "+caller.AsNode().ID)
}

// ClearLog clears the recorded callbacks.
func (n *ItemNode) ClearLog() {
	n.Log = nil
}

// SettingsNode is a singleton node.
type SettingsNode struct {
	scene.NodeBase

	Level int
}

func (n *SettingsNode) New() scene.Node { return &SettingsNode{} }

func (n *SettingsNode) Init() {
	n.NodeBase.Init()
	n.SingletonTag = "Singleton"
}

func (n *SettingsNode) ReadAttributes(a *scene.Attributes) {
	n.NodeBase.ReadAttributes(a)
	a.Int("level", &n.Level)
}

func (n *SettingsNode) WriteAttributes(a *scene.Attributes) {
	n.NodeBase.WriteAttributes(a)
	a.SetInt("level", n.Level)
}

// NewScene returns a new scene with the test classes registered.
func NewScene() *scene.Scene {
	sc := scene.NewScene()
	sc.RegisterNodeClass(&ItemNode{})
	sc.RegisterNodeClass(&SettingsNode{})
	return sc
}
