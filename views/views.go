// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package views provides the interactive nodes of scenes: 2D slice
// views and their layer composition, 3D views and their cameras, and
// the selection singleton. Slice, composite, view and camera nodes
// carry an [InteractionState], which the links package uses to
// broadcast interactive changes to linked views.
package views

import (
	"log/slog"
	"slices"

	"cogentcore.org/vizscene/scene"
)

// RegisterNodes registers the view node classes in the given scene.
func RegisterNodes(sc *scene.Scene) {
	sc.RegisterNodeClass(&SliceNode{})
	sc.RegisterNodeClass(&SliceCompositeNode{})
	sc.RegisterNodeClass(&ViewNode{})
	sc.RegisterNodeClass(&CameraNode{})
	sc.RegisterNodeClass(&SelectionNode{})
}

// enumString returns the name at the given index, or the first name.
func enumString(names []string, i int32) string {
	if i < 0 || int(i) >= len(names) {
		return names[0]
	}
	return names[i]
}

// readEnum sets v to the index of the name in the given attribute.
func readEnum[T ~int32](a *scene.Attributes, key string, names []string, v *T) {
	s, ok := a.ValueTry(key)
	if !ok {
		return
	}
	idx := slices.Index(names, s)
	if idx < 0 {
		slog.Warn("views: invalid attribute value", "key", key, "value", s)
		return
	}
	*v = T(idx)
}

// setField sets the field to the value and emits [scene.EventModified]
// on the node if it changed.
func setField[T comparable](n *scene.NodeBase, field *T, v T) {
	if *field == v {
		return
	}
	*field = v
	n.Modified()
}
