// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package data provides the data nodes of scenes: models and volumes
// that can be placed under transforms, the display nodes that describe
// how they are shown, and the storage nodes that describe where they
// are stored.
//
// Capabilities are layered by embedding: [StorableBase] embeds
// [transform.TransformableBase], and [DisplayableBase] embeds
// [StorableBase]. [Capability] classifies any node by the most
// specific capability it has.
package data

import (
	"cogentcore.org/vizscene/scene"
	"cogentcore.org/vizscene/transform"
)

// Events emitted by data nodes.
const (
	// EventDisplayModified is emitted by a displayable node when one of
	// its display nodes is modified. The data is the display node.
	EventDisplayModified = scene.EventCustom + 200 + iota

	// EventMeshModified is emitted by a model node when its points change.
	EventMeshModified

	// EventImageDataModified is emitted by a volume node when its
	// geometry or dimensions change.
	EventImageDataModified
)

func init() {
	scene.SetEventName(EventDisplayModified, "DisplayModified")
	scene.SetEventName(EventMeshModified, "MeshModified")
	scene.SetEventName(EventImageDataModified, "ImageDataModified")
}

// Reference roles of data nodes.
const (
	DisplayRole = "display"
	StorageRole = "storage"
	ViewRole    = "view"
)

// RegisterNodes registers the data node classes in the given scene.
func RegisterNodes(sc *scene.Scene) {
	sc.RegisterNodeClass(&ModelNode{})
	sc.RegisterNodeClass(&VolumeNode{})
	sc.RegisterNodeClass(&ModelDisplayNode{})
	sc.RegisterNodeClass(&VolumeDisplayNode{})
	sc.RegisterNodeClass(&StorageNode{})
}

// capabilities are the capability predicates, most specific first.
var capabilities = []struct {
	name string
	is   func(n scene.Node) bool
}{
	{"Transform", transform.IsTransformNode},
	{"Display", IsDisplay},
	{"Storage", IsStorage},
	{"Displayable", IsDisplayable},
	{"Storable", IsStorable},
	{"Transformable", transform.IsTransformable},
}

// Capability returns the name of the most specific capability of the
// given node: Transform, Display, Storage, Displayable, Storable,
// Transformable, or Node if it has none of them.
func Capability(n scene.Node) string {
	for _, c := range capabilities {
		if c.is(n) {
			return c.name
		}
	}
	return "Node"
}
