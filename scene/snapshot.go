// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"log/slog"
	"time"
)

// Snapshot is a saved state of all the nodes of a scene,
// which can be restored with [Scene.RestoreSnapshot].
type Snapshot struct {

	// Name is the name of the snapshot.
	Name string

	// Time is when the snapshot was taken.
	Time time.Time

	// Document is the saved scene, including nodes that
	// are not saved with the scene.
	Document *Document
}

// TakeSnapshot returns a snapshot of the current state of all nodes.
func (sc *Scene) TakeSnapshot(name string) *Snapshot {
	return &Snapshot{Name: name, Time: time.Now(), Document: sc.Document(true)}
}

// RestoreSnapshot restores the given snapshot within [RestoreState]:
// nodes that are still in the scene get the saved content and references,
// nodes that were removed are added back with their saved ID, and
// non-singleton nodes added after the snapshot are removed.
func (sc *Scene) RestoreSnapshot(snap *Snapshot) {
	sc.StartState(RestoreState)
	defer sc.EndState(RestoreState)

	saved := map[string]bool{}
	var added []Node
	for _, el := range snap.Document.Elements {
		n := sc.CreateNodeByTag(el.Tag)
		if n == nil {
			continue
		}
		n.ReadAttributes(&el.Attributes)
		id := n.AsNode().ID
		saved[id] = true
		if existing := sc.NodeByID(id); existing != nil {
			existing.AsNode().Copy(n)
			continue
		}
		added = append(added, n)
	}
	for _, n := range sc.Nodes() {
		nb := n.AsNode()
		if !saved[nb.ID] && !nb.IsSingleton() {
			sc.RemoveNode(n)
		}
	}
	for _, n := range added {
		if sc.AddNode(n) != n {
			slog.Warn("scene.Scene.RestoreSnapshot: restored node was adopted by another node", "id", n.AsNode().ID)
		}
	}
}
