// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package links broadcasts interactive changes of slice views, slice
// composites, 3D views and cameras to the other nodes of the same type
// in the same view group, when the owning view has linked control.
//
// A change is broadcast when a node is modified while it is interacting
// with non-zero interaction flags. Broadcasting modifies the sibling
// nodes, which does not broadcast again: the [Logic] keeps a counter
// that is non-zero during a broadcast and during scene batch processing.
package links

import (
	"log/slog"

	"cogentcore.org/vizscene/scene"
	"cogentcore.org/vizscene/views"
)

// DefaultOrientationTolerance is the default tolerance for comparing
// the normalized axes of two slice orientations.
const DefaultOrientationTolerance = 0.001

// Logic is the link logic of one scene.
type Logic struct {

	// Scene is the scene whose nodes are linked.
	Scene *scene.Scene

	// OrientationTolerance is the tolerance within which two slices
	// have the same orientation. Orientation dependent fields are only
	// broadcast to slices with the same orientation.
	OrientationTolerance float32

	// HotLinkedDefault is the HotLinkedControl of slice composites and
	// 3D views added to the scene outside of batch processing.
	HotLinkedDefault bool

	// counter is non-zero during broadcasts and batch processing.
	counter int

	// sceneListeners are the listeners added to the scene.
	sceneListeners []scene.ListenerID

	// nodeListeners are the Modified listeners added to interactive nodes.
	nodeListeners map[scene.Node]scene.ListenerID

	// pending are the accumulated flags of interactions that are
	// broadcast at their end.
	pending map[scene.Node]views.Flags
}

// New returns a new [Logic] that links the interactive nodes of the
// given scene, including the nodes that are already in it.
func New(sc *scene.Scene) *Logic {
	lg := &Logic{
		Scene:                sc,
		OrientationTolerance: DefaultOrientationTolerance,
		nodeListeners:        map[scene.Node]scene.ListenerID{},
		pending:              map[scene.Node]views.Flags{},
	}
	inc := func(caller scene.Node, data any) { lg.counter++ }
	dec := func(caller scene.Node, data any) { lg.decrement() }
	for _, ev := range []scene.Event{scene.EventStartBatchProcess, scene.EventStartImport, scene.EventStartRestore} {
		lg.sceneListeners = append(lg.sceneListeners, sc.Listeners.Add(ev, inc))
	}
	for _, ev := range []scene.Event{scene.EventEndBatchProcess, scene.EventEndImport, scene.EventEndRestore} {
		lg.sceneListeners = append(lg.sceneListeners, sc.Listeners.Add(ev, dec))
	}
	lg.sceneListeners = append(lg.sceneListeners,
		sc.Listeners.Add(scene.EventNodeAdded, func(caller scene.Node, data any) { lg.nodeAdded(caller) }),
		sc.Listeners.Add(scene.EventNodeRemoved, func(caller scene.Node, data any) { lg.nodeRemoved(caller) }),
	)
	for _, n := range sc.Nodes() {
		lg.observe(n)
	}
	return lg
}

// Close removes all the listeners of the logic.
func (lg *Logic) Close() {
	for _, id := range lg.sceneListeners {
		lg.Scene.Listeners.Remove(id)
	}
	lg.sceneListeners = nil
	for n, id := range lg.nodeListeners {
		n.AsNode().Off(id)
	}
	clear(lg.nodeListeners)
	clear(lg.pending)
}

// IsBroadcasting returns whether changes are currently not broadcast,
// because a broadcast or a batch process is in progress.
func (lg *Logic) IsBroadcasting() bool {
	return lg.counter != 0
}

func (lg *Logic) decrement() {
	if lg.counter <= 0 {
		slog.Error("links.Logic: end of a batch process without a start")
		return
	}
	lg.counter--
}

func (lg *Logic) nodeAdded(n scene.Node) {
	if !lg.Scene.IsBatchProcessing() {
		switch n := n.(type) {
		case *views.SliceCompositeNode:
			n.HotLinkedControl = lg.HotLinkedDefault
		case *views.ViewNode:
			n.HotLinkedControl = lg.HotLinkedDefault
		}
	}
	lg.observe(n)
}

func (lg *Logic) nodeRemoved(n scene.Node) {
	if id, ok := lg.nodeListeners[n]; ok {
		n.AsNode().Off(id)
		delete(lg.nodeListeners, n)
	}
	delete(lg.pending, n)
}

func (lg *Logic) observe(n scene.Node) {
	if _, ok := n.(views.Interactive); !ok {
		return
	}
	if _, ok := lg.nodeListeners[n]; ok {
		return
	}
	lg.nodeListeners[n] = n.AsNode().On(scene.EventModified, func(caller scene.Node, data any) {
		lg.nodeModified(caller)
	})
}

// nodeModified broadcasts the change of an interacting node.
func (lg *Logic) nodeModified(n scene.Node) {
	in, ok := n.(views.Interactive)
	if !ok {
		return
	}
	st := in.Interaction()
	if !st.Interacting || st.InteractionFlags == 0 {
		return
	}
	if linked, _ := LinkControl(n); !linked {
		return
	}
	lg.Broadcast(n)
}

// LinkControl returns the LinkedControl and HotLinkedControl of the
// view that owns the given node: the slice composite with the layout
// name of a slice, a composite or 3D view itself, or the view of a camera.
func LinkControl(n scene.Node) (linked, hot bool) {
	switch n := n.(type) {
	case *views.SliceNode:
		if c := n.CompositeNode(); c != nil {
			return c.LinkedControl, c.HotLinkedControl
		}
	case *views.SliceCompositeNode:
		return n.LinkedControl, n.HotLinkedControl
	case *views.ViewNode:
		return n.LinkedControl, n.HotLinkedControl
	case *views.CameraNode:
		if v := n.ViewNode(); v != nil {
			return v.LinkedControl, v.HotLinkedControl
		}
	}
	return false, false
}

// ViewGroup returns the view group of the given node: that of the
// slice of a composite, or of the view of a camera. It returns false
// for nodes that are in no view group.
func ViewGroup(n scene.Node) (int, bool) {
	switch n := n.(type) {
	case *views.SliceNode:
		return n.ViewGroup, true
	case *views.SliceCompositeNode:
		if s := n.SliceNode(); s != nil {
			return s.ViewGroup, true
		}
	case *views.ViewNode:
		return n.ViewGroup, true
	case *views.CameraNode:
		if v := n.ViewNode(); v != nil {
			return v.ViewGroup, true
		}
	}
	return 0, false
}

// Broadcast copies the fields of the given node that are selected by
// its broadcast flags to the other nodes of the same type in its view
// group. It does nothing during another broadcast or batch processing.
func (lg *Logic) Broadcast(src scene.Node) {
	if lg.counter != 0 {
		return
	}
	lg.counter++
	defer func() { lg.counter-- }()

	group, ok := ViewGroup(src)
	if !ok {
		return
	}
	switch src := src.(type) {
	case *views.SliceNode:
		lg.broadcastSlice(src, siblings(lg.Scene, src, group))
	case *views.SliceCompositeNode:
		lg.broadcastComposite(src, siblings(lg.Scene, src, group))
	case *views.ViewNode:
		lg.broadcastView(src, siblings(lg.Scene, src, group))
	case *views.CameraNode:
		lg.broadcastCamera(src, siblings(lg.Scene, src, group))
	}
}

// siblings returns the other nodes of the type of src in the view group.
func siblings[T interface {
	comparable
	scene.Node
}](sc *scene.Scene, src T, group int) []T {
	var sibs []T
	for _, n := range scene.NodesOf[T](sc) {
		if n == src {
			continue
		}
		if g, ok := ViewGroup(n); ok && g == group {
			sibs = append(sibs, n)
		}
	}
	return sibs
}
