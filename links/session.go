// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package links

import (
	"cogentcore.org/vizscene/scene"
	"cogentcore.org/vizscene/views"
)

// Interact applies one step of an interaction with the given node: fn
// changes the fields of the node that the flags select. When the owning
// view is hot-linked, the change is broadcast immediately. Otherwise the
// flags accumulate until [Logic.EndInteraction], which broadcasts the
// final state once.
func (lg *Logic) Interact(n views.Interactive, flags views.Flags, fn func()) {
	st := n.Interaction()
	linked, hot := LinkControl(n)
	if linked && hot {
		st.InteractingOn()
		st.SetInteractionFlags(flags)
		defer func() {
			st.InteractingOff()
			st.SetInteractionFlags(0)
		}()
		fn()
		return
	}
	fn()
	if linked {
		lg.pending[n] |= flags
	}
}

// EndInteraction ends an interaction with the given node, broadcasting
// the fields changed since it started if the owning view is linked but
// not hot-linked.
func (lg *Logic) EndInteraction(n views.Interactive) {
	flags, ok := lg.pending[n]
	if !ok {
		return
	}
	delete(lg.pending, n)
	st := n.Interaction()
	st.InteractingOn()
	st.SetInteractionFlags(flags)
	n.AsNode().Modified()
	st.InteractingOff()
	st.SetInteractionFlags(0)
}

// PendingFlags returns the flags that [Logic.EndInteraction] would broadcast.
func (lg *Logic) PendingFlags(n scene.Node) views.Flags {
	return lg.pending[n]
}
