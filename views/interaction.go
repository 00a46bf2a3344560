// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package views

import (
	"fmt"

	"cogentcore.org/vizscene/scene"
)

// Flags is a bit mask of the fields of a node that an interaction
// changes. Each node type defines its own flags.
type Flags uint32

// AllFlags has every bit set.
const AllFlags = ^Flags(0)

// HasFlag returns whether any of the bits of the given flag is set.
func (f Flags) HasFlag(flag Flags) bool {
	return f&flag != 0
}

// SetFlag sets the bits of the given flags if on is true,
// and clears them otherwise.
func (f *Flags) SetFlag(on bool, flags ...Flags) {
	for _, fl := range flags {
		if on {
			*f |= fl
		} else {
			*f &^= fl
		}
	}
}

// ClearFlag clears the bits of the given flags.
func (f *Flags) ClearFlag(flags ...Flags) {
	f.SetFlag(false, flags...)
}

func (f Flags) String() string {
	return fmt.Sprintf("Flags(%#x)", uint32(f))
}

// InteractionState is the interaction state of a node that can be
// linked to its siblings: whether the user is interacting with it, and
// which of its fields the interaction changes.
type InteractionState struct {

	// Interacting is whether the user is interacting with the node.
	Interacting bool `copier:"-"`

	// InteractionFlags are the fields that the interaction changes.
	InteractionFlags Flags `copier:"-"`

	// InteractionFlagsModifier masks the InteractionFlags that are
	// broadcast to linked nodes.
	InteractionFlagsModifier Flags `copier:"-"`
}

// Interaction returns the interaction state.
func (s *InteractionState) Interaction() *InteractionState {
	return s
}

// InteractingOn marks the start of an interaction.
func (s *InteractionState) InteractingOn() {
	s.Interacting = true
}

// InteractingOff marks the end of an interaction.
func (s *InteractionState) InteractingOff() {
	s.Interacting = false
}

// SetInteractionFlags sets the fields that the interaction changes.
func (s *InteractionState) SetInteractionFlags(f Flags) {
	s.InteractionFlags = f
}

// ResetInteractionFlagsModifier makes every interaction flag broadcast.
func (s *InteractionState) ResetInteractionFlagsModifier() {
	s.InteractionFlagsModifier = AllFlags
}

// BroadcastFlags returns the interaction flags that are broadcast.
func (s *InteractionState) BroadcastFlags() Flags {
	return s.InteractionFlags & s.InteractionFlagsModifier
}

// Interactive is the trait of nodes whose changes can be broadcast to
// linked nodes.
type Interactive interface {
	scene.Node

	// Interaction returns the interaction state of the node.
	Interaction() *InteractionState
}
