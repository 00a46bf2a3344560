// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"slices"
	"strconv"
)

// Event is the kind of an event emitted by a node or a scene.
// Packages that define node types add their own events starting
// at [EventCustom].
type Event int32

const (
	// EventNone is the zero event, which is never emitted.
	EventNone Event = iota

	// EventModified is emitted by a node when its content changes.
	// Inside a modify scope it is emitted once, when the scope ends.
	EventModified

	// EventReferenceAdded is emitted by a node when one of its
	// references resolves. The data is the [*Reference].
	EventReferenceAdded

	// EventReferenceModified is emitted by a node when one of its
	// resolved references changes target. The data is the [*Reference].
	EventReferenceModified

	// EventReferenceRemoved is emitted by a node when one of its
	// references stops resolving. The data is the [*Reference].
	EventReferenceRemoved

	// EventNodeAdded is emitted by the scene after a node is added.
	EventNodeAdded

	// EventNodeAboutToBeRemoved is emitted by the scene before a node is removed.
	EventNodeAboutToBeRemoved

	// EventNodeRemoved is emitted by the scene after a node is removed.
	EventNodeRemoved

	// EventStartBatchProcess is emitted when the scene enters [BatchProcessState].
	EventStartBatchProcess

	// EventEndBatchProcess is emitted when the scene leaves [BatchProcessState].
	EventEndBatchProcess

	// EventStartImport is emitted when the scene enters [ImportState].
	EventStartImport

	// EventEndImport is emitted when the scene leaves [ImportState].
	EventEndImport

	// EventStartRestore is emitted when the scene enters [RestoreState].
	EventStartRestore

	// EventEndRestore is emitted when the scene leaves [RestoreState].
	EventEndRestore

	// EventStartClose is emitted when the scene enters [CloseState].
	EventStartClose

	// EventEndClose is emitted when the scene leaves [CloseState].
	EventEndClose

	// EventCustom is the first event available to node packages.
	EventCustom Event = 1000
)

var eventNames = map[Event]string{
	EventNone:                 "None",
	EventModified:             "Modified",
	EventReferenceAdded:       "ReferenceAdded",
	EventReferenceModified:    "ReferenceModified",
	EventReferenceRemoved:     "ReferenceRemoved",
	EventNodeAdded:            "NodeAdded",
	EventNodeAboutToBeRemoved: "NodeAboutToBeRemoved",
	EventNodeRemoved:          "NodeRemoved",
	EventStartBatchProcess:    "StartBatchProcess",
	EventEndBatchProcess:      "EndBatchProcess",
	EventStartImport:          "StartImport",
	EventEndImport:            "EndImport",
	EventStartRestore:         "StartRestore",
	EventEndRestore:           "EndRestore",
	EventStartClose:           "StartClose",
	EventEndClose:             "EndClose",
}

// SetEventName sets the name returned by [Event.String] for a custom
// event. It is meant to be called from package init functions.
func SetEventName(ev Event, name string) {
	eventNames[ev] = name
}

func (ev Event) String() string {
	if s, ok := eventNames[ev]; ok {
		return s
	}
	if ev >= EventCustom {
		return "Custom" + strconv.Itoa(int(ev-EventCustom))
	}
	return "Event(" + strconv.Itoa(int(ev)) + ")"
}

// ListenerID identifies a listener added to [Listeners].
type ListenerID int

// Listener is a function called for an event. The caller is the node
// that emitted the event, or nil for scene state events.
type Listener func(caller Node, data any)

type listener struct {
	id ListenerID
	fn Listener
}

// Listeners registers lists of listener functions to receive different
// events. Listeners are closures with all context captured, registered
// on specific nodes or on the scene. The zero value is ready to use.
type Listeners struct {
	lastID ListenerID
	items  map[Event][]listener
}

// Add adds a function for the given event and returns its ID,
// which can be passed to [Listeners.Remove].
func (ls *Listeners) Add(ev Event, fn Listener) ListenerID {
	if ls.items == nil {
		ls.items = make(map[Event][]listener)
	}
	ls.lastID++
	ls.items[ev] = append(ls.items[ev], listener{id: ls.lastID, fn: fn})
	return ls.lastID
}

// Remove removes the listener with the given ID,
// returning false if it was not found.
func (ls *Listeners) Remove(id ListenerID) bool {
	for ev, lst := range ls.items {
		idx := slices.IndexFunc(lst, func(l listener) bool { return l.id == id })
		if idx < 0 {
			continue
		}
		ls.items[ev] = slices.Delete(slices.Clone(lst), idx, idx+1)
		return true
	}
	return false
}

// Len returns the number of listeners for the given event.
func (ls *Listeners) Len(ev Event) int {
	return len(ls.items[ev])
}

// Call calls all functions for the given event, in the order in which
// they were added. Listeners added or removed during the call do not
// affect the current call.
func (ls *Listeners) Call(caller Node, ev Event, data any) {
	lst := ls.items[ev]
	for _, l := range lst {
		l.fn(caller, data)
	}
}
