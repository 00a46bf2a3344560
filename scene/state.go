// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"strings"

	"cogentcore.org/vizscene/base/errors"
)

// State is a bit flag set of scene states. Importing, restoring and
// closing all imply batch processing.
type State uint32

const (
	// BatchProcessState is set while many nodes are changed at once.
	BatchProcessState State = 1 << iota

	importBit
	restoreBit
	closeBit

	// ImportState is set while a document is imported.
	ImportState = importBit | BatchProcessState

	// RestoreState is set while a snapshot is restored.
	RestoreState = restoreBit | BatchProcessState

	// CloseState is set while the scene is cleared.
	CloseState = closeBit | BatchProcessState
)

// stateEvents are the start and end events of each state bit,
// in the order in which start events are emitted.
var stateEvents = []struct {
	bit        State
	start, end Event
}{
	{BatchProcessState, EventStartBatchProcess, EventEndBatchProcess},
	{importBit, EventStartImport, EventEndImport},
	{restoreBit, EventStartRestore, EventEndRestore},
	{closeBit, EventStartClose, EventEndClose},
}

func (s State) String() string {
	var names []string
	for _, nm := range []struct {
		bit  State
		name string
	}{{BatchProcessState, "BatchProcess"}, {importBit, "Import"}, {restoreBit, "Restore"}, {closeBit, "Close"}} {
		if s&nm.bit != 0 {
			names = append(names, nm.name)
		}
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, "|")
}

// States returns the current combined scene state.
func (sc *Scene) States() State {
	if len(sc.states) == 0 {
		return 0
	}
	return sc.states[len(sc.states)-1]
}

// StartState enters the given state. States nest: the start event of
// each state bit is emitted only when the bit was not already set.
func (sc *Scene) StartState(state State) {
	old := sc.States()
	sc.states = append(sc.states, old|state)
	for _, se := range stateEvents {
		if state&se.bit != 0 && old&se.bit == 0 {
			sc.Listeners.Call(nil, se.start, nil)
		}
	}
}

// EndState leaves the given state, which must match the most recent
// [Scene.StartState]. The end event of each state bit is emitted when
// the bit is no longer set, in reverse order of the start events.
func (sc *Scene) EndState(state State) {
	if len(sc.states) == 0 {
		errors.Log(errors.New("scene.Scene.EndState: called without a matching StartState for " + state.String()))
		return
	}
	old := sc.States()
	sc.states = sc.states[:len(sc.states)-1]
	cur := sc.States()
	if old&state != state {
		errors.Log(errors.New("scene.Scene.EndState: state " + state.String() + " does not match the current state " + old.String()))
	}
	for i := len(stateEvents) - 1; i >= 0; i-- {
		se := stateEvents[i]
		if old&se.bit != 0 && cur&se.bit == 0 {
			sc.Listeners.Call(nil, se.end, nil)
		}
	}
}

// IsBatchProcessing returns whether the scene is in [BatchProcessState].
func (sc *Scene) IsBatchProcessing() bool {
	return sc.States()&BatchProcessState != 0
}

// IsImporting returns whether the scene is importing a document.
func (sc *Scene) IsImporting() bool {
	return sc.States()&importBit != 0
}

// IsRestoring returns whether the scene is restoring a snapshot.
func (sc *Scene) IsRestoring() bool {
	return sc.States()&restoreBit != 0
}

// IsClosing returns whether the scene is being cleared.
func (sc *Scene) IsClosing() bool {
	return sc.States()&closeBit != 0
}
