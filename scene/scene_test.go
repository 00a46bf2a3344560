// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "cogentcore.org/vizscene/scene"
	"cogentcore.org/vizscene/scene/testdata"
)

func TestClassNames(t *testing.T) {
	n := New[testdata.ItemNode]()
	assert.Equal(t, "ItemNode", n.ClassName())
	assert.Equal(t, "Item", n.TagName())
	assert.Equal(t, "Settings", TagFromClass("SettingsNode"))
	assert.Equal(t, "Node", TagFromClass("Node"))
}

func TestRegistry(t *testing.T) {
	sc := testdata.NewScene()
	assert.True(t, sc.IsNodeClassRegistered("ItemNode"))
	assert.False(t, sc.IsNodeClassRegistered("MissingNode"))
	assert.Equal(t, []string{"ItemNode", "SettingsNode"}, sc.RegisteredClasses())
	assert.Equal(t, "ItemNode", sc.ClassNameByTag("Item"))

	n := sc.CreateNodeByClass("ItemNode")
	require.NotNil(t, n)
	assert.IsType(t, &testdata.ItemNode{}, n)
	assert.Same(t, n, n.AsNode().This)
	assert.Nil(t, n.AsNode().Scene())

	assert.Nil(t, sc.CreateNodeByClass("MissingNode"))
	assert.Nil(t, sc.CreateNodeByTag("Missing"))
	assert.Nil(t, sc.AddNewNodeByClass("MissingNode", "x"))
}

func TestAddNodeIDs(t *testing.T) {
	sc := testdata.NewScene()
	a := sc.AddNewNodeByClass("ItemNode", "a")
	b := sc.AddNewNodeByClass("ItemNode", "b")
	c := sc.AddNewNodeByClass("ItemNode", "c")
	assert.Equal(t, "ItemNode1", a.AsNode().ID)
	assert.Equal(t, "ItemNode2", b.AsNode().ID)
	assert.Equal(t, "ItemNode3", c.AsNode().ID)
	assert.Equal(t, 3, sc.NumNodes())

	sc.RemoveNode(b)
	assert.Nil(t, sc.NodeByID("ItemNode2"))
	assert.Nil(t, b.AsNode().Scene())
	d := sc.AddNewNodeByClass("ItemNode", "d")
	assert.Equal(t, "ItemNode2", d.AsNode().ID, "smallest unused ID is reused")
	e := sc.AddNewNodeByClass("ItemNode", "e")
	assert.Equal(t, "ItemNode4", e.AsNode().ID)

	// a preset ID that is free is kept, and one in use is replaced
	f := New[testdata.ItemNode]()
	f.ID = "Custom"
	sc.AddNode(f)
	assert.Equal(t, "Custom", f.ID)
	g := New[testdata.ItemNode]()
	g.ID = "ItemNode1"
	sc.AddNode(g)
	assert.Equal(t, "ItemNode5", g.ID)

	assert.Equal(t, []Node{a, c, d, e, f, g}, sc.Nodes())
	assert.Same(t, a, sc.AddNode(a), "adding twice does nothing")
	assert.Equal(t, 6, sc.NumNodes())
}

func TestAddNodeDefaultName(t *testing.T) {
	sc := testdata.NewScene()
	a := sc.AddNode(New[testdata.ItemNode]())
	b := sc.AddNode(New[testdata.ItemNode]())
	assert.Equal(t, "Item", a.AsNode().Name)
	assert.Equal(t, "Item_1", b.AsNode().Name)
	assert.Equal(t, "Item_2", sc.GenerateUniqueName("Item"))
	assert.Equal(t, "Other", sc.GenerateUniqueName("Other"))
}

func TestLookup(t *testing.T) {
	sc := testdata.NewScene()
	a := sc.AddNewNodeByClass("ItemNode", "same")
	s := sc.AddNewNodeByClass("SettingsNode", "settings")
	b := sc.AddNewNodeByClass("ItemNode", "same")

	assert.Same(t, a, sc.NodeByID("ItemNode1"))
	assert.Same(t, a, sc.FirstNodeByClass("ItemNode"))
	assert.Same(t, s, sc.FirstNodeByClass("SettingsNode"))
	assert.Nil(t, sc.FirstNodeByClass("MissingNode"))
	assert.Equal(t, []Node{a, b}, sc.NodesByClass("ItemNode"))
	assert.Equal(t, []Node{a, b}, sc.NodesByName("same"))
	assert.Same(t, a, sc.FirstNodeByName("same"))
	assert.Nil(t, sc.FirstNodeByName("missing"))
	assert.Len(t, NodesOf[*testdata.ItemNode](sc), 2)
	assert.Same(t, s, sc.SingletonNode("Singleton", "SettingsNode"))
}

func TestSceneCopyNode(t *testing.T) {
	sc := testdata.NewScene()
	target := sc.AddNewNodeByClass("ItemNode", "target")
	a := sc.AddNewNodeByClass("ItemNode", "a").(*testdata.ItemNode)
	a.SetValue(3)
	a.Tags = []float32{1, 2}
	a.SetReferenceID("parent", target.AsNode().ID)

	c := sc.CopyNode(a).(*testdata.ItemNode)
	require.NotNil(t, c)
	assert.NotEqual(t, a.ID, c.ID)
	assert.Equal(t, "a", c.Name)
	assert.Equal(t, float32(3), c.Value)
	assert.Equal(t, a.Tags, c.Tags)
	c.Tags[0] = 5
	assert.Equal(t, float32(1), a.Tags[0])
	assert.Equal(t, target.AsNode().ID, c.ReferenceID("parent"))
	assert.Len(t, sc.Referrers(target.AsNode().ID), 2)
	assert.Nil(t, sc.CopyNode(nil))
}

func TestSingleton(t *testing.T) {
	sc := testdata.NewScene()
	s1 := New[testdata.SettingsNode]()
	s1.Level = 1
	assert.Same(t, s1, sc.AddNode(s1))
	assert.Equal(t, "SettingsNodeSingleton", s1.ID)

	s2 := New[testdata.SettingsNode]()
	s2.Level = 2
	s2.Name = "second"
	got := sc.AddNode(s2)
	assert.Same(t, s1, got, "existing singleton adopts the new one")
	assert.Equal(t, 2, s1.Level)
	assert.Equal(t, "second", s1.Name)
	assert.Nil(t, s2.Scene())
	assert.Equal(t, 1, sc.NumNodes())

	s3 := New[testdata.SettingsNode]()
	s3.SingletonTag = "Other"
	sc.AddNode(s3)
	assert.Equal(t, "SettingsNodeOther", s3.ID)
	assert.Equal(t, 2, sc.NumNodes())
}

func TestSceneEvents(t *testing.T) {
	sc := testdata.NewScene()
	var log []string
	rec := func(name string) Listener {
		return func(caller Node, data any) {
			id := ""
			if caller != nil {
				id = " " + caller.AsNode().ID
			}
			log = append(log, name+id)
		}
	}
	sc.Listeners.Add(EventNodeAdded, rec("added"))
	sc.Listeners.Add(EventNodeAboutToBeRemoved, rec("removing"))
	sc.Listeners.Add(EventNodeRemoved, rec("removed"))
	a := sc.AddNewNodeByClass("ItemNode", "a")
	sc.RemoveNode(a)
	sc.RemoveNode(a)
	assert.Equal(t, []string{"added ItemNode1", "removing ItemNode1", "removed ItemNode1"}, log)
}

func TestStates(t *testing.T) {
	sc := testdata.NewScene()
	var log []string
	for _, ev := range []Event{EventStartBatchProcess, EventEndBatchProcess, EventStartImport, EventEndImport, EventStartRestore, EventEndRestore} {
		sc.Listeners.Add(ev, func(caller Node, data any) {
			log = append(log, ev.String())
		})
	}
	sc.StartState(BatchProcessState)
	assert.True(t, sc.IsBatchProcessing())
	sc.StartState(ImportState)
	assert.True(t, sc.IsImporting())
	assert.False(t, sc.IsRestoring())
	sc.EndState(ImportState)
	assert.False(t, sc.IsImporting())
	assert.True(t, sc.IsBatchProcessing())
	sc.EndState(BatchProcessState)
	assert.False(t, sc.IsBatchProcessing())
	assert.Equal(t, []string{"StartBatchProcess", "StartImport", "EndImport", "EndBatchProcess"}, log)

	log = nil
	sc.StartState(RestoreState)
	assert.Equal(t, "BatchProcess|Restore", sc.States().String())
	sc.EndState(RestoreState)
	assert.Equal(t, []string{"StartBatchProcess", "StartRestore", "EndRestore", "EndBatchProcess"}, log)
	assert.Equal(t, "None", sc.States().String())
}

func TestClear(t *testing.T) {
	sc := testdata.NewScene()
	sc.AddNewNodeByClass("ItemNode", "a")
	s := New[testdata.SettingsNode]()
	s.Level = 3
	sc.AddNode(s)
	closing := 0
	sc.Listeners.Add(EventStartClose, func(caller Node, data any) { closing++ })

	sc.Clear(false)
	assert.Equal(t, 1, closing)
	assert.Equal(t, 1, sc.NumNodes())
	assert.Same(t, s, sc.NodeByID("SettingsNodeSingleton"))
	assert.Equal(t, 0, s.Level, "singleton is reset")

	sc.Clear(true)
	assert.Equal(t, 0, sc.NumNodes())
}

func TestListenersRemove(t *testing.T) {
	var ls Listeners
	calls := 0
	id := ls.Add(EventModified, func(caller Node, data any) { calls++ })
	ls.Add(EventModified, func(caller Node, data any) { calls += 10 })
	ls.Call(nil, EventModified, nil)
	assert.Equal(t, 11, calls)
	assert.True(t, ls.Remove(id))
	assert.False(t, ls.Remove(id))
	assert.Equal(t, 1, ls.Len(EventModified))
	ls.Call(nil, EventModified, nil)
	assert.Equal(t, 21, calls)
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "Modified", EventModified.String())
	assert.Equal(t, "Custom2", (EventCustom + 2).String())
	assert.Equal(t, "Event(500)", Event(500).String())
}

func TestAttributesTyped(t *testing.T) {
	var a Attributes
	a.SetBool("b", true)
	a.SetInt("i", 3)
	a.SetInts("is", 1, 2, 3)
	a.SetFloat32("f", 0.25)
	a.Set("bad", "x")
	var (
		b  bool
		i  int
		is []int
		f  float32
		bf float32 = 7
	)
	a.Bool("b", &b)
	a.Int("i", &i)
	a.Ints("is", &is)
	a.Float32("f", &f)
	a.Float32("bad", &bf)
	a.Float32("missing", &bf)
	assert.True(t, b)
	assert.Equal(t, 3, i)
	assert.Equal(t, []int{1, 2, 3}, is)
	assert.Equal(t, float32(0.25), f)
	assert.Equal(t, float32(7), bf, "invalid and missing values leave the destination unchanged")
	assert.Equal(t, []string{"b", "i", "is", "f", "bad"}, a.Keys())

	assert.True(t, a.Delete("i"))
	assert.False(t, a.Delete("i"))
	assert.Equal(t, "0.25", a.Value("f"))
	c := a.Clone()
	c.Set("f", "1")
	assert.Equal(t, "0.25", a.Value("f"))
	assert.Equal(t, 4, c.Len())
}
