// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Scene is the registry that owns all nodes: it allocates unique IDs,
// manages singletons, keeps the table of subscriptions between
// referencing and referenced nodes, and reads and writes scene documents.
// Node classes must be registered with [Scene.RegisterNodeClass] before
// they can be created by class or tag name.
type Scene struct {

	// Listeners are the functions called for scene events:
	// node added and removed, and the start and end of scene states.
	Listeners Listeners

	// Indent is whether written documents have one element per line.
	Indent bool

	// classes are the prototype nodes of the registered classes.
	classes map[string]Node

	// classOrder is the registration order of the classes.
	classOrder []string

	// tags maps element tags to class names.
	tags map[string]string

	// nodes are the nodes in the scene by ID.
	nodes map[string]Node

	// order is the list of nodes in insertion order.
	order []Node

	// idHints is the smallest possibly unused ID number per class.
	idHints map[string]int

	// referrers is the subscription table: the references of nodes in
	// the scene, keyed by the referenced ID, whether or not they resolve.
	referrers map[string][]*Reference

	// states is the stack of active scene states.
	states []State

	url            string
	loadFromString bool
	saveToString   bool
	sceneString    string

	lastVersion *semver.Version
}

// NewScene returns a new empty scene with no registered classes.
func NewScene() *Scene {
	return &Scene{
		Indent:    true,
		classes:   map[string]Node{},
		tags:      map[string]string{},
		nodes:     map[string]Node{},
		idHints:   map[string]int{},
		referrers: map[string][]*Reference{},
	}
}

// RegisterNodeClass registers the class of the given prototype node, so
// that nodes of the class can be created by [Scene.CreateNodeByClass]
// and read from documents. Registering a class again replaces it.
func (sc *Scene) RegisterNodeClass(proto Node) {
	InitNode(proto)
	class := proto.ClassName()
	if _, has := sc.classes[class]; !has {
		sc.classOrder = append(sc.classOrder, class)
	}
	sc.classes[class] = proto
	sc.tags[proto.TagName()] = class
}

// IsNodeClassRegistered returns whether the given class is registered.
func (sc *Scene) IsNodeClassRegistered(class string) bool {
	_, has := sc.classes[class]
	return has
}

// RegisteredClasses returns the registered class names in registration order.
func (sc *Scene) RegisteredClasses() []string {
	return slices.Clone(sc.classOrder)
}

// ClassNameByTag returns the class registered for the given element tag, or "".
func (sc *Scene) ClassNameByTag(tag string) string {
	return sc.tags[tag]
}

// CreateNodeByClass returns a new initialized node of the given class,
// which is not added to the scene. It returns nil and logs a warning
// if the class is not registered.
func (sc *Scene) CreateNodeByClass(class string) Node {
	proto, ok := sc.classes[class]
	if !ok {
		slog.Warn("scene.Scene.CreateNodeByClass: class is not registered", "class", class)
		return nil
	}
	n := proto.New()
	InitNode(n)
	return n
}

// CreateNodeByTag returns a new initialized node of the class registered
// for the given element tag, or nil if there is none.
func (sc *Scene) CreateNodeByTag(tag string) Node {
	class, ok := sc.tags[tag]
	if !ok {
		slog.Warn("scene.Scene.CreateNodeByTag: no class registered for tag", "tag", tag)
		return nil
	}
	return sc.CreateNodeByClass(class)
}

// AddNewNodeByClass creates a node of the given class with the given
// name and adds it to the scene, returning the node in the scene or nil.
func (sc *Scene) AddNewNodeByClass(class, name string) Node {
	n := sc.CreateNodeByClass(class)
	if n == nil {
		return nil
	}
	n.AsNode().Name = name
	return sc.AddNode(n)
}

// CopyNode adds a copy of the given node to the scene, with a new ID,
// and returns the copy in the scene or nil.
func (sc *Scene) CopyNode(n Node) Node {
	if n == nil {
		return nil
	}
	c := sc.CreateNodeByClass(n.ClassName())
	if c == nil {
		return nil
	}
	c.AsNode().Copy(n)
	return sc.AddNode(c)
}

// AddNode adds the given node to the scene and returns the node that is
// in the scene afterwards.
//
// A node without an ID, or with an ID that is already used, gets the
// smallest unused ID of the form <ClassName><N>. A singleton node gets
// the ID <ClassName>Singleton or <ClassName><Tag>; if a singleton with
// that ID is already in the scene, it adopts the content of the given
// node, which is not added, and the existing singleton is returned.
//
// The references of the node resolve to the nodes of the scene, and the
// references of other nodes to the node resolve, with the corresponding
// [Node.OnReferenceAdded] calls. Then [EventNodeAdded] is emitted.
func (sc *Scene) AddNode(n Node) Node {
	if n == nil {
		return nil
	}
	InitNode(n)
	nb := n.AsNode()
	if nb.scene == sc {
		return n
	}
	if nb.scene != nil {
		slog.Error("scene.Scene.AddNode: node is already in another scene", "id", nb.ID)
		return nil
	}
	class := n.ClassName()
	if nb.SingletonTag != "" {
		id := SingletonID(class, nb.SingletonTag)
		if existing := sc.nodes[id]; existing != nil {
			existing.AsNode().Copy(n)
			return existing
		}
		nb.ID = id
	} else if nb.ID == "" {
		nb.ID = sc.GenerateUniqueID(class)
	} else if sc.nodes[nb.ID] != nil {
		id := sc.GenerateUniqueID(class)
		slog.Info("scene.Scene.AddNode: node ID is already in use", "id", nb.ID, "newID", id)
		nb.ID = id
	}
	if nb.Name == "" {
		nb.Name = sc.GenerateUniqueName(n.TagName())
	}

	sc.nodes[nb.ID] = n
	sc.order = append(sc.order, n)
	nb.scene = sc

	for _, role := range nb.ReferenceRoles() {
		for _, ref := range nb.NodeReferences(role) {
			nb.indexReference(ref)
			ref.target = nil
			nb.notifyReference(ref, nil)
		}
	}
	for _, ref := range slices.Clone(sc.referrers[nb.ID]) {
		rb := ref.Node.AsNode()
		if rb == nb || ref.target != nil {
			continue
		}
		rb.notifyReference(ref, nil)
	}
	sc.Listeners.Call(n, EventNodeAdded, nil)
	return n
}

// RemoveNode removes the given node from the scene. [EventNodeAboutToBeRemoved]
// is emitted first. Every reference of other nodes to the node is removed,
// with the corresponding [Node.OnReferenceRemoved] calls, and the references
// of the node stop resolving. Then [EventNodeRemoved] is emitted.
func (sc *Scene) RemoveNode(n Node) {
	if n == nil {
		return
	}
	nb := n.AsNode()
	if nb.scene != sc {
		slog.Warn("scene.Scene.RemoveNode: node is not in the scene", "id", nb.ID)
		return
	}
	sc.Listeners.Call(n, EventNodeAboutToBeRemoved, nil)

	var referrers []*NodeBase
	for _, ref := range sc.referrers[nb.ID] {
		if rb := ref.Node.AsNode(); rb != nb && !slices.Contains(referrers, rb) {
			referrers = append(referrers, rb)
		}
	}
	for _, rb := range referrers {
		rb.UpdateReferenceID(nb.ID, "")
	}
	for _, role := range nb.ReferenceRoles() {
		for _, ref := range nb.NodeReferences(role) {
			nb.unindexReference(ref)
			ref.target = nil
		}
	}

	delete(sc.nodes, nb.ID)
	sc.order = slices.DeleteFunc(sc.order, func(o Node) bool { return o == n })
	nb.scene = nil
	sc.freeID(n.ClassName(), nb.ID)
	sc.Listeners.Call(n, EventNodeRemoved, nil)
}

// NodeByID returns the node with the given ID, or nil.
func (sc *Scene) NodeByID(id string) Node {
	return sc.nodes[id]
}

// Nodes returns all nodes in insertion order.
func (sc *Scene) Nodes() []Node {
	return slices.Clone(sc.order)
}

// NumNodes returns the number of nodes in the scene.
func (sc *Scene) NumNodes() int {
	return len(sc.order)
}

// NodesByClass returns the nodes of the given class in insertion order.
func (sc *Scene) NodesByClass(class string) []Node {
	var nodes []Node
	for _, n := range sc.order {
		if n.ClassName() == class {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// FirstNodeByClass returns the first node of the given class, or nil.
func (sc *Scene) FirstNodeByClass(class string) Node {
	for _, n := range sc.order {
		if n.ClassName() == class {
			return n
		}
	}
	return nil
}

// NodesByName returns the nodes with the given name in insertion order.
func (sc *Scene) NodesByName(name string) []Node {
	var nodes []Node
	for _, n := range sc.order {
		if n.AsNode().Name == name {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// FirstNodeByName returns the first node with the given name, or nil.
func (sc *Scene) FirstNodeByName(name string) Node {
	for _, n := range sc.order {
		if n.AsNode().Name == name {
			return n
		}
	}
	return nil
}

// NodesOf returns the nodes of the scene of type T in insertion order.
func NodesOf[T Node](sc *Scene) []T {
	var nodes []T
	for _, n := range sc.order {
		if t, ok := n.(T); ok {
			nodes = append(nodes, t)
		}
	}
	return nodes
}

// SingletonNode returns the singleton of the given class with the given tag, or nil.
func (sc *Scene) SingletonNode(tag, class string) Node {
	return sc.nodes[SingletonID(class, tag)]
}

// SingletonID returns the fixed ID of the singleton of the given class
// with the given tag.
func SingletonID(class, tag string) string {
	return class + tag
}

// GenerateUniqueID returns the smallest unused ID of the form <class><N>,
// with N starting at 1.
func (sc *Scene) GenerateUniqueID(class string) string {
	return sc.generateUniqueID(class, nil)
}

// generateUniqueID is [Scene.GenerateUniqueID] also avoiding the given IDs.
func (sc *Scene) generateUniqueID(class string, avoid map[string]bool) string {
	hint := max(sc.idHints[class], 1)
	gap := 0
	for i := hint; ; i++ {
		id := class + strconv.Itoa(i)
		if sc.nodes[id] != nil {
			continue
		}
		if gap == 0 {
			gap = i
		}
		if avoid[id] {
			continue
		}
		sc.idHints[class] = gap
		return id
	}
}

// freeID lowers the ID hint of the class when the given ID is freed.
func (sc *Scene) freeID(class, id string) {
	num, ok := strings.CutPrefix(id, class)
	if !ok {
		return
	}
	i, err := strconv.Atoi(num)
	if err != nil || i < 1 {
		return
	}
	if h, has := sc.idHints[class]; !has || i < h {
		sc.idHints[class] = i
	}
}

// GenerateUniqueName returns a node name based on the given base name
// that no node in the scene uses: the base itself, or base_1, base_2...
func (sc *Scene) GenerateUniqueName(base string) string {
	used := map[string]bool{}
	for _, n := range sc.order {
		used[n.AsNode().Name] = true
	}
	if !used[base] {
		return base
	}
	for i := 1; ; i++ {
		name := base + "_" + strconv.Itoa(i)
		if !used[name] {
			return name
		}
	}
}

// Clear removes all nodes from the scene within [CloseState]. Unless
// removeSingletons is set, singletons stay in the scene, reset to the
// content of a new node of their class.
func (sc *Scene) Clear(removeSingletons bool) {
	sc.StartState(CloseState)
	defer sc.EndState(CloseState)
	for i := len(sc.order) - 1; i >= 0; i-- {
		if i >= len(sc.order) {
			continue
		}
		n := sc.order[i]
		nb := n.AsNode()
		if nb.IsSingleton() && !removeSingletons {
			fresh := n.New()
			InitNode(fresh)
			fresh.AsNode().Name = nb.Name
			nb.Copy(fresh)
			continue
		}
		sc.RemoveNode(n)
	}
}

// relayEvent calls [Node.ProcessEvent] on every node that references the
// given publisher through a role relaying the event, at most once per
// referencing node.
func (sc *Scene) relayEvent(pub Node, ev Event, data any) {
	refs := sc.referrers[pub.AsNode().ID]
	if len(refs) == 0 {
		return
	}
	var done []*NodeBase
	for _, ref := range slices.Clone(refs) {
		if ref.target != pub || !ref.relays(ev) {
			continue
		}
		sub := ref.Node.AsNode()
		if slices.Contains(done, sub) || sub.scene != sc {
			continue
		}
		done = append(done, sub)
		sub.This.ProcessEvent(pub, ev, data)
	}
}

// Referrers returns the nodes that reference the node with the given ID,
// in the order in which the references were made.
func (sc *Scene) Referrers(id string) []Node {
	var nodes []Node
	for _, ref := range sc.referrers[id] {
		if !slices.Contains(nodes, ref.Node) {
			nodes = append(nodes, ref.Node)
		}
	}
	return nodes
}

// DanglingReferences returns the references of nodes in the scene
// whose target ID does not resolve.
func (sc *Scene) DanglingReferences() []*Reference {
	var refs []*Reference
	for _, n := range sc.order {
		nb := n.AsNode()
		for _, role := range nb.ReferenceRoles() {
			for i, ref := range nb.NodeReferences(role) {
				if nb.NthReference(role, i) == nil {
					refs = append(refs, ref)
				}
			}
		}
	}
	return refs
}
