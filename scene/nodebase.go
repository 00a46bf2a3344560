// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"log/slog"
	"reflect"
	"slices"
	"strings"

	"github.com/jinzhu/copier"

	"cogentcore.org/vizscene/base/errors"
)

// NodeBase implements the [Node] interface and provides the core
// functionality of scene nodes. You must use NodeBase as an embedded
// struct in all node types.
//
// All nodes must be initialized with [InitNode] (or [New]) before use,
// which sets the [NodeBase.This] field and calls [Node.Init].
// [Scene.AddNode] initializes nodes that were not initialized.
type NodeBase struct {

	// ID is the unique identifier of the node within its scene.
	// It is assigned by [Scene.AddNode] when empty.
	ID string `copier:"-"`

	// Name is the user-visible name of the node, which does not need
	// to be unique. It defaults to a unique name based on the tag.
	Name string `copier:"-"`

	// SingletonTag marks the node as a singleton when non-empty:
	// a scene holds at most one node of a class for a given tag.
	SingletonTag string `copier:"-"`

	// Description is an optional free-form description of the node.
	Description string `copier:"-"`

	// Attributes are arbitrary string attributes. Use typed fields on
	// a node type embedding NodeBase instead when possible.
	Attributes Attributes `copier:"-"`

	// Selectable is whether the node can be selected by the user.
	Selectable bool `copier:"-"`

	// HideFromEditors is whether the node is hidden in node lists.
	HideFromEditors bool `copier:"-"`

	// SaveWithScene is whether the node is written by [Scene.Commit].
	SaveWithScene bool `copier:"-"`

	// This is the value of this Node as its true underlying type. This allows
	// methods defined on base types to call methods defined on higher-level types.
	This Node `copier:"-" json:"-" xml:"-"`

	// scene is the scene that the node is in, if any.
	scene *Scene

	// listeners are the functions called for the events of this node.
	listeners Listeners

	// roles are the declared reference roles, in declaration order.
	roles []*ReferenceRole

	// refs are the references of the node by role.
	refs map[string][]*Reference

	// refOrder is the order in which roles first got references,
	// used for stable serialization of undeclared roles.
	refOrder []string

	// modifyDepth is the nesting depth of [NodeBase.StartModify].
	modifyDepth int

	// modifiedPending is whether a Modified event was requested
	// inside a modify scope.
	modifiedPending bool

	// pending are the custom events queued inside a modify scope,
	// at most one per kind, in first-queued order.
	pending []pendingEvent

	initialized bool
}

type pendingEvent struct {
	ev   Event
	data any
}

// AsNode returns the [NodeBase] of this Node.
func (n *NodeBase) AsNode() *NodeBase {
	return n
}

// New returns a new NodeBase. Node types must override it.
func (n *NodeBase) New() Node {
	return &NodeBase{}
}

// Init is the default [Node.Init], which does nothing.
func (n *NodeBase) Init() {}

// ClassName returns the Go type name of the node.
func (n *NodeBase) ClassName() string {
	if n.This == nil {
		return "NodeBase"
	}
	return ClassNameOf(n.This)
}

// TagName returns the class name without a trailing "Node".
func (n *NodeBase) TagName() string {
	return TagFromClass(n.This.ClassName())
}

// String returns the ID of the node followed by its name.
func (n *NodeBase) String() string {
	if n == nil || n.This == nil {
		return "nil"
	}
	return n.ID + " (" + n.Name + ")"
}

// Scene returns the scene that the node is in, or nil.
func (n *NodeBase) Scene() *Scene {
	return n.scene
}

// IsSingleton returns whether the node is a singleton.
func (n *NodeBase) IsSingleton() bool {
	return n.SingletonTag != ""
}

// SetName sets the name of the node and emits [EventModified] if it changed.
func (n *NodeBase) SetName(name string) {
	if n.Name == name {
		return
	}
	n.Name = name
	n.Modified()
}

// SetAttribute sets the arbitrary attribute with the given key.
func (n *NodeBase) SetAttribute(key, value string) {
	if v, ok := n.Attributes.ValueTry(key); ok && v == value {
		return
	}
	n.Attributes.Set(key, value)
	n.Modified()
}

// Attribute returns the arbitrary attribute with the given key, or "".
func (n *NodeBase) Attribute(key string) string {
	return n.Attributes.Value(key)
}

// RemoveAttribute removes the arbitrary attribute with the given key.
func (n *NodeBase) RemoveAttribute(key string) {
	if n.Attributes.Delete(key) {
		n.Modified()
	}
}

// On adds a listener for the given event emitted by this node.
func (n *NodeBase) On(ev Event, fn Listener) ListenerID {
	return n.listeners.Add(ev, fn)
}

// Off removes the listener with the given ID.
func (n *NodeBase) Off(id ListenerID) bool {
	return n.listeners.Remove(id)
}

// InvokeEvent emits the given event immediately: the listeners of the
// node are called first, and then the event is relayed to the nodes
// that reference this node through a role that relays the event.
func (n *NodeBase) InvokeEvent(ev Event, data any) {
	n.listeners.Call(n.This, ev, data)
	if n.scene != nil {
		n.scene.relayEvent(n.This, ev, data)
	}
}

// StartModify starts a modify scope, inside which [NodeBase.Modified]
// and [NodeBase.InvokeCustomModifiedEvent] are deferred until the
// matching [NodeBase.EndModify]. Scopes nest. It returns whether the
// node was already inside a modify scope.
func (n *NodeBase) StartModify() bool {
	n.modifyDepth++
	return n.modifyDepth > 1
}

// EndModify ends a modify scope started with [NodeBase.StartModify].
// When the outermost scope ends, the queued custom events are emitted
// in the order they were first queued, followed by a single
// [EventModified] if any modification was requested.
func (n *NodeBase) EndModify() {
	if n.modifyDepth <= 0 {
		errors.Log(errors.New("scene.NodeBase.EndModify: called without a matching StartModify on " + n.ID))
		n.modifyDepth = 0
		return
	}
	n.modifyDepth--
	if n.modifyDepth > 0 {
		return
	}
	// events emitted by the flush may start new scopes
	for len(n.pending) > 0 || n.modifiedPending {
		if len(n.pending) > 0 {
			pe := n.pending[0]
			n.pending = n.pending[1:]
			n.InvokeEvent(pe.ev, pe.data)
			continue
		}
		n.modifiedPending = false
		n.InvokeEvent(EventModified, nil)
	}
	n.pending = nil
}

// ModifyScope starts a modify scope and returns the function that ends
// it, for use with defer:
//
//	defer n.ModifyScope()()
func (n *NodeBase) ModifyScope() func() {
	n.StartModify()
	return n.EndModify
}

// IsModifying returns whether the node is inside a modify scope.
func (n *NodeBase) IsModifying() bool {
	return n.modifyDepth > 0
}

// Modified emits [EventModified], or marks it pending when the node
// is inside a modify scope.
func (n *NodeBase) Modified() {
	if n.modifyDepth > 0 {
		n.modifiedPending = true
		return
	}
	n.InvokeEvent(EventModified, nil)
}

// InvokeCustomModifiedEvent emits the given event, or queues it when the
// node is inside a modify scope. A queued event replaces the data of an
// event of the same kind that is already queued, so that each kind is
// emitted at most once per scope.
func (n *NodeBase) InvokeCustomModifiedEvent(ev Event, data any) {
	if n.modifyDepth <= 0 {
		n.InvokeEvent(ev, data)
		return
	}
	idx := slices.IndexFunc(n.pending, func(pe pendingEvent) bool { return pe.ev == ev })
	if idx >= 0 {
		n.pending[idx].data = data
		return
	}
	n.pending = append(n.pending, pendingEvent{ev: ev, data: data})
}

// ProcessEvent is the default [Node.ProcessEvent], which does nothing.
func (n *NodeBase) ProcessEvent(caller Node, ev Event, data any) {}

// OnReferenceAdded emits [EventReferenceAdded].
func (n *NodeBase) OnReferenceAdded(ref *Reference) {
	n.InvokeEvent(EventReferenceAdded, ref)
}

// OnReferenceModified emits [EventReferenceModified].
func (n *NodeBase) OnReferenceModified(ref *Reference) {
	n.InvokeEvent(EventReferenceModified, ref)
}

// OnReferenceRemoved emits [EventReferenceRemoved].
func (n *NodeBase) OnReferenceRemoved(ref *Reference) {
	n.InvokeEvent(EventReferenceRemoved, ref)
}

// CopyContent copies the fields of the given node into this node using
// [copier], skipping the [NodeBase] state, and emits [EventModified].
// Fields that must not be copied can be tagged with `copier:"-"`.
func (n *NodeBase) CopyContent(from Node) {
	if from == nil || n.This == nil || from == n.This {
		return
	}
	if reflect.TypeOf(from) != reflect.TypeOf(n.This) {
		slog.Warn("scene.NodeBase.CopyContent: copying between different classes", "to", n.This.ClassName(), "from", from.ClassName())
	}
	// copier copies embedded structs as a whole, including NodeBase
	save := *n
	errors.Log(copier.CopyWithOption(n.This, from, copier.Option{DeepCopy: true}))
	*n = save
	n.Modified()
}

// Copy copies everything except the ID and the singleton tag from the
// given node into this node: the content, the name, description,
// attributes and flags, and the reference IDs, role by role.
// It emits at most one [EventModified].
func (n *NodeBase) Copy(from Node) {
	defer n.ModifyScope()()
	n.This.CopyContent(from)
	fb := from.AsNode()
	n.Name = fb.Name
	n.Description = fb.Description
	n.Attributes = fb.Attributes.Clone()
	n.Selectable = fb.Selectable
	n.HideFromEditors = fb.HideFromEditors
	n.SaveWithScene = fb.SaveWithScene
	for _, role := range fb.ReferenceRoles() {
		ids := fb.ReferenceIDs(role)
		for i, id := range ids {
			n.SetNthReferenceID(role, i, id)
		}
		for n.NumReferences(role) > len(ids) {
			n.RemoveNthReferenceID(role, n.NumReferences(role)-1)
		}
	}
	for _, role := range n.ReferenceRoles() {
		if fb.NumReferences(role) == 0 {
			n.RemoveReferenceIDs(role)
		}
	}
	n.Modified()
}

// ReadAttributes sets the base fields and the reference IDs from the
// given attributes. It must be called before the node is added to a scene.
func (n *NodeBase) ReadAttributes(a *Attributes) {
	a.Text("id", &n.ID)
	a.Text("name", &n.Name)
	a.Text("description", &n.Description)
	a.Text("singletonTag", &n.SingletonTag)
	a.Bool("selectable", &n.Selectable)
	a.Bool("hideFromEditors", &n.HideFromEditors)
	a.Bool("saveWithScene", &n.SaveWithScene)
	if s, ok := a.ValueTry("attributes"); ok {
		n.Attributes = parseAttributeList(s)
	}
	for _, role := range n.roles {
		if s, ok := a.ValueTry(role.Attribute); ok {
			n.setReferenceIDs(role.Name, strings.Fields(s))
		}
	}
	if s, ok := a.ValueTry("references"); ok {
		for _, rl := range parseReferenceList(s) {
			if rr := n.referenceRole(rl.role); rr != nil && a.Has(rr.Attribute) {
				continue
			}
			n.setReferenceIDs(rl.role, rl.ids)
		}
	}
}

// WriteAttributes adds the base fields and the reference IDs to the given
// attributes. Declared roles are written to their own attribute, with IDs
// separated by spaces, and undeclared roles to the "references" attribute.
func (n *NodeBase) WriteAttributes(a *Attributes) {
	a.Set("id", n.ID)
	a.Set("name", n.Name)
	if n.Description != "" {
		a.Set("description", n.Description)
	}
	if n.SingletonTag != "" {
		a.Set("singletonTag", n.SingletonTag)
	}
	a.SetBool("selectable", n.Selectable)
	a.SetBool("hideFromEditors", n.HideFromEditors)
	if !n.SaveWithScene {
		a.SetBool("saveWithScene", false)
	}
	if n.Attributes.Len() > 0 {
		a.Set("attributes", formatAttributeList(&n.Attributes))
	}
	for _, role := range n.roles {
		if ids := n.ReferenceIDs(role.Name); len(ids) > 0 {
			a.Set(role.Attribute, strings.Join(ids, " "))
		}
	}
	var generic strings.Builder
	for _, role := range n.refOrder {
		if n.referenceRole(role) != nil {
			continue
		}
		ids := n.ReferenceIDs(role)
		if len(ids) == 0 {
			continue
		}
		generic.WriteString(role + ":" + strings.Join(ids, " ") + ";")
	}
	if generic.Len() > 0 {
		a.Set("references", generic.String())
	}
}

// Escaping of the delimiters of attribute lists.
var (
	attributeListEscaper   = strings.NewReplacer("%", "%25", ";", "%3B", ":", "%3A")
	attributeListUnescaper = strings.NewReplacer("%3B", ";", "%3A", ":", "%25", "%")
)

// formatAttributeList formats arbitrary attributes as "key:value;" pairs,
// with the delimiters in keys and values percent-escaped.
func formatAttributeList(a *Attributes) string {
	var b strings.Builder
	for k, v := range a.All() {
		b.WriteString(attributeListEscaper.Replace(k) + ":" + attributeListEscaper.Replace(v) + ";")
	}
	return b.String()
}

func parseAttributeList(s string) Attributes {
	var a Attributes
	for _, kv := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(kv, ":")
		if !ok || k == "" {
			continue
		}
		a.Set(attributeListUnescaper.Replace(k), attributeListUnescaper.Replace(v))
	}
	return a
}

type roleIDs struct {
	role string
	ids  []string
}

// parseReferenceList parses "role:id1 id2;role2:id3;" in order.
func parseReferenceList(s string) []roleIDs {
	var refs []roleIDs
	for _, rl := range strings.Split(s, ";") {
		role, ids, ok := strings.Cut(rl, ":")
		role = strings.TrimSpace(role)
		if !ok || role == "" {
			continue
		}
		refs = append(refs, roleIDs{role: role, ids: strings.Fields(ids)})
	}
	return refs
}
