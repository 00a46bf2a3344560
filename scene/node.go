// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene provides the core scene graph: uniquely identified,
// typed nodes owned by a [Scene] registry and connected to each other
// by named, ID-based references.
//
// Nodes never hold owning pointers to other nodes. Every cross-node link
// is a [Reference] that stores the target ID and caches the resolved
// node only while both nodes are in the same scene, so stale IDs resolve
// to nil rather than to a dangling node. Events emitted by a node are
// relayed to every node that references it through a role that declares
// the event, using the subscription table kept by the scene.
//
// All operations are single-threaded: the scene and its nodes must only
// be used from one goroutine at a time.
package scene

import (
	"reflect"
	"strings"
)

// Node is an interface that all scene nodes satisfy. The core
// functionality is implemented by [NodeBase], which must be embedded
// (directly or through another base type) in every node type.
// Node types typically override [Node.Init] to declare their reference
// roles and set field defaults, and [Node.ReadAttributes] and
// [Node.WriteAttributes] to serialize their own fields.
type Node interface {

	// AsNode returns the [NodeBase] of this Node.
	AsNode() *NodeBase

	// New returns a new, uninitialized node of the same type.
	// It is used by the class factory of the [Scene].
	New() Node

	// Init is called exactly once when the node is initialized by [InitNode].
	// It is where reference roles are declared and defaults are set.
	// Any overriding method must call the Init method of its embedded base.
	Init()

	// ClassName returns the name of the node class, which is the prefix
	// of automatically generated IDs. It defaults to the Go type name.
	ClassName() string

	// TagName returns the element tag used in scene documents.
	// It defaults to the class name without a trailing "Node".
	TagName() string

	// ReadAttributes sets the fields of the node from the given attributes.
	// Overriding methods must call the ReadAttributes method of their base.
	ReadAttributes(a *Attributes)

	// WriteAttributes adds the fields of the node to the given attributes.
	// Overriding methods must call the WriteAttributes method of their base.
	WriteAttributes(a *Attributes)

	// CopyContent copies the content of the given node of the same type
	// into this node, without changing its ID, name or references.
	CopyContent(from Node)

	// OnReferenceAdded is called when a reference of this node gets
	// resolved to a node, either because its ID was set to a node in
	// the scene or because the target was added to the scene.
	OnReferenceAdded(ref *Reference)

	// OnReferenceModified is called when a resolved reference of this node
	// changes from one node to another.
	OnReferenceModified(ref *Reference)

	// OnReferenceRemoved is called when a resolved reference of this node
	// stops resolving, either because its ID was cleared or because the
	// target was removed from the scene. ref.Target returns the node
	// that was referenced.
	OnReferenceRemoved(ref *Reference)

	// ProcessEvent is called when a node referenced by this node
	// emits an event that the reference role relays.
	ProcessEvent(caller Node, ev Event, data any)
}

// InitNode initializes the given node, setting its [NodeBase.This] field
// and calling [Node.Init]. It does nothing if the node is already
// initialized. All constructors must call it, and [Scene.AddNode] calls
// it for nodes that were not initialized.
func InitNode(n Node) {
	nb := n.AsNode()
	if nb.initialized {
		return
	}
	nb.This = n
	nb.initialized = true
	nb.Selectable = true
	nb.SaveWithScene = true
	n.Init()
}

// New returns a new initialized node of the given type.
func New[T any, PT interface {
	*T
	Node
}]() *T {
	n := PT(new(T))
	InitNode(n)
	return (*T)(n)
}

// ClassNameOf returns the default class name of the given node,
// which is the name of its underlying Go type.
func ClassNameOf(n Node) string {
	t := reflect.TypeOf(n)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// TagFromClass returns the default element tag for the given class name.
func TagFromClass(class string) string {
	tag := strings.TrimSuffix(class, "Node")
	if tag == "" {
		return class
	}
	return tag
}
