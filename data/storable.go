// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"path/filepath"

	"cogentcore.org/vizscene/scene"
	"cogentcore.org/vizscene/transform"
)

// Storable is the trait of nodes whose content can be stored by a
// [Storage] node.
type Storable interface {
	transform.Transformable

	// AsStorable returns the [StorableBase] of the node.
	AsStorable() *StorableBase
}

// IsStorable returns whether the given node is storable.
func IsStorable(n scene.Node) bool {
	_, ok := n.(Storable)
	return ok
}

// StorableBase implements [Storable]. It declares the [StorageRole]
// reference to the storage node.
type StorableBase struct {
	transform.TransformableBase
}

func (s *StorableBase) AsStorable() *StorableBase { return s }

func (s *StorableBase) Init() {
	s.TransformableBase.Init()
	s.DeclareReferenceRole(StorageRole, "storageNodeRef", nil, scene.TargetIs(IsStorage))
}

// StorageNode returns the storage node, or nil.
func (s *StorableBase) StorageNode() Storage {
	st, _ := s.Reference(StorageRole).(Storage)
	return st
}

// SetStorageNodeID sets the storage node.
func (s *StorableBase) SetStorageNodeID(id string) {
	s.SetReferenceID(StorageRole, id)
}

// Storage is the trait of storage nodes.
type Storage interface {
	scene.Node

	// AsStorage returns the [StorageNode] of the node.
	AsStorage() *StorageNode
}

// IsStorage returns whether the given node is a storage node.
func IsStorage(n scene.Node) bool {
	_, ok := n.(Storage)
	return ok
}

// StorageNode describes where the content of storable nodes is stored.
type StorageNode struct {
	scene.NodeBase

	// FileName is the file that the content is stored in.
	FileName string

	// URI is the remote location of the content, if any.
	URI string

	// UseCompression is whether the content is written compressed.
	UseCompression bool
}

func (s *StorageNode) New() scene.Node { return &StorageNode{} }

func (s *StorageNode) AsStorage() *StorageNode { return s }

func (s *StorageNode) Init() {
	s.NodeBase.Init()
	s.UseCompression = true
}

// SetFileName sets the file name, emitting [scene.EventModified].
func (s *StorageNode) SetFileName(fn string) {
	if s.FileName == fn {
		return
	}
	s.FileName = fn
	s.Modified()
}

// Extension returns the extension of the file name.
func (s *StorageNode) Extension() string {
	return filepath.Ext(s.FileName)
}

// Storables returns the storable nodes stored by this node.
func (s *StorageNode) Storables() []Storable {
	sc := s.Scene()
	if sc == nil {
		return nil
	}
	var ss []Storable
	for _, n := range sc.Referrers(s.ID) {
		if st, ok := n.(Storable); ok && st.AsNode().Reference(StorageRole) == s.This {
			ss = append(ss, st)
		}
	}
	return ss
}

func (s *StorageNode) ReadAttributes(a *scene.Attributes) {
	s.NodeBase.ReadAttributes(a)
	a.Text("fileName", &s.FileName)
	a.Text("uri", &s.URI)
	a.Bool("useCompression", &s.UseCompression)
}

func (s *StorageNode) WriteAttributes(a *scene.Attributes) {
	s.NodeBase.WriteAttributes(a)
	a.Set("fileName", s.FileName)
	if s.URI != "" {
		a.Set("uri", s.URI)
	}
	a.SetBool("useCompression", s.UseCompression)
}
