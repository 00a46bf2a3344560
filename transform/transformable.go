// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transform

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/vizscene/base/errors"
	"cogentcore.org/vizscene/scene"
)

// EventTransformModified is emitted by a transformable node when its
// transform to world changes: when its own parent transform reference
// changes, when the matrix of a transform node changes, and once for
// each transform modification of any of its ancestors. The data is the
// node where the modification originated.
const EventTransformModified = scene.EventCustom + 100

func init() {
	scene.SetEventName(EventTransformModified, "TransformModified")
}

const (
	// Role is the name of the reference role to the parent transform.
	Role = "transform"

	// RoleAttribute is the document attribute of [Role].
	RoleAttribute = "transformNodeRef"
)

var (
	// ErrCycle is returned when setting a parent transform would make
	// a node its own ancestor.
	ErrCycle = errors.New("transform: parent transform would create a cycle")

	// ErrNotTransform is returned when the parent transform is not
	// a transform node.
	ErrNotTransform = errors.New("transform: parent is not a transform node")
)

// Transformable is the trait of nodes that can be placed under a
// transform node. Node types implement it by embedding [TransformableBase].
type Transformable interface {
	scene.Node

	// AsTransformable returns the [TransformableBase] of the node.
	AsTransformable() *TransformableBase

	// ApplyTransformMatrix bakes the given matrix into the content
	// of the node.
	ApplyTransformMatrix(m mgl32.Mat4)

	// ApplyTransform bakes the given transform into the content of the
	// node, returning false if the node cannot apply it.
	ApplyTransform(t Transform) bool

	// CanApplyNonLinearTransforms returns whether [Transformable.ApplyTransform]
	// supports non-linear transforms.
	CanApplyNonLinearTransforms() bool
}

// TransformNode is the trait of transform nodes, which map the space of
// the nodes under them to the space of their own parent transform.
type TransformNode interface {
	Transformable

	// TransformToParent returns the transform from the space of the
	// nodes under this node to the space of its parent.
	TransformToParent() Transform

	// IsLinear returns whether [TransformNode.TransformToParent] is linear.
	IsLinear() bool
}

// IsTransformable returns whether the given node is transformable.
func IsTransformable(n scene.Node) bool {
	_, ok := n.(Transformable)
	return ok
}

// IsTransformNode returns whether the given node is a transform node.
func IsTransformNode(n scene.Node) bool {
	_, ok := n.(TransformNode)
	return ok
}

// TransformableBase implements [Transformable]. It declares the
// [Role] reference to the parent transform.
type TransformableBase struct {
	scene.NodeBase
}

func (t *TransformableBase) AsTransformable() *TransformableBase {
	return t
}

func (t *TransformableBase) Init() {
	t.NodeBase.Init()
	t.DeclareReferenceRole(Role, RoleAttribute, []scene.Event{EventTransformModified}, scene.TargetIs(IsTransformNode))
}

// ApplyTransformMatrix is the default [Transformable.ApplyTransformMatrix],
// for nodes without content to transform.
func (t *TransformableBase) ApplyTransformMatrix(m mgl32.Mat4) {
	slog.Warn("transform.TransformableBase.ApplyTransformMatrix: node has no content to transform", "id", t.ID, "class", t.This.ClassName())
}

// ApplyTransform applies linear transforms with
// [Transformable.ApplyTransformMatrix] and rejects the others.
func (t *TransformableBase) ApplyTransform(tr Transform) bool {
	m, ok := tr.Matrix()
	if !ok {
		return false
	}
	t.This.(Transformable).ApplyTransformMatrix(m)
	return true
}

func (t *TransformableBase) CanApplyNonLinearTransforms() bool {
	return false
}

// ParentTransform returns the parent transform node, or nil.
func (t *TransformableBase) ParentTransform() TransformNode {
	tn, _ := t.Reference(Role).(TransformNode)
	return tn
}

// ParentTransformID returns the ID of the parent transform, or "".
func (t *TransformableBase) ParentTransformID() string {
	return t.ReferenceID(Role)
}

// SetParentTransform sets the parent transform to the node with the given
// ID, or removes it if the ID is empty. It returns false and leaves the
// node unchanged if that would create a cycle or if the node is not a
// transform node. See [TransformableBase.SetParentTransformErr].
func (t *TransformableBase) SetParentTransform(id string) bool {
	if err := t.SetParentTransformErr(id); err != nil {
		slog.Warn("transform.TransformableBase.SetParentTransform: "+err.Error(), "id", t.ID, "parent", id)
		return false
	}
	return true
}

// SetParentTransformErr is like [TransformableBase.SetParentTransform]
// but returns [ErrCycle] or [ErrNotTransform] on failure. When the node
// with the given ID is not in the scene yet, the reference is set and
// checked when it resolves: a reference that would close a cycle is
// then removed.
func (t *TransformableBase) SetParentTransformErr(id string) error {
	if id == t.ParentTransformID() {
		return nil
	}
	if id == "" {
		t.SetReferenceID(Role, "")
		return nil
	}
	if id == t.ID {
		return fmt.Errorf("%w: %s is the node itself", ErrCycle, id)
	}
	if sc := t.Scene(); sc != nil {
		if cand := sc.NodeByID(id); cand != nil {
			tn, ok := cand.(TransformNode)
			if !ok {
				return fmt.Errorf("%w: %s is a %s", ErrNotTransform, id, cand.ClassName())
			}
			for _, a := range Ancestors(tn) {
				if a.AsNode() == &t.NodeBase {
					return fmt.Errorf("%w: %s is under %s", ErrCycle, id, t.ID)
				}
			}
		}
	}
	t.SetReferenceID(Role, id)
	return nil
}

// Ancestors returns the given transform node followed by its parent
// transform, that parent's parent, and so on. A repeated node is
// logged and ends the chain.
func Ancestors(tn TransformNode) []TransformNode {
	var chain []TransformNode
	for tn != nil {
		for _, a := range chain {
			if a == tn {
				slog.Warn("transform.Ancestors: cycle in transform chain", "id", tn.AsNode().ID)
				return chain
			}
		}
		chain = append(chain, tn)
		tn = tn.AsTransformable().ParentTransform()
	}
	return chain
}

// NodeToWorld returns the transform from the space of the nodes under the
// given transform node to world space. A nil node is the world itself.
func NodeToWorld(tn TransformNode) Transform {
	chain := Ancestors(tn)
	steps := make([]Transform, len(chain))
	for i, a := range chain {
		steps[i] = a.TransformToParent()
	}
	return Compose(steps...)
}

// TransformBetweenNodes returns the transform from the space of the nodes
// under the from node to the space of the nodes under the to node.
// A nil node is the world.
func TransformBetweenNodes(from, to TransformNode) Transform {
	if from == to {
		return Identity()
	}
	return Compose(NodeToWorld(from), NodeToWorld(to).Inverse())
}

// MatrixBetweenNodes returns the matrix of [TransformBetweenNodes],
// or false if it is not linear.
func MatrixBetweenNodes(from, to TransformNode) (mgl32.Mat4, bool) {
	return TransformBetweenNodes(from, to).Matrix()
}

// TransformToWorld returns the transform from the local space of the
// node to world space, composed from its chain of parent transforms.
func (t *TransformableBase) TransformToWorld() Transform {
	return NodeToWorld(t.ParentTransform())
}

// MatrixToWorld returns the matrix of [TransformableBase.TransformToWorld],
// or false if it is not linear.
func (t *TransformableBase) MatrixToWorld() (mgl32.Mat4, bool) {
	return t.TransformToWorld().Matrix()
}

// TransformPointToWorld maps a point from the local space of the node
// to world space.
func (t *TransformableBase) TransformPointToWorld(p mgl32.Vec3) mgl32.Vec3 {
	return t.TransformToWorld().TransformPoint(p)
}

// TransformPointFromWorld maps a point from world space to the local
// space of the node.
func (t *TransformableBase) TransformPointFromWorld(p mgl32.Vec3) mgl32.Vec3 {
	return t.TransformToWorld().Inverse().TransformPoint(p)
}

// HardenTransform bakes the transform to world into the content of the
// node and removes its parent transform, so that the node keeps its
// world pose without depending on the transform. It returns false, with
// the node unchanged, if the transform is not linear and the node cannot
// apply non-linear transforms.
func (t *TransformableBase) HardenTransform() bool {
	if t.ParentTransform() == nil {
		return true
	}
	this := t.This.(Transformable)
	tr := t.TransformToWorld()
	m, linear := tr.Matrix()
	if !linear && !this.CanApplyNonLinearTransforms() {
		slog.Warn("transform.TransformableBase.HardenTransform: node cannot apply non-linear transforms", "id", t.ID, "class", t.This.ClassName())
		return false
	}
	defer t.ModifyScope()()
	if linear {
		this.ApplyTransformMatrix(m)
	} else if !this.ApplyTransform(tr) {
		return false
	}
	t.SetReferenceID(Role, "")
	return true
}

// ProcessEvent relays the transform modifications of the parent transform
// as one [EventTransformModified] of this node, keeping the node where
// the modification originated as the event data.
func (t *TransformableBase) ProcessEvent(caller scene.Node, ev scene.Event, data any) {
	if ev != EventTransformModified {
		return
	}
	if t.Reference(Role) != caller {
		errors.Log(fmt.Errorf("transform.TransformableBase.ProcessEvent: %s got a transform event from %s, which is not its parent transform", t.ID, caller.AsNode().ID))
		return
	}
	if origin, _ := data.(scene.Node); origin == t.This {
		slog.Warn("transform.TransformableBase.ProcessEvent: cycle in transform chain", "id", t.ID)
		return
	}
	t.InvokeCustomModifiedEvent(EventTransformModified, data)
}

func (t *TransformableBase) OnReferenceAdded(ref *scene.Reference) {
	t.NodeBase.OnReferenceAdded(ref)
	if ref.Role == Role && !t.breakCycle(ref) {
		t.InvokeCustomModifiedEvent(EventTransformModified, t.This)
	}
}

func (t *TransformableBase) OnReferenceModified(ref *scene.Reference) {
	t.NodeBase.OnReferenceModified(ref)
	if ref.Role == Role && !t.breakCycle(ref) {
		t.InvokeCustomModifiedEvent(EventTransformModified, t.This)
	}
}

// breakCycle removes the parent transform reference and returns true if
// the node it resolves to has this node among its ancestors. References
// set before their nodes join a scene, or read from a document, are only
// checked here.
func (t *TransformableBase) breakCycle(ref *scene.Reference) bool {
	tn, ok := ref.Target().(TransformNode)
	if !ok {
		return false
	}
	for _, a := range Ancestors(tn) {
		if a.AsNode() == &t.NodeBase {
			slog.Warn("transform.TransformableBase: parent transform would create a cycle, removing it", "id", t.ID, "parent", ref.TargetID)
			t.SetReferenceID(Role, "")
			return true
		}
	}
	return false
}

func (t *TransformableBase) OnReferenceRemoved(ref *scene.Reference) {
	t.NodeBase.OnReferenceRemoved(ref)
	if ref.Role == Role {
		t.InvokeCustomModifiedEvent(EventTransformModified, t.This)
	}
}
