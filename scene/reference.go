// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"log/slog"
	"slices"
)

// ReferenceRole describes a named slot through which a node refers to
// other nodes by ID. Roles are declared in [Node.Init] with
// [NodeBase.DeclareReferenceRole]; references in undeclared roles are
// also allowed and relay no events.
type ReferenceRole struct {

	// Name is the name of the role.
	Name string

	// Attribute is the name of the document attribute that stores
	// the IDs of the role.
	Attribute string

	// Events are the events of referenced nodes that are relayed to
	// the referencing node through [Node.ProcessEvent].
	Events []Event

	// Multiple is whether the role can hold more than one reference.
	Multiple bool

	// Accept, if set, restricts the nodes that a reference can resolve to.
	// A reference to a node that is not accepted does not resolve.
	Accept func(n Node) bool
}

// RoleOption is an option for [NodeBase.DeclareReferenceRole].
type RoleOption func(r *ReferenceRole)

// Multiple makes a role multi-valued.
func Multiple() RoleOption {
	return func(r *ReferenceRole) { r.Multiple = true }
}

// TargetClass restricts a role to nodes of the given class.
func TargetClass(class string) RoleOption {
	return func(r *ReferenceRole) {
		r.Accept = func(n Node) bool { return n.ClassName() == class }
	}
}

// TargetIs restricts a role to nodes for which the given function
// returns true.
func TargetIs(fn func(n Node) bool) RoleOption {
	return func(r *ReferenceRole) { r.Accept = fn }
}

// Reference is one reference of a node to another node, by ID.
// The resolved target is cached while both nodes are in the same scene.
type Reference struct {

	// Node is the referencing node.
	Node Node

	// Role is the name of the reference role.
	Role string

	// TargetID is the ID of the referenced node.
	TargetID string

	// target is the resolved referenced node, or nil.
	target Node

	// indexed is whether the reference is in the subscription
	// table of the scene of the referencing node.
	indexed bool
}

// Target returns the resolved referenced node, or nil if the reference
// does not resolve. Within [Node.OnReferenceRemoved] it returns the node
// that was referenced.
func (r *Reference) Target() Node {
	return r.target
}

// Events returns the events relayed through this reference.
func (r *Reference) Events() []Event {
	if rr := r.Node.AsNode().referenceRole(r.Role); rr != nil {
		return rr.Events
	}
	return nil
}

func (r *Reference) relays(ev Event) bool {
	return slices.Contains(r.Events(), ev)
}

// DeclareReferenceRole declares the reference role with the given name,
// document attribute and relayed events. It must be called in [Node.Init].
// Declaring a role again replaces the declaration.
func (n *NodeBase) DeclareReferenceRole(role, attribute string, events []Event, opts ...RoleOption) *ReferenceRole {
	rr := &ReferenceRole{Name: role, Attribute: attribute, Events: events}
	for _, opt := range opts {
		opt(rr)
	}
	if idx := slices.IndexFunc(n.roles, func(r *ReferenceRole) bool { return r.Name == role }); idx >= 0 {
		n.roles[idx] = rr
	} else {
		n.roles = append(n.roles, rr)
	}
	return rr
}

// referenceRole returns the declared role with the given name, or nil.
func (n *NodeBase) referenceRole(role string) *ReferenceRole {
	for _, rr := range n.roles {
		if rr.Name == role {
			return rr
		}
	}
	return nil
}

// DeclaredRoles returns the declared reference roles.
func (n *NodeBase) DeclaredRoles() []*ReferenceRole {
	return n.roles
}

// ReferenceRoles returns the names of the roles that currently hold
// references, declared roles first.
func (n *NodeBase) ReferenceRoles() []string {
	var roles []string
	for _, rr := range n.roles {
		if len(n.refs[rr.Name]) > 0 {
			roles = append(roles, rr.Name)
		}
	}
	for _, role := range n.refOrder {
		if n.referenceRole(role) == nil && len(n.refs[role]) > 0 {
			roles = append(roles, role)
		}
	}
	return roles
}

// SetReferenceID sets the first (and for single-valued roles, only)
// reference of the given role to the given ID. An empty ID removes the
// reference. Setting the current ID again does nothing.
func (n *NodeBase) SetReferenceID(role, id string) *Reference {
	return n.SetNthReferenceID(role, 0, id)
}

// SetNthReferenceID sets the reference at the given index of the given
// role to the given ID, appending it when the index is past the end.
// An empty ID removes the reference. Setting the current ID again does
// nothing. If the node is in a scene and the ID resolves, the reference
// resolves immediately; otherwise it resolves when both nodes are in the
// same scene. The reference callbacks are called for the resulting
// change of resolved target, and [EventModified] is emitted.
func (n *NodeBase) SetNthReferenceID(role string, idx int, id string) *Reference {
	if id == "" {
		n.RemoveNthReferenceID(role, idx)
		return nil
	}
	if idx < 0 {
		slog.Warn("scene.NodeBase.SetNthReferenceID: negative index", "node", n.ID, "role", role)
		return nil
	}
	if rr := n.referenceRole(role); rr != nil && !rr.Multiple && idx > 0 {
		slog.Warn("scene.NodeBase.SetNthReferenceID: role is single-valued, setting the first reference", "node", n.ID, "role", role, "index", idx)
		idx = 0
	}
	refs := n.refs[role]
	if idx < len(refs) {
		ref := refs[idx]
		if ref.TargetID == id {
			return ref
		}
		old := ref.target
		n.unindexReference(ref)
		ref.TargetID = id
		n.indexReference(ref)
		n.notifyReference(ref, old)
		n.Modified()
		return ref
	}
	ref := &Reference{Node: n.This, Role: role, TargetID: id}
	n.appendReference(ref)
	n.indexReference(ref)
	n.notifyReference(ref, nil)
	n.Modified()
	return ref
}

// AddReferenceID adds a reference with the given ID to the end of the
// given role. For a single-valued role it sets the reference.
func (n *NodeBase) AddReferenceID(role, id string) *Reference {
	if rr := n.referenceRole(role); rr != nil && !rr.Multiple {
		return n.SetReferenceID(role, id)
	}
	return n.SetNthReferenceID(role, n.NumReferences(role), id)
}

// RemoveNthReferenceID removes the reference at the given index of the
// given role, calling [Node.OnReferenceRemoved] if it was resolved.
func (n *NodeBase) RemoveNthReferenceID(role string, idx int) {
	refs := n.refs[role]
	if idx < 0 || idx >= len(refs) {
		return
	}
	ref := refs[idx]
	n.refs[role] = slices.Delete(slices.Clone(refs), idx, idx+1)
	n.unindexReference(ref)
	old := ref.target
	n.notifyReference(ref, old)
	n.Modified()
}

// RemoveReferenceIDs removes all references of the given role,
// or of all roles if the role is empty.
func (n *NodeBase) RemoveReferenceIDs(role string) {
	if role == "" {
		for _, r := range n.ReferenceRoles() {
			n.RemoveReferenceIDs(r)
		}
		return
	}
	defer n.ModifyScope()()
	for i := n.NumReferences(role) - 1; i >= 0; i-- {
		n.RemoveNthReferenceID(role, i)
	}
}

// ReferenceID returns the ID of the first reference of the given role, or "".
func (n *NodeBase) ReferenceID(role string) string {
	return n.NthReferenceID(role, 0)
}

// NthReferenceID returns the ID of the reference at the given index
// of the given role, or "".
func (n *NodeBase) NthReferenceID(role string, idx int) string {
	refs := n.refs[role]
	if idx < 0 || idx >= len(refs) {
		return ""
	}
	return refs[idx].TargetID
}

// ReferenceIDs returns the IDs of all references of the given role.
func (n *NodeBase) ReferenceIDs(role string) []string {
	refs := n.refs[role]
	ids := make([]string, len(refs))
	for i, r := range refs {
		ids[i] = r.TargetID
	}
	return ids
}

// NumReferences returns the number of references of the given role.
func (n *NodeBase) NumReferences(role string) int {
	return len(n.refs[role])
}

// NodeReferences returns the references of the given role.
func (n *NodeBase) NodeReferences(role string) []*Reference {
	return n.refs[role]
}

// Reference returns the node that the first reference of the given
// role resolves to, or nil.
func (n *NodeBase) Reference(role string) Node {
	return n.NthReference(role, 0)
}

// NthReference returns the node that the reference at the given index
// of the given role resolves to, or nil.
func (n *NodeBase) NthReference(role string, idx int) Node {
	refs := n.refs[role]
	if idx < 0 || idx >= len(refs) {
		return nil
	}
	ref := refs[idx]
	if ref.target != nil && ref.target.AsNode().scene != n.scene {
		// the target left the scene without the subscription sweep
		ref.target = nil
	}
	return ref.target
}

// References returns the resolved nodes of all references of the given role,
// skipping references that do not resolve.
func (n *NodeBase) References(role string) []Node {
	var nodes []Node
	for i := range n.refs[role] {
		if t := n.NthReference(role, i); t != nil {
			nodes = append(nodes, t)
		}
	}
	return nodes
}

// HasReference returns whether any role references the given ID.
func (n *NodeBase) HasReference(id string) bool {
	for _, refs := range n.refs {
		for _, r := range refs {
			if r.TargetID == id {
				return true
			}
		}
	}
	return false
}

// UpdateReferenceID changes every reference to oldID into a reference
// to newID, or removes it if newID is empty.
func (n *NodeBase) UpdateReferenceID(oldID, newID string) {
	if oldID == newID {
		return
	}
	defer n.ModifyScope()()
	for _, role := range n.ReferenceRoles() {
		for i := n.NumReferences(role) - 1; i >= 0; i-- {
			if n.NthReferenceID(role, i) == oldID {
				n.SetNthReferenceID(role, i, newID)
			}
		}
	}
}

// remapReferenceIDs changes reference IDs according to the given map,
// in one pass and without notifications. It is used for nodes that are
// not in a scene yet.
func (n *NodeBase) remapReferenceIDs(ids map[string]string) {
	for _, refs := range n.refs {
		for _, r := range refs {
			if nid, ok := ids[r.TargetID]; ok {
				r.TargetID = nid
			}
		}
	}
}

// setReferenceIDs replaces the IDs of the given role without
// notifications, for reading nodes that are not in a scene.
func (n *NodeBase) setReferenceIDs(role string, ids []string) {
	if n.scene != nil {
		n.RemoveReferenceIDs(role)
		for _, id := range ids {
			n.AddReferenceID(role, id)
		}
		return
	}
	if rr := n.referenceRole(role); rr != nil && !rr.Multiple && len(ids) > 1 {
		slog.Warn("scene.NodeBase.ReadAttributes: ignoring extra IDs of single-valued role", "node", n.ID, "role", role, "ids", ids)
		ids = ids[:1]
	}
	delete(n.refs, role)
	for _, id := range ids {
		n.appendReference(&Reference{Node: n.This, Role: role, TargetID: id})
	}
}

func (n *NodeBase) appendReference(ref *Reference) {
	if n.refs == nil {
		n.refs = make(map[string][]*Reference)
	}
	if !slices.Contains(n.refOrder, ref.Role) {
		n.refOrder = append(n.refOrder, ref.Role)
	}
	n.refs[ref.Role] = append(n.refs[ref.Role], ref)
}

// indexReference adds the reference to the subscription table
// of the scene and resolves it, if the node is in a scene.
func (n *NodeBase) indexReference(ref *Reference) {
	if n.scene == nil || ref.indexed {
		return
	}
	n.scene.referrers[ref.TargetID] = append(n.scene.referrers[ref.TargetID], ref)
	ref.indexed = true
	ref.target = n.resolve(ref)
}

// unindexReference removes the reference from the subscription table,
// leaving its resolved target in place for the callbacks.
func (n *NodeBase) unindexReference(ref *Reference) {
	if n.scene == nil || !ref.indexed {
		return
	}
	refs := n.scene.referrers[ref.TargetID]
	refs = slices.DeleteFunc(slices.Clone(refs), func(r *Reference) bool { return r == ref })
	if len(refs) == 0 {
		delete(n.scene.referrers, ref.TargetID)
	} else {
		n.scene.referrers[ref.TargetID] = refs
	}
	ref.indexed = false
}

// resolve returns the node in the scene that the reference resolves to.
func (n *NodeBase) resolve(ref *Reference) Node {
	if n.scene == nil || !ref.indexed {
		return nil
	}
	t := n.scene.NodeByID(ref.TargetID)
	if t == nil {
		return nil
	}
	if rr := n.referenceRole(ref.Role); rr != nil && rr.Accept != nil && !rr.Accept(t) {
		slog.Warn("scene.NodeBase: reference target not accepted by role", "node", n.ID, "role", ref.Role, "target", ref.TargetID, "class", t.ClassName())
		return nil
	}
	return t
}

// notifyReference updates the resolved target of the reference and
// calls the reference callback for the transition from old to the
// new target: nil to a node is added, a node to another is modified,
// and a node to nil is removed.
func (n *NodeBase) notifyReference(ref *Reference, old Node) {
	nt := n.resolve(ref)
	switch {
	case old == nil && nt != nil:
		ref.target = nt
		n.This.OnReferenceAdded(ref)
	case old != nil && nt == nil:
		// Target reports the removed node during the callback
		ref.target = old
		n.This.OnReferenceRemoved(ref)
		ref.target = nil
	case old != nt:
		ref.target = nt
		n.This.OnReferenceModified(ref)
	default:
		ref.target = nt
	}
}
