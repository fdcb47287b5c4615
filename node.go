// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fdt

import (
	"fmt"
	"strings"
)

// Node is an ordered container of child nodes and properties (§3, §4.D).
// Parent is a weak, non-owning back-reference used only to compute a
// node's path and to navigate upward while parsing DTS — the Tree (or a
// parent Node) is the sole owner of its children, so there is no ownership
// cycle (§9 "Parent back-link without cycles").
type Node struct {
	Name     string
	Parent   *Node
	Children []*Node
	Props    []Property
}

// NewNode returns a freshly allocated, parentless, childless node.
func NewNode(name string) *Node {
	return &Node{Name: name}
}

// GetSubnode returns the first child named name.
func (n *Node) GetSubnode(name string) (*Node, bool) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// GetProperty returns the first property named name.
func (n *Node) GetProperty(name string) (Property, bool) {
	for _, p := range n.Props {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// SetProperty overwrites an existing property of the same name
// (last-write-wins), or appends prop if no property by that name exists.
func (n *Node) SetProperty(prop Property) {
	for i, p := range n.Props {
		if p.Name() == prop.Name() {
			n.Props[i] = prop
			return
		}
	}
	n.Props = append(n.Props, prop)
}

// AppendNode adds child as the last child of n, setting child's parent.
func (n *Node) AppendNode(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// AppendProperty adds prop as the last property of n. Unlike SetProperty,
// this does not dedupe by name; it is used by parsers that already know
// the source has unique property names.
func (n *Node) AppendProperty(prop Property) {
	n.Props = append(n.Props, prop)
}

// Append adds a child node or a property to n, dispatching on the dynamic
// type of item (mirroring the duck-typed `append`/`add_item` of §6).
func (n *Node) Append(item any) error {
	switch v := item.(type) {
	case *Node:
		n.AppendNode(v)
	case Property:
		n.AppendProperty(v)
	default:
		return &PathError{Op: "Append", Path: n.Path(),
			Err: fmt.Errorf("%w: %T is neither *Node nor Property", ErrInvalidArgument, item)}
	}
	return nil
}

// RemoveSubnode removes the first child named name. Fails with ErrNotFound.
func (n *Node) RemoveSubnode(name string) error {
	for i, c := range n.Children {
		if c.Name == name {
			c.Parent = nil
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return nil
		}
	}
	return &PathError{Op: "RemoveSubnode", Path: n.Path() + "/" + name, Err: ErrNotFound}
}

// RemoveProperty removes the first property named name. Fails with
// ErrNotFound.
func (n *Node) RemoveProperty(name string) error {
	for i, p := range n.Props {
		if p.Name() == name {
			n.Props = append(n.Props[:i], n.Props[i+1:]...)
			return nil
		}
	}
	return &PathError{Op: "RemoveProperty", Path: n.Path(), Err: fmt.Errorf("property %q: %w", name, ErrNotFound)}
}

// Path returns the "/"-joined ancestor-name path from the root down to n.
func (n *Node) Path() string {
	var parts []string
	for cur := n; cur != nil && cur.Parent != nil; cur = cur.Parent {
		parts = append([]string{cur.Name}, parts...)
	}
	return "/" + strings.Join(parts, "/")
}

// Equal reports whether n and other have the same name and elementwise-equal
// property and child sequences (deep).
func (n *Node) Equal(other *Node) bool {
	if other == nil || n.Name != other.Name {
		return false
	}
	if len(n.Props) != len(other.Props) || len(n.Children) != len(other.Children) {
		return false
	}
	for i := range n.Props {
		if !n.Props[i].Equal(other.Props[i]) {
			return false
		}
	}
	for i := range n.Children {
		if !n.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of n (and its subtree), with Parent unset; the
// caller is responsible for re-attaching it (e.g. via AppendNode).
func (n *Node) Clone() *Node {
	clone := &Node{Name: n.Name}
	for _, p := range n.Props {
		clone.Props = append(clone.Props, p.Clone())
	}
	for _, c := range n.Children {
		clone.AppendNode(c.Clone())
	}
	return clone
}

// Merge folds other into n (§4.D): properties in other overwrite n's
// like-named properties when replace is true, and are otherwise kept as
// n already had them; properties novel to other are appended (cloned).
// Children are merged recursively by like name, or appended (cloned) when
// n has no matching child.
func (n *Node) Merge(other *Node, replace bool) {
	for _, p := range other.Props {
		if existing, ok := n.GetProperty(p.Name()); ok {
			if replace {
				n.SetProperty(p.Clone())
			}
			_ = existing
			continue
		}
		n.AppendProperty(p.Clone())
	}
	for _, oc := range other.Children {
		if nc, ok := n.GetSubnode(oc.Name); ok {
			nc.Merge(oc, replace)
		} else {
			n.AppendNode(oc.Clone())
		}
	}
}
