// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fdt

import (
	"fmt"
	"strings"

	"git.lukeshu.com/go/fdt/internal/setutil"
)

// Reservation is a single memory-reservation-map entry (§3): a physical
// address range the kernel must not allocate over.
type Reservation struct {
	Address uint64
	Size    uint64
}

// Tree is the in-memory model of a flattened device tree (§3): a header, an
// ordered sequence of memory reservations, and a root Node named "/".
type Tree struct {
	Header       Header
	Reservations []Reservation
	Root         *Node
}

// NewTree returns an empty Tree: no header version, no reservations, and a
// root node with no children or properties.
func NewTree() *Tree {
	return &Tree{Root: NewNode("/")}
}

// Empty reports whether the tree's root has no properties and no children.
func (t *Tree) Empty() bool {
	return len(t.Root.Props) == 0 && len(t.Root.Children) == 0
}

// Info returns a one-line-per-node human-readable summary, matching the
// original implementation's FDT.info()/__str__.
func (t *Tree) Info() string {
	var b strings.Builder
	b.WriteString("FDT Content:\n")
	for _, rec := range t.Walk("", false) {
		fmt.Fprintf(&b, "%s [%dN, %dP]\n", rec.Path, len(rec.Children), len(rec.Props))
	}
	return b.String()
}

// splitPath splits a "/"-rooted path into its non-empty components.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// GetNode returns the node at path. With create=false, a missing
// intermediate or final component fails with ErrNotFound. With create=true,
// missing nodes are created along the way.
func (t *Tree) GetNode(path string, create bool) (*Node, error) {
	node := t.Root
	for _, name := range splitPath(path) {
		child, ok := node.GetSubnode(name)
		if !ok {
			if !create {
				return nil, &PathError{Op: "GetNode", Path: path, Err: ErrNotFound}
			}
			child = NewNode(name)
			node.AppendNode(child)
		}
		node = child
	}
	return node, nil
}

// GetProperty returns the named property of the node at path.
func (t *Tree) GetProperty(name, path string) (Property, error) {
	node, err := t.GetNode(path, false)
	if err != nil {
		return nil, err
	}
	prop, ok := node.GetProperty(name)
	if !ok {
		return nil, &PathError{Op: "GetProperty", Path: path, Err: fmt.Errorf("property %q: %w", name, ErrNotFound)}
	}
	return prop, nil
}

// SetProperty sets (last-write-wins) the named property on the node at
// path.
func (t *Tree) SetProperty(prop Property, path string) error {
	node, err := t.GetNode(path, false)
	if err != nil {
		return err
	}
	node.SetProperty(prop)
	return nil
}

// ExistNode reports whether path resolves to a node, converting a
// not-found error to false per the §7 error policy.
func (t *Tree) ExistNode(path string) bool {
	_, err := t.GetNode(path, false)
	return err == nil
}

// ExistProperty reports whether the named property exists at path.
func (t *Tree) ExistProperty(name, path string) bool {
	node, err := t.GetNode(path, false)
	if err != nil {
		return false
	}
	_, ok := node.GetProperty(name)
	return ok
}

// RemoveNode removes the child named name from the node at path.
func (t *Tree) RemoveNode(name, path string) error {
	node, err := t.GetNode(path, false)
	if err != nil {
		return err
	}
	return node.RemoveSubnode(name)
}

// RemoveProperty removes the named property from the node at path.
func (t *Tree) RemoveProperty(name, path string) error {
	node, err := t.GetNode(path, false)
	if err != nil {
		return err
	}
	return node.RemoveProperty(name)
}

// AddItem appends a node or property at path, creating intermediate nodes
// when create is true.
func (t *Tree) AddItem(item any, path string, create bool) error {
	node, err := t.GetNode(path, create)
	if err != nil {
		return err
	}
	return node.Append(item)
}

// ItemKind selects which kind of item Search collects.
type ItemKind int

const (
	KindNode ItemKind = iota
	KindProp
	KindBoth
)

// WalkEntry is one entry of a pre-order tree walk: the node's path, its
// direct children, and its direct properties.
type WalkEntry struct {
	Path     string
	Children []*Node
	Props    []Property
}

// Walk returns a depth-first pre-order traversal of the subtree rooted at
// path. With relative=true, returned paths are relative to that subtree's
// root instead of absolute from the tree root.
func (t *Tree) Walk(path string, relative bool) []WalkEntry {
	start, err := t.GetNode(path, false)
	if err != nil {
		return nil
	}
	var entries []WalkEntry
	var visit func(n *Node)
	visit = func(n *Node) {
		p := n.Path()
		if relative {
			p = relativeTo(start.Path(), p)
		}
		entries = append(entries, WalkEntry{Path: p, Children: n.Children, Props: n.Props})
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(start)
	return entries
}

func relativeTo(base, p string) string {
	if base == "/" {
		return strings.TrimPrefix(p, "/")
	}
	rel := strings.TrimPrefix(p, base)
	return strings.TrimPrefix(rel, "/")
}

// Search collects, in insertion (pre-order) order, every node and/or
// property named name within the subtree rooted at path.
func (t *Tree) Search(name string, kind ItemKind, path string) []any {
	start, err := t.GetNode(path, false)
	if err != nil {
		return nil
	}
	var items []any
	var visit func(n *Node)
	visit = func(n *Node) {
		if kind == KindNode || kind == KindBoth {
			if n.Name == name {
				items = append(items, n)
			}
		}
		if kind == KindProp || kind == KindBoth {
			for _, p := range n.Props {
				if p.Name() == name {
					items = append(items, p)
				}
			}
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(start)
	return items
}

// Merge folds other into t: the header version becomes the max of the two
// (when both are set), reservations are unioned idempotently by
// (address,size) — the original implementation's merge mutates an existing
// entry's address in place on an address match, which looks like a bug;
// this is the union semantics the spec prefers instead (§9) — and the root
// node is merged per Node.Merge.
func (t *Tree) Merge(other *Tree, replace bool) {
	switch {
	case t.Header.Version == nil:
		t.Header = other.Header
	case other.Header.Version != nil && *other.Header.Version > *t.Header.Version:
		t.Header.Version = other.Header.Version
	}
	have := setutil.NewSet(t.Reservations...)
	for _, in := range other.Reservations {
		if !have.Has(in) {
			have.Add(in)
			t.Reservations = append(t.Reservations, in)
		}
	}
	t.Root.Merge(other.Root, replace)
}

// childNameSet collects n's direct children's names into a set, for
// constant-time presence checks in Diff's per-level comparison.
func childNameSet(n *Node) setutil.Set[string] {
	names := make(setutil.Set[string], len(n.Children))
	for _, c := range n.Children {
		names.Add(c.Name)
	}
	return names
}

// Diff structurally compares a and b (§4.I, §9): same holds everything
// structurally identical between the two (using the higher of the two
// header versions when both are present); onlyA and onlyB hold what's
// unique to each side. Node presence is classified per level: a child that
// exists only on one side is added there as a new node of the same name,
// and because the walk continues into that child, its properties and
// descendants are copied to the same side as well. Matched nodes are
// compared property by property.
func Diff(a, b *Tree) (same, onlyA, onlyB *Tree) {
	same = &Tree{Root: NewNode("/")}
	onlyA = &Tree{Header: a.Header, Root: NewNode("/")}
	onlyB = &Tree{Header: b.Header, Root: NewNode("/")}

	switch {
	case a.Header.Version != nil && b.Header.Version != nil:
		if *a.Header.Version > *b.Header.Version {
			same.Header = a.Header
		} else {
			same.Header = b.Header
		}
	case a.Header.Version != nil:
		same.Header = a.Header
	default:
		same.Header = b.Header
	}

	bReservations := setutil.NewSet(b.Reservations...)
	sameReservations := setutil.Set[Reservation]{}
	for _, ea := range a.Reservations {
		if bReservations.Has(ea) {
			same.Reservations = append(same.Reservations, ea)
			sameReservations.Add(ea)
		}
	}
	for _, ea := range a.Reservations {
		if !sameReservations.Has(ea) {
			onlyA.Reservations = append(onlyA.Reservations, ea)
		}
	}
	for _, eb := range b.Reservations {
		if !sameReservations.Has(eb) {
			onlyB.Reservations = append(onlyB.Reservations, eb)
		}
	}

	for _, rec := range a.Walk("", false) {
		rnode, err := b.GetNode(rec.Path, false)
		var bnode *Node
		if err == nil {
			bnode = rnode
		}
		var bnodeChildNames setutil.Set[string]
		if bnode != nil {
			bnodeChildNames = childNameSet(bnode)
		}
		for _, child := range rec.Children {
			if bnodeChildNames.Has(child.Name) {
				_ = same.AddItem(NewNode(child.Name), rec.Path, true)
			} else {
				_ = onlyA.AddItem(NewNode(child.Name), rec.Path, true)
			}
		}
		for _, prop := range rec.Props {
			if bnode != nil {
				if bp, ok := bnode.GetProperty(prop.Name()); ok && bp.Equal(prop) {
					_ = same.AddItem(prop.Clone(), rec.Path, true)
					continue
				}
			}
			_ = onlyA.AddItem(prop.Clone(), rec.Path, true)
		}
	}

	for _, rec := range b.Walk("", false) {
		snode, err := same.GetNode(rec.Path, false)
		var sbnode *Node
		if err == nil {
			sbnode = snode
		}
		var sbnodeChildNames setutil.Set[string]
		if sbnode != nil {
			sbnodeChildNames = childNameSet(sbnode)
		}
		for _, child := range rec.Children {
			if !sbnodeChildNames.Has(child.Name) {
				_ = onlyB.AddItem(NewNode(child.Name), rec.Path, true)
			}
		}
		for _, prop := range rec.Props {
			if sbnode == nil {
				_ = onlyB.AddItem(prop.Clone(), rec.Path, true)
				continue
			}
			if sp, ok := sbnode.GetProperty(prop.Name()); !ok || !sp.Equal(prop) {
				_ = onlyB.AddItem(prop.Clone(), rec.Path, true)
			}
		}
	}

	return same, onlyA, onlyB
}
