// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkVersion(v uint32) *uint32 { return &v }

func sampleTree() *Tree {
	t := NewTree()
	t.Header.Version = mkVersion(17)
	t.Reservations = []Reservation{{Address: 0x1000, Size: 0x100}}
	t.Root.AppendProperty(&WordsProp{PropName: "#address-cells", Values: []uint32{1}})
	cpus := NewNode("cpus")
	cpus.AppendProperty(&WordsProp{PropName: "#size-cells", Values: []uint32{0}})
	cpu0 := NewNode("cpu@0")
	cpu0.AppendProperty(&StringsProp{PropName: "device_type", Values: []string{"cpu"}})
	cpus.AppendNode(cpu0)
	t.Root.AppendNode(cpus)
	return t
}

func TestTreeGetNodeCreate(t *testing.T) {
	t.Parallel()
	tree := NewTree()
	n, err := tree.GetNode("/a/b/c", true)
	require.NoError(t, err)
	assert.Equal(t, "/a/b/c", n.Path())

	_, err = tree.GetNode("/a/x", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTreeWalkOrder(t *testing.T) {
	t.Parallel()
	tree := sampleTree()
	entries := tree.Walk("", false)
	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"/", "/cpus", "/cpus/cpu@0"}, paths)
}

func TestTreeWalkRelative(t *testing.T) {
	t.Parallel()
	tree := sampleTree()
	entries := tree.Walk("/cpus", true)
	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"", "cpu@0"}, paths)
}

func TestTreeSearch(t *testing.T) {
	t.Parallel()
	tree := sampleTree()
	found := tree.Search("cpu@0", KindNode, "")
	require.Len(t, found, 1)
	_, ok := found[0].(*Node)
	assert.True(t, ok)
}

// diff(T, T) == (T, empty, empty): a tree diffed against an identical copy
// has everything in `same` and nothing in either `onlyA`/`onlyB` side.
func TestDiffIdentical(t *testing.T) {
	t.Parallel()
	a := sampleTree()
	b := sampleTree()
	same, onlyA, onlyB := Diff(a, b)
	assert.True(t, onlyA.Empty())
	assert.True(t, onlyB.Empty())
	assert.True(t, same.Root.Equal(a.Root))
}

func TestDiffAsymmetric(t *testing.T) {
	t.Parallel()
	a := sampleTree()
	b := sampleTree()
	b.Root.AppendProperty(&EmptyProp{PropName: "extra-in-b"})
	cpus, _ := b.Root.GetSubnode("cpus")
	cpu1 := NewNode("cpu@1")
	cpus.AppendNode(cpu1)

	_, onlyA, onlyB := Diff(a, b)
	assert.True(t, onlyA.Empty())
	assert.False(t, onlyB.Empty())

	_, err := onlyB.GetProperty("extra-in-b", "/")
	assert.NoError(t, err)
	assert.True(t, onlyB.ExistNode("/cpus/cpu@1"))
}

func TestMergeIsIdempotent(t *testing.T) {
	t.Parallel()
	a := sampleTree()
	b := sampleTree()
	a.Merge(b, true)
	before := a.Root.Clone()
	a.Merge(b, true)
	assert.True(t, before.Equal(a.Root))
}

func TestMergeReservationsUnion(t *testing.T) {
	t.Parallel()
	a := sampleTree()
	b := sampleTree()
	b.Reservations = append(b.Reservations, Reservation{Address: 0x2000, Size: 0x200})
	a.Merge(b, true)
	assert.Len(t, a.Reservations, 2)

	// merging again must not duplicate the shared reservation
	a.Merge(b, true)
	assert.Len(t, a.Reservations, 2)
}

func TestMergeHeaderVersionTakesMax(t *testing.T) {
	t.Parallel()
	a := sampleTree()
	a.Header.Version = mkVersion(16)
	b := sampleTree()
	b.Header.Version = mkVersion(17)
	a.Merge(b, true)
	require.NotNil(t, a.Header.Version)
	assert.Equal(t, uint32(17), *a.Header.Version)
}

func TestTreeInfo(t *testing.T) {
	t.Parallel()
	tree := sampleTree()
	info := tree.Info()
	assert.Contains(t, info, "FDT Content:")
	assert.Contains(t, info, "/ [1N, 1P]")
	assert.Contains(t, info, "/cpus [1N, 1P]")
	assert.Contains(t, info, "/cpus/cpu@0 [0N, 1P]")
}

func TestTreeRemoveAndAddItem(t *testing.T) {
	t.Parallel()
	tree := sampleTree()
	require.NoError(t, tree.RemoveNode("cpus", "/"))
	assert.False(t, tree.ExistNode("/cpus"))

	require.NoError(t, tree.AddItem(NewNode("gpio@0"), "/soc", true))
	assert.True(t, tree.ExistNode("/soc/gpio@0"))
}
