// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package setutil provides a small generic set type, adapted from the
// teacher's lib/containers.Set[T]. Used by Tree.Merge and Diff to classify
// reservations and child names by membership without repeated linear scans.
package setutil

// Set is an unordered set of T.
type Set[T comparable] map[T]struct{}

// NewSet returns a Set containing items.
func NewSet[T comparable](items ...T) Set[T] {
	s := make(Set[T], len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

// Add inserts item into s.
func (s Set[T]) Add(item T) { s[item] = struct{}{} }

// Has reports whether item is in s.
func (s Set[T]) Has(item T) bool {
	_, ok := s[item]
	return ok
}
