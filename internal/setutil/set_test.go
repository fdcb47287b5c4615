// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package setutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"git.lukeshu.com/go/fdt/internal/setutil"
)

func TestSetAddHas(t *testing.T) {
	t.Parallel()
	s := setutil.Set[string]{}
	assert.False(t, s.Has("a"))
	s.Add("a")
	assert.True(t, s.Has("a"))
}

func TestNewSet(t *testing.T) {
	t.Parallel()
	s := setutil.NewSet(1, 2, 2, 3)
	assert.True(t, s.Has(1))
	assert.True(t, s.Has(2))
	assert.True(t, s.Has(3))
	assert.False(t, s.Has(4))
	assert.Len(t, s, 3)
}

func TestNilSetHasIsFalse(t *testing.T) {
	t.Parallel()
	var s setutil.Set[string]
	assert.False(t, s.Has("anything"))
}
