// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fdtfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSLoaderFullFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3, 4, 5}, 0o644))

	loader := OSLoader{Root: dir}
	data, err := loader.Load("blob.bin", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, data)
}

func TestOSLoaderOffsetLength(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3, 4, 5}, 0o644))

	loader := OSLoader{Root: dir}
	data, err := loader.Load("blob.bin", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 4}, data)
}

func TestOSLoaderMissingFile(t *testing.T) {
	t.Parallel()
	loader := OSLoader{Root: t.TempDir()}
	_, err := loader.Load("missing.bin", 0, 0)
	assert.Error(t, err)
}

type countingLoader struct {
	calls int
	data  []byte
}

func (c *countingLoader) Load(path string, offset, length int) ([]byte, error) {
	c.calls++
	return c.data, nil
}

func TestCachingLoaderDedupesCalls(t *testing.T) {
	t.Parallel()
	inner := &countingLoader{data: []byte{9, 9}}
	loader, err := NewCachingLoader(inner, 8)
	require.NoError(t, err)

	d1, err := loader.Load("a.bin", 0, 2)
	require.NoError(t, err)
	d2, err := loader.Load("a.bin", 0, 2)
	require.NoError(t, err)

	assert.Equal(t, d1, d2)
	assert.Equal(t, 1, inner.calls)
}

func TestCachingLoaderDistinctKeys(t *testing.T) {
	t.Parallel()
	inner := &countingLoader{data: []byte{9, 9}}
	loader, err := NewCachingLoader(inner, 8)
	require.NoError(t, err)

	_, err = loader.Load("a.bin", 0, 2)
	require.NoError(t, err)
	_, err = loader.Load("a.bin", 2, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}
