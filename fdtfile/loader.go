// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package fdtfile provides cmd/fdt's default OS-backed fdt.FileLoader,
// plus an LRU-caching wrapper for DTS sources whose `/incbin/` properties
// repeatedly reference the same backing file.
package fdtfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru"

	"git.lukeshu.com/go/fdt"
)

// OSLoader resolves `/incbin/` paths relative to Root against the local
// filesystem.
type OSLoader struct {
	Root string
}

var _ fdt.FileLoader = (*OSLoader)(nil)

func (l OSLoader) Load(path string, offset, length int) ([]byte, error) {
	full := path
	if l.Root != "" && !filepath.IsAbs(path) {
		full = filepath.Join(l.Root, path)
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("fdtfile: %w", err)
	}
	defer f.Close()

	if offset != 0 {
		if _, err := f.Seek(int64(offset), io.SeekStart); err != nil {
			return nil, fmt.Errorf("fdtfile: %w", err)
		}
	}
	if length == 0 {
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("fdtfile: %w", err)
		}
		return data, nil
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("fdtfile: %w", err)
	}
	return buf, nil
}

type cacheKey struct {
	path          string
	offset, length int
}

// CachingLoader wraps another FileLoader with a bounded LRU cache of
// previously loaded byte ranges, so a DTS with many `/incbin/` statements
// pointing at the same firmware blob only reads it once per range.
type CachingLoader struct {
	inner fdt.FileLoader
	cache *lru.Cache
}

var _ fdt.FileLoader = (*CachingLoader)(nil)

// NewCachingLoader wraps inner with an LRU cache holding up to size
// distinct (path, offset, length) entries.
func NewCachingLoader(inner fdt.FileLoader, size int) (*CachingLoader, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("fdtfile: %w", err)
	}
	return &CachingLoader{inner: inner, cache: c}, nil
}

func (l *CachingLoader) Load(path string, offset, length int) ([]byte, error) {
	key := cacheKey{path: path, offset: offset, length: length}
	if cached, ok := l.cache.Get(key); ok {
		return cached.([]byte), nil
	}
	data, err := l.inner.Load(path, offset, length)
	if err != nil {
		return nil, err
	}
	l.cache.Add(key, data)
	return data, nil
}
