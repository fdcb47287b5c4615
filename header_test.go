// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	t.Parallel()
	v := uint32(17)
	h := Header{
		TotalSize:       headerSize,
		OffDtStruct:     headerSize,
		OffDtStrings:    headerSize,
		OffMemRsvmap:    headerSize,
		Version:         &v,
		LastCompVersion: 16,
		BootCpuidPhys:   0,
		SizeDtStrings:   0,
		SizeDtStruct:    0,
	}
	raw, err := h.export()
	require.NoError(t, err)
	assert.Len(t, raw, headerSize)

	parsed, err := parseHeader(raw, 0)
	require.NoError(t, err)
	require.NotNil(t, parsed.Version)
	assert.Equal(t, v, *parsed.Version)
	assert.Equal(t, h.LastCompVersion, parsed.LastCompVersion)
}

func TestHeaderBadMagic(t *testing.T) {
	t.Parallel()
	buf := make([]byte, headerSize)
	_, err := parseHeader(buf, 0)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestHeaderUnsupportedVersion(t *testing.T) {
	t.Parallel()
	v := uint32(99)
	h := Header{Version: &v}
	_, err := h.export()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestHeaderTruncated(t *testing.T) {
	t.Parallel()
	_, err := parseHeader([]byte{0, 1, 2}, 0)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestHeaderExportRequiresVersion(t *testing.T) {
	t.Parallel()
	h := Header{}
	_, err := h.export()
	assert.Error(t, err)
}
