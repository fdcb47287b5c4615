// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package jsonutil_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.lukeshu.com/go/fdt/internal/jsonutil"
)

func TestEncodeHexString(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, jsonutil.EncodeHexString(&buf, []byte{0xDE, 0xAD, 0xBE, 0xEF}))
	assert.Equal(t, `"deadbeef"`, buf.String())
}

func TestEncodeHexStringEmpty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, jsonutil.EncodeHexString(&buf, []byte{}))
	assert.Equal(t, `""`, buf.String())
}

func TestDecodeHexStringRoundTrip(t *testing.T) {
	t.Parallel()
	var encoded bytes.Buffer
	require.NoError(t, jsonutil.EncodeHexString(&encoded, []byte{0x01, 0x02, 0xFF}))

	var decoded bytes.Buffer
	require.NoError(t, jsonutil.DecodeHexString(strings.NewReader(encoded.String()), &decoded))
	assert.Equal(t, []byte{0x01, 0x02, 0xFF}, decoded.Bytes())
}

func TestDecodeHexStringOddDigitsErrors(t *testing.T) {
	t.Parallel()
	var decoded bytes.Buffer
	err := jsonutil.DecodeHexString(strings.NewReader(`"abc"`), &decoded)
	assert.Error(t, err)
}
