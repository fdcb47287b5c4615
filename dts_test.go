// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDTSRoundTrip(t *testing.T) {
	t.Parallel()
	tree := sampleTree()
	src := tree.ToDTS(4)

	got, err := ParseDTS(src, nil)
	require.NoError(t, err)

	require.NotNil(t, got.Header.Version)
	assert.Equal(t, *tree.Header.Version, *got.Header.Version)
	assert.True(t, tree.Root.Equal(got.Root))
}

func TestParseDTSMemReserve(t *testing.T) {
	t.Parallel()
	src := "/dts-v1/;\n\n/memreserve/ 0x1000 0x100;\n\n/ {\n};\n"
	tree, err := ParseDTS(src, nil)
	require.NoError(t, err)
	require.Len(t, tree.Reservations, 1)
	assert.Equal(t, Reservation{Address: 0x1000, Size: 0x100}, tree.Reservations[0])
}

func TestToDTSMemReserveZeroField(t *testing.T) {
	t.Parallel()
	tree := NewTree()
	v := uint32(17)
	tree.Header.Version = &v
	tree.Reservations = []Reservation{{Address: 0, Size: 0x200000}, {Address: 0x10000000, Size: 0}}

	src := tree.ToDTS(4)
	assert.Contains(t, src, "/memreserve/ 0 0x200000;\n")
	assert.Contains(t, src, "/memreserve/ 0x10000000 0;\n")
}

func TestParseDTSNestedNodes(t *testing.T) {
	t.Parallel()
	src := `/dts-v1/;

/ {
	#address-cells = <1>;
	cpus {
		cpu@0 {
			device_type = "cpu";
		};
	};
};
`
	tree, err := ParseDTS(src, nil)
	require.NoError(t, err)
	assert.True(t, tree.ExistNode("/cpus/cpu@0"))
	prop, err := tree.GetProperty("device_type", "/cpus/cpu@0")
	require.NoError(t, err)
	assert.Equal(t, []string{"cpu"}, prop.(*StringsProp).Values)
}

func TestParseDTSBytesAndWords(t *testing.T) {
	t.Parallel()
	src := `/dts-v1/;

/ {
	reg = <0x0 0x1000>;
	mac-address = [00 11 22 33 44 55];
};
`
	tree, err := ParseDTS(src, nil)
	require.NoError(t, err)
	reg, err := tree.GetProperty("reg", "/")
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 0x1000}, reg.(*WordsProp).Values)

	mac, err := tree.GetProperty("mac-address", "/")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}, mac.(*BytesProp).Values)
}

func TestParseDTSCommentsStripped(t *testing.T) {
	t.Parallel()
	src := `/dts-v1/;
// this is a line comment
/ {
	/* block
	   comment */
	foo; // trailing comment
};
`
	tree, err := ParseDTS(src, nil)
	require.NoError(t, err)
	_, ok := tree.Root.GetProperty("foo")
	assert.True(t, ok)
}

func TestParseDTSIncBinRequiresLoader(t *testing.T) {
	t.Parallel()
	src := `/dts-v1/;

/ {
	firmware = /incbin/("blob.bin");
};
`
	_, err := ParseDTS(src, nil)
	assert.ErrorIs(t, err, ErrIO)
}

type stubLoader struct{ data []byte }

func (s stubLoader) Load(path string, offset, length int) ([]byte, error) {
	return s.data, nil
}

func TestParseDTSIncBinWithLoader(t *testing.T) {
	t.Parallel()
	src := `/dts-v1/;

/ {
	firmware = /incbin/("fw/blob.bin", 0, 4);
};
`
	tree, err := ParseDTS(src, stubLoader{data: []byte{1, 2, 3, 4}})
	require.NoError(t, err)
	prop, ok := tree.Root.GetProperty("firmware")
	require.True(t, ok)
	ib, ok := prop.(*IncBinProp)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3, 4}, ib.Data)
	assert.Equal(t, "blob.bin", ib.Source)
}

func TestParseDTSUnsupportedConstructs(t *testing.T) {
	t.Parallel()
	_, err := ParseDTS("/dts-v1/;\n/ {\n\tfoo = /plugin/;\n};\n", nil)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = ParseDTS("/dts-v1/;\n/ {\n\tfoo = /bits/ 8 <1 2>;\n};\n", nil)
	assert.ErrorIs(t, err, ErrUnsupported)
}
