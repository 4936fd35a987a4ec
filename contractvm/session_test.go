// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero/api"
)

func TestSessionStorage(t *testing.T) {
	require := require.New(t)
	storage := map[string]string{
		"1":  "7",
		"2":  "not a number",
		"3":  "99999999999",
		"-4": "-12",
	}
	s := newSession(storage, 500, 5000)

	require.Equal(int32(7), s.get(1))
	require.Zero(s.get(2))
	require.Zero(s.get(3))
	require.Equal(int32(-12), s.get(-4))
	require.Zero(s.get(5))

	s.set(5, 10)
	s.set(-1, -1)
	require.Equal(int32(10), s.get(5))
	require.Equal("-1", s.storage["-1"])
	require.Equal(uint64(10000), s.gasUsed)
	require.Equal(uint64(500), s.remaining)

	// the caller's map is never written
	require.Len(storage, 4)
	require.NotContains(storage, "5")
}

func TestHostFunctions(t *testing.T) {
	require := require.New(t)
	s := newSession(map[string]string{"3": "30"}, 0, 1)
	ctx := withSession(context.Background(), s)

	stack := []uint64{api.EncodeI32(3)}
	storageGet(ctx, stack)
	require.Equal(int32(30), api.DecodeI32(stack[0]))

	storageSet(ctx, []uint64{api.EncodeI32(3), api.EncodeI32(31)})
	require.Equal("31", s.storage["3"])
	require.Equal(uint64(1), s.gasUsed)
}

func TestHostFunctionWithoutSession(t *testing.T) {
	require.PanicsWithValue(t, errNoSession, func() {
		storageGet(context.Background(), []uint64{0})
	})
}
