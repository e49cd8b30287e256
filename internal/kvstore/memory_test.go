package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetRemove(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", "v"))
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", v)

	require.NoError(t, s.Remove(ctx, "k"))
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	// removing again is not an error
	require.NoError(t, s.Remove(ctx, "k"))
}

func TestMemoryClear(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "b", "2"))

	require.NoError(t, s.Clear(ctx))

	_, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = s.Get(ctx, "b")
	require.NoError(t, err)
	require.False(t, ok)
}
