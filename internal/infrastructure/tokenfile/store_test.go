package tokenfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "token")
	s := New(path)

	tok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, s.Save(ctx, "tok-1"))
	tok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, s.Save(ctx, "tok-2"))
	tok, _ = s.Load(ctx)
	assert.Equal(t, "tok-2", tok)

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	tok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestStore_RejectsEmptyToken(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "token"))
	assert.Error(t, s.Save(context.Background(), ""))
}
