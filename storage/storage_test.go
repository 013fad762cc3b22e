package storage

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/mforum/config"
)

func exerciseStore(t *testing.T, s BlobStore) {
	ctx := context.Background()

	_, err := s.Get(ctx, "5_1.png")
	assert.ErrorIs(t, err, ErrBlobNotFound)

	require.NoError(t, s.Put(ctx, "5_1.png", []byte("first")))
	require.NoError(t, s.Put(ctx, "5_2.png", []byte("second")))

	got, err := s.Get(ctx, "5_1.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got)

	require.NoError(t, s.Put(ctx, "5_1.png", []byte("replaced")))
	got, err = s.Get(ctx, "5_1.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("replaced"), got)

	require.NoError(t, s.Delete(ctx, "5_1.png"))
	require.NoError(t, s.Delete(ctx, "5_1.png"))
	_, err = s.Get(ctx, "5_1.png")
	assert.ErrorIs(t, err, ErrBlobNotFound)

	got, err = s.Get(ctx, "5_2.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)

	for _, bad := range []string{"", "../etc/passwd", "a/b.png", ".hidden"} {
		assert.Error(t, s.Put(ctx, bad, []byte("x")), bad)
	}
}

func TestLocalStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "avatars")
	s, err := NewLocalStore(dir)
	require.NoError(t, err)
	exerciseStore(t, s)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.Equal(t, "5_2.png", entries[0].Name())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := NewRedisClient(config.AppConfig{RedisHost: mr.Host(), RedisPort: port})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	exerciseStore(t, NewRedisStore(client, "avatar:"))
	assert.True(t, mr.Exists("avatar:5_2.png"))
}
