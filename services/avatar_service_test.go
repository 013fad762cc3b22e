package services

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/mforum/storage"
)

func TestAvatarExtension(t *testing.T) {
	for name, want := range map[string]string{"me.PNG": "png", "a.b.jpeg": "jpeg", "x.gif": "gif", "p.jpg": "jpg"} {
		ext, ok := AvatarExtension(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, ext)
	}
	for _, name := range []string{"virus.exe", "noext", "trailing.", ""} {
		_, ok := AvatarExtension(name)
		assert.False(t, ok, name)
	}
}

func newTestAvatars(t *testing.T, maxBytes int64) (*AvatarService, uint, string) {
	users := newTestUsers(t)
	u, err := users.Create(context.Background(), "alice", "alice@x.com", "hash")
	require.NoError(t, err)

	dir := t.TempDir()
	blobs, err := storage.NewLocalStore(dir)
	require.NoError(t, err)
	return NewAvatarService(users, blobs, maxBytes), u.ID, dir
}

func TestAvatarStoreAndRetrieve(t *testing.T) {
	avatars, userID, dir := newTestAvatars(t, 1024)
	ctx := context.Background()

	_, _, err := avatars.RetrieveLatest(ctx, userID)
	assert.ErrorIs(t, err, ErrAvatarNotFound)

	url, err := avatars.Store(ctx, userID, bytes.NewReader([]byte("first")), "png")
	require.NoError(t, err)
	assert.Equal(t, AvatarURL(userID), url)

	url2, err := avatars.Store(ctx, userID, bytes.NewReader([]byte("second")), "JPG")
	require.NoError(t, err)
	assert.Equal(t, url, url2)

	data, contentType, err := avatars.RetrieveLatest(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
	assert.Equal(t, "image/jpeg", contentType)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "superseded avatar removed")
}

func TestAvatarRejectsBeforePersisting(t *testing.T) {
	avatars, userID, dir := newTestAvatars(t, 8)
	ctx := context.Background()

	_, err := avatars.Store(ctx, userID, bytes.NewReader([]byte("MZ")), "exe")
	assert.ErrorIs(t, err, ErrInvalidFileType)

	_, err = avatars.Store(ctx, userID, bytes.NewReader([]byte("123456789")), "png")
	assert.ErrorIs(t, err, ErrAvatarTooLarge)

	_, err = avatars.Store(ctx, userID, bytes.NewReader([]byte("12345678")), "png")
	assert.NoError(t, err, "exactly at the cap is allowed")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAvatarUnknownUser(t *testing.T) {
	avatars, _, dir := newTestAvatars(t, 1024)
	ctx := context.Background()

	_, err := avatars.Store(ctx, 99999, bytes.NewReader([]byte("x")), "png")
	assert.Error(t, err)

	_, _, err = avatars.RetrieveLatest(ctx, 99999)
	assert.ErrorIs(t, err, ErrAvatarNotFound)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
