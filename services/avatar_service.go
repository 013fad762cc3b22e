package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cppla/mforum/repository"
	"github.com/cppla/mforum/storage"
	"github.com/cppla/mforum/utils"
)

var (
	ErrInvalidFileType = fmt.Errorf("%w: Invalid file type", utils.ErrValidation)
	ErrAvatarTooLarge  = fmt.Errorf("%w: File too large", utils.ErrTooLarge)
	ErrAvatarNotFound  = fmt.Errorf("%w: Avatar not found", utils.ErrNotFound)
)

// avatarContentTypes lists the accepted extensions and the content type each is served with.
var avatarContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

// AvatarExtension returns the lower-cased extension of filename if avatars may use it.
func AvatarExtension(filename string) (string, bool) {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return "", false
	}
	ext := strings.ToLower(filename[i+1:])
	_, ok := avatarContentTypes[ext]
	return ext, ok
}

// AvatarService stores avatar bytes and keeps the user record pointing at the latest upload.
type AvatarService struct {
	users    repository.UserRepository
	blobs    storage.BlobStore
	maxBytes int64
	now      func() time.Time
}

func NewAvatarService(users repository.UserRepository, blobs storage.BlobStore, maxBytes int64) *AvatarService {
	return &AvatarService{users: users, blobs: blobs, maxBytes: maxBytes, now: time.Now}
}

// AvatarURL is the public retrieval URL for a user's avatar.
func AvatarURL(userID uint) string {
	return fmt.Sprintf("/api/users/%d/avatar", userID)
}

// Store saves the avatar and makes it the user's current one, returning the retrieval URL.
// Type and size are checked before any byte is persisted. The superseded blob is removed
// best-effort.
func (s *AvatarService) Store(ctx context.Context, userID uint, r io.Reader, ext string) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if _, ok := avatarContentTypes[ext]; !ok {
		return "", ErrInvalidFileType
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", ErrAvatarTooLarge
		}
		return "", fmt.Errorf("read avatar: %w", err)
	}
	if n > s.maxBytes {
		return "", ErrAvatarTooLarge
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return "", err
	}

	// unique per user and upload instant, so repeated uploads never overwrite each other
	ref := fmt.Sprintf("%d_%d_%s.%s", userID, s.now().UnixMilli(), uuid.NewString(), ext)
	if err := s.blobs.Put(ctx, ref, buf.Bytes()); err != nil {
		return "", fmt.Errorf("%w: store avatar: %v", utils.ErrPersistence, err)
	}

	url := AvatarURL(userID)
	previous, err := s.users.UpdateAvatar(ctx, userID, repository.AvatarUpdate{Ref: ref, URL: url, Type: ext})
	if err != nil {
		if delErr := s.blobs.Delete(ctx, ref); delErr != nil {
			utils.Logger.Warn("remove orphaned avatar failed", zap.String("ref", ref), zap.Error(delErr))
		}
		return "", err
	}
	if previous != "" && previous != ref {
		if err := s.blobs.Delete(ctx, previous); err != nil {
			utils.Logger.Warn("remove superseded avatar failed", zap.String("ref", previous), zap.Error(err))
		}
	}
	return url, nil
}

// RetrieveLatest returns the user's current avatar bytes and their content type.
func (s *AvatarService) RetrieveLatest(ctx context.Context, userID uint) ([]byte, string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", ErrAvatarNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if !user.HasAvatar() {
		return nil, "", ErrAvatarNotFound
	}

	data, err := s.blobs.Get(ctx, user.AvatarRef)
	if errors.Is(err, storage.ErrBlobNotFound) {
		return nil, "", ErrAvatarNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: load avatar: %v", utils.ErrPersistence, err)
	}

	contentType, ok := avatarContentTypes[user.AvatarType]
	if !ok {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}
