package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/mforum/middleware"
	"github.com/cppla/mforum/repository"
	"github.com/cppla/mforum/services"
	"github.com/cppla/mforum/utils"
)

// UserController serves profile reads and avatar upload/download.
type UserController struct {
	users    repository.UserRepository
	avatars  *services.AvatarService
	maxBytes int64
}

// NewUserController creates a UserController.
func NewUserController(users repository.UserRepository, avatars *services.AvatarService, maxBytes int64) *UserController {
	return &UserController{users: users, avatars: avatars, maxBytes: maxBytes}
}

// Me returns the authenticated user's record.
func (u *UserController) Me(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	user, err := u.users.FindByID(ctx.Request.Context(), userID)
	if err != nil {
		utils.Fail(ctx, 10, err)
		return
	}
	utils.Success(ctx, user)
}

// GetUser returns a user's profile. Routes restrict it to the user themself.
func (u *UserController) GetUser(ctx *gin.Context) {
	userID, ok := targetID(ctx)
	if !ok {
		return
	}
	user, err := u.users.FindByID(ctx.Request.Context(), userID)
	if err != nil {
		utils.Fail(ctx, 11, err)
		return
	}
	utils.Success(ctx, user)
}

// UploadAvatar replaces the target user's avatar with the multipart "avatar" file.
func (u *UserController) UploadAvatar(ctx *gin.Context) {
	userID, ok := targetID(ctx)
	if !ok {
		return
	}

	file, header, err := ctx.Request.FormFile("avatar")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.Fail(ctx, 12, services.ErrAvatarTooLarge)
			return
		}
		utils.Error(ctx, http.StatusBadRequest, 40013, "No file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		utils.Error(ctx, http.StatusBadRequest, 40014, "No file selected")
		return
	}
	ext, allowed := services.AvatarExtension(header.Filename)
	if !allowed {
		utils.Fail(ctx, 15, services.ErrInvalidFileType)
		return
	}
	if header.Size > u.maxBytes {
		utils.Fail(ctx, 16, services.ErrAvatarTooLarge)
		return
	}

	url, err := u.avatars.Store(ctx.Request.Context(), userID, file, ext)
	if err != nil {
		utils.Fail(ctx, 17, err)
		return
	}

	utils.Created(ctx, gin.H{
		"message":   "Avatar uploaded successfully",
		"avatarUrl": url,
	})
}

// GetAvatar streams the latest avatar bytes. It needs no token.
func (u *UserController) GetAvatar(ctx *gin.Context) {
	userID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Fail(ctx, 18, services.ErrAvatarNotFound)
		return
	}
	data, contentType, err := u.avatars.RetrieveLatest(ctx.Request.Context(), userID)
	if err != nil {
		utils.Fail(ctx, 19, err)
		return
	}
	ctx.Header("Cache-Control", "no-cache")
	ctx.Data(http.StatusOK, contentType, data)
}

// targetID is the :id the SelfOnly middleware already matched against the caller.
func targetID(ctx *gin.Context) (uint, bool) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40412, "User not found")
	}
	return id, ok
}
