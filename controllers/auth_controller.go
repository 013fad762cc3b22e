package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/mforum/services"
	"github.com/cppla/mforum/utils"
)

// AuthController handles registration and login.
type AuthController struct {
	auth *services.AuthService
}

// NewAuthController creates an AuthController.
func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register creates an account and returns it with a bearer token.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, 1, services.ErrMissingFields)
		return
	}

	res, err := a.auth.Register(ctx.Request.Context(),
		strings.TrimSpace(req.Username),
		strings.TrimSpace(req.Email),
		req.Password,
	)
	if err != nil {
		utils.Fail(ctx, 2, err)
		return
	}

	utils.Created(ctx, gin.H{
		"message":      "User created successfully",
		"user":         res.User,
		"access_token": res.Token,
	})
}

// Login verifies user credentials and issues a token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, 3, services.ErrMissingCredentials)
		return
	}

	res, err := a.auth.Login(ctx.Request.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		utils.Fail(ctx, 4, err)
		return
	}

	utils.Respond(ctx, http.StatusOK, 0, "success", gin.H{
		"message":      "Login successful",
		"user":         res.User,
		"access_token": res.Token,
	})
}
