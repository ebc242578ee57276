package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vidtube/backend/internal/application"
	"github.com/vidtube/backend/internal/domain/entity"
	"github.com/vidtube/backend/internal/interface/middleware"
	"github.com/vidtube/backend/pkg/helpers"
	"github.com/vidtube/backend/pkg/response"
	"github.com/vidtube/backend/pkg/validation"
)

type UserHandler struct {
	Svc     *application.UserService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,pwd"`
}

type updateAccountRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Register handles the multipart registration form: text fields plus a
// mandatory avatar file and optional cover image.
func (h *UserHandler) Register(c *gin.Context) {
	in := application.RegisterInput{
		FullName: c.PostForm("fullName"),
		Email:    c.PostForm("email"),
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	}

	avatarFH, err := c.FormFile("avatar")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "avatar file is required")
		return
	}
	if in.AvatarPath, err = saveTempFile(c, avatarFH); err != nil {
		response.Error(c, http.StatusInternalServerError, "could not store uploaded file")
		return
	}
	defer removeTempFile(in.AvatarPath)
	if in.CoverImagePath, err = optionalTempFile(c, "coverImage"); err != nil {
		response.Error(c, http.StatusInternalServerError, "could not store uploaded file")
		return
	}
	defer removeTempFile(in.CoverImagePath)

	u, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "user registered successfully")
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToMessages(err)...)
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{
		"user":         u,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "user logged in successfully")
}

func (h *UserHandler) Logout(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Logout(c.Request.Context(), uid); err != nil {
		respondError(c, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "user logged out successfully")
}

// Refresh rotates the session from the refresh token carried in the cookie
// or, failing that, the request body.
func (h *UserHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(helpers.RefreshTokenCookie)
	if token == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "missing refresh token")
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "access token refreshed")
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToMessages(err)...)
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.ChangePassword(c.Request.Context(), uid, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password changed successfully")
}

// CurrentUser is a pure read of the authenticated request context.
func (h *UserHandler) CurrentUser(c *gin.Context) {
	u, ok := c.Get(middleware.CtxUserKey)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	response.Success(c, http.StatusOK, u.(entity.PublicUser), "current user fetched")
}

func (h *UserHandler) UpdateAccount(c *gin.Context) {
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToMessages(err)...)
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, req.FullName, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "account details updated")
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", h.Svc.UpdateAvatar, "avatar updated")
}

func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.updateImage(c, "coverImage", h.Svc.UpdateCoverImage, "cover image updated")
}

func (h *UserHandler) updateImage(c *gin.Context, field string, update func(ctx context.Context, userID, localPath string) (*entity.PublicUser, error), message string) {
	fh, err := c.FormFile(field)
	if err != nil {
		response.Error(c, http.StatusBadRequest, field+" file is required")
		return
	}
	path, err := saveTempFile(c, fh)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "could not store uploaded file")
		return
	}
	defer removeTempFile(path)
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := update(c.Request.Context(), uid, path)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, message)
}

// Channel serves the public channel page for :username. The viewer, when
// authenticated, personalizes the isSubscribed flag.
func (h *UserHandler) Channel(c *gin.Context) {
	username := c.Param("username")
	viewerID := c.GetString(middleware.CtxUserIDKey)
	profile, err := h.Svc.ChannelProfile(c.Request.Context(), username, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile, "channel profile fetched")
}

func (h *UserHandler) WatchHistory(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	history, err := h.Svc.WatchHistory(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, history, "watch history fetched")
}

func (h *UserHandler) ToggleSubscription(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	subscribed, err := h.Svc.ToggleSubscription(c.Request.Context(), uid, c.Param("channelId"))
	if err != nil {
		respondError(c, err)
		return
	}
	msg := "unsubscribed"
	if subscribed {
		msg = "subscribed"
	}
	response.Success(c, http.StatusOK, gin.H{"subscribed": subscribed}, msg)
}
