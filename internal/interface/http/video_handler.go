package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vidtube/backend/internal/application"
	"github.com/vidtube/backend/internal/interface/middleware"
	"github.com/vidtube/backend/pkg/response"
	"github.com/vidtube/backend/pkg/validation"
)

type VideoHandler struct {
	Svc    *application.VideoService
	Logger *logrus.Logger
}

func NewVideoHandler(svc *application.VideoService, logger *logrus.Logger) *VideoHandler {
	return &VideoHandler{Svc: svc, Logger: logger}
}

type updateVideoRequest struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required"`
}

// Publish accepts the multipart upload form: title, description, duration
// plus the videoFile and thumbnail files.
func (h *VideoHandler) Publish(c *gin.Context) {
	duration, _ := strconv.ParseFloat(c.PostForm("duration"), 64)
	in := application.PublishInput{
		OwnerID:     c.GetString(middleware.CtxUserIDKey),
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Duration:    duration,
	}

	videoFH, err := c.FormFile("videoFile")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "videoFile is required")
		return
	}
	thumbFH, err := c.FormFile("thumbnail")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "thumbnail is required")
		return
	}
	if in.VideoPath, err = saveTempFile(c, videoFH); err != nil {
		response.Error(c, http.StatusInternalServerError, "could not store uploaded file")
		return
	}
	defer removeTempFile(in.VideoPath)
	if in.ThumbnailPath, err = saveTempFile(c, thumbFH); err != nil {
		response.Error(c, http.StatusInternalServerError, "could not store uploaded file")
		return
	}
	defer removeTempFile(in.ThumbnailPath)

	v, err := h.Svc.Publish(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, v, "video published successfully")
}

// List serves the discovery feed. All parameters are optional query strings.
func (h *VideoHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	in := application.ListInput{
		Page:     page,
		Limit:    limit,
		Query:    c.Query("query"),
		SortBy:   c.Query("sortBy"),
		SortType: c.Query("sortType"),
		UserID:   c.Query("userId"),
	}
	pageOut, err := h.Svc.List(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, pageOut, "videos fetched")
}

func (h *VideoHandler) Get(c *gin.Context) {
	viewerID := c.GetString(middleware.CtxUserIDKey)
	v, err := h.Svc.Get(c.Request.Context(), c.Param("videoId"), viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v, "video fetched")
}

func (h *VideoHandler) Update(c *gin.Context) {
	var req updateVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToMessages(err)...)
		return
	}
	thumbPath, err := optionalTempFile(c, "thumbnail")
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "could not store uploaded file")
		return
	}
	defer removeTempFile(thumbPath)
	v, err := h.Svc.Update(c.Request.Context(), application.UpdateVideoInput{
		VideoID:       c.Param("videoId"),
		RequesterID:   c.GetString(middleware.CtxUserIDKey),
		Title:         req.Title,
		Description:   req.Description,
		ThumbnailPath: thumbPath,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v, "video updated")
}

func (h *VideoHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Delete(c.Request.Context(), c.Param("videoId"), uid); err != nil {
		respondError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "video deleted")
}

func (h *VideoHandler) TogglePublish(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	v, err := h.Svc.TogglePublish(c.Request.Context(), c.Param("videoId"), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	msg := "video unpublished"
	if v.IsPublished {
		msg = "video published"
	}
	response.Success(c, http.StatusOK, v, msg)
}
