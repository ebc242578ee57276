package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vidtube/backend/internal/application"
	"github.com/vidtube/backend/internal/interface/middleware"
	"github.com/vidtube/backend/pkg/response"
	"github.com/vidtube/backend/pkg/validation"
)

type TweetHandler struct {
	Svc *application.TweetService
}

func NewTweetHandler(svc *application.TweetService) *TweetHandler {
	return &TweetHandler{Svc: svc}
}

type tweetRequest struct {
	Content string `json:"content" binding:"required,max=280"`
}

func (h *TweetHandler) Create(c *gin.Context) {
	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToMessages(err)...)
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	t, err := h.Svc.Create(c.Request.Context(), uid, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t, "tweet created")
}

func (h *TweetHandler) ListByUser(c *gin.Context) {
	tweets, err := h.Svc.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tweets, "tweets fetched")
}

func (h *TweetHandler) Update(c *gin.Context) {
	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToMessages(err)...)
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	t, err := h.Svc.Update(c.Request.Context(), c.Param("tweetId"), uid, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t, "tweet updated")
}

func (h *TweetHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Delete(c.Request.Context(), c.Param("tweetId"), uid); err != nil {
		respondError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "tweet deleted")
}
