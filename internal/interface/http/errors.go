package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vidtube/backend/internal/application"
	"github.com/vidtube/backend/pkg/response"
)

// respondError maps service failures onto the error envelope. Unrecognized
// errors become opaque 500s; their detail stays server-side.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrMissingFields),
		errors.Is(err, application.ErrInvalidID),
		errors.Is(err, application.ErrUploadFailed),
		errors.Is(err, application.ErrSelfSubscription):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrInvalidCredentials),
		errors.Is(err, application.ErrInvalidToken),
		errors.Is(err, application.ErrNotOwner):
		response.Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, application.ErrUserNotFound),
		errors.Is(err, application.ErrVideoNotFound),
		errors.Is(err, application.ErrTweetNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, application.ErrUserExists):
		response.Error(c, http.StatusConflict, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "internal server error")
	}
}
