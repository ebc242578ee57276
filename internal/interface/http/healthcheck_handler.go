package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidtube/backend/pkg/response"
)

type HealthcheckHandler struct {
	Pool *pgxpool.Pool
}

func NewHealthcheckHandler(pool *pgxpool.Pool) *HealthcheckHandler {
	return &HealthcheckHandler{Pool: pool}
}

// Check reports liveness. The database ping is included so load balancers
// drain instances that lost their pool.
func (h *HealthcheckHandler) Check(c *gin.Context) {
	if h.Pool != nil {
		if err := h.Pool.Ping(c.Request.Context()); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "OK")
}
