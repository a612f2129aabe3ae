package handlers

import (
	"net/http"

	"github.com/exampool/exam-service/internal/repositories"
	"github.com/exampool/exam-service/internal/services"
	"github.com/exampool/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type PoolHandler struct {
	BaseHandler
	poolService services.PoolService
}

func NewPoolHandler(poolService services.PoolService, logger utils.Logger) *PoolHandler {
	return &PoolHandler{
		BaseHandler: NewBaseHandler(logger),
		poolService: poolService,
	}
}

func (h *PoolHandler) GetPool(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	pool, err := h.poolService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pool)
}

func (h *PoolHandler) ListPools(c *gin.Context) {
	filters := repositories.ListFilters{
		Skip:   parseSkipQuery(c),
		Search: c.Query("search"),
	}

	pools, err := h.poolService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pools)
}

func (h *PoolHandler) CountPools(c *gin.Context) {
	count, err := h.poolService.Count(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
