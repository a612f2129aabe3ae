package handlers

import (
	"net/http"

	"github.com/exampool/exam-service/internal/middleware"
	"github.com/exampool/exam-service/internal/services"
	"github.com/exampool/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	BaseHandler
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService, logger utils.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      NewBaseHandler(logger),
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) GetTestTakerResults(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	actor, _ := middleware.GetActor(c)
	results, err := h.analyticsService.GetTestTakerResults(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *AnalyticsHandler) GetPoolAnalytics(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	actor, _ := middleware.GetActor(c)
	analytics, err := h.analyticsService.GetPoolAnalytics(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}

func (h *AnalyticsHandler) GetExamAnalytics(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	actor, _ := middleware.GetActor(c)
	analytics, err := h.analyticsService.GetExamAnalytics(c.Request.Context(), id, actor)
	if err != nil {
		// The exam analytics contract reports every fetch failure as 404.
		// The real cause still lands in the log.
		if !services.IsUnauthorized(err) && !services.IsNotFound(err) {
			h.logger.LogError(err, "exam analytics query failed", "exam_id", id)
			c.JSON(http.StatusNotFound, ErrorResponse{
				Message: services.ErrExamNotFound.Error(),
			})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}
