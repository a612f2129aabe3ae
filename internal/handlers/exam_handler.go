package handlers

import (
	"fmt"
	"net/http"

	"github.com/exampool/exam-service/internal/middleware"
	"github.com/exampool/exam-service/internal/repositories"
	"github.com/exampool/exam-service/internal/services"
	"github.com/exampool/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ExamHandler struct {
	BaseHandler
	examService   services.ExamService
	exportService services.ExportService
}

func NewExamHandler(
	examService services.ExamService,
	exportService services.ExportService,
	logger utils.Logger,
) *ExamHandler {
	return &ExamHandler{
		BaseHandler:   NewBaseHandler(logger),
		examService:   examService,
		exportService: exportService,
	}
}

// CreateExam schedules a new exam inside an exam group and draws its
// questions per category quota.
func (h *ExamHandler) CreateExam(c *gin.Context) {
	var req services.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	actor, _ := middleware.GetActor(c)
	exam, err := h.examService.Create(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, exam)
}

func (h *ExamHandler) GetExam(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	actor, _ := middleware.GetActor(c)
	exam, err := h.examService.GetByID(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

func (h *ExamHandler) ListExams(c *gin.Context) {
	filters := repositories.ListFilters{
		Skip:   parseSkipQuery(c),
		Search: c.Query("search"),
	}

	actor, _ := middleware.GetActor(c)
	exams, err := h.examService.List(c.Request.Context(), filters, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exams)
}

func (h *ExamHandler) CountExams(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	count, err := h.examService.Count(c.Request.Context(), c.Query("search"), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *ExamHandler) GetExamsByExamGroup(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	actor, _ := middleware.GetActor(c)
	exams, err := h.examService.ListByExamGroup(c.Request.Context(), id, parseSkipQuery(c), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exams)
}

func (h *ExamHandler) GetExamsByPool(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	actor, _ := middleware.GetActor(c)
	exams, err := h.examService.ListByPool(c.Request.Context(), id, parseSkipQuery(c), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exams)
}

// GetExamIntervals is public: it lists the occupied time slots of an exam
// group for the scheduling calendar.
func (h *ExamHandler) GetExamIntervals(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	intervals, err := h.examService.Intervals(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, intervals)
}

func (h *ExamHandler) PublishExam(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	actor, _ := middleware.GetActor(c)
	exam, err := h.examService.Publish(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

func (h *ExamHandler) UnpublishExam(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	actor, _ := middleware.GetActor(c)
	exam, err := h.examService.Unpublish(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

func (h *ExamHandler) ReleaseExamGrades(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	actor, _ := middleware.GetActor(c)
	exam, err := h.examService.ReleaseGrades(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// ExportExamResults streams the exam's submitted results as a spreadsheet.
// Format defaults to xlsx; csv is available via ?format=csv.
func (h *ExamHandler) ExportExamResults(c *gin.Context) {
	id := parseUintParam(c, "id")
	if id == 0 {
		return
	}

	actor, _ := middleware.GetActor(c)
	ctx := c.Request.Context()

	switch c.DefaultQuery("format", "xlsx") {
	case "csv":
		data, err := h.exportService.ExportExamResultsCSV(ctx, id, actor)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=exam-%d-results.csv", id))
		c.Data(http.StatusOK, "text/csv", data)
	case "xlsx":
		data, err := h.exportService.ExportExamResultsXLSX(ctx, id, actor)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=exam-%d-results.xlsx", id))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid format",
			Details: "supported formats: xlsx, csv",
		})
	}
}
