package handlers

import (
	"github.com/exampool/exam-service/internal/middleware"
	"github.com/exampool/exam-service/internal/services"
	"github.com/exampool/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	examHandler      *ExamHandler
	analyticsHandler *AnalyticsHandler
	categoryHandler  *CategoryHandler
	poolHandler      *PoolHandler
}

func NewHandlerManager(
	examService services.ExamService,
	exportService services.ExportService,
	analyticsService services.AnalyticsService,
	categoryService services.CategoryService,
	poolService services.PoolService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		examHandler:      NewExamHandler(examService, exportService, logger),
		analyticsHandler: NewAnalyticsHandler(analyticsService, logger),
		categoryHandler:  NewCategoryHandler(categoryService, logger),
		poolHandler:      NewPoolHandler(poolService, logger),
	}
}

// SetupRoutes sets up all API routes. Services re-check the caller's role
// themselves, the route-level guard just rejects anonymous mutations early.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Exam routes
		exams := v1.Group("/exams", middleware.RequireAdmin())
		{
			exams.POST("", hm.examHandler.CreateExam)
			exams.GET("", hm.examHandler.ListExams)
			exams.GET("/count", hm.examHandler.CountExams)
			exams.GET("/:id", hm.examHandler.GetExam)
			exams.POST("/:id/publish", hm.examHandler.PublishExam)
			exams.POST("/:id/unpublish", hm.examHandler.UnpublishExam)
			exams.POST("/:id/release-grades", hm.examHandler.ReleaseExamGrades)
			exams.GET("/:id/analytics", hm.analyticsHandler.GetExamAnalytics)
			exams.GET("/:id/results/export", hm.examHandler.ExportExamResults)
		}

		// Exam group routes
		examGroups := v1.Group("/exam-groups")
		{
			examGroups.GET("/:id/exams", middleware.RequireAdmin(), hm.examHandler.GetExamsByExamGroup)
			// Occupied slots are public so schedulers can pick a free window.
			examGroups.GET("/:id/intervals", hm.examHandler.GetExamIntervals)
		}

		// Pool routes
		pools := v1.Group("/pools", middleware.RequireAdmin())
		{
			pools.GET("", hm.poolHandler.ListPools)
			pools.GET("/count", hm.poolHandler.CountPools)
			pools.GET("/:id", hm.poolHandler.GetPool)
			pools.GET("/:id/exams", hm.examHandler.GetExamsByPool)
			pools.GET("/:id/analytics", hm.analyticsHandler.GetPoolAnalytics)
		}

		// Category routes
		categories := v1.Group("/categories")
		{
			categories.POST("", hm.categoryHandler.CreateCategory)
			categories.GET("", hm.categoryHandler.ListCategories)
			categories.GET("/count", hm.categoryHandler.CountCategories)
			categories.GET("/:id", hm.categoryHandler.GetCategory)
			categories.PUT("/:id", hm.categoryHandler.UpdateCategory)
			categories.DELETE("/:id", hm.categoryHandler.DeleteCategory)
		}

		// Test taker routes
		testTakers := v1.Group("/test-takers", middleware.RequireAdmin())
		{
			testTakers.GET("/:id/results", hm.analyticsHandler.GetTestTakerResults)
		}
	}
}
