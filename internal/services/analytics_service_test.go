package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/exampool/exam-service/internal/charts"
	"github.com/exampool/exam-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newAnalyticsService(repo *MockRepository) AnalyticsService {
	return NewAnalyticsService(repo, nil, stubColorSource{}, testLogger())
}

// chartTitle digs the title text out of a chart payload's options map.
func chartTitle(p charts.Payload) string {
	plugins, _ := p.Options["plugins"].(map[string]interface{})
	title, _ := plugins["title"].(map[string]interface{})
	text, _ := title["text"].(string)
	return text
}

func correctResponse(category string) *models.TestTakerResponse {
	return &models.TestTakerResponse{
		IsCorrect: true,
		Question: models.Question{
			Category: models.Category{Name: category},
		},
	}
}

func TestAnalyticsService_GetTestTakerResults(t *testing.T) {
	const takerID = uint(9)

	takerRepo := &MockTestTakerRepository{}
	takerRepo.On("GetByID", mock.Anything, takerID).Return(&models.TestTaker{
		ID: takerID, Username: "jdoe", ExamGroupID: 2,
	}, nil)

	examRepo := &MockExamRepository{}
	examRepo.On("ListReleasedByGroup", mock.Anything, uint(2)).Return([]*models.Exam{
		{ID: 1, Name: "Exam One", NumberOfQuestions: 10, Duration: 60, Pool: models.Pool{Name: "Pool A"}},
		{ID: 2, Name: "Exam Two", NumberOfQuestions: 10, Duration: 60, Pool: models.Pool{Name: "Pool A"}},
		{ID: 3, Name: "Exam Three", NumberOfQuestions: 10, Duration: 60, Pool: models.Pool{Name: "Pool A"}},
		{ID: 4, Name: "Never Taken", NumberOfQuestions: 10, Duration: 60, Pool: models.Pool{Name: "Pool A"}},
	}, nil)

	started := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	sessionRepo := &MockTestSessionRepository{}
	// Another taker submitted first, so our taker ranks second on exam one.
	sessionRepo.On("ListSubmittedByExam", mock.Anything, uint(1)).Return([]*models.TestSession{
		{TestTakerID: 4, Grade: 9, CreatedAt: started, UpdatedAt: started.Add(40 * time.Minute)},
		{TestTakerID: takerID, Grade: 8, CreatedAt: started, UpdatedAt: started.Add(25 * time.Minute)},
	}, nil)
	sessionRepo.On("ListSubmittedByExam", mock.Anything, uint(2)).Return([]*models.TestSession{
		{TestTakerID: takerID, Grade: 6, CreatedAt: started, UpdatedAt: started.Add(55 * time.Minute)},
	}, nil)
	sessionRepo.On("ListSubmittedByExam", mock.Anything, uint(3)).Return([]*models.TestSession{
		{TestTakerID: takerID, Grade: 10, CreatedAt: started, UpdatedAt: started.Add(30 * time.Minute)},
	}, nil)
	sessionRepo.On("ListSubmittedByExam", mock.Anything, uint(4)).Return([]*models.TestSession{
		{TestTakerID: 4, Grade: 5, CreatedAt: started, UpdatedAt: started.Add(30 * time.Minute)},
	}, nil)

	responseRepo := &MockResponseRepository{}
	responseRepo.On("ListCorrectByExamAndTaker", mock.Anything, uint(1), takerID).Return([]*models.TestTakerResponse{
		correctResponse("Math"), correctResponse("Math"), correctResponse("Math"),
		correctResponse("Math"), correctResponse("Math"),
		correctResponse("Logic"), correctResponse("Logic"), correctResponse("Logic"),
	}, nil)
	responseRepo.On("ListCorrectByExamAndTaker", mock.Anything, uint(2), takerID).Return([]*models.TestTakerResponse{
		correctResponse("Math"), correctResponse("Math"), correctResponse("Math"),
		correctResponse("Math"), correctResponse("Math"), correctResponse("Math"),
	}, nil)
	fullHouse := make([]*models.TestTakerResponse, 0, 10)
	for i := 0; i < 10; i++ {
		fullHouse = append(fullHouse, correctResponse("Logic"))
	}
	responseRepo.On("ListCorrectByExamAndTaker", mock.Anything, uint(3), takerID).Return(fullHouse, nil)

	repo := &MockRepository{
		examRepo:        examRepo,
		testTakerRepo:   takerRepo,
		testSessionRepo: sessionRepo,
		responseRepo:    responseRepo,
	}
	service := newAnalyticsService(repo)

	results, err := service.GetTestTakerResults(context.Background(), takerID, adminActor())
	assert.NoError(t, err)
	assert.Equal(t, "jdoe", results.Username)

	// The exam without a submitted session of this taker is dropped.
	assert.Len(t, results.Result, 3)

	assert.InDelta(t, 80.0, results.AverageGrade, 0.001)
	assert.InDelta(t, 100.0, results.HighestGrade, 0.001)
	assert.InDelta(t, 60.0, results.LowestGrade, 0.001)

	first := results.Result[0]
	assert.Equal(t, uint(1), first.ID)
	assert.Equal(t, "Pool A", first.Pool)
	assert.InDelta(t, 80.0, first.Grade, 0.001)
	assert.Equal(t, 25, first.TestTime)
	assert.Equal(t, 2, first.Ranking)
	assert.Equal(t, map[string]int{"Math": 5, "Logic": 3, "Incorrect": 2}, first.Categories)

	// Category counts plus the incorrect bucket cover every question, and
	// the incorrect bucket sits last so it picks up the black slice.
	assert.Equal(t, []string{"Math", "Logic", "Incorrect"}, first.ChartData.Data.Labels)
	assert.Equal(t, []int{5, 3, 2}, first.ChartData.Data.Datasets[0].Data)
	chartColors := first.ChartData.Data.Datasets[0].BackgroundColor
	assert.Equal(t, "#000000", chartColors[len(chartColors)-1])

	// A perfect run has no incorrect bucket and no black slice.
	third := results.Result[2]
	assert.Equal(t, []string{"Logic"}, third.ChartData.Data.Labels)
	assert.NotContains(t, third.ChartData.Data.Datasets[0].BackgroundColor, "#000000")
}

func TestAnalyticsService_GetTestTakerResults_RequiresAdmin(t *testing.T) {
	service := newAnalyticsService(&MockRepository{})

	results, err := service.GetTestTakerResults(context.Background(), 9, takerActor())
	assert.True(t, IsUnauthorized(err))
	assert.Nil(t, results)
}

func TestAnalyticsService_GetTestTakerResults_TakerNotFound(t *testing.T) {
	takerRepo := &MockTestTakerRepository{}
	takerRepo.On("GetByID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)

	service := newAnalyticsService(&MockRepository{testTakerRepo: takerRepo})

	results, err := service.GetTestTakerResults(context.Background(), 9, adminActor())
	assert.ErrorIs(t, err, ErrTestTakerNotFound)
	assert.Nil(t, results)
}

func questionsWithStatus(n int, status models.QuestionStatus) []models.Question {
	questions := make([]models.Question, n)
	for i := range questions {
		questions[i] = models.Question{Status: status}
	}
	return questions
}

func TestAnalyticsService_GetPoolAnalytics(t *testing.T) {
	poolRepo := &MockPoolRepository{}
	poolRepo.On("GetByIDForAnalytics", mock.Anything, uint(1)).Return(&models.Pool{
		ID:   1,
		Name: "Networking",
		Categories: []models.Category{
			{Name: "Routing", Questions: append(questionsWithStatus(3, models.QuestionApproved), questionsWithStatus(1, models.QuestionPending)...)},
			{Name: "Switching", Questions: questionsWithStatus(2, models.QuestionApproved)},
			{Name: "Security"},
		},
		Contributors: []models.Contributor{
			{Name: "Ada", Questions: make([]models.Question, 4)},
			{Name: "Grace", Questions: make([]models.Question, 2)},
		},
		Exams: []models.Exam{{ID: 1}, {ID: 2}},
	}, nil)

	service := newAnalyticsService(&MockRepository{poolRepo: poolRepo})

	analytics, err := service.GetPoolAnalytics(context.Background(), 1, adminActor())
	assert.NoError(t, err)

	assert.Equal(t, "Networking", analytics.PoolName)
	assert.Equal(t, 2, analytics.ContributorCount)
	assert.Equal(t, 2, analytics.ExamCount)
	assert.Equal(t, 6, analytics.TotalQuestions)
	assert.Equal(t, 5, analytics.TotalApprovedQuestions)
	assert.Equal(t, map[string]int{"approved": 5, "pending": 1}, analytics.QuestionStatusMetrics)

	assert.Len(t, analytics.TopContributors, 2)
	assert.Equal(t, "Ada", analytics.TopContributors[0].ContributorName)
	assert.InDelta(t, 66.666, analytics.TopContributors[0].ContributionPercentage, 0.01)
	assert.InDelta(t, 33.333, analytics.TopContributors[1].ContributionPercentage, 0.01)

	assert.Equal(t, []string{"Routing", "Switching", "Security"}, []string{
		analytics.TopCategories[0].CategoryName,
		analytics.TopCategories[1].CategoryName,
		analytics.TopCategories[2].CategoryName,
	})
	assert.Equal(t, 4, analytics.TopCategories[0].TotalQuestions)

	// The unsorted distribution keeps the pool's category order.
	assert.Equal(t, "Routing", analytics.CategoryDistribution[0].CategoryName)
	assert.Equal(t, "Question Status Distribution", chartTitle(analytics.StatusDistribution))
	assert.Equal(t, "Category Distribution", chartTitle(analytics.CatDistribution))
	assert.Equal(t, []string{"Routing", "Switching", "Security"}, analytics.CatDistribution.Data.Labels)
	assert.Equal(t, []int{4, 2, 0}, analytics.CatDistribution.Data.Datasets[0].Data)
}

func TestAnalyticsService_GetPoolAnalytics_EmptyPool(t *testing.T) {
	poolRepo := &MockPoolRepository{}
	poolRepo.On("GetByIDForAnalytics", mock.Anything, uint(2)).Return(&models.Pool{
		ID: 2, Name: "Empty",
	}, nil)

	service := newAnalyticsService(&MockRepository{poolRepo: poolRepo})

	analytics, err := service.GetPoolAnalytics(context.Background(), 2, adminActor())
	assert.NoError(t, err)
	assert.Equal(t, 0, analytics.TotalQuestions)
	assert.Equal(t, "No Questions Found", chartTitle(analytics.StatusDistribution))
	assert.Equal(t, "No Questions Found", chartTitle(analytics.CatDistribution))
}

func TestAnalyticsService_GetPoolAnalytics_NotFound(t *testing.T) {
	poolRepo := &MockPoolRepository{}
	poolRepo.On("GetByIDForAnalytics", mock.Anything, uint(3)).Return(nil, gorm.ErrRecordNotFound)

	service := newAnalyticsService(&MockRepository{poolRepo: poolRepo})

	analytics, err := service.GetPoolAnalytics(context.Background(), 3, adminActor())
	assert.ErrorIs(t, err, ErrPoolNotFound)
	assert.Nil(t, analytics)
}

func performanceQuestion(title string, contributor string, correct, total int) models.Question {
	responses := make([]models.TestTakerResponse, 0, total)
	for i := 0; i < total; i++ {
		responses = append(responses, models.TestTakerResponse{IsCorrect: i < correct})
	}
	return models.Question{
		Title:       title,
		Contributor: models.Contributor{Name: contributor},
		Category:    models.Category{Name: "General"},
		Responses:   responses,
	}
}

func TestAnalyticsService_GetExamAnalytics(t *testing.T) {
	longTitle := strings.Repeat("x", 60)

	examRepo := &MockExamRepository{}
	examRepo.On("GetByIDWithQuestions", mock.Anything, uint(5)).Return(&models.Exam{
		ID:                5,
		NumberOfQuestions: 10,
		Questions: []models.Question{
			performanceQuestion("Subnetting basics", "Ada", 2, 4),
			performanceQuestion("Unanswered question", "Grace", 0, 0),
			performanceQuestion(longTitle, "Ada", 3, 3),
		},
		Sessions: []models.TestSession{
			{TestTakerID: 1, Grade: 6},
			{TestTakerID: 2, Grade: 5},
			{TestTakerID: 3, Grade: 3},
		},
	}, nil)

	service := newAnalyticsService(&MockRepository{examRepo: examRepo})

	analytics, err := service.GetExamAnalytics(context.Background(), 5, adminActor())
	assert.NoError(t, err)

	assert.Equal(t, uint(5), analytics.ExamID)
	assert.Equal(t, 3, analytics.TotalQuestions)
	assert.Equal(t, 3, analytics.TotalTestTakers)

	// 60%, 50% and 30%: only strictly above half counts as passed.
	assert.InDelta(t, 33.333, analytics.PercentagePassed, 0.01)
	assert.InDelta(t, 46.666, analytics.AverageGrade, 0.01)
	assert.InDelta(t, 60.0, analytics.HighestGrade, 0.001)
	assert.InDelta(t, 30.0, analytics.LowestGrade, 0.001)

	// The unanswered question is excluded from the performance ranking but
	// still counted in the category chart.
	assert.Len(t, analytics.HighestPerformingQuestions, 2)
	assert.InDelta(t, 100.0, analytics.HighestPerformingQuestions[0].PercentageCorrect, 0.001)
	assert.Equal(t, 40, len([]rune(analytics.HighestPerformingQuestions[0].Title)))
	assert.InDelta(t, 50.0, analytics.LowestPerformingQuestions[0].PercentageCorrect, 0.001)
	assert.Equal(t, "Subnetting basics", analytics.LowestPerformingQuestions[0].Title)

	assert.Equal(t, []string{"General"}, analytics.StatusDistribution.Data.Labels)
	assert.Equal(t, []int{3}, analytics.StatusDistribution.Data.Datasets[0].Data)
}

func TestAnalyticsService_GetExamAnalytics_NotFound(t *testing.T) {
	examRepo := &MockExamRepository{}
	examRepo.On("GetByIDWithQuestions", mock.Anything, uint(8)).Return(nil, gorm.ErrRecordNotFound)

	service := newAnalyticsService(&MockRepository{examRepo: examRepo})

	analytics, err := service.GetExamAnalytics(context.Background(), 8, adminActor())
	assert.ErrorIs(t, err, ErrExamNotFound)
	assert.Nil(t, analytics)
}

func TestGradeStats(t *testing.T) {
	average, highest, lowest := gradeStats([]float64{80, 60, 100})
	assert.InDelta(t, 80.0, average, 0.001)
	assert.InDelta(t, 100.0, highest, 0.001)
	assert.InDelta(t, 60.0, lowest, 0.001)

	// Empty input yields zeroes, not NaN.
	average, highest, lowest = gradeStats(nil)
	assert.Zero(t, average)
	assert.Zero(t, highest)
	assert.Zero(t, lowest)
}
