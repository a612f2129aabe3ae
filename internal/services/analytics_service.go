package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/exampool/exam-service/internal/cache"
	"github.com/exampool/exam-service/internal/charts"
	"github.com/exampool/exam-service/internal/models"
	"github.com/exampool/exam-service/internal/repositories"
	"gorm.io/gorm"
)

// AnalyticsService provides the three read-only reporting views: per test
// taker, per pool and per exam. Each view fetches the related records, folds
// them into aggregates and shapes chart payloads for the frontend.
type AnalyticsService interface {
	GetTestTakerResults(ctx context.Context, testTakerID uint, actor Actor) (*TestTakerResults, error)
	GetPoolAnalytics(ctx context.Context, poolID uint, actor Actor) (*PoolAnalytics, error)
	GetExamAnalytics(ctx context.Context, examID uint, actor Actor) (*ExamAnalytics, error)
}

const analyticsCacheTTL = time.Minute

type analyticsService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	colors charts.ColorSource
	logger *slog.Logger
}

func NewAnalyticsService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	colors charts.ColorSource,
	logger *slog.Logger,
) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		cache:  cacheService,
		colors: colors,
		logger: logger,
	}
}

// ===== RESPONSE SHAPES =====
// Field names follow the wire contract of the existing frontend.

type ExamResult struct {
	ID             uint           `json:"id"`
	Name           string         `json:"name"`
	Pool           string         `json:"pool"`
	NumOfQuestions int            `json:"numOfQuestions"`
	Categories     map[string]int `json:"categories"`
	Grade          float64        `json:"grade"`
	TestTime       int            `json:"testTime"`
	TestDuration   int            `json:"testDuration"`
	Ranking        int            `json:"ranking"`
	ChartData      charts.Payload `json:"chartData"`
}

type TestTakerResults struct {
	Result       []ExamResult `json:"result"`
	AverageGrade float64      `json:"averageGrade"`
	HighestGrade float64      `json:"highestGrade"`
	LowestGrade  float64      `json:"lowestGrade"`
	Username     string       `json:"username"`
}

type ContributorShare struct {
	ContributorName        string  `json:"contributorName"`
	ContributionPercentage float64 `json:"contributionPercentage"`
}

type CategoryTotal struct {
	CategoryName   string `json:"categoryName"`
	TotalQuestions int    `json:"totalQuestions"`
}

type PoolAnalytics struct {
	PoolName               string         `json:"poolName"`
	ContributorCount       int            `json:"contributorCount"`
	CategoryDistribution   []CategoryTotal `json:"categoryDistribution"`
	ExamCount              int            `json:"examCount"`
	TotalQuestions         int            `json:"totalQuestions"`
	TopContributors        []ContributorShare `json:"topContributors"`
	TopCategories          []CategoryTotal `json:"topCategories"`
	QuestionStatusMetrics  map[string]int `json:"questionStatusMetrics"`
	TotalApprovedQuestions int            `json:"totalApprovedQuestions"`
	StatusDistribution     charts.Payload `json:"statusDistribution"`
	CatDistribution        charts.Payload `json:"catDistribution"`
}

type QuestionPerformance struct {
	Title             string  `json:"title"`
	ContributorID     uint    `json:"contrId"`
	ContributorName   string  `json:"contrName"`
	PercentageCorrect float64 `json:"percentageCorrect"`
}

type ExamAnalytics struct {
	ExamID                     uint                  `json:"examId"`
	TotalQuestions             int                   `json:"totalQuestions"`
	TotalTestTakers            int                   `json:"totalTestTakers"`
	PercentagePassed           float64               `json:"percentagePassed"`
	AverageGrade               float64               `json:"averageGrade"`
	HighestGrade               float64               `json:"highestGrade"`
	LowestGrade                float64               `json:"lowestGrade"`
	HighestPerformingQuestions []QuestionPerformance `json:"highestPerformingQuestions"`
	LowestPerformingQuestions  []QuestionPerformance `json:"lowestPerformingQuestions"`
	StatusDistribution         charts.Payload        `json:"statusDistribution"`
}

// ===== TEST TAKER RESULTS =====

// GetTestTakerResults reports, for every released exam in the taker's group
// the taker submitted, the grade percentage, per-category correct counts
// with an "Incorrect" overflow bucket, time spent, and the taker's position
// in the exam's submitted-session list. The position follows query order,
// not grade order; see DESIGN.md for why that is kept.
func (s *analyticsService) GetTestTakerResults(ctx context.Context, testTakerID uint, actor Actor) (*TestTakerResults, error) {
	if err := requireAdmin(actor, "test_taker", "view_results"); err != nil {
		return nil, err
	}

	taker, err := s.repo.TestTaker().GetByID(ctx, testTakerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestTakerNotFound
		}
		return nil, err
	}

	exams, err := s.repo.Exam().ListReleasedByGroup(ctx, taker.ExamGroupID)
	if err != nil {
		return nil, err
	}

	results := make([]ExamResult, 0, len(exams))
	grades := make([]float64, 0, len(exams))

	for _, exam := range exams {
		sessions, err := s.repo.TestSession().ListSubmittedByExam(ctx, exam.ID)
		if err != nil {
			return nil, err
		}

		session, ranking := findSession(sessions, testTakerID)
		if session == nil {
			// The taker never submitted this exam; nothing to report.
			continue
		}

		responses, err := s.repo.Response().ListCorrectByExamAndTaker(ctx, exam.ID, testTakerID)
		if err != nil {
			return nil, err
		}

		counts := newOrderedCounts()
		for _, response := range responses {
			counts.Add(response.Question.Category.Name, 1)
		}
		incorrect := exam.NumberOfQuestions - len(responses)
		if incorrect > 0 {
			counts.Add("Incorrect", incorrect)
		}

		grade := float64(session.Grade) / float64(exam.NumberOfQuestions) * 100
		grades = append(grades, grade)

		testTime := int(math.Round(math.Abs(session.UpdatedAt.Sub(session.CreatedAt).Minutes())))

		chart := charts.Doughnut(
			counts.Labels(),
			counts.Data(),
			s.colors.Colors(counts.Len(), incorrect > 0),
			"", 0,
		)

		results = append(results, ExamResult{
			ID:             exam.ID,
			Name:           exam.Name,
			Pool:           exam.Pool.Name,
			NumOfQuestions: exam.NumberOfQuestions,
			Categories:     counts.Map(),
			Grade:          grade,
			TestTime:       testTime,
			TestDuration:   exam.Duration,
			Ranking:        ranking,
			ChartData:      chart,
		})
	}

	average, highest, lowest := gradeStats(grades)

	return &TestTakerResults{
		Result:       results,
		AverageGrade: average,
		HighestGrade: highest,
		LowestGrade:  lowest,
		Username:     taker.Username,
	}, nil
}

// ===== POOL ANALYTICS =====

func (s *analyticsService) GetPoolAnalytics(ctx context.Context, poolID uint, actor Actor) (*PoolAnalytics, error) {
	if err := requireAdmin(actor, "pool", "view_analytics"); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("analytics:pool:%d", poolID)
	var cached PoolAnalytics
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	pool, err := s.repo.Pool().GetByIDForAnalytics(ctx, poolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPoolNotFound
		}
		return nil, fmt.Errorf("failed to load pool analytics: %w", err)
	}

	categoryDistribution := make([]CategoryTotal, 0, len(pool.Categories))
	totalQuestions := 0
	statusCounts := newOrderedCounts()
	for _, category := range pool.Categories {
		categoryDistribution = append(categoryDistribution, CategoryTotal{
			CategoryName:   category.Name,
			TotalQuestions: len(category.Questions),
		})
		totalQuestions += len(category.Questions)
		for _, question := range category.Questions {
			statusCounts.Add(string(question.Status), 1)
		}
	}

	topContributors := make([]ContributorShare, 0, len(pool.Contributors))
	for _, contributor := range pool.Contributors {
		share := 0.0
		if totalQuestions > 0 {
			share = float64(len(contributor.Questions)) / float64(totalQuestions) * 100
		}
		topContributors = append(topContributors, ContributorShare{
			ContributorName:        contributor.Name,
			ContributionPercentage: share,
		})
	}
	// Stable sort keeps input order on ties.
	sort.SliceStable(topContributors, func(i, j int) bool {
		return topContributors[i].ContributionPercentage > topContributors[j].ContributionPercentage
	})
	topContributors = topN(topContributors, 3)

	topCategories := make([]CategoryTotal, len(categoryDistribution))
	copy(topCategories, categoryDistribution)
	sort.SliceStable(topCategories, func(i, j int) bool {
		return topCategories[i].TotalQuestions > topCategories[j].TotalQuestions
	})
	topCategories = topN(topCategories, 3)

	statusTitle := "Question Status Distribution"
	if statusCounts.Len() == 0 {
		statusTitle = "No Questions Found"
	}
	statusChart := charts.Doughnut(
		statusCounts.Labels(),
		statusCounts.Data(),
		s.colors.Colors(statusCounts.Len(), false),
		statusTitle, 22,
	)

	categoryLabels := make([]string, 0, len(categoryDistribution))
	categoryData := make([]int, 0, len(categoryDistribution))
	for _, entry := range categoryDistribution {
		categoryLabels = append(categoryLabels, entry.CategoryName)
		categoryData = append(categoryData, entry.TotalQuestions)
	}
	categoryTitle := "Category Distribution"
	if len(categoryData) == 0 {
		categoryTitle = "No Questions Found"
	}
	categoryChart := charts.Bar(
		"Total Questions",
		categoryLabels,
		categoryData,
		s.colors.Colors(len(categoryData), false),
		categoryTitle, 22,
	)

	analytics := &PoolAnalytics{
		PoolName:               pool.Name,
		ContributorCount:       len(pool.Contributors),
		CategoryDistribution:   categoryDistribution,
		ExamCount:              len(pool.Exams),
		TotalQuestions:         totalQuestions,
		TopContributors:        topContributors,
		TopCategories:          topCategories,
		QuestionStatusMetrics:  statusCounts.Map(),
		TotalApprovedQuestions: statusCounts.Get(string(models.QuestionApproved)),
		StatusDistribution:     statusChart,
		CatDistribution:        categoryChart,
	}

	s.cacheSet(ctx, cacheKey, analytics)
	return analytics, nil
}

// ===== EXAM ANALYTICS =====

const questionTitleMaxLen = 40

func (s *analyticsService) GetExamAnalytics(ctx context.Context, examID uint, actor Actor) (*ExamAnalytics, error) {
	if err := requireAdmin(actor, "exam", "view_analytics"); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("analytics:exam:%d", examID)
	var cached ExamAnalytics
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	exam, err := s.repo.Exam().GetByIDWithQuestions(ctx, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		// Kept distinct from not-found so callers can log the real cause.
		return nil, fmt.Errorf("failed to load exam analytics: %w", err)
	}

	totalTestTakers := len(exam.Sessions)
	passed := 0
	rawGrades := make([]float64, 0, totalTestTakers)
	for _, session := range exam.Sessions {
		percentage := float64(session.Grade) / float64(exam.NumberOfQuestions) * 100
		if percentage > 50 {
			passed++
		}
		rawGrades = append(rawGrades, percentage)
	}
	averageGrade, highestGrade, lowestGrade := gradeStats(rawGrades)

	percentagePassed := 0.0
	if totalTestTakers > 0 {
		percentagePassed = float64(passed) / float64(totalTestTakers) * 100
	}

	performance := make([]QuestionPerformance, 0, len(exam.Questions))
	categoryCounts := newOrderedCounts()
	for _, question := range exam.Questions {
		categoryCounts.Add(question.Category.Name, 1)

		totalResponses := len(question.Responses)
		if totalResponses == 0 {
			// A question nobody answered has no defined correctness rate;
			// it is excluded from the performance ranking.
			continue
		}
		correct := 0
		for _, response := range question.Responses {
			if response.IsCorrect {
				correct++
			}
		}
		performance = append(performance, QuestionPerformance{
			Title:             truncate(question.Title, questionTitleMaxLen),
			ContributorID:     question.ContributorID,
			ContributorName:   question.Contributor.Name,
			PercentageCorrect: float64(correct) / float64(totalResponses) * 100,
		})
	}

	sort.SliceStable(performance, func(i, j int) bool {
		return performance[i].PercentageCorrect > performance[j].PercentageCorrect
	})
	highestPerforming := topN(performance, 3)
	lowestPerforming := bottomN(performance, 3)

	title := "Question Status Distribution"
	if categoryCounts.Len() == 0 {
		title = "No Questions Found"
	}
	chart := charts.Doughnut(
		categoryCounts.Labels(),
		categoryCounts.Data(),
		s.colors.Colors(categoryCounts.Len(), false),
		title, 14,
	)

	analytics := &ExamAnalytics{
		ExamID:                     exam.ID,
		TotalQuestions:             len(exam.Questions),
		TotalTestTakers:            totalTestTakers,
		PercentagePassed:           percentagePassed,
		AverageGrade:               averageGrade,
		HighestGrade:               highestGrade,
		LowestGrade:                lowestGrade,
		HighestPerformingQuestions: highestPerforming,
		LowestPerformingQuestions:  lowestPerforming,
		StatusDistribution:         chart,
	}

	s.cacheSet(ctx, cacheKey, analytics)
	return analytics, nil
}

// ===== HELPERS =====

func findSession(sessions []*models.TestSession, testTakerID uint) (*models.TestSession, int) {
	for i, session := range sessions {
		if session.TestTakerID == testTakerID {
			return session, i + 1
		}
	}
	return nil, 0
}

func gradeStats(grades []float64) (average, highest, lowest float64) {
	if len(grades) == 0 {
		return 0, 0, 0
	}
	sum := 0.0
	highest = grades[0]
	lowest = grades[0]
	for _, grade := range grades {
		sum += grade
		if grade > highest {
			highest = grade
		}
		if grade < lowest {
			lowest = grade
		}
	}
	return sum / float64(len(grades)), highest, lowest
}

func topN[T any](items []T, n int) []T {
	if len(items) < n {
		n = len(items)
	}
	return items[:n:n]
}

// bottomN returns the last n items in reverse order, mirroring the "worst
// first" presentation of the performance ranking.
func bottomN[T any](items []T, n int) []T {
	if len(items) < n {
		n = len(items)
	}
	out := make([]T, 0, n)
	for i := len(items) - 1; i >= len(items)-n; i-- {
		out = append(out, items[i])
	}
	return out
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}

func (s *analyticsService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	if err := s.cache.Get(ctx, key, dest); err != nil {
		return false
	}
	return true
}

func (s *analyticsService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, analyticsCacheTTL); err != nil {
		s.logger.Warn("failed to cache analytics view", "key", key, "error", err)
	}
}

// orderedCounts is a string counter that remembers insertion order, so
// chart labels come out in the order categories were first seen.
type orderedCounts struct {
	order  []string
	counts map[string]int
}

func newOrderedCounts() *orderedCounts {
	return &orderedCounts{counts: make(map[string]int)}
}

func (c *orderedCounts) Add(key string, n int) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key] += n
}

func (c *orderedCounts) Get(key string) int {
	return c.counts[key]
}

func (c *orderedCounts) Len() int {
	return len(c.order)
}

func (c *orderedCounts) Labels() []string {
	return c.order
}

func (c *orderedCounts) Data() []int {
	data := make([]int, 0, len(c.order))
	for _, key := range c.order {
		data = append(data, c.counts[key])
	}
	return data
}

func (c *orderedCounts) Map() map[string]int {
	return c.counts
}
