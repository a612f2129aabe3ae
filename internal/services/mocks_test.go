package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/exampool/exam-service/internal/models"
	"github.com/exampool/exam-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// MockExamRepository is a mock implementation of ExamRepository
type MockExamRepository struct {
	mock.Mock
}

func (m *MockExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	args := m.Called(ctx, exam)
	return args.Error(0)
}

func (m *MockExamRepository) GetByID(ctx context.Context, id uint) (*models.Exam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

func (m *MockExamRepository) GetByIDWithDetails(ctx context.Context, id uint) (*models.Exam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

func (m *MockExamRepository) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Exam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

func (m *MockExamRepository) List(ctx context.Context, filters repositories.ListFilters) ([]*models.Exam, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Exam), args.Error(1)
}

func (m *MockExamRepository) Count(ctx context.Context, search string) (int64, error) {
	args := m.Called(ctx, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExamRepository) ListByExamGroup(ctx context.Context, examGroupID uint, skip int) ([]*models.Exam, error) {
	args := m.Called(ctx, examGroupID, skip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Exam), args.Error(1)
}

func (m *MockExamRepository) ListByPool(ctx context.Context, poolID uint, skip int) ([]*models.Exam, error) {
	args := m.Called(ctx, poolID, skip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Exam), args.Error(1)
}

func (m *MockExamRepository) ListSlotsByGroup(ctx context.Context, examGroupID uint) ([]repositories.ExamSlot, error) {
	args := m.Called(ctx, examGroupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.ExamSlot), args.Error(1)
}

func (m *MockExamRepository) ListReleasedByGroup(ctx context.Context, examGroupID uint) ([]*models.Exam, error) {
	args := m.Called(ctx, examGroupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Exam), args.Error(1)
}

func (m *MockExamRepository) UpdateStatus(ctx context.Context, id uint, status models.ExamStatus) (*models.Exam, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

// MockQuestionRepository is a mock implementation of QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) ListApprovedByCategory(ctx context.Context, categoryID uint) ([]*models.Question, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) ClaimForExam(ctx context.Context, questionID, examID uint) (bool, error) {
	args := m.Called(ctx, questionID, examID)
	return args.Bool(0), args.Error(1)
}

// MockPoolRepository is a mock implementation of PoolRepository
type MockPoolRepository struct {
	mock.Mock
}

func (m *MockPoolRepository) GetByID(ctx context.Context, id uint) (*models.Pool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pool), args.Error(1)
}

func (m *MockPoolRepository) GetByIDForAnalytics(ctx context.Context, id uint) (*models.Pool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pool), args.Error(1)
}

func (m *MockPoolRepository) List(ctx context.Context, filters repositories.ListFilters) ([]*models.Pool, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Pool), args.Error(1)
}

func (m *MockPoolRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context, filters repositories.ListFilters) ([]*models.Category, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockExamGroupRepository is a mock implementation of ExamGroupRepository
type MockExamGroupRepository struct {
	mock.Mock
}

func (m *MockExamGroupRepository) GetByID(ctx context.Context, id uint) (*models.ExamGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamGroup), args.Error(1)
}

// MockTestTakerRepository is a mock implementation of TestTakerRepository
type MockTestTakerRepository struct {
	mock.Mock
}

func (m *MockTestTakerRepository) GetByID(ctx context.Context, id uint) (*models.TestTaker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TestTaker), args.Error(1)
}

// MockTestSessionRepository is a mock implementation of TestSessionRepository
type MockTestSessionRepository struct {
	mock.Mock
}

func (m *MockTestSessionRepository) ListSubmittedByExam(ctx context.Context, examID uint) ([]*models.TestSession, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TestSession), args.Error(1)
}

// MockResponseRepository is a mock implementation of ResponseRepository
type MockResponseRepository struct {
	mock.Mock
}

func (m *MockResponseRepository) ListCorrectByExamAndTaker(ctx context.Context, examID, testTakerID uint) ([]*models.TestTakerResponse, error) {
	args := m.Called(ctx, examID, testTakerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TestTakerResponse), args.Error(1)
}

// MockRepository is a mock implementation of the aggregate Repository.
// Unused sub-repositories stay nil.
type MockRepository struct {
	examRepo        *MockExamRepository
	examGroupRepo   *MockExamGroupRepository
	questionRepo    *MockQuestionRepository
	poolRepo        *MockPoolRepository
	categoryRepo    *MockCategoryRepository
	testTakerRepo   *MockTestTakerRepository
	testSessionRepo *MockTestSessionRepository
	responseRepo    *MockResponseRepository
}

func (m *MockRepository) Pool() repositories.PoolRepository { return m.poolRepo }
func (m *MockRepository) Category() repositories.CategoryRepository { return m.categoryRepo }
func (m *MockRepository) Exam() repositories.ExamRepository { return m.examRepo }
func (m *MockRepository) ExamGroup() repositories.ExamGroupRepository { return m.examGroupRepo }
func (m *MockRepository) Question() repositories.QuestionRepository { return m.questionRepo }
func (m *MockRepository) TestTaker() repositories.TestTakerRepository { return m.testTakerRepo }
func (m *MockRepository) TestSession() repositories.TestSessionRepository {
	return m.testSessionRepo
}
func (m *MockRepository) Response() repositories.ResponseRepository { return m.responseRepo }

// testLogger discards all output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubColorSource yields a fixed palette so chart assertions are
// deterministic.
type stubColorSource struct{}

func (stubColorSource) Colors(n int, includeBlack bool) []string {
	colors := make([]string, n)
	for i := range colors {
		colors[i] = "#ababab"
	}
	if includeBlack && n > 0 {
		colors[n-1] = "#000000"
	}
	return colors
}
