package repositories

import (
	"context"
	"time"

	"github.com/exampool/exam-service/internal/models"
)

// PageSize is the fixed page size of all paginated listings.
const PageSize = 6

// ===== SHARED FILTER STRUCTS =====

type ListFilters struct {
	Skip   int    `json:"skip"`
	Search string `json:"search"`
}

// ExamSlot is the projection used for overlap checks: one occupied
// [TestingDate, TestingDate+Duration) interval.
type ExamSlot struct {
	TestingDate time.Time `json:"testing_date"`
	Duration    int       `json:"duration"` // minutes
}

// End returns the exclusive end of the slot.
func (s ExamSlot) End() time.Time {
	return s.TestingDate.Add(time.Duration(s.Duration) * time.Minute)
}

// ===== AGGREGATE REPOSITORY =====

type Repository interface {
	Pool() PoolRepository
	Category() CategoryRepository
	Exam() ExamRepository
	ExamGroup() ExamGroupRepository
	Question() QuestionRepository
	TestTaker() TestTakerRepository
	TestSession() TestSessionRepository
	Response() ResponseRepository
}

type ExamRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id uint) (*models.Exam, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.Exam, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Exam, error)
	List(ctx context.Context, filters ListFilters) ([]*models.Exam, error)
	Count(ctx context.Context, search string) (int64, error)
	ListByExamGroup(ctx context.Context, examGroupID uint, skip int) ([]*models.Exam, error)
	ListByPool(ctx context.Context, poolID uint, skip int) ([]*models.Exam, error)
	ListSlotsByGroup(ctx context.Context, examGroupID uint) ([]ExamSlot, error)
	ListReleasedByGroup(ctx context.Context, examGroupID uint) ([]*models.Exam, error)
	UpdateStatus(ctx context.Context, id uint, status models.ExamStatus) (*models.Exam, error)
}

type ExamGroupRepository interface {
	GetByID(ctx context.Context, id uint) (*models.ExamGroup, error)
}

type QuestionRepository interface {
	ListApprovedByCategory(ctx context.Context, categoryID uint) ([]*models.Question, error)
	ClaimForExam(ctx context.Context, questionID, examID uint) (bool, error)
}

type PoolRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Pool, error)
	GetByIDForAnalytics(ctx context.Context, id uint) (*models.Pool, error)
	List(ctx context.Context, filters ListFilters) ([]*models.Pool, error)
	Count(ctx context.Context) (int64, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	List(ctx context.Context, filters ListFilters) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type TestTakerRepository interface {
	GetByID(ctx context.Context, id uint) (*models.TestTaker, error)
}

type TestSessionRepository interface {
	// ListSubmittedByExam returns the exam's submitted sessions in query
	// order, test takers preloaded. Callers that compute rankings depend on
	// that order being stable, not sorted.
	ListSubmittedByExam(ctx context.Context, examID uint) ([]*models.TestSession, error)
}

type ResponseRepository interface {
	// ListCorrectByExamAndTaker returns the taker's correct responses to the
	// exam's questions, question and category preloaded.
	ListCorrectByExamAndTaker(ctx context.Context, examID, testTakerID uint) ([]*models.TestTakerResponse, error)
}
