package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/exampool/exam-service/internal/events"
	"github.com/exampool/exam-service/internal/models"
	"github.com/exampool/exam-service/internal/repositories"
	"github.com/exampool/exam-service/internal/utils"
	"gorm.io/gorm"
)

// ExamService schedules exams inside exam groups and drives their
// lifecycle: generated -> published -> gradeReleased, with unpublish
// stepping back to generated.
type ExamService interface {
	Create(ctx context.Context, req *CreateExamRequest, actor Actor) (*models.Exam, error)
	GetByID(ctx context.Context, id uint, actor Actor) (*models.Exam, error)
	List(ctx context.Context, filters repositories.ListFilters, actor Actor) ([]*models.Exam, error)
	Count(ctx context.Context, search string, actor Actor) (int64, error)
	ListByExamGroup(ctx context.Context, examGroupID uint, skip int, actor Actor) ([]*models.Exam, error)
	ListByPool(ctx context.Context, poolID uint, skip int, actor Actor) ([]*models.Exam, error)

	// Intervals is public: it exposes the occupied time slots of a group so
	// clients can render a scheduling calendar.
	Intervals(ctx context.Context, examGroupID uint) ([]Interval, error)

	Publish(ctx context.Context, id uint, actor Actor) (*models.Exam, error)
	Unpublish(ctx context.Context, id uint, actor Actor) (*models.Exam, error)
	ReleaseGrades(ctx context.Context, id uint, actor Actor) (*models.Exam, error)
}

type CreateExamRequest struct {
	Name              string          `json:"name" validate:"required,min=2,max=255"`
	ExamGroupID       uint            `json:"exam_group_id" validate:"required"`
	PoolID            uint            `json:"pool_id" validate:"required"`
	NumberOfQuestions int             `json:"number_of_questions" validate:"required,gt=0"`
	TestingDate       time.Time       `json:"testing_date" validate:"required"`
	Duration          int             `json:"duration" validate:"required,gt=0"` // minutes
	ExamReleaseDate   time.Time       `json:"exam_release_date" validate:"required"`
	Categories        []CategoryQuota `json:"categories" validate:"required,min=1,dive"`
}

type CategoryQuota struct {
	CategoryID uint `json:"category_id" validate:"required"`
	Count      int  `json:"count" validate:"required,gt=0"`
}

// Interval is one occupied [Start, End) slot.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type examService struct {
	repo      repositories.Repository
	selector  QuestionSelector
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *utils.Validator
}

func NewExamService(
	repo repositories.Repository,
	selector QuestionSelector,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *utils.Validator,
) ExamService {
	return &examService{
		repo:      repo,
		selector:  selector,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// ===== SCHEDULING =====

// Create validates the request, rejects overlapping time slots within the
// exam group, creates the exam with status generated and then runs question
// selection per category entry. Selection runs synchronously before Create
// returns, so the caller never observes an exam whose selection is still in
// flight. A selection failure for one category is logged and the remaining
// categories still run: the exam record is already persisted and there is no
// rollback of partially claimed questions.
func (s *examService) Create(ctx context.Context, req *CreateExamRequest, actor Actor) (*models.Exam, error) {
	if err := requireAdmin(actor, "exam", "create"); err != nil {
		return nil, err
	}

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.ExamGroup().GetByID(ctx, req.ExamGroupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamGroupNotFound
		}
		return nil, err
	}

	slots, err := s.repo.Exam().ListSlotsByGroup(ctx, req.ExamGroupID)
	if err != nil {
		return nil, err
	}

	start := req.TestingDate
	end := req.TestingDate.Add(time.Duration(req.Duration) * time.Minute)
	for _, slot := range slots {
		if overlaps(start, end, slot.TestingDate, slot.End()) {
			return nil, ErrExamSlotConflict
		}
	}

	if req.ExamReleaseDate.Before(req.TestingDate) {
		return nil, ErrReleaseBeforeTesting
	}

	exam := &models.Exam{
		Name:              req.Name,
		ExamGroupID:       req.ExamGroupID,
		PoolID:            req.PoolID,
		NumberOfQuestions: req.NumberOfQuestions,
		TestingDate:       req.TestingDate,
		Duration:          req.Duration,
		ExamReleaseDate:   req.ExamReleaseDate,
		Status:            models.ExamGenerated,
	}
	if err := s.repo.Exam().Create(ctx, exam); err != nil {
		return nil, err
	}

	s.logger.Info("exam created",
		"exam_id", exam.ID,
		"exam_group_id", exam.ExamGroupID,
		"testing_date", exam.TestingDate)

	for _, quota := range req.Categories {
		if _, err := s.selector.SelectForExam(ctx, exam.ID, quota.CategoryID, quota.Count); err != nil {
			s.logger.Error("question selection failed for category",
				"exam_id", exam.ID,
				"category_id", quota.CategoryID,
				"error", err)
		}
	}

	s.publishEvent(ctx, events.ExamCreated, exam)

	return exam, nil
}

// overlaps reports whether [s1, e1) and [s2, e2) intersect. Touching
// endpoints do not overlap.
func overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// ===== READS =====

func (s *examService) GetByID(ctx context.Context, id uint, actor Actor) (*models.Exam, error) {
	if err := requireAdmin(actor, "exam", "read"); err != nil {
		return nil, err
	}
	return s.getExam(ctx, id, true)
}

func (s *examService) List(ctx context.Context, filters repositories.ListFilters, actor Actor) ([]*models.Exam, error) {
	if err := requireAdmin(actor, "exam", "list"); err != nil {
		return nil, err
	}
	return s.repo.Exam().List(ctx, filters)
}

func (s *examService) Count(ctx context.Context, search string, actor Actor) (int64, error) {
	if err := requireAdmin(actor, "exam", "count"); err != nil {
		return 0, err
	}
	return s.repo.Exam().Count(ctx, search)
}

func (s *examService) ListByExamGroup(ctx context.Context, examGroupID uint, skip int, actor Actor) ([]*models.Exam, error) {
	if err := requireAdmin(actor, "exam", "list"); err != nil {
		return nil, err
	}
	return s.repo.Exam().ListByExamGroup(ctx, examGroupID, skip)
}

func (s *examService) ListByPool(ctx context.Context, poolID uint, skip int, actor Actor) ([]*models.Exam, error) {
	if err := requireAdmin(actor, "exam", "list"); err != nil {
		return nil, err
	}
	return s.repo.Exam().ListByPool(ctx, poolID, skip)
}

func (s *examService) Intervals(ctx context.Context, examGroupID uint) ([]Interval, error) {
	slots, err := s.repo.Exam().ListSlotsByGroup(ctx, examGroupID)
	if err != nil {
		return nil, err
	}

	intervals := make([]Interval, 0, len(slots))
	for _, slot := range slots {
		intervals = append(intervals, Interval{
			Start: slot.TestingDate,
			End:   slot.End(),
		})
	}
	return intervals, nil
}

// ===== LIFECYCLE =====

func (s *examService) Publish(ctx context.Context, id uint, actor Actor) (*models.Exam, error) {
	if err := requireAdmin(actor, "exam", "publish"); err != nil {
		return nil, err
	}

	exam, err := s.getExam(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if !exam.TestingDate.After(time.Now()) {
		return nil, ErrTestingDatePassed
	}

	updated, err := s.repo.Exam().UpdateStatus(ctx, id, models.ExamPublished)
	if err != nil {
		return nil, err
	}

	s.logger.Info("exam published", "exam_id", id)
	s.publishEvent(ctx, events.ExamPublished, updated)
	return updated, nil
}

func (s *examService) Unpublish(ctx context.Context, id uint, actor Actor) (*models.Exam, error) {
	if err := requireAdmin(actor, "exam", "unpublish"); err != nil {
		return nil, err
	}

	exam, err := s.getExam(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if !exam.TestingDate.After(time.Now()) {
		return nil, ErrExamLocked
	}

	updated, err := s.repo.Exam().UpdateStatus(ctx, id, models.ExamGenerated)
	if err != nil {
		return nil, err
	}

	s.logger.Info("exam unpublished", "exam_id", id)
	s.publishEvent(ctx, events.ExamUnpublished, updated)
	return updated, nil
}

// ReleaseGrades flips a published exam to gradeReleased once the grading
// window has passed: at least two days after the testing date.
func (s *examService) ReleaseGrades(ctx context.Context, id uint, actor Actor) (*models.Exam, error) {
	if err := requireAdmin(actor, "exam", "release_grades"); err != nil {
		return nil, err
	}

	exam, err := s.getExam(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if exam.Status != models.ExamPublished {
		return nil, ErrBadRequest
	}
	if time.Now().Before(exam.TestingDate.Add(models.GradeReleaseDelay)) {
		return nil, ErrGradeReleaseTooEarly
	}

	updated, err := s.repo.Exam().UpdateStatus(ctx, id, models.ExamGradeReleased)
	if err != nil {
		return nil, err
	}

	s.logger.Info("exam grades released", "exam_id", id)
	s.publishEvent(ctx, events.ExamGradesReleased, updated)
	return updated, nil
}

// ===== HELPERS =====

func (s *examService) getExam(ctx context.Context, id uint, withDetails bool) (*models.Exam, error) {
	var exam *models.Exam
	var err error
	if withDetails {
		exam, err = s.repo.Exam().GetByIDWithDetails(ctx, id)
	} else {
		exam, err = s.repo.Exam().GetByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}
	return exam, nil
}

// publishEvent pushes a lifecycle event; publishing failures are logged,
// never surfaced to the caller.
func (s *examService) publishEvent(ctx context.Context, eventType events.ExamEventType, exam *models.Exam) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExamEvent(ctx, events.NewExamEvent(eventType, exam)); err != nil {
		s.logger.Error("failed to publish exam event",
			"event_type", eventType,
			"exam_id", exam.ID,
			"error", err)
	}
}
