package postgres

import (
	"context"
	"fmt"

	"github.com/exampool/exam-service/internal/models"
	"github.com/exampool/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type ExamPostgreSQL struct {
	db *gorm.DB
}

func NewExamPostgreSQL(db *gorm.DB) repositories.ExamRepository {
	return &ExamPostgreSQL{db: db}
}

func (e *ExamPostgreSQL) Create(ctx context.Context, exam *models.Exam) error {
	if err := e.db.WithContext(ctx).Create(exam).Error; err != nil {
		return fmt.Errorf("failed to create exam: %w", err)
	}
	return nil
}

func (e *ExamPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Exam, error) {
	var exam models.Exam
	err := e.db.WithContext(ctx).First(&exam, id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

// GetByIDWithDetails loads the exam together with its group and pool.
func (e *ExamPostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.Exam, error) {
	var exam models.Exam
	err := e.db.WithContext(ctx).
		Preload("ExamGroup").
		Preload("Pool").
		First(&exam, id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

// GetByIDWithQuestions loads everything exam analytics folds over: the
// questions with their categories, contributors and responses, and the
// submitted sessions.
func (e *ExamPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Exam, error) {
	var exam models.Exam
	err := e.db.WithContext(ctx).
		Preload("Questions").
		Preload("Questions.Category").
		Preload("Questions.Contributor").
		Preload("Questions.Responses").
		Preload("Sessions", "is_submitted = ?", true).
		First(&exam, id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (e *ExamPostgreSQL) List(ctx context.Context, filters repositories.ListFilters) ([]*models.Exam, error) {
	var exams []*models.Exam
	query := e.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(filters.Skip).
		Limit(repositories.PageSize)

	if filters.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Search+"%")
	}

	if err := query.Find(&exams).Error; err != nil {
		return nil, err
	}
	return exams, nil
}

func (e *ExamPostgreSQL) Count(ctx context.Context, search string) (int64, error) {
	var count int64
	query := e.db.WithContext(ctx).Model(&models.Exam{})
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (e *ExamPostgreSQL) ListByExamGroup(ctx context.Context, examGroupID uint, skip int) ([]*models.Exam, error) {
	var exams []*models.Exam
	err := e.db.WithContext(ctx).
		Where("exam_group_id = ?", examGroupID).
		Order("created_at DESC").
		Offset(skip).
		Limit(repositories.PageSize).
		Find(&exams).Error
	if err != nil {
		return nil, err
	}
	return exams, nil
}

func (e *ExamPostgreSQL) ListByPool(ctx context.Context, poolID uint, skip int) ([]*models.Exam, error) {
	var exams []*models.Exam
	err := e.db.WithContext(ctx).
		Where("pool_id = ?", poolID).
		Order("created_at DESC").
		Offset(skip).
		Limit(repositories.PageSize).
		Find(&exams).Error
	if err != nil {
		return nil, err
	}
	return exams, nil
}

// ListSlotsByGroup projects every exam of the group onto its occupied
// time slot.
func (e *ExamPostgreSQL) ListSlotsByGroup(ctx context.Context, examGroupID uint) ([]repositories.ExamSlot, error) {
	var slots []repositories.ExamSlot
	err := e.db.WithContext(ctx).
		Model(&models.Exam{}).
		Select("testing_date", "duration").
		Where("exam_group_id = ?", examGroupID).
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// ListReleasedByGroup returns the group's exams that test takers have seen,
// meaning every status except generated, newest first, pools preloaded.
func (e *ExamPostgreSQL) ListReleasedByGroup(ctx context.Context, examGroupID uint) ([]*models.Exam, error) {
	var exams []*models.Exam
	err := e.db.WithContext(ctx).
		Preload("Pool").
		Where("exam_group_id = ? AND status <> ?", examGroupID, models.ExamGenerated).
		Order("created_at DESC").
		Find(&exams).Error
	if err != nil {
		return nil, err
	}
	return exams, nil
}

func (e *ExamPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.ExamStatus) (*models.Exam, error) {
	if err := e.db.WithContext(ctx).
		Model(&models.Exam{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update exam status: %w", err)
	}
	return e.GetByID(ctx, id)
}

type ExamGroupPostgreSQL struct {
	db *gorm.DB
}

func NewExamGroupPostgreSQL(db *gorm.DB) repositories.ExamGroupRepository {
	return &ExamGroupPostgreSQL{db: db}
}

func (g *ExamGroupPostgreSQL) GetByID(ctx context.Context, id uint) (*models.ExamGroup, error) {
	var group models.ExamGroup
	err := g.db.WithContext(ctx).First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}
