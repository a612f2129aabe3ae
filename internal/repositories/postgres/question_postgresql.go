package postgres

import (
	"context"
	"fmt"

	"github.com/exampool/exam-service/internal/models"
	"github.com/exampool/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) ListApprovedByCategory(ctx context.Context, categoryID uint) ([]*models.Question, error) {
	var questions []*models.Question
	err := q.db.WithContext(ctx).
		Where("cat_id = ? AND status = ?", categoryID, models.QuestionApproved).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// ClaimForExam binds a question to an exam only if it is still approved.
// The conditional update keeps concurrent selections from double-claiming
// the same question. Returns false when another selection won the race.
func (q *QuestionPostgreSQL) ClaimForExam(ctx context.Context, questionID, examID uint) (bool, error) {
	result := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ? AND status = ?", questionID, models.QuestionApproved).
		Updates(map[string]interface{}{
			"exam_id": examID,
			"status":  models.QuestionSelected,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim question %d: %w", questionID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

type CategoryPostgreSQL struct {
	db *gorm.DB
}

func NewCategoryPostgreSQL(db *gorm.DB) repositories.CategoryRepository {
	return &CategoryPostgreSQL{db: db}
}

func (c *CategoryPostgreSQL) Create(ctx context.Context, category *models.Category) error {
	if err := c.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (c *CategoryPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := c.db.WithContext(ctx).First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *CategoryPostgreSQL) List(ctx context.Context, filters repositories.ListFilters) ([]*models.Category, error) {
	var categories []*models.Category
	query := c.db.WithContext(ctx).
		Offset(filters.Skip).
		Limit(repositories.PageSize)

	if filters.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Search+"%")
	}

	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *CategoryPostgreSQL) Update(ctx context.Context, category *models.Category) error {
	result := c.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", category.ID).
		Update("name", category.Name)
	if result.Error != nil {
		return fmt.Errorf("failed to update category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (c *CategoryPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := c.db.WithContext(ctx).Delete(&models.Category{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (c *CategoryPostgreSQL) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&models.Category{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
