package postgres

import (
	"context"

	"github.com/exampool/exam-service/internal/models"
	"github.com/exampool/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type PoolPostgreSQL struct {
	db *gorm.DB
}

func NewPoolPostgreSQL(db *gorm.DB) repositories.PoolRepository {
	return &PoolPostgreSQL{db: db}
}

func (p *PoolPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Pool, error) {
	var pool models.Pool
	err := p.db.WithContext(ctx).First(&pool, id).Error
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

// GetByIDForAnalytics loads the pool with everything the pool analytics view
// folds over: categories with their questions, contributors with their
// questions, and the pool's exams.
func (p *PoolPostgreSQL) GetByIDForAnalytics(ctx context.Context, id uint) (*models.Pool, error) {
	var pool models.Pool
	err := p.db.WithContext(ctx).
		Preload("Categories").
		Preload("Categories.Questions").
		Preload("Contributors").
		Preload("Contributors.Questions").
		Preload("Exams").
		First(&pool, id).Error
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

func (p *PoolPostgreSQL) List(ctx context.Context, filters repositories.ListFilters) ([]*models.Pool, error) {
	var pools []*models.Pool
	query := p.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(filters.Skip).
		Limit(repositories.PageSize)

	if filters.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Search+"%")
	}

	if err := query.Find(&pools).Error; err != nil {
		return nil, err
	}
	return pools, nil
}

func (p *PoolPostgreSQL) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := p.db.WithContext(ctx).Model(&models.Pool{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
