package services

import (
	"context"
	"errors"

	"github.com/exampool/exam-service/internal/models"
	"github.com/exampool/exam-service/internal/repositories"
	"gorm.io/gorm"
)

// PoolService exposes the pool catalog reads used by the admin UI.
type PoolService interface {
	GetByID(ctx context.Context, id uint) (*models.Pool, error)
	List(ctx context.Context, filters repositories.ListFilters) ([]*models.Pool, error)
	Count(ctx context.Context) (int64, error)
}

type poolService struct {
	repo repositories.Repository
}

func NewPoolService(repo repositories.Repository) PoolService {
	return &poolService{repo: repo}
}

func (s *poolService) GetByID(ctx context.Context, id uint) (*models.Pool, error) {
	pool, err := s.repo.Pool().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPoolNotFound
		}
		return nil, err
	}
	return pool, nil
}

func (s *poolService) List(ctx context.Context, filters repositories.ListFilters) ([]*models.Pool, error) {
	return s.repo.Pool().List(ctx, filters)
}

func (s *poolService) Count(ctx context.Context) (int64, error) {
	return s.repo.Pool().Count(ctx)
}
