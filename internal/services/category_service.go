package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/exampool/exam-service/internal/models"
	"github.com/exampool/exam-service/internal/repositories"
	"github.com/exampool/exam-service/internal/utils"
	"gorm.io/gorm"
)

// CategoryService manages the category catalog of a pool. All operations are
// public: the category listing backs the exam creation form.
type CategoryService interface {
	Create(ctx context.Context, req *CreateCategoryRequest) (*models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	List(ctx context.Context, filters repositories.ListFilters) ([]*models.Category, error)
	Rename(ctx context.Context, id uint, name string) (*models.Category, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type CreateCategoryRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=255"`
	NumOfQuestions int    `json:"num_of_questions" validate:"min=0"`
	PoolID         uint   `json:"pool_id" validate:"required"`
}

type categoryService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
}

func NewCategoryService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator) CategoryService {
	return &categoryService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *categoryService) Create(ctx context.Context, req *CreateCategoryRequest) (*models.Category, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:           req.Name,
		NumOfQuestions: req.NumOfQuestions,
		PoolID:         req.PoolID,
	}
	if err := s.repo.Category().Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category created", "category_id", category.ID, "pool_id", category.PoolID)
	return category, nil
}

func (s *categoryService) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.repo.Category().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context, filters repositories.ListFilters) ([]*models.Category, error) {
	return s.repo.Category().List(ctx, filters)
}

func (s *categoryService) Rename(ctx context.Context, id uint, name string) (*models.Category, error) {
	if name == "" {
		return nil, ValidationErrors{{Field: "name", Message: "is required"}}
	}

	category := &models.Category{ID: id, Name: name}
	if err := s.repo.Category().Update(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *categoryService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Category().Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	s.logger.Info("category deleted", "category_id", id)
	return nil
}

func (s *categoryService) Count(ctx context.Context) (int64, error) {
	return s.repo.Category().Count(ctx)
}
