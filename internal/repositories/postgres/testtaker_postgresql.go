package postgres

import (
	"context"

	"github.com/exampool/exam-service/internal/models"
	"github.com/exampool/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type TestTakerPostgreSQL struct {
	db *gorm.DB
}

func NewTestTakerPostgreSQL(db *gorm.DB) repositories.TestTakerRepository {
	return &TestTakerPostgreSQL{db: db}
}

func (t *TestTakerPostgreSQL) GetByID(ctx context.Context, id uint) (*models.TestTaker, error) {
	var taker models.TestTaker
	err := t.db.WithContext(ctx).First(&taker, id).Error
	if err != nil {
		return nil, err
	}
	return &taker, nil
}

type TestSessionPostgreSQL struct {
	db *gorm.DB
}

func NewTestSessionPostgreSQL(db *gorm.DB) repositories.TestSessionRepository {
	return &TestSessionPostgreSQL{db: db}
}

// ListSubmittedByExam deliberately carries no ORDER BY: ranking positions are
// computed from query order.
func (t *TestSessionPostgreSQL) ListSubmittedByExam(ctx context.Context, examID uint) ([]*models.TestSession, error) {
	var sessions []*models.TestSession
	err := t.db.WithContext(ctx).
		Preload("TestTaker").
		Where("exam_id = ? AND is_submitted = ?", examID, true).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

type ResponsePostgreSQL struct {
	db *gorm.DB
}

func NewResponsePostgreSQL(db *gorm.DB) repositories.ResponseRepository {
	return &ResponsePostgreSQL{db: db}
}

func (r *ResponsePostgreSQL) ListCorrectByExamAndTaker(ctx context.Context, examID, testTakerID uint) ([]*models.TestTakerResponse, error) {
	var responses []*models.TestTakerResponse
	err := r.db.WithContext(ctx).
		Preload("Question").
		Preload("Question.Category").
		Joins("JOIN questions ON questions.id = test_taker_responses.question_id").
		Where("questions.exam_id = ? AND test_taker_responses.test_taker_id = ? AND test_taker_responses.is_correct = ?",
			examID, testTakerID, true).
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}
