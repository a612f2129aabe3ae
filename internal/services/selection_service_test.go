package services

import (
	"context"
	"testing"

	"github.com/exampool/exam-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func approvedQuestions(ids ...uint) []*models.Question {
	questions := make([]*models.Question, 0, len(ids))
	for _, id := range ids {
		questions = append(questions, &models.Question{
			ID:         id,
			CategoryID: 5,
			Status:     models.QuestionApproved,
		})
	}
	return questions
}

func TestQuestionSelector_ClaimsRequestedCount(t *testing.T) {
	questionRepo := &MockQuestionRepository{}
	questionRepo.On("ListApprovedByCategory", mock.Anything, uint(5)).
		Return(approvedQuestions(1, 2, 3, 4, 5), nil)
	questionRepo.On("ClaimForExam", mock.Anything, mock.Anything, uint(10)).Return(true, nil)

	selector := NewQuestionSelector(&MockRepository{questionRepo: questionRepo}, testLogger())

	selected, err := selector.SelectForExam(context.Background(), 10, 5, 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, selected)
	questionRepo.AssertNumberOfCalls(t, "ClaimForExam", 3)
}

func TestQuestionSelector_TruncatesToAvailable(t *testing.T) {
	questionRepo := &MockQuestionRepository{}
	questionRepo.On("ListApprovedByCategory", mock.Anything, uint(5)).
		Return(approvedQuestions(1, 2), nil)
	questionRepo.On("ClaimForExam", mock.Anything, mock.Anything, uint(10)).Return(true, nil)

	selector := NewQuestionSelector(&MockRepository{questionRepo: questionRepo}, testLogger())

	// More questions requested than the category holds: not an error,
	// the draw shrinks to what is there.
	selected, err := selector.SelectForExam(context.Background(), 10, 5, 100)
	assert.NoError(t, err)
	assert.Equal(t, 2, selected)
	questionRepo.AssertNumberOfCalls(t, "ClaimForExam", 2)
}

func TestQuestionSelector_EmptyCategory(t *testing.T) {
	questionRepo := &MockQuestionRepository{}
	questionRepo.On("ListApprovedByCategory", mock.Anything, uint(5)).
		Return([]*models.Question{}, nil)

	selector := NewQuestionSelector(&MockRepository{questionRepo: questionRepo}, testLogger())

	selected, err := selector.SelectForExam(context.Background(), 10, 5, 4)
	assert.NoError(t, err)
	assert.Equal(t, 0, selected)
	questionRepo.AssertNotCalled(t, "ClaimForExam", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuestionSelector_LostClaimRaceShrinksDraw(t *testing.T) {
	questionRepo := &MockQuestionRepository{}
	questionRepo.On("ListApprovedByCategory", mock.Anything, uint(5)).
		Return(approvedQuestions(1, 2, 3), nil)
	// Every claim loses the race: the question was taken by a concurrent
	// selection between listing and claiming.
	questionRepo.On("ClaimForExam", mock.Anything, mock.Anything, uint(10)).Return(false, nil)

	selector := NewQuestionSelector(&MockRepository{questionRepo: questionRepo}, testLogger())

	selected, err := selector.SelectForExam(context.Background(), 10, 5, 3)
	assert.NoError(t, err)
	assert.Equal(t, 0, selected)
	questionRepo.AssertNumberOfCalls(t, "ClaimForExam", 3)
}

func TestQuestionSelector_ClaimErrorStopsSelection(t *testing.T) {
	questionRepo := &MockQuestionRepository{}
	questionRepo.On("ListApprovedByCategory", mock.Anything, uint(5)).
		Return(approvedQuestions(1, 2, 3), nil)
	questionRepo.On("ClaimForExam", mock.Anything, mock.Anything, uint(10)).
		Return(false, assert.AnError).Once()

	selector := NewQuestionSelector(&MockRepository{questionRepo: questionRepo}, testLogger())

	_, err := selector.SelectForExam(context.Background(), 10, 5, 3)
	assert.Error(t, err)
	questionRepo.AssertNumberOfCalls(t, "ClaimForExam", 1)
}
