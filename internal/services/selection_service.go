package services

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/exampool/exam-service/internal/models"
	"github.com/exampool/exam-service/internal/repositories"
)

// QuestionSelector draws a random, non-repeating subset of approved
// questions from a category and binds it to an exam.
type QuestionSelector interface {
	// SelectForExam claims up to count approved questions of the category
	// for the exam and returns how many were actually claimed. Requesting
	// more questions than the category holds is not an error: the selection
	// silently truncates to what is available.
	SelectForExam(ctx context.Context, examID, categoryID uint, count int) (int, error)
}

type questionSelector struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewQuestionSelector(repo repositories.Repository, logger *slog.Logger) QuestionSelector {
	return &questionSelector{
		repo:   repo,
		logger: logger,
	}
}

// SelectForExam shuffles the category's approved questions with a
// Fisher-Yates pass and claims the first count of them one by one. Each
// claim is a conditional update that only fires while the question is still
// approved, so concurrent selections cannot double-claim; a lost race simply
// shrinks this exam's draw.
//
// Known limitation: there is no transaction across the claims. A failure
// mid-loop leaves the already claimed questions bound to the exam, and
// re-running the selection draws from the now smaller approved set.
func (s *questionSelector) SelectForExam(ctx context.Context, examID, categoryID uint, count int) (int, error) {
	questions, err := s.repo.Question().ListApprovedByCategory(ctx, categoryID)
	if err != nil {
		return 0, err
	}

	shuffle(questions)

	take := count
	if take > len(questions) {
		take = len(questions)
	}

	selected := 0
	for _, question := range questions[:take] {
		claimed, err := s.repo.Question().ClaimForExam(ctx, question.ID, examID)
		if err != nil {
			return selected, err
		}
		if !claimed {
			s.logger.Debug("question claimed by concurrent selection, skipping",
				"question_id", question.ID, "exam_id", examID, "category_id", categoryID)
			continue
		}
		selected++
	}

	if selected < count {
		s.logger.Warn("category under-filled exam selection",
			"exam_id", examID,
			"category_id", categoryID,
			"requested", count,
			"selected", selected)
	}

	return selected, nil
}

func shuffle(questions []*models.Question) {
	for i := len(questions) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		questions[i], questions[j] = questions[j], questions[i]
	}
}
