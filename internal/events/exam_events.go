package events

import (
	"time"

	"github.com/exampool/exam-service/internal/models"
)

type ExamEventType string

const (
	ExamCreated        ExamEventType = "exam.created"
	ExamPublished      ExamEventType = "exam.published"
	ExamUnpublished    ExamEventType = "exam.unpublished"
	ExamGradesReleased ExamEventType = "exam.grades_released"
)

// ExamEvent notifies downstream consumers (notification senders, grading
// workers) of an exam lifecycle transition.
type ExamEvent struct {
	Type        ExamEventType     `json:"type"`
	ExamID      uint              `json:"exam_id"`
	ExamGroupID uint              `json:"exam_group_id"`
	PoolID      uint              `json:"pool_id"`
	Status      models.ExamStatus `json:"status"`
	TestingDate time.Time         `json:"testing_date"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

// NewExamEvent builds an event from the exam's state after a transition.
func NewExamEvent(eventType ExamEventType, exam *models.Exam) *ExamEvent {
	return &ExamEvent{
		Type:        eventType,
		ExamID:      exam.ID,
		ExamGroupID: exam.ExamGroupID,
		PoolID:      exam.PoolID,
		Status:      exam.Status,
		TestingDate: exam.TestingDate,
		OccurredAt:  time.Now(),
	}
}
