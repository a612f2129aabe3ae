package models

import (
	"time"

	"gorm.io/gorm"
)

type ExamStatus string

const (
	ExamGenerated     ExamStatus = "generated"
	ExamPublished     ExamStatus = "published"
	ExamGradeReleased ExamStatus = "gradeReleased"
)

// GradeReleaseDelay is how long after the testing date grades may be released.
const GradeReleaseDelay = 48 * time.Hour

// Exam is a scheduled test instance inside an exam group, drawing questions
// from one pool. Its time slot is [TestingDate, TestingDate+Duration minutes).
type Exam struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	Name              string     `json:"name" gorm:"not null;size:255;index" validate:"required,min=2,max=255"`
	ExamGroupID       uint       `json:"exam_group_id" gorm:"not null;index"`
	PoolID            uint       `json:"pool_id" gorm:"not null;index"`
	NumberOfQuestions int        `json:"number_of_questions" gorm:"not null" validate:"required,min=1"`
	TestingDate       time.Time  `json:"testing_date" gorm:"not null;index"`
	Duration          int        `json:"duration" gorm:"not null" validate:"required,min=1"` // minutes
	ExamReleaseDate   time.Time  `json:"exam_release_date" gorm:"not null"`
	Status            ExamStatus `json:"status" gorm:"default:generated;index" validate:"omitempty,exam_status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	ExamGroup ExamGroup     `json:"exam_group,omitempty" gorm:"foreignKey:ExamGroupID"`
	Pool      Pool          `json:"pool,omitempty" gorm:"foreignKey:PoolID"`
	Questions []Question    `json:"questions,omitempty" gorm:"foreignKey:ExamID"`
	Sessions  []TestSession `json:"sessions,omitempty" gorm:"foreignKey:ExamID"`
}

// SlotEnd returns the exclusive end of the exam's time slot.
func (e *Exam) SlotEnd() time.Time {
	return e.TestingDate.Add(time.Duration(e.Duration) * time.Minute)
}

// ExamGroup is a scheduling namespace: exams in the same group must not
// occupy overlapping time slots.
type ExamGroup struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;size:255" validate:"required,min=2,max=255"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Exams      []Exam      `json:"exams,omitempty" gorm:"foreignKey:ExamGroupID"`
	TestTakers []TestTaker `json:"test_takers,omitempty" gorm:"foreignKey:ExamGroupID"`
}

func (Exam) TableName() string {
	return "exams"
}

func (ExamGroup) TableName() string {
	return "exam_groups"
}
