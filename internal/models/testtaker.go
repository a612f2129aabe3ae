package models

import (
	"time"

	"gorm.io/gorm"
)

type TestTaker struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Username    string `json:"username" gorm:"not null;size:255;uniqueIndex" validate:"required,min=1,max=255"`
	ExamGroupID uint   `json:"exam_group_id" gorm:"not null;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	ExamGroup ExamGroup     `json:"-" gorm:"foreignKey:ExamGroupID"`
	Sessions  []TestSession `json:"sessions,omitempty" gorm:"foreignKey:TestTakerID"`
}

// TestSession is one test taker's attempt at one exam. Grade is the raw
// number of correct answers, bounded by the exam's question count.
type TestSession struct {
	ID          uint `json:"id" gorm:"primaryKey"`
	ExamID      uint `json:"exam_id" gorm:"not null;index:idx_sessions_exam_taker,unique"`
	TestTakerID uint `json:"test_taker_id" gorm:"not null;index:idx_sessions_exam_taker,unique"`
	Grade       int  `json:"grade" gorm:"default:0" validate:"min=0"`
	IsSubmitted bool `json:"is_submitted" gorm:"default:false;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Exam      Exam      `json:"-" gorm:"foreignKey:ExamID"`
	TestTaker TestTaker `json:"test_taker,omitempty" gorm:"foreignKey:TestTakerID"`
}

// TestTakerResponse records one answered question of one test taker.
type TestTakerResponse struct {
	ID          uint `json:"id" gorm:"primaryKey"`
	TestTakerID uint `json:"test_taker_id" gorm:"not null;index"`
	QuestionID  uint `json:"question_id" gorm:"not null;index"`
	IsCorrect   bool `json:"is_correct" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TestTaker TestTaker `json:"-" gorm:"foreignKey:TestTakerID"`
	Question  Question  `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
}

func (TestTaker) TableName() string {
	return "test_takers"
}

func (TestSession) TableName() string {
	return "test_sessions"
}

func (TestTakerResponse) TableName() string {
	return "test_taker_responses"
}
