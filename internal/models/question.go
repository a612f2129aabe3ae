package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionStatus string

const (
	QuestionPending  QuestionStatus = "pending"
	QuestionApproved QuestionStatus = "approved"
	QuestionSelected QuestionStatus = "selected"
	QuestionRejected QuestionStatus = "rejected"
)

// Question belongs to one category and, once drawn into an exam, carries the
// exam id and status "selected". Only the selector mutates that pair.
type Question struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Title         string         `json:"title" gorm:"not null;type:text" validate:"required,min=1"`
	CategoryID    uint           `json:"category_id" gorm:"column:cat_id;not null;index"`
	ContributorID uint           `json:"contributor_id" gorm:"not null;index"`
	Status        QuestionStatus `json:"status" gorm:"default:pending;index" validate:"omitempty,question_status"`
	ExamID        *uint          `json:"exam_id" gorm:"index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Category    Category           `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Contributor Contributor        `json:"contributor,omitempty" gorm:"foreignKey:ContributorID"`
	Answers     []QuestionAnswer   `json:"answers,omitempty" gorm:"foreignKey:QuestionID"`
	Responses   []TestTakerResponse `json:"responses,omitempty" gorm:"foreignKey:QuestionID"`
}

// QuestionAnswer holds the answer choices for a question as a JSON document
// plus the index of the correct choice.
type QuestionAnswer struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	QuestionID uint           `json:"question_id" gorm:"not null;index"`
	Choices    datatypes.JSON `json:"choices" gorm:"type:jsonb"`
	CorrectIdx int            `json:"correct_idx" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Contributor struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"not null;size:255" validate:"required,min=1,max=255"`
	PoolID uint   `json:"pool_id" gorm:"not null;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:ContributorID"`
}

func (Question) TableName() string {
	return "questions"
}

func (QuestionAnswer) TableName() string {
	return "question_answers"
}

func (Contributor) TableName() string {
	return "contributors"
}
