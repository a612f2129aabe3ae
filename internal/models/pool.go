package models

import (
	"time"

	"gorm.io/gorm"
)

// Pool is a named collection of categories and questions that exams are drawn from.
type Pool struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;size:255;index" validate:"required,min=2,max=255"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Categories   []Category    `json:"categories,omitempty" gorm:"foreignKey:PoolID"`
	Contributors []Contributor `json:"contributors,omitempty" gorm:"foreignKey:PoolID"`
	Exams        []Exam        `json:"exams,omitempty" gorm:"foreignKey:PoolID"`
}

type Category struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Name           string `json:"name" gorm:"not null;size:255;index" validate:"required,min=1,max=255"`
	PoolID         uint   `json:"pool_id" gorm:"not null;index"`
	NumOfQuestions int    `json:"num_of_questions" gorm:"default:0" validate:"min=0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Pool      Pool       `json:"-" gorm:"foreignKey:PoolID"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:CategoryID"`
}

func (Pool) TableName() string {
	return "pools"
}

func (Category) TableName() string {
	return "categories"
}
