package postgres

import (
	"github.com/exampool/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type gormRepository struct {
	pool        repositories.PoolRepository
	category    repositories.CategoryRepository
	exam        repositories.ExamRepository
	examGroup   repositories.ExamGroupRepository
	question    repositories.QuestionRepository
	testTaker   repositories.TestTakerRepository
	testSession repositories.TestSessionRepository
	response    repositories.ResponseRepository
}

// NewRepository wires all entity repositories over one gorm connection.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{
		pool:        NewPoolPostgreSQL(db),
		category:    NewCategoryPostgreSQL(db),
		exam:        NewExamPostgreSQL(db),
		examGroup:   NewExamGroupPostgreSQL(db),
		question:    NewQuestionPostgreSQL(db),
		testTaker:   NewTestTakerPostgreSQL(db),
		testSession: NewTestSessionPostgreSQL(db),
		response:    NewResponsePostgreSQL(db),
	}
}

func (r *gormRepository) Pool() repositories.PoolRepository { return r.pool }
func (r *gormRepository) Category() repositories.CategoryRepository { return r.category }
func (r *gormRepository) Exam() repositories.ExamRepository { return r.exam }
func (r *gormRepository) ExamGroup() repositories.ExamGroupRepository { return r.examGroup }
func (r *gormRepository) Question() repositories.QuestionRepository { return r.question }
func (r *gormRepository) TestTaker() repositories.TestTakerRepository { return r.testTaker }
func (r *gormRepository) TestSession() repositories.TestSessionRepository { return r.testSession }
func (r *gormRepository) Response() repositories.ResponseRepository { return r.response }
