package utils

import (
	"reflect"
	"strings"

	apperrors "github.com/exampool/exam-service/internal/errors"
	"github.com/exampool/exam-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator wraps a go-playground validator instance with the custom
// validations registered.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	RegisterCustomValidators(validate)
	return &Validator{validate: validate}
}

// ValidateStruct validates struct tags and translates failures into the
// shared ValidationErrors type.
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		if ve := apperrors.ToValidationErrors(err); len(ve) > 0 {
			return ve
		}
		return err
	}
	return nil
}

// Custom validation functions

func ValidateExamStatus(fl validator.FieldLevel) bool {
	validStatuses := []models.ExamStatus{
		models.ExamGenerated,
		models.ExamPublished,
		models.ExamGradeReleased,
	}

	value := fl.Field().String()
	for _, validStatus := range validStatuses {
		if string(validStatus) == value {
			return true
		}
	}
	return false
}

func ValidateQuestionStatus(fl validator.FieldLevel) bool {
	validStatuses := []models.QuestionStatus{
		models.QuestionPending,
		models.QuestionApproved,
		models.QuestionSelected,
		models.QuestionRejected,
	}

	value := fl.Field().String()
	for _, validStatus := range validStatuses {
		if string(validStatus) == value {
			return true
		}
	}
	return false
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("exam_status", ValidateExamStatus)
	validate.RegisterValidation("question_status", ValidateQuestionStatus)

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
