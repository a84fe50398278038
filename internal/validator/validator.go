package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/score-service/internal/models"
)

var (
	studentIDPattern = regexp.MustCompile(`^\d{7}$`)
	courseIDPattern  = regexp.MustCompile(`^CS\d{3}$`)
)

// ValidationError represents a field-level validation failure
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Validator wraps go-playground/validator with the domain's key formats.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New()

	// Report fields by their json/form name
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	v := &Validator{validate: validate}
	v.registerRules()

	return v
}

func (v *Validator) registerRules() {
	v.validate.RegisterValidation("student_id", func(fl validator.FieldLevel) bool {
		return IsStudentID(fl.Field().String())
	})

	v.validate.RegisterValidation("course_id", func(fl validator.FieldLevel) bool {
		return IsCourseID(fl.Field().String())
	})

	v.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseRole(fl.Field().String())
		return ok
	})
}

// Validate validates a struct and returns field errors, or nil.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// Var validates a single value against tag.
func (v *Validator) Var(field string, value interface{}, tag string) error {
	if err := v.validate.Var(value, tag); err != nil {
		errs := ToValidationErrors(err)
		for i := range errs {
			errs[i].Field = field
		}
		return errs
	}
	return nil
}

// ToValidationErrors converts go-playground errors into ValidationErrors.
func ToValidationErrors(err error) ValidationErrors {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "", Message: err.Error()}}
	}

	result := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		result = append(result, ValidationError{
			Field:   fe.Field(),
			Message: errorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return result
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "student_id":
		return "must be a 7-digit student id"
	case "course_id":
		return "must match CS followed by 3 digits"
	case "user_role":
		return "must be one of ADMIN, TEACHER, STUDENT"
	case "required_without":
		return fmt.Sprintf("is required when %s is missing", fe.Param())
	case "excluded_with":
		return fmt.Sprintf("cannot be combined with %s", fe.Param())
	default:
		return fmt.Sprintf("validation failed for rule '%s'", fe.Tag())
	}
}

func IsStudentID(s string) bool {
	return studentIDPattern.MatchString(s)
}

func IsCourseID(s string) bool {
	return courseIDPattern.MatchString(s)
}

// IsQueryKey reports whether key is well-formed for a query of kind.
func IsQueryKey(kind models.QueryKind, key string) bool {
	switch kind {
	case models.QueryByStudent:
		return IsStudentID(key)
	case models.QueryByCourse:
		return IsCourseID(key)
	default:
		return false
	}
}
