package validator

import (
	"errors"
	"fmt"
	"strings"

	"seatplan/pkg/logger"
	"seatplan/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type TagValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewTagValidator(log *logger.Logger) *TagValidator {
	return &TagValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *TagValidator) Validate(tag *model.Tag) error {
	return v.translate(v.validate.Struct(tag))
}

func (v *TagValidator) ValidateUpdate(update *model.TagUpdate) error {
	return v.translate(v.validate.Struct(update))
}

func (v *TagValidator) translate(err error) error {
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return translateValidationErrors(validationErrs)
	}
	return err
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var out ValidationErrors
	for _, fieldErr := range errs {
		message := fieldErr.Error()
		switch fieldErr.Tag() {
		case "required":
			message = "is required"
		case "min":
			message = fmt.Sprintf("must be at least %s", fieldErr.Param())
		case "max":
			message = fmt.Sprintf("must be at most %s", fieldErr.Param())
		case "hexcolor":
			message = "must be a hex color such as #b45309"
		case "oneof":
			message = fmt.Sprintf("must be one of: %s", fieldErr.Param())
		case "mongodb":
			message = "must be a valid object id"
		}
		out = append(out, ValidationError{Field: fieldErr.Field(), Message: message})
	}
	return out
}
