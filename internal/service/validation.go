package service

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"github.com/resumeforge/resumeforge/internal/model"
)

//go:embed schemas/resume.schema.json
var resumeSchemaJSON []byte

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate

	loadResumeSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
		return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(resumeSchemaJSON))
	})
)

// getValidator lazily initializes the shared validator.
func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
		_ = validatorInst.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validatorInst
}

// validateStruct runs struct tags and maps failures to an ErrInvalidInput
// ValidationError keyed by form field name.
func validateStruct(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: formatValidationMessage(fe),
		})
	}
	return &ValidationError{Kind: ErrInvalidInput, Fields: fields}
}

func formatValidationMessage(fe validator.FieldError) string {
	name := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required", "notblank":
		return name + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

// validateResume checks a built resume against the column limits.
func validateResume(detail *model.ResumeDetail) error {
	var fields []FieldError
	schema, err := loadResumeSchema()
	if err != nil {
		return fmt.Errorf("load resume schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(detail))
	if err != nil {
		return fmt.Errorf("validate resume: %w", err)
	}
	for _, re := range result.Errors() {
		fields = append(fields, FieldError{
			Field:   formField(re.Field()),
			Message: re.Description(),
		})
	}

	if len(fields) > 0 {
		return &ValidationError{Kind: ErrInvalidResume, Fields: fields}
	}
	return nil
}

// formField maps a schema path such as "resume.title" or
// "education.2.degree" to the form field that produced it.
func formField(path string) string {
	parts := strings.Split(path, ".")
	if parts[0] == "resume" && len(parts) > 1 {
		return parts[1]
	}
	return parts[0]
}
