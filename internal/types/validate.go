// Package types provides type definitions for structured data used throughout the candidate-evaluator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator. Field names in errors are the JSON names,
// and the education_level tag is registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("education_level", func(fl validator.FieldLevel) bool {
			return EducationLevel(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

// Validate checks the candidate and returns a *ValidationError naming the first bad field.
func (c *Candidate) Validate() error {
	if c == nil {
		return &ValidationError{Field: "candidate", Message: "is required"}
	}
	return structError("candidate", Validator().Struct(c))
}

// Validate checks the job and returns a *ValidationError naming the first bad field.
func (j *Job) Validate() error {
	if j == nil {
		return &ValidationError{Field: "job", Message: "is required"}
	}
	return structError("job", Validator().Struct(j))
}

// structError converts validator output into a ValidationError rooted at prefix.
func structError(prefix string, err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Field: prefix, Message: err.Error()}
	}
	fe := fieldErrs[0]
	path := prefix
	if ns := fe.Namespace(); ns != "" {
		// Namespace starts with the Go struct name, e.g. "Candidate.experience[1].title"
		if idx := strings.Index(ns, "."); idx >= 0 {
			path = prefix + ns[idx:]
		}
	}
	return &ValidationError{Field: path, Message: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "gtefield":
		return fmt.Sprintf("must be >= %s", strings.ToLower(fe.Param()))
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "education_level":
		return fmt.Sprintf("unknown education level %q", fe.Value())
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}
