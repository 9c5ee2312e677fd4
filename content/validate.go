package content

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/eringen/pubcms/slug"
)

var fieldLabels = map[string]string{
	"title":          "Title",
	"slug":           "Slug",
	"content":        "Content",
	"excerpt":        "Excerpt",
	"description":    "Description",
	"images":         "Images",
	"githubLink":     "GitHub link",
	"demoLink":       "Demo link",
	"seoTitle":       "SEO title",
	"seoDescription": "SEO description",
	"email":          "Email",
	"password":       "Password",
	"name":           "Name",
	"role":           "Role",
	"siteName":       "Site name",
	"siteUrl":        "Site URL",
	"contactEmail":   "Contact email",
}

var validate = newValidator()

// Check validates s against its `validate` struct tags. Failures are returned
// as a *ValidationError keyed by JSON field name.
func Check(s any) error {
	return check(validate, s)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slug.Valid(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// check runs struct validation and converts failures into a ValidationError.
func check(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	fields := make(map[string][]string)
	for _, fe := range verrs {
		name, _, indexed := strings.Cut(fe.Field(), "[")
		msg := fieldMessage(name, indexed, fe)
		if !contains(fields[name], msg) {
			fields[name] = append(fields[name], msg)
		}
	}
	return &ValidationError{Message: "Validation failed", Fields: fields}
}

func fieldMessage(name string, indexed bool, fe validator.FieldError) string {
	label, ok := fieldLabels[name]
	if !ok {
		label = name
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "slug":
		return "Slug must be lowercase alphanumeric with hyphens"
	case "email":
		return label + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		if indexed {
			return label + " must contain only valid URLs"
		}
		return label + " must be a valid URL"
	default:
		return label + " is invalid"
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
