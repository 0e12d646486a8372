package handler

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/film-catalog/internal/model"
	"github.com/iliyamo/film-catalog/internal/service"
)

// RequestValidator adapts go-playground/validator to echo.Validator.
type RequestValidator struct {
	v *validator.Validate
}

// NewValidator returns a validator that reports JSON field names and knows
// the catalog's custom rules:
//
//	notblank     – string has a non-space character
//	nowhitespace – string has no whitespace
//	releasedate  – YYYY-MM-DD date not before the first film screening
//	pastdate     – YYYY-MM-DD date not in the future
func NewValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("nowhitespace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), " \t\r\n")
	})
	// date rules see model.Date fields as their time.Time
	v.RegisterCustomTypeFunc(func(f reflect.Value) interface{} {
		return f.Interface().(model.Date).Time
	}, model.Date{})
	_ = v.RegisterValidation("releasedate", func(fl validator.FieldLevel) bool {
		d, ok := fieldDate(fl)
		return ok && !d.Before(model.EarliestReleaseDate)
	})
	_ = v.RegisterValidation("pastdate", func(fl validator.FieldLevel) bool {
		d, ok := fieldDate(fl)
		return ok && !d.After(time.Now().UTC())
	})
	return &RequestValidator{v: v}
}

// Validate implements echo.Validator.  Failures come back as a
// *service.ValidationError naming the first offending field.
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		fe := errs[0]
		return &service.ValidationError{Field: fieldPath(fe), Message: describe(fe)}
	}
	return &service.ValidationError{Message: err.Error()}
}

// fieldDate accepts a time.Time or a "YYYY-MM-DD" string field.
func fieldDate(fl validator.FieldLevel) (time.Time, bool) {
	switch v := fl.Field().Interface().(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		d, err := model.ParseDate(v)
		return d.Time, err == nil
	}
	return time.Time{}, false
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "email":
		return "must be a valid email"
	case "nowhitespace":
		return "must not contain whitespace"
	case "releasedate":
		return "must be a YYYY-MM-DD date not before " + model.EarliestReleaseDate.Format(model.DateLayout)
	case "pastdate":
		return "must be a YYYY-MM-DD date not in the future"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// bindAndValidate decodes the JSON body into dst and validates it.
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return &service.ValidationError{Message: "malformed request body"}
	}
	return c.Validate(dst)
}
