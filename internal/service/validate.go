package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/workspace-booking/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so clients see what they sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterStructValidation(hourRangeOrder, model.HourRange{})
	return v
}

// hourRangeOrder rejects a window whose end is not after its start.  Bounds
// that do not parse are left to the datetime tags.
func hourRangeOrder(sl validator.StructLevel) {
	hr := sl.Current().Interface().(model.HourRange)
	sh, sm, err1 := model.ParseClock(hr.Start)
	eh, em, err2 := model.ParseClock(hr.End)
	if err1 != nil || err2 != nil {
		return
	}
	if sh*60+sm >= eh*60+em {
		sl.ReportError(hr.End, "end", "End", "gtfield", "start")
	}
}

// Validate checks the validate tags on v and converts failures into a
// *ValidationError.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Fields: map[string]string{"body": err.Error()}}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = describe(fe)
	}
	return &ValidationError{Fields: fields}
}

// fieldPath is the namespace without the root type, e.g. "space_id" or
// "preferred_hours[monday].end".
func fieldPath(fe validator.FieldError) string {
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		return rest
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a UUID"
	case "datetime":
		switch fe.Param() {
		case "2006-01-02":
			return "must be YYYY-MM-DD"
		case "15:04":
			return "must be HH:MM"
		}
		return "must match " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gtfield":
		return "must be after " + fe.Param()
	}
	return "is invalid"
}
