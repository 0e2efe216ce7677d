package cv

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// SummarySoftLimit is the display cap for the summary. Longer summaries are accepted with a warning.
const SummarySoftLimit = 500

// monthLayouts are the date forms accepted for month-granularity fields.
var monthLayouts = []string{
	"01/2006",
	"1/2006",
	"2006-01",
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseMonth parses a month-granularity date string in any accepted form.
func ParseMonth(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsOngoing reports whether an end date denotes an entry that has not ended.
func IsOngoing(endDate string) bool {
	endDate = strings.TrimSpace(endDate)
	return endDate == "" || strings.EqualFold(endDate, PresentMarker)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func documentValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("month_date", func(fl validator.FieldLevel) bool {
			_, ok := ParseMonth(fl.Field().String())
			return ok
		})
		_ = validate.RegisterValidation("present_or_date", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if IsOngoing(value) {
				return true
			}
			_, ok := ParseMonth(value)
			return ok
		})
		validate.RegisterStructValidation(engagementRange, Engagement{})
		validate.RegisterStructValidation(educationRange, Education{})
	})
	return validate
}

func engagementRange(sl validator.StructLevel) {
	e := sl.Current().Interface().(Engagement)
	if endsBeforeStart(e.StartDate, e.EndDate) {
		sl.ReportError(e.EndDate, "endDate", "EndDate", "after_start", "")
	}
}

func educationRange(sl validator.StructLevel) {
	e := sl.Current().Interface().(Education)
	if endsBeforeStart(e.StartDate, e.EndDate) {
		sl.ReportError(e.EndDate, "endDate", "EndDate", "after_start", "")
	}
}

func endsBeforeStart(start, end string) bool {
	if IsOngoing(end) {
		return false
	}
	s, okStart := ParseMonth(start)
	e, okEnd := ParseMonth(end)
	return okStart && okEnd && e.Before(s)
}

// FieldError is a single per-field validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Messages returns the field messages as plain strings.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return msgs
}

// Validate checks the required fields and value constraints of a document submitted at a
// boundary (API request, imported file). The store never calls it.
func Validate(doc Document) error {
	err := documentValidator().Struct(doc)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   strings.TrimPrefix(fe.Namespace(), "Document."),
			Message: describe(fe),
		})
	}
	return out
}

// SummaryTooLong reports whether the summary exceeds the display cap.
func SummaryTooLong(doc Document) bool {
	return utf8.RuneCountInString(doc.Summary) > SummarySoftLimit
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "month_date":
		return "must be a month date such as 01/2022"
	case "present_or_date":
		return "must be a month date or Present"
	case "after_start":
		return "must not be before the start date"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
