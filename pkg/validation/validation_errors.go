package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	// Working hours
	"DayOfWeek":           "Day of week",
	"IsWorkingDay":        "Working day",
	"StartTime":           "Start time",
	"EndTime":             "End time",
	"LunchBreakStart":     "Lunch break start",
	"LunchBreakEnd":       "Lunch break end",
	"BufferMinutes":       "Buffer minutes",
	"MaxInterviewsPerDay": "Max interviews per day",

	// Interview
	"ScheduledDate":    "Scheduled date",
	"DurationMinutes":  "Duration (minutes)",
	"InterviewType":    "Interview type",
	"InterviewRound":   "Interview round",
	"MeetingLink":      "Meeting link",
	"InterviewerName":  "Interviewer name",
	"InterviewerEmail": "Interviewer email",
	"InterviewerPhone": "Interviewer phone",
	"PreparationNotes": "Preparation notes",
	"Outcome":          "Outcome",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", label)
	case "min":
		return fmt.Sprintf("%s: must be at least %s", label, param)
	case "max":
		return fmt.Sprintf("%s: must be at most %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s: must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s: invalid email format", label)
	case "url":
		return fmt.Sprintf("%s: invalid URL format", label)
	case "valid_name":
		return fmt.Sprintf("%s: only letters, spaces and common punctuation are allowed", label)
	case "valid_phone":
		return fmt.Sprintf("%s: invalid phone number (7-15 digits, optional +)", label)
	case "no_emoji":
		return fmt.Sprintf("%s: must not contain emoji or special symbols", label)
	case "time_of_day":
		return fmt.Sprintf("%s: must be a time between 00:00 and 23:59", label)
	case "weekday":
		return fmt.Sprintf("%s: must be between 0 (Sunday) and 6 (Saturday)", label)
	case "enum":
		return fmt.Sprintf("%s: unsupported value %v", label, e.Value())
	case "gtfield":
		return fmt.Sprintf("%s: must be later than %s", label, getFieldLabel(param))
	default:
		return fmt.Sprintf("%s: failed validation (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
