package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/benvon/task-metrics/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	// These should never fail in normal operation, but panic loudly if they do
	if err := Validate.RegisterValidation("metric_kind", validateMetricKind); err != nil {
		panic(fmt.Sprintf("failed to register metric_kind validator: %v", err))
	}
	if err := Validate.RegisterValidation("event_type", validateEventType); err != nil {
		panic(fmt.Sprintf("failed to register event_type validator: %v", err))
	}
	if err := Validate.RegisterValidation("weekday", validateWeekday); err != nil {
		panic(fmt.Sprintf("failed to register weekday validator: %v", err))
	}
}

// validateMetricKind validates that a string is a valid MetricKind enum value
func validateMetricKind(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	switch models.MetricKind(value) {
	case models.MetricCount, models.MetricTimer, models.MetricCheck:
		return true
	default:
		return false
	}
}

// validateEventType validates that a string is a valid EventType enum value
func validateEventType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	switch models.EventType(value) {
	case models.EventIncrement, models.EventTimerStart, models.EventTimerStop, models.EventCheck:
		return true
	default:
		return false
	}
}

// validateWeekday validates an active_days entry (Monday=0 through Sunday=6)
func validateWeekday(fl validator.FieldLevel) bool {
	v := fl.Field().Int()
	return v >= 0 && v <= 6
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateMetricKind validates a MetricKind string value
func ValidateMetricKind(value string) error {
	switch models.MetricKind(value) {
	case models.MetricCount, models.MetricTimer, models.MetricCheck:
		return nil
	default:
		return fmt.Errorf("invalid metric: %s (must be 'count', 'timer', or 'check')", value)
	}
}

// ValidateEventType validates an EventType string value
func ValidateEventType(value string) error {
	switch models.EventType(value) {
	case models.EventIncrement, models.EventTimerStart, models.EventTimerStop, models.EventCheck:
		return nil
	default:
		return fmt.Errorf("invalid event type: %s (must be 'increment', 'timer_start', 'timer_stop', or 'check')", value)
	}
}

// ValidateActiveDays validates a template's weekday activation set: it must be
// non-empty, hold values 0-6 only, and contain no duplicates
func ValidateActiveDays(days []int) error {
	if len(days) == 0 {
		return fmt.Errorf("active_days must not be empty")
	}
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return fmt.Errorf("invalid weekday %d in active_days (must be 0-6, Monday=0)", d)
		}
		if seen[d] {
			return fmt.Errorf("duplicate weekday %d in active_days", d)
		}
		seen[d] = true
	}
	return nil
}

// ValidateGoal validates an optional goal value
func ValidateGoal(goal *int) error {
	if goal != nil && *goal < 0 {
		return fmt.Errorf("goal must be non-negative, got %d", *goal)
	}
	return nil
}
