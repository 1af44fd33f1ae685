// Package dateutil holds the pure date and priority display helpers used
// by the view layer. Every function is deterministic in (date, now).
package dateutil

import (
	"fmt"
	"time"

	"github.com/taskmaster/client/internal/domain/entities"
)

// startOfDay normalizes a time to midnight in its own location. Day-level
// comparisons are calendar-day equality, not 24h-window equality.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysUntil returns the number of whole calendar days between now and t.
// Negative values lie in the past.
func DaysUntil(t, now time.Time) int {
	diff := startOfDay(t).Sub(startOfDay(now))
	days := diff.Hours() / 24
	if days >= 0 {
		return int(days + 0.5)
	}
	return int(days - 0.5)
}

// IsToday reports whether t falls on the same calendar day as now
func IsToday(t, now time.Time) bool {
	return DaysUntil(t, now) == 0
}

// IsTomorrow reports whether t falls on the calendar day after now
func IsTomorrow(t, now time.Time) bool {
	return DaysUntil(t, now) == 1
}

// IsYesterday reports whether t falls on the calendar day before now
func IsYesterday(t, now time.Time) bool {
	return DaysUntil(t, now) == -1
}

// IsOverdue reports whether t's calendar day lies strictly before now's
func IsOverdue(t, now time.Time) bool {
	return DaysUntil(t, now) < 0
}

// FormatDate renders an absolute date, e.g. "Jun 17, 2024"
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// FormatDateTime renders an absolute date with time, e.g. "Jun 17, 2024 14:05"
func FormatDateTime(t time.Time) string {
	return t.Format("Jan 2, 2006 15:04")
}

// RelativeLabel renders a due date relative to now: exact labels for
// yesterday/today/tomorrow, the weekday name up to a week ahead, "N days
// ago" up to a week back, and an absolute date beyond that, annotated
// "(overdue)" when in the past.
func RelativeLabel(t, now time.Time) string {
	days := DaysUntil(t, now)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 1 && days <= 7:
		return t.Weekday().String()
	case days < -1 && days >= -7:
		return fmt.Sprintf("%d days ago", -days)
	case days < -7:
		return FormatDate(t) + " (overdue)"
	default:
		return FormatDate(t)
	}
}

// DateStatus classifies a due date relative to now
type DateStatus string

const (
	StatusOverdue  DateStatus = "overdue"
	StatusToday    DateStatus = "today"
	StatusTomorrow DateStatus = "tomorrow"
	StatusUpcoming DateStatus = "upcoming"
	StatusFuture   DateStatus = "future"
)

// Status returns the due-date classification of t
func Status(t, now time.Time) DateStatus {
	days := DaysUntil(t, now)
	switch {
	case days < 0:
		return StatusOverdue
	case days == 0:
		return StatusToday
	case days == 1:
		return StatusTomorrow
	case days <= 7:
		return StatusUpcoming
	default:
		return StatusFuture
	}
}

// BadgeVariant maps a due-date status onto a display badge
func BadgeVariant(t, now time.Time) string {
	switch Status(t, now) {
	case StatusOverdue:
		return "error"
	case StatusToday:
		return "warning"
	case StatusTomorrow, StatusUpcoming:
		return "info"
	default:
		return "default"
	}
}

// PriorityColor returns the display color for a priority, with a neutral
// default for unrecognized values
func PriorityColor(p entities.Priority) string {
	switch p {
	case entities.PriorityHigh:
		return "red"
	case entities.PriorityMedium:
		return "yellow"
	case entities.PriorityLow:
		return "green"
	default:
		return "gray"
	}
}

// PriorityIcon returns the display icon for a priority
func PriorityIcon(p entities.Priority) string {
	switch p {
	case entities.PriorityHigh:
		return "🔥"
	case entities.PriorityMedium:
		return "⚠️"
	default:
		return "📋"
	}
}

// PriorityLabel returns the display label for a priority
func PriorityLabel(p entities.Priority) string {
	switch p {
	case entities.PriorityHigh:
		return "High"
	case entities.PriorityMedium:
		return "Medium"
	case entities.PriorityLow:
		return "Low"
	default:
		return "No priority"
	}
}
