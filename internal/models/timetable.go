package models

import (
	"fmt"
	"strconv"
	"time"
)

// LessonHour is one slot of the daily timetable. Times are zero-padded HHMM.
type LessonHour struct {
	Num       uint8  `db:"lesson_num" json:"lesson_num"`
	StartTime string `db:"start_time" json:"start_time" validate:"len=4,numeric"`
	EndTime   string `db:"end_time" json:"end_time" validate:"len=4,numeric"`
}

// BreakHour is a duty-break window between lessons.
type BreakHour struct {
	Num       uint8  `db:"break_num" json:"break_num"`
	StartTime string `db:"start_time" json:"start_time" validate:"len=4,numeric"`
	EndTime   string `db:"end_time" json:"end_time" validate:"len=4,numeric"`
}

// Lesson is keyed by (ClassID, LessonHour, WeekDay).
type Lesson struct {
	ClassID     uint8 `db:"class_id" json:"class_id"`
	LessonHour  uint8 `db:"lesson_hour" json:"lesson_hour"`
	WeekDay     uint8 `db:"week_day" json:"week_day" validate:"min=1,max=7"`
	ClassroomID uint8 `db:"classroom_id" json:"classroom_id"`
	SubjectID   uint8 `db:"subject_id" json:"subject_id"`
	TeacherID   uint8 `db:"teacher_id" json:"teacher_id"`
}

// Duty is keyed by (LessonHour, TeacherID, WeekDay); ClassroomID is the duty place.
type Duty struct {
	LessonHour  uint8 `db:"lesson_hour" json:"lesson_hour"`
	TeacherID   uint8 `db:"teacher_id" json:"teacher_id"`
	WeekDay     uint8 `db:"week_day" json:"week_day" validate:"min=1,max=7"`
	ClassroomID uint8 `db:"classroom_id" json:"classroom_id"`
}

func (h *LessonHour) Validate() error {
	validate := newValidator()
	if err := validate.Struct(h); err != nil {
		return err
	}
	return checkWindow(h.StartTime, h.EndTime)
}

func (b *BreakHour) Validate() error {
	validate := newValidator()
	if err := validate.Struct(b); err != nil {
		return err
	}
	return checkWindow(b.StartTime, b.EndTime)
}

// checkWindow rejects windows that the half-open [start, end) lookup could never match.
// Zero-padded HHMM strings order the same way as the times they hold.
func checkWindow(start, end string) error {
	if end <= start {
		return fmt.Errorf("window %s-%s must end after it starts", start, end)
	}
	return nil
}

func (l *Lesson) Validate() error {
	validate := newValidator()
	return validate.Struct(l)
}

func (d *Duty) Validate() error {
	validate := newValidator()
	return validate.Struct(d)
}

// NormalizeClock turns a raw 1-4 digit token like "800" into "0800".
func NormalizeClock(raw string) (string, error) {
	if len(raw) == 0 || len(raw) > 4 {
		return "", fmt.Errorf("clock %q must have 1 to 4 digits", raw)
	}
	v, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return "", fmt.Errorf("clock %q is not a number: %w", raw, err)
	}
	hours, minutes := v/100, v%100
	if hours > 23 || minutes > 59 {
		return "", fmt.Errorf("clock %q is out of range", raw)
	}
	return fmt.Sprintf("%02d%02d", hours, minutes), nil
}

// ClockOf formats t as zero-padded HHMM in t's location.
func ClockOf(t time.Time) string {
	return fmt.Sprintf("%02d%02d", t.Hour(), t.Minute())
}

// WeekDayOf maps t to 1 (Monday) .. 7 (Sunday).
func WeekDayOf(t time.Time) uint8 {
	wd := t.Weekday()
	if wd == time.Sunday {
		return 7
	}
	return uint8(wd)
}
