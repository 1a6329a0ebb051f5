package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/skolklocka/internal/models"
)

type ScheduleStore interface {
	Close() error
	ApplyMigrations(dir string) error

	ClassName(id uint8) (string, error)
	ClassroomName(id uint8) (string, error)
	GetTeacher(id uint8) (*models.Teacher, error)

	ActiveLessonHour(clock string) (*models.LessonHour, error)
	ActiveBreakHour(clock string) (*models.BreakHour, error)
	FirstLessonForTeacher(teacherID, weekDay uint8) (*models.Lesson, error)
	GetLessonForTeacher(weekDay, lessonHour, teacherID uint8) (*models.Lesson, error)
	GetLesson(classID, lessonHour, weekDay uint8) (*models.Lesson, error)
	GetDuty(lessonHour, teacherID, weekDay uint8) (*models.Duty, error)

	UpsertClass(class *models.Class) error
	UpsertClassroom(classroom *models.Classroom) error
	UpsertTeacher(teacher *models.Teacher) error
	UpsertSubject(subject *models.Subject) error
	UpsertLessonHour(hour *models.LessonHour) error
	UpsertBreakHour(hour *models.BreakHour) error
	UpsertLesson(lesson *models.Lesson) error
	UpsertDuty(duty *models.Duty) error

	CountRows() ([]TableCount, error)
}

// BaseStore provides common functionality for different DB implementations.
// Every accessor holds mu for exactly one statement.
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string

	mu sync.Mutex
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies every .sql file in dir in name order. Files must be idempotent.
func (s *BaseStore) ApplyMigrations(dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		logger.Debug.Printf("Applying migration: %s", file.Name())
		if _, err := s.DB.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) get(dest any, query string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return noData(s.DB.Get(dest, s.Converter(query), args...))
}

func (s *BaseStore) namedExec(query string, arg any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.DB.NamedExec(query, arg)
	return err
}

// noData folds empty results and undecodable rows into ErrNoData.
func noData(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoData
	}
	if isDecodeError(err) {
		logger.Debug.Printf("Row decode failed, reporting as no data: %v", err)
		return ErrNoData
	}
	return err
}

func isDecodeError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "sql: Scan error") ||
		strings.Contains(msg, "missing destination name")
}

func (s *BaseStore) ClassName(id uint8) (string, error) {
	var name string
	err := s.get(&name, `SELECT name FROM classes WHERE class_id = ?`, id)
	if err != nil {
		return "", fmt.Errorf("failed to get class %d: %w", id, err)
	}
	return name, nil
}

func (s *BaseStore) ClassroomName(id uint8) (string, error) {
	var name string
	err := s.get(&name, `SELECT name FROM classrooms WHERE classroom_id = ?`, id)
	if err != nil {
		return "", fmt.Errorf("failed to get classroom %d: %w", id, err)
	}
	return name, nil
}

func (s *BaseStore) GetTeacher(id uint8) (*models.Teacher, error) {
	var teacher models.Teacher
	err := s.get(&teacher, `
		SELECT teacher_id, first_name, last_name
		FROM teachers
		WHERE teacher_id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get teacher %d: %w", id, err)
	}
	return &teacher, nil
}

func (s *BaseStore) ActiveLessonHour(clock string) (*models.LessonHour, error) {
	var hour models.LessonHour
	err := s.get(&hour, `
		SELECT lesson_num, start_time, end_time
		FROM lesson_hours
		WHERE start_time <= ?
		AND end_time > ?
		ORDER BY lesson_num
		LIMIT 1
	`, clock, clock)
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson hour at %s: %w", clock, err)
	}
	return &hour, nil
}

func (s *BaseStore) ActiveBreakHour(clock string) (*models.BreakHour, error) {
	var hour models.BreakHour
	err := s.get(&hour, `
		SELECT break_num, start_time, end_time
		FROM break_hours
		WHERE start_time <= ?
		AND end_time > ?
		ORDER BY break_num
		LIMIT 1
	`, clock, clock)
	if err != nil {
		return nil, fmt.Errorf("failed to get break at %s: %w", clock, err)
	}
	return &hour, nil
}

func (s *BaseStore) FirstLessonForTeacher(teacherID, weekDay uint8) (*models.Lesson, error) {
	var lesson models.Lesson
	err := s.get(&lesson, `
		SELECT class_id, lesson_hour, week_day, classroom_id, subject_id, teacher_id
		FROM lessons
		WHERE teacher_id = ?
		AND week_day = ?
		ORDER BY lesson_hour
		LIMIT 1
	`, teacherID, weekDay)
	if err != nil {
		return nil, fmt.Errorf("failed to get lessons of teacher %d: %w", teacherID, err)
	}
	return &lesson, nil
}

func (s *BaseStore) GetLessonForTeacher(weekDay, lessonHour, teacherID uint8) (*models.Lesson, error) {
	var lesson models.Lesson
	err := s.get(&lesson, `
		SELECT class_id, lesson_hour, week_day, classroom_id, subject_id, teacher_id
		FROM lessons
		WHERE week_day = ?
		AND lesson_hour = ?
		AND teacher_id = ?
		ORDER BY class_id
		LIMIT 1
	`, weekDay, lessonHour, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson of teacher %d: %w", teacherID, err)
	}
	return &lesson, nil
}

func (s *BaseStore) GetLesson(classID, lessonHour, weekDay uint8) (*models.Lesson, error) {
	var lesson models.Lesson
	err := s.get(&lesson, `
		SELECT class_id, lesson_hour, week_day, classroom_id, subject_id, teacher_id
		FROM lessons
		WHERE class_id = ?
		AND lesson_hour = ?
		AND week_day = ?
	`, classID, lessonHour, weekDay)
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson of class %d: %w", classID, err)
	}
	return &lesson, nil
}

func (s *BaseStore) GetDuty(lessonHour, teacherID, weekDay uint8) (*models.Duty, error) {
	var duty models.Duty
	err := s.get(&duty, `
		SELECT lesson_hour, teacher_id, week_day, classroom_id
		FROM duties
		WHERE lesson_hour = ?
		AND teacher_id = ?
		AND week_day = ?
	`, lessonHour, teacherID, weekDay)
	if err != nil {
		return nil, fmt.Errorf("failed to get duty of teacher %d: %w", teacherID, err)
	}
	return &duty, nil
}

func (s *BaseStore) UpsertClass(class *models.Class) error {
	err := s.namedExec(`
		INSERT INTO classes (class_id, name)
		VALUES (:class_id, :name)
		ON CONFLICT (class_id) DO UPDATE SET
		name = EXCLUDED.name
	`, class)
	if err != nil {
		return fmt.Errorf("failed to upsert class: %w", err)
	}
	return nil
}

func (s *BaseStore) UpsertClassroom(classroom *models.Classroom) error {
	err := s.namedExec(`
		INSERT INTO classrooms (classroom_id, name)
		VALUES (:classroom_id, :name)
		ON CONFLICT (classroom_id) DO UPDATE SET
		name = EXCLUDED.name
	`, classroom)
	if err != nil {
		return fmt.Errorf("failed to upsert classroom: %w", err)
	}
	return nil
}

func (s *BaseStore) UpsertTeacher(teacher *models.Teacher) error {
	err := s.namedExec(`
		INSERT INTO teachers (teacher_id, first_name, last_name)
		VALUES (:teacher_id, :first_name, :last_name)
		ON CONFLICT (teacher_id) DO UPDATE SET
		first_name = EXCLUDED.first_name,
		last_name = EXCLUDED.last_name
	`, teacher)
	if err != nil {
		return fmt.Errorf("failed to upsert teacher: %w", err)
	}
	return nil
}

func (s *BaseStore) UpsertSubject(subject *models.Subject) error {
	err := s.namedExec(`
		INSERT INTO subjects (subject_id, name)
		VALUES (:subject_id, :name)
		ON CONFLICT (subject_id) DO UPDATE SET
		name = EXCLUDED.name
	`, subject)
	if err != nil {
		return fmt.Errorf("failed to upsert subject: %w", err)
	}
	return nil
}

func (s *BaseStore) UpsertLessonHour(hour *models.LessonHour) error {
	err := s.namedExec(`
		INSERT INTO lesson_hours (lesson_num, start_time, end_time)
		VALUES (:lesson_num, :start_time, :end_time)
		ON CONFLICT (lesson_num) DO UPDATE SET
		start_time = EXCLUDED.start_time,
		end_time = EXCLUDED.end_time
	`, hour)
	if err != nil {
		return fmt.Errorf("failed to upsert lesson hour: %w", err)
	}
	return nil
}

func (s *BaseStore) UpsertBreakHour(hour *models.BreakHour) error {
	err := s.namedExec(`
		INSERT INTO break_hours (break_num, start_time, end_time)
		VALUES (:break_num, :start_time, :end_time)
		ON CONFLICT (break_num) DO UPDATE SET
		start_time = EXCLUDED.start_time,
		end_time = EXCLUDED.end_time
	`, hour)
	if err != nil {
		return fmt.Errorf("failed to upsert break hour: %w", err)
	}
	return nil
}

func (s *BaseStore) UpsertLesson(lesson *models.Lesson) error {
	err := s.namedExec(`
		INSERT INTO lessons (class_id, lesson_hour, week_day, classroom_id, subject_id, teacher_id)
		VALUES (:class_id, :lesson_hour, :week_day, :classroom_id, :subject_id, :teacher_id)
		ON CONFLICT (class_id, lesson_hour, week_day) DO UPDATE SET
		classroom_id = EXCLUDED.classroom_id,
		subject_id = EXCLUDED.subject_id,
		teacher_id = EXCLUDED.teacher_id
	`, lesson)
	if err != nil {
		return fmt.Errorf("failed to upsert lesson: %w", err)
	}
	return nil
}

func (s *BaseStore) UpsertDuty(duty *models.Duty) error {
	err := s.namedExec(`
		INSERT INTO duties (lesson_hour, teacher_id, week_day, classroom_id)
		VALUES (:lesson_hour, :teacher_id, :week_day, :classroom_id)
		ON CONFLICT (lesson_hour, teacher_id, week_day) DO UPDATE SET
		classroom_id = EXCLUDED.classroom_id
	`, duty)
	if err != nil {
		return fmt.Errorf("failed to upsert duty: %w", err)
	}
	return nil
}

func (s *BaseStore) CountRows() ([]TableCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var counts []TableCount
	err := s.DB.Select(&counts, `
		SELECT 'classes' AS tbl, COUNT(*) AS n FROM classes
		UNION ALL SELECT 'classrooms', COUNT(*) FROM classrooms
		UNION ALL SELECT 'teachers', COUNT(*) FROM teachers
		UNION ALL SELECT 'subjects', COUNT(*) FROM subjects
		UNION ALL SELECT 'lesson_hours', COUNT(*) FROM lesson_hours
		UNION ALL SELECT 'break_hours', COUNT(*) FROM break_hours
		UNION ALL SELECT 'lessons', COUNT(*) FROM lessons
		UNION ALL SELECT 'duties', COUNT(*) FROM duties
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}
	return counts, nil
}
