package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shrimpsizemoose/skolklocka/internal/models"
	"github.com/shrimpsizemoose/skolklocka/internal/store"
)

// setupTestDB starts a throwaway Postgres container and applies the migrations
func setupTestDB(t *testing.T) (*PostgresStore, func()) {
	if testing.Short() {
		t.Skip("postgres container tests are skipped in -short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := NewPostgresStore(dsn, "../../../migrations")
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		s.Close()
		container.Terminate(ctx)
	}

	return s, cleanup
}

func TestRebind(t *testing.T) {
	assert.Equal(t,
		"SELECT * FROM duties WHERE lesson_hour = $1 AND teacher_id = $2",
		rebind("SELECT * FROM duties WHERE lesson_hour = ? AND teacher_id = ?"),
	)
}

func TestLessonUpsertAndLookup(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	lesson := models.Lesson{ClassID: 1, ClassroomID: 1, SubjectID: 1, TeacherID: 1, LessonHour: 5, WeekDay: 1}
	require.NoError(t, s.UpsertLesson(&lesson))

	lesson.ClassroomID = 2
	require.NoError(t, s.UpsertLesson(&lesson))

	got, err := s.GetLesson(1, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), got.ClassroomID)

	counts, err := s.CountRows()
	require.NoError(t, err)
	assert.Contains(t, counts, store.TableCount{Table: "lessons", Rows: 1})
}

func TestNameLookupsAndActiveHour(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, s.UpsertClassroom(&models.Classroom{ID: 4, Name: "Gym"}))
	require.NoError(t, s.UpsertLessonHour(&models.LessonHour{Num: 3, StartTime: "1000", EndTime: "1045"}))

	name, err := s.ClassroomName(4)
	require.NoError(t, err)
	assert.Equal(t, "Gym", name)

	_, err = s.ClassroomName(5)
	assert.ErrorIs(t, err, store.ErrNoData)

	hour, err := s.ActiveLessonHour("1030")
	require.NoError(t, err)
	assert.Equal(t, uint8(3), hour.Num)

	_, err = s.ActiveLessonHour("1045")
	assert.ErrorIs(t, err, store.ErrNoData)
}
