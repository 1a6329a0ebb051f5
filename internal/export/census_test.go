package export

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/skolklocka/internal/app"
	"github.com/shrimpsizemoose/skolklocka/internal/metrics"
	"github.com/shrimpsizemoose/skolklocka/internal/models"
	"github.com/shrimpsizemoose/skolklocka/internal/store/sqlite"
)

func TestCensusExport(t *testing.T) {
	s, err := sqlite.NewSQLiteStore(":memory:", "../../migrations")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.UpsertClass(&models.Class{ID: 1, Name: "1A"}))
	require.NoError(t, s.UpsertClass(&models.Class{ID: 2, Name: "1B"}))
	require.NoError(t, s.UpsertLessonHour(&models.LessonHour{Num: 1, StartTime: "0800", EndTime: "0845"}))

	config := &app.Config{}
	config.Metrics.CensusIntervalSeconds = 3600

	exporter, err := NewCensusExporter(config, s)
	require.NoError(t, err)

	require.NoError(t, exporter.Export())

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.TableRows.WithLabelValues("classes")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.TableRows.WithLabelValues("lesson_hours")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.TableRows.WithLabelValues("duties")))
}

func TestCensusRejectsZeroInterval(t *testing.T) {
	_, err := NewCensusExporter(&app.Config{}, nil)
	assert.Error(t, err)
}

func TestCensusStartStop(t *testing.T) {
	s, err := sqlite.NewSQLiteStore(":memory:", "../../migrations")
	require.NoError(t, err)
	defer s.Close()

	config := &app.Config{}
	config.Metrics.CensusIntervalSeconds = 1

	exporter, err := NewCensusExporter(config, s)
	require.NoError(t, err)

	exporter.Start()
	exporter.Stop()
}
