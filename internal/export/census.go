package export

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/skolklocka/internal/app"
	"github.com/shrimpsizemoose/skolklocka/internal/metrics"
	"github.com/shrimpsizemoose/skolklocka/internal/store"
)

// CensusExporter periodically publishes per-table row counts as gauges.
type CensusExporter struct {
	store     store.ScheduleStore
	scheduler *gocron.Scheduler
}

func NewCensusExporter(config *app.Config, store store.ScheduleStore) (*CensusExporter, error) {
	exporter := &CensusExporter{
		store:     store,
		scheduler: gocron.NewScheduler(time.UTC),
	}

	interval := config.Metrics.CensusIntervalSeconds
	if interval <= 0 {
		return nil, fmt.Errorf("census interval must be positive, got %d", interval)
	}

	_, err := exporter.scheduler.Every(interval).Seconds().Do(func() {
		if err := exporter.Export(); err != nil {
			logger.Error.Printf("Census failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule census: %w", err)
	}

	return exporter, nil
}

func (e *CensusExporter) Start() {
	e.scheduler.StartAsync()
}

func (e *CensusExporter) Stop() {
	e.scheduler.Stop()
}

// Export takes one census and updates the table_rows gauges.
func (e *CensusExporter) Export() error {
	counts, err := e.store.CountRows()
	if err != nil {
		return err
	}
	for _, c := range counts {
		metrics.TableRows.WithLabelValues(c.Table).Set(float64(c.Rows))
	}
	logger.Debug.Printf("Census done: %d tables", len(counts))
	return nil
}
