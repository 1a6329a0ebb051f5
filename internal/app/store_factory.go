package app

import (
	"fmt"
	"strings"

	"github.com/shrimpsizemoose/skolklocka/internal/store"
	"github.com/shrimpsizemoose/skolklocka/internal/store/postgres"
	"github.com/shrimpsizemoose/skolklocka/internal/store/sqlite"
)

// databaseType picks the backend from the DSN: postgres:// and postgresql://
// URLs go to postgres, anything else is a sqlite path.
func databaseType(dsn string) store.DatabaseType {
	if strings.HasPrefix(dsn, "postgres") {
		return store.DBTypePostgres
	}
	return store.DBTypeSQLite
}

func NewStore(config store.DBConfig) (store.ScheduleStore, error) {
	switch databaseType(config.DSN) {
	case store.DBTypePostgres:
		return postgres.NewPostgresStore(config.DSN, config.MigrationsDir)
	case store.DBTypeSQLite:
		return sqlite.NewSQLiteStore(config.DSN, config.MigrationsDir)
	default:
		return nil, fmt.Errorf("unable to determine database type from DSN: %s", config.DSN)
	}
}
