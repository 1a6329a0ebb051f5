package store

import "errors"

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

type DBConfig struct {
	DSN           string
	MigrationsDir string
}

// ErrNoData covers both an empty result and a row that could not be decoded.
var ErrNoData = errors.New("store: no data")

type TableCount struct {
	Table string `db:"tbl"`
	Rows  int64  `db:"n"`
}
