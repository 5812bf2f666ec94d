package store

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	glebarez "github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// libsqlAuthTokenEnv is the environment variable a remote libsql/Turso DSN
// reads its auth token from.
const libsqlAuthTokenEnv = "LQLROUTE_LIBSQL_AUTH_TOKEN"

// Connect opens the rule store and runs migrations. A bare file path (or
// empty string, meaning "in-memory") uses the pure-Go, CGO-free glebarez
// sqlite driver; an http(s):// or libsql:// DSN dials a remote libsql/Turso
// database instead, authenticating with LQLROUTE_LIBSQL_AUTH_TOKEN if set.
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	if dsn == "" {
		dsn = ":memory:"
	}

	config := &gorm.Config{}
	if debug {
		config.Logger = logger.Default.LogMode(logger.Info)
	}

	var (
		dialector gorm.Dialector
		conn      *sql.DB
	)

	if isRemoteDSN(dsn) {
		var (
			connector driver.Connector
			err       error
		)
		if token := os.Getenv(libsqlAuthTokenEnv); token != "" {
			connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
		} else {
			connector, err = libsql.NewConnector(dsn)
		}
		if err != nil {
			return nil, fmt.Errorf("store: create libsql connector: %w", err)
		}
		conn = sql.OpenDB(connector)
		dialector = sqlite.New(sqlite.Config{
			DriverName: "libsql",
			Conn:       conn,
			DSN:        dsn,
		})
	} else {
		if dsn != ":memory:" {
			if dir := filepath.Dir(dsn); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, fmt.Errorf("store: create database directory: %w", err)
				}
			}
		}
		dialector = glebarez.Open(dsn)
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Exec("PRAGMA foreign_keys = ON")
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	log.Debug().Str("dsn", redactDSN(dsn)).Bool("remote", isRemoteDSN(dsn)).Msg("store connected")
	return db, nil
}

// redactDSN strips a possible embedded credential from a remote DSN before
// it reaches a log line.
func redactDSN(dsn string) string {
	if idx := strings.Index(dsn, "@"); isRemoteDSN(dsn) && idx >= 0 {
		if schemeEnd := strings.Index(dsn, "://"); schemeEnd >= 0 && schemeEnd < idx {
			return dsn[:schemeEnd+3] + "***" + dsn[idx:]
		}
	}
	return dsn
}

func isRemoteDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "http://") ||
		strings.HasPrefix(dsn, "https://") ||
		strings.HasPrefix(dsn, "libsql://")
}

// Migrate applies the rule store's schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&StoredRule{},
		&RouteBinding{},
		&IngestStats{},
	)
}
