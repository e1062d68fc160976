package repository

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"runtime"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/goliatone/go-campus"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options describes how to reach the database.
type Options struct {
	Driver   string
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Schema   string

	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// ConnectionString returns DSN when set, otherwise assembles a postgres URL.
func (o Options) ConnectionString() string {
	if o.DSN != "" {
		return o.DSN
	}
	if o.Driver == DriverSQLite {
		return "file::memory:?cache=shared"
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(o.User, o.Password),
		Host:   fmt.Sprintf("%s:%d", o.Host, o.Port),
		Path:   "/" + o.Database,
	}
	q := url.Values{}
	if o.Schema != "" {
		q.Set("search_path", o.Schema)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Open connects, applies pool settings and verifies the connection.
func Open(ctx context.Context, opts Options, logger campus.Logger) (*bun.DB, error) {
	logger = campus.LoggerOrDefault(logger)

	var (
		sqldb *sql.DB
		db    *bun.DB
		err   error
	)

	switch strings.ToLower(opts.Driver) {
	case DriverSQLite, "sqlite3":
		sqldb, err = sql.Open(sqliteshim.ShimName, opts.ConnectionString())
		if err != nil {
			return nil, campus.Database(err)
		}
		// a single connection keeps in-memory databases shared
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case DriverPostgres, "postgresql", "":
		sqldb, err = sql.Open("pgx", opts.ConnectionString())
		if err != nil {
			return nil, campus.Database(err)
		}
		sqldb.SetMaxOpenConns(maxOpenConns(opts.MaxOpenConns))
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, campus.Errorf("unsupported database driver %q", opts.Driver)
	}

	if opts.ConnMaxLifetime > 0 {
		sqldb.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if opts.ConnMaxIdleTime > 0 {
		sqldb.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, campus.Database(err)
	}

	version, err := ServerVersion(ctx, db)
	if err != nil {
		logger.Warn("could not read database version", "error", err)
	} else {
		logger.Info("connected to database", "driver", db.Dialect().Name().String(), "version", version)
	}

	return db, nil
}

// ServerVersion reports the database server version string.
func ServerVersion(ctx context.Context, db *bun.DB) (string, error) {
	query := "SELECT version()"
	if db.Dialect().Name() == dialect.SQLite {
		query = "SELECT sqlite_version()"
	}
	var version string
	if err := db.NewRaw(query).Scan(ctx, &version); err != nil {
		return "", campus.Database(err)
	}
	return version, nil
}

func maxOpenConns(n int) int {
	if n > 0 {
		return n
	}
	return max(runtime.NumCPU()*8, 10)
}
