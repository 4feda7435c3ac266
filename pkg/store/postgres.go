package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/pwalczyk/dockerop/pkg/connection"
)

// PostgresStore reads connections and variables from an orchestrator
// metadata database over database/sql. The table layout matches the
// conventional metadata schema: connection(conn_id, host, port, login,
// password, schema, extra) and variable(key, val).
type PostgresStore struct {
	db     *sql.DB
	config *Config
}

// NewPostgresStore opens a store against the configured metadata database.
func NewPostgresStore(config *Config) (*PostgresStore, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", config.ConnectionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	pool := parsePoolConfig(config.Options)
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	return &PostgresStore{db: db, config: config}, nil
}

// GetConnection implements connection.Store.
func (s *PostgresStore) GetConnection(ctx context.Context, connectionID string) (*connection.Record, error) {
	const query = `
		SELECT host, port, login, password, schema, extra
		FROM connection
		WHERE conn_id = $1`

	var (
		record connection.Record
		host   sql.NullString
		port   sql.NullInt64
		login  sql.NullString
		pass   sql.NullString
		schema sql.NullString
		extra  sql.NullString
	)

	err := s.db.QueryRowContext(ctx, query, connectionID).Scan(&host, &port, &login, &pass, &schema, &extra)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("connection %q not found", connectionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query connection %q: %w", connectionID, err)
	}

	record.Host = host.String
	record.Port = int(port.Int64)
	record.Login = login.String
	record.Password = pass.String
	record.Schema = schema.String
	record.Extra = extra.String
	return &record, nil
}

// GetVariable implements variable.Store.
func (s *PostgresStore) GetVariable(ctx context.Context, key string) (string, error) {
	const query = `SELECT val FROM variable WHERE key = $1`

	var val sql.NullString
	err := s.db.QueryRowContext(ctx, query, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("variable %q not found", key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query variable %q: %w", key, err)
	}

	return val.String, nil
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
