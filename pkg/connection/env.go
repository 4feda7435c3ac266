package connection

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pwalczyk/dockerop/pkg/envname"
)

// Env is the run-phase side of the connection interface: it reconstructs a
// connection's credentials from the environment variables injected into the
// container, and builds backend clients from them. Every accessor fails with
// a MissingVariableError when invoked outside a container that received the
// corresponding injected variables.
type Env struct {
	connectionID string
	lookup       envname.Lookup
}

// EnvOption configures an Env reader.
type EnvOption func(*Env)

// WithLookup overrides the environment lookup, keeping the reader testable
// without mutating real process state.
func WithLookup(lookup envname.Lookup) EnvOption {
	return func(e *Env) { e.lookup = lookup }
}

// NewEnv creates a run-phase reader for the given connection identifier,
// reading from the real process environment unless overridden.
func NewEnv(connectionID string, opts ...EnvOption) *Env {
	e := &Env{connectionID: connectionID, lookup: envname.OSLookup}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Env) read(field string) (string, error) {
	return envname.Read(e.lookup, envname.ConnectionPrefix, e.connectionID, field)
}

// Host returns the injected host.
func (e *Env) Host() (string, error) {
	return e.read(FieldHost)
}

// Port returns the injected port parsed back to an integer.
func (e *Env) Port() (int, error) {
	raw, err := e.read(FieldPort)
	if err != nil {
		return 0, err
	}
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid port for connection %q: %w", e.connectionID, err)
	}
	return port, nil
}

// Login returns the injected login.
func (e *Env) Login() (string, error) {
	return e.read(FieldLogin)
}

// Password returns the injected password.
func (e *Env) Password() (string, error) {
	return e.read(FieldPassword)
}

// Schema returns the injected schema/database name.
func (e *Env) Schema() (string, error) {
	return e.read(FieldSchema)
}

// Extra returns the injected free-form extra field.
func (e *Env) Extra() (string, error) {
	return e.read(FieldExtra)
}

// Record resolves all six fields at once.
func (e *Env) Record() (*Record, error) {
	host, err := e.Host()
	if err != nil {
		return nil, err
	}
	port, err := e.Port()
	if err != nil {
		return nil, err
	}
	login, err := e.Login()
	if err != nil {
		return nil, err
	}
	password, err := e.Password()
	if err != nil {
		return nil, err
	}
	schema, err := e.Schema()
	if err != nil {
		return nil, err
	}
	extra, err := e.Extra()
	if err != nil {
		return nil, err
	}

	return &Record{
		Host:     host,
		Port:     port,
		Login:    login,
		Password: password,
		Schema:   schema,
		Extra:    extra,
	}, nil
}

// PostgresURL builds a postgres connection URL from the injected login,
// password, host, port and schema.
func (e *Env) PostgresURL() (string, error) {
	record, err := e.Record()
	if err != nil {
		return "", err
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(record.Login, record.Password),
		Host:   fmt.Sprintf("%s:%d", record.Host, record.Port),
		Path:   record.Schema,
	}
	return u.String(), nil
}

// SQLDB opens a database/sql handle against the connection's postgres URL.
// The pool is created lazily; no connection is tested at construction time.
func (e *Env) SQLDB() (*sql.DB, error) {
	dsn, err := e.PostgresURL()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	return db, nil
}

// GormDB opens a GORM handle against the connection's postgres URL. Automatic
// ping at open time is disabled so the client stays lazy like the others.
func (e *Env) GormDB() (*gorm.DB, error) {
	dsn, err := e.PostgresURL()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}
	return db, nil
}

// MongoDatabase builds a document-store client and returns the database named
// by the connection's schema. Connect does not dial; no server is contacted
// until first use.
func (e *Env) MongoDatabase(ctx context.Context) (*mongo.Database, error) {
	record, err := e.Record()
	if err != nil {
		return nil, err
	}

	uri := fmt.Sprintf("mongodb://%s:%d", record.Host, record.Port)
	if record.Login != "" {
		uri = fmt.Sprintf("mongodb://%s:%s@%s:%d",
			url.QueryEscape(record.Login), url.QueryEscape(record.Password), record.Host, record.Port)
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}
	return client.Database(record.Schema), nil
}

// RedisClient builds a key-value-store client from the injected host, port
// and password. The client dials lazily on first command.
func (e *Env) RedisClient() (*redis.Client, error) {
	host, err := e.Host()
	if err != nil {
		return nil, err
	}
	port, err := e.Port()
	if err != nil {
		return nil, err
	}
	password, err := e.Password()
	if err != nil {
		return nil, err
	}

	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
	}), nil
}
