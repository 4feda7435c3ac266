// Package connection resolves connection credentials for a connection
// identifier, either from an external connection store at build time or from
// injected environment variables inside the launched container, and builds
// ready-to-use backend clients from the resolved fields.
package connection

import (
	"context"
)

// Field names of a connection record, in the fixed order they are emitted.
const (
	FieldHost     = "host"
	FieldPort     = "port"
	FieldLogin    = "login"
	FieldPassword = "password"
	FieldSchema   = "schema"
	FieldExtra    = "extra"
)

// Fields lists the connection field names in emission order.
var Fields = []string{FieldHost, FieldPort, FieldLogin, FieldPassword, FieldSchema, FieldExtra}

// Record holds the credential fields of a single connection, keyed in the
// external store by a connection identifier.
type Record struct {
	Host     string
	Port     int
	Login    string
	Password string
	Schema   string
	Extra    string
}

// Store is the external connection store consulted at build time. Lookup
// errors propagate unmodified to the caller.
type Store interface {
	GetConnection(ctx context.Context, connectionID string) (*Record, error)
}
