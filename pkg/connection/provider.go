package connection

import (
	"context"
	"fmt"

	"github.com/pwalczyk/dockerop/pkg/environment"
	"github.com/pwalczyk/dockerop/pkg/envname"
)

// Provider produces the six credential entries of one connection as
// canonically named environment variables, scoped by the connection
// identifier. It is the build-phase side of the connection interface.
type Provider struct {
	store        Store
	connectionID string
}

// NewProvider creates a build-phase provider for the given connection
// identifier backed by the given store.
func NewProvider(store Store, connectionID string) *Provider {
	return &Provider{store: store, connectionID: connectionID}
}

// ConnectionID returns the identifier this provider resolves.
func (p *Provider) ConnectionID() string {
	return p.connectionID
}

// Produce resolves the connection record from the store and returns all six
// fields as an environment map in fixed field order. Store errors are
// returned as-is.
func (p *Provider) Produce(ctx context.Context) (*environment.Map, error) {
	record, err := p.store.GetConnection(ctx, p.connectionID)
	if err != nil {
		return nil, err
	}

	env := environment.NewMap()
	for _, field := range Fields {
		name, value := envname.Generate(envname.ConnectionPrefix, p.connectionID, field, record.field(field))
		env.Set(name, value)
	}
	return env, nil
}

func (r *Record) field(name string) interface{} {
	switch name {
	case FieldHost:
		return r.Host
	case FieldPort:
		return r.Port
	case FieldLogin:
		return r.Login
	case FieldPassword:
		return r.Password
	case FieldSchema:
		return r.Schema
	case FieldExtra:
		return r.Extra
	default:
		panic(fmt.Sprintf("unknown connection field %q", name))
	}
}
