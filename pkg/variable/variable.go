// Package variable resolves named variables from an external key-value
// configuration store and exposes them as environment entries, one entry per
// variable, scoped by the variable's own identifier.
package variable

import (
	"context"

	"github.com/pwalczyk/dockerop/pkg/environment"
	"github.com/pwalczyk/dockerop/pkg/envname"
)

// Field is the variable segment of a named-variable entry; the scope already
// carries the variable's identifier, so the value slot has a fixed name.
const Field = "VALUE"

// Store is the external variable store consulted at build time. Lookup
// errors propagate unmodified to the caller.
type Store interface {
	GetVariable(ctx context.Context, key string) (string, error)
}

// Provider produces a single named variable as a canonical environment entry
// at build time.
type Provider struct {
	store Store
	key   string
}

// NewProvider creates a build-phase provider for the given variable key.
func NewProvider(store Store, key string) *Provider {
	return &Provider{store: store, key: key}
}

// Key returns the variable identifier this provider resolves.
func (p *Provider) Key() string {
	return p.key
}

// Produce resolves the variable from the store and returns it as a
// single-entry environment map keyed under the variable's identifier.
func (p *Provider) Produce(ctx context.Context) (*environment.Map, error) {
	value, err := p.store.GetVariable(ctx, p.key)
	if err != nil {
		return nil, err
	}

	env := environment.NewMap()
	name, serialized := envname.Generate(envname.VariablePrefix, p.key, Field, value)
	env.Set(name, serialized)
	return env, nil
}

// Env is the run-phase reader companion. The operator itself only uses the
// build side, but in-container code can read a variable back through the
// same naming convention.
type Env struct {
	key    string
	lookup envname.Lookup
}

// EnvOption configures an Env reader.
type EnvOption func(*Env)

// WithLookup overrides the environment lookup.
func WithLookup(lookup envname.Lookup) EnvOption {
	return func(e *Env) { e.lookup = lookup }
}

// NewEnv creates a run-phase reader for the given variable key.
func NewEnv(key string, opts ...EnvOption) *Env {
	e := &Env{key: key, lookup: envname.OSLookup}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Value returns the injected variable value, failing with a
// MissingVariableError when it was not injected.
func (e *Env) Value() (string, error) {
	return envname.Read(e.lookup, envname.VariablePrefix, e.key, Field)
}
