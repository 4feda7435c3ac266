// Package runcontext exposes the run-context values of an active task
// execution as environment entries, and reads them back inside the container.
//
// The run context is owned by the orchestrator and becomes available only
// once the run begins, so the provider side carries an explicit "not yet
// bound" state instead of relying on attribute-presence checks.
package runcontext

import (
	"context"
	"time"

	"github.com/pwalczyk/dockerop/pkg/environment"
	"github.com/pwalczyk/dockerop/pkg/envname"
	"github.com/pwalczyk/dockerop/pkg/errors"
)

// Scope is the fixed scope literal for run-context entries; there is one run
// context per run, so the scope is not parameterized.
const Scope = "CONTEXT"

// Context parameter names.
const (
	ParamDataIntervalStart = "DATA_INTERVAL_START"
	ParamDataIntervalEnd   = "DATA_INTERVAL_END"
)

// Timestamps are serialized to RFC 3339 strings.
const TimeFormat = time.RFC3339

// RunContext is the orchestrator-owned context of an active run. It is valid
// only while execution is in progress.
type RunContext interface {
	DataIntervalStart() time.Time
	DataIntervalEnd() time.Time
}

// Provider produces the run-context timestamp entries. It starts unbound and
// must be given a run context via WithContext before Produce succeeds.
type Provider struct {
	rc RunContext
}

// NewProvider creates an unbound run-context provider.
func NewProvider() *Provider {
	return &Provider{}
}

// WithContext binds the active run context and returns the provider for
// chaining.
func (p *Provider) WithContext(rc RunContext) *Provider {
	p.rc = rc
	return p
}

// Bound reports whether a run context has been bound.
func (p *Provider) Bound() bool {
	return p.rc != nil
}

// Produce serializes the data-interval start and end timestamps into a
// two-entry environment map. It fails with ErrContextNotBound before a run
// context is bound.
func (p *Provider) Produce(_ context.Context) (*environment.Map, error) {
	if p.rc == nil {
		return nil, errors.ErrContextNotBound
	}

	env := environment.NewMap()
	startName, startValue := envname.Generate(
		envname.ContextPrefix, Scope, ParamDataIntervalStart, p.rc.DataIntervalStart().Format(TimeFormat))
	endName, endValue := envname.Generate(
		envname.ContextPrefix, Scope, ParamDataIntervalEnd, p.rc.DataIntervalEnd().Format(TimeFormat))
	env.Set(startName, startValue)
	env.Set(endName, endValue)
	return env, nil
}

// Env is the run-phase reader: it parses the injected timestamp variables
// back into time values. Before the task begins the variables are not yet
// injected and every accessor fails with a MissingVariableError.
type Env struct {
	lookup envname.Lookup
}

// EnvOption configures an Env reader.
type EnvOption func(*Env)

// WithLookup overrides the environment lookup.
func WithLookup(lookup envname.Lookup) EnvOption {
	return func(e *Env) { e.lookup = lookup }
}

// NewEnv creates a run-phase reader over the real process environment unless
// overridden.
func NewEnv(opts ...EnvOption) *Env {
	e := &Env{lookup: envname.OSLookup}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Env) readTime(param string) (time.Time, error) {
	raw, err := envname.Read(e.lookup, envname.ContextPrefix, Scope, param)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(TimeFormat, raw)
}

// DataIntervalStart returns the injected start-of-interval timestamp.
func (e *Env) DataIntervalStart() (time.Time, error) {
	return e.readTime(ParamDataIntervalStart)
}

// DataIntervalEnd returns the injected end-of-interval timestamp.
func (e *Env) DataIntervalEnd() (time.Time, error) {
	return e.readTime(ParamDataIntervalEnd)
}

// Interval is a concrete RunContext carrying a fixed data interval. Useful
// for orchestrators that hand over plain timestamps rather than a context
// object of their own.
type Interval struct {
	Start time.Time
	End   time.Time
}

// DataIntervalStart implements RunContext.
func (i Interval) DataIntervalStart() time.Time { return i.Start }

// DataIntervalEnd implements RunContext.
func (i Interval) DataIntervalEnd() time.Time { return i.End }
