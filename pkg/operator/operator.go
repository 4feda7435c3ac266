// Package operator implements the container-launch adapter: it composes the
// scoped providers' outputs into the environment map of a container launch
// request, in two causally ordered phases. The build phase resolves values
// known before the run starts (connections, named variables); the execute
// phase merges the values that exist only once a run context is available,
// then delegates to the launcher.
package operator

import (
	"context"
	"log"
	"sort"

	"github.com/pwalczyk/dockerop/pkg/connection"
	"github.com/pwalczyk/dockerop/pkg/environment"
	"github.com/pwalczyk/dockerop/pkg/errors"
	"github.com/pwalczyk/dockerop/pkg/launcher"
	"github.com/pwalczyk/dockerop/pkg/runcontext"
	"github.com/pwalczyk/dockerop/pkg/variable"
)

// LaunchSpec is the build-phase output: the derived command line and the
// environment map assembled from the build-time providers. The run-context
// entries are absent until the execute phase merges them in.
type LaunchSpec struct {
	Command []string
	Env     *environment.Map
}

// Operator launches one containerized task per Execute call. It is built
// once and may be executed repeatedly; each run merges into its own copy of
// the built environment, so runs do not share state.
type Operator struct {
	config      *Config
	connections connection.Store
	variables   variable.Store
	launcher    launcher.Launcher

	spec *LaunchSpec
}

// New creates an operator from a validated config and its external
// collaborators. The variable store may be nil when no variable identifiers
// are configured; likewise the connection store.
func New(config *Config, connections connection.Store, variables variable.Store, l launcher.Launcher) (*Operator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Operator{
		config:      config,
		connections: connections,
		variables:   variables,
		launcher:    l,
	}, nil
}

// Config returns the operator's configuration.
func (o *Operator) Config() *Config {
	return o.config
}

// Spec returns the built launch spec, or nil before Build has completed.
func (o *Operator) Spec() *LaunchSpec {
	return o.spec
}

// Build assembles the launch spec from the build-time providers. Providers
// are applied in the configured list order, base environment first, so later
// identifiers win on canonical-name collision. Any provider failure aborts
// the build; nothing is retried.
func (o *Operator) Build(ctx context.Context) (*LaunchSpec, error) {
	env := environment.NewMap()

	// Caller-supplied base entries, sorted for a stable insertion order.
	baseNames := make([]string, 0, len(o.config.Environment))
	for name := range o.config.Environment {
		baseNames = append(baseNames, name)
	}
	sort.Strings(baseNames)
	for _, name := range baseNames {
		env.Set(name, o.config.Environment[name])
	}

	providers := make([]environment.Provider, 0, len(o.config.ConnectionIDs)+len(o.config.VariableIDs))
	for _, connectionID := range o.config.ConnectionIDs {
		providers = append(providers, connection.NewProvider(o.connections, connectionID))
	}
	for _, key := range o.config.VariableIDs {
		providers = append(providers, variable.NewProvider(o.variables, key))
	}

	for _, provider := range providers {
		produced, err := provider.Produce(ctx)
		if err != nil {
			return nil, err
		}
		env.Merge(produced)
	}

	o.spec = &LaunchSpec{
		Command: o.config.Command(),
		Env:     env,
	}
	return o.spec, nil
}

// Execute merges the run-context entries into a copy of the built
// environment and delegates to the launcher. It fails with ErrNotBuilt when
// invoked before Build, and with ErrContextNotBound when rc is nil. The
// returned run records the outcome even when the launch failed.
func (o *Operator) Execute(ctx context.Context, rc runcontext.RunContext) (*Run, error) {
	if o.spec == nil {
		return nil, errors.ErrNotBuilt
	}
	if rc == nil {
		return nil, errors.ErrContextNotBound
	}

	contextEnv, err := runcontext.NewProvider().WithContext(rc).Produce(ctx)
	if err != nil {
		return nil, err
	}

	env := o.spec.Env.Clone()
	env.Merge(contextEnv)

	run := newRun()
	log.Printf("Launching container run %s: image=%s command=%v", run.ID, o.config.Image, o.spec.Command)

	result, err := o.launcher.Launch(ctx, &launcher.Request{
		Image:        o.config.Image,
		Command:      o.spec.Command,
		Env:          env,
		TTY:          o.config.TTY,
		NetworkMode:  o.config.NetworkMode,
		AutoRemove:   o.config.AutoRemove,
		SkipExitCode: o.config.SkipExitCode,
	})

	if result == nil {
		result = &launcher.Result{ExitCode: -1}
	}
	run.complete(result.ContainerID, result.ExitCode, result.Skipped, err)

	if err != nil {
		log.Printf("Container run %s failed: %v", run.ID, err)
		return run, err
	}
	return run, nil
}
