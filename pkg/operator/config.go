package operator

import (
	"encoding/json"
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/pwalczyk/dockerop/internal/validator"
	"github.com/pwalczyk/dockerop/pkg/launcher"
)

// Interpreter is the fixed command the container entry point is invoked with.
const Interpreter = "python"

// Config is the configuration surface of the operator.
type Config struct {
	// Image is the container image holding the task's dependencies.
	Image string `json:"image"`
	// ScriptPath is the path inside the image to the entry-point program.
	ScriptPath string `json:"script_path"`
	// ExtraArgs are appended to the command line; empty entries are dropped.
	ExtraArgs []string `json:"extra_args,omitempty"`
	// ConnectionIDs lists the connections whose credentials are injected at
	// build phase, in order; later identifiers win on name collision.
	ConnectionIDs []string `json:"connection_ids,omitempty"`
	// VariableIDs lists the named variables injected at build phase.
	VariableIDs []string `json:"variable_ids,omitempty"`
	// AutoRemove controls container deletion after exit: success, force, never.
	AutoRemove string `json:"auto_remove,omitempty"`
	// TTY allocates a pseudo-terminal for the container process.
	TTY bool `json:"tty,omitempty"`
	// NetworkMode is the container networking mode.
	NetworkMode string `json:"network_mode,omitempty"`
	// SkipExitCode is the exit code the launcher interprets as skipped
	// rather than failed.
	SkipExitCode *int `json:"skip_exit_code,omitempty"`
	// Environment holds caller-supplied base entries, merged before any
	// provider output.
	Environment map[string]string `json:"environment,omitempty"`
}

// DefaultConfig returns a configuration with the operator's changed
// defaults applied: auto-remove on success, tty allocated, host networking.
func DefaultConfig() *Config {
	return &Config{
		AutoRemove:  launcher.AutoRemoveSuccess,
		TTY:         true,
		NetworkMode: "host",
	}
}

// NewConfig creates a config from a JSON or YAML definition, layered over
// the defaults.
func NewConfig(definition []byte, isJSON bool) (*Config, error) {
	if !isJSON {
		jsonDefn, err := yaml.YAMLToJSON(definition)
		if err != nil {
			return nil, fmt.Errorf("failed to YAML-unmarshal operator definition: %w", err)
		}
		definition = jsonDefn
	}

	config := DefaultConfig()
	if err := json.Unmarshal(definition, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal operator definition: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("operator definition validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	v := validator.NewConfigValidator(launcher.AutoRemovePolicies)
	return v.Validate(c.Image, c.ScriptPath, c.AutoRemove, c.NetworkMode)
}

// Command derives the container command line: the interpreter invocation,
// the script path, then the extra arguments with empty entries dropped.
func (c *Config) Command() []string {
	command := []string{Interpreter, c.ScriptPath}
	for _, arg := range c.ExtraArgs {
		if arg == "" {
			continue
		}
		command = append(command, arg)
	}
	return command
}
