package validator

import (
	"fmt"
	"slices"
)

// Validator validates operator configurations.
type Validator interface {
	// Validate validates the launch-relevant fields of an operator config.
	Validate(image, scriptPath, autoRemove, networkMode string) error
}

// ConfigValidator validates operator configurations.
type ConfigValidator struct {
	autoRemovePolicies []string
}

// NewConfigValidator creates a new ConfigValidator recognizing the given
// auto-remove policies.
func NewConfigValidator(autoRemovePolicies []string) *ConfigValidator {
	return &ConfigValidator{autoRemovePolicies: autoRemovePolicies}
}

// Validate validates the launch-relevant fields of an operator config.
func (v *ConfigValidator) Validate(image, scriptPath, autoRemove, networkMode string) error {
	if image == "" {
		return fmt.Errorf("image is required")
	}

	if scriptPath == "" {
		return fmt.Errorf("script path is required")
	}

	if !slices.Contains(v.autoRemovePolicies, autoRemove) {
		return fmt.Errorf("auto-remove policy '%s' not recognized (one of %v)", autoRemove, v.autoRemovePolicies)
	}

	if networkMode == "" {
		return fmt.Errorf("network mode is required")
	}

	return nil
}
