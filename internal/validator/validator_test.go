package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var policies = []string{"success", "force", "never"}

func TestValidate_Success(t *testing.T) {
	v := NewConfigValidator(policies)
	assert.NoError(t, v.Validate("etl:latest", "run.py", "success", "host"))
}

func TestValidate_MissingImage(t *testing.T) {
	v := NewConfigValidator(policies)
	err := v.Validate("", "run.py", "success", "host")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "image is required")
}

func TestValidate_MissingScriptPath(t *testing.T) {
	v := NewConfigValidator(policies)
	err := v.Validate("etl:latest", "", "success", "host")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "script path is required")
}

func TestValidate_UnknownAutoRemovePolicy(t *testing.T) {
	v := NewConfigValidator(policies)
	err := v.Validate("etl:latest", "run.py", "sometimes", "host")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "auto-remove policy 'sometimes' not recognized")
}

func TestValidate_MissingNetworkMode(t *testing.T) {
	v := NewConfigValidator(policies)
	err := v.Validate("etl:latest", "run.py", "never", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "network mode is required")
}
