// Package envname implements the canonical environment-variable naming
// convention shared by all scoped providers: PREFIX__SCOPE__VARIABLE, with
// scope and variable upper-cased and joined by a fixed delimiter.
package envname

import (
	"fmt"
	"os"
	"strings"

	"github.com/pwalczyk/dockerop/pkg/errors"
)

// Delimiter joins the prefix, scope and variable segments.
const Delimiter = "__"

// Fixed prefixes, one per scope kind.
const (
	ConnectionPrefix = "AIRFLOW_CONN"
	ContextPrefix    = "AIRFLOW_CONTEXT"
	VariablePrefix   = "AIRFLOW_VAR"
)

// Lookup resolves an environment variable name to its raw value. The second
// return reports whether the variable was present at all.
type Lookup func(name string) (string, bool)

// OSLookup reads from the real process environment.
var OSLookup Lookup = os.LookupEnv

// Name returns the canonical environment variable name for a
// (prefix, scope, variable) triple. The prefix is passed through verbatim;
// scope and variable are upper-cased.
func Name(prefix, scope, variable string) string {
	return strings.Join([]string{prefix, strings.ToUpper(scope), strings.ToUpper(variable)}, Delimiter)
}

// Read resolves the canonical name through the given lookup and returns the
// raw string value. Absence is always an error, never a silent fallback.
func Read(lookup Lookup, prefix, scope, variable string) (string, error) {
	if lookup == nil {
		lookup = OSLookup
	}

	name := Name(prefix, scope, variable)
	value, found := lookup(name)
	if !found {
		return "", errors.NewMissingVariableError(name)
	}

	return value, nil
}

// Generate serializes a value to its string form under the canonical name
// and returns the resulting single-entry pair.
func Generate(prefix, scope, variable string, value interface{}) (string, string) {
	return Name(prefix, scope, variable), fmt.Sprintf("%v", value)
}
