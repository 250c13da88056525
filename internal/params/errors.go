package params

import (
	"fmt"
	"strings"
)

// MissingRequiredError reports a required ParameterDef with no matching
// CLI argument and no default.
type MissingRequiredError struct {
	Key string
}

func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("missing required argument for %s", e.Key)
}

// AliasConflictError reports a named parameter matched by both its long
// name and its short alias in the same invocation.
type AliasConflictError struct {
	LongName string
	Alias    string
}

func (e *AliasConflictError) Error() string {
	return fmt.Sprintf("--%s and %s both supplied; use one", e.LongName, e.Alias)
}

// UnconsumedArgsError reports CLI args left over after binding, with no
// Generic collector present in the task to absorb them.
type UnconsumedArgsError struct {
	Args []string
}

func (e *UnconsumedArgsError) Error() string {
	return fmt.Sprintf("unconsumed argument(s): %s", strings.Join(e.Args, " "))
}
