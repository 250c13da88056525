package params

import (
	"fmt"
	"strings"

	"github.com/axes-build/axes/internal/task"
)

// Expand implements the emission rules of spec.md §4.7: given a resolved
// value for one ParameterDef, produce the text substituted at the
// Param's position in a command template.
func Expand(def task.ParameterDef, v Value) string {
	switch d := def.(type) {
	case task.Positional:
		return expandPositional(d, v)
	case task.Named:
		return expandNamed(d, v)
	case task.Generic:
		return strings.Join(v.List, " ")
	default:
		return ""
	}
}

func expandPositional(d task.Positional, v Value) string {
	if !v.Present {
		return ""
	}
	val := v.Str
	if d.Literal {
		val = quoteShellSafe(val)
	}
	if d.MapToFlag != "" {
		return fmt.Sprintf("%s %s", d.MapToFlag, val)
	}
	return val
}

func expandNamed(d task.Named, v Value) string {
	if !v.Present {
		return ""
	}
	val := v.Str
	if d.Literal {
		val = quoteShellSafe(val)
	}

	switch {
	case d.MapValueOnly:
		return val
	case d.HasMapReplace:
		if d.MapReplaceName == "" {
			return val
		}
		return fmt.Sprintf("%s %s", d.MapReplaceName, val)
	default:
		return fmt.Sprintf("--%s %s", d.LongName, val)
	}
}

// quoteShellSafe wraps s in single quotes, escaping any embedded single
// quote the POSIX-shell way: close, escaped quote, reopen.
func quoteShellSafe(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
