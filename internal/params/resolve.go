package params

import (
	"fmt"

	"github.com/axes-build/axes/internal/diagnostic"
	"github.com/axes-build/axes/internal/task"
)

// Value is a resolved parameter value: a single string for Positional and
// Named defs, or a list for the Generic collector.
type Value struct {
	Str     string
	Present bool
	List    []string
}

// Map is an immutable (by convention — callers must not mutate it after
// Resolve returns) binding from ParameterDef.Key() to its resolved Value.
type Map map[string]Value

// Resolve validates defs against args per spec.md §4.7 and returns the
// resolved value map. Every problem found is collected into the returned
// diagnostic.Outcome before any error is returned, so a caller that wants
// the full list (rather than just whether it failed) can inspect it
// directly; Outcome.Error() gives the same "report everything" message
// the rest of the core uses for validation failures.
func Resolve(defs []task.ParameterDef, args []string) (Map, diagnostic.Outcome, error) {
	raws := preparse(args)
	values := make(Map, len(defs))
	var out diagnostic.Outcome

	var generic *task.Generic
	var unconsumed *UnconsumedArgsError
	for _, def := range defs {
		if g, ok := def.(task.Generic); ok {
			gg := g
			generic = &gg
			continue
		}
		bindOne(def, raws, values, &out)
	}

	if generic != nil {
		var list []string
		for _, r := range raws {
			if r.consumed {
				continue
			}
			r.consumed = true
			list = append(list, r.tokens...)
		}
		values[generic.Key()] = Value{List: list, Present: true}
		out.Add(diagnostic.Result{Check: "generic-collect", Passed: true})
	} else {
		var leftover []string
		for _, r := range raws {
			if !r.consumed {
				leftover = append(leftover, r.tokens...)
			}
		}
		if len(leftover) > 0 {
			unconsumed = &UnconsumedArgsError{Args: leftover}
			out.Add(diagnostic.Result{Check: "unconsumed-args", Severity: diagnostic.Blocking,
				Message: unconsumed.Error()})
		} else {
			out.Add(diagnostic.Result{Check: "unconsumed-args", Passed: true})
		}
	}

	err := out.Error()
	if err != nil && unconsumed != nil {
		// Keep the Outcome's message, and also wrap the typed error so
		// errors.As finds it; %.0w adds no text of its own.
		err = fmt.Errorf("%w%.0w", err, unconsumed)
	}
	return values, out, err
}

func bindOne(def task.ParameterDef, raws []*rawArg, values Map, out *diagnostic.Outcome) {
	switch d := def.(type) {
	case task.Positional:
		bindPositional(d, raws, values, out)
	case task.Named:
		bindNamed(d, raws, values, out)
	default:
		out.Add(diagnostic.Result{Check: "parameter-kind", Severity: diagnostic.Blocking,
			Message: fmt.Sprintf("unrecognized parameter kind %T", def)})
	}
}

func bindPositional(d task.Positional, raws []*rawArg, values Map, out *diagnostic.Outcome) {
	for _, r := range raws {
		if r.named || r.consumed || r.index != d.Index {
			continue
		}
		r.consumed = true
		values[d.Key()] = Value{Str: r.value, Present: true}
		out.Add(diagnostic.Result{Check: "positional-bind", Passed: true})
		return
	}
	switch {
	case d.HasDefault:
		values[d.Key()] = Value{Str: d.Default, Present: true}
		out.Add(diagnostic.Result{Check: "positional-bind", Passed: true})
	case d.Required:
		out.Add(diagnostic.Result{Check: "positional-bind", Severity: diagnostic.Blocking,
			Message: (&MissingRequiredError{Key: d.Key()}).Error()})
	default:
		values[d.Key()] = Value{Present: false}
		out.Add(diagnostic.Result{Check: "positional-bind", Passed: true})
	}
}

func bindNamed(d task.Named, raws []*rawArg, values Map, out *diagnostic.Outcome) {
	alias := ""
	if d.AliasShort != "" {
		alias = stripDashes(d.AliasShort)
	}

	var byLong, byAlias *rawArg
	for _, r := range raws {
		if !r.named || r.consumed {
			continue
		}
		if r.name == d.LongName && byLong == nil {
			byLong = r
		} else if alias != "" && r.name == alias && byAlias == nil {
			byAlias = r
		}
	}

	if byLong != nil && byAlias != nil {
		out.Add(diagnostic.Result{Check: "named-alias-conflict", Severity: diagnostic.Blocking,
			Message: (&AliasConflictError{LongName: d.LongName, Alias: d.AliasShort}).Error()})
		return
	}

	match := byLong
	if match == nil {
		match = byAlias
	}

	if match == nil {
		switch {
		case d.HasDefault:
			values[d.Key()] = Value{Str: d.Default, Present: true}
		case d.Required:
			out.Add(diagnostic.Result{Check: "named-bind", Severity: diagnostic.Blocking,
				Message: (&MissingRequiredError{Key: d.Key()}).Error()})
			return
		default:
			values[d.Key()] = Value{Present: false}
		}
		out.Add(diagnostic.Result{Check: "named-bind", Passed: true})
		return
	}

	match.consumed = true
	switch {
	case match.hasValue:
		values[d.Key()] = Value{Str: match.value, Present: true}
	case d.HasDefault:
		values[d.Key()] = Value{Str: d.Default, Present: true}
	default:
		values[d.Key()] = Value{Present: true}
	}
	out.Add(diagnostic.Result{Check: "named-bind", Passed: true})
}
