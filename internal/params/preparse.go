// Package params implements the argument resolver (spec.md §4.7): a
// neutral pre-parse of residual CLI args, validation against a task's
// parameter contract gathered transitively across ScriptRef
// compositions, and the expansion rules used to emit a resolved value at
// template time.
package params

// rawArg is one pre-parsed CLI token (or, for a named arg that consumed a
// following value token, two).
type rawArg struct {
	named    bool
	name     string // long name with leading dashes stripped; empty for positionals.
	value    string
	hasValue bool
	index    int // positional index; -1 for named args.
	consumed bool
	tokens   []string // original argv text, for the Generic collector.
}

// preparse implements spec.md §4.7's neutral pre-parse: any token
// beginning with one or two dashes is named; if the following token
// exists and does not itself begin with '-', it is consumed as that
// named arg's value. Every other token is a positional, indexed in
// encounter order.
func preparse(args []string) []*rawArg {
	var out []*rawArg
	posIdx := 0
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if len(tok) > 0 && tok[0] == '-' {
			name := stripDashes(tok)
			a := &rawArg{named: true, name: name, index: -1, tokens: []string{tok}}
			if i+1 < len(args) && !(len(args[i+1]) > 0 && args[i+1][0] == '-') {
				a.value = args[i+1]
				a.hasValue = true
				a.tokens = append(a.tokens, args[i+1])
				i++
			}
			out = append(out, a)
			continue
		}
		out = append(out, &rawArg{named: false, value: tok, hasValue: true, index: posIdx, tokens: []string{tok}})
		posIdx++
	}
	return out
}

func stripDashes(tok string) string {
	i := 0
	for i < len(tok) && tok[i] == '-' {
		i++
	}
	return tok[i:]
}
