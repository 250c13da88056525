package compiler

import "strings"

// lineFlags are the execution modifiers parsed from a line's prefix
// token stream. Booleans OR-combine if a prefix character repeats or is
// reached from more than one platform variant of the same canonical
// line (Open Question 1 in DESIGN.md).
type lineFlags struct {
	IgnoreErrors     bool
	Parallel         bool
	Silent           bool
	EchoOnly         bool
	ShellPassthrough bool
}

func (f lineFlags) or(other lineFlags) lineFlags {
	return lineFlags{
		IgnoreErrors:     f.IgnoreErrors || other.IgnoreErrors,
		Parallel:         f.Parallel || other.Parallel,
		Silent:           f.Silent || other.Silent,
		EchoOnly:         f.EchoOnly || other.EchoOnly,
		ShellPassthrough: f.ShellPassthrough || other.ShellPassthrough,
	}
}

// splitPrefix strips the leading prefix-token stream from a raw command
// string and returns the parsed flags plus the remaining text. Prefixes
// may be stacked in any order with intervening whitespace; a `|`
// terminates the region explicitly, otherwise the first character that
// isn't a recognized prefix token does.
func splitPrefix(raw string) (lineFlags, string) {
	var flags lineFlags
	i := 0
	for i < len(raw) {
		c := raw[i]
		switch c {
		case ' ', '\t':
			i++
			continue
		case '-':
			flags.IgnoreErrors = true
		case '>':
			flags.Parallel = true
		case '@':
			flags.Silent = true
		case '#':
			flags.EchoOnly = true
		case '$':
			flags.ShellPassthrough = true
		case '|':
			rest := strings.TrimLeft(raw[i+1:], " \t")
			return flags, rest
		default:
			return flags, raw[i:]
		}
		i++
	}
	return flags, ""
}
