package executor

import (
	"fmt"
	"strings"
)

// UnterminatedQuoteError reports an argv string with an opened but never
// closed quote.
type UnterminatedQuoteError struct {
	Text string
}

func (e *UnterminatedQuoteError) Error() string {
	return fmt.Sprintf("unterminated quote in %q", e.Text)
}

// splitArgv tokenizes an expanded command line into argv the same way a
// POSIX shell's word-splitting does for the subset axes needs: runs of
// unquoted whitespace separate words; single quotes take everything
// literally until the next single quote; double quotes take everything
// literally except `\"`, `\\` and `\$`, which unescape to their bare
// character. No other shell feature (globbing, variable expansion,
// command substitution) is performed — those already happened, if at
// all, inside a `<run('...')>` capture or a shell_passthrough line.
//
// No library in the retrieval pack carries in-tree argv-tokenizing code
// (only bare go.mod mentions of google/shlex and mvdan.cc/sh with no
// source to learn the calling convention from) — see SPEC_FULL.md.
func splitArgv(s string) ([]string, error) {
	var args []string
	var cur strings.Builder
	haveCur := false

	runes := []rune(s)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == ' ' || r == '\t' || r == '\n':
			if haveCur {
				args = append(args, cur.String())
				cur.Reset()
				haveCur = false
			}
			i++

		case r == '\'':
			haveCur = true
			j := i + 1
			for j < len(runes) && runes[j] != '\'' {
				cur.WriteRune(runes[j])
				j++
			}
			if j >= len(runes) {
				return nil, &UnterminatedQuoteError{Text: s}
			}
			i = j + 1

		case r == '"':
			haveCur = true
			j := i + 1
			for j < len(runes) && runes[j] != '"' {
				if runes[j] == '\\' && j+1 < len(runes) && isEscapableInDquote(runes[j+1]) {
					cur.WriteRune(runes[j+1])
					j += 2
					continue
				}
				cur.WriteRune(runes[j])
				j++
			}
			if j >= len(runes) {
				return nil, &UnterminatedQuoteError{Text: s}
			}
			i = j + 1

		default:
			haveCur = true
			cur.WriteRune(r)
			i++
		}
	}
	if haveCur {
		args = append(args, cur.String())
	}
	return args, nil
}

func isEscapableInDquote(r rune) bool {
	return r == '"' || r == '\\' || r == '$'
}
