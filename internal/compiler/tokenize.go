package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/axes-build/axes/internal/task"
)

// BadParameterSyntaxError reports a malformed <params::...> token.
type BadParameterSyntaxError struct {
	Token string
	Msg   string
}

func (e *BadParameterSyntaxError) Error() string {
	return fmt.Sprintf("bad parameter syntax in <%s>: %s", e.Token, e.Msg)
}

// UnknownTokenError reports an angle-bracket token this compiler does not
// recognize.
type UnknownTokenError struct {
	Token string
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("unrecognized token <%s>", e.Token)
}

// tokenize scans a raw template string (with its prefix already
// stripped) into an ordered CommandTemplate.
func tokenize(s string) (task.CommandTemplate, error) {
	var out task.CommandTemplate
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			out = append(out, task.Literal(literal.String()))
			literal.Reset()
		}
	}

	i := 0
	for i < len(s) {
		if s[i] != '<' {
			literal.WriteByte(s[i])
			i++
			continue
		}

		comp, consumed, ok, err := parseToken(s[i:])
		if err != nil {
			return nil, err
		}
		if !ok {
			literal.WriteByte(s[i])
			i++
			continue
		}
		flush()
		out = append(out, comp)
		i += consumed
	}
	flush()
	return out, nil
}

// parseToken attempts to parse one `<...>` token starting at s[0] == '<'.
// ok is false (no error) only when no closing '>' follows, in which case
// the caller treats '<' as a literal character. A closed `<...>` whose
// content is not a known token is an UnknownTokenError.
func parseToken(s string) (comp task.TemplateComponent, consumed int, ok bool, err error) {
	rest := s[1:]

	if strings.HasPrefix(rest, "run('") {
		return parseRunToken(rest)
	}

	idx := strings.IndexByte(rest, '>')
	if idx < 0 {
		return nil, 0, false, nil
	}
	content := rest[:idx]
	comp, err = parseNamedToken(content)
	if err != nil {
		return nil, 0, false, err
	}
	return comp, 1 + idx + 1, true, nil
}

// parseRunToken handles <run('CMD')>, where CMD is single-quoted with ''
// as an escaped quote. The closing delimiter is the literal sequence
// "')>" once an unescaped quote is found.
func parseRunToken(rest string) (task.TemplateComponent, int, bool, error) {
	inner := rest[len("run('"):]
	var sb strings.Builder
	j := 0
	for j < len(inner) {
		if inner[j] == '\'' {
			if j+1 < len(inner) && inner[j+1] == '\'' {
				sb.WriteByte('\'')
				j += 2
				continue
			}
			if !strings.HasPrefix(inner[j+1:], ")>") {
				return nil, 0, false, fmt.Errorf("unterminated <run('...')> token")
			}
			innerTmpl, err := tokenize(sb.String())
			if err != nil {
				return nil, 0, false, err
			}
			total := len("<run('") + j + 1 + len(")>")
			return task.Run{Inner: innerTmpl}, total, true, nil
		}
		sb.WriteByte(inner[j])
		j++
	}
	return nil, 0, false, fmt.Errorf("unterminated <run('...')> token")
}

func parseNamedToken(content string) (task.TemplateComponent, error) {
	switch content {
	case "name":
		return task.ProjectMeta{Kind: task.MetaName}, nil
	case "path":
		return task.ProjectMeta{Kind: task.MetaPath}, nil
	case "uuid":
		return task.ProjectMeta{Kind: task.MetaUUID}, nil
	case "version":
		return task.ProjectMeta{Kind: task.MetaVersion}, nil
	case "params":
		return task.Param{Def: task.Generic{}}, nil
	}

	switch {
	case strings.HasPrefix(content, "vars::"):
		name := content[len("vars::"):]
		if name == "" {
			return nil, &UnknownTokenError{Token: content}
		}
		return task.Var{Name: name}, nil
	case strings.HasPrefix(content, "scripts::"):
		name := content[len("scripts::"):]
		if name == "" {
			return nil, &UnknownTokenError{Token: content}
		}
		return task.ScriptRef{Name: name}, nil
	case strings.HasPrefix(content, "params::"):
		return parseParamToken(content[len("params::"):])
	default:
		return nil, &UnknownTokenError{Token: content}
	}
}

type paramOptions struct {
	required   bool
	def        string
	hasDefault bool
	alias      string
	mapVal     string
	hasMap     bool
	literal    bool
}

func parseParamToken(spec string) (task.TemplateComponent, error) {
	name := spec
	optsStr := ""
	if idx := strings.IndexByte(spec, '('); idx >= 0 {
		if !strings.HasSuffix(spec, ")") {
			return nil, &BadParameterSyntaxError{Token: "params::" + spec, Msg: "unterminated option list"}
		}
		name = spec[:idx]
		optsStr = spec[idx+1 : len(spec)-1]
	}
	if name == "" {
		return nil, &BadParameterSyntaxError{Token: "params::" + spec, Msg: "missing parameter name/index"}
	}

	opts, err := parseParamOptions(optsStr)
	if err != nil {
		return nil, err
	}

	if idx, convErr := strconv.Atoi(name); convErr == nil {
		return task.Param{Def: task.Positional{
			Index:      idx,
			Required:   opts.required,
			Default:    opts.def,
			HasDefault: opts.hasDefault,
			MapToFlag:  opts.mapVal,
			Literal:    opts.literal,
		}}, nil
	}

	return task.Param{Def: task.Named{
		LongName:       name,
		AliasShort:     opts.alias,
		Required:       opts.required,
		Default:        opts.def,
		HasDefault:     opts.hasDefault,
		MapReplaceName: opts.mapVal,
		HasMapReplace:  opts.hasMap,
		MapValueOnly:   opts.hasMap && opts.mapVal == "",
		Literal:        opts.literal,
	}}, nil
}

func parseParamOptions(s string) (paramOptions, error) {
	var opts paramOptions
	for _, part := range splitOptionList(s) {
		if part == "" {
			continue
		}
		switch {
		case part == "required":
			opts.required = true
		case part == "literal":
			opts.literal = true
		case strings.HasPrefix(part, "default="):
			opts.def = unquote(part[len("default="):])
			opts.hasDefault = true
		case strings.HasPrefix(part, "alias="):
			opts.alias = unquote(part[len("alias="):])
		case strings.HasPrefix(part, "map="):
			opts.mapVal = unquote(part[len("map="):])
			opts.hasMap = true
		default:
			return opts, &BadParameterSyntaxError{Token: s, Msg: fmt.Sprintf("unrecognized option %q", part)}
		}
	}
	return opts, nil
}

// splitOptionList splits a comma-separated option list, respecting
// single-quoted values that may themselves contain commas.
func splitOptionList(s string) []string {
	if s == "" {
		return nil
	}
	var parts []string
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\'' {
			inQuote = !inQuote
			cur.WriteByte(c)
			continue
		}
		if c == ',' && !inQuote {
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	parts = append(parts, strings.TrimSpace(cur.String()))
	return parts
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}
