package surface

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// rawDocument is the strictly-typed top level; vars/scripts/options bodies
// stay as interface{} so Parse can recognize their flexible shapes itself.
type rawDocument struct {
	Version     string                 `toml:"version"`
	Description string                 `toml:"description"`
	Env         map[string]string      `toml:"env"`
	Vars        map[string]interface{} `toml:"vars"`
	Scripts     map[string]interface{} `toml:"scripts"`
	Options     rawOptions             `toml:"options"`
}

type rawOptions struct {
	Shell    string                 `toml:"shell"`
	OpenWith map[string]interface{} `toml:"open_with"`
	AtStart  string                 `toml:"at_start"`
	AtExit   string                 `toml:"at_exit"`
	Prompt   string                 `toml:"prompt"`
	CacheDir string                 `toml:"cache_dir"`
}

// Parse deserializes raw axes.toml bytes into a Document. Unknown keys at
// the top level or within [options] are rejected (strict); vars/scripts
// bodies are free-form by design and are instead validated shape-by-shape.
func Parse(data []byte) (*Document, error) {
	var raw rawDocument
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, &ParseError{Msg: fmt.Sprintf("decoding toml: %v", err)}
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, &UnknownKeyError{Keys: keys}
	}

	doc := &Document{
		Version:     raw.Version,
		Description: raw.Description,
		Env:         raw.Env,
		Vars:        make(map[string]VarNode, len(raw.Vars)),
		Scripts:     make(map[string]Shape, len(raw.Scripts)),
	}

	for name, v := range raw.Vars {
		vn, err := parseVarNode(fmt.Sprintf("vars.%s", name), v)
		if err != nil {
			return nil, err
		}
		doc.Vars[name] = vn
	}

	for name, v := range raw.Scripts {
		shape, err := parseShape(fmt.Sprintf("scripts.%s", name), v)
		if err != nil {
			return nil, err
		}
		doc.Scripts[name] = shape
	}

	opts := Options{
		Shell:    raw.Options.Shell,
		AtStart:  raw.Options.AtStart,
		AtExit:   raw.Options.AtExit,
		Prompt:   raw.Options.Prompt,
		CacheDir: raw.Options.CacheDir,
	}
	if len(raw.Options.OpenWith) > 0 {
		opts.OpenWith = make(map[string]Shape, len(raw.Options.OpenWith))
		for name, v := range raw.Options.OpenWith {
			shape, err := parseShape(fmt.Sprintf("options.open_with.%s", name), v)
			if err != nil {
				return nil, err
			}
			opts.OpenWith[name] = shape
		}
	}
	doc.Options = opts

	return doc, nil
}

func parseVarNode(path string, v interface{}) (VarNode, error) {
	switch t := v.(type) {
	case string:
		return VarNode{Value: StringShape(t)}, nil
	case map[string]interface{}:
		if val, ok := t["value"]; ok {
			shape, err := parseShape(path+".value", val)
			if err != nil {
				return VarNode{}, err
			}
			var meta map[string]string
			for k, mv := range t {
				if k == "value" {
					continue
				}
				s, ok := mv.(string)
				if !ok {
					return VarNode{}, &ParseError{Path: path, Msg: fmt.Sprintf("metadata key %q must be a string", k)}
				}
				if meta == nil {
					meta = make(map[string]string)
				}
				meta[k] = s
			}
			return VarNode{Value: shape, Meta: meta}, nil
		}
		// No "value" key: treat the whole table as a platform-table shape.
		shape, err := parseShape(path, t)
		if err != nil {
			return VarNode{}, err
		}
		return VarNode{Value: shape}, nil
	default:
		return VarNode{}, &ParseError{Path: path, Msg: "variable must be a string or a table"}
	}
}

func parseShape(path string, v interface{}) (Shape, error) {
	switch t := v.(type) {
	case string:
		return StringShape(t), nil

	case []interface{}, []map[string]interface{}:
		items := toInterfaceSlice(t)
		out := make(ListShape, 0, len(items))
		for i, item := range items {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			switch it := item.(type) {
			case string:
				out = append(out, StringItem(it))
			case map[string]interface{}:
				pt, err := asPlatformTable(itemPath, it)
				if err != nil {
					return nil, err
				}
				out = append(out, PlatformItem(pt))
			default:
				return nil, &ParseError{Path: itemPath, Msg: "list items must be strings or platform tables"}
			}
		}
		return out, nil

	case map[string]interface{}:
		runVal, hasRun := t["run"]
		platformVal, hasPlat := extractPlatformKeys(t)

		if hasRun && hasPlat {
			return nil, &AmbiguousScriptShapeError{Path: path}
		}
		if hasRun {
			for k := range t {
				if k != "run" {
					return nil, &ParseError{Path: path, Msg: fmt.Sprintf("unexpected key %q alongside \"run\"", k)}
				}
			}
			inner, err := parseShape(path+".run", runVal)
			if err != nil {
				return nil, err
			}
			return TableShape{HasRun: true, Run: inner}, nil
		}
		if hasPlat {
			for k := range t {
				if !platformKeys[k] {
					return nil, &ParseError{Path: path, Msg: fmt.Sprintf("unexpected key %q in platform table", k)}
				}
			}
			return TableShape{HasPlatform: true, Platforms: platformVal}, nil
		}
		return nil, &ParseError{Path: path, Msg: "table has neither \"run\" nor platform keys"}

	default:
		return nil, &ParseError{Path: path, Msg: "unsupported script/value shape"}
	}
}

// asPlatformTable validates that a map has only recognized platform keys
// with string values, returning the coerced map.
func asPlatformTable(path string, t map[string]interface{}) (map[string]string, error) {
	out := make(map[string]string, len(t))
	for k, v := range t {
		if !platformKeys[k] {
			return nil, &ParseError{Path: path, Msg: fmt.Sprintf("unexpected key %q in platform table", k)}
		}
		s, ok := v.(string)
		if !ok {
			return nil, &ParseError{Path: path, Msg: fmt.Sprintf("platform key %q must be a string", k)}
		}
		out[k] = s
	}
	return out, nil
}

func extractPlatformKeys(t map[string]interface{}) (map[string]string, bool) {
	out := make(map[string]string)
	found := false
	for k, v := range t {
		if !platformKeys[k] {
			continue
		}
		if s, ok := v.(string); ok {
			out[k] = s
			found = true
		}
	}
	if !found {
		return nil, false
	}
	return out, true
}

func toInterfaceSlice(v interface{}) []interface{} {
	switch t := v.(type) {
	case []interface{}:
		return t
	case []map[string]interface{}:
		out := make([]interface{}, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out
	default:
		return nil
	}
}
