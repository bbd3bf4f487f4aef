package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ResolveFormatStrings returns a copy of doc in which every {name} or
// {parent.child} placeholder inside string values is replaced by the scalar
// it refers to in doc. Referenced strings are resolved first, so values may
// chain. {{ and }} produce literal braces. Placeholders that do not name a
// scalar of doc are left as they are.
func ResolveFormatStrings(doc map[string]any) (map[string]any, error) {
	return resolveFormatStrings(doc, nil)
}

// resolveFormatStrings is ResolveFormatStrings with some top-level or dotted
// keys pinned to literal values. Pinned strings are never expanded, but
// placeholders may still refer to them.
func resolveFormatStrings(doc map[string]any, literals map[string]string) (map[string]any, error) {
	r := &formatResolver{
		root:      doc,
		resolved:  make(map[string]string, len(literals)),
		resolving: make(map[string]bool),
	}
	for key, value := range literals {
		r.resolved[key] = value
	}
	out, err := r.walk(doc, "", true)
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

type formatResolver struct {
	root      map[string]any
	resolved  map[string]string
	resolving map[string]bool
}

// walk copies value, resolving strings. Values below a list are not
// addressable by a placeholder, so they get no path and are not cached.
func (r *formatResolver) walk(value any, path string, addressable bool) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, child := range v {
			childPath := ""
			if addressable {
				childPath = joinKey(path, key)
			}
			resolved, err := r.walk(child, childPath, addressable)
			if err != nil {
				return nil, err
			}
			out[key] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			resolved, err := r.walk(child, "", false)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	case string:
		return r.resolveString(v, path)
	}
	return value, nil
}

func (r *formatResolver) resolveString(s, path string) (string, error) {
	if path != "" {
		if out, ok := r.resolved[path]; ok {
			return out, nil
		}
		if r.resolving[path] {
			return "", fmt.Errorf("%w: {%s}", ErrFormatCycle, path)
		}
		r.resolving[path] = true
		defer delete(r.resolving, path)
	}

	out, err := r.expand(s)
	if err != nil {
		return "", err
	}
	if path != "" {
		r.resolved[path] = out
	}
	return out, nil
}

func (r *formatResolver) expand(s string) (string, error) {
	if !strings.ContainsAny(s, "{}") {
		return s, nil
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '{' && i+1 < len(s) && s[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(s) && s[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				b.WriteString(s[i:])
				return b.String(), nil
			}
			name := s[i+1 : i+1+end]
			value, ok, err := r.lookup(name)
			if err != nil {
				return "", err
			}
			if ok {
				b.WriteString(value)
			} else {
				b.WriteString(s[i : i+end+2])
			}
			i += end + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func (r *formatResolver) lookup(name string) (string, bool, error) {
	if !isReference(name) {
		return "", false, nil
	}

	var current any = r.root
	for _, key := range strings.Split(name, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return "", false, nil
		}
		if current, ok = m[key]; !ok {
			return "", false, nil
		}
	}

	switch v := current.(type) {
	case string:
		out, err := r.resolveString(v, name)
		return out, err == nil, err
	case int:
		return strconv.Itoa(v), true, nil
	case int64:
		return strconv.FormatInt(v, 10), true, nil
	case uint64:
		return strconv.FormatUint(v, 10), true, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true, nil
	case bool:
		return strconv.FormatBool(v), true, nil
	}
	return "", false, nil
}

func isReference(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") || strings.Contains(name, "..") {
		return false
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
