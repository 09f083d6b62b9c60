package store

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/tiendc/go-deepcopy"
)

// Clone returns a deep copy of s. Map and slice containers are copied
// recursively; other values go through go-deepcopy. Actions, functions and
// channels are shared with the source.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case Action:
		return typed
	case State:
		return typed.Clone()
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = cloneValue(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = cloneValue(v)
		}
		return clone
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128, reflect.String:
		return value
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Interface:
		return value
	}

	src := reflect.New(rv.Type())
	src.Elem().Set(rv)
	dst := reflect.New(rv.Type())
	if err := deepcopy.Copy(dst.Interface(), src.Interface()); err != nil {
		return value
	}
	return dst.Elem().Interface()
}

// Lookup resolves a dotted path (for example "user.tags.0") against s.
func (s State) Lookup(path string) (any, bool) {
	if s == nil || path == "" {
		return nil, false
	}
	var current any = map[string]any(s)
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case State:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Bool reads a boolean field, reporting false when missing or not a bool.
func (s State) Bool(name string) bool {
	v, _ := s[name].(bool)
	return v
}

// Int reads an integer field, reporting 0 when missing or not an int.
func (s State) Int(name string) int {
	v, _ := s[name].(int)
	return v
}
