package vdom

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// booleanAttrs are written as bare attributes when true and removed when false.
var booleanAttrs = map[string]bool{
	"async":          true,
	"autofocus":      true,
	"autoplay":       true,
	"checked":        true,
	"controls":       true,
	"default":        true,
	"defer":          true,
	"disabled":       true,
	"formnovalidate": true,
	"hidden":         true,
	"inert":          true,
	"loop":           true,
	"multiple":       true,
	"muted":          true,
	"novalidate":     true,
	"open":           true,
	"readonly":       true,
	"required":       true,
	"reversed":       true,
	"selected":       true,
}

// Clone returns a shallow copy of p. A nil Props clones to an empty map.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge returns a copy of p with every entry of other applied on top.
func (p Props) Merge(other Props) Props {
	out := p.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Children returns the nodes stored under the reserved "children" key.
func (p Props) Children() []*Node {
	children, _ := p[ChildrenKey].([]*Node)
	return children
}

// Text returns the value under key formatted as text, or "".
func (p Props) Text(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	return TextString(v)
}

// Int returns the value under key as an int, or def.
func (p Props) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// IsCallable reports whether v can serve as an event handler.
func IsCallable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Func && !rv.IsNil()
}

// IsEventKey reports whether key/value is an event binding: a key starting
// with "on" (case-insensitive) holding a callable.
func IsEventKey(key string, value any) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on") && IsCallable(value)
}

// EventName returns the event name for an event key ("onClick" -> "click").
func EventName(key string) string {
	if len(key) <= 2 {
		return ""
	}
	return strings.ToLower(key[2:])
}

// EventKey returns the prop key binding the given event ("click" -> "onclick").
func EventKey(event string) string {
	return "on" + strings.ToLower(event)
}

// IsAttributeKey reports whether key/value is written to the canvas as an
// attribute.
func IsAttributeKey(key string, value any) bool {
	if key == KeyKey || key == ChildrenKey {
		return false
	}
	return !IsEventKey(key, value)
}

// AttrsEqual reports whether a and b hold the same attributes. Event
// bindings are ignored; they are reconciled separately.
func AttrsEqual(a, b Props) bool {
	na, nb := 0, 0
	for k, av := range a {
		if !IsAttributeKey(k, av) {
			continue
		}
		na++
		bv, ok := b[k]
		if !ok || !IsAttributeKey(k, bv) || !ValuesEqual(av, bv) {
			return false
		}
	}
	for k, bv := range b {
		if IsAttributeKey(k, bv) {
			nb++
		}
	}
	return na == nb
}

// ValuesEqual compares two prop values for equality.
func ValuesEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

// AttrString converts an attribute value to its canvas form. The second
// result is false when the attribute must be absent (nil, or false for
// boolean attributes).
func AttrString(key string, value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case bool:
		if booleanAttrs[strings.ToLower(key)] {
			return "", v
		}
		return strconv.FormatBool(v), true
	default:
		return TextString(value), true
	}
}

// TextString formats a primitive value as text.
func TextString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
