package ast

import (
	"reflect"
	"strings"
)

// Visitor is called for every node reached by Walk. Returning false skips the node's children.
type Visitor func(n Node) bool

var nodeType = reflect.TypeOf((*Node)(nil)).Elem()

// Walk traverses n depth-first in field order.
func Walk(n Node, visit Visitor) {
	if isNil(n) || !visit(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, visit)
	}
}

// Children returns the direct child nodes of n in field order.
func Children(n Node) []Node {
	v := reflect.ValueOf(n)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return nil
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return nil
	}

	var out []Node
	for i := 0; i < v.NumField(); i++ {
		out = appendNodes(out, v.Field(i))
	}
	return out
}

func appendNodes(out []Node, f reflect.Value) []Node {
	switch f.Kind() {
	case reflect.Interface, reflect.Pointer:
		if f.IsNil() || !f.Type().Implements(nodeType) {
			return out
		}
		if node, ok := f.Interface().(Node); ok && !isNil(node) {
			out = append(out, node)
		}
	case reflect.Slice:
		for j := 0; j < f.Len(); j++ {
			out = appendNodes(out, f.Index(j))
		}
	}
	return out
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// TypeName returns the node's type name, e.g. "FunctionDef".
func TypeName(n Node) string {
	if isNil(n) {
		return ""
	}
	t := reflect.TypeOf(n)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Dump converts a node into nested maps tagged with a "type" key, ready for
// JSON or YAML encoding. Field names follow the json struct tags.
func Dump(n Node) map[string]any {
	if isNil(n) {
		return nil
	}
	out := map[string]any{"type": TypeName(n), "span": n.Span()}
	v := reflect.ValueOf(n).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			continue
		}
		name, omitEmpty := jsonName(field)
		value := dumpValue(v.Field(i))
		if value == nil || (omitEmpty && v.Field(i).IsZero()) {
			continue
		}
		out[name] = value
	}
	return out
}

func dumpValue(f reflect.Value) any {
	switch f.Kind() {
	case reflect.Interface, reflect.Pointer:
		if f.IsNil() {
			return nil
		}
		if node, ok := f.Interface().(Node); ok {
			return Dump(node)
		}
	case reflect.Slice:
		items := make([]any, 0, f.Len())
		for j := 0; j < f.Len(); j++ {
			items = append(items, dumpValue(f.Index(j)))
		}
		return items
	case reflect.Struct:
		if loc, ok := f.Interface().(Loc); ok {
			return loc.Range
		}
	}
	if s, ok := f.Interface().(interface{ String() string }); ok {
		return s.String()
	}
	return f.Interface()
}

func jsonName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name, false
	}
	parts := strings.Split(tag, ",")
	omit := len(parts) > 1 && parts[1] == "omitempty"
	return parts[0], omit
}
