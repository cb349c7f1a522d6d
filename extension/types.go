// Package extension holds the registry of data types that declarative
// workflow definitions may reference from init parameter dataType fields.
package extension

import (
	"reflect"
	"strings"

	"github.com/viant/x"
)

// Types is a named type registry with support for slice and map modifiers.
type Types struct {
	x.Registry
}

// Register adds a data type to the registry.
func (t *Types) Register(dataType *x.Type) {
	t.Registry.Register(dataType)
}

// Lookup resolves a type name, honouring the []T and map[string]T modifier
// prefixes. It returns nil when the base type is not registered.
func (t *Types) Lookup(name string) *x.Type {
	modifier := ""
	if idx := strings.LastIndex(name, "]"); idx != -1 {
		modifier = name[:idx+1]
		name = name[idx+1:]
	}
	ret := t.Registry.Lookup(name)
	if ret == nil {
		return nil
	}
	rType := ret.Type
	switch strings.TrimSpace(modifier) {
	case "[]":
		rType = reflect.SliceOf(rType)
	case "map[string]":
		rType = reflect.MapOf(reflect.TypeOf(""), rType)
	}
	if rType != ret.Type {
		return x.NewType(rType)
	}
	return ret
}

// NewTypes creates a registry pre-populated with the scalar types init
// parameters commonly declare.
func NewTypes(options ...x.RegistryOption) *Types {
	ret := &Types{Registry: *x.NewRegistry(options...)}
	ret.Register(x.NewType(reflect.TypeOf(""), x.WithName("string")))
	ret.Register(x.NewType(reflect.TypeOf(0), x.WithName("int")))
	ret.Register(x.NewType(reflect.TypeOf(false), x.WithName("bool")))
	ret.Register(x.NewType(reflect.TypeOf(0.0), x.WithName("float64")))
	return ret
}
