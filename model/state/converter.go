package state

import (
	"fmt"
	"reflect"

	"github.com/graphor/graphor/extension"
	"github.com/viant/structology/conv"
)

// Converter applies typed init parameters to a state container, resolving
// declared dataType names through the extension type registry.
type Converter struct {
	types     *extension.Types
	converter *conv.Converter
}

// NewConverter creates a converter backed by the supplied type registry.
func NewConverter(types *extension.Types) *Converter {
	return &Converter{
		types:     types,
		converter: conv.NewConverter(conv.DefaultOptions()),
	}
}

// Apply expands each parameter into dst, converting values whose parameter
// declares a dataType.
func (c *Converter) Apply(params Parameters, dst map[string]interface{}) error {
	for _, param := range params {
		value := param.Value
		if param.DataType != "" {
			typed, err := c.Typed(param.DataType, value)
			if err != nil {
				return fmt.Errorf("parameter %v: %w", param.Name, err)
			}
			value = typed
		}
		dst[param.Name] = value
	}
	return nil
}

// Typed converts a value to the named data type.
func (c *Converter) Typed(dataType string, value interface{}) (interface{}, error) {
	if c.types == nil {
		return nil, fmt.Errorf("types not initialized")
	}
	aType := c.types.Lookup(dataType)
	if aType == nil {
		return nil, fmt.Errorf("type %v not registered", dataType)
	}
	return c.TypedValue(aType.Type, value)
}

// TypedValue converts a value to the specified reflect type.
func (c *Converter) TypedValue(aType reflect.Type, value interface{}) (interface{}, error) {
	instance := newInstancePtr(aType)
	if err := c.converter.Convert(value, instance); err != nil {
		return nil, err
	}
	return reflect.ValueOf(instance).Elem().Interface(), nil
}

// newInstancePtr creates a new addressable instance of the given type.
func newInstancePtr(t reflect.Type) interface{} {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return reflect.New(t).Interface()
}
