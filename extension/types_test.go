package extension

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/x"
)

func TestTypes_Lookup(t *testing.T) {
	types := NewTypes()
	types.Register(x.NewType(reflect.TypeOf(window{}), x.WithName("window")))

	testCases := []struct {
		name   string
		expect reflect.Kind
	}{
		{name: "string", expect: reflect.String},
		{name: "int", expect: reflect.Int},
		{name: "[]string", expect: reflect.Slice},
		{name: "map[string]int", expect: reflect.Map},
		{name: "window", expect: reflect.Struct},
	}
	for _, testCase := range testCases {
		actual := types.Lookup(testCase.name)
		if assert.NotNil(t, actual, testCase.name) {
			assert.Equal(t, testCase.expect, actual.Type.Kind(), testCase.name)
		}
	}
	assert.Nil(t, types.Lookup("unregistered"))
}

type window struct {
	From string
	To   string
}
