package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_Errors(t *testing.T) {
	st := New("i-1", map[string]string{})
	assert.False(t, st.HasErrors())
	assert.Nil(t, st.LastError())

	st.AddError("draft", errors.New("generator unavailable"))
	st.AddError("validate", errors.New("no draft to validate"))
	st.AddError("noop", nil)

	assert.True(t, st.HasErrors())
	assert.Equal(t, 2, len(st.Errors))
	assert.Equal(t, "draft", st.Errors[0].Step)
	assert.Equal(t, "validate", st.LastError().Step)
	assert.Equal(t, "no draft to validate", st.LastError().Message)
}

func TestState_Params(t *testing.T) {
	st := New("i-2", 0)
	st.Params["topic"] = "encryption"
	st.Params["minSections"] = 3
	st.Params["strict"] = true

	topic, ok := st.ParamString("topic")
	assert.True(t, ok)
	assert.Equal(t, "encryption", topic)

	minSections, ok := st.ParamInt("minSections")
	assert.True(t, ok)
	assert.Equal(t, 3, minSections)

	strict, ok := st.ParamBool("strict")
	assert.True(t, ok)
	assert.True(t, strict)

	_, ok = st.Param("missing")
	assert.False(t, ok)
	_, ok = st.ParamString("minSections")
	assert.False(t, ok)
}

func TestState_Finish(t *testing.T) {
	st := New("i-3", 0)
	assert.Nil(t, st.Meta.EndedAt)
	st.Finish()
	if !assert.NotNil(t, st.Meta.EndedAt) {
		return
	}
	first := *st.Meta.EndedAt
	st.Finish()
	assert.Equal(t, first, *st.Meta.EndedAt)
}
