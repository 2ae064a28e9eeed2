package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateType(t *testing.T) {
	v := New()
	assert.NoError(t, v.ValidateType("post"))
	assert.Error(t, v.ValidateType(""))
	assert.Error(t, v.ValidateType("  "))
	assert.Error(t, v.ValidateType("_search"))
	assert.Error(t, v.ValidateType("post/1"))
	assert.Error(t, v.ValidateType("post?q=1"))
}

func TestValidateDocument(t *testing.T) {
	v := New()
	assert.NoError(t, v.ValidateDocument("post", "42"))

	err := v.ValidateDocument("", "")
	if assert.Error(t, err) {
		assert.Equal(t, "validation: type is required; id is required", err.Error())
	}
}

func TestValidateSize(t *testing.T) {
	v := New()
	assert.NoError(t, v.ValidateSize(0))
	assert.NoError(t, v.ValidateSize(MaxResultSize))
	assert.Error(t, v.ValidateSize(-1))
	assert.Error(t, v.ValidateSize(MaxResultSize+1))
}

func TestValidateJSONBody(t *testing.T) {
	v := New()
	assert.NoError(t, v.ValidateJSONBody([]byte(`{"a":1}`), false))
	assert.NoError(t, v.ValidateJSONBody(nil, true))
	assert.Error(t, v.ValidateJSONBody(nil, false))
	assert.Error(t, v.ValidateJSONBody([]byte(`{"a":`), true))
}
