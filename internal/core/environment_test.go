package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnvironment(t *testing.T) {
	assert.Equal(t, Production, ParseEnvironment(" Production "))
	assert.Equal(t, Staging, ParseEnvironment("staging"))
	assert.Equal(t, Testing, ParseEnvironment("testing"))
	assert.Equal(t, Development, ParseEnvironment("whatever"))
	assert.Equal(t, Development, ParseEnvironment(""))
}

func TestEnvironment_GinMode(t *testing.T) {
	assert.Equal(t, "release", Production.GinMode())
	assert.Equal(t, "release", Staging.GinMode())
	assert.Equal(t, "test", Testing.GinMode())
	assert.Equal(t, "debug", Development.GinMode())
	assert.True(t, Production.IsProduction())
	assert.False(t, Staging.IsProduction())
}
