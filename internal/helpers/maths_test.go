package helpers

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.5))
	assert.Equal(t, 0.0, Clamp01(0))
	assert.Equal(t, 0.25, Clamp01(0.25))
	assert.Equal(t, 1.0, Clamp01(1))
	assert.Equal(t, 1.0, Clamp01(3.7))
}

func TestContainsStr(t *testing.T) {
	s := []string{"--use-cache", "--purge-cache"}

	assert.True(t, ContainsStr(s, "--use-cache"))
	assert.False(t, ContainsStr(s, "--cache-only"))
	assert.False(t, ContainsStr(nil, "--use-cache"))
}
