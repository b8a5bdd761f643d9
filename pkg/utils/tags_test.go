package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagNames(t *testing.T) {
	type sample struct {
		A      string `mapstructure:"a" default:"x"`
		B      int    `mapstructure:"b,omitempty"`
		Hidden string `mapstructure:"-"`
		NoTag  string
		lower  string `mapstructure:"lower"`
	}

	assert.Equal(t, []string{"a", "b"}, TagNames("mapstructure", sample{}))
	assert.Equal(t, []string{"a", "b"}, TagNames("mapstructure", &sample{}))
	assert.Equal(t, []string{"x"}, TagNames("default", sample{}))
}
