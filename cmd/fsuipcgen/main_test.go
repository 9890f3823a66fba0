package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindUserConfig(t *testing.T) {
	t.Setenv("FSUIPCGEN_CONFIG", "")
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"generate", "--config", "a.yaml"}, "a.yaml"},
		{[]string{"--config=b.toml", "generate"}, "b.toml"},
		{[]string{"generate", "--config"}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, findUserConfig(tt.args), "%v", tt.args)
	}

	t.Setenv("FSUIPCGEN_CONFIG", "env.json")
	assert.Equal(t, "env.json", findUserConfig([]string{"layouts"}))
	assert.Equal(t, "flag.json", findUserConfig([]string{"--config", "flag.json"}))
}
