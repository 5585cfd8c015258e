package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSSHCommand(t *testing.T) {
	tests := []struct {
		cmd    []string
		action string
		args   []string
	}{
		{nil, "", nil},
		{[]string{"VIEW"}, "view", nil},
		{[]string{"view", "build.log"}, "view", []string{"build.log"}},
	}

	for _, tc := range tests {
		action, args := parseSSHCommand(tc.cmd)
		assert.Equal(t, tc.action, action)
		assert.Equal(t, tc.args, args)
	}
}

func TestResolveFile(t *testing.T) {
	h := &handler{cfg: &SSHServerConfig{
		Files: []string{"/var/log/first.log", "/tmp/build.log"},
	}}

	path, err := h.resolveFile(nil)
	require.NoError(t, err)
	assert.Equal(t, "/var/log/first.log", path)

	path, err = h.resolveFile([]string{"view", "build.log"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/build.log", path)

	_, err = h.resolveFile([]string{"view", "missing.log"})
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = h.resolveFile([]string{"view"})
	assert.Error(t, err)

	_, err = h.resolveFile([]string{"shell"})
	assert.Error(t, err)
}
