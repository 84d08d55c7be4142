package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execMode(t *testing.T, env *testEnv, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewModeCommand(env.rootOpts(format))
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestModeGet_DefaultsToConfig(t *testing.T) {
	env := newTestEnv(t)

	out, err := execMode(t, env, "text", "get")
	require.NoError(t, err)
	assert.Equal(t, "LOAD\n", out)
}

func TestModeSetThenGet(t *testing.T) {
	env := newTestEnv(t)

	out, err := execMode(t, env, "text", "set", "save")
	require.NoError(t, err)
	assert.Equal(t, "SAVE\n", out)

	out, err = execMode(t, env, "json", "get")
	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, map[string]any{"mode": "SAVE"}, resp.Data)
}

func TestModeSet_Invalid(t *testing.T) {
	env := newTestEnv(t)

	_, err := execMode(t, env, "text", "set", "sync")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid sync mode")

	_, err = execMode(t, env, "text", "set")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestModeGet_IgnoresCorruptValue(t *testing.T) {
	env := newTestEnv(t)
	st := openEnvStore(t, env)
	require.NoError(t, st.PutSetting(context.Background(), "FP_SYNC", "SIDEWAYS"))
	require.NoError(t, st.Close())

	out, err := execMode(t, env, "text", "get")
	require.NoError(t, err)
	assert.Equal(t, "LOAD\n", out)
}
