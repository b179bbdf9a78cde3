package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatllm/internal/logger"
	"chatllm/internal/services"
	"chatllm/internal/version"
	"chatllm/pkg/chattypes"
)

func executeRoot(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		detailed = false
	})
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	out := executeRoot(t, "version")
	assert.Equal(t, version.GetFormattedVersion()+"\n", out)
}

func TestVersionCommand_Detailed(t *testing.T) {
	out := executeRoot(t, "version", "--detailed")
	assert.Contains(t, out, "Go Version:")
	assert.Contains(t, out, "Platform:")
}

func TestFlagBindings(t *testing.T) {
	shellBindings := flagBindings(shellCmd)
	assert.Equal(t, "provider", shellBindings[services.KeyProvider])
	assert.Equal(t, "model", shellBindings[services.KeyDefaultModel])
	assert.NotContains(t, shellBindings, services.KeyServerAddr)

	serve := flagBindings(serveCmd)
	assert.Equal(t, "addr", serve[services.KeyServerAddr])
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"shell", "serve", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestNewStore_TestModeIsDeterministic(t *testing.T) {
	testMode = true
	t.Cleanup(func() { testMode = false })

	labels := func() []string {
		store := newStore()
		store.AppendActive(store.NewMessage(chattypes.RoleUser, chattypes.PlainText("hello")))
		store.StartNew()
		return store.Labels()
	}
	first := labels()
	require.Len(t, first, 2)
	assert.Equal(t, "hello - 00:00:01", first[1])
	assert.Equal(t, first, labels())
}

func TestConfigureLogger_WarnsOnInvalidVersion(t *testing.T) {
	origVersion, origCommit, origDate := version.Version, version.GitCommit, version.BuildDate
	version.SetBuildInfo("not-a-version", "unknown", "unknown")
	logFile = filepath.Join(t.TempDir(), "chatllm.log")
	t.Cleanup(func() {
		version.SetBuildInfo(origVersion, origCommit, origDate)
		logFile = ""
		_ = logger.Close()
	})

	require.NoError(t, configureLogger(rootCmd, nil))

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Build version is not a semantic version")
}
