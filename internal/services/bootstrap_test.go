package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatllm/pkg/chattypes"
)

func testBootstrapOptions(t *testing.T, env map[string]string, testMode bool) (BootstrapOptions, string) {
	t.Helper()
	workDir := t.TempDir()
	return BootstrapOptions{
		Config: ConfigurationOptions{
			WorkDir:   workDir,
			ConfigDir: t.TempDir(),
			Getenv:    envFrom(env),
			TestMode:  testMode,
		},
		TestMode: testMode,
	}, workDir
}

func TestBootstrap_TestMode(t *testing.T) {
	opts, _ := testBootstrapOptions(t, nil, true)

	svcs, err := Bootstrap(opts)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"configuration", "model_catalog", "model", "client_factory",
		"llm", "chat", "theme", "markdown", "thinking_renderer", "clipboard",
	}, svcs.Registry.Names())
	assert.Equal(t, "mock", svcs.LLM.ProviderName())

	reply, err := svcs.LLM.Complete(context.Background(), "deepseek-r1-distill-llama-70b", chattypes.Conversation{
		{Role: chattypes.RoleUser, Content: chattypes.PlainText("hi")},
	})
	require.NoError(t, err)
	assert.Contains(t, reply, "<think>")
}

func TestBootstrap_LookupByName(t *testing.T) {
	opts, _ := testBootstrapOptions(t, nil, true)
	svcs, err := Bootstrap(opts)
	require.NoError(t, err)

	chat, err := Lookup[*ChatService](svcs.Registry, "chat")
	require.NoError(t, err)
	assert.Same(t, svcs.Chat, chat)
}

func TestBootstrap_MissingAPIKey(t *testing.T) {
	opts, _ := testBootstrapOptions(t, nil, false)

	_, err := Bootstrap(opts)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestBootstrap_ProviderClient(t *testing.T) {
	opts, _ := testBootstrapOptions(t, map[string]string{"GROQ_API_KEY": "gsk-test"}, false)

	svcs, err := Bootstrap(opts)
	require.NoError(t, err)
	assert.Equal(t, "groq", svcs.Models.Provider())
	assert.Equal(t, 1, svcs.Factory.GetCachedClientCount())
	assert.NotEqual(t, "mock", svcs.LLM.ProviderName())
}

func TestBootstrap_FlagsOverrideConfig(t *testing.T) {
	opts, workDir := testBootstrapOptions(t, nil, true)
	writeFile(t, filepath.Join(workDir, "chatllm.yaml"), "models: [alpha, beta]\ndefault_model: alpha\ntheme: plain\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("model", "", "")
	require.NoError(t, flags.Parse([]string{"--model", "beta"}))
	opts.Flags = flags
	opts.FlagBindings = map[string]string{KeyDefaultModel: "model"}

	svcs, err := Bootstrap(opts)
	require.NoError(t, err)
	assert.Equal(t, "beta", svcs.Models.DefaultModel())
	assert.Equal(t, "notty", svcs.Markdown.Style())
}

func TestBootstrap_UnknownFlagBinding(t *testing.T) {
	opts, _ := testBootstrapOptions(t, nil, true)
	opts.Flags = pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.FlagBindings = map[string]string{KeyDefaultModel: "missing"}

	_, err := Bootstrap(opts)
	assert.Error(t, err)
}
