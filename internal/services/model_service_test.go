package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModelService(t *testing.T, configYAML string) (*ModelService, error) {
	t.Helper()
	config, workDir, _ := newTestConfiguration(t, nil)
	if configYAML != "" {
		writeFile(t, filepath.Join(workDir, "chatllm.yaml"), configYAML)
	}
	require.NoError(t, config.Initialize())

	catalog := NewModelCatalogService()
	require.NoError(t, catalog.Initialize())

	svc := NewModelService(config, catalog)
	return svc, svc.Initialize()
}

func TestModelService_Name(t *testing.T) {
	assert.Equal(t, "model", NewModelService(nil, nil).Name())
}

func TestModelService_CatalogDefaults(t *testing.T) {
	svc, err := newTestModelService(t, "")
	require.NoError(t, err)

	assert.Equal(t, "groq", svc.Provider())
	assert.Equal(t, "https://api.groq.com/openai/v1", svc.BaseURL())
	assert.Equal(t, "llama3-70b-8192", svc.DefaultModel())
	assert.Len(t, svc.Models(), 6)
	assert.True(t, svc.IsThinking("deepseek-r1-distill-llama-70b"))
	assert.True(t, svc.IsThinking("deepseek-r1-distill-qwen-32b"))
	assert.False(t, svc.IsThinking("llama3-70b-8192"))
}

func TestModelService_ConfigOverrides(t *testing.T) {
	svc, err := newTestModelService(t, `
base_url: http://localhost:8080/v1
models: [alpha, beta, gamma]
thinking_models: [beta]
default_model: gamma
`)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/v1", svc.BaseURL())
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, svc.Models())
	assert.Equal(t, "gamma", svc.DefaultModel())
	assert.True(t, svc.IsThinking("beta"))
	assert.False(t, svc.IsThinking("deepseek-r1-distill-llama-70b"))
}

func TestModelService_FirstModelWhenCatalogDefaultMissing(t *testing.T) {
	svc, err := newTestModelService(t, "models: [gemma2-9b-it, mixtral-8x7b-32768]\n")
	require.NoError(t, err)
	assert.Equal(t, "gemma2-9b-it", svc.DefaultModel())
}

func TestModelService_InvalidConfiguration(t *testing.T) {
	_, err := newTestModelService(t, "default_model: not-listed\n")
	assert.Error(t, err)

	_, err = newTestModelService(t, "provider: cohere\n")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestModelService_Resolve(t *testing.T) {
	svc, err := newTestModelService(t, "")
	require.NoError(t, err)

	model, err := svc.Resolve("2")
	require.NoError(t, err)
	assert.Equal(t, "deepseek-r1-distill-llama-70b", model)

	model, err = svc.Resolve(" gemma2-9b-it ")
	require.NoError(t, err)
	assert.Equal(t, "gemma2-9b-it", model)

	_, err = svc.Resolve("0")
	assert.Error(t, err)
	_, err = svc.Resolve("7")
	assert.Error(t, err)
	_, err = svc.Resolve("gpt-5")
	assert.Error(t, err)
}

func TestModelService_ModelsReturnsCopy(t *testing.T) {
	svc, err := newTestModelService(t, "")
	require.NoError(t, err)

	models := svc.Models()
	models[0] = "changed"
	assert.Equal(t, "llama3-70b-8192", svc.Models()[0])
}
