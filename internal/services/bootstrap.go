package services

import (
	"fmt"

	"chatllm/internal/logger"
	"chatllm/pkg/chattypes"

	"github.com/spf13/pflag"
)

// BootstrapOptions controls how Bootstrap builds the services of a process.
type BootstrapOptions struct {
	Config ConfigurationOptions
	// Flags and FlagBindings bind CLI flags to configuration keys.
	Flags        *pflag.FlagSet
	FlagBindings map[string]string
	// TestMode replaces the provider client with a deterministic mock.
	TestMode bool
}

// Services bundles the initialized services of one process.
type Services struct {
	Registry  *Registry
	Config    *ConfigurationService
	Catalog   *ModelCatalogService
	Models    *ModelService
	Factory   *ClientFactoryService
	LLM       *LLMService
	Chat      *ChatService
	Themes    *ThemeService
	Markdown  *MarkdownService
	Thinking  *ThinkingRendererService
	Clipboard *ClipboardService
}

// Bootstrap registers and initializes every service. Configuration and the
// model list come up first because the provider client depends on them.
func Bootstrap(opts BootstrapOptions) (*Services, error) {
	s := &Services{
		Registry:  NewRegistry(),
		Config:    NewConfigurationService(opts.Config),
		Catalog:   NewModelCatalogService(),
		Factory:   NewClientFactoryService(),
		Themes:    NewThemeService(),
		Markdown:  NewMarkdownService(),
		Thinking:  NewThinkingRendererService(),
		Clipboard: NewClipboardService(),
	}
	s.Models = NewModelService(s.Config, s.Catalog)

	if opts.Flags != nil {
		if err := s.Config.BindFlags(opts.Flags, opts.FlagBindings); err != nil {
			return nil, err
		}
	}

	if err := s.register(s.Config, s.Catalog, s.Models, s.Factory); err != nil {
		return nil, err
	}
	if err := s.Registry.InitializeAll(); err != nil {
		return nil, err
	}

	client, err := s.newClient(opts.TestMode)
	if err != nil {
		return nil, err
	}
	s.LLM = NewLLMService(client, s.Config.SystemPrompt())
	s.Chat = NewChatService(s.LLM, s.Models)
	if err := s.Markdown.SetTheme(s.Config.Theme()); err != nil {
		return nil, err
	}

	if err := s.register(s.LLM, s.Chat, s.Themes, s.Markdown, s.Thinking, s.Clipboard); err != nil {
		return nil, err
	}
	if err := s.Registry.InitializeAll(); err != nil {
		return nil, err
	}

	logger.Debug("Services initialized", "services", s.Registry.Names(), "provider", s.Models.Provider())
	return s, nil
}

func (s *Services) register(services ...chattypes.Service) error {
	for _, svc := range services {
		if err := s.Registry.RegisterService(svc); err != nil {
			return err
		}
	}
	return nil
}

func (s *Services) newClient(testMode bool) (chattypes.LLMClient, error) {
	if testMode {
		var thinking []string
		for _, m := range s.Models.Models() {
			if s.Models.IsThinking(m) {
				thinking = append(thinking, m)
			}
		}
		return NewMockLLMClient(thinking...), nil
	}

	provider := s.Models.Provider()
	apiKey, err := s.Config.APIKey(provider)
	if err != nil {
		return nil, err
	}
	client, err := s.Factory.GetClientForProvider(provider, apiKey, s.Models.BaseURL())
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", provider, err)
	}
	return client, nil
}
