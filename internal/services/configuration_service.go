package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"chatllm/internal/logger"
	"chatllm/pkg/stringprocessing"
)

// Configuration keys understood by chatllm.
const (
	KeyProvider       = "provider"
	KeyBaseURL        = "base_url"
	KeyDefaultModel   = "default_model"
	KeyModels         = "models"
	KeyThinkingModels = "thinking_models"
	KeySystemPrompt   = "system_prompt"
	KeyShowThinking   = "show_thinking"
	KeyServerAddr     = "server.addr"
	KeyTheme          = "theme"
	KeyAPIKey         = "api_key"
)

const (
	// EnvPrefix prefixes every environment variable read by the configuration.
	EnvPrefix = "CHATLLM"

	// EnvAPIKey overrides the credential of whichever provider is selected.
	EnvAPIKey = "CHATLLM_API_KEY"

	// DefaultProvider is used when no provider is configured.
	DefaultProvider = "groq"

	// DefaultServerAddr is the listen address of the browser surface.
	DefaultServerAddr = ":8501"

	configFileName = "chatllm.yaml"
	appDirName     = "chatllm"
)

// providerEnvVars maps each provider to its conventional credential variable.
var providerEnvVars = map[string]string{
	"groq":      "GROQ_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

// ProviderEnvVar returns the credential variable for provider.
func ProviderEnvVar(provider string) (string, bool) {
	name, ok := providerEnvVars[strings.ToLower(provider)]
	return name, ok
}

// ConfigurationOptions controls where the ConfigurationService looks for its sources.
// Zero values select the process defaults.
type ConfigurationOptions struct {
	// ConfigFile is an explicit config file; it must exist when set.
	ConfigFile string
	// WorkDir holds the local chatllm.yaml and .env. Defaults to the working directory.
	WorkDir string
	// ConfigDir holds config.yaml and .env. Defaults to $XDG_CONFIG_HOME/chatllm.
	ConfigDir string
	// Getenv reads the process environment. Defaults to os.Getenv.
	Getenv func(string) string
	// TestMode skips .env files so runs do not pick up local credentials.
	TestMode bool
}

// ConfigPaths reports which configuration sources were found.
type ConfigPaths struct {
	ConfigFile      string
	ConfigDir       string
	ConfigEnvPath   string
	ConfigEnvLoaded bool
	LocalEnvPath    string
	LocalEnvLoaded  bool
}

// ConfigurationService loads settings from the config file, CHATLLM_* environment
// variables and bound CLI flags, and resolves provider credentials.
type ConfigurationService struct {
	initialized bool
	opts        ConfigurationOptions
	v           *viper.Viper
	localEnv    map[string]string
	configEnv   map[string]string
	paths       ConfigPaths
}

// NewConfigurationService creates a ConfigurationService with its own viper instance.
func NewConfigurationService(opts ConfigurationOptions) *ConfigurationService {
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyProvider, DefaultProvider)
	v.SetDefault(KeyShowThinking, "true")
	v.SetDefault(KeyServerAddr, DefaultServerAddr)
	v.SetDefault(KeyTheme, "default")

	return &ConfigurationService{
		opts:      opts,
		v:         v,
		localEnv:  map[string]string{},
		configEnv: map[string]string{},
	}
}

// Name returns the service name "configuration" for registration.
func (c *ConfigurationService) Name() string {
	return "configuration"
}

// BindFlags binds CLI flags to configuration keys. Flags that were set win over
// every other source; unset flags fall through.
func (c *ConfigurationService) BindFlags(flags *pflag.FlagSet, bindings map[string]string) error {
	for key, flagName := range bindings {
		flag := flags.Lookup(flagName)
		if flag == nil {
			return fmt.Errorf("flag %q not defined", flagName)
		}
		if err := c.v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding flag %q: %w", flagName, err)
		}
	}
	return nil
}

// Initialize reads the config file and the .env files.
func (c *ConfigurationService) Initialize() error {
	if c.initialized {
		return nil
	}

	configDir, err := c.configDir()
	if err != nil {
		logger.Debug("No user config directory", "error", err)
	}
	c.paths.ConfigDir = configDir

	if err := c.readConfigFile(configDir); err != nil {
		return err
	}

	if !c.opts.TestMode {
		if configDir != "" {
			c.paths.ConfigEnvPath = filepath.Join(configDir, ".env")
			c.configEnv, c.paths.ConfigEnvLoaded, err = loadDotEnv(c.paths.ConfigEnvPath)
			if err != nil {
				return err
			}
		}

		c.paths.LocalEnvPath = filepath.Join(c.workDir(), ".env")
		c.localEnv, c.paths.LocalEnvLoaded, err = loadDotEnv(c.paths.LocalEnvPath)
		if err != nil {
			return err
		}
	}

	logger.Debug("Configuration loaded",
		"config_file", c.paths.ConfigFile,
		"local_env", c.paths.LocalEnvLoaded,
		"config_env", c.paths.ConfigEnvLoaded)

	c.initialized = true
	return nil
}

func (c *ConfigurationService) readConfigFile(configDir string) error {
	if c.opts.ConfigFile != "" {
		c.v.SetConfigFile(c.opts.ConfigFile)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", c.opts.ConfigFile, err)
		}
		c.paths.ConfigFile = c.opts.ConfigFile
		return nil
	}

	candidates := []string{filepath.Join(c.workDir(), configFileName)}
	if configDir != "" {
		candidates = append(candidates, filepath.Join(configDir, "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		c.v.SetConfigFile(path)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		c.paths.ConfigFile = path
		return nil
	}
	return nil
}

// loadDotEnv parses an .env file without touching the process environment.
// A missing file is not an error.
func loadDotEnv(path string) (map[string]string, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read .env file %s: %w", path, err)
	}

	envMap, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse .env file %s: %w", path, err)
	}
	return envMap, true, nil
}

func (c *ConfigurationService) workDir() string {
	if c.opts.WorkDir != "" {
		return c.opts.WorkDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func (c *ConfigurationService) configDir() (string, error) {
	if c.opts.ConfigDir != "" {
		return c.opts.ConfigDir, nil
	}
	if xdg := c.opts.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// Provider returns the selected provider, lower-cased.
func (c *ConfigurationService) Provider() string {
	return strings.ToLower(strings.TrimSpace(c.v.GetString(KeyProvider)))
}

// BaseURL returns the configured endpoint override, if any.
func (c *ConfigurationService) BaseURL() string {
	return strings.TrimSpace(c.v.GetString(KeyBaseURL))
}

// DefaultModel returns the configured startup model, if any.
func (c *ConfigurationService) DefaultModel() string {
	return strings.TrimSpace(c.v.GetString(KeyDefaultModel))
}

// Models returns the configured model list, or nil to use the catalog.
func (c *ConfigurationService) Models() []string {
	return c.list(KeyModels)
}

// ThinkingModels returns the configured thinking models, or nil to use the catalog.
func (c *ConfigurationService) ThinkingModels() []string {
	return c.list(KeyThinkingModels)
}

// SystemPrompt returns the system prompt sent ahead of every conversation.
func (c *ConfigurationService) SystemPrompt() string {
	return c.v.GetString(KeySystemPrompt)
}

// ShowThinking reports whether thinking panels are displayed at all.
// Values other than the recognized boolean words keep panels on.
func (c *ConfigurationService) ShowThinking() bool {
	return stringprocessing.FlagValue(c.v.GetString(KeyShowThinking), true)
}

// ServerAddr returns the listen address of the browser surface.
func (c *ConfigurationService) ServerAddr() string {
	return c.v.GetString(KeyServerAddr)
}

// Theme returns the terminal theme name.
func (c *ConfigurationService) Theme() string {
	return strings.ToLower(strings.TrimSpace(c.v.GetString(KeyTheme)))
}

// ConfigPaths returns the sources found during Initialize.
func (c *ConfigurationService) ConfigPaths() ConfigPaths {
	return c.paths
}

// Set overrides a key at the highest priority.
func (c *ConfigurationService) Set(key string, value any) {
	c.v.Set(key, value)
}

// APIKey resolves the credential for provider. Sources, highest priority first:
// CHATLLM_API_KEY, the provider variable, the local .env, the config-directory
// .env, and api_key in the config file.
func (c *ConfigurationService) APIKey(provider string) (string, error) {
	if !c.initialized {
		return "", fmt.Errorf("configuration: %w", ErrNotInitialized)
	}

	envVar, ok := ProviderEnvVar(provider)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	if key := c.opts.Getenv(EnvAPIKey); key != "" {
		return key, nil
	}
	if key := c.opts.Getenv(envVar); key != "" {
		return key, nil
	}
	for _, env := range []map[string]string{c.localEnv, c.configEnv} {
		for _, name := range []string{EnvAPIKey, envVar} {
			if key := env[name]; key != "" {
				return key, nil
			}
		}
	}
	if key := c.v.GetString(KeyAPIKey); key != "" {
		return key, nil
	}

	return "", fmt.Errorf("%w for provider %s: set %s or %s", ErrMissingAPIKey, provider, envVar, EnvAPIKey)
}

func (c *ConfigurationService) list(key string) []string {
	raw := c.v.GetStringSlice(key)
	var out []string
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
