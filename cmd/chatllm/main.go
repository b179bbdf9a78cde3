// Package main provides the chatllm CLI entry point.
// chatllm is a chat front-end for hosted LLMs with a terminal shell and a browser surface.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"chatllm/internal/logger"
	"chatllm/internal/server"
	"chatllm/internal/services"
	"chatllm/internal/session"
	"chatllm/internal/shell"
	"chatllm/internal/testutils"
	"chatllm/internal/version"
)

var (
	logLevel   string
	logFile    string
	configFile string
	testMode   bool
	detailed   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatllm",
	Short: "chatllm - chat with hosted LLMs from the terminal or the browser",
	Long: `chatllm forwards prompts to a hosted LLM and shows the replies, with reasoning
models' thinking split from the final answer. Conversations are kept per session
and can be archived, browsed and resumed.`,
	PersistentPreRunE: configureLogger,
	RunE:              runShell, // Default behavior is to run the interactive shell
	SilenceUsage:      true,
}

// shellCmd represents the shell command (explicit version of default behavior)
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive terminal chat",
	RunE:  runShell,
}

// serveCmd serves the browser surface
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser chat over HTTP and WebSocket",
	Long: `Serve the browser chat. Each browser connection gets its own conversation
store; Prometheus metrics are exposed at /metrics.`,
	RunE: runServe,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		if detailed {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetDetailedVersion())
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), version.GetFormattedVersion())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	flags.StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	flags.StringVar(&configFile, "config", "", "Read configuration from this file")
	flags.String("provider", "", "LLM provider (openai|anthropic|gemini|groq)")
	flags.String("model", "", "Model to start with")
	flags.BoolVar(&testMode, "test-mode", false, "Use a deterministic local model instead of a provider")

	serveCmd.Flags().String("addr", "", "Listen address [default: "+services.DefaultServerAddr+"]")
	versionCmd.Flags().BoolVar(&detailed, "detailed", false, "Show build details")

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func configureLogger(_ *cobra.Command, _ []string) error {
	if err := logger.Configure(logLevel, logFile, testMode); err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}
	if err := version.ValidateVersion(); err != nil {
		logger.Warn("Build version is not a semantic version", "error", err)
	}
	return nil
}

// flagBindings maps configuration keys to the flags that override them.
func flagBindings(cmd *cobra.Command) map[string]string {
	bindings := map[string]string{
		services.KeyProvider:     "provider",
		services.KeyDefaultModel: "model",
	}
	if cmd.Flags().Lookup("addr") != nil {
		bindings[services.KeyServerAddr] = "addr"
	}
	return bindings
}

func bootstrap(cmd *cobra.Command) *services.Services {
	svcs, err := services.Bootstrap(services.BootstrapOptions{
		Config: services.ConfigurationOptions{
			ConfigFile: configFile,
			TestMode:   testMode,
		},
		Flags:        cmd.Flags(),
		FlagBindings: flagBindings(cmd),
		TestMode:     testMode,
	})
	if err != nil {
		logger.Fatal("Failed to initialize services", "error", err)
	}
	return svcs
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newStore creates a conversation store. Test mode uses reproducible labels and IDs.
func newStore() *session.Store {
	if testMode {
		ids := &testutils.SequentialIDs{}
		return session.NewWithGenerators(testutils.NewDefaultClock().Now, ids.Next)
	}
	return session.New()
}

func runShell(cmd *cobra.Command, _ []string) error {
	logger.Info("Starting chatllm shell", "version", version.GetVersion())
	svcs := bootstrap(cmd)

	theme := svcs.Themes.GetThemeByName(svcs.Config.Theme())
	rl, err := shell.NewReadline(os.Stdin, os.Stdout, theme, svcs.Models.Models)
	if err != nil {
		return fmt.Errorf("starting line editor: %w", err)
	}

	surface := shell.NewTerminalSurface(rl.Stdout(), shell.SurfaceOptions{
		Theme:        theme,
		Markdown:     svcs.Markdown,
		Thinking:     svcs.Thinking,
		ShowThinking: svcs.Config.ShowThinking(),
	})
	sh := shell.New(shell.Config{
		Store:     newStore(),
		Chat:      svcs.Chat,
		Models:    svcs.Models,
		Clipboard: svcs.Clipboard,
		Surface:   surface,
	})

	ctx, stop := signalContext()
	defer stop()

	sh.Banner()
	return sh.Run(ctx, rl)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger.Info("Starting chatllm server", "version", version.GetVersion())
	svcs := bootstrap(cmd)

	srv := server.New(server.Options{
		Addr:     svcs.Config.ServerAddr(),
		Chat:     svcs.Chat,
		Models:   svcs.Models,
		NewStore: newStore,
	})

	ctx, stop := signalContext()
	defer stop()

	return srv.ListenAndServe(ctx)
}
