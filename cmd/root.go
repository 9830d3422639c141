package cmd

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/simplechat/internal/app"
	"github.com/zhubert/simplechat/internal/config"
	"github.com/zhubert/simplechat/internal/logger"
	"github.com/zhubert/simplechat/internal/transport"
)

var (
	debugMode             bool
	quietMode             bool
	serverURL             string
	transportName         string
	sessionCookie         string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "simplechat",
	Short: "Terminal client for a simple chat server",
	Long: `simplechat is a terminal client for a small chat server. Browse users,
start chats with them and talk, over plain HTTP polling or a websocket that
pushes new messages.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", true, "Enable debug logging (on by default)")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().StringVar(&transportName, "transport", "", "Transport to use: http or socket (overrides config)")
	rootCmd.Flags().StringVar(&serverURL, "server", "", "Server base URL (overrides config)")
	rootCmd.Flags().StringVar(&sessionCookie, "cookie", "", "Cookie header sent with every request (overrides config)")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("simplechat %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("simplechat %s\n", version)
}

// applyFlags lets command-line values win over the config file for this run.
func applyFlags(cfg *config.Config) {
	if serverURL != "" {
		cfg.SetServerURL(serverURL)
	}
	if transportName != "" {
		cfg.SetTransport(transportName)
	}
	if sessionCookie != "" {
		cfg.SetSessionCookie(sessionCookie)
	}
}

// connect builds the transport the config asks for.
func connect(ctx context.Context, cfg *config.Config) (transport.Client, error) {
	opts := transport.Options{
		BaseURL: cfg.GetServerURL(),
		Cookie:  cfg.GetSessionCookie(),
	}
	if cfg.UsesSocket() {
		c, err := transport.DialSocket(ctx, opts)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return transport.NewHTTPClient(opts), nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	defer logger.Close()
	return runApp(cmd.Context(), cfg)
}

func runApp(ctx context.Context, cfg *config.Config) error {
	log := logger.WithComponent("cmd")

	client, err := connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("error connecting to %s: %w", cfg.GetServerURL(), err)
	}
	log.Info("starting", "version", version, "server", cfg.GetServerURL(), "transport", cfg.GetTransport())

	m := app.New(cfg, client)
	defer m.Shutdown()
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
