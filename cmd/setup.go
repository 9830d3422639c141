package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	huh "charm.land/huh/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/simplechat/internal/config"
	"github.com/zhubert/simplechat/internal/ui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively write the config file",
	Long: `Walks through the server address, transport and display options and
saves them to the config file. Existing values are offered as defaults.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// setupValues mirrors the config fields as the form edits them.
type setupValues struct {
	serverURL     string
	transport     string
	cookie        string
	pollMS        string
	alertOnError  bool
	notifications bool
	theme         string
}

func valuesFromConfig(cfg *config.Config) *setupValues {
	return &setupValues{
		serverURL:     cfg.GetServerURL(),
		transport:     cfg.GetTransport(),
		cookie:        cfg.GetSessionCookie(),
		pollMS:        strconv.FormatInt(cfg.GetPollInterval().Milliseconds(), 10),
		alertOnError:  cfg.GetAlertOnError(),
		notifications: cfg.GetNotificationsEnabled(),
		theme:         cfg.GetTheme(),
	}
}

// apply copies the form values into cfg and validates the result.
func (v *setupValues) apply(cfg *config.Config) error {
	ms, err := parsePollInterval(v.pollMS)
	if err != nil {
		return err
	}
	cfg.SetServerURL(v.serverURL)
	cfg.SetTransport(v.transport)
	cfg.SetSessionCookie(v.cookie)
	cfg.SetPollInterval(time.Duration(ms) * time.Millisecond)
	cfg.SetAlertOnError(v.alertOnError)
	cfg.SetNotificationsEnabled(v.notifications)
	cfg.SetTheme(v.theme)
	return cfg.Validate()
}

func parsePollInterval(s string) (int, error) {
	ms, err := strconv.Atoi(s)
	if err != nil || ms <= 0 {
		return 0, fmt.Errorf("poll interval must be a positive number of milliseconds")
	}
	return ms, nil
}

func validateServerURL(s string) error {
	cfg := config.Default()
	cfg.SetServerURL(s)
	return cfg.Validate()
}

func setupForm(v *setupValues) *huh.Form {
	themes := ui.ThemeNames()
	themeOptions := make([]huh.Option[string], len(themes))
	for i, name := range themes {
		themeOptions[i] = huh.NewOption(ui.GetTheme(name).Name, string(name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server URL").
				Placeholder(config.DefaultServerURL).
				Validate(validateServerURL).
				Value(&v.serverURL),
			huh.NewSelect[string]().
				Title("Transport").
				Options(
					huh.NewOption("HTTP polling", config.TransportHTTP),
					huh.NewOption("Websocket push", config.TransportSocket),
				).
				Value(&v.transport),
			huh.NewInput().
				Title("Session cookie").
				Description("Sent as the Cookie header, e.g. session=abc123").
				Value(&v.cookie),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Poll interval (ms)").
				Validate(func(s string) error {
					_, err := parsePollInterval(s)
					return err
				}).
				Value(&v.pollMS),
			huh.NewConfirm().
				Title("Show an alert when a request fails?").
				Value(&v.alertOnError),
			huh.NewConfirm().
				Title("Desktop notifications for new messages?").
				Value(&v.notifications),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOptions...).
				Value(&v.theme),
		),
	).WithTheme(ui.FormTheme())
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if cfg.GetTheme() != "" {
		ui.SetThemeByName(cfg.GetTheme())
	}

	v := valuesFromConfig(cfg)
	if v.theme == "" {
		v.theme = string(ui.DefaultTheme)
	}
	if err := setupForm(v).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("Aborted.")
			return nil
		}
		return err
	}

	if err := v.apply(cfg); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}
	fmt.Printf("Saved %s\n", cfg.FilePath())
	return nil
}
