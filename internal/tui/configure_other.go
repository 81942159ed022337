package tui

import (
	"fmt"
	"net"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/vaanihq/vaani/internal/config"
)

func editServer(cfg *config.Config) error {
	listen := cfg.Server.Listen
	openBrowser := cfg.Server.OpenBrowser

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Listen address").
				Description("host:port the widget is served on").
				Placeholder(config.DefaultListen).
				Validate(validateListen).
				Value(&listen),
			huh.NewConfirm().
				Title("Open the widget in a browser when the daemon starts?").
				Value(&openBrowser),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Server.Listen = strings.TrimSpace(listen)
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = config.DefaultListen
	}
	cfg.Server.OpenBrowser = openBrowser
	return nil
}

func validateListen(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(s); err != nil {
		return fmt.Errorf("expected host:port")
	}
	return nil
}

func editNotifications(cfg *config.Config) error {
	enabled := cfg.Notifications.Enabled
	notifType := cfg.Notifications.Type
	if notifType == "" {
		notifType = "desktop"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable notifications?").
				Description("Session start/stop, recognition errors, unsupported browser").
				Value(&enabled),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Notification Type").
				Options(
					huh.NewOption("Desktop notifications", "desktop"),
					huh.NewOption("Log to console only", "log"),
					huh.NewOption("None (silent)", "none"),
				).
				Value(&notifType),
		).WithHideFunc(func() bool { return !enabled }),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Notifications.Enabled = enabled
	cfg.Notifications.Type = notifType
	return nil
}
