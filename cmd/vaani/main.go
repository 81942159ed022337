package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/vaanihq/vaani/internal/bus"
	"github.com/vaanihq/vaani/internal/config"
	"github.com/vaanihq/vaani/internal/daemon"
	"github.com/vaanihq/vaani/internal/language"
	"github.com/vaanihq/vaani/internal/translate"
	"github.com/vaanihq/vaani/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "vaani",
		Short:        "Speak in one Indian language, read and hear it in another",
		SilenceUsage: true,
	}
	root.AddCommand(
		serveCmd(),
		sendCmd("toggle", "Start or stop listening", bus.CmdToggle),
		sendCmd("stop", "Stop listening", bus.CmdStop),
		sendCmd("status", "Show the current session status", bus.CmdStatus),
		sendCmd("version", "Get protocol version", bus.CmdVersion),
		sendCmd("quit", "Stop the daemon", bus.CmdQuit),
		configureCmd(),
		languagesCmd(),
		translateCmd(),
	)
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon and serve the widget",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := config.NewManager()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			defer m.Stop()

			d := daemon.New(m.GetConfig())
			if err := d.WatchConfig(m); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "config hot reload disabled: %v\n", err)
			}
			return d.Run()
		},
	}
}

// sendCmd builds a command that sends one byte to the daemon and prints the reply
func sendCmd(use, short string, b byte) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(b)
			if err != nil {
				return fmt.Errorf("failed to %s: %w", use, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp)
			if strings.HasPrefix(resp, "ERR") {
				return fmt.Errorf("daemon refused %s", use)
			}
			return nil
		},
	}
}

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		Long: `Interactive configuration for vaani.
This will guide you through setting up:
- Input and output languages
- The translation service (LibreTranslate, OpenAI-compatible or mock)
- The widget server address
- Notification preferences`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(cmd)
		},
	}
}

func runConfigure(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	listen := cfg.Server.Listen
	result, err := tui.Run(cfg)
	if err != nil {
		return fmt.Errorf("configuration wizard error: %w", err)
	}
	if result.Cancelled {
		fmt.Fprintln(cmd.OutOrStdout(), "Configuration cancelled.")
		return nil
	}

	if err := result.Config.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := config.Save(result.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, tui.StyleSuccess.Render("Configuration saved successfully!"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, tui.StyleMuted.Render("A running daemon picks up the change automatically."))
	if result.Config.Server.Listen != listen {
		fmt.Fprintln(out, tui.StyleWarning.Render("server.listen changed, restart the daemon to apply it."))
	}
	fmt.Fprintln(out, tui.StyleMuted.Render(fmt.Sprintf("Open http://%s/ to use the widget.", result.Config.Server.Listen)))
	return nil
}

func languagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), renderLanguages(language.List()))
		},
	}
}

func renderLanguages(langs []language.Language) string {
	cell := lipgloss.NewStyle().PaddingRight(3)
	head := cell.Bold(true).Foreground(tui.ColorPrimary)

	row := func(style lipgloss.Style, cols ...string) string {
		widths := []int{12, 6, 8}
		parts := make([]string, len(cols))
		for i, c := range cols {
			parts[i] = style.Width(widths[i] + 3).Render(c)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}

	var b strings.Builder
	b.WriteString(row(head, "LANGUAGE", "CODE", "LOCALE"))
	b.WriteString("\n")
	for _, l := range langs {
		b.WriteString(row(cell, l.Name, l.Code, l.Locale))
		b.WriteString("  ")
		b.WriteString(tui.StyleSubtle.Render(l.NativeName))
		b.WriteString("\n")
	}
	return b.String()
}

func translateCmd() *cobra.Command {
	var from, to, provider string

	cmd := &cobra.Command{
		Use:   "translate <text>",
		Short: "Translate text with the configured provider",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, ok := language.Parse(from)
			if !ok {
				return fmt.Errorf("unknown --from language %q (supported: %s)", from, strings.Join(language.Codes(), ", "))
			}
			dst, ok := language.Parse(to)
			if !ok {
				return fmt.Errorf("unknown --to language %q (supported: %s)", to, strings.Join(language.Codes(), ", "))
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if provider != "" {
				cfg.Translation.Provider = provider
			}

			p, err := translate.NewProvider(cfg.ToTranslateConfig())
			if err != nil {
				return fmt.Errorf("failed to create translation provider: %w", err)
			}
			client := translate.NewClient(p, cfg.Translation.Timeout)

			text := strings.Join(args, " ")
			fmt.Fprintln(cmd.OutOrStdout(), client.Translate(context.Background(), text, src.Code, dst.Code))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "en", "source language (name, code or locale)")
	cmd.Flags().StringVar(&to, "to", "hi", "target language (name, code or locale)")
	cmd.Flags().StringVar(&provider, "provider", "", "override translation.provider")
	return cmd
}
