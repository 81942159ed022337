package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/vaanihq/vaani/internal/config"
	"github.com/vaanihq/vaani/internal/language"
)

// editSession edits the languages the widget starts with
func editSession(cfg *config.Config) error {
	translation := cfg.Session.Translation
	input := language.FromCode(cfg.Session.InputLanguage).Code
	output := language.FromCode(cfg.Session.OutputLanguage).Code
	speak := cfg.Session.Speak
	finalOnly := cfg.Session.FinalResultsOnly

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Translate recognized speech?").
				Value(&translation),
			huh.NewSelect[string]().
				Title("Input language").
				Description("The language you speak").
				Options(inputLanguageOptions()...).
				Value(&input),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output language").
				Description("Translations are shown and spoken in this language").
				OptionsFunc(func() []huh.Option[string] {
					return outputLanguageOptions(input)
				}, &input).
				Value(&output),
			huh.NewConfirm().
				Title("Read translations aloud?").
				Value(&speak),
		).WithHideFunc(func() bool { return !translation }),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Use final results only?").
				Description("Skip interim recognizer results; fewer, longer segments").
				Value(&finalOnly),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Session.Translation = translation
	cfg.Session.InputLanguage = languageName(input)
	cfg.Session.OutputLanguage = languageName(output)
	if input != "" && input == output {
		cfg.Session.OutputLanguage = ""
	}
	cfg.Session.Speak = speak
	cfg.Session.FinalResultsOnly = finalOnly
	return nil
}

func inputLanguageOptions() []huh.Option[string] {
	options := []huh.Option[string]{huh.NewOption("Choose in the widget", "")}
	for _, l := range language.List() {
		options = append(options, huh.NewOption(l.Label(), l.Code))
	}
	return options
}

// outputLanguageOptions lists every language except the chosen input
func outputLanguageOptions(inputCode string) []huh.Option[string] {
	options := []huh.Option[string]{huh.NewOption("Choose in the widget", "")}
	for _, l := range language.Except(language.FromCode(inputCode)) {
		options = append(options, huh.NewOption(l.Label(), l.Code))
	}
	return options
}

func languageName(code string) string {
	return language.FromCode(code).Name
}
