// Package selector derives the language-selection view from the current
// selection. Everything here is a pure function of Selection.
package selector

import (
	"errors"
	"fmt"

	"github.com/vaanihq/vaani/internal/language"
)

var (
	ErrNoInput       = errors.New("input language not selected")
	ErrNoOutput      = errors.New("output language not selected")
	ErrSameLanguage  = errors.New("output language must differ from input language")
	ErrUnknownChoice = errors.New("unknown language")
)

// Selection is what the user has picked so far
type Selection struct {
	Translation bool
	Input       language.Language
	Output      language.Language
}

// View is everything the widget needs to render the selectors
type View struct {
	InputOptions      []language.Language
	OutputOptions     []language.Language
	ShowOutput        bool
	CanStart          bool
	RecognizedLabel   string
	TranslatedLabel   string
	ValidationMessage string
}

// WithTranslation toggles translation. Selections are kept so that turning
// translation back on restores the previous output choice.
func (s Selection) WithTranslation(enabled bool) Selection {
	s.Translation = enabled
	return s
}

// WithInput selects the input language. An output equal to the new input is cleared.
func (s Selection) WithInput(lang language.Language) Selection {
	s.Input = lang
	if !lang.IsNone() && s.Output == lang {
		s.Output = language.None
	}
	return s
}

// WithOutput selects the output language. An input equal to the new output is cleared.
func (s Selection) WithOutput(lang language.Language) Selection {
	s.Output = lang
	if !lang.IsNone() && s.Input == lang {
		s.Input = language.None
	}
	return s
}

// SelectInput parses a name/code/locale and applies WithInput; empty clears.
func (s Selection) SelectInput(choice string) (Selection, error) {
	lang, err := parseChoice(choice)
	if err != nil {
		return s, err
	}
	return s.WithInput(lang), nil
}

// SelectOutput parses a name/code/locale and applies WithOutput; empty clears.
func (s Selection) SelectOutput(choice string) (Selection, error) {
	lang, err := parseChoice(choice)
	if err != nil {
		return s, err
	}
	return s.WithOutput(lang), nil
}

func parseChoice(choice string) (language.Language, error) {
	if choice == "" {
		return language.None, nil
	}
	lang, ok := language.Parse(choice)
	if !ok {
		return language.None, fmt.Errorf("%w: %q", ErrUnknownChoice, choice)
	}
	return lang, nil
}

// Validate is the start guard
func (s Selection) Validate() error {
	if s.Input.IsNone() {
		return ErrNoInput
	}
	if !s.Translation {
		return nil
	}
	if s.Output.IsNone() {
		return ErrNoOutput
	}
	if s.Output == s.Input {
		return ErrSameLanguage
	}
	return nil
}

// OutputOptions lists every language except the current input
func (s Selection) OutputOptions() []language.Language {
	return language.Except(s.Input)
}

// View derives the full selector view
func (s Selection) View() View {
	v := View{
		InputOptions:    language.List(),
		OutputOptions:   s.OutputOptions(),
		ShowOutput:      s.Translation,
		RecognizedLabel: "Recognized Text",
	}

	if s.Translation {
		v.RecognizedLabel = fmt.Sprintf("Input (%s)", s.Input)
		v.TranslatedLabel = fmt.Sprintf("Translated Text (%s)", s.Output)
	}

	if err := s.Validate(); err != nil {
		v.ValidationMessage = err.Error()
	} else {
		v.CanStart = true
	}

	return v
}
