package language

import "strings"

// Language represents a language the widget can listen in and speak
type Language struct {
	Name       string // English name (e.g., "Hindi")
	Code       string // ISO 639-1 code used for translation (e.g., "hi")
	Locale     string // BCP 47 locale used for recognition and synthesis (e.g., "hi-IN")
	NativeName string // Native name (e.g., "हिन्दी")
}

// None is the zero Language, meaning "not selected"
var None = Language{}

var (
	Hindi     = Language{Name: "Hindi", Code: "hi", Locale: "hi-IN", NativeName: "हिन्दी"}
	English   = Language{Name: "English", Code: "en", Locale: "en-US", NativeName: "English"}
	Kannada   = Language{Name: "Kannada", Code: "kn", Locale: "kn-IN", NativeName: "ಕನ್ನಡ"}
	Malayalam = Language{Name: "Malayalam", Code: "ml", Locale: "ml-IN", NativeName: "മലയാളം"}
)

// languages is the closed, ordered set shown in the selectors
var languages = []Language{Hindi, English, Kannada, Malayalam}

// lookup maps lowercased names, codes and locales to their Language
var lookup map[string]Language

func init() {
	lookup = make(map[string]Language, len(languages)*3)
	for _, lang := range languages {
		lookup[strings.ToLower(lang.Name)] = lang
		lookup[strings.ToLower(lang.Code)] = lang
		lookup[strings.ToLower(lang.Locale)] = lang
	}
}

// Parse resolves a name ("Hindi"), code ("hi") or locale ("hi-IN"),
// case-insensitively. Returns None and false for anything else.
func Parse(s string) (Language, bool) {
	lang, ok := lookup[strings.ToLower(strings.TrimSpace(s))]
	return lang, ok
}

// FromCode returns the Language for the given code, name or locale.
// Returns None if it is not part of the set.
func FromCode(s string) Language {
	lang, _ := Parse(s)
	return lang
}

// List returns all supported languages in display order
func List() []Language {
	result := make([]Language, len(languages))
	copy(result, languages)
	return result
}

// Except returns the supported languages minus the given one, preserving order
func Except(excluded Language) []Language {
	result := make([]Language, 0, len(languages))
	for _, lang := range languages {
		if lang != excluded {
			result = append(result, lang)
		}
	}
	return result
}

// Codes returns all short codes
func Codes() []string {
	codes := make([]string, len(languages))
	for i, lang := range languages {
		codes[i] = lang.Code
	}
	return codes
}

// IsValidCode returns true if s names a supported language
func IsValidCode(s string) bool {
	_, ok := Parse(s)
	return ok
}

// IsNone reports whether the language is unselected
func (l Language) IsNone() bool {
	return l == None
}

func (l Language) String() string {
	if l.IsNone() {
		return ""
	}
	return l.Name
}

// Label renders "Hindi (हिन्दी)" style labels for selectors
func (l Language) Label() string {
	if l.IsNone() {
		return ""
	}
	if l.NativeName == "" || l.NativeName == l.Name {
		return l.Name
	}
	return l.Name + " (" + l.NativeName + ")"
}
