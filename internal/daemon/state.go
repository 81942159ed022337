package daemon

import (
	"github.com/vaanihq/vaani/internal/language"
	"github.com/vaanihq/vaani/internal/session"
)

// widgetState is the snapshot pushed to the page, with the selector view
type widgetState struct {
	session.Snapshot
	View widgetView `json:"view"`
}

type widgetView struct {
	InputOptions      []option `json:"inputOptions"`
	OutputOptions     []option `json:"outputOptions"`
	InputValue        string   `json:"inputValue"`
	OutputValue       string   `json:"outputValue"`
	ShowOutput        bool     `json:"showOutput"`
	CanStart          bool     `json:"canStart"`
	RecognizedLabel   string   `json:"recognizedLabel"`
	TranslatedLabel   string   `json:"translatedLabel"`
	ValidationMessage string   `json:"validationMessage,omitempty"`
}

type option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func newWidgetState(snap session.Snapshot) widgetState {
	v := snap.Selection.View()
	return widgetState{
		Snapshot: snap,
		View: widgetView{
			InputOptions:      viewOptions(v.InputOptions),
			OutputOptions:     viewOptions(v.OutputOptions),
			InputValue:        snap.Selection.Input.Code,
			OutputValue:       snap.Selection.Output.Code,
			ShowOutput:        v.ShowOutput,
			CanStart:          v.CanStart,
			RecognizedLabel:   v.RecognizedLabel,
			TranslatedLabel:   v.TranslatedLabel,
			ValidationMessage: v.ValidationMessage,
		},
	}
}

func viewOptions(langs []language.Language) []option {
	out := make([]option, 0, len(langs))
	for _, l := range langs {
		out = append(out, option{Value: l.Code, Label: l.Label()})
	}
	return out
}
