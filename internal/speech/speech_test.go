package speech

import (
	"errors"
	"fmt"
	"testing"
)

func TestRecognitionError(t *testing.T) {
	err := fmt.Errorf("session failed: %w", &RecognitionError{Code: CodeNetwork})
	if !IsRecognitionError(err) {
		t.Fatal("wrapped RecognitionError should be detected")
	}

	var re *RecognitionError
	if !errors.As(err, &re) || re.Code != CodeNetwork {
		t.Fatalf("errors.As failed, got %v", re)
	}
	if re.Error() != "speech recognition error: network" {
		t.Errorf("Error() = %q", re.Error())
	}

	var nilErr *RecognitionError
	if nilErr.Error() != "speech recognition error" {
		t.Errorf("nil Error() = %q", nilErr.Error())
	}

	if IsRecognitionError(errors.New("plain")) {
		t.Error("plain error should not be a RecognitionError")
	}
}

func TestIsBenign(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{CodeAborted, true},
		{CodeNoSpeech, false},
		{CodeNetwork, false},
		{CodeNotAllowed, false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := IsBenign(tt.code); got != tt.want {
				t.Errorf("IsBenign(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
