package translate

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/vaanihq/vaani/internal/language"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIAdapter implements Provider using chat completions.
// BaseURL points it at any OpenAI-compatible server.
type OpenAIAdapter struct {
	client *openai.Client
	model  string
}

func NewOpenAIAdapter(cfg Config) *OpenAIAdapter {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIAdapter{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

func (a *OpenAIAdapter) Translate(ctx context.Context, text, source, target string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: BuildSystemPrompt(source, target)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0.2,
	}

	start := time.Now()
	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Printf("openai-translate-adapter: API call failed after %v: %v", time.Since(start), err)
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion: no response choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// BuildSystemPrompt generates the translation instructions for a language pair
func BuildSystemPrompt(source, target string) string {
	var b strings.Builder
	b.WriteString("You are a translation engine for live speech transcripts.\n\n")
	fmt.Fprintf(&b, "Translate the user's text from %s to %s.\n\n", displayName(source), displayName(target))
	b.WriteString("Rules:\n")
	b.WriteString("- Output ONLY the translation, nothing else\n")
	b.WriteString("- Keep names and numbers as they are\n")
	b.WriteString("- The text may be a fragment of a longer sentence; translate it as-is\n")
	return b.String()
}

func displayName(code string) string {
	if lang, ok := language.Parse(code); ok {
		return fmt.Sprintf("%s (%s)", lang.Name, lang.Code)
	}
	return code
}
