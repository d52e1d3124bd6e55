// Package assist generates commit messages from staged diffs through an
// OpenAI-compatible chat API (OpenRouter).
package assist

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultModel      = "openai/gpt-4o-mini"
)

// Config carries OpenRouter credentials and attribution headers.
type Config struct {
	APIKey  string
	Model   string
	Referer string
	Title   string
}

// ConfigFromEnv reads OPENROUTER_* variables. A missing key is an error;
// everything else has a default or is optional.
func ConfigFromEnv() (Config, error) {
	key := os.Getenv("OPENROUTER_API_KEY")
	if strings.TrimSpace(key) == "" {
		return Config{}, fmt.Errorf("OPENROUTER_API_KEY is not set")
	}
	model := os.Getenv("OPENROUTER_MODEL")
	if model == "" {
		model = defaultModel
	}
	return Config{
		APIKey:  key,
		Model:   model,
		Referer: os.Getenv("OPENROUTER_REFERER"),
		Title:   os.Getenv("OPENROUTER_TITLE"),
	}, nil
}

// Generator produces a commit message for a staged diff.
type Generator interface {
	CommitMessage(ctx context.Context, stagedDiff string) (string, error)
}

// OpenRouter is the default Generator.
type OpenRouter struct {
	client *openai.Client
	model  string
}

// NewOpenRouter builds a client pointed at the OpenRouter endpoint.
func NewOpenRouter(cfg Config) *OpenRouter {
	cc := openai.DefaultConfig(cfg.APIKey)
	cc.BaseURL = openRouterBaseURL
	cc.HTTPClient = &http.Client{
		Transport: &headerTransport{
			base:    http.DefaultTransport,
			referer: cfg.Referer,
			title:   cfg.Title,
		},
	}
	return &OpenRouter{
		client: openai.NewClientWithConfig(cc),
		model:  cfg.Model,
	}
}

const systemPrompt = "You write git commit messages. " +
	"Output only the commit message text (no code fences, no quotes). " +
	"Prefer 1 line summary, optionally blank line + short body. " +
	"Use imperative mood."

// CommitMessage asks the model for a message describing the staged diff.
// The result is sanitized but otherwise forwarded as-is.
func (o *OpenRouter) CommitMessage(ctx context.Context, stagedDiff string) (string, error) {
	if strings.TrimSpace(stagedDiff) == "" {
		return "", fmt.Errorf("nothing staged to describe")
	}

	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Write a commit message for this staged diff:\n\n" + stagedDiff},
		},
		Temperature: 0.2,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("commit message request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("commit message request: empty response")
	}
	return sanitizeMessage(resp.Choices[0].Message.Content), nil
}

// sanitizeMessage strips code fences the model may wrap around the
// message despite the prompt.
func sanitizeMessage(s string) string {
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		line = strings.TrimRight(line, " \t")
		if strings.HasPrefix(line, "```") {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// headerTransport adds OpenRouter's optional attribution headers.
type headerTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	return t.base.RoundTrip(req)
}
